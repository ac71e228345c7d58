package tasks

import (
	"fmt"

	"github.com/crosspub/crosspub/internal/models"
)

// Phase identifies the stage of a publish task a progress update refers to.
type Phase int

const (
	PhaseValidate Phase = iota
	PhaseResolveSession
	PhaseDrive
	PhaseEntryDone
	PhaseTaskDone
)

func (p Phase) String() string {
	switch p {
	case PhaseValidate:
		return "validate"
	case PhaseResolveSession:
		return "resolve_session"
	case PhaseDrive:
		return "drive"
	case PhaseEntryDone:
		return "entry_done"
	case PhaseTaskDone:
		return "task_done"
	default:
		return "unknown"
	}
}

// ProgressUpdate is a single progress event emitted while a task runs.
// Completed/Total count terminal entries over selected accounts; Result is
// set on PhaseEntryDone and Status on PhaseTaskDone.
type ProgressUpdate struct {
	TaskID    string
	Phase     Phase
	AccountID string
	Platform  models.Platform
	Message   string
	Completed int
	Total     int
	Result    *PlatformTaskResult
	Status    models.TaskStatus
}

func validateUpdate(taskID string, total int) ProgressUpdate {
	return ProgressUpdate{
		TaskID:  taskID,
		Phase:   PhaseValidate,
		Message: fmt.Sprintf("publishing to %d account(s)", total),
		Total:   total,
	}
}

func resolveSessionUpdate(taskID string, account *models.Account, total int) ProgressUpdate {
	return ProgressUpdate{
		TaskID:    taskID,
		Phase:     PhaseResolveSession,
		AccountID: account.ID(),
		Platform:  account.Platform(),
		Message:   fmt.Sprintf("resolving browser session for %s", account.DisplayName()),
		Total:     total,
	}
}

func driveUpdate(taskID string, account *models.Account, total int) ProgressUpdate {
	return ProgressUpdate{
		TaskID:    taskID,
		Phase:     PhaseDrive,
		AccountID: account.ID(),
		Platform:  account.Platform(),
		Message:   fmt.Sprintf("driving upload page for %s", account.DisplayName()),
		Total:     total,
	}
}

func entryDoneUpdate(taskID string, result PlatformTaskResult, completed, total int) ProgressUpdate {
	return ProgressUpdate{
		TaskID:    taskID,
		Phase:     PhaseEntryDone,
		AccountID: result.AccountID,
		Platform:  result.Platform,
		Message:   result.Message,
		Completed: completed,
		Total:     total,
		Result:    &result,
	}
}

func taskDoneUpdate(taskID string, status models.TaskStatus, completed, total int) ProgressUpdate {
	return ProgressUpdate{
		TaskID:    taskID,
		Phase:     PhaseTaskDone,
		Message:   fmt.Sprintf("task finished with status %s", status),
		Completed: completed,
		Total:     total,
		Status:    status,
	}
}

// sendProgress delivers an update without blocking. A nil or full channel
// drops the update; runners never stall on a slow consumer.
func sendProgress(ch chan<- ProgressUpdate, update ProgressUpdate) {
	if ch == nil {
		return
	}
	select {
	case ch <- update:
	default:
	}
}
