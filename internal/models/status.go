package models

// Platform identifies a supported content platform.
type Platform string

const (
	PlatformDouyin      Platform = "douyin"
	PlatformXiaohongshu Platform = "xiaohongshu"
	PlatformBilibili    Platform = "bilibili"
	PlatformWechat      Platform = "wechat"
	PlatformYouTube     Platform = "youtube"
)

// TaskStatus is the overall status of a [PublishTask]. It is always a pure
// function of the task's entry statuses, computed by [AggregateStatus].
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskPublishing TaskStatus = "publishing"
	TaskCompleted  TaskStatus = "completed"
	TaskPartial    TaskStatus = "partial"
	TaskFailed     TaskStatus = "failed"
)

// Terminal reports whether the task status is final.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskCompleted, TaskPartial, TaskFailed:
		return true
	}
	return false
}

// EntryStatus is the automation status of one [TaskPlatform]. Transitions only
// move forward or to failed; see [EntryStatus.CanTransition].
type EntryStatus string

const (
	EntryPending        EntryStatus = "pending"
	EntryUploading      EntryStatus = "uploading"
	EntryFilling        EntryStatus = "filling"
	EntryWaitingConfirm EntryStatus = "waiting_confirm"
	EntryPublished      EntryStatus = "published"
	EntryFailed         EntryStatus = "failed"
)

// entryRank orders the forward path. Failed is reachable from any
// non-terminal state and has no rank.
var entryRank = map[EntryStatus]int{
	EntryPending:        0,
	EntryUploading:      1,
	EntryFilling:        2,
	EntryWaitingConfirm: 3,
	EntryPublished:      4,
}

// Terminal reports whether the entry status is final for automation purposes.
// waiting_confirm counts: the human completes the rest and the orchestrator
// never re-enters the entry.
func (s EntryStatus) Terminal() bool {
	switch s {
	case EntryWaitingConfirm, EntryPublished, EntryFailed:
		return true
	}
	return false
}

// CanTransition reports whether the status may move to next. Allowed moves are
// strictly forward along the upload path, or to failed from any non-terminal
// state. Terminal statuses never move.
func (s EntryStatus) CanTransition(next EntryStatus) bool {
	if s.Terminal() || s == next {
		return false
	}
	if next == EntryFailed {
		return true
	}
	from, ok := entryRank[s]
	if !ok {
		return false
	}
	to, ok := entryRank[next]
	if !ok {
		return false
	}
	return to > from
}

// AggregateStatus reduces a set of entry statuses to the owning task's status.
//
// completed iff every entry is published; failed iff every entry is failed;
// publishing while any entry is still short of terminal; partial for any other
// mix, including entries waiting on manual follow-through. The reduction is
// order-independent.
func AggregateStatus(statuses []EntryStatus) TaskStatus {
	if len(statuses) == 0 {
		return TaskPending
	}

	published, failed := 0, 0
	for _, s := range statuses {
		if !s.Terminal() {
			return TaskPublishing
		}
		switch s {
		case EntryPublished:
			published++
		case EntryFailed:
			failed++
		}
	}

	switch {
	case published == len(statuses):
		return TaskCompleted
	case failed == len(statuses):
		return TaskFailed
	default:
		return TaskPartial
	}
}

// SessionMode describes how an automation session was obtained.
type SessionMode string

const (
	SessionReusedExisting SessionMode = "reused_existing"
	SessionLaunchedNew    SessionMode = "launched_new"
	SessionManualOnly     SessionMode = "manual_only"
)

// AutomationPhase is the driver's report of how far it got on the upload page.
type AutomationPhase string

const (
	PhaseUploadStarted    AutomationPhase = "upload_started"
	PhaseManualContinue   AutomationPhase = "manual_continue"
	PhaseAutomationFailed AutomationPhase = "automation_failed"
	PhaseTimeout          AutomationPhase = "timeout"
)
