package tasks

import (
	"github.com/crosspub/crosspub/internal/models"
	"github.com/crosspub/crosspub/internal/shared"
)

// ResultStatus is the boundary-facing verdict for one (task, account) pair.
type ResultStatus string

const (
	// ResultAutomated means the form was filled and submission was triggered.
	ResultAutomated ResultStatus = "automated"
	// ResultLaunched means a browser window is open and waiting on the user.
	ResultLaunched ResultStatus = "launched"
	// ResultFailed means the pair terminated with an error code.
	ResultFailed ResultStatus = "failed"
)

// PlatformTaskResult is the per-account outcome of one publish round. It is
// what API and UI consumers see; the persisted entry carries the same code
// and message.
type PlatformTaskResult struct {
	AccountID   string                 `json:"accountId"`
	Platform    models.Platform        `json:"platform"`
	Status      ResultStatus           `json:"status"`
	Message     string                 `json:"message,omitempty"`
	Code        shared.Code            `json:"code,omitempty"`
	Hint        string                 `json:"hint,omitempty"`
	SessionMode models.SessionMode     `json:"sessionMode,omitempty"`
	DebugPort   int                    `json:"debugPort,omitempty"`
	Phase       models.AutomationPhase `json:"phase,omitempty"`
}

// PublishResult is the aggregate outcome of one Submit call.
type PublishResult struct {
	TaskID        string               `json:"taskId"`
	Status        models.TaskStatus    `json:"status"`
	PlatformTasks []PlatformTaskResult `json:"platformTasks"`
}
