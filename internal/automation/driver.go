// Package automation drives a platform's upload page through a resolved
// browser session.
//
// The orchestrator consumes the [Driver] interface as an opaque capability:
// it hands over a session and a fill request, and gets back an [Outcome]
// describing how far the driver got. New automation backends implement Driver;
// orchestrator logic never changes.
package automation

import (
	"context"

	"github.com/crosspub/crosspub/internal/models"
	"github.com/crosspub/crosspub/internal/platforms"
	"github.com/crosspub/crosspub/internal/session"
	"github.com/crosspub/crosspub/internal/shared"
)

// FillRequest is the resolved metadata for one (task, account) pair, with
// per-platform overrides already applied over the task defaults.
type FillRequest struct {
	VideoPath   string
	Title       string
	Description string
	Tags        []string
	CoverPath   string
	IsOriginal  bool

	// ManualConfirm leaves final submission to the user. When false, the
	// driver attempts unattended submit on platforms whose spec allows it.
	ManualConfirm bool
}

// Outcome is the driver's report of one drive attempt.
type Outcome struct {
	Phase     models.AutomationPhase
	Code      shared.Code // set when Phase is automation_failed or timeout
	Message   string
	Submitted bool // true when the driver completed final submission itself
}

// Driver manipulates a platform upload page through a live session.
//
// Implementations respect ctx for cancellation and deadlines but do not own
// the overall time budget; the per-account runner does. A returned error is
// an automation failure and carries a stable [shared.Code].
type Driver interface {
	Drive(ctx context.Context, sess *session.Session, spec platforms.Spec, fill FillRequest) (Outcome, error)
}
