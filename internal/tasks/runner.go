package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/crosspub/crosspub/internal/automation"
	"github.com/crosspub/crosspub/internal/models"
	"github.com/crosspub/crosspub/internal/platforms"
	"github.com/crosspub/crosspub/internal/session"
	"github.com/crosspub/crosspub/internal/shared"
)

// SessionResolver resolves a debuggable browser session for an account.
// Satisfied by *session.Resolver.
type SessionResolver interface {
	Resolve(ctx context.Context, account *models.Account, openURL string) (*session.Session, error)
	Release(sess *session.Session)
}

// accountRunner executes one (task, account) pair. It owns the entry
// exclusively for the duration of the round; no other goroutine touches it.
type accountRunner struct {
	resolver      SessionResolver
	driver        automation.Driver
	store         TaskStore
	logger        *log.Logger
	driveTimeout  time.Duration
	manualConfirm bool
}

// run takes the entry from pending to a terminal status and returns the
// boundary-facing result. Persistence failures are logged but never change
// the outcome reported to the caller.
func (r *accountRunner) run(ctx context.Context, task *models.PublishTask, entry *models.TaskPlatform, account *models.Account) PlatformTaskResult {
	result := PlatformTaskResult{
		AccountID: account.ID(),
		Platform:  account.Platform(),
	}

	spec, ok := platforms.Get(account.Platform())
	if !ok {
		return r.failEntry(entry, &result, models.PhaseAutomationFailed,
			shared.CodeLaunchFailed, fmt.Sprintf("no platform registered for %q", account.Platform()))
	}

	if err := ctx.Err(); err != nil {
		return r.failEntry(entry, &result, models.PhaseAutomationFailed,
			shared.CodeCancelled, "task cancelled before session resolution")
	}

	sess, err := r.resolver.Resolve(ctx, account, spec.UploadURL)
	if err != nil {
		code := shared.CodeOf(err)
		if code == "" {
			code = shared.CodeLaunchFailed
		}
		if errors.Is(err, context.Canceled) {
			code = shared.CodeCancelled
		}
		return r.failEntry(entry, &result, models.PhaseAutomationFailed, code, err.Error())
	}
	defer r.resolver.Release(sess)

	result.SessionMode = sess.Mode
	result.DebugPort = sess.Port

	if err := entry.Advance(models.EntryUploading); err != nil {
		r.logger.Error("entry transition rejected", "entry", entry.ID(), "error", err)
	}
	r.persist(entry)

	if !account.LoggedIn() {
		// Window is open at the upload URL; everything else is on the user.
		result.SessionMode = models.SessionManualOnly
		result.Status = ResultLaunched
		result.Phase = models.PhaseManualContinue
		result.Message = "account is not logged in; log in and finish the upload manually"
		r.advance(entry, models.EntryWaitingConfirm)
		r.persist(entry)
		result.Hint = Classify(result.Code, result.SessionMode)
		return result
	}

	driveCtx, cancel := context.WithTimeout(ctx, r.driveTimeout)
	defer cancel()

	fill := automation.FillRequest{
		VideoPath:     task.VideoPath(),
		Title:         effective(entry.CustomTitle(), task.Title()),
		Description:   effective(entry.CustomDescription(), task.Description()),
		Tags:          effectiveTags(entry.CustomTags(), task.Tags()),
		CoverPath:     task.CoverPath(),
		IsOriginal:    task.IsOriginal(),
		ManualConfirm: r.manualConfirm,
	}

	outcome, err := r.driver.Drive(driveCtx, sess, spec, fill)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
			return r.failEntry(entry, &result, models.PhaseTimeout, shared.CodeAutomationTimeout,
				fmt.Sprintf("automation exceeded %s; the browser window stays open", r.driveTimeout))
		case ctx.Err() != nil:
			return r.failEntry(entry, &result, models.PhaseAutomationFailed,
				shared.CodeCancelled, "task cancelled during automation")
		default:
			code := shared.CodeOf(err)
			if code == "" {
				code = shared.CodeCDPNoPage
			}
			return r.failEntry(entry, &result, models.PhaseAutomationFailed, code, err.Error())
		}
	}

	switch outcome.Phase {
	case models.PhaseUploadStarted:
		r.advance(entry, models.EntryFilling)
		if outcome.Submitted {
			r.advance(entry, models.EntryPublished)
			result.Status = ResultAutomated
			result.Message = "upload started and submission triggered"
		} else {
			r.advance(entry, models.EntryWaitingConfirm)
			result.Status = ResultLaunched
			result.Message = "upload started; review and submit in the browser"
		}
		result.Phase = models.PhaseUploadStarted
	case models.PhaseManualContinue:
		r.advance(entry, models.EntryWaitingConfirm)
		result.Status = ResultLaunched
		result.Phase = models.PhaseManualContinue
		result.Message = outcome.Message
	default:
		return r.failEntry(entry, &result, outcome.Phase, outcome.Code, outcome.Message)
	}

	r.persist(entry)
	result.Hint = Classify(result.Code, result.SessionMode)
	return result
}

// failEntry marks the entry failed, persists it, and fills the failure fields
// of the result. Terminal entries are left as they are.
func (r *accountRunner) failEntry(entry *models.TaskPlatform, result *PlatformTaskResult, phase models.AutomationPhase, code shared.Code, message string) PlatformTaskResult {
	entry.Fail(code, message)
	r.persist(entry)

	result.Status = ResultFailed
	result.Phase = phase
	result.Code = code
	result.Message = message
	result.Hint = Classify(code, result.SessionMode)
	return *result
}

func (r *accountRunner) advance(entry *models.TaskPlatform, next models.EntryStatus) {
	if err := entry.Advance(next); err != nil {
		r.logger.Error("entry transition rejected", "entry", entry.ID(), "to", next, "error", err)
	}
}

func (r *accountRunner) persist(entry *models.TaskPlatform) {
	if r.store == nil {
		return
	}
	if err := r.store.UpdateEntry(entry); err != nil {
		r.logger.Error("persisting entry failed", "entry", entry.ID(), "error", err)
	}
}

func effective(override, base string) string {
	if override != "" {
		return override
	}
	return base
}

func effectiveTags(override, base []string) []string {
	if len(override) > 0 {
		return override
	}
	return base
}
