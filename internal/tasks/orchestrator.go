package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/crosspub/crosspub/internal/automation"
	"github.com/crosspub/crosspub/internal/models"
	"github.com/crosspub/crosspub/internal/platforms"
	"github.com/crosspub/crosspub/internal/shared"
)

// AccountSource supplies the accounts a publish request fans out to.
// Satisfied by *repositories.AccountRepository.
type AccountSource interface {
	Get(id string) (*models.Account, error)
}

// TaskStore persists tasks and their per-platform entries.
// Satisfied by *repositories.TaskRepository.
type TaskStore interface {
	CreateTask(task *models.PublishTask) error
	UpdateTaskStatus(task *models.PublishTask) error
	UpdateEntry(entry *models.TaskPlatform) error
}

// FillOverride replaces the shared metadata for a single account's entry.
type FillOverride struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// PublishRequest is one video publish fanned out across selected accounts.
type PublishRequest struct {
	VideoPath   string     `json:"videoPath"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	CoverPath   string     `json:"coverPath,omitempty"`
	IsOriginal  bool       `json:"isOriginal,omitempty"`
	AccountIDs  []string   `json:"accountIds"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`

	// Overrides is keyed by account ID.
	Overrides map[string]FillOverride `json:"overrides,omitempty"`
}

// Orchestrator fans a publish request out to per-account runners and
// aggregates their outcomes. Safe for concurrent use.
type Orchestrator struct {
	accounts      AccountSource
	store         TaskStore
	resolver      SessionResolver
	driver        automation.Driver
	logger        *log.Logger
	driveTimeout  time.Duration
	manualConfirm bool

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// Options tune orchestrator behavior beyond its collaborators.
type Options struct {
	// DriveTimeout bounds one driver invocation. Zero means 45 seconds.
	DriveTimeout time.Duration
	// ManualConfirm leaves final submission to the user even on platforms
	// that support automated submit.
	ManualConfirm bool
}

func NewOrchestrator(accounts AccountSource, store TaskStore, resolver SessionResolver, driver automation.Driver, logger *log.Logger, opts Options) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	if opts.DriveTimeout <= 0 {
		opts.DriveTimeout = 45 * time.Second
	}
	return &Orchestrator{
		accounts:      accounts,
		store:         store,
		resolver:      resolver,
		driver:        driver,
		logger:        logger,
		driveTimeout:  opts.DriveTimeout,
		manualConfirm: opts.ManualConfirm,
		cancels:       make(map[string]context.CancelFunc),
	}
}

// Submit validates the request, persists the task, runs one full round of
// per-account automation, and returns the aggregated result. Validation
// failures return a coded error before any session or row is touched.
func (o *Orchestrator) Submit(ctx context.Context, req PublishRequest, progress chan<- ProgressUpdate) (*PublishResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	accounts := make([]*models.Account, 0, len(req.AccountIDs))
	for _, id := range req.AccountIDs {
		account, err := o.accounts.Get(id)
		if err != nil {
			return nil, fmt.Errorf("loading account %s: %w", id, err)
		}
		if _, ok := platforms.Get(account.Platform()); !ok {
			return nil, fmt.Errorf("account %s: %w: %s", id, shared.ErrPlatformUnknown, account.Platform())
		}
		accounts = append(accounts, account)
	}

	task := models.NewPublishTask(0, req.VideoPath, req.Title, req.Description, req.Tags)
	task.SetCoverPath(req.CoverPath)
	task.SetIsOriginal(req.IsOriginal)
	task.SetScheduledAt(req.ScheduledAt)
	for _, account := range accounts {
		entry := models.NewTaskPlatform(task.ID(), account.ID())
		if override, ok := req.Overrides[account.ID()]; ok {
			entry.SetOverrides(override.Title, override.Description, override.Tags)
		}
		task.AddPlatform(entry)
	}
	if err := o.store.CreateTask(task); err != nil {
		return nil, fmt.Errorf("persisting task: %w", err)
	}

	if err := task.SetStatus(models.TaskPublishing); err != nil {
		return nil, err
	}
	if err := o.store.UpdateTaskStatus(task); err != nil {
		o.logger.Error("persisting task status failed", "task", task.ID(), "error", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	o.registerCancel(task.ID(), cancel)
	defer func() {
		o.unregisterCancel(task.ID())
		cancel()
	}()

	total := len(accounts)
	sendProgress(progress, validateUpdate(task.ID(), total))

	o.logger.Info("publish task started", "task", task.ID(), "accounts", total, "video", req.VideoPath)

	results := make([]PlatformTaskResult, total)
	var completed sync.WaitGroup
	var done int
	var doneMu sync.Mutex

	for i, account := range accounts {
		completed.Add(1)
		go func(i int, account *models.Account, entry *models.TaskPlatform) {
			defer completed.Done()

			sendProgress(progress, resolveSessionUpdate(task.ID(), account, total))
			runner := &accountRunner{
				resolver:      o.resolver,
				driver:        o.driver,
				store:         o.store,
				logger:        o.logger,
				driveTimeout:  o.driveTimeout,
				manualConfirm: o.manualConfirm,
			}
			sendProgress(progress, driveUpdate(task.ID(), account, total))
			results[i] = runner.run(runCtx, task, entry, account)

			doneMu.Lock()
			done++
			count := done
			doneMu.Unlock()
			sendProgress(progress, entryDoneUpdate(task.ID(), results[i], count, total))
		}(i, account, task.Platforms()[i])
	}
	completed.Wait()

	final := models.AggregateStatus(task.EntryStatuses())
	if err := task.SetStatus(final); err != nil {
		o.logger.Error("task status transition rejected", "task", task.ID(), "to", final, "error", err)
	}
	if err := o.store.UpdateTaskStatus(task); err != nil {
		o.logger.Error("persisting task status failed", "task", task.ID(), "error", err)
	}

	sendProgress(progress, taskDoneUpdate(task.ID(), task.Status(), total, total))
	o.logger.Info("publish task finished", "task", task.ID(), "status", task.Status())

	return &PublishResult{
		TaskID:        task.ID(),
		Status:        task.Status(),
		PlatformTasks: results,
	}, nil
}

// Cancel stops a running task. Entries still pending or uploading fail with
// the CANCELLED code; entries already waiting on the user or published keep
// their status, and no browser window is closed.
func (o *Orchestrator) Cancel(taskID string) error {
	o.mu.Lock()
	cancel, ok := o.cancels[taskID]
	o.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrTaskNotFound, taskID)
	}
	o.logger.Info("cancelling publish task", "task", taskID)
	cancel()
	return nil
}

// Running reports whether a task is currently mid-round.
func (o *Orchestrator) Running(taskID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.cancels[taskID]
	return ok
}

func (o *Orchestrator) registerCancel(taskID string, cancel context.CancelFunc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cancels[taskID] = cancel
}

func (o *Orchestrator) unregisterCancel(taskID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.cancels, taskID)
}

func validateRequest(req PublishRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return shared.Codef(shared.CodeEmptyTitle, "publish request has no title")
	}
	if strings.TrimSpace(req.VideoPath) == "" {
		return shared.Codef(shared.CodeVideoPathMissing, "publish request has no video path")
	}
	if len(req.AccountIDs) == 0 {
		return shared.Codef(shared.CodeNoAccounts, "publish request selects no accounts")
	}
	seen := make(map[string]struct{}, len(req.AccountIDs))
	for _, id := range req.AccountIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("account %s selected twice", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
