package models

import (
	"fmt"
	"time"

	"github.com/crosspub/crosspub/internal/shared"
)

var (
	_ Model = (*PublishTask)(nil)
	_ Model = (*TaskPlatform)(nil)
)

// PublishTask is one request to publish a video to a set of accounts. Shared
// metadata lives here; per-account overrides live on each [TaskPlatform].
//
// The task is created pending, mutated only by the orchestrator as runners
// report in, and immutable once its status is terminal.
type PublishTask struct {
	id          string
	sequence    int
	videoPath   string
	title       string
	description string
	tags        []string
	coverPath   string
	isOriginal  bool
	status      TaskStatus
	scheduledAt *time.Time
	createdAt   time.Time
	updatedAt   time.Time
	platforms   []*TaskPlatform
}

// NewPublishTask creates a pending task with the given shared metadata. The
// ID is generated up front so entries can reference it before persistence.
func NewPublishTask(sequence int, videoPath, title, description string, tags []string) *PublishTask {
	now := time.Now()
	return &PublishTask{
		id:          shared.GenerateID(),
		sequence:    sequence,
		videoPath:   videoPath,
		title:       title,
		description: description,
		tags:        tags,
		isOriginal:  true,
		status:      TaskPending,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (t *PublishTask) ID() string              { return t.id }
func (t *PublishTask) Sequence() int           { return t.sequence }
func (t *PublishTask) VideoPath() string       { return t.videoPath }
func (t *PublishTask) Title() string           { return t.title }
func (t *PublishTask) Description() string     { return t.description }
func (t *PublishTask) Tags() []string          { return t.tags }
func (t *PublishTask) CoverPath() string       { return t.coverPath }
func (t *PublishTask) IsOriginal() bool        { return t.isOriginal }
func (t *PublishTask) Status() TaskStatus      { return t.status }
func (t *PublishTask) ScheduledAt() *time.Time { return t.scheduledAt }
func (t *PublishTask) CreatedAt() time.Time    { return t.createdAt }
func (t *PublishTask) UpdatedAt() time.Time    { return t.updatedAt }
func (t *PublishTask) Platforms() []*TaskPlatform {
	return t.platforms
}

func (t *PublishTask) SetID(id string)              { t.id = id }
func (t *PublishTask) SetSequence(sequence int)     { t.sequence = sequence }
func (t *PublishTask) SetCoverPath(path string)     { t.coverPath = path }
func (t *PublishTask) SetIsOriginal(original bool)  { t.isOriginal = original }
func (t *PublishTask) SetScheduledAt(at *time.Time) { t.scheduledAt = at }
func (t *PublishTask) SetCreatedAt(at time.Time)    { t.createdAt = at }
func (t *PublishTask) SetUpdatedAt(at time.Time)    { t.updatedAt = at }

// SetStatus records a new task status. Terminal statuses are sticky: once the
// task completes, further writes are rejected.
func (t *PublishTask) SetStatus(status TaskStatus) error {
	if t.status.Terminal() {
		return fmt.Errorf("task %s is %s and cannot change status", t.id, t.status)
	}
	t.status = status
	t.updatedAt = time.Now()
	return nil
}

// RestoreStatus rehydrates a persisted status without transition checks.
func (t *PublishTask) RestoreStatus(status TaskStatus) {
	t.status = status
}

// AddPlatform attaches a per-account entry to the task.
func (t *PublishTask) AddPlatform(entry *TaskPlatform) {
	t.platforms = append(t.platforms, entry)
}

// EntryStatuses projects the statuses of all attached entries, in order.
func (t *PublishTask) EntryStatuses() []EntryStatus {
	statuses := make([]EntryStatus, len(t.platforms))
	for i, entry := range t.platforms {
		statuses[i] = entry.Status()
	}
	return statuses
}

// Validate checks the request shape. Violations carry the stable codes the
// boundary layer reports before any session work happens.
func (t *PublishTask) Validate() error {
	if t.title == "" {
		return shared.Codef(shared.CodeEmptyTitle, "task title is required")
	}
	if t.videoPath == "" {
		return shared.Codef(shared.CodeVideoPathMissing, "task video path is required")
	}
	if len(t.platforms) == 0 {
		return shared.Codef(shared.CodeNoAccounts, "task requires at least one account")
	}
	return nil
}

// TaskPlatform is one (task, account) pairing: the platform-specific slice of
// a publish task. Exactly one row exists per selected account per task. During
// execution the row is owned exclusively by its runner; everyone else reads.
type TaskPlatform struct {
	id                string
	taskID            string
	accountID         string
	customTitle       string
	customDescription string
	customTags        []string
	status            EntryStatus
	errorCode         shared.Code
	errorMessage      string
	publishedAt       *time.Time
	createdAt         time.Time
	updatedAt         time.Time
}

// NewTaskPlatform creates a pending entry for the given account.
func NewTaskPlatform(taskID, accountID string) *TaskPlatform {
	now := time.Now()
	return &TaskPlatform{
		id:        shared.GenerateID(),
		taskID:    taskID,
		accountID: accountID,
		status:    EntryPending,
		createdAt: now,
		updatedAt: now,
	}
}

func (p *TaskPlatform) ID() string                { return p.id }
func (p *TaskPlatform) TaskID() string            { return p.taskID }
func (p *TaskPlatform) AccountID() string         { return p.accountID }
func (p *TaskPlatform) CustomTitle() string       { return p.customTitle }
func (p *TaskPlatform) CustomDescription() string { return p.customDescription }
func (p *TaskPlatform) CustomTags() []string      { return p.customTags }
func (p *TaskPlatform) Status() EntryStatus       { return p.status }
func (p *TaskPlatform) ErrorCode() shared.Code    { return p.errorCode }
func (p *TaskPlatform) ErrorMessage() string      { return p.errorMessage }
func (p *TaskPlatform) PublishedAt() *time.Time   { return p.publishedAt }
func (p *TaskPlatform) CreatedAt() time.Time      { return p.createdAt }
func (p *TaskPlatform) UpdatedAt() time.Time      { return p.updatedAt }

func (p *TaskPlatform) SetID(id string)            { p.id = id }
func (p *TaskPlatform) SetCreatedAt(at time.Time)  { p.createdAt = at }
func (p *TaskPlatform) SetUpdatedAt(at time.Time)  { p.updatedAt = at }
func (p *TaskPlatform) SetPublishedAt(at *time.Time) {
	p.publishedAt = at
}

// SetOverrides records per-platform replacements for the task's shared
// metadata. Empty values mean "use the task default".
func (p *TaskPlatform) SetOverrides(title, description string, tags []string) {
	p.customTitle = title
	p.customDescription = description
	p.customTags = tags
}

// setStatus is the single mutation path for restoring persisted state.
func (p *TaskPlatform) setStatus(status EntryStatus, code shared.Code, message string) {
	p.status = status
	p.errorCode = code
	p.errorMessage = message
	p.updatedAt = time.Now()
}

// Restore rehydrates status fields from persistence without transition checks.
func (p *TaskPlatform) Restore(status EntryStatus, code shared.Code, message string) {
	p.status = status
	p.errorCode = code
	p.errorMessage = message
}

// Advance moves the entry forward along the upload path. Backward moves and
// transitions out of a terminal status are rejected.
func (p *TaskPlatform) Advance(next EntryStatus) error {
	if !p.status.CanTransition(next) {
		return fmt.Errorf("entry %s cannot transition %s -> %s", p.id, p.status, next)
	}
	p.setStatus(next, p.errorCode, p.errorMessage)
	if next == EntryPublished {
		now := time.Now()
		p.publishedAt = &now
	}
	return nil
}

// Fail marks the entry failed with a stable code and human-readable message.
// Failing an already-terminal entry is a no-op so late errors never regress
// published or waiting entries.
func (p *TaskPlatform) Fail(code shared.Code, message string) {
	if p.status.Terminal() {
		return
	}
	p.setStatus(EntryFailed, code, message)
}

// Validate checks that the entry references a task and an account.
func (p *TaskPlatform) Validate() error {
	if p.taskID == "" {
		return fmt.Errorf("entry task id is required")
	}
	if p.accountID == "" {
		return fmt.Errorf("entry account id is required")
	}
	return nil
}
