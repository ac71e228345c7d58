// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/crosspub/crosspub/internal/automation"
	"github.com/crosspub/crosspub/internal/models"
	"github.com/crosspub/crosspub/internal/platforms"
	"github.com/crosspub/crosspub/internal/session"
)

// MockResolver is a test double for the session resolver. Resolve returns
// the configured session or error; calls are counted per account.
type MockResolver struct {
	Session *session.Session
	Err     error

	mu       sync.Mutex
	resolves map[string]int
	releases int
}

func (m *MockResolver) Resolve(ctx context.Context, account *models.Account, openURL string) (*session.Session, error) {
	m.mu.Lock()
	if m.resolves == nil {
		m.resolves = make(map[string]int)
	}
	m.resolves[account.ID()]++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Session != nil {
		return m.Session, nil
	}
	return &session.Session{AccountID: account.ID(), Port: 9222, Mode: models.SessionLaunchedNew}, nil
}

func (m *MockResolver) Release(sess *session.Session) {
	m.mu.Lock()
	m.releases++
	m.mu.Unlock()
}

func (m *MockResolver) Resolves(accountID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolves[accountID]
}

func (m *MockResolver) Releases() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.releases
}

// MockDriver is a test double for the automation driver. Outcomes and errors
// are keyed by account ID through the session; the zero value reports a
// started upload for every account.
type MockDriver struct {
	Outcomes map[string]automation.Outcome
	Errs     map[string]error
	Block    chan struct{} // when set, Drive waits for ctx or Block

	mu     sync.Mutex
	drives int
}

func (m *MockDriver) Drive(ctx context.Context, sess *session.Session, spec platforms.Spec, fill automation.FillRequest) (automation.Outcome, error) {
	m.mu.Lock()
	m.drives++
	m.mu.Unlock()

	if m.Block != nil {
		select {
		case <-ctx.Done():
			return automation.Outcome{}, ctx.Err()
		case <-m.Block:
		}
	}

	if err, ok := m.Errs[sess.AccountID]; ok && err != nil {
		return automation.Outcome{}, err
	}
	if outcome, ok := m.Outcomes[sess.AccountID]; ok {
		return outcome, nil
	}
	return automation.Outcome{Phase: models.PhaseUploadStarted}, nil
}

func (m *MockDriver) Drives() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drives
}

// MemoryTaskStore keeps tasks and entry snapshots in memory for orchestrator
// tests that do not need sqlite.
type MemoryTaskStore struct {
	mu      sync.Mutex
	Tasks   []*models.PublishTask
	Entries map[string]models.EntryStatus

	CreateErr error
}

func (s *MemoryTaskStore) CreateTask(task *models.PublishTask) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	task.SetSequence(len(s.Tasks) + 1)
	s.Tasks = append(s.Tasks, task)
	return nil
}

func (s *MemoryTaskStore) UpdateTaskStatus(task *models.PublishTask) error {
	return nil
}

func (s *MemoryTaskStore) UpdateEntry(entry *models.TaskPlatform) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Entries == nil {
		s.Entries = make(map[string]models.EntryStatus)
	}
	s.Entries[entry.ID()] = entry.Status()
	return nil
}

func (s *MemoryTaskStore) EntryStatus(id string) (models.EntryStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.Entries[id]
	return status, ok
}

// MemoryAccounts is an in-memory account source keyed by ID.
type MemoryAccounts struct {
	Accounts map[string]*models.Account
}

func (s *MemoryAccounts) Get(id string) (*models.Account, error) {
	account, ok := s.Accounts[id]
	if !ok {
		return nil, errors.New("account not found: " + id)
	}
	return account, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
