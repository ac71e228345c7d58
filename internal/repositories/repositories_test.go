package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/crosspub/crosspub/internal/models"
	"github.com/crosspub/crosspub/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// One connection only: every pooled connection to :memory: is its own
	// empty database.
	shared.ConfigureDatabase(db, 1, 1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// seedAccount persists a fresh account and returns it.
func seedAccount(t *testing.T, db *sql.DB, platform models.Platform, name string) *models.Account {
	t.Helper()

	repo := NewAccountRepository(db)
	account := models.NewAccount(0, platform, name, "/profiles/"+name)
	if err := repo.Create(account); err != nil {
		t.Fatalf("failed to create account: %v", err)
	}
	return account
}

// seedTask persists a task with one entry per given account.
func seedTask(t *testing.T, db *sql.DB, title string, accounts ...*models.Account) *models.PublishTask {
	t.Helper()

	task := models.NewPublishTask(0, "/videos/demo.mp4", title, "a description", []string{"daily", "vlog"})
	for _, account := range accounts {
		task.AddPlatform(models.NewTaskPlatform(task.ID(), account.ID()))
	}
	if err := NewTaskRepository(db).CreateTask(task); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return task
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first, err := NextSequence(db, "accounts")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}
	second, err := NextSequence(db, "accounts")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}

	if first != 1 || second != 2 {
		t.Errorf("expected sequences 1, 2, got %d, %d", first, second)
	}

	taskSeq, err := NextSequence(db, "publish_tasks")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}
	if taskSeq != 1 {
		t.Errorf("tables must count independently, got %d", taskSeq)
	}
}

func TestAccountRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		account := seedAccount(t, db, models.PlatformDouyin, "creator-a")

		if account.ID() == "" {
			t.Error("account ID should be set after creation")
		}
		if account.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", account.Sequence())
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		account := seedAccount(t, db, models.PlatformBilibili, "creator-b")

		repo := NewAccountRepository(db)
		retrieved, err := repo.Get(account.ID())
		if err != nil {
			t.Fatalf("failed to get account: %v", err)
		}

		if retrieved.Platform() != models.PlatformBilibili {
			t.Errorf("expected platform bilibili, got %s", retrieved.Platform())
		}
		if retrieved.DisplayName() != "creator-b" {
			t.Errorf("expected display name creator-b, got %s", retrieved.DisplayName())
		}
		if retrieved.LoggedIn() {
			t.Error("new account must not be logged in")
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewAccountRepository(db).Get("no-such-id")
		if !errors.Is(err, shared.ErrAccountNotFound) {
			t.Errorf("expected ErrAccountNotFound, got %v", err)
		}
	})

	t.Run("UpdateLoginState", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		account := seedAccount(t, db, models.PlatformDouyin, "creator-a")

		repo := NewAccountRepository(db)
		account.SetLoggedIn(true, time.Now())
		if err := repo.Update(account); err != nil {
			t.Fatalf("failed to update account: %v", err)
		}

		retrieved, err := repo.Get(account.ID())
		if err != nil {
			t.Fatalf("failed to get account: %v", err)
		}
		if !retrieved.LoggedIn() {
			t.Error("login state did not persist")
		}
		if retrieved.LastCheckedAt() == nil {
			t.Error("last checked timestamp did not persist")
		}
	})

	t.Run("SoftDelete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		account := seedAccount(t, db, models.PlatformDouyin, "creator-a")

		repo := NewAccountRepository(db)
		if err := repo.Delete(account.ID()); err != nil {
			t.Fatalf("failed to delete account: %v", err)
		}

		if _, err := repo.Get(account.ID()); !errors.Is(err, shared.ErrAccountNotFound) {
			t.Errorf("deleted account must not be retrievable, got %v", err)
		}

		// The row survives for historical task entries.
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM accounts WHERE id = ?", account.ID()).Scan(&count); err != nil {
			t.Fatalf("failed to count rows: %v", err)
		}
		if count != 1 {
			t.Errorf("expected soft-deleted row to remain, count %d", count)
		}
	})

	t.Run("ListFilters", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewAccountRepository(db)
		a := seedAccount(t, db, models.PlatformDouyin, "creator-a")
		seedAccount(t, db, models.PlatformBilibili, "creator-b")
		seedAccount(t, db, models.PlatformDouyin, "creator-c")

		a.SetLoggedIn(true, time.Now())
		if err := repo.Update(a); err != nil {
			t.Fatalf("failed to update account: %v", err)
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list accounts: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 accounts, got %d", len(all))
		}
		if all[0].DisplayName() != "creator-a" {
			t.Errorf("expected sequence order, got %s first", all[0].DisplayName())
		}

		douyin, err := repo.List(map[string]any{"platform": "douyin"})
		if err != nil {
			t.Fatalf("failed to list accounts: %v", err)
		}
		if len(douyin) != 2 {
			t.Errorf("expected 2 douyin accounts, got %d", len(douyin))
		}

		loggedIn, err := repo.List(map[string]any{"logged_in": true})
		if err != nil {
			t.Fatalf("failed to list accounts: %v", err)
		}
		if len(loggedIn) != 1 || loggedIn[0].ID() != a.ID() {
			t.Errorf("expected only the logged-in account, got %d", len(loggedIn))
		}
	})
}

func TestTaskRepository(t *testing.T) {
	t.Run("CreateAndGetRoundTrip", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		first := seedAccount(t, db, models.PlatformDouyin, "creator-a")
		second := seedAccount(t, db, models.PlatformBilibili, "creator-b")

		task := models.NewPublishTask(0, "/videos/demo.mp4", "roundtrip", "a description", []string{"daily", "vlog"})
		task.SetCoverPath("/covers/demo.png")
		task.AddPlatform(models.NewTaskPlatform(task.ID(), first.ID()))
		withOverride := models.NewTaskPlatform(task.ID(), second.ID())
		withOverride.SetOverrides("custom title", "custom description", []string{"alt"})
		task.AddPlatform(withOverride)

		repo := NewTaskRepository(db)
		if err := repo.CreateTask(task); err != nil {
			t.Fatalf("failed to create task: %v", err)
		}
		if task.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", task.Sequence())
		}

		retrieved, err := repo.Get(task.ID())
		if err != nil {
			t.Fatalf("failed to get task: %v", err)
		}
		if retrieved.Title() != "roundtrip" {
			t.Errorf("expected title roundtrip, got %s", retrieved.Title())
		}
		if retrieved.CoverPath() != "/covers/demo.png" {
			t.Errorf("cover path did not persist, got %s", retrieved.CoverPath())
		}
		if len(retrieved.Tags()) != 2 || retrieved.Tags()[0] != "daily" {
			t.Errorf("tags did not round-trip, got %v", retrieved.Tags())
		}

		entries := retrieved.Platforms()
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		for _, entry := range entries {
			if entry.Status() != models.EntryPending {
				t.Errorf("expected pending entry, got %s", entry.Status())
			}
		}
		if entries[1].CustomTitle() != "custom title" {
			t.Errorf("override title did not persist, got %s", entries[1].CustomTitle())
		}
		if len(entries[1].CustomTags()) != 1 || entries[1].CustomTags()[0] != "alt" {
			t.Errorf("override tags did not persist, got %v", entries[1].CustomTags())
		}
	})

	t.Run("CreateRejectsInvalidTask", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		task := models.NewPublishTask(0, "/videos/demo.mp4", "", "", nil)
		err := NewTaskRepository(db).CreateTask(task)
		if shared.CodeOf(err) != shared.CodeEmptyTitle {
			t.Errorf("expected EMPTY_TITLE, got %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM publish_tasks").Scan(&count); err != nil {
			t.Fatalf("failed to count rows: %v", err)
		}
		if count != 0 {
			t.Errorf("invalid task must not be persisted, count %d", count)
		}
	})

	t.Run("UpdateTaskStatus", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		account := seedAccount(t, db, models.PlatformDouyin, "creator-a")
		task := seedTask(t, db, "status", account)

		repo := NewTaskRepository(db)
		if err := task.SetStatus(models.TaskPublishing); err != nil {
			t.Fatalf("failed to advance status: %v", err)
		}
		if err := repo.UpdateTaskStatus(task); err != nil {
			t.Fatalf("failed to update status: %v", err)
		}

		retrieved, err := repo.Get(task.ID())
		if err != nil {
			t.Fatalf("failed to get task: %v", err)
		}
		if retrieved.Status() != models.TaskPublishing {
			t.Errorf("expected publishing, got %s", retrieved.Status())
		}
	})

	t.Run("UpdateTaskStatusMissing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		task := models.NewPublishTask(0, "/videos/demo.mp4", "ghost", "", nil)
		err := NewTaskRepository(db).UpdateTaskStatus(task)
		if !errors.Is(err, shared.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})

	t.Run("UpdateEntry", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		account := seedAccount(t, db, models.PlatformDouyin, "creator-a")
		task := seedTask(t, db, "entry update", account)

		entry := task.Platforms()[0]
		entry.Fail(shared.CodeAutomationTimeout, "upload page never settled")

		repo := NewTaskRepository(db)
		if err := repo.UpdateEntry(entry); err != nil {
			t.Fatalf("failed to update entry: %v", err)
		}

		retrieved, err := repo.Get(task.ID())
		if err != nil {
			t.Fatalf("failed to get task: %v", err)
		}
		got := retrieved.Platforms()[0]
		if got.Status() != models.EntryFailed {
			t.Errorf("expected failed entry, got %s", got.Status())
		}
		if got.ErrorCode() != shared.CodeAutomationTimeout {
			t.Errorf("expected AUTOMATION_TIMEOUT, got %s", got.ErrorCode())
		}
		if got.ErrorMessage() != "upload page never settled" {
			t.Errorf("error message did not persist, got %q", got.ErrorMessage())
		}
	})

	t.Run("PublishedAtRoundTrip", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		account := seedAccount(t, db, models.PlatformDouyin, "creator-a")
		task := seedTask(t, db, "published", account)

		entry := task.Platforms()[0]
		for _, status := range []models.EntryStatus{models.EntryUploading, models.EntryFilling, models.EntryPublished} {
			if err := entry.Advance(status); err != nil {
				t.Fatalf("failed to advance to %s: %v", status, err)
			}
		}

		repo := NewTaskRepository(db)
		if err := repo.UpdateEntry(entry); err != nil {
			t.Fatalf("failed to update entry: %v", err)
		}

		retrieved, err := repo.Get(task.ID())
		if err != nil {
			t.Fatalf("failed to get task: %v", err)
		}
		got := retrieved.Platforms()[0]
		if got.Status() != models.EntryPublished {
			t.Errorf("expected published, got %s", got.Status())
		}
		if got.PublishedAt() == nil {
			t.Error("published timestamp did not persist")
		}
	})

	t.Run("ListNewestFirstWithLimit", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		account := seedAccount(t, db, models.PlatformDouyin, "creator-a")
		seedTask(t, db, "first", account)
		seedTask(t, db, "second", account)
		third := seedTask(t, db, "third", account)

		repo := NewTaskRepository(db)
		tasks, err := repo.List(map[string]any{"limit": 2})
		if err != nil {
			t.Fatalf("failed to list tasks: %v", err)
		}
		if len(tasks) != 2 {
			t.Fatalf("expected 2 tasks, got %d", len(tasks))
		}
		if tasks[0].ID() != third.ID() {
			t.Errorf("expected newest task first, got %s", tasks[0].Title())
		}
		if len(tasks[0].Platforms()) != 1 {
			t.Errorf("listed tasks must carry their entries, got %d", len(tasks[0].Platforms()))
		}
	})

	t.Run("ListByStatus", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		account := seedAccount(t, db, models.PlatformDouyin, "creator-a")
		seedTask(t, db, "pending", account)
		moving := seedTask(t, db, "moving", account)

		repo := NewTaskRepository(db)
		if err := moving.SetStatus(models.TaskPublishing); err != nil {
			t.Fatalf("failed to advance status: %v", err)
		}
		if err := repo.UpdateTaskStatus(moving); err != nil {
			t.Fatalf("failed to update status: %v", err)
		}

		tasks, err := repo.List(map[string]any{"status": "publishing"})
		if err != nil {
			t.Fatalf("failed to list tasks: %v", err)
		}
		if len(tasks) != 1 || tasks[0].ID() != moving.ID() {
			t.Errorf("expected only the publishing task, got %d", len(tasks))
		}
	})

	t.Run("EntryRequiresExistingAccount", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		task := models.NewPublishTask(0, "/videos/demo.mp4", "orphan", "", nil)
		task.AddPlatform(models.NewTaskPlatform(task.ID(), "no-such-account"))

		if err := NewTaskRepository(db).CreateTask(task); err == nil {
			t.Error("expected foreign key violation for unknown account")
		}
	})
}

func TestTemplateRepository(t *testing.T) {
	t.Run("CreateAndGetByName", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTemplateRepository(db)
		template := models.NewTemplate("daily", "Daily vlog {date}", "See you tomorrow", []string{"daily", "vlog"})
		if err := repo.Create(template); err != nil {
			t.Fatalf("failed to create template: %v", err)
		}
		if template.ID() == "" {
			t.Error("template ID should be set after creation")
		}

		retrieved, err := repo.GetByName("daily")
		if err != nil {
			t.Fatalf("failed to get template: %v", err)
		}
		if retrieved.TitleText() != "Daily vlog {date}" {
			t.Errorf("title did not persist, got %s", retrieved.TitleText())
		}
		if len(retrieved.TagList()) != 2 {
			t.Errorf("tags did not persist, got %v", retrieved.TagList())
		}
	})

	t.Run("GetByNameMissing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewTemplateRepository(db).GetByName("nope")
		if !errors.Is(err, shared.ErrTemplateNotFound) {
			t.Errorf("expected ErrTemplateNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTemplateRepository(db)
		template := models.NewTemplate("daily", "t", "", nil)
		if err := repo.Create(template); err != nil {
			t.Fatalf("failed to create template: %v", err)
		}

		if err := repo.Delete(template.ID()); err != nil {
			t.Fatalf("failed to delete template: %v", err)
		}
		if err := repo.Delete(template.ID()); !errors.Is(err, shared.ErrTemplateNotFound) {
			t.Errorf("expected ErrTemplateNotFound on double delete, got %v", err)
		}
	})

	t.Run("ListOrderedByName", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTemplateRepository(db)
		for _, name := range []string{"weekly", "daily", "monthly"} {
			if err := repo.Create(models.NewTemplate(name, "t", "", nil)); err != nil {
				t.Fatalf("failed to create template: %v", err)
			}
		}

		templates, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list templates: %v", err)
		}
		if len(templates) != 3 {
			t.Fatalf("expected 3 templates, got %d", len(templates))
		}
		if templates[0].Name() != "daily" || templates[2].Name() != "weekly" {
			t.Errorf("expected name order, got %s, %s, %s",
				templates[0].Name(), templates[1].Name(), templates[2].Name())
		}
	})
}

func TestTagJoining(t *testing.T) {
	if got := joinTags([]string{"a", "b"}); got != "a,b" {
		t.Errorf("unexpected join %q", got)
	}
	if got := splitTags(""); got != nil {
		t.Errorf("empty string must split to nil, got %v", got)
	}
	if got := splitTags("a,b"); len(got) != 2 || got[1] != "b" {
		t.Errorf("unexpected split %v", got)
	}
}
