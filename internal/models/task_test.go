package models

import (
	"testing"
	"time"

	"github.com/crosspub/crosspub/internal/shared"
)

func TestPublishTaskValidate(t *testing.T) {
	newValid := func() *PublishTask {
		task := NewPublishTask(1, "/videos/demo.mp4", "Demo", "", nil)
		task.AddPlatform(NewTaskPlatform(task.ID(), "acct-1"))
		return task
	}

	t.Run("Valid", func(t *testing.T) {
		if err := newValid().Validate(); err != nil {
			t.Fatalf("unexpected validation error: %v", err)
		}
	})

	t.Run("EmptyTitle", func(t *testing.T) {
		task := NewPublishTask(1, "/videos/demo.mp4", "", "", nil)
		task.AddPlatform(NewTaskPlatform(task.ID(), "acct-1"))
		err := task.Validate()
		if shared.CodeOf(err) != shared.CodeEmptyTitle {
			t.Errorf("expected code %s, got %v", shared.CodeEmptyTitle, err)
		}
	})

	t.Run("MissingVideoPath", func(t *testing.T) {
		task := NewPublishTask(1, "", "Demo", "", nil)
		task.AddPlatform(NewTaskPlatform(task.ID(), "acct-1"))
		err := task.Validate()
		if shared.CodeOf(err) != shared.CodeVideoPathMissing {
			t.Errorf("expected code %s, got %v", shared.CodeVideoPathMissing, err)
		}
	})

	t.Run("NoAccounts", func(t *testing.T) {
		task := NewPublishTask(1, "/videos/demo.mp4", "Demo", "", nil)
		err := task.Validate()
		if shared.CodeOf(err) != shared.CodeNoAccounts {
			t.Errorf("expected code %s, got %v", shared.CodeNoAccounts, err)
		}
	})
}

func TestPublishTaskSetStatus(t *testing.T) {
	task := NewPublishTask(1, "/videos/demo.mp4", "Demo", "", nil)

	if err := task.SetStatus(TaskPublishing); err != nil {
		t.Fatalf("pending -> publishing should be allowed: %v", err)
	}
	if err := task.SetStatus(TaskPartial); err != nil {
		t.Fatalf("publishing -> partial should be allowed: %v", err)
	}
	if err := task.SetStatus(TaskCompleted); err == nil {
		t.Error("terminal task should reject further status writes")
	}
}

func TestTaskPlatformLifecycle(t *testing.T) {
	t.Run("HappyPath", func(t *testing.T) {
		entry := NewTaskPlatform("task-1", "acct-1")

		for _, next := range []EntryStatus{EntryUploading, EntryFilling, EntryPublished} {
			if err := entry.Advance(next); err != nil {
				t.Fatalf("advance to %s: %v", next, err)
			}
		}

		if entry.PublishedAt() == nil {
			t.Error("published entry should carry a publish timestamp")
		}
	})

	t.Run("BackwardRejected", func(t *testing.T) {
		entry := NewTaskPlatform("task-1", "acct-1")
		if err := entry.Advance(EntryFilling); err != nil {
			t.Fatalf("advance: %v", err)
		}
		if err := entry.Advance(EntryUploading); err == nil {
			t.Error("filling -> uploading should be rejected")
		}
	})

	t.Run("FailRecordsCodeAndMessage", func(t *testing.T) {
		entry := NewTaskPlatform("task-1", "acct-1")
		entry.Fail(shared.CodeCDPNoPage, "no debuggable page")

		if entry.Status() != EntryFailed {
			t.Errorf("expected failed, got %s", entry.Status())
		}
		if entry.ErrorCode() != shared.CodeCDPNoPage {
			t.Errorf("expected code %s, got %s", shared.CodeCDPNoPage, entry.ErrorCode())
		}
		if entry.ErrorMessage() != "no debuggable page" {
			t.Errorf("unexpected message %q", entry.ErrorMessage())
		}
	})

	t.Run("FailOnTerminalIsNoop", func(t *testing.T) {
		entry := NewTaskPlatform("task-1", "acct-1")
		if err := entry.Advance(EntryWaitingConfirm); err != nil {
			t.Fatalf("advance: %v", err)
		}

		entry.Fail(shared.CodeAutomationTimeout, "late timeout")
		if entry.Status() != EntryWaitingConfirm {
			t.Errorf("late failure must not regress a terminal entry, got %s", entry.Status())
		}
		if entry.ErrorCode() != "" {
			t.Errorf("terminal entry should keep empty code, got %s", entry.ErrorCode())
		}
	})

	t.Run("RestoreBypassesChecks", func(t *testing.T) {
		entry := NewTaskPlatform("task-1", "acct-1")
		entry.Restore(EntryFailed, shared.CodeProfileBusy, "profile locked")

		if entry.Status() != EntryFailed || entry.ErrorCode() != shared.CodeProfileBusy {
			t.Errorf("restore should set fields verbatim, got %s / %s", entry.Status(), entry.ErrorCode())
		}
	})
}

func TestAccountLoginState(t *testing.T) {
	account := NewAccount(1, PlatformDouyin, "creator", "/profiles/douyin-1")

	if account.LoggedIn() {
		t.Error("new account should start logged out")
	}

	checked := time.Now()
	account.SetLoggedIn(true, checked)

	if !account.LoggedIn() {
		t.Error("expected logged in")
	}
	if account.LastCheckedAt() == nil || !account.LastCheckedAt().Equal(checked) {
		t.Error("last checked timestamp not recorded")
	}
}

func TestAccountValidate(t *testing.T) {
	account := NewAccount(1, "", "creator", "/profiles/douyin-1")
	if err := account.Validate(); err == nil {
		t.Error("missing platform should fail validation")
	}

	account = NewAccount(1, PlatformDouyin, "creator", "")
	if err := account.Validate(); err == nil {
		t.Error("missing profile dir should fail validation")
	}
}
