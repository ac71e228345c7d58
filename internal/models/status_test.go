package models

import "testing"

func TestEntryStatusCanTransition(t *testing.T) {
	t.Run("ForwardOnly", func(t *testing.T) {
		cases := []struct {
			from, to EntryStatus
			want     bool
		}{
			{EntryPending, EntryUploading, true},
			{EntryPending, EntryFilling, true},
			{EntryPending, EntryWaitingConfirm, true},
			{EntryPending, EntryPublished, true},
			{EntryUploading, EntryFilling, true},
			{EntryUploading, EntryPending, false},
			{EntryFilling, EntryUploading, false},
			{EntryFilling, EntryWaitingConfirm, true},
			{EntryFilling, EntryPublished, true},
		}

		for _, tc := range cases {
			if got := tc.from.CanTransition(tc.to); got != tc.want {
				t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
			}
		}
	})

	t.Run("FailedReachableFromAnyNonTerminal", func(t *testing.T) {
		for _, from := range []EntryStatus{EntryPending, EntryUploading, EntryFilling} {
			if !from.CanTransition(EntryFailed) {
				t.Errorf("%s -> failed should be allowed", from)
			}
		}
	})

	t.Run("TerminalStatusesAreSticky", func(t *testing.T) {
		for _, from := range []EntryStatus{EntryWaitingConfirm, EntryPublished, EntryFailed} {
			for _, to := range []EntryStatus{EntryPending, EntryUploading, EntryFilling, EntryWaitingConfirm, EntryPublished, EntryFailed} {
				if from.CanTransition(to) {
					t.Errorf("%s -> %s should be rejected", from, to)
				}
			}
		}
	})
}

func TestAggregateStatus(t *testing.T) {
	cases := []struct {
		name    string
		entries []EntryStatus
		want    TaskStatus
	}{
		{"Empty", nil, TaskPending},
		{"AllPublished", []EntryStatus{EntryPublished, EntryPublished}, TaskCompleted},
		{"AllFailed", []EntryStatus{EntryFailed, EntryFailed}, TaskFailed},
		{"Mixed", []EntryStatus{EntryPublished, EntryFailed}, TaskPartial},
		{"WaitingConfirmCountsAsPartial", []EntryStatus{EntryWaitingConfirm, EntryPublished}, TaskPartial},
		{"AllWaitingConfirm", []EntryStatus{EntryWaitingConfirm, EntryWaitingConfirm}, TaskPartial},
		{"AnyNonTerminalMeansPublishing", []EntryStatus{EntryPublished, EntryUploading}, TaskPublishing},
		{"SinglePublished", []EntryStatus{EntryPublished}, TaskCompleted},
		{"SingleFailed", []EntryStatus{EntryFailed}, TaskFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AggregateStatus(tc.entries); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}

	t.Run("OrderIndependent", func(t *testing.T) {
		forward := AggregateStatus([]EntryStatus{EntryPublished, EntryFailed, EntryWaitingConfirm})
		backward := AggregateStatus([]EntryStatus{EntryWaitingConfirm, EntryFailed, EntryPublished})
		if forward != backward {
			t.Errorf("aggregation depends on order: %s vs %s", forward, backward)
		}
	})
}
