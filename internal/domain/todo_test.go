package domain

import (
	"testing"
	"time"
)

func TestUrgency(t *testing.T) {
	now := time.Date(2026, 2, 25, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status Status
		endAt  time.Time
		want   UrgencyTier
	}{
		{"one hour left is critical", StatusInProgress, now.Add(time.Hour), TierCritical},
		{"one minute past is overdue", StatusInProgress, now.Add(-time.Minute), TierOverdue},
		{"exactly due is overdue", StatusInProgress, now, TierOverdue},
		{"three hours left is warning", StatusInProgress, now.Add(3 * time.Hour), TierWarning},
		{"exactly two hours is warning", StatusInProgress, now.Add(2 * time.Hour), TierWarning},
		{"a day left is normal", StatusInProgress, now.Add(24 * time.Hour), TierNormal},
		{"done a day late is still normal", StatusDone, now.Add(-24 * time.Hour), TierNormal},
		{"todo past due is normal", StatusTodo, now.Add(-time.Hour), TierNormal},
		{"backlog is normal", StatusBacklog, now.Add(time.Minute), TierNormal},
		{"cancelled is normal", StatusCancelled, now.Add(-time.Minute), TierNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Urgency(tt.status, tt.endAt, now); got != tt.want {
				t.Errorf("Urgency(%s, %v) = %s, want %s", tt.status, tt.endAt, got, tt.want)
			}
		})
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusTodo, StatusBacklog, StatusInProgress, StatusDone, StatusCancelled} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []Status{"", "archived", "in_progress", "TODO"} {
		if s.Valid() {
			t.Errorf("%q should not be valid", s)
		}
	}
}
