package domain

import "time"

// Status is the board column a todo sits in. There is no enforced
// transition graph: a card may be dragged from any column to any other
// column, so any status can move directly to any status.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusBacklog    Status = "backlog"
	StatusInProgress Status = "inprogress"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusBacklog, StatusInProgress, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// Todo is the domain entity (the truth).
// It does not depend on Gin, Postgres or Redis.
type Todo struct {
	ID          int64
	UserID      int64
	Text        string
	Description string
	Status      Status
	StartAt     time.Time
	EndAt       time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UrgencyTier is the display escalation of a todo on the board.
type UrgencyTier string

const (
	TierNormal   UrgencyTier = "normal"
	TierWarning  UrgencyTier = "warning"
	TierCritical UrgencyTier = "critical"
	TierOverdue  UrgencyTier = "overdue"
)

// Urgency returns the display tier for a todo. Only in-progress todos
// escalate; every other status is normal regardless of the time window.
// Hours left until endAt: <=0 overdue, <2 critical, <6 warning.
func Urgency(status Status, endAt, now time.Time) UrgencyTier {
	if status != StatusInProgress {
		return TierNormal
	}
	hoursLeft := endAt.Sub(now).Hours()
	switch {
	case hoursLeft <= 0:
		return TierOverdue
	case hoursLeft < 2:
		return TierCritical
	case hoursLeft < 6:
		return TierWarning
	}
	return TierNormal
}
