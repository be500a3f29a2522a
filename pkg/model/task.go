package model

import (
	"time"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusBlocked    Status = "blocked"
)

// IsDone reports whether the status is terminal.
func (s Status) IsDone() bool {
	return s == StatusDone
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusBlocked:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ParsePriority maps a stored priority string to a Priority. Empty or unknown
// values fall back to PriorityLow.
func ParsePriority(s string) Priority {
	switch p := Priority(s); p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return p
	}
	return PriorityLow
}

// Rank orders priorities from low (0) to urgent (3).
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 3
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	}
	return 0
}

// Task is the only entity the prioritization core reasons over.
// Its effective priority is never stored; see package priority.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	DueAt       *DueTime  `json:"dueAt,omitempty"`
	OwnerID     string    `json:"ownerId"`
	Assigner    string    `json:"assigner,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// Due returns the task's due instant. ok is false when the task has no due
// date or the stored value could not be parsed.
func (t Task) Due() (due time.Time, ok bool) {
	if t.DueAt == nil || !t.DueAt.Valid() {
		return time.Time{}, false
	}
	return t.DueAt.Time, true
}

// WithDue returns a copy of t due at the given instant.
func (t Task) WithDue(due time.Time) Task {
	t.DueAt = NewDueTime(due)
	return t
}
