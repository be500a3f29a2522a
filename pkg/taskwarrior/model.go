package taskwarrior

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrisonrobin/autoflow/pkg/model"
)

const (
	PENDING   = "pending"
	COMPLETED = "completed"
	WAITING   = "waiting"
	DELETED   = "deleted"
	RECURRING = "recurring"
)

const urgentTag = "urgent"

type CustomTime struct {
	time.Time
}

const taskwarriorTimeLayout = "20060102T150405Z" // YYYYMMDDTHHMMSSZ, UTC

func (ct *CustomTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "0" {
		ct.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(taskwarriorTimeLayout, s)
	if err != nil {
		return fmt.Errorf("failed to parse Taskwarrior time string '%s': %w", s, err)
	}
	ct.Time = t
	return nil
}

func (ct CustomTime) MarshalJSON() ([]byte, error) {
	if ct.Time.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + ct.Time.Format(taskwarriorTimeLayout) + `"`), nil
}

func (ct *CustomTime) valid() bool {
	return ct != nil && !ct.IsZero()
}

type Task struct {
	UUID        string      `json:"uuid"`
	Description string      `json:"description"`
	Due         *CustomTime `json:"due,omitempty"`
	Status      string      `json:"status"`
	Priority    string      `json:"priority,omitempty"`
	Project     string      `json:"project,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	Annotations []struct {
		Description string      `json:"description"`
		Entry       *CustomTime `json:"entry"`
	} `json:"annotations,omitempty"`
	Entry    *CustomTime `json:"entry,omitempty"`
	Modified *CustomTime `json:"modified,omitempty"`
	Start    *CustomTime `json:"start,omitempty"`
}

func (t Task) hasTag(tag string) bool {
	for _, have := range t.Tags {
		if strings.EqualFold(have, tag) {
			return true
		}
	}
	return false
}

// ToModel maps a Taskwarrior task onto an autoflow task owned by ownerID.
// Deleted and recurring-template tasks report ok=false.
func (t Task) ToModel(ownerID string) (task model.Task, ok bool) {
	var status model.Status
	switch t.Status {
	case PENDING:
		status = model.StatusTodo
		if t.Start.valid() {
			status = model.StatusInProgress
		}
	case WAITING:
		status = model.StatusBlocked
	case COMPLETED:
		status = model.StatusDone
	default:
		return model.Task{}, false
	}

	prio := model.PriorityLow
	switch {
	case t.hasTag(urgentTag):
		prio = model.PriorityUrgent
	case t.Priority == "H":
		prio = model.PriorityHigh
	case t.Priority == "M":
		prio = model.PriorityMedium
	}

	var desc strings.Builder
	if t.Project != "" {
		fmt.Fprintf(&desc, "Project: %s\n", t.Project)
	}
	for _, ann := range t.Annotations {
		fmt.Fprintf(&desc, "‣ %s\n", ann.Description)
	}

	task = model.Task{
		ID:          t.UUID,
		Title:       t.Description,
		Description: strings.TrimSpace(desc.String()),
		Status:      status,
		Priority:    prio,
		OwnerID:     ownerID,
	}
	if t.Due.valid() {
		task.DueAt = model.NewDueTime(t.Due.Time)
	}
	if t.Entry.valid() {
		task.CreatedAt = t.Entry.Time
	}
	if t.Modified.valid() {
		task.UpdatedAt = t.Modified.Time
	}
	return task, true
}
