// Package overdue tracks calendar events of incomplete tasks that are not yet
// past due, so the delay run can flag each event exactly once when its task
// becomes overdue.
package overdue

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/harrisonrobin/autoflow/pkg/jsonfile"
)

const tableFile = "pending_tasks.json"

type Entry struct {
	TaskID  string    `json:"task_id"`
	EventID string    `json:"event_id"`
	Title   string    `json:"title"`
	DueAt   time.Time `json:"due_at"`
}

type Table struct {
	Entries map[string]Entry `json:"entries"`
	Path    string           `json:"-"`
	dirty   bool
}

// NewTable opens the table stored in dir, loading it if it exists.
func NewTable(dir string) (*Table, error) {
	t := &Table{Path: filepath.Join(dir, tableFile)}
	if _, err := jsonfile.Load(t.Path, t); err != nil {
		return nil, err
	}
	if t.Entries == nil {
		t.Entries = make(map[string]Entry)
	}
	return t, nil
}

// Save writes the table if it changed since it was opened or last saved.
func (t *Table) Save() error {
	if !t.dirty {
		return nil
	}
	if err := jsonfile.Save(t.Path, t); err != nil {
		return err
	}
	t.dirty = false
	return nil
}

// Track records a synced event whose task is due in the future at now.
// Tasks that are already overdue, or have no due date, are dropped.
func (t *Table) Track(taskID, eventID, title string, due time.Time, now time.Time) {
	if due.IsZero() || due.Before(now) {
		t.Remove(taskID)
		return
	}
	old, ok := t.Entries[taskID]
	if ok && old.EventID == eventID && old.Title == title && old.DueAt.Equal(due) {
		return
	}
	t.Entries[taskID] = Entry{TaskID: taskID, EventID: eventID, Title: title, DueAt: due}
	t.dirty = true
}

func (t *Table) Remove(taskID string) {
	if _, ok := t.Entries[taskID]; ok {
		delete(t.Entries, taskID)
		t.dirty = true
	}
}

// Sweep removes and returns the entries whose due date is strictly before
// now, oldest first.
func (t *Table) Sweep(now time.Time) []Entry {
	var swept []Entry
	for id, e := range t.Entries {
		if e.DueAt.Before(now) {
			swept = append(swept, e)
			delete(t.Entries, id)
			t.dirty = true
		}
	}
	sort.Slice(swept, func(i, j int) bool {
		return swept[i].DueAt.Before(swept[j].DueAt)
	})
	return swept
}
