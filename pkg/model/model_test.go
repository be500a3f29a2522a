package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDueTime(t *testing.T) {
	kst := time.FixedZone("KST", 9*3600)
	tests := []struct {
		in    string
		valid bool
		want  time.Time
	}{
		{"2024-06-10T12:00:00Z", true, time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)},
		{"2024-06-10T12:00:00.250+09:00", true, time.Date(2024, 6, 10, 3, 0, 0, 250e6, time.UTC)},
		{"2024-06-10T09:30", true, time.Date(2024, 6, 10, 9, 30, 0, 0, kst)},
		{"2024-06-10", true, time.Date(2024, 6, 10, 0, 0, 0, 0, kst)},
		{"20240610T120000Z", true, time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)},
		{"tomorrow-ish", false, time.Time{}},
		{"2024-13-45", false, time.Time{}},
	}
	for _, tt := range tests {
		d := ParseDueTime(tt.in, kst)
		if d.Valid() != tt.valid {
			t.Errorf("ParseDueTime(%q).Valid() = %v, want %v", tt.in, d.Valid(), tt.valid)
			continue
		}
		if tt.valid && !d.Time.Equal(tt.want) {
			t.Errorf("ParseDueTime(%q) = %v, want %v", tt.in, d.Time, tt.want)
		}
		if !tt.valid && d.Raw != tt.in {
			t.Errorf("ParseDueTime(%q) lost raw text, got %q", tt.in, d.Raw)
		}
	}
	if ParseDueTime("  ", kst) != nil {
		t.Error("expected nil for blank input")
	}
}

func TestTaskJSONToleratesBadDueAt(t *testing.T) {
	input := `[
		{"id": "1", "title": "ok", "status": "todo", "priority": "high", "dueAt": "2024-06-10T12:00:00Z", "ownerId": "u"},
		{"id": "2", "title": "bad", "status": "todo", "priority": "low", "dueAt": "someday", "ownerId": "u"},
		{"id": "3", "title": "none", "status": "done", "priority": "", "ownerId": "u"}
	]`
	var tasks []Task
	if err := json.Unmarshal([]byte(input), &tasks); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(tasks))
	}
	if _, ok := tasks[0].Due(); !ok {
		t.Errorf("Expected task 1 to have a due date")
	}
	if _, ok := tasks[1].Due(); ok {
		t.Errorf("Expected malformed due date to be treated as absent")
	}
	if _, ok := tasks[2].Due(); ok {
		t.Errorf("Expected task 3 to have no due date")
	}

	out, err := json.Marshal(tasks[1])
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back["dueAt"] != "someday" {
		t.Errorf("Expected raw dueAt to round-trip, got %v", back["dueAt"])
	}
}

func TestDueTimeKeepsSubSecondPrecision(t *testing.T) {
	d := NewDueTime(time.Date(2024, 6, 10, 12, 0, 0, 250e6, time.UTC))
	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != `"`+d.String()+`"` {
		t.Errorf("JSON %s and stored form %q differ", out, d.String())
	}
	var back DueTime
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !back.Time.Equal(d.Time) {
		t.Errorf("Expected %v after round trip, got %v", d.Time, back.Time)
	}
}

func TestParsePriority(t *testing.T) {
	if ParsePriority("urgent") != PriorityUrgent {
		t.Error("urgent not parsed")
	}
	if ParsePriority("") != PriorityLow || ParsePriority("critical") != PriorityLow {
		t.Error("unknown priorities must fall back to low")
	}
	if PriorityUrgent.Rank() <= PriorityHigh.Rank() || PriorityMedium.Rank() <= PriorityLow.Rank() {
		t.Error("rank order broken")
	}
}

func TestTemplateNewTask(t *testing.T) {
	tpl := Template{ID: "tpl", Name: "Weekly report", Checklist: []string{"collect numbers", "write summary"}}
	task := tpl.NewTask("owner-1")
	if task.Title != "Weekly report" || task.OwnerID != "owner-1" {
		t.Errorf("unexpected task %+v", task)
	}
	if task.Status != StatusTodo || task.Priority != PriorityMedium {
		t.Errorf("Expected todo/medium, got %s/%s", task.Status, task.Priority)
	}
	if task.Description != "1. collect numbers\n2. write summary" {
		t.Errorf("unexpected description %q", task.Description)
	}
}
