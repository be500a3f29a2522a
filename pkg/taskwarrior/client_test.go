package taskwarrior

import (
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/autoflow/pkg/model"
)

func TestParseTask(t *testing.T) {
	input := `{
		"uuid": "f45a05b3-c12e-42e5-9c9c-333333333333",
		"description": "Buy milk",
		"status": "pending",
		"due": "20230101T120000Z",
		"project": "Groceries",
		"tags": ["buy", "food"],
		"annotations": [
			{"entry": "20230101T120500Z", "description": "Don't forget almond milk"}
		]
	}`

	client := NewClient()
	task, err := client.ParseTask(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTask failed: %v", err)
	}

	if task.UUID != "f45a05b3-c12e-42e5-9c9c-333333333333" {
		t.Errorf("Expected UUID f45a05b3-c12e-42e5-9c9c-333333333333, got %s", task.UUID)
	}
	if task.Description != "Buy milk" {
		t.Errorf("Expected Description 'Buy milk', got '%s'", task.Description)
	}
	if len(task.Tags) != 2 {
		t.Errorf("Expected 2 tags, got %d", len(task.Tags))
	}
	expectedDue, _ := time.Parse(time.RFC3339, "2023-01-01T12:00:00Z")
	if !task.Due.Time.Equal(expectedDue) {
		t.Errorf("Expected Due %v, got %v", expectedDue, task.Due.Time)
	}

	m, ok := task.ToModel("u1")
	if !ok {
		t.Fatalf("Expected pending task to convert")
	}
	if m.Status != model.StatusTodo || m.Priority != model.PriorityLow || m.OwnerID != "u1" {
		t.Errorf("Unexpected conversion: %+v", m)
	}
	due, ok := m.Due()
	if !ok || !due.Equal(expectedDue) {
		t.Errorf("Expected due %v, got %v", expectedDue, due)
	}
	if !strings.Contains(m.Description, "Project: Groceries") || !strings.Contains(m.Description, "almond milk") {
		t.Errorf("Expected project and annotation in description, got %q", m.Description)
	}
}

func TestParseTasksHookAndExport(t *testing.T) {
	hook := `{"uuid":"a","description":"old","status":"pending"}
{"uuid":"a","description":"new","status":"completed"}`
	tasks, err := NewClient().ParseTasks(strings.NewReader(hook))
	if err != nil {
		t.Fatalf("ParseTasks failed: %v", err)
	}
	if len(tasks) != 2 || tasks[1].Description != "new" {
		t.Fatalf("Expected 2 hook tasks, got %+v", tasks)
	}

	export := `[{"uuid":"a","description":"x","status":"pending"},{"uuid":"b","description":"y","status":"waiting"}]`
	tasks, err = NewClient().ParseTasks(strings.NewReader(export))
	if err != nil {
		t.Fatalf("ParseTasks failed on export: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("Expected 2 exported tasks, got %d", len(tasks))
	}

	if _, err := NewClient().ParseTasks(strings.NewReader(`{"uuid":`)); err == nil {
		t.Errorf("Expected error for truncated json")
	}
}

func TestConvertMapping(t *testing.T) {
	started := &CustomTime{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	tasks := []Task{
		{UUID: "1", Description: "a", Status: PENDING, Priority: "H"},
		{UUID: "2", Description: "b", Status: PENDING, Priority: "M", Start: started},
		{UUID: "3", Description: "c", Status: WAITING, Tags: []string{"URGENT"}},
		{UUID: "4", Description: "d", Status: COMPLETED},
		{UUID: "5", Description: "e", Status: DELETED},
		{UUID: "6", Description: "f", Status: RECURRING},
	}
	got := Convert(tasks, "u1")
	if len(got) != 4 {
		t.Fatalf("Expected 4 converted tasks, got %d", len(got))
	}

	want := []struct {
		status   model.Status
		priority model.Priority
	}{
		{model.StatusTodo, model.PriorityHigh},
		{model.StatusInProgress, model.PriorityMedium},
		{model.StatusBlocked, model.PriorityUrgent},
		{model.StatusDone, model.PriorityLow},
	}
	for i, w := range want {
		if got[i].Status != w.status || got[i].Priority != w.priority {
			t.Errorf("task %s: expected %s/%s, got %s/%s", got[i].ID, w.status, w.priority, got[i].Status, got[i].Priority)
		}
		if got[i].DueAt != nil {
			t.Errorf("task %s: expected no due date", got[i].ID)
		}
	}
}
