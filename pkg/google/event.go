package google

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrisonrobin/autoflow/pkg/model"
	"github.com/harrisonrobin/autoflow/pkg/priority"
	"google.golang.org/api/calendar/v3"
)

const (
	// TaskIDProperty is the private extended property linking an event to its task.
	TaskIDProperty = "autoflow_task_id"

	summaryPrefix   = "[업무] "
	overduePrefix   = "! "
	donePrefix      = "✓ "
	eventDuration   = time.Hour
	dayReminderMin  = 24 * 60
	hourReminderMin = 60
)

// Google Calendar event color IDs per effective priority.
var priorityColors = map[model.Priority]string{
	model.PriorityUrgent: "11", // tomato
	model.PriorityHigh:   "6",  // tangerine
	model.PriorityMedium: "5",  // banana
	model.PriorityLow:    "2",  // sage
}

const doneColor = "8" // graphite

// EventSummary is the calendar title for t at now.
func EventSummary(t model.Task, now time.Time) string {
	summary := summaryPrefix + t.Title
	switch {
	case t.Status.IsDone():
		return donePrefix + summary
	case priority.IsOverdue(t, now):
		return overduePrefix + summary
	}
	return summary
}

// TaskToEvent converts a task with a due date into a one hour event starting
// at the due time, colored by its effective priority at now.
func TaskToEvent(t model.Task, now time.Time, loc *time.Location) (*calendar.Event, error) {
	due, ok := t.Due()
	if !ok {
		return nil, fmt.Errorf("task %s has no usable due date", t.ID)
	}
	if loc == nil {
		loc = time.UTC
	}
	start := due.In(loc)
	end := start.Add(eventDuration)

	color := doneColor
	if !t.Status.IsDone() {
		color = priorityColors[priority.Classify(t, now)]
	}

	var desc strings.Builder
	if t.Description != "" {
		desc.WriteString(t.Description)
		desc.WriteString("\n\n")
	}
	fmt.Fprintf(&desc, "Status: %s\n", t.Status)
	fmt.Fprintf(&desc, "Priority: %s\n", t.Priority)
	if t.Assigner != "" {
		fmt.Fprintf(&desc, "Assigner: %s\n", t.Assigner)
	}
	fmt.Fprintf(&desc, "ID: %s\n", t.ID)

	return &calendar.Event{
		Summary:     EventSummary(t, now),
		Description: desc.String(),
		ColorId:     color,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: loc.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: loc.String(),
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: dayReminderMin},
				{Method: "popup", Minutes: hourReminderMin},
			},
			ForceSendFields: []string{"UseDefault"},
		},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{TaskIDProperty: t.ID},
		},
	}, nil
}

// EventNeedsUpdate returns a patch holding the fields of target that differ
// from existing, or nil when they match.
func EventNeedsUpdate(existing, target *calendar.Event) (*calendar.Event, error) {
	patch := &calendar.Event{}
	needsUpdate := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		needsUpdate = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		needsUpdate = true
	}
	if existing.ColorId != target.ColorId {
		patch.ColorId = target.ColorId
		needsUpdate = true
	}

	sameStart, err := sameInstant(existing.Start, target.Start)
	if err != nil {
		return nil, err
	}
	sameEnd, err := sameInstant(existing.End, target.End)
	if err != nil {
		return nil, err
	}
	if !sameStart || !sameEnd {
		patch.Start = target.Start
		patch.End = target.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch, nil
	}
	return nil, nil
}

func sameInstant(a, b *calendar.EventDateTime) (bool, error) {
	if a == nil || b == nil {
		return a == b, nil
	}
	at, err := time.Parse(time.RFC3339, a.DateTime)
	if err != nil {
		return false, err
	}
	bt, err := time.Parse(time.RFC3339, b.DateTime)
	if err != nil {
		return false, err
	}
	return at.Equal(bt), nil
}
