package google

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/autoflow/pkg/model"
)

var seoul = time.FixedZone("KST", 9*60*60)

func TestTaskToEvent(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, seoul)
	task := model.Task{
		ID:          "t1",
		Title:       "분기 보고서",
		Description: "draft",
		Status:      model.StatusTodo,
		Priority:    model.PriorityLow,
	}.WithDue(now.Add(5 * time.Hour))

	event, err := TaskToEvent(task, now, seoul)
	require.NoError(t, err)
	assert.Equal(t, "[업무] 분기 보고서", event.Summary)
	assert.Equal(t, "6", event.ColorId, "due within a day is high")
	assert.Equal(t, "2024-06-10T14:00:00+09:00", event.Start.DateTime)
	assert.Equal(t, "2024-06-10T15:00:00+09:00", event.End.DateTime)
	assert.Equal(t, "t1", event.ExtendedProperties.Private[TaskIDProperty])
	assert.Contains(t, event.Description, "ID: t1")
	require.Len(t, event.Reminders.Overrides, 2)
	assert.Equal(t, int64(1440), event.Reminders.Overrides[0].Minutes)
	assert.Equal(t, "popup", event.Reminders.Overrides[1].Method)
}

func TestEventSummaryPrefixes(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	late := model.Task{Title: "late", Status: model.StatusInProgress}.WithDue(now.Add(-time.Hour))
	assert.Equal(t, "! [업무] late", EventSummary(late, now))

	late.Status = model.StatusDone
	assert.Equal(t, "✓ [업무] late", EventSummary(late, now))
}

func TestTaskToEventRequiresDue(t *testing.T) {
	_, err := TaskToEvent(model.Task{ID: "x", Title: "no due"}, time.Now(), time.UTC)
	assert.Error(t, err)
}

func TestEventNeedsUpdate(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	task := model.Task{ID: "t1", Title: "a", Status: model.StatusTodo}.WithDue(now.Add(96 * time.Hour))
	target, err := TaskToEvent(task, now, time.UTC)
	require.NoError(t, err)

	same := *target
	patch, err := EventNeedsUpdate(&same, target)
	require.NoError(t, err)
	assert.Nil(t, patch)

	// same instant in another zone is not a change
	shifted := *target
	shifted.Start = &calendar.EventDateTime{DateTime: now.Add(96 * time.Hour).In(seoul).Format(time.RFC3339)}
	patch, err = EventNeedsUpdate(&shifted, target)
	require.NoError(t, err)
	assert.Nil(t, patch)

	renamed := *target
	renamed.Summary = "old"
	patch, err = EventNeedsUpdate(&renamed, target)
	require.NoError(t, err)
	require.NotNil(t, patch)
	assert.Equal(t, target.Summary, patch.Summary)
	assert.Nil(t, patch.Start)

	broken := *target
	broken.End = &calendar.EventDateTime{DateTime: "garbage"}
	_, err = EventNeedsUpdate(&broken, target)
	assert.Error(t, err)
}
