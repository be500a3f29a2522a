package digest

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/autoflow/pkg/model"
)

var now = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func mk(id string, st model.Status, p model.Priority, due string) model.Task {
	t := model.Task{ID: id, Title: id, Status: st, Priority: p, OwnerID: "u1"}
	if due != "" {
		t.DueAt = model.ParseDueTime(due, time.UTC)
	}
	return t
}

func ids(ts []model.Task) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.ID)
	}
	return out
}

func TestBuildMixedList(t *testing.T) {
	tasks := []model.Task{
		mk("done1", model.StatusDone, model.PriorityLow, "2024-06-01T10:00:00Z"),
		mk("done2", model.StatusDone, model.PriorityUrgent, ""),
		mk("done3", model.StatusDone, model.PriorityHigh, "2024-06-10T15:00:00Z"),
		mk("late1", model.StatusTodo, model.PriorityLow, "2024-06-09T10:00:00Z"),
		mk("late2", model.StatusInProgress, model.PriorityMedium, "2024-06-08T10:00:00Z"),
		mk("today", model.StatusTodo, model.PriorityLow, "2024-06-10T18:00:00Z"),
		mk("twodays", model.StatusTodo, model.PriorityLow, "2024-06-12T15:00:00Z"),
		mk("low", model.StatusTodo, model.PriorityLow, ""),
		mk("medium", model.StatusTodo, model.PriorityMedium, ""),
		mk("high", model.StatusTodo, model.PriorityHigh, ""),
	}

	d := Build(tasks, now)

	assert.Equal(t, Stats{
		Total:          10,
		Completed:      3,
		CompletionRate: 30,
		DelayedCount:   2,
		TodayCount:     1,
		ThreeDayCount:  1,
		UrgentCount:    3,
	}, d.Stats)
	assert.Equal(t, []string{"today"}, ids(d.TodayTasks))
	assert.Equal(t, []string{"twodays"}, ids(d.ThreeDayTasks))
	assert.Equal(t, []string{"late2", "late1", "today"}, ids(d.UrgentTasks))
	assert.Equal(t, []string{"late1", "late2"}, ids(d.DelayedTasks))
	assert.Equal(t, "오늘 완료율: 30% | 지연 위험: 2건 | 총 업무: 10건", d.Summary)
}

func TestBuildEmpty(t *testing.T) {
	d := Build(nil, now)
	assert.Equal(t, Stats{}, d.Stats)
	assert.Empty(t, d.TodayTasks)
	assert.Empty(t, d.ThreeDayTasks)
	assert.Empty(t, d.UrgentTasks)
	assert.Empty(t, d.DelayedTasks)
	assert.NotNil(t, d.TodayTasks)
	assert.Equal(t, "오늘 완료율: 0% | 지연 위험: 0건 | 총 업무: 0건", d.Summary)
}

func TestBuildExcludesDoneEverywhere(t *testing.T) {
	tasks := []model.Task{
		mk("a", model.StatusDone, model.PriorityUrgent, "2024-06-09T10:00:00Z"),
		mk("b", model.StatusDone, model.PriorityLow, "2024-06-10T13:00:00Z"),
		mk("c", model.StatusDone, model.PriorityLow, "2024-06-12T13:00:00Z"),
	}
	d := Build(tasks, now)
	assert.Empty(t, d.TodayTasks)
	assert.Empty(t, d.ThreeDayTasks)
	assert.Empty(t, d.UrgentTasks)
	assert.Empty(t, d.DelayedTasks)
	assert.Equal(t, 100, d.Stats.CompletionRate)
}

func TestBuildWindowBoundaries(t *testing.T) {
	tasks := []model.Task{
		mk("start-of-today", model.StatusTodo, model.PriorityLow, "2024-06-10T00:00:00Z"),
		mk("last-ms-today", model.StatusTodo, model.PriorityLow, "2024-06-10T23:59:59.999Z"),
		mk("midnight", model.StatusTodo, model.PriorityLow, "2024-06-11T00:00:00Z"),
		mk("end-of-third-day", model.StatusTodo, model.PriorityLow, "2024-06-13T23:59:59Z"),
		mk("fourth-day", model.StatusTodo, model.PriorityLow, "2024-06-14T00:00:00Z"),
		mk("yesterday", model.StatusTodo, model.PriorityLow, "2024-06-09T23:59:59Z"),
	}
	d := Build(tasks, now)
	assert.Equal(t, []string{"start-of-today", "last-ms-today"}, ids(d.TodayTasks))
	assert.Equal(t, []string{"midnight", "end-of-third-day"}, ids(d.ThreeDayTasks))
}

func TestBuildBlockedPolicy(t *testing.T) {
	tasks := []model.Task{
		mk("blocked-late", model.StatusBlocked, model.PriorityLow, "2024-06-09T10:00:00Z"),
		mk("blocked-today", model.StatusBlocked, model.PriorityLow, "2024-06-10T20:00:00Z"),
		mk("blocked-soon", model.StatusBlocked, model.PriorityLow, "2024-06-12T20:00:00Z"),
	}
	d := Build(tasks, now)
	assert.Empty(t, d.TodayTasks)
	assert.Empty(t, d.ThreeDayTasks)
	assert.Equal(t, []string{"blocked-late"}, ids(d.DelayedTasks))
	assert.Equal(t, []string{"blocked-late", "blocked-today"}, ids(d.UrgentTasks))
}

func TestBuildUrgentOrdering(t *testing.T) {
	tasks := []model.Task{
		mk("soon", model.StatusTodo, model.PriorityLow, "2024-06-10T14:00:00Z"),
		mk("base-urgent-nodue", model.StatusTodo, model.PriorityUrgent, ""),
		mk("late-recent", model.StatusTodo, model.PriorityLow, "2024-06-10T11:00:00Z"),
		mk("base-urgent-far", model.StatusTodo, model.PriorityUrgent, "2024-07-01T00:00:00Z"),
		mk("late-old", model.StatusTodo, model.PriorityLow, "2024-06-01T11:00:00Z"),
		mk("exactly-now", model.StatusTodo, model.PriorityLow, "2024-06-10T12:00:00Z"),
		mk("medium-later", model.StatusTodo, model.PriorityMedium, "2024-06-12T12:00:00Z"),
	}
	d := Build(tasks, now)
	assert.Equal(t,
		[]string{"late-old", "late-recent", "base-urgent-nodue", "soon", "base-urgent-far"},
		ids(d.UrgentTasks))
}

func TestBuildUrgentOrderingFarFuture(t *testing.T) {
	tasks := []model.Task{
		mk("far", model.StatusTodo, model.PriorityUrgent, "2300-01-01T00:00:00Z"),
		mk("soon", model.StatusTodo, model.PriorityLow, "2024-06-10T14:00:00Z"),
		mk("ancient", model.StatusTodo, model.PriorityUrgent, "1600-01-01T00:00:00Z"),
	}
	d := Build(tasks, now)
	assert.Equal(t, []string{"ancient", "soon", "far"}, ids(d.UrgentTasks))
}

func TestBuildMalformedDueIsIgnored(t *testing.T) {
	tasks := []model.Task{
		mk("bad", model.StatusTodo, model.PriorityLow, "not a date"),
		mk("ok", model.StatusTodo, model.PriorityLow, "2024-06-10T13:00:00Z"),
	}
	d := Build(tasks, now)
	assert.Equal(t, 2, d.Stats.Total)
	assert.Equal(t, []string{"ok"}, ids(d.TodayTasks))
	assert.Equal(t, []string{"ok"}, ids(d.UrgentTasks))
	assert.Empty(t, d.DelayedTasks)
}

func TestBuildIsDeterministic(t *testing.T) {
	var tasks []model.Task
	for i := 0; i < 30; i++ {
		due := now.Add(time.Duration(i-10) * 7 * time.Hour).Format(time.RFC3339)
		st := model.StatusTodo
		if i%4 == 0 {
			st = model.StatusDone
		}
		tasks = append(tasks, mk(fmt.Sprintf("t%02d", i), st, model.PriorityMedium, due))
	}
	first := Build(tasks, now)
	second := Build(tasks, now)
	assert.Equal(t, first.Stats, second.Stats)
	assert.Equal(t, first.Summary, second.Summary)

	today := map[string]bool{}
	for _, t := range first.TodayTasks {
		today[t.ID] = true
	}
	for _, tt := range first.ThreeDayTasks {
		require.False(t, today[tt.ID], "task %s in both today and three-day buckets", tt.ID)
	}
}

func TestBuildUsesNowLocation(t *testing.T) {
	seoul := time.FixedZone("KST", 9*3600)
	localNow := time.Date(2024, 6, 10, 8, 0, 0, 0, seoul) // 2024-06-09T23:00Z
	tasks := []model.Task{
		mk("kst-today", model.StatusTodo, model.PriorityLow, "2024-06-10T14:00:00Z"), // 23:00 KST
	}
	d := Build(tasks, localNow)
	assert.Equal(t, []string{"kst-today"}, ids(d.TodayTasks))
}

func TestCompletionRateRounding(t *testing.T) {
	assert.Equal(t, 0, CompletionRate(0, 0))
	assert.Equal(t, 33, CompletionRate(1, 3))
	assert.Equal(t, 67, CompletionRate(2, 3))
	assert.Equal(t, 50, CompletionRate(1, 2))
	assert.Equal(t, 13, CompletionRate(1, 8)) // 12.5 rounds up
}
