// Package digest builds the daily digest: time-window task buckets plus
// aggregate statistics and a one-line summary. It does no formatting beyond
// that line; see package notify for chat rendering.
package digest

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/harrisonrobin/autoflow/pkg/delay"
	"github.com/harrisonrobin/autoflow/pkg/model"
	"github.com/harrisonrobin/autoflow/pkg/priority"
)

// Stats are the aggregate numbers of a digest.
type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	CompletionRate int `json:"completionRate"`
	DelayedCount   int `json:"delayedCount"`
	TodayCount     int `json:"todayCount"`
	ThreeDayCount  int `json:"threeDayCount"`
	UrgentCount    int `json:"urgentCount"`
}

// Digest is the channel-agnostic output of Build.
type Digest struct {
	Summary       string       `json:"summary"`
	GeneratedAt   time.Time    `json:"generatedAt"`
	TodayTasks    []model.Task `json:"todayTasks"`
	ThreeDayTasks []model.Task `json:"threeDayTasks"`
	UrgentTasks   []model.Task `json:"urgentTasks"`
	DelayedTasks  []model.Task `json:"delayedTasks"`
	Stats         Stats        `json:"stats"`
}

// Windows are the calendar boundaries of a digest, all in now's location.
// Both windows are half-open: [TodayStart, TodayEnd) and [TodayEnd, ThreeDayEnd).
type Windows struct {
	TodayStart  time.Time
	TodayEnd    time.Time
	ThreeDayEnd time.Time
}

// WindowsAt computes the windows for now. Calendar days are added with
// AddDate so a DST shift does not move midnight.
func WindowsAt(now time.Time) Windows {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return Windows{
		TodayStart:  start,
		TodayEnd:    start.AddDate(0, 0, 1),
		ThreeDayEnd: start.AddDate(0, 0, 4),
	}
}

// SummaryLine renders the one-line summary used by alerts.
func SummaryLine(s Stats) string {
	return fmt.Sprintf("오늘 완료율: %d%% | 지연 위험: %d건 | 총 업무: %d건", s.CompletionRate, s.DelayedCount, s.Total)
}

// CompletionRate returns completed/total as a percentage rounded half up,
// or 0 when total is 0.
func CompletionRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(completed)*100/float64(total) + 0.5))
}

// Build computes the digest of tasks at now. now is captured once by the
// caller; every bucket is evaluated against the same instant.
func Build(tasks []model.Task, now time.Time) Digest {
	w := WindowsAt(now)
	d := Digest{
		GeneratedAt:   now,
		TodayTasks:    []model.Task{},
		ThreeDayTasks: []model.Task{},
		UrgentTasks:   []model.Task{},
		DelayedTasks:  delay.Scan(tasks, now).Delayed,
	}

	completed := 0
	for _, t := range tasks {
		if t.Status.IsDone() {
			completed++
			continue
		}
		if inUrgent(t, now) {
			d.UrgentTasks = append(d.UrgentTasks, t)
		}
		if t.Status == model.StatusBlocked {
			continue
		}
		due, ok := t.Due()
		if !ok {
			continue
		}
		switch {
		case !due.Before(w.TodayStart) && due.Before(w.TodayEnd):
			d.TodayTasks = append(d.TodayTasks, t)
		case !due.Before(w.TodayEnd) && due.Before(w.ThreeDayEnd):
			d.ThreeDayTasks = append(d.ThreeDayTasks, t)
		}
	}

	sortByDue(d.TodayTasks)
	sortByDue(d.ThreeDayTasks)
	sortUrgent(d.UrgentTasks, now)

	d.Stats = Stats{
		Total:          len(tasks),
		Completed:      completed,
		CompletionRate: CompletionRate(completed, len(tasks)),
		DelayedCount:   len(d.DelayedTasks),
		TodayCount:     len(d.TodayTasks),
		ThreeDayCount:  len(d.ThreeDayTasks),
		UrgentCount:    len(d.UrgentTasks),
	}
	d.Summary = SummaryLine(d.Stats)
	return d
}

func inUrgent(t model.Task, now time.Time) bool {
	return priority.IsOverdue(t, now) ||
		model.ParsePriority(string(t.Priority)) == model.PriorityUrgent ||
		priority.DueWithin(t, now, priority.Day)
}

// dueBefore orders tasks without a due date first, then by ascending due.
func dueBefore(a, b model.Task) bool {
	da, oka := a.Due()
	db, okb := b.Due()
	if oka != okb {
		return !oka
	}
	return oka && da.Before(db)
}

func sortByDue(ts []model.Task) {
	sort.SliceStable(ts, func(i, j int) bool {
		return dueBefore(ts[i], ts[j])
	})
}

func sortUrgent(ts []model.Task, now time.Time) {
	sort.SliceStable(ts, func(i, j int) bool {
		oi, oj := priority.IsOverdue(ts[i], now), priority.IsOverdue(ts[j], now)
		if oi != oj {
			return oi
		}
		return dueBefore(ts[i], ts[j])
	})
}
