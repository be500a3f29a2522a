// Package schedule decides when the automation jobs are due. The checks are
// pure functions of the settings, the current time and the last run, so any
// trigger (the built-in ticker, cron, an HTTP call) can drive them.
package schedule

import (
	"fmt"
	"time"

	"github.com/harrisonrobin/autoflow/pkg/config"
)

// CatchUp is how long after its target minute a job may still fire, so a
// late tick does not skip a day.
const CatchUp = 15 * time.Minute

// IsQuietHour reports whether chat notifications are muted at now.
func IsQuietHour(s config.Settings, now time.Time) bool {
	return s.QuietAt(now)
}

// at returns today's instant for an "HH:MM" clock in now's location.
func at(clock string, now time.Time) (time.Time, error) {
	mins, err := config.ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, mins/60, mins%60, 0, 0, now.Location()), nil
}

// due reports whether a job targeted at target should run at now given it
// last ran at lastRun.
func due(target, now, lastRun time.Time) bool {
	if now.Before(target) || !now.Before(target.Add(CatchUp)) {
		return false
	}
	return lastRun.Before(target)
}

// DigestDue reports whether the daily summary should be sent at now.
func DigestDue(s config.Settings, now, lastRun time.Time) (bool, error) {
	clock := s.DailySummaryTime
	if clock == "" {
		clock = config.DefaultDailySummaryTime
	}
	target, err := at(clock, now)
	if err != nil {
		return false, fmt.Errorf("daily summary time: %w", err)
	}
	return due(target, now, lastRun), nil
}

// TemplateKey identifies a template schedule in the run state.
func TemplateKey(ts config.TemplateSchedule) string {
	return ts.TemplateID + "@" + ts.Day + " " + ts.Time
}

// DueTemplates returns the template schedules that should fire at now.
// lastRun looks up the previous run of a schedule by its TemplateKey.
func DueTemplates(s config.Settings, now time.Time, lastRun func(key string) time.Time) []config.TemplateSchedule {
	var out []config.TemplateSchedule
	for _, ts := range s.TemplateSchedules {
		day, ok := config.ParseWeekday(ts.Day)
		if !ok || day != now.Weekday() {
			continue
		}
		target, err := at(ts.Time, now)
		if err != nil {
			continue
		}
		if due(target, now, lastRun(TemplateKey(ts))) {
			out = append(out, ts)
		}
	}
	return out
}

// DelayScanDue reports whether every has passed since the last delay scan.
func DelayScanDue(now, lastRun time.Time, every time.Duration) bool {
	return lastRun.IsZero() || !now.Before(lastRun.Add(every))
}
