package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DefaultDailySummaryTime = "18:30"

// TemplateSchedule asks for a template to be instantiated every week on Day
// at Time ("09:00").
type TemplateSchedule struct {
	TemplateID string `yaml:"template_id" json:"templateId"`
	Day        string `yaml:"day" json:"day"`
	Time       string `yaml:"time" json:"time"`
}

// Settings are the notification options passed explicitly into every
// dispatch call. Times are "HH:MM" in the configured timezone.
type Settings struct {
	QuietHoursStart   string             `yaml:"quiet_hours_start" json:"quietHoursStart,omitempty"`
	QuietHoursEnd     string             `yaml:"quiet_hours_end" json:"quietHoursEnd,omitempty"`
	DailySummaryTime  string             `yaml:"daily_summary_time" json:"dailySummaryTime,omitempty"`
	TemplateSchedules []TemplateSchedule `yaml:"template_schedules" json:"templateSchedules,omitempty"`
}

// Validate checks every clock field and weekday.
func (s Settings) Validate() error {
	for name, v := range map[string]string{
		"quiet_hours_start":  s.QuietHoursStart,
		"quiet_hours_end":    s.QuietHoursEnd,
		"daily_summary_time": s.DailySummaryTime,
	} {
		if v == "" {
			continue
		}
		if _, err := ParseClock(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	for _, ts := range s.TemplateSchedules {
		if _, ok := ParseWeekday(ts.Day); !ok {
			return fmt.Errorf("template %s: unknown day %q", ts.TemplateID, ts.Day)
		}
		if _, err := ParseClock(ts.Time); err != nil {
			return fmt.Errorf("template %s: %w", ts.TemplateID, err)
		}
	}
	return nil
}

// QuietAt reports whether now falls inside the quiet hours. Ranges that end
// at or before their start wrap past midnight. The end minute is exclusive.
func (s Settings) QuietAt(now time.Time) bool {
	start, err := ParseClock(s.QuietHoursStart)
	if err != nil {
		return false
	}
	end, err := ParseClock(s.QuietHoursEnd)
	if err != nil {
		return false
	}
	cur := now.Hour()*60 + now.Minute()
	if end <= start {
		end += 24 * 60
	}
	if cur < start {
		cur += 24 * 60
	}
	return cur >= start && cur < end
}

// ParseClock parses "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	hh, err := strconv.Atoi(h)
	if err != nil || hh < 0 || hh > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	mm, err := strconv.Atoi(m)
	if err != nil || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hh*60 + mm, nil
}

// ParseWeekday parses a lower-case English weekday name ("monday").
func ParseWeekday(s string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(s)) {
			return d, true
		}
	}
	return 0, false
}
