package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Layouts accepted for due dates, tried in order.
var dueLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// taskwarriorLayout is always UTC; the trailing Z is a literal.
const taskwarriorLayout = "20060102T150405Z"

// DueTime is a due date that never fails to decode. A value that cannot be
// parsed keeps its raw text and reports Valid() == false, so a single bad
// record is treated as "no due date" instead of aborting a batch.
type DueTime struct {
	time.Time
	Raw string
}

func NewDueTime(t time.Time) *DueTime {
	return &DueTime{Time: t}
}

// ParseDueTime parses s with the accepted layouts. Layouts without a zone are
// interpreted in loc.
func ParseDueTime(s string, loc *time.Location) *DueTime {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &DueTime{Time: t}
		}
	}
	if t, err := time.Parse(taskwarriorLayout, s); err == nil {
		return &DueTime{Time: t}
	}
	return &DueTime{Raw: s}
}

// Valid reports whether the due date was parsed successfully.
func (d *DueTime) Valid() bool {
	return d != nil && !d.Time.IsZero()
}

// UnmarshalJSON implements json.Unmarshaler. It never returns an error for a
// malformed date string.
func (d *DueTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" || s == "0" {
		*d = DueTime{}
		return nil
	}
	*d = *ParseDueTime(s, time.UTC)
	return nil
}

// MarshalJSON implements json.Marshaler. Invalid values round-trip their raw text.
func (d DueTime) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		if d.Raw == "" {
			return []byte(`null`), nil
		}
		return json.Marshal(d.Raw)
	}
	return []byte(`"` + d.Time.Format(time.RFC3339Nano) + `"`), nil
}

// String renders the due date for storage.
func (d *DueTime) String() string {
	if d == nil {
		return ""
	}
	if d.Time.IsZero() {
		return d.Raw
	}
	return d.Time.Format(time.RFC3339Nano)
}
