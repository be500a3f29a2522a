package priority

import (
	"time"

	"github.com/harrisonrobin/autoflow/pkg/model"
)

// Cadence is a suggested reminder re-notification interval.
type Cadence string

const (
	Cadence6h  Cadence = "6h"
	Cadence12h Cadence = "12h"
	Cadence24h Cadence = "24h"
)

const tightWindow = 12 * time.Hour

// Interval returns the cadence as a duration.
func (c Cadence) Interval() time.Duration {
	switch c {
	case Cadence6h:
		return 6 * time.Hour
	case Cadence12h:
		return 12 * time.Hour
	}
	return 24 * time.Hour
}

// CadenceFor suggests how often t should be re-notified. It is advisory only.
func CadenceFor(t model.Task, now time.Time) Cadence {
	switch Classify(t, now) {
	case model.PriorityUrgent:
		if left, ok := TimeToDue(t, now); ok && left <= tightWindow {
			return Cadence6h
		}
		return Cadence12h
	case model.PriorityHigh:
		return Cadence12h
	}
	return Cadence24h
}
