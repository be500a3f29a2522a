package priority

import (
	"time"

	"github.com/harrisonrobin/autoflow/pkg/model"
)

// Classify returns the effective priority of t at now. The first matching
// rule wins:
//
//	due < now        -> urgent
//	due-now <= 24h   -> high
//	due-now <= 72h   -> medium
//	otherwise        -> stored priority (low when unset)
//
// Callers exclude done tasks; Classify does not look at the status.
func Classify(t model.Task, now time.Time) model.Priority {
	if left, ok := TimeToDue(t, now); ok {
		switch {
		case left < 0:
			return model.PriorityUrgent
		case left <= highWindow:
			return model.PriorityHigh
		case left <= mediumWindow:
			return model.PriorityMedium
		}
	}
	return model.ParsePriority(string(t.Priority))
}
