// Package priority derives a task's effective priority and reminder cadence
// from its due date. Every other package compares due dates through the
// helpers in this file so that boundary behaviour stays identical everywhere.
package priority

import (
	"time"

	"github.com/harrisonrobin/autoflow/pkg/model"
)

const (
	Day = 24 * time.Hour

	highWindow   = 24 * time.Hour
	mediumWindow = 72 * time.Hour
)

// TimeToDue returns due-now. ok is false when the task has no usable due date.
func TimeToDue(t model.Task, now time.Time) (d time.Duration, ok bool) {
	due, ok := t.Due()
	if !ok {
		return 0, false
	}
	return due.Sub(now), true
}

// IsOverdue reports whether the task's due date is strictly before now.
// A task due exactly at now is not overdue. Status is not checked.
func IsOverdue(t model.Task, now time.Time) bool {
	due, ok := t.Due()
	return ok && due.Before(now)
}

// DueWithin reports whether 0 < due-now <= d.
func DueWithin(t model.Task, now time.Time, d time.Duration) bool {
	left, ok := TimeToDue(t, now)
	return ok && left > 0 && left <= d
}

// DaysDelayed returns the number of whole days the task is past due, or 0.
func DaysDelayed(t model.Task, now time.Time) int {
	due, ok := t.Due()
	if !ok || !due.Before(now) {
		return 0
	}
	return int(now.Sub(due) / Day)
}
