// Package delay finds overdue incomplete tasks and emits delay alerts.
package delay

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/harrisonrobin/autoflow/pkg/model"
	"github.com/harrisonrobin/autoflow/pkg/priority"
)

// TaskFetcher returns every task of an owner, or every task when ownerID is empty.
type TaskFetcher interface {
	FetchTasks(ctx context.Context, ownerID string) ([]model.Task, error)
}

// AlertSink persists an alert and returns its ID.
type AlertSink interface {
	PersistAlert(ctx context.Context, in model.AlertInput) (string, error)
}

// Result is the outcome of a scan.
type Result struct {
	DelayedCount int                `json:"delayedCount"`
	Alerts       []model.AlertInput `json:"alerts"`
	// Delayed holds the overdue tasks in input order.
	Delayed []model.Task `json:"-"`
	// Persisted counts alerts the sink accepted. Only set by Scanner.Run.
	Persisted int `json:"persisted"`
}

// IsDelayed reports whether t counts as delayed at now. Blocked tasks still
// accrue delay; only done tasks are exempt.
func IsDelayed(t model.Task, now time.Time) bool {
	return !t.Status.IsDone() && priority.IsOverdue(t, now)
}

// Message renders the delay alert text for t.
func Message(t model.Task, now time.Time) string {
	return fmt.Sprintf("지연 감지: '%s'가 %d일 지연되었습니다.", t.Title, priority.DaysDelayed(t, now))
}

// Scan flags every delayed task in tasks and builds one alert per task.
func Scan(tasks []model.Task, now time.Time) Result {
	res := Result{Alerts: []model.AlertInput{}, Delayed: []model.Task{}}
	for _, t := range tasks {
		if !IsDelayed(t, now) {
			continue
		}
		res.Delayed = append(res.Delayed, t)
		res.Alerts = append(res.Alerts, model.AlertInput{
			Type:    model.AlertDelay,
			Message: Message(t, now),
			TaskID:  t.ID,
			OwnerID: t.OwnerID,
		})
	}
	res.DelayedCount = len(res.Delayed)
	return res
}

// Scanner runs Scan over fetched tasks and persists the resulting alerts.
type Scanner struct {
	tasks  TaskFetcher
	alerts AlertSink
	logger *zap.Logger
}

func NewScanner(tasks TaskFetcher, alerts AlertSink, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{tasks: tasks, alerts: alerts, logger: logger}
}

// Run fetches the owner's tasks (all tasks when ownerID is empty), scans them
// at now and persists one alert per delayed task. A fetch error fails the run
// and is returned as is. A failed alert write is logged and skipped.
func (s *Scanner) Run(ctx context.Context, ownerID string, now time.Time) (Result, error) {
	tasks, err := s.tasks.FetchTasks(ctx, ownerID)
	if err != nil {
		return Result{}, err
	}
	res := Scan(tasks, now)
	if s.alerts == nil {
		return res, nil
	}
	for _, in := range res.Alerts {
		if _, err := s.alerts.PersistAlert(ctx, in); err != nil {
			s.logger.Warn("could not persist delay alert",
				zap.String("task_id", in.TaskID),
				zap.String("owner_id", in.OwnerID),
				zap.Error(err))
			continue
		}
		res.Persisted++
	}
	s.logger.Debug("delay scan finished",
		zap.String("owner_id", ownerID),
		zap.Int("tasks", len(tasks)),
		zap.Int("delayed", res.DelayedCount),
		zap.Int("persisted", res.Persisted))
	return res, nil
}
