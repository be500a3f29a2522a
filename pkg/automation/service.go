// Package automation runs the scheduled jobs: the daily summary, delay
// detection, next-action suggestions and calendar sync. Each call captures a
// single "now" in the configured location and passes it down.
package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/harrisonrobin/autoflow/pkg/config"
	"github.com/harrisonrobin/autoflow/pkg/delay"
	"github.com/harrisonrobin/autoflow/pkg/digest"
	"github.com/harrisonrobin/autoflow/pkg/model"
	"github.com/harrisonrobin/autoflow/pkg/notify"
)

var (
	ErrSummaryFailed    = errors.New("daily summary failed")
	ErrDelayScanFailed  = errors.New("delay detection failed")
	ErrDispatchFailed   = errors.New("digest delivery failed")
	ErrCalendarDisabled = errors.New("calendar sync is not configured")
	ErrNoTaskWriter     = errors.New("no task writer configured")
)

const (
	msgSummaryFailed  = "데일리 요약 생성에 실패했습니다."
	msgDelayFailed    = "지연 감지에 실패했습니다."
	msgDispatchFailed = "요약 전송에 실패했습니다."
	msgUnknown        = "요청 처리에 실패했습니다."
)

// Message maps an error returned by Service to the fixed user-facing text.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrSummaryFailed):
		return msgSummaryFailed
	case errors.Is(err, ErrDelayScanFailed):
		return msgDelayFailed
	case errors.Is(err, ErrDispatchFailed):
		return msgDispatchFailed
	}
	return msgUnknown
}

// TaskWriter stores tasks created by templates and imports.
type TaskWriter interface {
	CreateTask(ctx context.Context, t model.Task) (model.Task, error)
	UpsertTask(ctx context.Context, t model.Task) (model.Task, error)
}

// TemplateSource looks templates up by ID.
type TemplateSource interface {
	GetTemplate(ctx context.Context, id string) (model.Template, error)
}

// CalendarSink mirrors tasks into an external calendar.
type CalendarSink interface {
	SyncTask(ctx context.Context, t model.Task, now time.Time) (string, error)
	DeleteTask(ctx context.Context, taskID string) error
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
	Save() error
}

// Deps are the collaborators of a Service. Only Tasks is required.
type Deps struct {
	Tasks     delay.TaskFetcher
	Writer    TaskWriter
	Templates TemplateSource
	Alerts    delay.AlertSink
	Chat      notify.ChatSink
	Calendar  CalendarSink
	Settings  config.Settings
	Location  *time.Location
	Clock     func() time.Time
	Logger    *zap.Logger
}

type Service struct {
	tasks      delay.TaskFetcher
	writer     TaskWriter
	templates  TemplateSource
	calendar   CalendarSink
	scanner    *delay.Scanner
	dispatcher *notify.Dispatcher
	settings   config.Settings
	loc        *time.Location
	clock      func() time.Time
	logger     *zap.Logger
}

func NewService(d Deps) *Service {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	s := &Service{
		tasks:      d.Tasks,
		writer:     d.Writer,
		templates:  d.Templates,
		calendar:   d.Calendar,
		scanner:    delay.NewScanner(d.Tasks, d.Alerts, d.Logger),
		dispatcher: notify.NewDispatcher(d.Alerts, d.Chat, d.Logger),
		settings:   d.Settings,
		loc:        d.Location,
		clock:      d.Clock,
		logger:     d.Logger,
	}
	return s
}

// Settings returns the settings the service dispatches with.
func (s *Service) Settings() config.Settings {
	return s.settings
}

// Now is the service clock in the configured location.
func (s *Service) Now() time.Time {
	return s.clock().In(s.loc)
}

// SummaryResult is a digest and what happened to its notifications.
type SummaryResult struct {
	Success  bool          `json:"success"`
	Summary  string        `json:"summary"`
	Digest   digest.Digest `json:"digest"`
	Delivery notify.Report `json:"delivery"`
}

// DailySummary builds the owner's digest and dispatches it best-effort.
// Only a failed task fetch fails the call.
func (s *Service) DailySummary(ctx context.Context, ownerID string) (SummaryResult, error) {
	return s.summarize(ctx, ownerID, false)
}

// SendDigestNow is DailySummary on explicit request: quiet hours are ignored
// and a failed chat delivery is reported as ErrDispatchFailed.
func (s *Service) SendDigestNow(ctx context.Context, ownerID string) (SummaryResult, error) {
	res, err := s.summarize(ctx, ownerID, true)
	if err != nil {
		return res, err
	}
	if res.Delivery.ChatErr != nil {
		return res, fmt.Errorf("%w: %w", ErrDispatchFailed, res.Delivery.ChatErr)
	}
	return res, nil
}

func (s *Service) summarize(ctx context.Context, ownerID string, explicit bool) (SummaryResult, error) {
	now := s.Now()
	tasks, err := s.tasks.FetchTasks(ctx, ownerID)
	if err != nil {
		s.logger.Error("could not fetch tasks for summary", zap.String("owner_id", ownerID), zap.Error(err))
		return SummaryResult{}, fmt.Errorf("%w: %w", ErrSummaryFailed, err)
	}
	dg := digest.Build(tasks, now)
	rep := s.dispatcher.DispatchDigest(ctx, dg, notify.Options{
		OwnerID:          ownerID,
		Settings:         s.settings,
		Now:              now,
		IgnoreQuietHours: explicit,
	})
	s.logger.Info("daily summary generated",
		zap.String("owner_id", ownerID),
		zap.Int("total", dg.Stats.Total),
		zap.Int("delayed", dg.Stats.DelayedCount),
		zap.Bool("chat_sent", rep.ChatSent))
	return SummaryResult{Success: true, Summary: dg.Summary, Digest: dg, Delivery: rep}, nil
}

// DelayResult is a delay scan and its side effects.
type DelayResult struct {
	Success bool `json:"success"`
	delay.Result
	Delivery notify.Report `json:"delivery"`
	// CalendarMarked counts calendar events newly flagged overdue.
	CalendarMarked int `json:"calendarMarked,omitempty"`
}

// DetectDelays scans the owner's tasks, persists one delay alert per delayed
// task, posts a chat line when any were found and flags overdue calendar
// events.
func (s *Service) DetectDelays(ctx context.Context, ownerID string) (DelayResult, error) {
	now := s.Now()
	res, err := s.scanner.Run(ctx, ownerID, now)
	if err != nil {
		s.logger.Error("could not fetch tasks for delay detection", zap.String("owner_id", ownerID), zap.Error(err))
		return DelayResult{}, fmt.Errorf("%w: %w", ErrDelayScanFailed, err)
	}
	out := DelayResult{Success: true, Result: res}
	out.Delivery = s.dispatcher.DispatchDelays(ctx, res, notify.Options{
		OwnerID:  ownerID,
		Settings: s.settings,
		Now:      now,
	})

	if s.calendar != nil {
		n, err := s.calendar.MarkOverdue(ctx, now)
		if err != nil {
			s.logger.Warn("could not flag overdue calendar events", zap.Error(err))
		}
		out.CalendarMarked = n
		if err := s.calendar.Save(); err != nil {
			s.logger.Warn("could not save calendar state", zap.Error(err))
		}
	}

	s.logger.Info("delay detection finished",
		zap.String("owner_id", ownerID),
		zap.Int("delayed", res.DelayedCount),
		zap.Int("persisted", res.Persisted))
	return out, nil
}
