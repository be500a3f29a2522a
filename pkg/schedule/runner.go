package schedule

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/harrisonrobin/autoflow/pkg/automation"
	"github.com/harrisonrobin/autoflow/pkg/config"
	"github.com/harrisonrobin/autoflow/pkg/model"
)

// DefaultDelayEvery is how often the runner scans for delayed tasks.
const DefaultDelayEvery = time.Hour

const tickInterval = time.Minute

// Jobs is the part of automation.Service the runner drives.
type Jobs interface {
	Now() time.Time
	DailySummary(ctx context.Context, ownerID string) (automation.SummaryResult, error)
	DetectDelays(ctx context.Context, ownerID string) (automation.DelayResult, error)
	InstantiateTemplate(ctx context.Context, templateID, ownerID string) (model.Task, error)
}

// TickReport lists what a tick ran.
type TickReport struct {
	Digest    bool
	DelayScan bool
	Templates []string
}

type Runner struct {
	jobs       Jobs
	settings   config.Settings
	ownerID    string
	state      *State
	delayEvery time.Duration
	logger     *zap.Logger
}

// NewRunner runs jobs for ownerID (every owner when empty). state may be
// nil, in which case run times are only kept in memory.
func NewRunner(jobs Jobs, settings config.Settings, ownerID string, state *State, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if state == nil {
		state = &State{Templates: make(map[string]time.Time)}
	}
	return &Runner{
		jobs:       jobs,
		settings:   settings,
		ownerID:    ownerID,
		state:      state,
		delayEvery: DefaultDelayEvery,
		logger:     logger,
	}
}

// SetDelayEvery changes the delay scan interval. Zero disables the scan.
func (r *Runner) SetDelayEvery(d time.Duration) {
	r.delayEvery = d
}

// Run ticks once immediately and then every minute until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	r.logger.Info("scheduler started",
		zap.String("owner_id", r.ownerID),
		zap.String("daily_summary_time", r.settings.DailySummaryTime),
		zap.Duration("delay_every", r.delayEvery))
	r.Tick(ctx, r.jobs.Now())
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("scheduler stopped")
			return nil
		case <-ticker.C:
			r.Tick(ctx, r.jobs.Now())
		}
	}
}

// Tick runs every job due at now. Job failures are logged; the job is not
// marked as run so the next tick inside the catch-up window retries it.
func (r *Runner) Tick(ctx context.Context, now time.Time) TickReport {
	var rep TickReport

	if ok, err := DigestDue(r.settings, now, r.state.LastDigest); err != nil {
		r.logger.Warn("invalid daily summary time", zap.Error(err))
	} else if ok {
		if _, err := r.jobs.DailySummary(ctx, r.ownerID); err != nil {
			r.logger.Error("scheduled daily summary failed", zap.Error(err))
		} else {
			r.state.markDigest(now)
			rep.Digest = true
		}
	}

	if r.delayEvery > 0 && DelayScanDue(now, r.state.LastDelayScan, r.delayEvery) {
		if _, err := r.jobs.DetectDelays(ctx, r.ownerID); err != nil {
			r.logger.Error("scheduled delay detection failed", zap.Error(err))
		} else {
			r.state.markDelayScan(now)
			rep.DelayScan = true
		}
	}

	for _, ts := range DueTemplates(r.settings, now, r.state.TemplateRun) {
		task, err := r.jobs.InstantiateTemplate(ctx, ts.TemplateID, r.ownerID)
		if err != nil {
			r.logger.Error("scheduled template failed", zap.String("template_id", ts.TemplateID), zap.Error(err))
			continue
		}
		r.state.markTemplate(TemplateKey(ts), now)
		rep.Templates = append(rep.Templates, task.ID)
	}

	if err := r.state.Save(); err != nil {
		r.logger.Warn("could not save schedule state", zap.Error(err))
	}
	return rep
}
