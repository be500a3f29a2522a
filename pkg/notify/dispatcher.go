// Package notify turns digests and delay scans into alert records and chat
// messages. Delivery is delegated to sinks; every side effect is
// independent and best-effort.
package notify

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/harrisonrobin/autoflow/pkg/config"
	"github.com/harrisonrobin/autoflow/pkg/delay"
	"github.com/harrisonrobin/autoflow/pkg/digest"
	"github.com/harrisonrobin/autoflow/pkg/model"
)

// ErrNoChatSink is reported when a chat message was requested but no chat
// sink is configured.
var ErrNoChatSink = errors.New("no chat sink configured")

// AlertSink persists an alert and returns its ID.
type AlertSink interface {
	PersistAlert(ctx context.Context, in model.AlertInput) (string, error)
}

// ChatSink delivers a plain-text chat message.
type ChatSink interface {
	SendMessage(ctx context.Context, text string) error
}

// Options carry the per-call notification parameters.
type Options struct {
	// OwnerID scopes the summary alert; empty means a global alert.
	OwnerID  string
	Settings config.Settings
	// Now is compared against quiet hours. Defaults to the digest's time.
	Now time.Time
	// IgnoreQuietHours forces chat delivery, for explicit user requests.
	IgnoreQuietHours bool
}

// Report tells the caller which side effects happened.
type Report struct {
	AlertID    string `json:"alertId,omitempty"`
	AlertErr   error  `json:"-"`
	ChatSent   bool   `json:"chatSent"`
	ChatErr    error  `json:"-"`
	Suppressed bool   `json:"suppressed,omitempty"`
}

type Dispatcher struct {
	alerts AlertSink
	chat   ChatSink
	logger *zap.Logger
}

// NewDispatcher builds a Dispatcher. Either sink may be nil.
func NewDispatcher(alerts AlertSink, chat ChatSink, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{alerts: alerts, chat: chat, logger: logger}
}

// DispatchDigest persists one summary alert with d.Summary and sends the
// formatted digest to the chat sink. Neither failure affects the other.
func (d *Dispatcher) DispatchDigest(ctx context.Context, dg digest.Digest, opts Options) Report {
	var rep Report
	rep.AlertID, rep.AlertErr = d.persist(ctx, model.AlertInput{
		Type:    model.AlertSummary,
		Message: dg.Summary,
		OwnerID: opts.OwnerID,
	})
	if opts.Now.IsZero() {
		opts.Now = dg.GeneratedAt
	}
	d.send(ctx, FormatChatDigest(dg), opts, &rep)
	return rep
}

// DispatchDelays sends a short chat line when the scan found delayed tasks.
// The per-task delay alerts are persisted by the scanner itself.
func (d *Dispatcher) DispatchDelays(ctx context.Context, res delay.Result, opts Options) Report {
	var rep Report
	if res.DelayedCount == 0 {
		return rep
	}
	d.send(ctx, FormatDelayLine(res.DelayedCount), opts, &rep)
	return rep
}

// DispatchSuggestion persists a suggestion alert.
func (d *Dispatcher) DispatchSuggestion(ctx context.Context, message string, opts Options) Report {
	var rep Report
	rep.AlertID, rep.AlertErr = d.persist(ctx, model.AlertInput{
		Type:    model.AlertSuggestion,
		Message: message,
		OwnerID: opts.OwnerID,
	})
	return rep
}

func (d *Dispatcher) persist(ctx context.Context, in model.AlertInput) (string, error) {
	if d.alerts == nil {
		return "", nil
	}
	id, err := d.alerts.PersistAlert(ctx, in)
	if err != nil {
		d.logger.Warn("could not persist alert",
			zap.String("type", string(in.Type)),
			zap.String("owner_id", in.OwnerID),
			zap.Error(err))
		return "", err
	}
	return id, nil
}

func (d *Dispatcher) send(ctx context.Context, text string, opts Options, rep *Report) {
	if !opts.IgnoreQuietHours && opts.Settings.QuietAt(opts.Now) {
		d.logger.Info("chat message suppressed by quiet hours",
			zap.String("owner_id", opts.OwnerID),
			zap.String("quiet_start", opts.Settings.QuietHoursStart),
			zap.String("quiet_end", opts.Settings.QuietHoursEnd))
		rep.Suppressed = true
		return
	}
	if d.chat == nil {
		rep.ChatErr = ErrNoChatSink
		return
	}
	if err := d.chat.SendMessage(ctx, text); err != nil {
		d.logger.Warn("could not deliver chat message", zap.Error(err))
		rep.ChatErr = err
		return
	}
	rep.ChatSent = true
}
