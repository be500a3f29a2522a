package google

import (
	"context"
	"fmt"
	"time"

	"github.com/harrisonrobin/autoflow/pkg/index"
	"github.com/harrisonrobin/autoflow/pkg/model"
	"github.com/harrisonrobin/autoflow/pkg/overdue"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
)

// CalendarClient mirrors tasks into one Google Calendar.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
	loc        *time.Location
	index      *index.EventIndex
	table      *overdue.Table
	logger     *zap.Logger
}

// NewCalendarClient wraps srv. idx and table may be nil.
func NewCalendarClient(srv *calendar.Service, calendarID string, loc *time.Location, idx *index.EventIndex, table *overdue.Table, logger *zap.Logger) *CalendarClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarClient{
		srv:        srv,
		calendarID: calendarID,
		loc:        loc,
		index:      idx,
		table:      table,
		logger:     logger,
	}
}

// SyncTask creates the event for t or patches the existing one, and returns
// the event ID.
func (c *CalendarClient) SyncTask(ctx context.Context, t model.Task, now time.Time) (string, error) {
	event, err := TaskToEvent(t, now, c.loc)
	if err != nil {
		return "", err
	}

	existing, err := c.findEvent(ctx, t.ID)
	if err != nil {
		return "", fmt.Errorf("error searching for event: %w", err)
	}

	var synced *calendar.Event
	if existing != nil {
		patch, err := EventNeedsUpdate(existing, event)
		if err != nil {
			c.logger.Warn("could not compare task with its calendar event", zap.String("task_id", t.ID), zap.Error(err))
			return "", err
		}
		synced = existing
		if patch != nil {
			synced, err = c.PatchEvent(ctx, existing.Id, patch)
			if err != nil {
				return "", err
			}
		}
	} else {
		synced, err = c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
		if err != nil {
			return "", err
		}
	}

	if c.index != nil {
		c.index.Set(t.ID, synced.Id)
	}
	if c.table != nil {
		due, _ := t.Due()
		if t.Status.IsDone() {
			c.table.Remove(t.ID)
		} else {
			c.table.Track(t.ID, synced.Id, event.Summary, due, now)
		}
	}
	return synced.Id, nil
}

// DeleteTask removes the event of taskID, if any.
func (c *CalendarClient) DeleteTask(ctx context.Context, taskID string) error {
	event, err := c.findEvent(ctx, taskID)
	if err != nil {
		return err
	}
	if event != nil {
		if err := c.DeleteEvent(ctx, event.Id); err != nil {
			return err
		}
	}
	if c.index != nil {
		c.index.Remove(taskID)
	}
	if c.table != nil {
		c.table.Remove(taskID)
	}
	return nil
}

// MarkOverdue prefixes the titles of tracked events whose task became
// overdue since the last sweep. It returns how many events were patched.
func (c *CalendarClient) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	if c.table == nil {
		return 0, nil
	}
	patched := 0
	var firstErr error
	for _, e := range c.table.Sweep(now) {
		patch := &calendar.Event{Summary: overduePrefix + e.Title}
		if _, err := c.PatchEvent(ctx, e.EventID, patch); err != nil {
			c.logger.Warn("sweep: error patching event", zap.String("event_id", e.EventID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		patched++
	}
	return patched, firstErr
}

// Save persists the event index and overdue table.
func (c *CalendarClient) Save() error {
	if c.index != nil {
		if err := c.index.Save(); err != nil {
			return fmt.Errorf("failed to save event index: %w", err)
		}
	}
	if c.table != nil {
		if err := c.table.Save(); err != nil {
			return fmt.Errorf("failed to save overdue table: %w", err)
		}
	}
	return nil
}

// PatchEvent performs a partial update on an event.
func (c *CalendarClient) PatchEvent(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return c.srv.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do()
}

func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	return c.srv.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
}

// ListEvents fetches events starting from timeMin.
func (c *CalendarClient) ListEvents(ctx context.Context, timeMin time.Time) ([]*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).TimeMin(timeMin.Format(time.RFC3339)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve events from calendar: %w", err)
	}
	return events.Items, nil
}

// GetEventByTaskID searches for the event carrying taskID in its private
// extended properties.
func (c *CalendarClient) GetEventByTaskID(ctx context.Context, taskID string) (*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", TaskIDProperty, taskID)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}

// findEvent tries the local index first and falls back to an API search.
func (c *CalendarClient) findEvent(ctx context.Context, taskID string) (*calendar.Event, error) {
	if c.index != nil {
		if eventID := c.index.Get(taskID); eventID != "" {
			event, err := c.srv.Events.Get(c.calendarID, eventID).Context(ctx).Do()
			if err == nil && event.Status != "cancelled" {
				return event, nil
			}
			c.index.Remove(taskID)
		}
	}
	return c.GetEventByTaskID(ctx, taskID)
}
