package google

import (
	"context"
	"fmt"
	"time"

	"github.com/harrisonrobin/autoflow/pkg/auth"
	"github.com/harrisonrobin/autoflow/pkg/index"
	"github.com/harrisonrobin/autoflow/pkg/overdue"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Scopes requested for calendar sync.
var Scopes = []string{
	calendar.CalendarEventsScope,
	calendar.CalendarReadonlyScope,
}

// NewClient authenticates with the token stored in dir and resolves
// calendarName to its ID. The event index and overdue table live in dir too.
func NewClient(ctx context.Context, dir, calendarName string, loc *time.Location, logger *zap.Logger) (*CalendarClient, error) {
	flow := auth.NewFlow(dir, logger)
	client, err := flow.Client(ctx, Scopes)
	if err != nil {
		return nil, err
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Calendar client: %w", err)
	}

	calendarID, err := FindCalendarID(ctx, srv, calendarName)
	if err != nil {
		return nil, err
	}

	idx, err := index.NewEventIndex(dir)
	if err != nil {
		logger.Warn("failed to initialize event index", zap.Error(err))
		idx = nil
	}
	table, err := overdue.NewTable(dir)
	if err != nil {
		logger.Warn("failed to initialize overdue sweep table", zap.Error(err))
		table = nil
	}

	return NewCalendarClient(srv, calendarID, loc, idx, table, logger), nil
}

// FindCalendarID returns the ID of the calendar whose summary is name.
func FindCalendarID(ctx context.Context, srv *calendar.Service, name string) (string, error) {
	calendarList, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to retrieve calendar list: %w", err)
	}
	for _, item := range calendarList.Items {
		if item.Summary == name {
			return item.Id, nil
		}
	}
	return "", fmt.Errorf("calendar '%s' not found", name)
}
