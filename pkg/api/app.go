// Package api exposes the automation jobs and the task/alert store over HTTP.
package api

import (
	"context"

	"go.uber.org/zap"

	"github.com/harrisonrobin/autoflow/pkg/automation"
	"github.com/harrisonrobin/autoflow/pkg/model"
)

// OwnerHeader carries the caller's owner ID. Authentication happens in front
// of this service.
const OwnerHeader = "X-Owner-ID"

// Store is the persistence the handlers read and write directly.
type Store interface {
	FetchTasks(ctx context.Context, ownerID string) ([]model.Task, error)
	CreateTask(ctx context.Context, t model.Task) (model.Task, error)
	PersistAlert(ctx context.Context, in model.AlertInput) (string, error)
	ListAlerts(ctx context.Context, ownerID string, unreadOnly bool) ([]model.Alert, error)
	MarkAlertRead(ctx context.Context, ownerID, id string) error
}

type App struct {
	Service *automation.Service
	Store   Store
	Logger  *zap.Logger
}

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}
