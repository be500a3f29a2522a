package automation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/harrisonrobin/autoflow/pkg/model"
)

type SyncResult struct {
	Synced  int `json:"synced"`
	Deleted int `json:"deleted"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// SyncCalendar mirrors the owner's tasks into the calendar: tasks with a due
// date get an event, done tasks lose theirs and undated tasks are skipped.
// Per-task failures are counted and logged, not returned.
func (s *Service) SyncCalendar(ctx context.Context, ownerID string) (SyncResult, error) {
	var res SyncResult
	if s.calendar == nil {
		return res, ErrCalendarDisabled
	}
	now := s.Now()
	tasks, err := s.tasks.FetchTasks(ctx, ownerID)
	if err != nil {
		return res, fmt.Errorf("failed to fetch tasks: %w", err)
	}

	for _, t := range tasks {
		switch {
		case t.Status.IsDone():
			if err := s.calendar.DeleteTask(ctx, t.ID); err != nil {
				s.logger.Warn("could not delete calendar event", zap.String("task_id", t.ID), zap.Error(err))
				res.Failed++
				continue
			}
			res.Deleted++
		default:
			if _, ok := t.Due(); !ok {
				res.Skipped++
				continue
			}
			if _, err := s.calendar.SyncTask(ctx, t, now); err != nil {
				s.logger.Warn("could not sync calendar event", zap.String("task_id", t.ID), zap.Error(err))
				res.Failed++
				continue
			}
			res.Synced++
		}
	}

	if err := s.calendar.Save(); err != nil {
		s.logger.Warn("could not save calendar state", zap.Error(err))
	}
	s.logger.Info("calendar sync finished",
		zap.String("owner_id", ownerID),
		zap.Int("synced", res.Synced),
		zap.Int("deleted", res.Deleted),
		zap.Int("failed", res.Failed))
	return res, nil
}

// InstantiateTemplate creates a task from the template for ownerID, or for
// the template's owner when ownerID is empty.
func (s *Service) InstantiateTemplate(ctx context.Context, templateID, ownerID string) (model.Task, error) {
	if s.writer == nil || s.templates == nil {
		return model.Task{}, ErrNoTaskWriter
	}
	tpl, err := s.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to load template %s: %w", templateID, err)
	}
	if ownerID == "" {
		ownerID = tpl.OwnerID
	}
	task, err := s.writer.CreateTask(ctx, tpl.NewTask(ownerID))
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create task from template %s: %w", templateID, err)
	}
	s.logger.Info("task created from template", zap.String("template_id", templateID), zap.String("task_id", task.ID))
	return task, nil
}

type ImportResult struct {
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
}

// ImportTasks upserts tasks coming from an external source.
func (s *Service) ImportTasks(ctx context.Context, tasks []model.Task) (ImportResult, error) {
	var res ImportResult
	if s.writer == nil {
		return res, ErrNoTaskWriter
	}
	for _, t := range tasks {
		if _, err := s.writer.UpsertTask(ctx, t); err != nil {
			s.logger.Warn("could not import task", zap.String("task_id", t.ID), zap.Error(err))
			res.Failed++
			continue
		}
		res.Imported++
	}
	return res, nil
}
