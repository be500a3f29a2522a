package store

import (
	"context"
	"fmt"

	"github.com/harrisonrobin/autoflow/pkg/model"
)

// PersistAlert stores in as a new unread alert and returns its ID.
func (s *Store) PersistAlert(ctx context.Context, in model.AlertInput) (string, error) {
	id := newID()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (id, type, message, task_id, owner_id, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)`,
		id, string(in.Type), in.Message, in.TaskID, in.OwnerID, formatTime(s.now()))
	if err != nil {
		return "", fmt.Errorf("failed to insert alert: %w", err)
	}
	return id, nil
}

// ListAlerts returns the owner's alerts plus global ones, newest first.
func (s *Store) ListAlerts(ctx context.Context, ownerID string, unreadOnly bool) ([]model.Alert, error) {
	q := `SELECT id, type, message, task_id, owner_id, is_read, created_at FROM alerts
		WHERE (owner_id = ? OR owner_id = '')`
	if unreadOnly {
		q += ` AND is_read = 0`
	}
	q += ` ORDER BY created_at DESC, id`
	rows, err := s.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	alerts := []model.Alert{}
	for rows.Next() {
		var (
			a         model.Alert
			typ       string
			isRead    int
			createdAt string
		)
		if err := rows.Scan(&a.ID, &typ, &a.Message, &a.TaskID, &a.OwnerID, &isRead, &createdAt); err != nil {
			return nil, err
		}
		a.Type = model.AlertType(typ)
		a.IsRead = isRead != 0
		a.CreatedAt = parseTime(createdAt)
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// MarkAlertRead flags an alert visible to ownerID as read.
func (s *Store) MarkAlertRead(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE alerts SET is_read = 1 WHERE id = ? AND (owner_id = ? OR owner_id = '')`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to update alert: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
