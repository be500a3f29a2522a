package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harrisonrobin/autoflow/pkg/model"
)

func (s *Store) CreateTemplate(ctx context.Context, t model.Template) (model.Template, error) {
	if t.ID == "" {
		t.ID = newID()
	}
	if t.Checklist == nil {
		t.Checklist = []string{}
	}
	checklist, err := json.Marshal(t.Checklist)
	if err != nil {
		return model.Template{}, err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO templates (id, owner_id, name, description, checklist, repeat_interval)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.Name, t.Description, string(checklist), t.RepeatInterval)
	if err != nil {
		return model.Template{}, fmt.Errorf("failed to insert template: %w", err)
	}
	return t, nil
}

// GetTemplate looks a template up by ID regardless of owner; schedules refer
// to templates by ID only.
func (s *Store) GetTemplate(ctx context.Context, id string) (model.Template, error) {
	var (
		t         model.Template
		checklist string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, description, checklist, repeat_interval FROM templates WHERE id = ?`, id).
		Scan(&t.ID, &t.OwnerID, &t.Name, &t.Description, &checklist, &t.RepeatInterval)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Template{}, ErrNotFound
	}
	if err != nil {
		return model.Template{}, err
	}
	if err := json.Unmarshal([]byte(checklist), &t.Checklist); err != nil {
		return model.Template{}, fmt.Errorf("template %s has a corrupt checklist: %w", id, err)
	}
	return t, nil
}
