package model

import (
	"fmt"
	"strings"
)

// Template is a reusable checklist that can be turned into a task on a schedule.
type Template struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Checklist      []string `json:"checklist"`
	RepeatInterval string   `json:"repeatInterval,omitempty"`
	OwnerID        string   `json:"ownerId,omitempty"`
}

// NewTask instantiates the template for ownerID as a medium-priority todo
// whose description is the numbered checklist.
func (t Template) NewTask(ownerID string) Task {
	var lines []string
	for i, item := range t.Checklist {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, item))
	}
	return Task{
		Title:       t.Name,
		Description: strings.Join(lines, "\n"),
		Status:      StatusTodo,
		Priority:    PriorityMedium,
		OwnerID:     ownerID,
	}
}
