package model

import "time"

type AlertType string

const (
	AlertDelay          AlertType = "delay"
	AlertSummary        AlertType = "summary"
	AlertSuggestion     AlertType = "suggestion"
	AlertReminderAdjust AlertType = "reminder_adjust"
)

// AlertInput is what the core hands to an alert sink.
// An empty OwnerID marks a global alert (e.g. the all-user digest).
type AlertInput struct {
	Type    AlertType `json:"type"`
	Message string    `json:"message"`
	TaskID  string    `json:"taskId,omitempty"`
	OwnerID string    `json:"ownerId,omitempty"`
}

// Alert is a persisted AlertInput.
type Alert struct {
	ID        string    `json:"id"`
	Type      AlertType `json:"type"`
	Message   string    `json:"message"`
	TaskID    string    `json:"taskId,omitempty"`
	OwnerID   string    `json:"ownerId,omitempty"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}
