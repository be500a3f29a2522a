package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/harrisonrobin/autoflow/pkg/automation"
	"github.com/harrisonrobin/autoflow/pkg/model"
	"github.com/harrisonrobin/autoflow/pkg/store"
)

type CreateTaskRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      model.Status   `json:"status"`
	Priority    model.Priority `json:"priority"`
	DueAt       string         `json:"dueAt"`
	Assigner    string         `json:"assigner"`
}

type CreateAlertRequest struct {
	Type    model.AlertType `json:"type"`
	Message string          `json:"message"`
	TaskID  string          `json:"taskId"`
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func ownerID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(OwnerHeader))
}

func (a *App) dailySummaryHandler(w http.ResponseWriter, r *http.Request) {
	res, err := a.Service.DailySummary(r.Context(), ownerID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, automation.Message(err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *App) delayDetectionHandler(w http.ResponseWriter, r *http.Request) {
	res, err := a.Service.DetectDelays(r.Context(), ownerID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, automation.Message(err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *App) sendDigestHandler(w http.ResponseWriter, r *http.Request) {
	res, err := a.Service.SendDigestNow(r.Context(), ownerID(r))
	switch {
	case errors.Is(err, automation.ErrDispatchFailed):
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":   automation.Message(err),
			"summary": res.Summary,
		})
	case err != nil:
		writeError(w, http.StatusInternalServerError, automation.Message(err))
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

func (a *App) suggestionsHandler(w http.ResponseWriter, r *http.Request) {
	res, err := a.Service.SuggestNextActions(r.Context(), ownerID(r))
	if err != nil {
		a.logger().Error("suggestions failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load tasks")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *App) syncCalendarHandler(w http.ResponseWriter, r *http.Request) {
	res, err := a.Service.SyncCalendar(r.Context(), ownerID(r))
	switch {
	case errors.Is(err, automation.ErrCalendarDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case err != nil:
		a.logger().Error("calendar sync failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "calendar sync failed")
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

func (a *App) prioritiesHandler(w http.ResponseWriter, r *http.Request) {
	ranked, err := a.Service.PriorityView(r.Context(), ownerID(r))
	if err != nil {
		a.logger().Error("priority view failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load tasks")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": ranked})
}

// requireOwner writes a 400 and returns "" when the owner header is missing.
func requireOwner(w http.ResponseWriter, r *http.Request) string {
	owner := ownerID(r)
	if owner == "" {
		writeError(w, http.StatusBadRequest, OwnerHeader+" header required")
	}
	return owner
}

func (a *App) listTasksHandler(w http.ResponseWriter, r *http.Request) {
	owner := requireOwner(w, r)
	if owner == "" {
		return
	}
	tasks, err := a.Store.FetchTasks(r.Context(), owner)
	if err != nil {
		a.logger().Error("list tasks failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load tasks")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": tasks})
}

func (a *App) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	owner := requireOwner(w, r)
	if owner == "" {
		return
	}
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title required")
		return
	}
	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}
	t := model.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    model.ParsePriority(string(req.Priority)),
		DueAt:       model.ParseDueTime(req.DueAt, a.Service.Now().Location()),
		OwnerID:     owner,
		Assigner:    req.Assigner,
	}
	created, err := a.Store.CreateTask(r.Context(), t)
	if err != nil {
		a.logger().Error("create task failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store task")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": created.ID})
}

func (a *App) instantiateTemplateHandler(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "template_id")
	task, err := a.Service.InstantiateTemplate(r.Context(), templateID, ownerID(r))
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "template not found")
	case err != nil:
		a.logger().Error("instantiate template failed", zap.String("template_id", templateID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create task")
	default:
		writeJSON(w, http.StatusCreated, task)
	}
}

func (a *App) listAlertsHandler(w http.ResponseWriter, r *http.Request) {
	owner := requireOwner(w, r)
	if owner == "" {
		return
	}
	unread := r.URL.Query().Get("unread") == "true"
	alerts, err := a.Store.ListAlerts(r.Context(), owner, unread)
	if err != nil {
		a.logger().Error("list alerts failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load alerts")
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (a *App) createAlertHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Type == "" || strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "type and message required")
		return
	}
	id, err := a.Store.PersistAlert(r.Context(), model.AlertInput{
		Type:    req.Type,
		Message: req.Message,
		TaskID:  req.TaskID,
		OwnerID: ownerID(r),
	})
	if err != nil {
		a.logger().Error("create alert failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store alert")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (a *App) markAlertReadHandler(w http.ResponseWriter, r *http.Request) {
	alertID := chi.URLParam(r, "alert_id")
	err := a.Store.MarkAlertRead(r.Context(), ownerID(r), alertID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "alert not found")
	case err != nil:
		a.logger().Error("mark alert read failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update alert")
	default:
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": alertID})
	}
}
