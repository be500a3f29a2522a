package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func RegisterRoutes(r chi.Router, app *App) {
	r.Get("/healthz", healthHandler)

	r.Route("/automation", func(r chi.Router) {
		r.Post("/daily-summary", app.dailySummaryHandler)
		r.Post("/delay-detection", app.delayDetectionHandler)
		r.Post("/send-digest", app.sendDigestHandler)
		r.Post("/suggestions", app.suggestionsHandler)
		r.Post("/sync-calendar", app.syncCalendarHandler)
	})

	r.Get("/tasks", app.listTasksHandler)
	r.Post("/tasks", app.createTaskHandler)
	r.Get("/tasks/priorities", app.prioritiesHandler)
	r.Post("/templates/{template_id}/instantiate", app.instantiateTemplateHandler)

	r.Get("/alerts", app.listAlertsHandler)
	r.Post("/alerts", app.createAlertHandler)
	r.Post("/alerts/{alert_id}/read", app.markAlertReadHandler)
}

// NewRouter wires the middleware stack and routes.
func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(app.logger()))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", OwnerHeader},
	}))
	RegisterRoutes(r, app)
	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
