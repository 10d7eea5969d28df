package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/swedish-year-planner/api/internal/model"
	"github.com/swedish-year-planner/api/internal/planner"
	"github.com/swedish-year-planner/api/internal/storage"
	"github.com/swedish-year-planner/api/internal/telemetry"
)

var tracer = otel.Tracer("github.com/swedish-year-planner/api/internal/handler")

const apiVersion = "1.0.0"

// PlannerHandler handles the planner HTTP API. All routes are scoped by the
// X-User-ID request header, defaulting to "anonymous".
type PlannerHandler struct {
	store   storage.Store
	logger  *slog.Logger
	metrics *telemetry.Metrics
	tracker *UserTracker
	env     string
}

// NewPlannerHandler creates a new PlannerHandler.
func NewPlannerHandler(store storage.Store, tracker *UserTracker, logger *slog.Logger, metrics *telemetry.Metrics, env string) *PlannerHandler {
	return &PlannerHandler{
		store:   store,
		logger:  logger,
		metrics: metrics,
		tracker: tracker,
		env:     env,
	}
}

// Routes returns the chi router with the planner API routes.
func (h *PlannerHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		h.respondError(w, http.StatusNotFound, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		h.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Use(h.trackUser)

	r.Get("/health", h.Health)
	r.Get("/events", h.GetItems(storage.TypeEvents))
	r.Post("/events", h.SaveItems(storage.TypeEvents))
	r.Get("/tasks", h.GetItems(storage.TypeTasks))
	r.Post("/tasks", h.SaveItems(storage.TypeTasks))
	r.Get("/analytics", h.Analytics)
	r.Get("/backup", h.ExportBackup)
	r.Post("/backup", h.ImportBackup)
	r.Get("/timeline", h.Timeline)
	r.Get("/overview", h.Overview)

	return r
}

// userID extracts the user scope from the X-User-ID header. Header lookup is
// case-insensitive via net/http's canonical header map.
func userID(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return "anonymous"
}

func (h *PlannerHandler) trackUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.tracker.Observe(userID(r))
		next.ServeHTTP(w, r)
	})
}

// GetItems returns the stored item array for the given data type.
func (h *PlannerHandler) GetItems(dataType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()
		user := userID(r)
		route := "/api/" + dataType

		ctx, span := tracer.Start(ctx, "PlannerHandler.GetItems",
			trace.WithAttributes(
				attribute.String("planner.user_id", user),
				attribute.String("planner.data_type", dataType),
			),
		)
		defer span.End()

		items, err := h.store.Load(ctx, user, dataType)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to load items", slog.String("dataType", dataType), slog.Any("error", err))
			h.respondError(w, http.StatusInternalServerError, "failed to load "+dataType)
			h.recordMetrics(ctx, "GET", route, http.StatusInternalServerError, start)
			return
		}

		span.SetAttributes(attribute.Int("planner.item_count", len(items)))
		h.logger.InfoContext(ctx, "items loaded",
			slog.String("user", user),
			slog.String("dataType", dataType),
			slog.Int("count", len(items)),
		)

		h.respondJSON(w, http.StatusOK, items)
		h.recordMetrics(ctx, "GET", route, http.StatusOK, start)
	}
}

// SaveItems replaces the stored item array for the given data type.
func (h *PlannerHandler) SaveItems(dataType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()
		user := userID(r)
		route := "/api/" + dataType

		ctx, span := tracer.Start(ctx, "PlannerHandler.SaveItems",
			trace.WithAttributes(
				attribute.String("planner.user_id", user),
				attribute.String("planner.data_type", dataType),
			),
		)
		defer span.End()

		items, err := decodeItemArray(r.Body)
		if err != nil {
			h.logger.WarnContext(ctx, "invalid request body", slog.Any("error", err))
			h.respondError(w, http.StatusBadRequest, "invalid request body")
			h.recordMetrics(ctx, "POST", route, http.StatusBadRequest, start)
			return
		}

		if err := h.store.Save(ctx, user, dataType, items); err != nil {
			h.logger.ErrorContext(ctx, "failed to save items", slog.String("dataType", dataType), slog.Any("error", err))
			h.respondError(w, http.StatusInternalServerError, "failed to save "+dataType)
			h.recordMetrics(ctx, "POST", route, http.StatusInternalServerError, start)
			return
		}

		span.SetAttributes(attribute.Int("planner.item_count", len(items)))
		h.logger.InfoContext(ctx, "items saved",
			slog.String("user", user),
			slog.String("dataType", dataType),
			slog.Int("count", len(items)),
		)

		h.respondJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(items)})
		h.recordMetrics(ctx, "POST", route, http.StatusOK, start)
	}
}

// Analytics summarizes the user's stored data.
func (h *PlannerHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	user := userID(r)

	ctx, span := tracer.Start(ctx, "PlannerHandler.Analytics",
		trace.WithAttributes(attribute.String("planner.user_id", user)),
	)
	defer span.End()

	events, tasks := h.loadCollections(ctx, user)
	analytics := planner.Analytics(events, tasks, time.Now())

	h.logger.InfoContext(ctx, "analytics computed",
		slog.String("user", user),
		slog.Int("events", analytics.TotalEvents),
		slog.Int("tasks", analytics.TotalTasks),
	)

	h.respondJSON(w, http.StatusOK, analytics)
	h.recordMetrics(ctx, "GET", "/api/analytics", http.StatusOK, start)
}

// Timeline serves the rolling 30-day view of the user's data.
func (h *PlannerHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	user := userID(r)

	ctx, span := tracer.Start(ctx, "PlannerHandler.Timeline",
		trace.WithAttributes(attribute.String("planner.user_id", user)),
	)
	defer span.End()

	events, tasks := h.loadCollections(ctx, user)
	timeline := planner.Timeline(events, tasks, time.Now())

	span.SetAttributes(attribute.Int("planner.timeline_days", len(timeline)))
	h.respondJSON(w, http.StatusOK, timeline)
	h.recordMetrics(ctx, "GET", "/api/timeline", http.StatusOK, start)
}

// Overview serves the forward-looking month and quarter summaries.
func (h *PlannerHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	user := userID(r)

	ctx, span := tracer.Start(ctx, "PlannerHandler.Overview",
		trace.WithAttributes(attribute.String("planner.user_id", user)),
	)
	defer span.End()

	events, tasks := h.loadCollections(ctx, user)
	now := time.Now()

	h.respondJSON(w, http.StatusOK, map[string]any{
		"months":   planner.MonthlyOverview(events, tasks, now),
		"quarters": planner.QuarterlyOverview(events, tasks, now),
	})
	h.recordMetrics(ctx, "GET", "/api/overview", http.StatusOK, start)
}

// ExportBackup streams the user's full data set as a downloadable envelope.
// The stored collections are enumerated via the store, so only data the user
// actually synced is loaded.
func (h *PlannerHandler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	user := userID(r)

	ctx, span := tracer.Start(ctx, "PlannerHandler.ExportBackup",
		trace.WithAttributes(attribute.String("planner.user_id", user)),
	)
	defer span.End()

	data := model.BackupData{
		Events: []json.RawMessage{},
		Tasks:  []json.RawMessage{},
	}
	types, err := h.store.List(ctx, user)
	if err != nil {
		types = []string{storage.TypeEvents, storage.TypeTasks}
	}
	for _, dataType := range types {
		items, err := h.store.Load(ctx, user, dataType)
		if err != nil {
			continue
		}
		switch dataType {
		case storage.TypeEvents:
			data.Events = items
		case storage.TypeTasks:
			data.Tasks = items
		}
	}
	span.SetAttributes(attribute.Int("planner.data_types", len(types)))

	now := time.Now()
	backup := model.Backup{
		Version:    apiVersion,
		ExportDate: now.UTC().Format(time.RFC3339),
		Data:       data,
	}

	w.Header().Set("Content-Disposition",
		`attachment; filename="year-planner-backup-`+now.Format("2006-01-02")+`.json"`)
	h.respondJSON(w, http.StatusOK, backup)
	h.recordMetrics(ctx, "GET", "/api/backup", http.StatusOK, start)
}

// ImportBackup restores a previously exported envelope. Only the collections
// present in the envelope are overwritten.
func (h *PlannerHandler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	user := userID(r)

	ctx, span := tracer.Start(ctx, "PlannerHandler.ImportBackup",
		trace.WithAttributes(attribute.String("planner.user_id", user)),
	)
	defer span.End()

	var backup model.Backup
	if err := json.NewDecoder(r.Body).Decode(&backup); err != nil {
		h.logger.WarnContext(ctx, "invalid backup body", slog.Any("error", err))
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		h.recordMetrics(ctx, "POST", "/api/backup", http.StatusBadRequest, start)
		return
	}

	if backup.Data.Events != nil {
		if err := h.store.Save(ctx, user, storage.TypeEvents, backup.Data.Events); err != nil {
			h.logger.ErrorContext(ctx, "failed to import events", slog.Any("error", err))
			h.respondError(w, http.StatusInternalServerError, "failed to import backup")
			h.recordMetrics(ctx, "POST", "/api/backup", http.StatusInternalServerError, start)
			return
		}
	}
	if backup.Data.Tasks != nil {
		if err := h.store.Save(ctx, user, storage.TypeTasks, backup.Data.Tasks); err != nil {
			h.logger.ErrorContext(ctx, "failed to import tasks", slog.Any("error", err))
			h.respondError(w, http.StatusInternalServerError, "failed to import backup")
			h.recordMetrics(ctx, "POST", "/api/backup", http.StatusInternalServerError, start)
			return
		}
	}

	h.logger.InfoContext(ctx, "backup imported",
		slog.String("user", user),
		slog.Int("events", len(backup.Data.Events)),
		slog.Int("tasks", len(backup.Data.Tasks)),
	)

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"importDate": time.Now().UTC().Format(time.RFC3339),
	})
	h.recordMetrics(ctx, "POST", "/api/backup", http.StatusOK, start)
}

// Health returns a health check response.
func (h *PlannerHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status":      "healthy",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"version":     apiVersion,
		"environment": h.env,
	})
}

// loadCollections loads and decodes both collections for resolution
// endpoints. Items that fail to decode individually are skipped, and load
// failures degrade to empty collections.
func (h *PlannerHandler) loadCollections(ctx context.Context, user string) ([]model.Event, []model.Task) {
	var events []model.Event
	if raw, err := h.store.Load(ctx, user, storage.TypeEvents); err == nil {
		for _, item := range raw {
			var e model.Event
			if err := json.Unmarshal(item, &e); err == nil {
				events = append(events, e)
			}
		}
	}

	var tasks []model.Task
	if raw, err := h.store.Load(ctx, user, storage.TypeTasks); err == nil {
		for _, item := range raw {
			var t model.Task
			if err := json.Unmarshal(item, &t); err == nil {
				tasks = append(tasks, t)
			}
		}
	}
	return events, tasks
}

func decodeItemArray(body io.Reader) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.NewDecoder(body).Decode(&items); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty body saves an empty collection, matching the frontend's
			// wholesale-overwrite contract.
			return []json.RawMessage{}, nil
		}
		return nil, err
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items, nil
}

func (h *PlannerHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func (h *PlannerHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

func (h *PlannerHandler) recordMetrics(ctx context.Context, method, route string, status int, start time.Time) {
	duration := time.Since(start).Seconds()

	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)

	h.metrics.RequestCounter.Add(ctx, 1, attrs)
	h.metrics.RequestDuration.Record(ctx, duration, attrs)
}
