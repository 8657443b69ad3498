package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"dayplan/internal/clock"
	"dayplan/internal/model"
	"dayplan/internal/planner"
	"dayplan/internal/store"
	"dayplan/internal/template"
)

// BudgetService supplies the externally tracked topic→minutes mappings.
// Implementations fail open: on any upstream problem they return an
// empty mapping, never an error.
type BudgetService interface {
	LearningTimes(ctx context.Context) map[string]int
	RemainingTimes(ctx context.Context) map[string]int
	TargetTimes(ctx context.Context) map[string]int
}

// Handlers marshals HTTP requests into store, planner, and template
// operations.
type Handlers struct {
	store     store.Store
	budget    BudgetService
	templates *template.Store
	planner   planner.Planner
	logger    *slog.Logger
	now       func() time.Time
}

// New creates the handler set. now is injectable for tests; pass nil
// for time.Now.
func New(s store.Store, b BudgetService, t *template.Store, p planner.Planner, logger *slog.Logger, now func() time.Time) *Handlers {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{store: s, budget: b, templates: t, planner: p, logger: logger, now: now}
}

func (h *Handlers) respond(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func (h *Handlers) error(w http.ResponseWriter, message string, status int) {
	h.respond(w, map[string]string{"error": message}, status)
}

// DayView is the full payload for one calendar day.
type DayView struct {
	Date                string                `json:"date"`
	IsToday             bool                  `json:"is_today"`
	DayStartHour        int                   `json:"day_start_hour"`
	Entries             []model.ScheduleEntry `json:"entries"`
	Categories          []string              `json:"categories"`
	RemainingTimes      map[string]int        `json:"remaining_times"`
	PlanTimes           map[string]int        `json:"plan_times"`
	TodayRemainingTimes map[string]int        `json:"today_remaining_times,omitempty"`
	TemplateNames       []string              `json:"template_names"`
}

// GetToday reports the logical operating date.
func (h *Handlers) GetToday(w http.ResponseWriter, r *http.Request) {
	h.respond(w, map[string]string{"date": h.planner.LogicalToday(h.now())}, http.StatusOK)
}

// GetDay renders the day view for /api/day/{date}.
func (h *Handlers) GetDay(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimPrefix(r.URL.Path, "/api/day/")
	if _, err := clock.ParseDate(date); err != nil {
		h.error(w, "Invalid date", http.StatusBadRequest)
		return
	}

	entries, err := h.store.ListSchedulesForDate(r.Context(), date)
	if err != nil {
		h.logger.Error("listing schedules", "date", date, "error", err)
		h.error(w, "Failed to load schedules", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []model.ScheduleEntry{}
	}

	remaining := h.budget.RemainingTimes(r.Context())
	categories := make([]string, 0, len(remaining))
	for topic := range remaining {
		categories = append(categories, topic)
	}
	sort.Strings(categories)

	view := DayView{
		Date:           date,
		IsToday:        date == h.planner.LogicalToday(h.now()),
		DayStartHour:   h.planner.DayStartHour,
		Entries:        entries,
		Categories:     categories,
		RemainingTimes: remaining,
		PlanTimes:      h.planner.PlannedPerTopic(entries, remaining),
	}
	if view.IsToday {
		view.TodayRemainingTimes = h.planner.LiveRemaining(entries, remaining, h.now())
	}

	names, err := h.templates.List()
	if err != nil {
		h.logger.Error("listing templates", "error", err)
		h.error(w, "Failed to list templates", http.StatusInternalServerError)
		return
	}
	view.TemplateNames = names

	h.respond(w, view, http.StatusOK)
}

// GetTimes exposes the three raw budget mappings.
func (h *Handlers) GetTimes(w http.ResponseWriter, r *http.Request) {
	h.respond(w, map[string]map[string]int{
		"learning_times":  h.budget.LearningTimes(r.Context()),
		"remaining_times": h.budget.RemainingTimes(r.Context()),
		"target_times":    h.budget.TargetTimes(r.Context()),
	}, http.StatusOK)
}

type scheduleRequest struct {
	Date      string `json:"date"`
	Topic     string `json:"topic"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Content   string `json:"content"`
}

// validate rejects malformed dates and clock times before they reach
// the store.
func (req *scheduleRequest) validate() error {
	if req.Topic == "" {
		return errors.New("topic is required")
	}
	if _, err := clock.ParseDate(req.Date); err != nil {
		return err
	}
	if _, err := clock.ParseClock(req.StartTime); err != nil {
		return err
	}
	if _, err := clock.ParseClock(req.EndTime); err != nil {
		return err
	}
	return nil
}

// AddSchedule creates a schedule, creating its topic on first use.
func (h *Handlers) AddSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		h.error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.store.AddSchedule(r.Context(), req.Date, req.Topic, req.StartTime, req.EndTime, req.Content)
	if err != nil {
		h.logger.Error("adding schedule", "error", err)
		h.error(w, "Failed to add schedule", http.StatusInternalServerError)
		return
	}

	h.respond(w, map[string]int64{"id": id}, http.StatusCreated)
}

// UpdateSchedule overwrites all mutable fields of a schedule. Unknown
// ids succeed without effect.
func (h *Handlers) UpdateSchedule(w http.ResponseWriter, r *http.Request, id int64) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		h.error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.UpdateSchedule(r.Context(), id, req.Topic, req.StartTime, req.EndTime, req.Content); err != nil {
		h.logger.Error("updating schedule", "id", id, "error", err)
		h.error(w, "Failed to update schedule", http.StatusInternalServerError)
		return
	}

	h.respond(w, map[string]string{"status": "success"}, http.StatusOK)
}

// UpdateContent overwrites only the free-text content of a schedule.
func (h *Handlers) UpdateContent(w http.ResponseWriter, r *http.Request, id int64) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.UpdateContent(r.Context(), id, req.Content); err != nil {
		h.logger.Error("updating content", "id", id, "error", err)
		h.error(w, "Failed to update content", http.StatusInternalServerError)
		return
	}

	h.respond(w, map[string]string{"status": "success"}, http.StatusOK)
}

// DeleteSchedule removes a schedule. Deleting an unknown id still
// reports success.
func (h *Handlers) DeleteSchedule(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.store.DeleteSchedule(r.Context(), id); err != nil {
		h.logger.Error("deleting schedule", "id", id, "error", err)
		h.error(w, "Failed to delete schedule", http.StatusInternalServerError)
		return
	}
	h.respond(w, map[string]string{"status": "success"}, http.StatusOK)
}

// HasSchedule reports whether today's plan already exhausts the entire
// remaining budget.
func (h *Handlers) HasSchedule(w http.ResponseWriter, r *http.Request) {
	today := h.planner.LogicalToday(h.now())
	entries, err := h.store.ListSchedulesForDate(r.Context(), today)
	if err != nil {
		h.logger.Error("listing schedules", "date", today, "error", err)
		h.error(w, "Failed to load schedules", http.StatusInternalServerError)
		return
	}

	remaining := h.budget.RemainingTimes(r.Context())
	h.respond(w, map[string]bool{
		"has_schedule": h.planner.BudgetExhausted(entries, remaining),
	}, http.StatusOK)
}

// ListTemplates enumerates saved template names.
func (h *Handlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	names, err := h.templates.List()
	if err != nil {
		h.logger.Error("listing templates", "error", err)
		h.error(w, "Failed to list templates", http.StatusInternalServerError)
		return
	}
	if names == nil {
		names = []string{}
	}
	h.respond(w, names, http.StatusOK)
}

type templateRequest struct {
	Date string `json:"date"`
}

// SaveTemplate snapshots a day's schedules under a name.
func (h *Handlers) SaveTemplate(w http.ResponseWriter, r *http.Request, name string) {
	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := clock.ParseDate(req.Date); err != nil {
		h.error(w, "Invalid date", http.StatusBadRequest)
		return
	}

	if err := h.templates.Save(r.Context(), name, req.Date); err != nil {
		h.logger.Error("saving template", "name", name, "error", err)
		h.error(w, "Failed to save template", http.StatusInternalServerError)
		return
	}

	h.respond(w, map[string]string{"status": "success"}, http.StatusOK)
}

// LoadTemplate replays a named snapshot onto a date. Unknown template
// names and unknown topics are surfaced, not papered over.
func (h *Handlers) LoadTemplate(w http.ResponseWriter, r *http.Request, name string) {
	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := clock.ParseDate(req.Date); err != nil {
		h.error(w, "Invalid date", http.StatusBadRequest)
		return
	}

	err := h.templates.Load(r.Context(), name, req.Date)
	switch {
	case errors.Is(err, template.ErrNotFound):
		h.error(w, "Template not found", http.StatusNotFound)
	case errors.Is(err, store.ErrTopicNotFound):
		h.error(w, err.Error(), http.StatusConflict)
	case err != nil:
		h.logger.Error("loading template", "name", name, "error", err)
		h.error(w, "Failed to load template", http.StatusInternalServerError)
	default:
		h.respond(w, map[string]string{"status": "success"}, http.StatusOK)
	}
}

// parseID extracts a numeric schedule id from a path segment.
func parseID(segment string) (int64, error) {
	return strconv.ParseInt(segment, 10, 64)
}
