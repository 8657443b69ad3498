// Package server is the HTTP layer: request parsing, routing, and JSON
// rendering around the store, planner, and template operations.
package server

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
)

// Router builds the full HTTP handler: all API routes, the static SPA
// shell, and the middleware chain (request id, logging, recovery).
func Router(h *Handlers, staticDir string, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	mux.HandleFunc("/api/today", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.GetToday(w, r)
	})

	mux.HandleFunc("/api/day/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.GetDay(w, r)
	})

	mux.HandleFunc("/api/times", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.GetTimes(w, r)
	})

	mux.HandleFunc("/api/has_schedule", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.HasSchedule(w, r)
	})

	mux.HandleFunc("/api/schedules", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.AddSchedule(w, r)
	})

	mux.HandleFunc("/api/schedules/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/schedules/")

		// /api/schedules/{id}/content
		if idStr, ok := strings.CutSuffix(rest, "/content"); ok {
			id, err := parseID(idStr)
			if err != nil {
				h.error(w, "Invalid schedule ID", http.StatusBadRequest)
				return
			}
			if r.Method != http.MethodPut {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			h.UpdateContent(w, r, id)
			return
		}

		id, err := parseID(rest)
		if err != nil {
			h.error(w, "Invalid schedule ID", http.StatusBadRequest)
			return
		}
		switch r.Method {
		case http.MethodPut:
			h.UpdateSchedule(w, r, id)
		case http.MethodDelete:
			h.DeleteSchedule(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/templates", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.ListTemplates(w, r)
	})

	mux.HandleFunc("/api/templates/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rest := strings.TrimPrefix(r.URL.Path, "/api/templates/")
		if name, ok := strings.CutSuffix(rest, "/save"); ok && name != "" {
			h.SaveTemplate(w, r, name)
			return
		}
		if name, ok := strings.CutSuffix(rest, "/load"); ok && name != "" {
			h.LoadTemplate(w, r, name)
			return
		}
		h.error(w, "Unknown template action", http.StatusNotFound)
	})

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	// Serve index.html for all other routes (SPA)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
	})

	return Chain(RequestID, Logger(logger), Recovery(logger))(mux)
}
