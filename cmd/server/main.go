package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"dayplan/internal/budget"
	"dayplan/internal/config"
	"dayplan/internal/logging"
	"dayplan/internal/server"
	"dayplan/internal/store"
	"dayplan/internal/template"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath(), "Path to config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	if err := os.MkdirAll(filepath.Dir(cfg.Store.DBPath), 0o755); err != nil {
		logger.Error("creating data directory", "error", err)
		os.Exit(1)
	}

	s, err := store.NewSQLiteStore(cfg.Store.DBPath, nil)
	if err != nil {
		logger.Error("opening store", "path", cfg.Store.DBPath, "error", err)
		os.Exit(1)
	}
	defer s.Close()

	templates, err := template.NewStore(cfg.Store.TemplateDir, s)
	if err != nil {
		logger.Error("opening template store", "dir", cfg.Store.TemplateDir, "error", err)
		os.Exit(1)
	}

	budgets := budget.NewClient(cfg.Budget.BaseURL, cfg.BudgetTimeout(), logger)
	handlers := server.New(s, budgets, templates, cfg.NewPlanner(), logger, nil)

	logger.Info("starting dayplan server",
		slog.String("addr", cfg.Server.Addr),
		slog.String("db", cfg.Store.DBPath),
		slog.Int("day_start_hour", cfg.Planner.DayStartHour),
	)

	if err := http.ListenAndServe(cfg.Server.Addr, server.Router(handlers, cfg.Server.StaticDir, logger)); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
