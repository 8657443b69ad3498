package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayplan/internal/planner"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":3333", cfg.Server.Addr)
	assert.Equal(t, 4, cfg.Planner.DayStartHour)
	assert.Equal(t, 9, cfg.Planner.UTCOffsetHours)
	assert.Equal(t, 80, cfg.Planner.LiveDiscountPercent)
	assert.Equal(t, string(planner.MatchExact), cfg.Planner.TopicMatch)
	assert.Equal(t, 10*time.Second, cfg.BudgetTimeout())
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":8080"
budget:
  base_url: "http://tracker.local:5003"
  timeout_sec: 3
planner:
  day_start_hour: 5
  live_discount_percent: 50
  topic_match: contains
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "http://tracker.local:5003", cfg.Budget.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.BudgetTimeout())

	p := cfg.NewPlanner()
	assert.Equal(t, 5, p.DayStartHour)
	assert.Equal(t, 50, p.DiscountPercent)
	assert.Equal(t, planner.MatchContains, p.Match)
	// Unset keys keep their defaults.
	assert.Equal(t, 9, p.UTCOffsetHours)
}

func TestLoadRejectsUnknownMatchPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("planner:\n  topic_match: fuzzy\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
