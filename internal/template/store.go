// Package template persists named day-plan snapshots as files. A
// snapshot captures a day's schedule list without dates or ids, so it
// can be replayed onto any date.
package template

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dayplan/internal/model"
	"dayplan/internal/store"
)

// formatVersion is the snapshot file format version. Files with any
// other version are rejected rather than guessed at.
const formatVersion = 1

// ErrNotFound is returned when a named snapshot does not exist. Unlike
// the store's lenient mutations, loading an unknown template is a hard
// error the caller must see.
var ErrNotFound = errors.New("template not found")

// snapshot is the on-disk file format.
type snapshot struct {
	Version int                   `json:"version"`
	Entries []model.TemplateEntry `json:"entries"`
}

// Store reads and writes named snapshots under a single directory and
// replays them through the schedule store.
type Store struct {
	dir      string
	schedule store.Store
}

// NewStore creates a template store rooted at dir, creating the
// directory if needed.
func NewStore(dir string, schedule store.Store) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating template directory %s: %w", dir, err)
	}
	return &Store{dir: dir, schedule: schedule}, nil
}

// Save snapshots the schedule list of date under name, overwriting any
// existing snapshot of that name. The write goes through a temp file
// and rename so a crash never leaves a half-written snapshot.
func (s *Store) Save(ctx context.Context, name, date string) error {
	entries, err := s.schedule.ListSchedulesForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("reading schedules for %s: %w", date, err)
	}

	snap := snapshot{Version: formatVersion, Entries: make([]model.TemplateEntry, 0, len(entries))}
	for _, entry := range entries {
		snap.Entries = append(snap.Entries, model.TemplateEntry{
			Topic:     entry.Topic,
			StartTime: entry.StartTime,
			EndTime:   entry.EndTime,
			Content:   entry.Content,
		})
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding template %q: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for template %q: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing template %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing template %q: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing template %q: %w", name, err)
	}
	return nil
}

// Load replays the named snapshot onto date, inserting one schedule per
// entry. Topics are resolved strictly by title: an entry naming a topic
// that does not exist yet fails the load instead of creating it.
func (s *Store) Load(ctx context.Context, name, date string) error {
	snap, err := s.read(name)
	if err != nil {
		return err
	}

	for _, entry := range snap.Entries {
		if _, err := s.schedule.TopicIDByTitle(ctx, entry.Topic); err != nil {
			return fmt.Errorf("template %q: %w", name, err)
		}
		if _, err := s.schedule.AddSchedule(ctx, date, entry.Topic, entry.StartTime, entry.EndTime, entry.Content); err != nil {
			return fmt.Errorf("template %q: %w", name, err)
		}
	}
	return nil
}

// List returns the available snapshot names, sorted.
func (s *Store) List() ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	var names []string
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(de.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// read loads and strictly parses a snapshot file.
func (s *Store) read(name string) (snapshot, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return snapshot{}, fmt.Errorf("template %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return snapshot{}, fmt.Errorf("reading template %q: %w", name, err)
	}

	var snap snapshot
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return snapshot{}, fmt.Errorf("parsing template %q: %w", name, err)
	}
	if snap.Version != formatVersion {
		return snapshot{}, fmt.Errorf("template %q: unsupported version %d", name, snap.Version)
	}
	for i, entry := range snap.Entries {
		if entry.Topic == "" || entry.StartTime == "" || entry.EndTime == "" {
			return snapshot{}, fmt.Errorf("template %q: entry %d is missing required fields", name, i)
		}
	}
	return snap, nil
}

// path maps a template name to its file. The name is reduced to its
// base so a crafted name cannot escape the template directory.
func (s *Store) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name)+".json")
}
