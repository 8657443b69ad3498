package testutil

import (
	"math/rand"
	"testing"

	"dayplan/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations
// applied and a deterministic topic color generator. It automatically
// closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:", store.RandomColor(rand.New(rand.NewSource(1))))
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}
