package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/scenectx/internal/value"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestResult creates a result with minimal required fields.
func createTestResult(cacheKey, node string, v value.Value, seq int64) Result {
	return Result{
		CacheKey: cacheKey,
		Node:     node,
		Value:    v,
		Seq:      seq,
		RunID:    "run-1",
	}
}
