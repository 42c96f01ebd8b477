package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/testutil"
)

// createTestStore creates a new file-backed store for testing.
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

// createCatStore creates a store holding the Cat fixtures.
func createCatStore(t *testing.T) *Store {
	t.Helper()
	s := createTestStore(t)
	if err := s.Load(context.Background(), testutil.Registry(), testutil.Sources()); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return s
}

// assertSameRows compares result rows value by value with ir.Equal.
func assertSameRows(t *testing.T, want, got []any) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("got %d rows %v, want %d rows %v", len(got), got, len(want), want)
	}
	for i := range want {
		w, wok := want[i].([]any)
		g, gok := got[i].([]any)
		if wok != gok {
			t.Fatalf("row %d: got %v, want %v", i, got[i], want[i])
		}
		if !wok {
			w, g = []any{want[i]}, []any{got[i]}
		}
		if len(w) != len(g) {
			t.Fatalf("row %d: got %d columns, want %d", i, len(g), len(w))
		}
		for j := range w {
			if !ir.Equal(w[j], g[j]) {
				t.Errorf("row %d column %d: got %v (%T), want %v (%T)", i, j, g[j], g[j], w[j], w[j])
			}
		}
	}
}
