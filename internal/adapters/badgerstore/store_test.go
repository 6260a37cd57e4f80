package badgerstore

import (
	"context"
	"errors"
	"testing"

	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_GetPut(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.Get(ctx, "search_stay"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Put(ctx, "search_stay", []byte(`{"id":"1"}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(ctx, "search_stay", []byte(`{"id":"2"}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := s.Get(ctx, "search_stay")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"id":"2"}` {
		t.Fatalf("doc: got %s", got)
	}
}

func TestStore_PersistsOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Put(ctx, "profile_u1", []byte(`{}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.Get(ctx, "profile_u1"); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
}
