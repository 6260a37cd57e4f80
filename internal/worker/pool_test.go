package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
)

type recordingStore struct {
	mu      sync.Mutex
	saved   []domain.UserProfile
	saveErr error
	release chan struct{}
}

func (s *recordingStore) LoadProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.saved) - 1; i >= 0; i-- {
		if s.saved[i].UserID == userID {
			return s.saved[i], nil
		}
	}
	return domain.UserProfile{}, domain.ErrNotFound
}

func (s *recordingStore) SaveProfile(ctx context.Context, p domain.UserProfile) error {
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, p)
	return nil
}

func profileWithHistory(userID string, n int) domain.UserProfile {
	p := domain.NewUserProfile(userID)
	for i := 0; i < n; i++ {
		p.FeedbackHistory = append(p.FeedbackHistory, domain.FeedbackEvent{TrackID: "t"})
	}
	return p
}

func TestPool_SavesInOrderAndDrainsOnStop(t *testing.T) {
	store := &recordingStore{}
	p := NewPool(store, 4, 16)
	p.Start()

	for i := 1; i <= 5; i++ {
		if err := p.SaveProfile(context.Background(), profileWithHistory("u1", i)); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	p.Stop()

	if len(store.saved) != 5 {
		t.Fatalf("saved: got %d, want 5", len(store.saved))
	}
	for i, s := range store.saved {
		if len(s.FeedbackHistory) != i+1 {
			t.Fatalf("save %d out of order: history %d", i, len(s.FeedbackHistory))
		}
	}

	got, err := p.LoadProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.FeedbackHistory) != 5 {
		t.Fatalf("load should see the last snapshot, got %d events", len(got.FeedbackHistory))
	}
}

func TestPool_SavesACopy(t *testing.T) {
	store := &recordingStore{}
	p := NewPool(store, 1, 4)
	p.Start()

	prof := profileWithHistory("u1", 1)
	if err := p.SaveProfile(context.Background(), prof); err != nil {
		t.Fatalf("save: %v", err)
	}
	prof.FeedbackHistory[0].TrackID = "mutated"
	p.Stop()

	if store.saved[0].FeedbackHistory[0].TrackID != "t" {
		t.Fatalf("queued snapshot aliased the caller's profile")
	}
}

func TestPool_Backpressure(t *testing.T) {
	store := &recordingStore{release: make(chan struct{})}
	p := NewPool(store, 1, 1)
	p.Start()
	ctx := context.Background()

	// The first save blocks inside the store, the second fills the queue.
	if err := p.SaveProfile(ctx, profileWithHistory("u1", 1)); err != nil {
		t.Fatalf("first save: %v", err)
	}
	var err error
	for i := 0; i < 3 && err == nil; i++ {
		err = p.SaveProfile(ctx, profileWithHistory("u1", 2))
	}
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	close(store.release)
	p.Stop()

	if err := p.SaveProfile(ctx, profileWithHistory("u1", 3)); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestPool_StoreFailureIsSwallowed(t *testing.T) {
	store := &recordingStore{saveErr: errors.New("disk full")}
	p := NewPool(store, 2, 4)
	p.Start()

	if err := p.SaveProfile(context.Background(), profileWithHistory("u1", 1)); err != nil {
		t.Fatalf("enqueue should succeed, got %v", err)
	}
	p.Stop()
	p.Stop()
}
