// Package worker provides background persistence for user profiles.
package worker

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
	"github.com/ewilliams-labs/aidj/backend/internal/core/ports"
	"github.com/ewilliams-labs/aidj/backend/internal/logging"
	"github.com/ewilliams-labs/aidj/backend/internal/metrics"
)

var (
	// ErrQueueFull is returned when a save cannot be queued without blocking.
	ErrQueueFull = errors.New("worker: queue full")
	// ErrStopped is returned for saves submitted after Stop.
	ErrStopped = errors.New("worker: pool stopped")
)

const saveTimeout = 5 * time.Second

// Pool is a ProfileStore that writes profiles in the background. Loads go
// straight to the wrapped store. Saves for the same user always land on the
// same worker, so snapshots are written in the order they were submitted.
type Pool struct {
	store  ports.ProfileStore
	queues []chan domain.UserProfile
	wg     sync.WaitGroup

	mu      sync.RWMutex
	started bool
	stopped bool
}

var _ ports.ProfileStore = (*Pool)(nil)

// NewPool creates a pool in front of store. Each worker gets its own queue of
// queueSize pending saves.
func NewPool(store ports.ProfileStore, workers int, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	queues := make([]chan domain.UserProfile, workers)
	for i := range queues {
		queues[i] = make(chan domain.UserProfile, queueSize)
	}
	return &Pool{store: store, queues: queues}
}

// Start launches the worker goroutines. Calling it more than once is a no-op.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true

	for _, q := range p.queues {
		p.wg.Add(1)
		go func(q chan domain.UserProfile) {
			defer p.wg.Done()
			for profile := range q {
				p.save(profile)
			}
		}(q)
	}
}

// Stop closes the queues and waits for pending saves to drain.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	for _, q := range p.queues {
		close(q)
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// LoadProfile reads through to the wrapped store.
func (p *Pool) LoadProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	return p.store.LoadProfile(ctx, userID)
}

// SaveProfile queues a copy of profile without blocking.
func (p *Pool) SaveProfile(ctx context.Context, profile domain.UserProfile) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}

	select {
	case p.queues[p.shard(profile.UserID)] <- profile.Clone():
		return nil
	default:
		logging.Warn().Str("user_id", profile.UserID).Msg("worker: dropping profile save")
		return ErrQueueFull
	}
}

func (p *Pool) shard(userID string) int {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(p.queues)))
}

func (p *Pool) save(profile domain.UserProfile) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := p.store.SaveProfile(ctx, profile); err != nil {
		metrics.PersistenceErrors.WithLabelValues("save_profile_async").Inc()
		logging.Warn().Err(err).Str("user_id", profile.UserID).Msg("worker: failed to save profile")
		return
	}
	logging.Debug().Str("user_id", profile.UserID).Msg("worker: saved profile")
}
