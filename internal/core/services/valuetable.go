package services

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
)

// DefaultValueTableSize bounds the number of (context, track) estimates kept in memory.
const DefaultValueTableSize = 1 << 16

type valueKey struct {
	context domain.ContextKey
	trackID string
}

// ValueTable maps (context, track) pairs to value estimates. Unseen or evicted
// pairs read as 0. The table is shared by all users; contexts isolate them.
type ValueTable struct {
	entries *lru.Cache[valueKey, float64]
}

// NewValueTable creates a table holding at most size estimates, evicting the
// least recently used pair when full.
func NewValueTable(size int) (*ValueTable, error) {
	if size <= 0 {
		size = DefaultValueTableSize
	}
	entries, err := lru.New[valueKey, float64](size)
	if err != nil {
		return nil, fmt.Errorf("service: value table: %w", err)
	}
	return &ValueTable{entries: entries}, nil
}

// Get returns the estimate for the pair, or 0 when it has never been set.
func (t *ValueTable) Get(ctx domain.ContextKey, trackID string) float64 {
	v, _ := t.entries.Get(valueKey{context: ctx, trackID: trackID})
	return v
}

// Set stores the estimate for the pair.
func (t *ValueTable) Set(ctx domain.ContextKey, trackID string, value float64) {
	t.entries.Add(valueKey{context: ctx, trackID: trackID}, value)
}

// Len reports how many pairs are currently held.
func (t *ValueTable) Len() int {
	return t.entries.Len()
}
