package ports

import (
	"context"

	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
)

// DocumentStore is a durable key to JSON document store.
// Get returns domain.ErrNotFound for unknown keys.
type DocumentStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, doc []byte) error
}

// ProfileStore persists user profiles, one document per user.
type ProfileStore interface {
	LoadProfile(ctx context.Context, userID string) (domain.UserProfile, error)
	SaveProfile(ctx context.Context, p domain.UserProfile) error
}
