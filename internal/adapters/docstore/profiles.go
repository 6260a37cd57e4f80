package docstore

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
	"github.com/ewilliams-labs/aidj/backend/internal/core/ports"
)

const profileKeyPrefix = "profile_"

// ProfileKey is the document key a user's profile is stored under.
func ProfileKey(userID string) string {
	return profileKeyPrefix + userID
}

// ProfileRepository stores user profiles as JSON documents in any DocumentStore.
type ProfileRepository struct {
	docs ports.DocumentStore
}

var _ ports.ProfileStore = (*ProfileRepository)(nil)

// NewProfileRepository wraps docs.
func NewProfileRepository(docs ports.DocumentStore) *ProfileRepository {
	return &ProfileRepository{docs: docs}
}

// LoadProfile returns the stored profile or an error wrapping domain.ErrNotFound.
func (r *ProfileRepository) LoadProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	b, err := r.docs.Get(ctx, ProfileKey(userID))
	if err != nil {
		return domain.UserProfile{}, err
	}
	var p domain.UserProfile
	if err := json.Unmarshal(b, &p); err != nil {
		return domain.UserProfile{}, fmt.Errorf("docstore: decode profile %q: %w", userID, err)
	}
	if p.UserID == "" {
		p.UserID = userID
	}
	return p, nil
}

// SaveProfile overwrites the stored profile.
func (r *ProfileRepository) SaveProfile(ctx context.Context, p domain.UserProfile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("docstore: encode profile %q: %w", p.UserID, err)
	}
	return r.docs.Put(ctx, ProfileKey(p.UserID), b)
}
