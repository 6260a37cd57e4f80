package ports

import (
	"context"

	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
)

// CatalogProvider is the upstream music catalog (Spotify in production).
type CatalogProvider interface {
	// SearchTrack returns the first track matching a free-text query.
	// It returns domain.ErrNotFound when the query matched nothing.
	SearchTrack(ctx context.Context, query string) (domain.Track, error)

	// Recommendations generates candidate tracks from up to five seed track IDs.
	// Returned tracks carry metadata only; features are fetched separately.
	Recommendations(ctx context.Context, seedIDs []string, limit int) ([]domain.Track, error)

	// AudioFeatures returns the fields the catalog reported for a track.
	// A nil map means the catalog had no feature data at all.
	AudioFeatures(ctx context.Context, trackID string) (domain.Features, error)
}
