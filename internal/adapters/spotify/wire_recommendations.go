package spotify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
)

// Spotify accepts at most five seeds and 100 results per call.
const (
	maxSeeds           = 5
	maxRecommendations = 100
)

// Recommendations returns tracks related to the seed track IDs.
func (c *Client) Recommendations(ctx context.Context, seedIDs []string, limit int) ([]domain.Track, error) {
	if len(seedIDs) == 0 {
		return nil, fmt.Errorf("spotify adapter: %w: at least one seed is required", domain.ErrInvalidArgument)
	}
	if len(seedIDs) > maxSeeds {
		seedIDs = seedIDs[:maxSeeds]
	}
	if limit <= 0 || limit > maxRecommendations {
		limit = maxRecommendations
	}

	var body recommendationsResponse
	_, err := c.getJSON(ctx, "/recommendations", map[string]string{
		"seed_tracks": strings.Join(seedIDs, ","),
		"limit":       strconv.Itoa(limit),
		"market":      c.market,
	}, &body)
	if err != nil {
		return nil, err
	}
	return mapTracksToDomain(body.Tracks), nil
}
