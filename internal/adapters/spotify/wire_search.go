package spotify

import (
	"context"
	"fmt"

	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
)

// SearchTrack returns the top search hit for query.
func (c *Client) SearchTrack(ctx context.Context, query string) (domain.Track, error) {
	var body searchResponse
	_, err := c.getJSON(ctx, "/search", map[string]string{
		"q":      query,
		"type":   "track",
		"limit":  "1",
		"market": c.market,
	}, &body)
	if err != nil {
		return domain.Track{}, err
	}

	if len(body.Tracks.Items) == 0 {
		return domain.Track{}, fmt.Errorf("spotify adapter: search %q: %w", query, domain.ErrNotFound)
	}
	return mapTrackToDomain(body.Tracks.Items[0]), nil
}
