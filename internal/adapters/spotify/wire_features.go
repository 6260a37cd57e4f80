package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
)

// AudioFeatures fetches the audio features of a single track. A track the API
// has no analysis for yields domain.ErrNotFound; a null body yields nil.
func (c *Client) AudioFeatures(ctx context.Context, trackID string) (domain.Features, error) {
	var body *spotifyAudioFeatures
	status, err := c.getJSON(ctx, "/audio-features/"+url.PathEscape(trackID), nil, &body)
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("spotify adapter: audio features %q: %w", trackID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}
	return mapFeaturesToDomain(*body), nil
}
