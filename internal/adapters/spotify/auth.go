package spotify

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

// DefaultTokenURL is the Spotify accounts endpoint for the client-credentials grant.
const DefaultTokenURL = "https://accounts.spotify.com/api/token"

// NewAuthenticatedHTTPClient returns an *http.Client that obtains and refreshes
// app tokens via the client-credentials flow and attaches them to every request.
func NewAuthenticatedHTTPClient(ctx context.Context, clientID, clientSecret, tokenURL string, timeout time.Duration) (*http.Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("spotify adapter: client id and secret are required")
	}
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}

	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	hc := cc.Client(ctx)
	hc.Timeout = timeout
	return hc, nil
}
