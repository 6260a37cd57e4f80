package spotify_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ewilliams-labs/aidj/backend/internal/adapters/spotify"
	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
)

func newTestClient(ts *httptest.Server) *spotify.Client {
	return spotify.NewClient(ts.Client(), spotify.Config{BaseURL: ts.URL})
}

func TestSearchTrack(t *testing.T) {
	tests := []struct {
		name          string
		response      string
		statusCode    int
		expectedTrack domain.Track
		expectErr     error
		anyErr        bool
	}{
		{
			name:       "successful search",
			statusCode: http.StatusOK,
			// MOCK: Search API Structure (Wrapper -> Items -> Track -> Nested Fields)
			response: `{
				"tracks": {
					"items": [
						{
							"id": "1",
							"name": "Test Track",
							"artists": [ { "name": "Test Artist" }, { "name": "Guest" } ],
							"album": {
								"name": "Test Album",
								"images": [ { "url": "http://img.com/1.jpg" }, { "url": "http://img.com/small.jpg" } ]
							},
							"preview_url": "http://p.scdn.co/1.mp3"
						}
					]
				}
			}`,
			expectedTrack: domain.Track{
				ID:         "1",
				Title:      "Test Track",
				Artist:     "Test Artist",
				ImageURL:   "http://img.com/1.jpg",
				PreviewURL: "http://p.scdn.co/1.mp3",
				Features:   domain.DefaultAudioFeatures(),
			},
		},
		{
			name:       "null preview and no images",
			statusCode: http.StatusOK,
			response: `{"tracks": {"items": [
				{"id": "2", "name": "Bare", "artists": [], "album": {"images": []}, "preview_url": null}
			]}}`,
			expectedTrack: domain.Track{
				ID:       "2",
				Title:    "Bare",
				Features: domain.DefaultAudioFeatures(),
			},
		},
		{
			name:       "not found (empty items list)",
			statusCode: http.StatusOK, // Search returns 200 OK with empty list
			response:   `{ "tracks": { "items": [] } }`,
			expectErr:  domain.ErrNotFound,
		},
		{
			name:       "upstream failure",
			statusCode: http.StatusBadGateway,
			response:   `{}`,
			anyErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/search" {
					t.Errorf("Expected URL path /search, got %s", r.URL.Path)
				}
				q := r.URL.Query()
				if q.Get("q") != "blinding lights" || q.Get("type") != "track" || q.Get("limit") != "1" || q.Get("market") != "US" {
					t.Errorf("unexpected query: %s", r.URL.RawQuery)
				}
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.response))
			}))
			defer ts.Close()

			track, err := newTestClient(ts).SearchTrack(context.Background(), "blinding lights")

			switch {
			case tt.expectErr != nil:
				if !errors.Is(err, tt.expectErr) {
					t.Fatalf("expected error %v, got %v", tt.expectErr, err)
				}
				return
			case tt.anyErr:
				if err == nil {
					t.Fatalf("expected an error")
				}
				return
			case err != nil:
				t.Fatalf("unexpected error: %v", err)
			}
			if track != tt.expectedTrack {
				t.Errorf("track mismatch:\n got: %+v\nwant: %+v", track, tt.expectedTrack)
			}
		})
	}
}

func TestRecommendations(t *testing.T) {
	var gotQuery map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recommendations" {
			t.Errorf("Expected URL path /recommendations, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		gotQuery = map[string]string{
			"seed_tracks": q.Get("seed_tracks"),
			"limit":       q.Get("limit"),
			"market":      q.Get("market"),
		}
		w.Write([]byte(`{"tracks": [
			{"id": "a", "name": "A", "artists": [{"name": "X"}], "album": {"images": []}, "preview_url": "http://p/a"},
			{"id": "b", "name": "B", "artists": [{"name": "Y"}], "album": {"images": []}, "preview_url": null}
		]}`))
	}))
	defer ts.Close()

	seeds := []string{"s1", "s2", "s3", "s4", "s5", "s6"}
	tracks, err := newTestClient(ts).Recommendations(context.Background(), seeds, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("tracks: got %d, want 2", len(tracks))
	}
	if tracks[0].ID != "a" || tracks[0].PreviewURL != "http://p/a" || tracks[1].PreviewURL != "" {
		t.Errorf("unexpected mapping: %+v", tracks)
	}
	if gotQuery["seed_tracks"] != "s1,s2,s3,s4,s5" {
		t.Errorf("seed_tracks: got %q, want at most five seeds", gotQuery["seed_tracks"])
	}
	if gotQuery["limit"] != "10" || gotQuery["market"] != "US" {
		t.Errorf("unexpected query: %v", gotQuery)
	}
}

func TestRecommendationsRequiresSeeds(t *testing.T) {
	c := spotify.NewClient(nil, spotify.Config{BaseURL: "http://127.0.0.1:0"})
	if _, err := c.Recommendations(context.Background(), nil, 5); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestAudioFeatures(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		statusCode int
		want       domain.Features
		expectErr  error
	}{
		{
			name:       "full payload",
			statusCode: http.StatusOK,
			response:   `{"danceability": 0.8, "energy": 0.6, "valence": 0.3, "tempo": 128.5, "key": 5}`,
			want: domain.Features{
				domain.FeatureDanceability: 0.8,
				domain.FeatureEnergy:       0.6,
				domain.FeatureValence:      0.3,
				domain.FeatureTempo:        128.5,
			},
		},
		{
			name:       "partial payload keeps only present fields",
			statusCode: http.StatusOK,
			response:   `{"energy": 0.9, "valence": null}`,
			want:       domain.Features{domain.FeatureEnergy: 0.9},
		},
		{
			name:       "null body",
			statusCode: http.StatusOK,
			response:   `null`,
			want:       nil,
		},
		{
			name:       "unknown track",
			statusCode: http.StatusNotFound,
			response:   `{"error": {"status": 404}}`,
			expectErr:  domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/audio-features/t1" {
					t.Errorf("Expected URL path /audio-features/t1, got %s", r.URL.Path)
				}
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.response))
			}))
			defer ts.Close()

			got, err := newTestClient(ts).AudioFeatures(context.Background(), "t1")
			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Fatalf("expected error %v, got %v", tt.expectErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("features: got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("feature %s: got %v, want %v", k, got[k], v)
				}
			}
			if tt.want == nil && got != nil {
				t.Errorf("expected nil features, got %v", got)
			}
		})
	}
}

func TestNewAuthenticatedHTTPClient(t *testing.T) {
	if _, err := spotify.NewAuthenticatedHTTPClient(context.Background(), "", "secret", "", 0); err == nil {
		t.Fatalf("expected error for missing client id")
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token": "abc", "token_type": "Bearer", "expires_in": 3600}`))
		case "/search":
			if got := r.Header.Get("Authorization"); got != "Bearer abc" {
				t.Errorf("Authorization: got %q", got)
			}
			w.Write([]byte(`{"tracks": {"items": [{"id": "1", "name": "T", "artists": [], "album": {"images": []}}]}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	hc, err := spotify.NewAuthenticatedHTTPClient(context.Background(), "id", "secret", ts.URL+"/token", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := spotify.NewClient(hc, spotify.Config{BaseURL: ts.URL})
	if _, err := c.SearchTrack(context.Background(), "anything"); err != nil {
		t.Fatalf("search with token: %v", err)
	}
}
