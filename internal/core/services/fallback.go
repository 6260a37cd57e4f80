package services

import "github.com/ewilliams-labs/aidj/backend/internal/core/domain"

// FallbackTracks returns the built-in list served when the catalog cannot
// produce recommendations. Image and preview references are left empty.
func FallbackTracks() []domain.Track {
	return []domain.Track{
		{ID: "06AKEBrKUckW0KREUWRnvT", Title: "Blinding Lights", Artist: "The Weeknd"},
		{ID: "7tFiyTwD0nx5a1eklYtX2J", Title: "Bohemian Rhapsody", Artist: "Queen"},
		{ID: "5Z9KJZvQzH6PFmb8SNkxuk", Title: "Stay", Artist: "The Kid LAROI, Justin Bieber"},
		{ID: "0GjEhVFGZW8afUYGChu3Rr", Title: "Dancing Queen", Artist: "ABBA"},
		{ID: "4PTG3Z6ehGkBFwjybzWkR8", Title: "Shape of You", Artist: "Ed Sheeran"},
	}
}
