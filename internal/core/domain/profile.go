package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Feedback is an explicit reaction to a recommended track.
type Feedback string

const (
	FeedbackLike    Feedback = "like"
	FeedbackDislike Feedback = "dislike"
)

// Preference step sizes applied to the profile per feedback event.
const (
	likeWeight    = 0.1
	dislikeWeight = -0.05
)

// ParseFeedback validates a raw feedback value.
func ParseFeedback(raw string) (Feedback, error) {
	switch fb := Feedback(strings.ToLower(strings.TrimSpace(raw))); fb {
	case FeedbackLike, FeedbackDislike:
		return fb, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFeedback, raw)
	}
}

// Valid reports whether fb is like or dislike.
func (fb Feedback) Valid() bool {
	return fb == FeedbackLike || fb == FeedbackDislike
}

// Reward is +1 for a like and -1 for a dislike.
func (fb Feedback) Reward() float64 {
	if fb == FeedbackLike {
		return 1
	}
	return -1
}

func (fb Feedback) preferenceWeight() float64 {
	if fb == FeedbackLike {
		return likeWeight
	}
	return dislikeWeight
}

// PreferenceVector holds the bounded features a profile adapts. Tempo is not tracked.
type PreferenceVector struct {
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	Valence      float64 `json:"valence"`
}

// FeedbackEvent is one entry of a profile's append-only history.
type FeedbackEvent struct {
	ID         string    `json:"id"`
	TrackID    string    `json:"track_id"`
	Feedback   Feedback  `json:"feedback"`
	Reward     float64   `json:"reward"`
	Features   Features  `json:"features,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// NewFeedbackEvent stamps a feedback event with a fresh ID.
func NewFeedbackEvent(trackID string, fb Feedback, observed Features, at time.Time) FeedbackEvent {
	return FeedbackEvent{
		ID:         uuid.NewString(),
		TrackID:    trackID,
		Feedback:   fb,
		Reward:     fb.Reward(),
		Features:   observed.Clone(),
		RecordedAt: at.UTC(),
	}
}

// UserProfile is the adaptive state owned by a single user.
type UserProfile struct {
	UserID            string           `json:"user_id"`
	PreferredFeatures PreferenceVector `json:"preferred_features"`
	// FeedbackHistory is written on every update but has no reader yet.
	FeedbackHistory []FeedbackEvent `json:"feedback_history"`
}

// NewUserProfile returns a profile at the neutral starting point.
func NewUserProfile(userID string) UserProfile {
	return UserProfile{
		UserID: userID,
		PreferredFeatures: PreferenceVector{
			Danceability: DefaultDanceability,
			Energy:       DefaultEnergy,
			Valence:      DefaultValence,
		},
		FeedbackHistory: []FeedbackEvent{},
	}
}

// Context derives the coarse bucket key for the profile's current preferences.
func (p UserProfile) Context() ContextKey {
	return NewContextKey(p.PreferredFeatures)
}

// ApplyFeedback moves the preferred features and appends the event to history.
//
// Each bounded feature becomes clamp(pref + weight*observed, 0, 1) where weight is
// +0.1 for a like and -0.05 for a dislike. A feature missing from observed is read
// as the current preference, so the step scales with the preference itself.
func (p *UserProfile) ApplyFeedback(ev FeedbackEvent) {
	weight := ev.Feedback.preferenceWeight()
	pf := &p.PreferredFeatures
	pf.Danceability = shiftPreference(pf.Danceability, weight, ev.Features, FeatureDanceability)
	pf.Energy = shiftPreference(pf.Energy, weight, ev.Features, FeatureEnergy)
	pf.Valence = shiftPreference(pf.Valence, weight, ev.Features, FeatureValence)
	p.FeedbackHistory = append(p.FeedbackHistory, ev)
}

// Clone returns a deep copy safe to hand to another goroutine.
func (p UserProfile) Clone() UserProfile {
	out := p
	out.FeedbackHistory = make([]FeedbackEvent, len(p.FeedbackHistory))
	for i, ev := range p.FeedbackHistory {
		ev.Features = ev.Features.Clone()
		out.FeedbackHistory[i] = ev
	}
	return out
}

func shiftPreference(current, weight float64, observed Features, name string) float64 {
	value, ok := observed[name]
	if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
		value = current
	}
	return clamp(current+weight*value, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ContextKey identifies one of the 11x11x11 preference buckets, e.g. "d5_e5_v5".
type ContextKey string

// NewContextKey buckets each preference with floor(value*10), clamped to [0,10].
func NewContextKey(pv PreferenceVector) ContextKey {
	return ContextKey(fmt.Sprintf("d%d_e%d_v%d",
		Bucket(pv.Danceability), Bucket(pv.Energy), Bucket(pv.Valence)))
}

// Bucket maps a [0,1] feature value onto its decile index.
func Bucket(value float64) int {
	if math.IsNaN(value) {
		return 0
	}
	b := math.Floor(value * 10)
	if b < 0 {
		return 0
	}
	if b > 10 {
		return 10
	}
	return int(b)
}
