package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
)

// Orchestrator coordinates the catalog gateway and the adaptive recommender
// for the driving adapters (HTTP, CLI).
type Orchestrator struct {
	catalog     *Gateway
	recommender *Recommender
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(catalog *Gateway, recommender *Recommender) *Orchestrator {
	return &Orchestrator{
		catalog:     catalog,
		recommender: recommender,
	}
}

// Discovery is the result of resolving a seed query into recommendations.
type Discovery struct {
	Seed            domain.Track   `json:"seed"`
	Recommendations []domain.Track `json:"recommendations"`
	// Pick is the recommender's choice among Recommendations, if a user was given.
	Pick *domain.Track `json:"pick,omitempty"`
}

// SearchTrack resolves a query to a track or returns domain.ErrNotFound.
func (o *Orchestrator) SearchTrack(ctx context.Context, query string) (domain.Track, error) {
	if strings.TrimSpace(query) == "" {
		return domain.Track{}, fmt.Errorf("service: %w: query cannot be empty", domain.ErrInvalidArgument)
	}
	track, ok := o.catalog.SearchTrack(ctx, query)
	if !ok {
		return domain.Track{}, fmt.Errorf("service: song %q: %w", query, domain.ErrNotFound)
	}
	return track, nil
}

// Recommendations returns candidates for the seeds, or the fallback list.
func (o *Orchestrator) Recommendations(ctx context.Context, seedIDs []string, limit int) []domain.Track {
	return o.catalog.GetRecommendations(ctx, seedIDs, limit)
}

// Select lets the recommender choose among candidates for a user.
func (o *Orchestrator) Select(ctx context.Context, userID string, candidates []domain.Track) (domain.Track, bool) {
	return o.recommender.Select(ctx, userID, candidates)
}

// Discover runs the full flow: search the seed, expand it into candidates and,
// when userID is set, let the recommender pick one of them.
func (o *Orchestrator) Discover(ctx context.Context, userID, query string, limit int) (Discovery, error) {
	seed, err := o.SearchTrack(ctx, query)
	if err != nil {
		return Discovery{}, err
	}

	d := Discovery{
		Seed:            seed,
		Recommendations: o.catalog.GetRecommendations(ctx, []string{seed.ID}, limit),
	}
	if userID != "" {
		if pick, ok := o.recommender.Select(ctx, userID, d.Recommendations); ok {
			d.Pick = &pick
		}
	}
	return d, nil
}

// RecordFeedback validates caller input and hands the event to the recommender.
// Only input errors are returned; learning and persistence never fail the call.
func (o *Orchestrator) RecordFeedback(ctx context.Context, userID, trackID string, features domain.Features, feedback string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("service: %w: user id cannot be empty", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(trackID) == "" {
		return fmt.Errorf("service: %w: track id cannot be empty", domain.ErrInvalidArgument)
	}
	fb, err := domain.ParseFeedback(feedback)
	if err != nil {
		return fmt.Errorf("service: %w", err)
	}

	o.recommender.Update(ctx, userID, trackID, features, fb)
	return nil
}

// Profile returns the user's profile, loading it from storage when it is not
// in memory yet. It returns domain.ErrNotFound for unknown users.
func (o *Orchestrator) Profile(ctx context.Context, userID string) (domain.UserProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.UserProfile{}, fmt.Errorf("service: %w: user id cannot be empty", domain.ErrInvalidArgument)
	}
	o.recommender.ensureProfile(ctx, userID)
	p, ok := o.recommender.Profile(userID)
	if !ok {
		return domain.UserProfile{}, fmt.Errorf("service: profile %q: %w", userID, domain.ErrNotFound)
	}
	return p, nil
}
