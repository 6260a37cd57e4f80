package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
	"github.com/ewilliams-labs/aidj/backend/internal/core/ports"
	"github.com/ewilliams-labs/aidj/backend/internal/logging"
	"github.com/ewilliams-labs/aidj/backend/internal/metrics"
)

// Default policy hyperparameters.
const (
	DefaultLearningRate = 0.1
	DefaultExploration  = 0.2
)

var errMissingCandidateID = errors.New("service: candidate without id")

// RecommenderConfig tunes the epsilon-greedy policy.
type RecommenderConfig struct {
	// LearningRate (alpha) is the step size of the incremental value average.
	LearningRate float64
	// Exploration (epsilon) is the probability of a uniformly random pick.
	Exploration float64
	// ValueTableSize caps the number of (context, track) estimates held.
	ValueTableSize int
}

// DefaultRecommenderConfig returns alpha 0.1, epsilon 0.2.
func DefaultRecommenderConfig() RecommenderConfig {
	return RecommenderConfig{
		LearningRate:   DefaultLearningRate,
		Exploration:    DefaultExploration,
		ValueTableSize: DefaultValueTableSize,
	}
}

// Recommender is the adaptive per-user policy: it keeps one profile per user
// and one value table shared by everyone, picks among candidates with an
// epsilon-greedy rule, and learns from like/dislike feedback.
type Recommender struct {
	mu       sync.Mutex
	profiles map[string]*domain.UserProfile
	values   *ValueTable
	store    ports.ProfileStore
	cfg      RecommenderConfig
	rng      *rand.Rand
	now      func() time.Time
}

// NewRecommender builds a recommender. store may be nil, in which case
// profiles live only in memory.
func NewRecommender(store ports.ProfileStore, cfg RecommenderConfig) (*Recommender, error) {
	if cfg.LearningRate <= 0 || cfg.LearningRate > 1 {
		cfg.LearningRate = DefaultLearningRate
	}
	if cfg.Exploration < 0 || cfg.Exploration > 1 {
		cfg.Exploration = DefaultExploration
	}

	values, err := NewValueTable(cfg.ValueTableSize)
	if err != nil {
		return nil, err
	}

	return &Recommender{
		profiles: make(map[string]*domain.UserProfile),
		values:   values,
		store:    store,
		cfg:      cfg,
		// #nosec G404 -- exploration draws, not security-sensitive
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}, nil
}

// Update applies one feedback event for userID on trackID. A user not yet in
// memory is first loaded from the profile store, so feedback after a restart
// extends the persisted profile instead of replacing it.
//
// It never reports failure: invalid input and storage faults are logged, and
// the in-memory profile and value changes stand even when persisting fails.
func (r *Recommender) Update(ctx context.Context, userID, trackID string, features domain.Features, fb domain.Feedback) {
	if userID != "" && fb.Valid() {
		r.ensureProfile(ctx, userID)
	}

	snapshot, err := r.update(userID, trackID, features, fb)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Str("track_id", trackID).Msg("recommender: feedback rejected")
		return
	}
	metrics.FeedbackEvents.WithLabelValues(string(fb)).Inc()

	if r.store == nil {
		return
	}
	if err := r.store.SaveProfile(ctx, snapshot); err != nil {
		metrics.PersistenceErrors.WithLabelValues("save_profile").Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("recommender: failed to save profile")
	}
}

func (r *Recommender) update(userID, trackID string, features domain.Features, fb domain.Feedback) (domain.UserProfile, error) {
	if userID == "" {
		return domain.UserProfile{}, fmt.Errorf("%w: empty user id", domain.ErrInvalidArgument)
	}
	if !fb.Valid() {
		return domain.UserProfile{}, fmt.Errorf("%w: %q", domain.ErrInvalidFeedback, fb)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	profile := r.profileLocked(userID)

	// The context comes from the profile as it was before this feedback.
	ctxKey := profile.Context()
	old := r.values.Get(ctxKey, trackID)
	r.values.Set(ctxKey, trackID, old+r.cfg.LearningRate*(fb.Reward()-old))

	profile.ApplyFeedback(domain.NewFeedbackEvent(trackID, fb, features, r.now()))

	return profile.Clone(), nil
}

func (r *Recommender) profileLocked(userID string) *domain.UserProfile {
	if p, ok := r.profiles[userID]; ok {
		return p
	}
	p := domain.NewUserProfile(userID)
	r.profiles[userID] = &p
	return &p
}

// Select picks one candidate for userID. A user not yet in memory is loaded
// from the profile store first. With probability epsilon, or when the user has
// no profile at all, the pick is uniformly random; otherwise it is the
// candidate with the highest value in the user's context, ties going to the
// earliest candidate. It returns false only when candidates is empty.
func (r *Recommender) Select(ctx context.Context, userID string, candidates []domain.Track) (pick domain.Track, ok bool) {
	if len(candidates) == 0 {
		return domain.Track{}, false
	}

	r.ensureProfile(ctx, userID)

	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if rec := recover(); rec != nil {
			logging.Ctx(ctx).Error().Interface("panic", rec).Str("user_id", userID).Msg("recommender: select recovered")
			metrics.Selections.WithLabelValues("recovered").Inc()
			pick, ok = candidates[r.rng.Intn(len(candidates))], true
		}
	}()

	idx, mode, err := r.selectLocked(userID, candidates)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("recommender: select fell back to random")
		idx, mode = r.rng.Intn(len(candidates)), "recovered"
	}
	metrics.Selections.WithLabelValues(mode).Inc()
	return candidates[idx], true
}

func (r *Recommender) selectLocked(userID string, candidates []domain.Track) (int, string, error) {
	profile, known := r.profiles[userID]
	if !known || r.rng.Float64() < r.cfg.Exploration {
		return r.rng.Intn(len(candidates)), "explore", nil
	}

	ctxKey := profile.Context()
	best, bestValue := 0, 0.0
	for i, c := range candidates {
		if c.ID == "" {
			return 0, "", fmt.Errorf("%w at position %d", errMissingCandidateID, i)
		}
		v := r.values.Get(ctxKey, c.ID)
		if i == 0 || v > bestValue {
			best, bestValue = i, v
		}
	}
	return best, "exploit", nil
}

// LoadProfile replaces the in-memory profile for userID with the persisted one.
// It returns false when nothing could be loaded; callers treat the user as new.
func (r *Recommender) LoadProfile(ctx context.Context, userID string) bool {
	p, ok := r.fetchProfile(ctx, userID)
	if !ok {
		return false
	}

	r.mu.Lock()
	r.profiles[userID] = &p
	r.mu.Unlock()
	return true
}

// ensureProfile loads userID from the store unless it is already in memory.
// A profile created concurrently while the store was being read wins over the
// loaded one.
func (r *Recommender) ensureProfile(ctx context.Context, userID string) {
	if r.store == nil || userID == "" {
		return
	}

	r.mu.Lock()
	_, known := r.profiles[userID]
	r.mu.Unlock()
	if known {
		return
	}

	p, ok := r.fetchProfile(ctx, userID)
	if !ok {
		return
	}

	r.mu.Lock()
	if _, known := r.profiles[userID]; !known {
		r.profiles[userID] = &p
	}
	r.mu.Unlock()
}

func (r *Recommender) fetchProfile(ctx context.Context, userID string) (domain.UserProfile, bool) {
	if r.store == nil || userID == "" {
		return domain.UserProfile{}, false
	}

	p, err := r.store.LoadProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			metrics.PersistenceErrors.WithLabelValues("load_profile").Inc()
			logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("recommender: failed to load profile")
		}
		return domain.UserProfile{}, false
	}
	p.UserID = userID
	if p.FeedbackHistory == nil {
		p.FeedbackHistory = []domain.FeedbackEvent{}
	}
	return p, true
}

// Profile returns a copy of the in-memory profile for userID.
func (r *Recommender) Profile(userID string) (domain.UserProfile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		return domain.UserProfile{}, false
	}
	return p.Clone(), true
}

func (r *Recommender) value(ctxKey domain.ContextKey, trackID string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values.Get(ctxKey, trackID)
}
