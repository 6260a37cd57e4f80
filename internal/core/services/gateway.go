package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
	"github.com/ewilliams-labs/aidj/backend/internal/core/ports"
	"github.com/ewilliams-labs/aidj/backend/internal/logging"
	"github.com/ewilliams-labs/aidj/backend/internal/metrics"
)

// DefaultRecommendationLimit is used when callers pass a non-positive limit.
const DefaultRecommendationLimit = 10

var errMalformedTrack = errors.New("service: catalog track without id")

// BreakerConfig controls when provider calls are short-circuited.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval clears failure counts while closed; 0 never clears.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// FailureThreshold is the number of consecutive faults that opens the breaker.
	FailureThreshold uint32
}

// DefaultBreakerConfig opens after 5 consecutive faults and half-opens after 30s.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// Gateway fronts the catalog provider with a durable cache and a built-in
// fallback track set. None of its exported methods report errors: provider
// and storage faults are logged and converted to empty or fallback results.
type Gateway struct {
	provider ports.CatalogProvider
	cache    ports.DocumentStore

	// catalog guards search and candidate generation; features has its own
	// breaker so a failing features endpoint cannot block searches.
	catalog  *gobreaker.CircuitBreaker[any]
	features *gobreaker.CircuitBreaker[any]

	fallback []domain.Track

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewGateway wires a provider and a cache store. cache may be nil to disable caching.
func NewGateway(provider ports.CatalogProvider, cache ports.DocumentStore, cfg BreakerConfig) *Gateway {
	return &Gateway{
		provider: provider,
		cache:    cache,
		catalog:  newBreaker("catalog", cfg),
		features: newBreaker("audio-features", cfg),
		fallback: FallbackTracks(),
		// #nosec G404 -- fallback sampling, not security-sensitive
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func newBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker[any] {
	def := DefaultBreakerConfig()
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// An empty search result is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("catalog gateway: breaker state change")
		},
	})
}

func callProvider[T any](cb *gobreaker.CircuitBreaker[any], fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

// SearchTrack resolves a free-text query to a single track. Cached results are
// returned verbatim without contacting the provider. It returns false when the
// query matched nothing or the provider failed.
func (g *Gateway) SearchTrack(ctx context.Context, query string) (domain.Track, bool) {
	if strings.TrimSpace(query) == "" {
		return domain.Track{}, false
	}

	key := SearchCacheKey(query)
	var cached domain.Track
	if g.readCache(ctx, "search", key, &cached) {
		return cached, true
	}

	track, err := callProvider(g.catalog, func() (domain.Track, error) {
		return g.provider.SearchTrack(ctx, query)
	})
	if errors.Is(err, domain.ErrNotFound) {
		logging.Ctx(ctx).Debug().Str("query", query).Msg("catalog gateway: no track matched")
		return domain.Track{}, false
	}
	if err != nil {
		metrics.ProviderErrors.WithLabelValues("search").Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("query", query).Msg("catalog gateway: search failed")
		return domain.Track{}, false
	}

	track, err = g.assemble(ctx, track)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("query", query).Msg("catalog gateway: search returned unusable track")
		return domain.Track{}, false
	}

	g.writeCache(ctx, key, track)
	return track, true
}

// GetRecommendations expands seed track IDs into candidate tracks with
// features. Tracks without a preview are dropped. When there are no seeds, the
// provider fails, or nothing usable comes back, a fallback list is returned
// and is never cached.
func (g *Gateway) GetRecommendations(ctx context.Context, seedIDs []string, limit int) []domain.Track {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	seeds := make([]string, 0, len(seedIDs))
	for _, id := range seedIDs {
		if id = strings.TrimSpace(id); id != "" {
			seeds = append(seeds, id)
		}
	}
	if len(seeds) == 0 {
		return g.fallbackRecommendations(ctx, limit, "no_seeds")
	}

	key := RecommendationsCacheKey(seeds)
	var cached []domain.Track
	if g.readCache(ctx, "recs", key, &cached) && len(cached) > 0 {
		return cached
	}

	if len(seeds) > maxProviderSeedIDs {
		seeds = seeds[:maxProviderSeedIDs]
	}
	candidates, err := callProvider(g.catalog, func() ([]domain.Track, error) {
		return g.provider.Recommendations(ctx, seeds, limit)
	})
	if err != nil {
		metrics.ProviderErrors.WithLabelValues("recommendations").Inc()
		logging.Ctx(ctx).Warn().Err(err).Strs("seeds", seeds).Msg("catalog gateway: recommendations failed")
		return g.fallbackRecommendations(ctx, limit, "provider_error")
	}

	tracks := make([]domain.Track, 0, len(candidates))
	for _, c := range candidates {
		if !c.HasPreview() {
			continue
		}
		t, err := g.assemble(ctx, c)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("track_id", c.ID).Msg("catalog gateway: skipping track")
			continue
		}
		tracks = append(tracks, t)
	}

	if len(tracks) == 0 {
		return g.fallbackRecommendations(ctx, limit, "no_usable_tracks")
	}

	g.writeCache(ctx, key, tracks)
	return tracks
}

// GetFeatures fetches the audio features for one track, defaulting each
// missing field and returning the neutral vector on any failure.
func (g *Gateway) GetFeatures(ctx context.Context, trackID string) domain.AudioFeatures {
	observed, err := callProvider(g.features, func() (domain.Features, error) {
		return g.provider.AudioFeatures(ctx, trackID)
	})
	if err != nil {
		metrics.ProviderErrors.WithLabelValues("audio_features").Inc()
		logging.Ctx(ctx).Debug().Err(err).Str("track_id", trackID).Msg("catalog gateway: using default features")
		return domain.DefaultAudioFeatures()
	}
	return domain.NewAudioFeatures(observed)
}

func (g *Gateway) assemble(ctx context.Context, t domain.Track) (domain.Track, error) {
	if strings.TrimSpace(t.ID) == "" {
		return domain.Track{}, fmt.Errorf("%w (title %q)", errMalformedTrack, t.Title)
	}
	t.Features = g.GetFeatures(ctx, t.ID)
	return t, nil
}

func (g *Gateway) fallbackRecommendations(ctx context.Context, limit int, reason string) []domain.Track {
	metrics.CatalogFallbacks.WithLabelValues(reason).Inc()

	n := min(limit, len(g.fallback))
	g.rngMu.Lock()
	order := g.rng.Perm(len(g.fallback))[:n]
	g.rngMu.Unlock()

	tracks := make([]domain.Track, 0, n)
	for _, i := range order {
		t := g.fallback[i]
		t.Features = g.GetFeatures(ctx, t.ID)
		tracks = append(tracks, t)
	}
	return tracks
}

func (g *Gateway) readCache(ctx context.Context, kind, key string, dst any) bool {
	if g.cache == nil {
		return false
	}

	data, err := g.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			metrics.PersistenceErrors.WithLabelValues("cache_read").Inc()
			logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("catalog gateway: cache read failed")
		}
		metrics.CatalogCacheLookups.WithLabelValues(kind, "miss").Inc()
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		metrics.PersistenceErrors.WithLabelValues("cache_decode").Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("catalog gateway: ignoring corrupt cache entry")
		metrics.CatalogCacheLookups.WithLabelValues(kind, "miss").Inc()
		return false
	}

	metrics.CatalogCacheLookups.WithLabelValues(kind, "hit").Inc()
	return true
}

func (g *Gateway) writeCache(ctx context.Context, key string, v any) {
	if g.cache == nil {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		metrics.PersistenceErrors.WithLabelValues("cache_encode").Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("catalog gateway: cache encode failed")
		return
	}
	if err := g.cache.Put(ctx, key, data); err != nil {
		metrics.PersistenceErrors.WithLabelValues("cache_write").Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("catalog gateway: cache write failed")
	}
}
