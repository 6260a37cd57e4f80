package services

import (
	"context"
	"errors"
	"sync"

	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
)

// --- Mocks ---

// mockCatalog is a scriptable catalog provider that counts calls.
type mockCatalog struct {
	searchTrack domain.Track
	searchErr   error

	recs    []domain.Track
	recsErr error

	features    map[string]domain.Features
	featuresErr error

	searchCalls   int
	recsCalls     int
	featuresCalls int
	lastSeeds     []string
	lastLimit     int
}

func (m *mockCatalog) SearchTrack(ctx context.Context, query string) (domain.Track, error) {
	m.searchCalls++
	if m.searchErr != nil {
		return domain.Track{}, m.searchErr
	}
	return m.searchTrack, nil
}

func (m *mockCatalog) Recommendations(ctx context.Context, seedIDs []string, limit int) ([]domain.Track, error) {
	m.recsCalls++
	m.lastSeeds = append([]string(nil), seedIDs...)
	m.lastLimit = limit
	if m.recsErr != nil {
		return nil, m.recsErr
	}
	return m.recs, nil
}

func (m *mockCatalog) AudioFeatures(ctx context.Context, trackID string) (domain.Features, error) {
	m.featuresCalls++
	if m.featuresErr != nil {
		return nil, m.featuresErr
	}
	return m.features[trackID], nil
}

// mockDocStore is an in-memory document store with injectable failures.
type mockDocStore struct {
	mu     sync.Mutex
	docs   map[string][]byte
	getErr error
	putErr error
	puts   int
}

func newMockDocStore() *mockDocStore {
	return &mockDocStore{docs: make(map[string][]byte)}
}

func (m *mockDocStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	doc, ok := m.docs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (m *mockDocStore) Put(ctx context.Context, key string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.puts++
	m.docs[key] = append([]byte(nil), doc...)
	return nil
}

func (m *mockDocStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.docs[key]
	return ok
}

// mockProfileStore captures saved profiles and serves them back on load.
type mockProfileStore struct {
	profiles map[string]domain.UserProfile
	loadErr  error
	saveErr  error
	saved    []domain.UserProfile
}

func (m *mockProfileStore) LoadProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	if m.loadErr != nil {
		return domain.UserProfile{}, m.loadErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return domain.UserProfile{}, domain.ErrNotFound
	}
	return p.Clone(), nil
}

func (m *mockProfileStore) SaveProfile(ctx context.Context, p domain.UserProfile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, p)
	if m.profiles == nil {
		m.profiles = make(map[string]domain.UserProfile)
	}
	m.profiles[p.UserID] = p.Clone()
	return nil
}

var errProviderDown = errors.New("provider unavailable")
