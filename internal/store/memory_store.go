package store

import (
	"sort"
	"sync"
	"time"

	"academy-match-service/internal/domain"
)

// defaultTombstoneTTL covers at least one poll cycle so a snapshot fetched
// before a delete landed upstream cannot resurrect the deleted entity.
const defaultTombstoneTTL = 30 * time.Second

// MemoryStore keeps a thread-safe snapshot of match requests in memory.
// Deleted ids are tombstoned for a grace window and filtered out of
// reconciliation payloads until it elapses.
type MemoryStore struct {
	mu         sync.RWMutex
	requests   map[string]domain.MatchRequest
	tombstones map[string]time.Time
	ttl        time.Duration
	now        func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore with the default grace window.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithTTL(defaultTombstoneTTL)
}

// NewMemoryStoreWithTTL constructs a MemoryStore with a custom tombstone window.
func NewMemoryStoreWithTTL(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = defaultTombstoneTTL
	}
	return &MemoryStore{
		requests:   make(map[string]domain.MatchRequest),
		tombstones: make(map[string]time.Time),
		ttl:        ttl,
		now:        time.Now,
	}
}

// List returns a copy of the current requests, ordered by creation time then id.
func (s *MemoryStore) List() []domain.MatchRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.MatchRequest, 0, len(s.requests))
	for _, r := range s.requests {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Get retrieves a request by ID.
func (s *MemoryStore) Get(id string) (domain.MatchRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requests[id]
	return r, ok
}

// Replace swaps the snapshot wholesale with a reconciled payload. Entities
// whose ids carry a live tombstone are skipped; expired tombstones are pruned.
func (s *MemoryStore) Replace(requests []domain.MatchRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, deletedAt := range s.tombstones {
		if now.Sub(deletedAt) > s.ttl {
			delete(s.tombstones, id)
		}
	}

	s.requests = make(map[string]domain.MatchRequest, len(requests))
	for _, r := range requests {
		if _, dead := s.tombstones[r.ID]; dead {
			continue
		}
		s.requests[r.ID] = r
	}
}

// Apply upserts a single entity (optimistic local edit).
func (s *MemoryStore) Apply(request domain.MatchRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dead := s.tombstones[request.ID]; dead {
		return
	}
	s.requests[request.ID] = request
}

// Remove deletes an entity and tombstones its id for the grace window.
func (s *MemoryStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.requests, id)
	s.tombstones[id] = s.now()
}

// Len reports the number of stored requests.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.requests)
}
