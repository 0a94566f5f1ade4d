package domain

// Store defines the contract for the in-memory match request snapshot.
type Store interface {
	List() []MatchRequest
	Get(id string) (MatchRequest, bool)
	Replace(requests []MatchRequest)
	Apply(request MatchRequest)
	Remove(id string)
}

// Service coordinates read and reconciliation access to the lifecycle store.
type Service struct {
	store Store
}

// NewService constructs a Service with the provided Store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Requests returns the current set of match requests.
func (s *Service) Requests() []MatchRequest {
	return s.store.List()
}

// RequestByID returns a single request if present.
func (s *Service) RequestByID(id string) (MatchRequest, bool) {
	return s.store.Get(id)
}

// Reconcile replaces the local snapshot with the latest authoritative payload
// from a poll tick. Optimistic edits not reflected upstream are overwritten;
// that is the whole point.
func (s *Service) Reconcile(requests []MatchRequest) {
	s.store.Replace(requests)
}

// ApplyOptimistic records a provisional local edit ahead of the next poll.
func (s *Service) ApplyOptimistic(request MatchRequest) {
	s.store.Apply(request)
}

// Drop removes an entity after the server acknowledged its deletion.
func (s *Service) Drop(id string) {
	s.store.Remove(id)
}
