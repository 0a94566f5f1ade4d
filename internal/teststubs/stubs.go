package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"academy-match-service/internal/domain"
)

// StubProvider is a test double for providers.MatchProvider.
type StubProvider struct {
	mu      sync.Mutex
	Matches []domain.MatchRequest
	Err     error

	// Release, when non-nil, blocks FetchMatches until closed. Used to test
	// teardown with a fetch still in flight.
	Release chan struct{}
	// Notify is closed on the first FetchMatches call.
	Notify chan struct{}

	FetchCalls  atomic.Int32
	StatusCalls atomic.Int32
	AcceptCalls atomic.Int32
	FinishCalls atomic.Int32
	CreateCalls atomic.Int32
	DeleteCalls atomic.Int32

	// MutateErr fails all mutating calls when set.
	MutateErr error
	// Created records the drafts passed to CreateMatch.
	Created []domain.Draft
	// Deleted records ids passed to DeleteMatch.
	Deleted []string
	// LastIdempotencyKey records the key of the last CreateMatch call.
	LastIdempotencyKey string
}

// SetMatches swaps the snapshot the provider returns.
func (s *StubProvider) SetMatches(matches []domain.MatchRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Matches = matches
}

// SetErr swaps the list error.
func (s *StubProvider) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Err = err
}

// FetchMatches returns configured matches and error while tracking calls.
func (s *StubProvider) FetchMatches(ctx context.Context) ([]domain.MatchRequest, error) {
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.FetchCalls.Add(1)
	if s.Release != nil {
		select {
		case <-s.Release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.MatchRequest(nil), s.Matches...), s.Err
}

// CreateMatch records the draft and fabricates a created entity.
func (s *StubProvider) CreateMatch(ctx context.Context, draft domain.Draft, creator domain.Actor, idempotencyKey string) (domain.MatchRequest, error) {
	s.CreateCalls.Add(1)
	if s.MutateErr != nil {
		return domain.MatchRequest{}, s.MutateErr
	}
	s.mu.Lock()
	s.Created = append(s.Created, draft)
	s.LastIdempotencyKey = idempotencyKey
	s.mu.Unlock()
	return domain.MatchRequest{
		ID:          "created-1",
		CreatorID:   string(creator),
		AgeGroups:   domain.NormalizeAgeGroups(draft.AgeGroups),
		ScheduledAt: draft.ScheduledAt,
		Venue:       draft.Venue,
		Status:      domain.StatusAvailable,
	}, nil
}

// AcceptMatch echoes an accepted entity.
func (s *StubProvider) AcceptMatch(ctx context.Context, id string, actor domain.Actor) (domain.MatchRequest, error) {
	s.AcceptCalls.Add(1)
	if s.MutateErr != nil {
		return domain.MatchRequest{}, s.MutateErr
	}
	return s.withStatus(id, domain.StatusConfirmed, string(actor)), nil
}

// FinishMatch echoes a finished entity.
func (s *StubProvider) FinishMatch(ctx context.Context, id string, actor domain.Actor) (domain.MatchRequest, error) {
	s.FinishCalls.Add(1)
	if s.MutateErr != nil {
		return domain.MatchRequest{}, s.MutateErr
	}
	return s.withStatus(id, domain.StatusFinished, ""), nil
}

// UpdateMatchStatus echoes the entity with the requested status.
func (s *StubProvider) UpdateMatchStatus(ctx context.Context, id string, status domain.Status, actor domain.Actor) (domain.MatchRequest, error) {
	s.StatusCalls.Add(1)
	if s.MutateErr != nil {
		return domain.MatchRequest{}, s.MutateErr
	}
	acceptedBy := ""
	if status == domain.StatusConfirmed {
		acceptedBy = "arranged-opponent"
	}
	return s.withStatus(id, status, acceptedBy), nil
}

// DeleteMatch records the deletion.
func (s *StubProvider) DeleteMatch(ctx context.Context, id string, actor domain.Actor) error {
	s.DeleteCalls.Add(1)
	if s.MutateErr != nil {
		return s.MutateErr
	}
	s.mu.Lock()
	s.Deleted = append(s.Deleted, id)
	s.mu.Unlock()
	return nil
}

func (s *StubProvider) withStatus(id string, status domain.Status, acceptedBy string) domain.MatchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.Matches {
		if m.ID == id {
			m.Status = status
			if acceptedBy != "" {
				m.AcceptedBy = acceptedBy
			}
			return m
		}
	}
	return domain.MatchRequest{ID: id, Status: status, AcceptedBy: acceptedBy}
}

// StubNotifier records change notifications.
type StubNotifier struct {
	mu       sync.Mutex
	Payloads [][]domain.MatchRequest
}

// NotifyChanged appends the payload for verification in tests.
func (n *StubNotifier) NotifyChanged(requests []domain.MatchRequest) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Payloads = append(n.Payloads, requests)
}

// Count reports how many notifications fired.
func (n *StubNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Payloads)
}
