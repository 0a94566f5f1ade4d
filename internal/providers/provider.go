package providers

import (
	"context"

	"academy-match-service/internal/domain"
)

// MatchLister defines how the authoritative match snapshot is fetched.
type MatchLister interface {
	FetchMatches(ctx context.Context) ([]domain.MatchRequest, error)
}

// MatchMutator covers the mutating hub operations. Every call returns the
// server's view of the entity; the server remains the final arbiter (first
// acceptor wins on races, transitions revalidated upstream).
type MatchMutator interface {
	CreateMatch(ctx context.Context, draft domain.Draft, creator domain.Actor, idempotencyKey string) (domain.MatchRequest, error)
	AcceptMatch(ctx context.Context, id string, actor domain.Actor) (domain.MatchRequest, error)
	FinishMatch(ctx context.Context, id string, actor domain.Actor) (domain.MatchRequest, error)
	UpdateMatchStatus(ctx context.Context, id string, status domain.Status, actor domain.Actor) (domain.MatchRequest, error)
	DeleteMatch(ctx context.Context, id string, actor domain.Actor) error
}

// MatchProvider combines the full hub capability set.
type MatchProvider interface {
	MatchLister
	MatchMutator
}
