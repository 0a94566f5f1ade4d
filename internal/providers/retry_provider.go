package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"academy-match-service/internal/domain"
	"academy-match-service/internal/logging"
)

const (
	defaultRetryAttempts   = 3
	defaultInitialInterval = 200 * time.Millisecond
)

// retryingProvider wraps the list path of a MatchProvider with exponential
// backoff. Mutating calls are passed through untouched: retrying a mutation
// risks double-applying it, and the next poll reconciles whatever landed.
type retryingProvider struct {
	inner       MatchProvider
	logger      *slog.Logger
	maxAttempts uint64
	initial     time.Duration
}

// NewRetryingProvider wraps the given provider with list-fetch retries.
// If maxAttempts/initial are <= 0, defaults are used.
func NewRetryingProvider(inner MatchProvider, logger *slog.Logger, maxAttempts int, initial time.Duration) MatchProvider {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if initial <= 0 {
		initial = defaultInitialInterval
	}
	return &retryingProvider{
		inner:       inner,
		logger:      logger,
		maxAttempts: uint64(maxAttempts),
		initial:     initial,
	}
}

func (r *retryingProvider) FetchMatches(ctx context.Context) ([]domain.MatchRequest, error) {
	if r.inner == nil {
		return nil, ErrProviderUnavailable
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.initial
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, r.maxAttempts-1), ctx)

	var matches []domain.MatchRequest
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		var fetchErr error
		matches, fetchErr = r.inner.FetchMatches(ctx)
		if fetchErr == nil {
			return nil
		}
		if !IsRetryable(fetchErr) {
			return backoff.Permanent(fetchErr)
		}
		r.logWarn(ctx, "match fetch retry", "attempt", attempt, "err", fetchErr)
		return fetchErr
	}, policy)
	if err != nil {
		r.logWarn(ctx, "match fetch failed", "attempts", attempt, "err", err)
		return nil, err
	}
	return matches, nil
}

func (r *retryingProvider) CreateMatch(ctx context.Context, draft domain.Draft, creator domain.Actor, idempotencyKey string) (domain.MatchRequest, error) {
	return r.inner.CreateMatch(ctx, draft, creator, idempotencyKey)
}

func (r *retryingProvider) AcceptMatch(ctx context.Context, id string, actor domain.Actor) (domain.MatchRequest, error) {
	return r.inner.AcceptMatch(ctx, id, actor)
}

func (r *retryingProvider) FinishMatch(ctx context.Context, id string, actor domain.Actor) (domain.MatchRequest, error) {
	return r.inner.FinishMatch(ctx, id, actor)
}

func (r *retryingProvider) UpdateMatchStatus(ctx context.Context, id string, status domain.Status, actor domain.Actor) (domain.MatchRequest, error) {
	return r.inner.UpdateMatchStatus(ctx, id, status, actor)
}

func (r *retryingProvider) DeleteMatch(ctx context.Context, id string, actor domain.Actor) error {
	return r.inner.DeleteMatch(ctx, id, actor)
}

func (r *retryingProvider) logWarn(ctx context.Context, msg string, args ...any) {
	logger := logging.FromContext(ctx, r.logger)
	if logger != nil {
		logger.Warn(msg, args...)
	}
}
