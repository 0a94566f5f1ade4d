package providers

import (
	"context"
	"log/slog"
	"time"

	"academy-match-service/internal/domain"
	"academy-match-service/internal/metrics"
)

// instrumentedProvider wraps a MatchProvider with per-call logging and metrics.
type instrumentedProvider struct {
	inner   MatchProvider
	name    string
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// NewInstrumentedProvider decorates a provider with call logging and recorder
// instrumentation under the given provider name.
func NewInstrumentedProvider(inner MatchProvider, name string, logger *slog.Logger, recorder *metrics.Recorder) MatchProvider {
	return &instrumentedProvider{
		inner:   inner,
		name:    name,
		logger:  logger,
		metrics: recorder,
	}
}

func (p *instrumentedProvider) FetchMatches(ctx context.Context) ([]domain.MatchRequest, error) {
	start := time.Now()
	matches, err := p.inner.FetchMatches(ctx)
	p.record(ctx, "fetch_matches", start, err, slog.Int("count", len(matches)))
	return matches, err
}

func (p *instrumentedProvider) CreateMatch(ctx context.Context, draft domain.Draft, creator domain.Actor, idempotencyKey string) (domain.MatchRequest, error) {
	start := time.Now()
	req, err := p.inner.CreateMatch(ctx, draft, creator, idempotencyKey)
	p.record(ctx, "create_match", start, err, slog.String("id", req.ID))
	return req, err
}

func (p *instrumentedProvider) AcceptMatch(ctx context.Context, id string, actor domain.Actor) (domain.MatchRequest, error) {
	start := time.Now()
	req, err := p.inner.AcceptMatch(ctx, id, actor)
	p.record(ctx, "accept_match", start, err, slog.String("id", id))
	return req, err
}

func (p *instrumentedProvider) FinishMatch(ctx context.Context, id string, actor domain.Actor) (domain.MatchRequest, error) {
	start := time.Now()
	req, err := p.inner.FinishMatch(ctx, id, actor)
	p.record(ctx, "finish_match", start, err, slog.String("id", id))
	return req, err
}

func (p *instrumentedProvider) UpdateMatchStatus(ctx context.Context, id string, status domain.Status, actor domain.Actor) (domain.MatchRequest, error) {
	start := time.Now()
	req, err := p.inner.UpdateMatchStatus(ctx, id, status, actor)
	p.record(ctx, "update_status", start, err, slog.String("id", id), slog.String("status", string(status)))
	return req, err
}

func (p *instrumentedProvider) DeleteMatch(ctx context.Context, id string, actor domain.Actor) error {
	start := time.Now()
	err := p.inner.DeleteMatch(ctx, id, actor)
	p.record(ctx, "delete_match", start, err, slog.String("id", id))
	return err
}

func (p *instrumentedProvider) record(ctx context.Context, op string, start time.Time, err error, attrs ...any) {
	duration := time.Since(start)
	if p.metrics != nil {
		p.metrics.RecordProviderAttempt(p.name, duration, err)
	}
	if p.logger == nil {
		return
	}
	args := append(attrs,
		slog.String("provider", p.name),
		slog.String("op", op),
		slog.Int64("duration_ms", duration.Milliseconds()),
	)
	if err != nil {
		args = append(args, "error", err)
		p.logger.Log(ctx, slog.LevelWarn, "provider call failed", args...)
		return
	}
	p.logger.Log(ctx, slog.LevelDebug, "provider call", args...)
}
