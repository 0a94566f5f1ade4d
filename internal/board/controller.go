package board

import (
	"context"
	"log/slog"

	"academy-match-service/internal/domain"
	"academy-match-service/internal/logging"
	"academy-match-service/internal/metrics"
	"academy-match-service/internal/providers"
)

// Controller translates column moves into lifecycle transitions. The local
// edit is applied optimistically so the move shows with no visible latency;
// the hub call follows, and on failure the next poll corrects the board.
type Controller struct {
	svc     *domain.Service
	mutator providers.MatchMutator
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// NewController constructs a board Controller.
func NewController(svc *domain.Service, mutator providers.MatchMutator, logger *slog.Logger, recorder *metrics.Recorder) *Controller {
	return &Controller{
		svc:     svc,
		mutator: mutator,
		logger:  logger,
		metrics: recorder,
	}
}

// CanPickUp reports whether the actor may start dragging the card. Checked at
// the drag source, not on drop, so an illegal drag never even starts.
func (c *Controller) CanPickUp(actor domain.Actor, id string) bool {
	req, ok := c.svc.RequestByID(id)
	if !ok {
		return false
	}
	return domain.CanDrag(req, actor)
}

// MoveCard handles a drop of card id into the target column.
//   - Drop into the card's current column is a no-op (reordering within a
//     column carries no meaning and triggers no call).
//   - A cross-column drop maps to exactly one transition; skipping a state is
//     rejected before any call is made.
//   - The optimistic state is applied before the hub call. If the call fails
//     the error is returned for surfacing and the optimistic state is left
//     for the next poll tick to correct, never silently kept as truth.
func (c *Controller) MoveCard(ctx context.Context, actor domain.Actor, id string, target Column) (domain.MatchRequest, error) {
	req, ok := c.svc.RequestByID(id)
	if !ok {
		c.record(metrics.OutcomeRejected)
		return domain.MatchRequest{}, domain.ErrNotFound
	}

	current, known := ColumnFor(req.Status)
	if known && current == target {
		return req, nil
	}

	targetStatus, err := StatusFor(target)
	if err != nil {
		c.record(metrics.OutcomeRejected)
		return domain.MatchRequest{}, err
	}

	optimistic, err := domain.Transition(req, targetStatus, actor, domain.TriggerDrag)
	if err != nil {
		c.record(metrics.OutcomeRejected)
		return domain.MatchRequest{}, err
	}

	c.svc.ApplyOptimistic(optimistic)

	confirmed, err := c.mutator.UpdateMatchStatus(ctx, id, targetStatus, actor)
	if err != nil {
		c.record(metrics.OutcomeError)
		logging.Error(c.logger, "card move rejected upstream", err,
			slog.String(logging.FieldMatchID, id),
			slog.String(logging.FieldStatus, string(targetStatus)),
		)
		return domain.MatchRequest{}, err
	}

	// The server response is authoritative (it carries AcceptedBy for a
	// manually arranged acceptance); replace the optimistic copy.
	c.svc.ApplyOptimistic(confirmed)
	c.record(metrics.OutcomeOK)
	return confirmed, nil
}

func (c *Controller) record(outcome string) {
	if c.metrics != nil {
		c.metrics.RecordCommand("move", outcome)
	}
}
