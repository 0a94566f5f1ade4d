// Package commands wraps the mutating hub calls with validation, optimistic
// local updates, and the uniform failure rule: a rejected call never leaves
// the store claiming something the hub did not persist; correction is left
// to the next poll tick rather than bespoke rollback logic.
package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"academy-match-service/internal/domain"
	"academy-match-service/internal/logging"
	"academy-match-service/internal/metrics"
	"academy-match-service/internal/providers"
)

// ErrConfirmationRequired is returned when delete is invoked without the
// interactive confirmation flag. Deletion is destructive and irreversible.
var ErrConfirmationRequired = errors.New("delete requires confirmation")

// Handler executes the create/accept/finish/delete commands.
type Handler struct {
	svc     *domain.Service
	mutator providers.MatchMutator
	logger  *slog.Logger
	metrics *metrics.Recorder
	newKey  func() string
}

// NewHandler constructs a command Handler.
func NewHandler(svc *domain.Service, mutator providers.MatchMutator, logger *slog.Logger, recorder *metrics.Recorder) *Handler {
	return &Handler{
		svc:     svc,
		mutator: mutator,
		logger:  logger,
		metrics: recorder,
		newKey:  uuid.NewString,
	}
}

// Create validates the full wizard and publishes the request. Validation
// failures block submission outright; nothing partial ever goes out. The
// idempotency key guards against duplicate publishes on flaky networks.
func (h *Handler) Create(ctx context.Context, actor domain.Actor, draft domain.Draft) (domain.MatchRequest, error) {
	if err := draft.Validate(); err != nil {
		h.record("create", metrics.OutcomeRejected)
		return domain.MatchRequest{}, err
	}
	draft.AgeGroups = domain.NormalizeAgeGroups(draft.AgeGroups)

	created, err := h.mutator.CreateMatch(ctx, draft, actor, h.newKey())
	if err != nil {
		h.record("create", metrics.OutcomeError)
		logging.Error(h.logger, "create failed", err, slog.String(logging.FieldActor, string(actor)))
		return domain.MatchRequest{}, err
	}

	h.svc.ApplyOptimistic(created)
	h.record("create", metrics.OutcomeOK)
	logging.Info(h.logger, "match request created",
		slog.String(logging.FieldMatchID, created.ID),
		slog.String(logging.FieldActor, string(actor)),
	)
	return created, nil
}

// Accept marks an available request as taken by the actor. The local guard
// rejects own requests and non-available states up front; the hub revalidates
// and stays the arbiter when two academies race (first acceptor wins). On
// success the local entity turns confirmed with AcceptedBy set, pending
// reconciliation by the next poll.
func (h *Handler) Accept(ctx context.Context, actor domain.Actor, id string) (domain.MatchRequest, error) {
	req, ok := h.svc.RequestByID(id)
	if !ok {
		h.record("accept", metrics.OutcomeRejected)
		return domain.MatchRequest{}, domain.ErrNotFound
	}

	optimistic, err := domain.Transition(req, domain.StatusConfirmed, actor, domain.TriggerAccept)
	if err != nil {
		h.record("accept", metrics.OutcomeRejected)
		return domain.MatchRequest{}, err
	}

	confirmed, err := h.mutator.AcceptMatch(ctx, id, actor)
	if err != nil {
		h.record("accept", metrics.OutcomeError)
		logging.Error(h.logger, "accept failed", err, slog.String(logging.FieldMatchID, id))
		return domain.MatchRequest{}, err
	}
	if confirmed.ID == "" {
		confirmed = optimistic
	}

	h.svc.ApplyOptimistic(confirmed)
	h.record("accept", metrics.OutcomeOK)
	logging.Info(h.logger, "match request accepted",
		slog.String(logging.FieldMatchID, id),
		slog.String(logging.FieldActor, string(actor)),
	)
	return confirmed, nil
}

// Finish moves a confirmed request to finished. Creator only.
func (h *Handler) Finish(ctx context.Context, actor domain.Actor, id string) (domain.MatchRequest, error) {
	req, ok := h.svc.RequestByID(id)
	if !ok {
		h.record("finish", metrics.OutcomeRejected)
		return domain.MatchRequest{}, domain.ErrNotFound
	}

	optimistic, err := domain.Transition(req, domain.StatusFinished, actor, domain.TriggerFinish)
	if err != nil {
		h.record("finish", metrics.OutcomeRejected)
		return domain.MatchRequest{}, err
	}

	finished, err := h.mutator.FinishMatch(ctx, id, actor)
	if err != nil {
		h.record("finish", metrics.OutcomeError)
		logging.Error(h.logger, "finish failed", err, slog.String(logging.FieldMatchID, id))
		return domain.MatchRequest{}, err
	}
	if finished.ID == "" {
		finished = optimistic
	}

	h.svc.ApplyOptimistic(finished)
	h.record("finish", metrics.OutcomeOK)
	return finished, nil
}

// Delete removes a request. It requires explicit confirmation, is permitted
// only to the creator on an available or finished request, and is not
// optimistic: the entity leaves the store only after the hub acknowledged.
// The store tombstones the id so a racing poll snapshot that still carries it
// cannot resurrect the card.
func (h *Handler) Delete(ctx context.Context, actor domain.Actor, id string, confirmed bool) error {
	if !confirmed {
		h.record("delete", metrics.OutcomeRejected)
		return ErrConfirmationRequired
	}

	req, ok := h.svc.RequestByID(id)
	if !ok {
		h.record("delete", metrics.OutcomeRejected)
		return domain.ErrNotFound
	}
	if err := domain.AuthorizeDelete(req, actor); err != nil {
		h.record("delete", metrics.OutcomeRejected)
		return err
	}

	if err := h.mutator.DeleteMatch(ctx, id, actor); err != nil {
		h.record("delete", metrics.OutcomeError)
		logging.Error(h.logger, "delete failed", err, slog.String(logging.FieldMatchID, id))
		return err
	}

	h.svc.Drop(id)
	h.record("delete", metrics.OutcomeOK)
	logging.Info(h.logger, "match request deleted",
		slog.String(logging.FieldMatchID, id),
		slog.String(logging.FieldActor, string(actor)),
	)
	return nil
}

func (h *Handler) record(command, outcome string) {
	if h.metrics != nil {
		h.metrics.RecordCommand(command, outcome)
	}
}
