package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"academy-match-service/internal/domain"
	"academy-match-service/internal/store"
	"academy-match-service/internal/teststubs"
)

func validDraft() domain.Draft {
	return domain.Draft{
		AgeGroups:   []string{"U12", "U12", "U14"},
		ScheduledAt: time.Date(2026, 10, 3, 14, 30, 0, 0, time.UTC),
		Venue: domain.Venue{
			Kind:    domain.VenueHome,
			Address: "12 Pitch Lane",
		},
		ContactPhone:  "555-0142",
		DurationHours: 2,
	}
}

func newHandler(t *testing.T, requests ...domain.MatchRequest) (*Handler, *store.MemoryStore, *teststubs.StubProvider) {
	t.Helper()
	st := store.NewMemoryStore()
	st.Replace(requests)
	provider := &teststubs.StubProvider{Matches: requests}
	return NewHandler(domain.NewService(st), provider, nil, nil), st, provider
}

func TestCreatePublishesAndAppliesOptimistically(t *testing.T) {
	h, st, provider := newHandler(t)

	created, err := h.Create(context.Background(), "academy-1", validDraft())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Status != domain.StatusAvailable {
		t.Fatalf("new request status = %s, want available", created.Status)
	}
	if created.CreatorID != "academy-1" {
		t.Fatalf("creatorID = %s", created.CreatorID)
	}

	if _, ok := st.Get(created.ID); !ok {
		t.Fatal("created request not applied to local store")
	}
	if provider.LastIdempotencyKey == "" {
		t.Fatal("create went out without an idempotency key")
	}
	// Normalized before submission.
	if len(provider.Created) != 1 || len(provider.Created[0].AgeGroups) != 2 {
		t.Fatalf("draft age groups not normalized: %+v", provider.Created)
	}
}

func TestCreateValidationBlocksSubmission(t *testing.T) {
	h, st, provider := newHandler(t)

	draft := validDraft()
	draft.ContactPhone = ""
	draft.AgeGroups = nil

	_, err := h.Create(context.Background(), "academy-1", draft)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if _, ok := verr.Fields["contactPhone"]; !ok {
		t.Fatalf("missing contactPhone violation: %+v", verr.Fields)
	}
	if _, ok := verr.Fields["ageGroups"]; !ok {
		t.Fatalf("missing ageGroups violation: %+v", verr.Fields)
	}
	if provider.CreateCalls.Load() != 0 {
		t.Fatal("invalid draft must never reach the hub")
	}
	if st.Len() != 0 {
		t.Fatal("invalid draft leaked into the store")
	}
}

func TestAcceptByOtherAcademy(t *testing.T) {
	h, st, provider := newHandler(t,
		teststubs.Request("m1", "creator", domain.StatusAvailable),
	)

	accepted, err := h.Accept(context.Background(), "opponent", "m1")
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.Status != domain.StatusConfirmed {
		t.Fatalf("status = %s, want confirmed", accepted.Status)
	}
	if provider.AcceptCalls.Load() != 1 {
		t.Fatalf("accept calls = %d, want 1", provider.AcceptCalls.Load())
	}

	stored, _ := st.Get("m1")
	if stored.Status != domain.StatusConfirmed {
		t.Fatalf("stored status = %s", stored.Status)
	}
	if stored.AcceptedBy == "" {
		t.Fatal("acceptedBy not recorded")
	}
	if err := domain.CheckInvariants(stored); err != nil {
		t.Fatalf("invariants violated after accept: %v", err)
	}
}

func TestAcceptOwnRequestRejected(t *testing.T) {
	h, _, provider := newHandler(t,
		teststubs.Request("m1", "creator", domain.StatusAvailable),
	)

	_, err := h.Accept(context.Background(), "creator", "m1")
	if !errors.Is(err, domain.ErrOwnRequest) {
		t.Fatalf("err = %v, want ErrOwnRequest", err)
	}
	if provider.AcceptCalls.Load() != 0 {
		t.Fatal("own-request accept must not reach the hub")
	}
}

func TestAcceptAlreadyConfirmedRejected(t *testing.T) {
	h, _, provider := newHandler(t,
		teststubs.Request("m1", "creator", domain.StatusConfirmed),
	)

	_, err := h.Accept(context.Background(), "latecomer", "m1")
	if !errors.Is(err, domain.ErrIllegalTransition) {
		t.Fatalf("err = %v, want ErrIllegalTransition", err)
	}
	if provider.AcceptCalls.Load() != 0 {
		t.Fatal("accept of a taken request must not reach the hub")
	}
}

func TestFinishByCreator(t *testing.T) {
	h, st, _ := newHandler(t,
		teststubs.Request("m1", "creator", domain.StatusConfirmed),
	)

	finished, err := h.Finish(context.Background(), "creator", "m1")
	if err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	if finished.Status != domain.StatusFinished {
		t.Fatalf("status = %s, want finished", finished.Status)
	}
	stored, _ := st.Get("m1")
	if stored.Status != domain.StatusFinished {
		t.Fatalf("stored status = %s", stored.Status)
	}
}

func TestFinishByNonCreatorRejected(t *testing.T) {
	h, _, provider := newHandler(t,
		teststubs.Request("m1", "creator", domain.StatusConfirmed),
	)

	_, err := h.Finish(context.Background(), "opponent", "m1")
	if !errors.Is(err, domain.ErrNotCreator) {
		t.Fatalf("err = %v, want ErrNotCreator", err)
	}
	if provider.FinishCalls.Load() != 0 {
		t.Fatal("unauthorized finish must not reach the hub")
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	h, st, provider := newHandler(t,
		teststubs.Request("m1", "creator", domain.StatusAvailable),
	)

	err := h.Delete(context.Background(), "creator", "m1", false)
	if !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("err = %v, want ErrConfirmationRequired", err)
	}
	if provider.DeleteCalls.Load() != 0 {
		t.Fatal("unconfirmed delete must not reach the hub")
	}
	if _, ok := st.Get("m1"); !ok {
		t.Fatal("unconfirmed delete removed the entity")
	}
}

func TestDeleteConfirmedStateRejected(t *testing.T) {
	h, _, provider := newHandler(t,
		teststubs.Request("m1", "creator", domain.StatusConfirmed),
	)

	err := h.Delete(context.Background(), "creator", "m1", true)
	if !errors.Is(err, domain.ErrNotDeletable) {
		t.Fatalf("err = %v, want ErrNotDeletable", err)
	}
	if provider.DeleteCalls.Load() != 0 {
		t.Fatal("delete of a confirmed request must not reach the hub")
	}
}

func TestDeleteByNonCreatorRejected(t *testing.T) {
	h, _, _ := newHandler(t,
		teststubs.Request("m1", "creator", domain.StatusAvailable),
	)

	err := h.Delete(context.Background(), "opponent", "m1", true)
	if !errors.Is(err, domain.ErrNotCreator) {
		t.Fatalf("err = %v, want ErrNotCreator", err)
	}
}

func TestDeleteIsNotOptimistic(t *testing.T) {
	h, st, provider := newHandler(t,
		teststubs.Request("m1", "creator", domain.StatusAvailable),
	)
	provider.MutateErr = errors.New("hub unavailable")

	err := h.Delete(context.Background(), "creator", "m1", true)
	if err == nil {
		t.Fatal("expected hub error to surface")
	}
	if _, ok := st.Get("m1"); !ok {
		t.Fatal("entity removed before the hub acknowledged the delete")
	}
}

func TestDeleteTombstoneBlocksStaleSnapshot(t *testing.T) {
	h, st, _ := newHandler(t,
		teststubs.Request("m1", "creator", domain.StatusAvailable),
	)

	if err := h.Delete(context.Background(), "creator", "m1", true); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := st.Get("m1"); ok {
		t.Fatal("entity still present after acknowledged delete")
	}

	// A poll snapshot fetched before the delete landed still carries the row.
	st.Replace([]domain.MatchRequest{
		teststubs.Request("m1", "creator", domain.StatusAvailable),
	})
	if _, ok := st.Get("m1"); ok {
		t.Fatal("stale snapshot resurrected a deleted request")
	}
}

func TestLifecycleEndToEnd(t *testing.T) {
	h, st, provider := newHandler(t)

	created, err := h.Create(context.Background(), "academy-a", validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	provider.SetMatches([]domain.MatchRequest{created})

	accepted, err := h.Accept(context.Background(), "academy-b", created.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != domain.StatusConfirmed {
		t.Fatalf("after accept: %s", accepted.Status)
	}
	provider.SetMatches([]domain.MatchRequest{accepted})

	finished, err := h.Finish(context.Background(), "academy-a", created.ID)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if finished.Status != domain.StatusFinished {
		t.Fatalf("after finish: %s", finished.Status)
	}

	if err := h.Delete(context.Background(), "academy-a", created.ID, true); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := st.Get(created.ID); ok {
		t.Fatal("request survived its deletion")
	}
	if err := domain.CheckInvariants(finished); err != nil {
		t.Fatalf("invariants violated at end of lifecycle: %v", err)
	}
}
