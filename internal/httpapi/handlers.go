package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"academy-match-service/internal/board"
	"academy-match-service/internal/changefeed"
	"academy-match-service/internal/commands"
	"academy-match-service/internal/domain"
	"academy-match-service/internal/poller"
	"academy-match-service/internal/providers"
)

// Handler wires the HTTP routes to the board, commands, and sync layers.
type Handler struct {
	svc        *domain.Service
	commands   *commands.Handler
	controller *board.Controller
	detector   *changefeed.Detector
	pollStatus func() poller.Status
	pollView   func() poller.State
	refresh    func()
	// defaultActor is used when a request carries no X-Academy-ID header
	// (single-academy installs).
	defaultActor domain.Actor
	logger       *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(
	svc *domain.Service,
	cmds *commands.Handler,
	controller *board.Controller,
	detector *changefeed.Detector,
	pollStatus func() poller.Status,
	pollView func() poller.State,
	refresh func(),
	defaultActor domain.Actor,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		svc:          svc,
		commands:     cmds,
		controller:   controller,
		detector:     detector,
		pollStatus:   pollStatus,
		pollView:     pollView,
		refresh:      refresh,
		defaultActor: defaultActor,
		logger:       logger,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports whether the sync loop has recent successful fetches.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.pollStatus == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	status := h.pollStatus()
	if !status.IsReady() {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":              "not ready",
			"consecutiveFailures": status.ConsecutiveFailures,
			"lastError":           status.LastError,
		})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Board returns the grouped column view.
func (h *Handler) Board(w http.ResponseWriter, r *http.Request) {
	view := board.BuildView(h.svc.Requests())
	payload := struct {
		board.View
		LastUpdated time.Time `json:"lastUpdated,omitempty"`
	}{View: view}
	if h.pollView != nil {
		payload.LastUpdated = h.pollView().LastUpdated
	}
	h.writeJSON(w, http.StatusOK, payload)
}

// Requests returns the flat list of match requests.
func (h *Handler) Requests(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.Requests())
}

// RequestByID returns a single match request.
func (h *Handler) RequestByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, ok := h.svc.RequestByID(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, "match request not found")
		return
	}
	h.writeJSON(w, http.StatusOK, req)
}

// Create publishes a new match request from a full wizard draft.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var draft domain.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	created, err := h.commands.Create(r.Context(), actor, draft)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// Accept marks a request as taken by the acting academy.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	req, err := h.commands.Accept(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, req)
}

// Finish moves a confirmed request to finished.
func (h *Handler) Finish(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	req, err := h.commands.Finish(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, req)
}

// MoveCard applies a drag drop: body carries the target column.
func (h *Handler) MoveCard(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var body struct {
		Column board.Column `json:"column"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Column == "" {
		h.writeError(w, http.StatusBadRequest, "target column required")
		return
	}
	req, err := h.controller.MoveCard(r.Context(), actor, chi.URLParam(r, "id"), body.Column)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, req)
}

// Delete removes a request. The confirm query flag stands in for the
// interactive confirmation dialog.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	confirmed := r.URL.Query().Get("confirm") == "true"
	if err := h.commands.Delete(r.Context(), actor, chi.URLParam(r, "id"), confirmed); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Changes reports the transient change-detection state.
func (h *Handler) Changes(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{"changed": false}
	if h.detector != nil {
		payload["changed"] = h.detector.Changed()
		if last := h.detector.LastChange(); !last.IsZero() {
			payload["lastChange"] = last
		}
	}
	if h.pollView != nil {
		state := h.pollView()
		if !state.LastUpdated.IsZero() {
			payload["lastUpdated"] = state.LastUpdated
		}
		if state.Err != nil {
			payload["syncError"] = state.Err.Error()
		}
	}
	h.writeJSON(w, http.StatusOK, payload)
}

// Refresh forces an out-of-band poll without disturbing the timer cadence.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.refresh != nil {
		h.refresh()
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor := domain.Actor(r.Header.Get(actorHeader))
	if actor == "" {
		actor = h.defaultActor
	}
	if actor == "" {
		h.writeError(w, http.StatusUnauthorized, "acting academy identity required")
		return "", false
	}
	return actor, true
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	var apiErr *providers.APIError
	switch {
	case errors.As(err, &verr):
		h.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
	case domain.IsAuthorizationError(err):
		h.writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrIllegalTransition), errors.Is(err, domain.ErrNotDeletable):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, commands.ErrConfirmationRequired):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &apiErr):
		// Pass hub rejections through; transport-level failures degrade to 502.
		status := http.StatusBadGateway
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			status = apiErr.StatusCode
		}
		h.writeError(w, status, apiErr.Error())
	default:
		h.writeError(w, http.StatusBadGateway, err.Error())
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
