package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"academy-match-service/internal/board"
	"academy-match-service/internal/changefeed"
	"academy-match-service/internal/commands"
	"academy-match-service/internal/domain"
	"academy-match-service/internal/poller"
	"academy-match-service/internal/store"
	"academy-match-service/internal/teststubs"
)

type apiFixture struct {
	router   http.Handler
	store    *store.MemoryStore
	provider *teststubs.StubProvider
	detector *changefeed.Detector
}

func newAPI(t *testing.T, requests ...domain.MatchRequest) *apiFixture {
	t.Helper()

	st := store.NewMemoryStore()
	st.Replace(requests)
	provider := &teststubs.StubProvider{Matches: requests}
	svc := domain.NewService(st)
	detector := changefeed.New(nil, nil)

	handler := NewHandler(
		svc,
		commands.NewHandler(svc, provider, nil, nil),
		board.NewController(svc, provider, nil, nil),
		detector,
		func() poller.Status { return poller.Status{LastSuccess: time.Now()} },
		func() poller.State { return poller.State{LastUpdated: time.Now()} },
		func() {},
		"",
		nil,
	)
	return &apiFixture{
		router:   NewRouter(handler),
		store:    st,
		provider: provider,
		detector: detector,
	}
}

func (f *apiFixture) do(method, path, actor, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if actor != "" {
		req.Header.Set(actorHeader, actor)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	f := newAPI(t)
	rec := f.do(http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestReadyEndpointReflectsPollerHealth(t *testing.T) {
	f := newAPI(t)
	if rec := f.do(http.MethodGet, "/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("ready status = %d", rec.Code)
	}

	// Rebuild with a failing poll status.
	st := store.NewMemoryStore()
	svc := domain.NewService(st)
	handler := NewHandler(svc, nil, nil, nil,
		func() poller.Status {
			return poller.Status{ConsecutiveFailures: 5, LastError: "hub down"}
		},
		nil, nil, "", nil)
	rec := httptest.NewRecorder()
	NewRouter(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unready status = %d, want 503", rec.Code)
	}
}

func TestBoardEndpointGroupsColumns(t *testing.T) {
	f := newAPI(t,
		teststubs.Request("m1", "a1", domain.StatusAvailable),
		teststubs.Request("m2", "a1", domain.StatusConfirmed),
	)

	rec := f.do(http.MethodGet, "/board", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var payload struct {
		Columns     map[string][]domain.MatchRequest `json:"columns"`
		LastUpdated time.Time                        `json:"lastUpdated"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Columns["available"]) != 1 || len(payload.Columns["confirmed"]) != 1 {
		t.Fatalf("columns = %+v", payload.Columns)
	}
	if payload.LastUpdated.IsZero() {
		t.Fatal("lastUpdated missing")
	}
}

func TestRequestByID(t *testing.T) {
	f := newAPI(t, teststubs.Request("m1", "a1", domain.StatusAvailable))

	rec := f.do(http.MethodGet, "/requests/m1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var req domain.MatchRequest
	if err := json.Unmarshal(rec.Body.Bytes(), &req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.ID != "m1" {
		t.Fatalf("id = %s", req.ID)
	}

	if rec := f.do(http.MethodGet, "/requests/ghost", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing request status = %d", rec.Code)
	}
}

func TestMutationsRequireActorIdentity(t *testing.T) {
	f := newAPI(t, teststubs.Request("m1", "a1", domain.StatusAvailable))

	paths := []struct {
		method, path string
	}{
		{http.MethodPost, "/requests"},
		{http.MethodPost, "/requests/m1/accept"},
		{http.MethodPost, "/requests/m1/finish"},
		{http.MethodDelete, "/requests/m1"},
	}
	for _, p := range paths {
		rec := f.do(p.method, p.path, "", "{}")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s without actor = %d, want 401", p.method, p.path, rec.Code)
		}
	}
}

func TestCreateEndpoint(t *testing.T) {
	f := newAPI(t)

	body := `{
		"ageGroups": ["U12"],
		"scheduledAt": "2026-10-03T14:30:00Z",
		"venue": {"kind": "home", "address": "12 Pitch Lane"},
		"contactPhone": "555-0142",
		"durationHours": 2
	}`
	rec := f.do(http.MethodPost, "/requests", "academy-1", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if f.provider.CreateCalls.Load() != 1 {
		t.Fatal("create never reached the provider")
	}
}

func TestCreateEndpointValidationFailure(t *testing.T) {
	f := newAPI(t)

	rec := f.do(http.MethodPost, "/requests", "academy-1", `{"ageGroups": []}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var payload struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Fields) == 0 {
		t.Fatal("field violations missing from response")
	}
	if f.provider.CreateCalls.Load() != 0 {
		t.Fatal("invalid draft reached the provider")
	}
}

func TestAcceptEndpointOwnRequestForbidden(t *testing.T) {
	f := newAPI(t, teststubs.Request("m1", "academy-1", domain.StatusAvailable))

	rec := f.do(http.MethodPost, "/requests/m1/accept", "academy-1", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestAcceptEndpointByOpponent(t *testing.T) {
	f := newAPI(t, teststubs.Request("m1", "academy-1", domain.StatusAvailable))

	rec := f.do(http.MethodPost, "/requests/m1/accept", "academy-2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var req domain.MatchRequest
	json.Unmarshal(rec.Body.Bytes(), &req)
	if req.Status != domain.StatusConfirmed {
		t.Fatalf("status = %s", req.Status)
	}
}

func TestAcceptEndpointTakenRequestConflicts(t *testing.T) {
	f := newAPI(t, teststubs.Request("m1", "academy-1", domain.StatusConfirmed))

	rec := f.do(http.MethodPost, "/requests/m1/accept", "academy-3", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestMoveCardEndpoint(t *testing.T) {
	f := newAPI(t, teststubs.Request("m1", "academy-1", domain.StatusAvailable))

	rec := f.do(http.MethodPatch, "/requests/m1/status", "academy-1", `{"column": "confirmed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = f.do(http.MethodPatch, "/requests/m1/status", "academy-1", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing column status = %d, want 400", rec.Code)
	}

	rec = f.do(http.MethodPatch, "/requests/m1/status", "academy-2", `{"column": "finished"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-creator move status = %d, want 403", rec.Code)
	}
}

func TestDeleteEndpointConfirmationFlow(t *testing.T) {
	f := newAPI(t, teststubs.Request("m1", "academy-1", domain.StatusAvailable))

	rec := f.do(http.MethodDelete, "/requests/m1", "academy-1", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unconfirmed delete = %d, want 400", rec.Code)
	}

	rec = f.do(http.MethodDelete, "/requests/m1?confirm=true", "academy-2", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-creator delete = %d, want 403", rec.Code)
	}

	rec = f.do(http.MethodDelete, "/requests/m1?confirm=true", "academy-1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("confirmed delete = %d, want 204", rec.Code)
	}
	if _, ok := f.store.Get("m1"); ok {
		t.Fatal("entity survived the delete")
	}
}

func TestChangesEndpoint(t *testing.T) {
	f := newAPI(t)

	rec := f.do(http.MethodGet, "/changes", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var payload map[string]any
	json.Unmarshal(rec.Body.Bytes(), &payload)
	if payload["changed"] != false {
		t.Fatalf("changed = %v before any observation", payload["changed"])
	}

	f.detector.Observe([]domain.MatchRequest{teststubs.Request("m1", "a1", domain.StatusAvailable)})
	f.detector.Observe([]domain.MatchRequest{teststubs.Request("m1", "a1", domain.StatusConfirmed)})

	rec = f.do(http.MethodGet, "/changes", "", "")
	json.Unmarshal(rec.Body.Bytes(), &payload)
	if payload["changed"] != true {
		t.Fatalf("changed = %v after a change", payload["changed"])
	}
	if _, ok := payload["lastChange"]; !ok {
		t.Fatal("lastChange missing")
	}
}

func TestRefreshEndpointAccepted(t *testing.T) {
	refreshed := false
	st := store.NewMemoryStore()
	svc := domain.NewService(st)
	handler := NewHandler(svc, nil, nil, nil, nil, nil,
		func() { refreshed = true }, "", nil)

	rec := httptest.NewRecorder()
	NewRouter(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/refresh", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if !refreshed {
		t.Fatal("refresh callback not invoked")
	}
}

func TestDefaultActorFallback(t *testing.T) {
	st := store.NewMemoryStore()
	st.Replace([]domain.MatchRequest{teststubs.Request("m1", "home-academy", domain.StatusAvailable)})
	provider := &teststubs.StubProvider{Matches: st.List()}
	svc := domain.NewService(st)
	handler := NewHandler(svc,
		commands.NewHandler(svc, provider, nil, nil),
		nil, nil, nil, nil, nil,
		"home-academy", nil)
	router := NewRouter(handler)

	// No header; the configured install identity applies.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/requests/m1/finish", nil))
	if rec.Code != http.StatusConflict {
		// Available, not confirmed: the transition guard fires, which proves
		// the identity fallback authenticated the call.
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}
