package academyhub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"academy-match-service/internal/domain"
	"academy-match-service/internal/providers"
)

// Config controls how the client reaches the hub API.
type Config struct {
	BaseURL    string
	APIToken   string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the academy hub match endpoints and maps payloads to domain
// models. It is the single place that knows the wire shapes and the envelope.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient httpDoer
	logger     *slog.Logger
}

// NewClient constructs a hub client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiToken:   cfg.APIToken,
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		logger:     cfg.Logger,
	}
}

// FetchMatches retrieves the full match request snapshot.
func (c *Client) FetchMatches(ctx context.Context) ([]domain.MatchRequest, error) {
	var payload []matchResponse
	if err := c.do(ctx, http.MethodGet, "/matches", "", nil, "", &payload); err != nil {
		return nil, err
	}

	matches := make([]domain.MatchRequest, 0, len(payload))
	for _, m := range payload {
		req, err := mapMatch(m)
		if err != nil {
			var statusErr *domain.UnknownStatusError
			if req.ID != "" && errors.As(err, &statusErr) {
				// Data error, not a transport error: keep the row renderable
				// in its unknown state instead of dropping the snapshot.
				c.logWarn(ctx, "unmappable match status", "id", m.ID, "status", m.Status)
				matches = append(matches, req)
				continue
			}
			return nil, err
		}
		matches = append(matches, req)
	}
	return matches, nil
}

// CreateMatch publishes a new match request on behalf of the creator.
func (c *Client) CreateMatch(ctx context.Context, draft domain.Draft, creator domain.Actor, idempotencyKey string) (domain.MatchRequest, error) {
	var payload matchResponse
	err := c.do(ctx, http.MethodPost, "/matches", string(creator), mapDraft(draft), idempotencyKey, &payload)
	if err != nil {
		return domain.MatchRequest{}, err
	}
	return c.mapSingle(ctx, payload)
}

// AcceptMatch marks the request accepted by the actor. The hub is the final
// arbiter when two academies race: first acceptor wins.
func (c *Client) AcceptMatch(ctx context.Context, id string, actor domain.Actor) (domain.MatchRequest, error) {
	var payload matchResponse
	err := c.do(ctx, http.MethodPost, "/matches/"+id+"/accept", string(actor), nil, "", &payload)
	if err != nil {
		return domain.MatchRequest{}, err
	}
	return c.mapSingle(ctx, payload)
}

// FinishMatch moves a confirmed request to finished.
func (c *Client) FinishMatch(ctx context.Context, id string, actor domain.Actor) (domain.MatchRequest, error) {
	var payload matchResponse
	err := c.do(ctx, http.MethodPost, "/matches/"+id+"/finish", string(actor), nil, "", &payload)
	if err != nil {
		return domain.MatchRequest{}, err
	}
	return c.mapSingle(ctx, payload)
}

// UpdateMatchStatus applies an explicit status transition (the drag path).
func (c *Client) UpdateMatchStatus(ctx context.Context, id string, status domain.Status, actor domain.Actor) (domain.MatchRequest, error) {
	wire, err := domain.FormatWireStatus(status)
	if err != nil {
		return domain.MatchRequest{}, err
	}
	var payload matchResponse
	err = c.do(ctx, http.MethodPatch, "/matches/"+id+"/status", string(actor), updateStatusRequest{Status: wire}, "", &payload)
	if err != nil {
		return domain.MatchRequest{}, err
	}
	return c.mapSingle(ctx, payload)
}

// DeleteMatch removes the request upstream.
func (c *Client) DeleteMatch(ctx context.Context, id string, actor domain.Actor) error {
	return c.do(ctx, http.MethodDelete, "/matches/"+id, string(actor), nil, "", nil)
}

func (c *Client) mapSingle(ctx context.Context, payload matchResponse) (domain.MatchRequest, error) {
	req, err := mapMatch(payload)
	if err != nil {
		var statusErr *domain.UnknownStatusError
		if req.ID != "" && errors.As(err, &statusErr) {
			c.logWarn(ctx, "unmappable match status", "id", payload.ID, "status", payload.Status)
			return req, nil
		}
		return domain.MatchRequest{}, err
	}
	return req, nil
}

// do executes one hub call: attaches credentials and the acting identity,
// serializes the JSON body, raises an APIError on non-2xx, and unwraps the
// `{data: …}` envelope into out when present.
func (c *Client) do(ctx context.Context, method, path, actor string, body any, idempotencyKey string, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
	if actor != "" {
		req.Header.Set(headerActor, actor)
	}
	if idempotencyKey != "" {
		req.Header.Set(headerIdempotencyKey, idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return unwrap(raw, out)
}

func (c *Client) apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	apiErr := &providers.APIError{StatusCode: resp.StatusCode}

	var body errorResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			apiErr.Message = body.Message
		} else if body.Error != "" {
			apiErr.Message = body.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}

// unwrap decodes raw into out, looking through the optional data envelope.
func unwrap(raw []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		raw = env.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("hub: malformed payload: %w", err)
	}
	return nil
}

func (c *Client) logWarn(ctx context.Context, msg string, args ...any) {
	if c.logger != nil {
		c.logger.Log(ctx, slog.LevelWarn, msg, args...)
	}
}
