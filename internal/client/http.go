package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alfredjeanlab/archscore/internal/events"
	"github.com/alfredjeanlab/archscore/internal/model"
)

const (
	// defaultTimeout bounds a single request to the server.
	defaultTimeout = 30 * time.Second
	userAgent      = "archscore-cli"
)

// HTTPClient implements ScoreClient using the archscore HTTP/JSON API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Library ---

func (c *HTTPClient) Library(ctx context.Context) (*LibraryInfo, error) {
	var info LibraryInfo
	if err := c.doJSON(ctx, http.MethodGet, "/v1/library", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *HTTPClient) ListComponents(ctx context.Context, category model.ComponentCategory) ([]model.Component, error) {
	path := "/v1/components"
	if category != "" {
		path += "?" + url.Values{"category": {string(category)}}.Encode()
	}
	var resp struct {
		Components []model.Component `json:"components"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Components, nil
}

func (c *HTTPClient) GetComponent(ctx context.Context, id string) (*model.Component, error) {
	var comp model.Component
	if err := c.doJSON(ctx, http.MethodGet, "/v1/components/"+url.PathEscape(id), nil, &comp); err != nil {
		return nil, err
	}
	return &comp, nil
}

func (c *HTTPClient) ListTiers(ctx context.Context) ([]model.TierDefinition, error) {
	var resp struct {
		Tiers []model.TierDefinition `json:"tiers"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/tiers", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tiers, nil
}

// --- Scoring ---

func (c *HTTPClient) Recalculate(ctx context.Context, arch *model.Architecture, changedNodeID string) (*events.RecalculationCompleted, error) {
	req := recalculateRequest{Nodes: arch.Nodes, Edges: arch.Edges, ChangedNodeID: changedNodeID}
	var ev events.RecalculationCompleted
	if err := c.doJSON(ctx, http.MethodPost, "/v1/recalculate", req, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (c *HTTPClient) Propagation(ctx context.Context, edges []model.Edge, changedNodeID string) (*PropagationResult, error) {
	req := propagationRequest{Edges: edges, ChangedNodeID: changedNodeID}
	var res PropagationResult
	if err := c.doJSON(ctx, http.MethodPost, "/v1/propagation", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Score(ctx context.Context, arch *model.Architecture) (*ScoreResult, error) {
	req := scoreRequest{Nodes: arch.Nodes, Edges: arch.Edges}
	var res ScoreResult
	if err := c.doJSON(ctx, http.MethodPost, "/v1/score", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Compatibility(ctx context.Context, sourceID, targetID string) (*model.CompatibilityResult, error) {
	req := compatibilityRequest{SourceComponentID: sourceID, TargetComponentID: targetID}
	var res model.CompatibilityResult
	if err := c.doJSON(ctx, http.MethodPost, "/v1/compatibility", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status  string `json:"status"`
		Library string `json:"library"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	if resp.Library != "" {
		return resp.Status + " (library " + resp.Library + ")", nil
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError is an error response from the server. Fields is set when the
// server rejected an architecture with per-field validation errors.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []model.FieldError
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	if len(e.Fields) == 0 {
		return msg
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return msg + " (" + strings.Join(parts, "; ") + ")"
}

// Is reports 404 responses as ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// errorBody is the JSON shape of every server error response.
type errorBody struct {
	Error  string `json:"error"`
	Fields []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"fields"`
}

func decodeAPIError(status int, body []byte) *APIError {
	var eb errorBody
	if json.Unmarshal(body, &eb) != nil || eb.Error == "" {
		return &APIError{StatusCode: status, Message: strings.TrimSpace(string(body))}
	}
	apiErr := &APIError{StatusCode: status, Message: eb.Error}
	for _, f := range eb.Fields {
		apiErr.Fields = append(apiErr.Fields, model.FieldError{Field: f.Field, Message: f.Message})
	}
	return apiErr
}

// doJSON sends body (if any) as JSON and decodes the response into result
// (if non-nil). Responses with status >= 400 become an *APIError.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return decodeAPIError(resp.StatusCode, respBody)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// IsNotFound reports whether err is a not-found error from either client.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
