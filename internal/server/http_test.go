package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfredjeanlab/archscore/internal/events"
	"github.com/alfredjeanlab/archscore/internal/model"
)

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHandleHealth(t *testing.T) {
	_, _, h := newUnloadedServer()
	rec := doJSON(t, h, http.MethodGet, "/v1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","library":"loading"}`, rec.Body.String())

	_, _, h = newTestServer()
	rec = doJSON(t, h, http.MethodGet, "/v1/health", nil)
	assert.JSONEq(t, `{"status":"ok","library":"loaded"}`, rec.Body.String())
}

func TestHandlers_NotLoaded(t *testing.T) {
	_, _, h := newUnloadedServer()
	arch := testArchitecture()

	for _, tc := range []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/v1/library", nil},
		{http.MethodGet, "/v1/components", nil},
		{http.MethodGet, "/v1/components/pg", nil},
		{http.MethodGet, "/v1/tiers", nil},
		{http.MethodPost, "/v1/recalculate", map[string]any{"nodes": arch.Nodes, "edges": arch.Edges, "changed_node_id": "web"}},
		{http.MethodPost, "/v1/score", map[string]any{"nodes": arch.Nodes, "edges": arch.Edges}},
		{http.MethodPost, "/v1/compatibility", map[string]string{"source_component_id": "pg", "target_component_id": "spa"}},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := doJSON(t, h, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
		})
	}
}

func TestHandleLibrary(t *testing.T) {
	_, _, h := newTestServer()
	rec := doJSON(t, h, http.MethodGet, "/v1/library", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"source":"static","schema_version":"1.0.0","components":3,"tiers":2}`, rec.Body.String())
}

func TestHandleListComponents(t *testing.T) {
	_, _, h := newTestServer()

	rec := doJSON(t, h, http.MethodGet, "/v1/components", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decodeBody[struct {
		Components []model.Component `json:"components"`
		Total      int               `json:"total"`
	}](t, rec)
	assert.Equal(t, 3, all.Total)
	assert.Equal(t, "spa", all.Components[0].ID)

	rec = doJSON(t, h, http.MethodGet, "/v1/components?category=data-storage", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	filtered := decodeBody[struct {
		Components []model.Component `json:"components"`
	}](t, rec)
	require.Len(t, filtered.Components, 1)
	assert.Equal(t, "pg", filtered.Components[0].ID)

	rec = doJSON(t, h, http.MethodGet, "/v1/components?category=messaging", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"components":[]`)

	rec = doJSON(t, h, http.MethodGet, "/v1/components?category=mainframe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetComponent(t *testing.T) {
	_, _, h := newTestServer()

	rec := doJSON(t, h, http.MethodGet, "/v1/components/api", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	c := decodeBody[model.Component](t, rec)
	assert.Equal(t, "API Service", c.Name)
	assert.Len(t, c.Metrics, 2)

	rec = doJSON(t, h, http.MethodGet, "/v1/components/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleListTiers(t *testing.T) {
	_, _, h := newTestServer()
	rec := doJSON(t, h, http.MethodGet, "/v1/tiers", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[struct {
		Tiers []model.TierDefinition `json:"tiers"`
	}](t, rec)
	require.Len(t, body.Tiers, 2)
	assert.Equal(t, "foundation", body.Tiers[0].ID)
	assert.Equal(t, []model.Requirement{model.MinComponents{Count: 2}}, body.Tiers[0].Requirements)
}

func TestHandleRecalculate(t *testing.T) {
	srv, _, h := newTestServer()
	arch := testArchitecture()

	client, _ := srv.stream.subscribe(streamFilter{topics: []string{events.TopicRecalculationCompleted}, node: "web"}, 0, false)
	defer srv.stream.unsubscribe(client)

	rec := doJSON(t, h, http.MethodPost, "/v1/recalculate", map[string]any{
		"nodes": arch.Nodes, "edges": arch.Edges, "changed_node_id": "db",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	ev := decodeBody[events.RecalculationCompleted](t, rec)
	assert.Equal(t, []string{"db", "svc", "web"}, ev.AffectedNodes)
	require.Len(t, ev.Result.PropagationHops, 3)
	assert.Equal(t, 2, ev.Result.PropagationHops[2].HopIndex)
	assert.Equal(t, int64(200), ev.TotalDelayMs)

	select {
	case evt := <-client.ch:
		assert.Equal(t, events.TopicRecalculationCompleted, evt.topic)
		assert.Contains(t, string(evt.data), ev.ID)
		assert.Equal(t, ev.AffectedNodes, evt.nodes)
	default:
		t.Fatal("expected stream event")
	}
}

func TestHandleRecalculate_BadRequests(t *testing.T) {
	_, _, h := newTestServer()
	arch := testArchitecture()

	rec := doJSON(t, h, http.MethodPost, "/v1/recalculate", `{"nodes":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/v1/recalculate", map[string]any{"nodes": arch.Nodes, "edges": arch.Edges})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"changed_node_id is required"}`, rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, "/v1/recalculate", `{"changed_node_id":"web","colour":"red"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	dup := map[string]any{
		"nodes":           []model.Node{{ID: "a", ComponentID: "pg"}, {ID: "a", ComponentID: "api"}},
		"changed_node_id": "a",
	}
	rec = doJSON(t, h, http.MethodPost, "/v1/recalculate", dup)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[struct {
		Fields []fieldErrorBody `json:"fields"`
	}](t, rec)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "nodes[1].id", body.Fields[0].Field)
}

func TestHandlePropagation(t *testing.T) {
	// Propagation only needs edges, so it is served before the library loads.
	_, _, h := newUnloadedServer()

	rec := doJSON(t, h, http.MethodPost, "/v1/propagation", map[string]any{
		"edges":           testArchitecture().Edges,
		"changed_node_id": "svc",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[propagationResponse](t, rec)
	assert.Equal(t, []model.PropagationHop{
		{NodeID: "svc", HopIndex: 0, DelayMs: 0},
		{NodeID: "web", HopIndex: 1, DelayMs: 100},
		{NodeID: "db", HopIndex: 1, DelayMs: 100},
	}, resp.PropagationHops)
	assert.Equal(t, int64(100), resp.TotalDelayMs)
}

func TestHandleScore(t *testing.T) {
	_, pub, h := newTestServer()
	arch := testArchitecture()
	arch.Nodes = append(arch.Nodes, model.Node{ID: "ghost", ComponentID: "mainframe"})

	rec := doJSON(t, h, http.MethodPost, "/v1/score", map[string]any{"nodes": arch.Nodes, "edges": arch.Edges})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	for _, key := range []string{"id", "nodes", "category_scores", "aggregate_score", "node_heatmap", "edge_heatmap", "facts", "tier", "warnings"} {
		assert.Contains(t, body, key)
	}

	var heat map[string]model.HeatmapStatus
	require.NoError(t, json.Unmarshal(body["node_heatmap"], &heat))
	assert.Equal(t, model.StatusWarning, heat["ghost"])
	assert.Equal(t, model.StatusBottleneck, heat["web"])

	var facts struct {
		ComponentCount int `json:"component_count"`
	}
	require.NoError(t, json.Unmarshal(body["facts"], &facts))
	assert.Equal(t, 3, facts.ComponentCount)

	assert.Equal(t, events.TopicScoreComputed, pub.published()[len(pub.published())-1])
}

func TestHandleCompatibility(t *testing.T) {
	_, _, h := newTestServer()

	rec := doJSON(t, h, http.MethodPost, "/v1/compatibility", map[string]string{
		"source_component_id": "pg", "target_component_id": "spa",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"is_compatible":false,"reason":"Clients should not connect directly to databases"}`, rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, "/v1/compatibility", map[string]string{"source_component_id": "pg"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "target_component_id is required")

	rec = doJSON(t, h, http.MethodPost, "/v1/compatibility", map[string]string{
		"source_component_id": "pg", "target_component_id": "oracle",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleMetrics(t *testing.T) {
	_, _, h := newTestServer()
	arch := testArchitecture()
	doJSON(t, h, http.MethodPost, "/v1/recalculate", map[string]any{
		"nodes": arch.Nodes, "edges": arch.Edges, "changed_node_id": "web",
	})

	rec := doJSON(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, `archscore_recalculations_total{kind="recalculate"} 1`)
	assert.Contains(t, out, `archscore_http_request_duration_seconds_count{code="200",route="POST /v1/recalculate"} 1`)
}

func TestNewHTTPHandler_Auth(t *testing.T) {
	srv, _, _ := newTestServer()
	h := srv.NewHTTPHandler("secret")

	rec := doJSON(t, h, http.MethodGet, "/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/v1/components", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/components", strings.NewReader(""))
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
