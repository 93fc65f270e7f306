package node_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lioia/sparse-pagerank/pkg/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(n *node.Node, method, target, body string) *httptest.ResponseRecorder {
	e := node.NewApiServer(n)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestApi_Rank(t *testing.T) {
	rec := serve(&node.Node{}, http.MethodPost, "/rank", dangling)
	require.Equal(t, http.StatusOK, rec.Code)
	var outcome node.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	require.Len(t, outcome.Ranks, 2)
	assert.Greater(t, outcome.Ranks[1].Score, outcome.Ranks[0].Score)
	assert.Equal(t, 3, outcome.Iterations)
	assert.Empty(t, outcome.Error)
}

func TestApi_RankEdgeList(t *testing.T) {
	rec := serve(&node.Node{}, http.MethodPost, "/rank?format=edgelist&dampener=0.5", "1 2\n2 1\n")
	require.Equal(t, http.StatusOK, rec.Code)
	var outcome node.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	require.Len(t, outcome.Ranks, 2)
	assert.InDelta(t, 0.5, outcome.Ranks[0].Score, 1e-12)
}

func TestApi_BadRequests(t *testing.T) {
	cases := map[string]string{
		"/rank?format=xml":                 "1 2",
		"/rank?format=edgelist&dampener=2": "1 2\n",
		"/rank?dampener=abc":               "1 2",
		"/rank":                            "1 0.85 2 A B 3 A B",
	}
	for target, body := range cases {
		rec := serve(&node.Node{}, http.MethodPost, target, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestApi_HealthAndMetrics(t *testing.T) {
	n := &node.Node{Metrics: node.NewMetrics()}
	rec := serve(n, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	serve(n, http.MethodPost, "/rank", dangling)
	rec = serve(n, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `pagerank_requests_total{status="ok",transport="http"} 1`)
	assert.Contains(t, rec.Body.String(), "pagerank_iterations_bucket")
}

func TestApi_NoMetricsRoute(t *testing.T) {
	rec := serve(&node.Node{}, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
