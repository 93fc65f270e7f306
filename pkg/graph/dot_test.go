package graph_test

import (
	"bytes"
	"testing"

	"github.com/goccy/go-graphviz"
	"github.com/lioia/sparse-pagerank/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Dot(t *testing.T) {
	in := parse(t, cycle)
	var buf bytes.Buffer
	require.NoError(t, graph.Render(&buf, in.Pages, []float64{0.5, 0.25, 0.25}, graphviz.XDOT))
	out := buf.String()
	assert.Contains(t, out, "->")
	assert.Contains(t, out, "0.5000")
}

func TestRender_WithoutScores(t *testing.T) {
	in := parse(t, cycle)
	var buf bytes.Buffer
	require.NoError(t, graph.Render(&buf, in.Pages, nil, graphviz.XDOT))
	assert.Contains(t, buf.String(), "->")
}

func TestRender_ScoreCountMismatch(t *testing.T) {
	in := parse(t, cycle)
	var buf bytes.Buffer
	require.Error(t, graph.Render(&buf, in.Pages, []float64{1}, graphviz.XDOT))
}
