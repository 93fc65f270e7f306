package pagerank_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lioia/sparse-pagerank/pkg/graph"
	"github.com/lioia/sparse-pagerank/pkg/pagerank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	err := pagerank.WriteReport(&buf, []pagerank.Rank{{Name: "A", Score: 0.075}, {Name: "B", Score: 1.0 / 3}})
	require.NoError(t, err)
	assert.Equal(t, "A 0.0750\nB 0.3333\n", buf.String())
}

func TestCompute(t *testing.T) {
	in, err := graph.Parse(strings.NewReader("4 0.85 3 A B C 3 A B B C C A"))
	require.NoError(t, err)
	ranks, result, err := pagerank.Compute(in)
	require.NoError(t, err)
	require.True(t, result.Converged)
	require.Len(t, ranks, 3)
	var buf bytes.Buffer
	require.NoError(t, pagerank.WriteReport(&buf, ranks))
	assert.Equal(t, "A 0.3333\nB 0.3333\nC 0.3333\n", buf.String())
}

func TestCompute_EdgeCountMismatch(t *testing.T) {
	in, err := graph.Parse(strings.NewReader("1 0.85 2 A B 1 A B"))
	require.NoError(t, err)
	in.Edges = 5
	_, _, err = pagerank.Compute(in)
	require.ErrorIs(t, err, graph.ErrEdgeCount)
}
