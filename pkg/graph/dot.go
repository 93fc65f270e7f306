package graph

import (
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// Render writes the page graph in the given graphviz format (graphviz.XDOT,
// graphviz.SVG, ...). When scores is not nil every page is labelled with its
// score and its font is scaled relative to the best ranked page
func Render(w io.Writer, pages []*Page, scores []float64, format graphviz.Format) (err error) {
	if scores != nil && len(scores) != len(pages) {
		return fmt.Errorf("%d scores for %d pages", len(scores), len(pages))
	}
	g := graphviz.New()
	defer g.Close()
	graph, err := g.Graph()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := graph.Close(); err == nil {
			err = closeErr
		}
	}()

	maxScore := 0.0
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	nodes := make([]*cgraph.Node, len(pages))
	for _, page := range pages {
		node, err := graph.CreateNode(page.Name)
		if err != nil {
			return fmt.Errorf("could not create node %s: %w", page.Name, err)
		}
		if scores != nil {
			score := scores[page.Index]
			node.SetLabel(fmt.Sprintf("%s\n%.4f", page.Name, score))
			if maxScore > 0 {
				node.SetFontSize(10 + 14*score/maxScore)
			}
		}
		nodes[page.Index] = node
	}
	edge := 0
	for _, page := range pages {
		for _, source := range page.InLinks {
			name := fmt.Sprintf("e%d", edge)
			if _, err := graph.CreateEdge(name, nodes[source.Index], nodes[page.Index]); err != nil {
				return fmt.Errorf("could not create edge %s -> %s: %w", source.Name, page.Name, err)
			}
			edge += 1
		}
	}
	return g.Render(graph, format, w)
}
