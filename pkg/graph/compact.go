package graph

import (
	"errors"
	"fmt"
)

var (
	ErrEdgeCount = errors.New("edge count does not match inbound links")
	ErrPageIndex = errors.New("invalid page")
)

// CompactGraph is the coordinate-list form of the inbound link relation.
// Edge e says: Rows[e] receives Weights[e] times the score of Cols[e]
type CompactGraph struct {
	Rows        []int     // Target page of every edge
	Cols        []int     // Source page of every edge
	Weights     []float64 // dampener / OutLinks(source)
	Reciprocals []float64 // dampener / k, indexed by out-degree k (slot 0 unused)
	Baseline    []float64 // (1 - dampener) / npages for every page
	Dampener    float64
}

func (c *CompactGraph) NumPages() int {
	return len(c.Baseline)
}

func (c *CompactGraph) NumEdges() int {
	return len(c.Rows)
}

// Compact builds the sparse representation of pages.
// nedges has to be the exact number of inbound link relations
func Compact(pages []*Page, nedges int, dampener float64) (*CompactGraph, error) {
	if !validDampener(dampener) {
		return nil, fmt.Errorf("%w: got %v", ErrDampener, dampener)
	}
	if nedges < 0 {
		return nil, fmt.Errorf("%w: declared %d", ErrEdgeCount, nedges)
	}
	npages := len(pages)
	// Sized on the relations actually present, never on the declared count
	size := 0
	for _, page := range pages {
		size += len(page.InLinks)
	}
	if size > nedges {
		size = nedges
	}
	c := &CompactGraph{
		Rows:        make([]int, 0, size),
		Cols:        make([]int, 0, size),
		Weights:     make([]float64, 0, size),
		Reciprocals: make([]float64, npages+1),
		Baseline:    make([]float64, npages),
		Dampener:    dampener,
	}
	// Caches possible divisions by the number of outlinks
	for k := 1; k <= npages; k++ {
		c.Reciprocals[k] = dampener / float64(k)
	}

	for _, page := range pages {
		if page.Index < 0 || page.Index >= npages {
			return nil, fmt.Errorf("%w: %s has index %d (%d pages)", ErrPageIndex, page.Name, page.Index, npages)
		}
		for _, source := range page.InLinks {
			if len(c.Rows) == nedges {
				return nil, fmt.Errorf("%w: declared %d, found more", ErrEdgeCount, nedges)
			}
			if source.Index < 0 || source.Index >= npages {
				return nil, fmt.Errorf("%w: %s has index %d (%d pages)", ErrPageIndex, source.Name, source.Index, npages)
			}
			// Out-degree can exceed npages only with repeated edges
			if source.OutLinks < 1 || source.OutLinks > npages {
				return nil, fmt.Errorf("%w: %s links to %s with %d outlinks", ErrPageIndex, source.Name, page.Name, source.OutLinks)
			}
			c.Rows = append(c.Rows, page.Index)
			c.Cols = append(c.Cols, source.Index)
			c.Weights = append(c.Weights, c.Reciprocals[source.OutLinks])
		}
	}
	if len(c.Rows) != nedges {
		return nil, fmt.Errorf("%w: declared %d, found %d", ErrEdgeCount, nedges, len(c.Rows))
	}

	if npages > 0 {
		base := (1 - dampener) / float64(npages)
		for i := range c.Baseline {
			c.Baseline[i] = base
		}
	}
	return c, nil
}
