package pagerank

import (
	"bufio"
	"fmt"
	"io"

	"github.com/lioia/sparse-pagerank/pkg/graph"
)

// Rank of a single page, as handed to the reporting step
type Rank struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Ranks pairs every page with its score, in page list order
func Ranks(pages []*graph.Page, scores []float64) []Rank {
	ranks := make([]Rank, 0, len(pages))
	for _, page := range pages {
		ranks = append(ranks, Rank{Name: page.Name, Score: scores[page.Index]})
	}
	return ranks
}

// WriteReport writes one "name score" line per page, score with 4 decimals
func WriteReport(w io.Writer, ranks []Rank) error {
	buf := bufio.NewWriter(w)
	for _, r := range ranks {
		if _, err := fmt.Fprintf(buf, "%s %.4f\n", r.Name, r.Score); err != nil {
			return err
		}
	}
	return buf.Flush()
}

// Compute runs the whole pipeline on in: compaction, power iteration and
// pairing of the scores with the page names
func Compute(in *graph.Input, opts ...Option) ([]Rank, Result, error) {
	compact, err := in.Compact()
	if err != nil {
		return nil, Result{}, err
	}
	result := New(compact, opts...).Run()
	return Ranks(in.Pages, result.Scores), result, nil
}
