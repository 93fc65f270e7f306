package pagerank

import (
	"github.com/lioia/sparse-pagerank/pkg/graph"
	"gonum.org/v1/gonum/floats"
)

// Convergence epsilon; iteration stops once the squared euclidean distance
// between two consecutive score vectors is not greater than Epsilon²
const Epsilon = 0.005

type Result struct {
	Scores     []float64 // Score of every page, by page index
	Iterations int       // Number of completed sweeps
	Converged  bool      // False only if the iteration cap was reached
}

type Option func(*Engine)

// 0 (default) means no cap
func WithMaxIterations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

// fn is called after every sweep with the iteration number (starting at 1)
// and the current scores; scores must not be retained or modified
func WithObserver(fn func(iteration int, scores []float64)) Option {
	return func(e *Engine) {
		e.observer = fn
	}
}

// Engine runs the damped power iteration over a compact graph.
// It exclusively owns the graph and both score buffers for the whole run
type Engine struct {
	graph         *graph.CompactGraph
	scores        []float64 // Scores of the current iteration
	oldScores     []float64 // Scores of the previous iteration
	ep            float64   // Squared epsilon
	iterations    int
	maxIterations int
	observer      func(int, []float64)
}

func New(g *graph.CompactGraph, opts ...Option) *Engine {
	n := g.NumPages()
	e := &Engine{
		graph:     g,
		scores:    make([]float64, n),
		oldScores: make([]float64, n),
		ep:        Epsilon * Epsilon,
	}
	for _, opt := range opts {
		opt(e)
	}
	// Uniform starting distribution
	if n > 0 {
		oneOverPages := 1.0 / float64(n)
		for i := range e.scores {
			e.scores[i] = oneOverPages
		}
	}
	return e
}

// Step runs one sweep and reports whether the scores have not converged yet
func (e *Engine) Step() bool {
	// Reuse the buffers instead of allocating new ones
	e.scores, e.oldScores = e.oldScores, e.scores
	scores, oldScores := e.scores, e.oldScores
	copy(scores, e.graph.Baseline)

	rows, cols, weights := e.graph.Rows, e.graph.Cols, e.graph.Weights
	// Same length for the three slices, so the compiler can drop bound checks
	cols = cols[:len(rows)]
	weights = weights[:len(rows)]
	for i, row := range rows {
		scores[row] += oldScores[cols[i]] * weights[i]
	}

	e.iterations += 1
	if e.observer != nil {
		e.observer(e.iterations, scores)
	}
	return NotConverged(oldScores, scores, e.ep)
}

// Run iterates until convergence (or until the iteration cap, if any)
func (e *Engine) Run() Result {
	converged := false
	for {
		if !e.Step() {
			converged = true
			break
		}
		if e.maxIterations > 0 && e.iterations >= e.maxIterations {
			break
		}
	}
	return Result{Scores: e.scores, Iterations: e.iterations, Converged: converged}
}

func (e *Engine) Scores() []float64 {
	return e.scores
}

func (e *Engine) Iterations() int {
	return e.iterations
}

// Mass is the total score; it is lower than 1 when dangling pages are present
func Mass(scores []float64) float64 {
	return floats.Sum(scores)
}
