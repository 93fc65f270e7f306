package node

import (
	"errors"
	"fmt"
	"time"

	"github.com/lioia/sparse-pagerank/pkg/graph"
	"github.com/lioia/sparse-pagerank/pkg/pagerank"
	"github.com/lioia/sparse-pagerank/pkg/utils"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Dampener used by formats that do not declare one, when the request does not
const DefaultDampener = 0.85

var ErrInvalidGraph = errors.New("invalid graph")

type Role int32

const (
	Server Role = iota // Serving rank requests over gRPC and HTTP
	Worker             // Consuming rank jobs from the work queue
)

type Node struct {
	Role          Role     // What this node has to do
	Connection    string   // This node connection information
	MaxIterations int      // Iteration cap for every computation (0: none)
	Metrics       *Metrics // Prometheus collectors
	Queue         Queue    // Queue information (workers only)
}

type Queue struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
	Work    *amqp.Queue
	Result  *amqp.Queue
}

// Outcome of a single rank request
type Outcome struct {
	Ranks      []pagerank.Rank `json:"ranks"`
	Iterations int             `json:"iterations"`
	Converged  bool            `json:"converged"`
	Mass       float64         `json:"mass"`
	Error      string          `json:"error,omitempty"`
}

func RoleToString(role Role) string {
	switch role {
	case Server:
		return "Server"
	case Worker:
		return "Worker"
	}
	return "Undefined"
}

// Rank parses contents and computes its PageRank.
// Returned errors wrap ErrInvalidGraph: there is nothing else that can fail
func (n *Node) Rank(transport string, contents []byte, format graph.Format, dampener float64) (Outcome, error) {
	start := time.Now()
	role := RoleToString(n.Role)
	in, err := graph.LoadGraphBytes(contents, format, dampener)
	if err != nil {
		n.Metrics.observe(transport, "invalid", 0, 0, time.Since(start))
		return Outcome{}, fmt.Errorf("%w: %w", ErrInvalidGraph, err)
	}
	compact, err := in.Compact()
	if err != nil {
		n.Metrics.observe(transport, "invalid", 0, 0, time.Since(start))
		return Outcome{}, fmt.Errorf("%w: %w", ErrInvalidGraph, err)
	}
	utils.NodeLog(role, "Ranking %d pages, %d edges (%s)", compact.NumPages(), compact.NumEdges(), transport)
	opts := []pagerank.Option{pagerank.WithMaxIterations(n.MaxIterations)}
	if utils.NodeLogEnabled() {
		opts = append(opts, pagerank.WithObserver(func(iteration int, scores []float64) {
			utils.IterationLog(role, iteration, pagerank.Mass(scores))
		}))
	}
	result := pagerank.New(compact, opts...).Run()
	if !result.Converged {
		utils.WarnLog(role, "Iteration cap reached (%d iterations)", result.Iterations)
	}
	utils.NodeLog(role, "Computation finished in %d iteration(s)", result.Iterations)
	n.Metrics.observe(transport, "ok", len(in.Pages), result.Iterations, time.Since(start))
	return Outcome{
		Ranks:      pagerank.Ranks(in.Pages, result.Scores),
		Iterations: result.Iterations,
		Converged:  result.Converged,
		Mass:       pagerank.Mass(result.Scores),
	}, nil
}
