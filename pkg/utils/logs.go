package utils

import (
	"fmt"
	"log"
)

var nodeLog bool
var serverLog bool

// node: computation logs (iterations, convergence); server: transport logs
func InitLog(node, server bool) {
	nodeLog = node
	serverLog = server
}

func ServerLog(format string, v ...any) {
	if serverLog {
		log.Printf("INFO Server: %s", fmt.Sprintf(format, v...))
	}
}

func NodeLog(role string, format string, v ...any) {
	if nodeLog {
		log.Printf("INFO Rank %s: %s", role, fmt.Sprintf(format, v...))
	}
}

// IterationLog traces a single power iteration; mass drops below 1 when
// dangling pages leak score
func IterationLog(role string, iteration int, mass float64) {
	if nodeLog {
		log.Printf("INFO Rank %s: iteration %d, mass %.6f", role, iteration, mass)
	}
}

// NodeLogEnabled reports whether computation logs are on, so callers can skip
// work only needed to build a log line
func NodeLogEnabled() bool {
	return nodeLog
}

func WarnLog(role string, format string, v ...any) {
	log.Printf("WARN %s: %s", role, fmt.Sprintf(format, v...))
}
