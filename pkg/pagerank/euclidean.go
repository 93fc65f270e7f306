package pagerank

// Number of squared differences accumulated between two threshold checks
const group = 8

// NotConverged reports whether the squared euclidean distance between
// oldScores and scores is greater than ep (already squared).
// It stops as soon as a partial sum exceeds ep: terms are non-negative, so the
// full sum could only be larger
func NotConverged(oldScores, scores []float64, ep float64) bool {
	n := len(scores)
	total := 0.0
	i := 0
	for ; i+group <= n; i += group {
		s := scores[i : i+group : i+group]
		o := oldScores[i : i+group : i+group]
		d0 := s[0] - o[0]
		d1 := s[1] - o[1]
		d2 := s[2] - o[2]
		d3 := s[3] - o[3]
		d4 := s[4] - o[4]
		d5 := s[5] - o[5]
		d6 := s[6] - o[6]
		d7 := s[7] - o[7]
		total += d0*d0 + d1*d1 + d2*d2 + d3*d3 + d4*d4 + d5*d5 + d6*d6 + d7*d7
		// Early termination
		if total > ep {
			return true
		}
	}
	// Remainder
	rest := 0.0
	for ; i < n; i++ {
		d := scores[i] - oldScores[i]
		rest += d * d
	}
	return total+rest > ep
}

// SquaredDistance is the full sum of squared differences, without early exit
func SquaredDistance(oldScores, scores []float64) float64 {
	total := 0.0
	for i := range scores {
		d := scores[i] - oldScores[i]
		total += d * d
	}
	return total
}
