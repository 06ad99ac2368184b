// Package sequence finds runs of consecutive integers in a comma-separated
// list.
package sequence

import (
	"math"
	"strconv"
	"strings"
)

// LongestRun returns the length of the longest run of positionally adjacent
// values where each is exactly one greater than the previous. A single value
// is not a run, so inputs with fewer than two values yield 0. A token that
// does not parse as a finite number ends the current run. An empty token
// counts as 0.
func LongestRun(text string) int {
	tokens := strings.Split(text, ",")
	values := make([]float64, len(tokens))
	valid := make([]bool, len(tokens))
	for i, tok := range tokens {
		values[i], valid[i] = parse(tok)
	}

	best, cur := 0, 1
	for i := 1; i < len(values); i++ {
		if valid[i-1] && valid[i] && values[i] == values[i-1]+1 {
			cur++
			best = max(best, cur)
		} else {
			cur = 1
		}
	}
	return best
}

func parse(tok string) (float64, bool) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
