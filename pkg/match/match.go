// Package match provides the fuzzy string matching primitive used by every
// resolver in the import pipeline: manufacturer names, device models, module
// names, bay names, and elevation images all resolve through BestMatch.
//
// Scores are computed with a longest-matching-blocks sequence ratio so that
// results line up with the similarity scores operators are used to seeing in
// the mapping reports. Ties are broken by candidate order: the first
// candidate to reach the top score wins, and callers must preserve their
// candidate ordering to keep runs deterministic.
package match

import "strings"

// Strategy records how a match was obtained.
type Strategy string

const (
	StrategyExact    Strategy = "exact"
	StrategyFuzzy    Strategy = "fuzzy"
	StrategyVendor   Strategy = "fallback_vendor"
	StrategyFamily   Strategy = "fallback_family"
	StrategyPlatform Strategy = "fallback_platform"
)

// Result is the outcome of a single match attempt. When Matched is true the
// score is guaranteed to be at or above the cutoff used for the call; when
// Candidate is empty, Matched is false.
type Result struct {
	Matched   bool
	Candidate string
	Score     float64
	Strategy  Strategy
}

// Ratio returns a similarity measure in [0,1] between a and b, computed as
// 2*M/T where M is the total size of the longest matching blocks and T the
// combined length. Two empty strings are identical (ratio 1).
func Ratio(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matchingTotal(a, b)) / float64(total)
}

// matchingTotal sums the sizes of the longest matching blocks between a and
// b: find the longest common block, then recurse into the pieces to its left
// and right.
func matchingTotal(a, b string) int {
	b2j := make(map[byte][]int, len(b))
	for j := 0; j < len(b); j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(a), 0, len(b)}}
	matched := 0

	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := longestMatch(a, b2j, s.alo, s.ahi, s.blo, s.bhi)
		if k == 0 {
			continue
		}
		matched += k
		queue = append(queue,
			span{s.alo, i, s.blo, j},
			span{i + k, s.ahi, j + k, s.bhi})
	}
	return matched
}

// longestMatch finds the longest block of equal bytes between a[alo:ahi] and
// b[blo:bhi], preferring the earliest block in a on ties.
func longestMatch(a string, b2j map[byte][]int, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}

// BestMatch returns the highest-scoring candidate for query, comparing
// case-insensitively. The result is Matched only when the top score reaches
// cutoff. An empty candidate set always yields an unmatched result. Equal
// scores keep the first-seen candidate.
func BestMatch(query string, candidates []string, cutoff float64) Result {
	q := strings.ToLower(query)
	best := Result{Strategy: StrategyFuzzy}
	found := false
	for _, cand := range candidates {
		score := Ratio(q, strings.ToLower(cand))
		if !found || score > best.Score {
			best.Candidate = cand
			best.Score = score
			found = true
		}
	}
	if !found {
		return Result{Strategy: StrategyFuzzy}
	}
	if best.Score >= cutoff {
		best.Matched = true
		if strings.EqualFold(best.Candidate, query) {
			best.Strategy = StrategyExact
		}
	}
	return best
}

// Fallback is one alternative query composition tried when the bare query
// fails to match.
type Fallback struct {
	Query    string
	Strategy Strategy
}

// BestMatchFallback tries the primary query first, then each fallback
// composition in order, stopping at the first composition whose best
// candidate reaches the cutoff.
func BestMatchFallback(query string, fallbacks []Fallback, candidates []string, cutoff float64) Result {
	res := BestMatch(query, candidates, cutoff)
	if res.Matched {
		return res
	}
	for _, fb := range fallbacks {
		r := BestMatch(fb.Query, candidates, cutoff)
		if r.Matched {
			r.Strategy = fb.Strategy
			return r
		}
	}
	return res
}
