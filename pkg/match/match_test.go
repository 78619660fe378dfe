package match

import "testing"

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1.0},
		{"abc", "abc", 1.0},
		{"abc", "", 0.0},
		{"abcd", "bcde", 0.75},
		{"cisco", "cisco", 1.0},
	}

	for _, tt := range tests {
		if got := Ratio(tt.a, tt.b); got != tt.want {
			t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRatioSymmetricBounds(t *testing.T) {
	pairs := [][2]string{
		{"ws-c3850-48p", "c3850-48p"},
		{"catalyst", "cat"},
		{"n9k-c9336", "nexus9336"},
	}
	for _, p := range pairs {
		r := Ratio(p[0], p[1])
		if r < 0 || r > 1 {
			t.Errorf("Ratio(%q, %q) = %v out of [0,1]", p[0], p[1], r)
		}
	}
}

func TestBestMatchEmptySet(t *testing.T) {
	res := BestMatch("anything", nil, 0.0)
	if res.Matched {
		t.Error("BestMatch over empty set must not match")
	}
	if res.Candidate != "" {
		t.Errorf("BestMatch over empty set returned candidate %q", res.Candidate)
	}
}

func TestBestMatchCutoff(t *testing.T) {
	candidates := []string{"alpha", "beta", "gamma"}

	res := BestMatch("alphq", candidates, 0.8)
	if !res.Matched {
		t.Fatalf("expected match, got %+v", res)
	}
	if res.Candidate != "alpha" {
		t.Errorf("Candidate = %q, want alpha", res.Candidate)
	}
	if res.Score < 0.8 {
		t.Errorf("matched result has score %v below cutoff", res.Score)
	}

	// Matched must never be true with score below cutoff
	res = BestMatch("zzzz", candidates, 0.8)
	if res.Matched {
		t.Errorf("expected no match, got %+v", res)
	}
}

func TestBestMatchCaseInsensitive(t *testing.T) {
	res := BestMatch("CISCO", []string{"cisco"}, 0.9)
	if !res.Matched || res.Score != 1.0 {
		t.Errorf("expected exact case-insensitive match, got %+v", res)
	}
	if res.Strategy != StrategyExact {
		t.Errorf("Strategy = %q, want exact", res.Strategy)
	}
}

func TestBestMatchTieBreakFirstSeen(t *testing.T) {
	// Both candidates score identically against the query; the first in
	// iteration order must win.
	candidates := []string{"ab-x", "x-ab"}
	res := BestMatch("ab", candidates, 0.1)
	if res.Candidate != "ab-x" {
		t.Errorf("tie broken to %q, want first-seen ab-x", res.Candidate)
	}
}

func TestBestMatchFallbackOrder(t *testing.T) {
	// The bare model fails, the vendor composition succeeds; family and
	// platform compositions would also succeed but must not be reached.
	candidates := []string{"cisco-1100", "catalyst-1100", "ios-xe-1100"}
	fallbacks := []Fallback{
		{Query: "cisco-1100", Strategy: StrategyVendor},
		{Query: "catalyst-1100", Strategy: StrategyFamily},
		{Query: "ios-xe-1100", Strategy: StrategyPlatform},
	}

	res := BestMatchFallback("1100", fallbacks, candidates, 0.9)
	if !res.Matched {
		t.Fatalf("expected fallback match, got %+v", res)
	}
	if res.Candidate != "cisco-1100" {
		t.Errorf("Candidate = %q, want cisco-1100", res.Candidate)
	}
	if res.Strategy != StrategyVendor {
		t.Errorf("Strategy = %q, want %q", res.Strategy, StrategyVendor)
	}
}

func TestBestMatchFallbackPrimaryWins(t *testing.T) {
	res := BestMatchFallback("c9300-48p", []Fallback{
		{Query: "cisco-c9300-48p", Strategy: StrategyVendor},
	}, []string{"c9300-48p"}, 0.9)
	if !res.Matched || res.Strategy == StrategyVendor {
		t.Errorf("primary query should win before fallbacks, got %+v", res)
	}
}
