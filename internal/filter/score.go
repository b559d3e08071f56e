package filter

import (
	"math"

	"github.com/pmezard/go-difflib/difflib"
)

// Scorer rates how well a term matches an attribute label on a 0-100 scale.
type Scorer interface {
	Score(term, label string) int
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(term, label string) int

func (f ScorerFunc) Score(term, label string) int { return f(term, label) }

// PartialRatio scores the shorter string against the window of the longer
// one aligned to each of their matching blocks, keeping the best
// SequenceMatcher ratio (2*M/T) scaled to 0-100 and rounded half to even.
// A short string found verbatim inside a longer one scores 100. Equal
// strings score 100; otherwise empty input scores 0. When both have the
// same length, a is taken as the shorter.
func PartialRatio(a, b string) int {
	if a == b {
		return 100
	}
	short, long := chars(a), chars(b)
	if len(short) == 0 || len(long) == 0 {
		return 0
	}
	if len(short) > len(long) {
		short, long = long, short
	}

	best := 0.0
	for _, m := range difflib.NewMatcher(short, long).GetMatchingBlocks() {
		start := m.B - m.A
		if start < 0 {
			start = 0
		}
		end := start + len(short)
		if end > len(long) {
			end = len(long)
		}
		r := difflib.NewMatcher(short, long[start:end]).Ratio()
		if r > 0.995 {
			return 100
		}
		if r > best {
			best = r
		}
	}
	return int(math.RoundToEven(100 * best))
}

// chars splits s into one element per rune.
func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// PartialRatioScorer is the default Scorer.
var PartialRatioScorer Scorer = ScorerFunc(PartialRatio)
