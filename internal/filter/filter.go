// Package filter keeps the graph bindings whose attribute label loosely
// matches one of the caller's terms.
package filter

import (
	"strings"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/apptype"
)

// DefaultThreshold is the minimum score for a term to accept a label.
const DefaultThreshold = 80

// Filter scores attribute labels against query terms.
type Filter struct {
	scorer    Scorer
	threshold int
}

// Option configures a Filter.
type Option func(*Filter)

// WithScorer replaces the partial ratio scorer.
func WithScorer(s Scorer) Option {
	return func(f *Filter) {
		if s != nil {
			f.scorer = s
		}
	}
}

// WithThreshold overrides DefaultThreshold.
func WithThreshold(n int) Option {
	return func(f *Filter) { f.threshold = n }
}

// New creates a Filter using PartialRatio and DefaultThreshold unless overridden.
func New(opts ...Option) *Filter {
	f := &Filter{scorer: PartialRatioScorer, threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Threshold returns the acceptance threshold.
func (f *Filter) Threshold() int { return f.threshold }

// Match returns the first term, in list order, whose score against label
// reaches the threshold. Later terms are not scored once one matches.
func (f *Filter) Match(label string, terms []string) (term string, score int, ok bool) {
	l := strings.ToLower(label)
	for _, t := range terms {
		s := f.scorer.Score(strings.ToLower(t), l)
		if s >= f.threshold {
			return t, s, true
		}
	}
	return "", 0, false
}

// Apply walks bindings in order and files each accepted value under its
// attribute label. It also returns how many bindings were dropped.
func (f *Filter) Apply(bindings []apptype.GraphBinding, terms []string) (*Result, int) {
	res := NewResult()
	dropped := 0
	for _, b := range bindings {
		if _, _, ok := f.Match(b.AttributeLabel, terms); !ok {
			dropped++
			continue
		}
		res.Add(b.AttributeLabel, b.Value)
	}
	return res, dropped
}
