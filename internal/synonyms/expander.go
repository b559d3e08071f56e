// Package synonyms looks up words related to the caller's attribute terms.
package synonyms

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/apptype"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/metrics"
)

// Mode controls what the pipeline does with synonyms.
type Mode string

const (
	// ModeOff skips the lookup entirely.
	ModeOff Mode = "off"
	// ModeAdvisory looks synonyms up and reports them without using them for filtering.
	ModeAdvisory Mode = "advisory"
	// ModeExpand appends synonyms to the filter terms after the caller's own terms.
	ModeExpand Mode = "expand"
)

// FailurePolicy controls what a failed lookup does to the request.
type FailurePolicy string

const (
	// PolicyAbort fails the whole request on the first failed lookup.
	PolicyAbort FailurePolicy = "abort"
	// PolicySkip leaves the failed term without synonyms and carries on.
	PolicySkip FailurePolicy = "skip"
)

// ParseMode parses a Mode, defaulting to ModeAdvisory.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAdvisory, nil
	case ModeOff, ModeAdvisory, ModeExpand:
		return m, nil
	default:
		return "", fmt.Errorf("unknown synonym mode %q (expected off, advisory or expand)", s)
	}
}

// ParseFailurePolicy parses a FailurePolicy, defaulting to PolicyAbort.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyAbort, nil
	case PolicyAbort, PolicySkip:
		return p, nil
	default:
		return "", fmt.Errorf("unknown synonym failure policy %q (expected abort or skip)", s)
	}
}

// Expander runs one lookup per term, sequentially and in term order.
type Expander struct {
	provider Provider
	policy   FailurePolicy
	logger   *zap.Logger
}

// NewExpander wraps provider.
func NewExpander(provider Provider, policy FailurePolicy, logger *zap.Logger) *Expander {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy == "" {
		policy = PolicyAbort
	}
	return &Expander{provider: provider, policy: policy, logger: logger}
}

// Source names the underlying provider.
func (e *Expander) Source() string { return e.provider.Name() }

// Expand returns the related words for every term.
func (e *Expander) Expand(ctx context.Context, terms []string) (apptype.SynonymSet, error) {
	set := make(apptype.SynonymSet, len(terms))
	for _, term := range terms {
		done := metrics.TimeUpstream("synonyms")
		words, err := e.provider.Related(ctx, term)
		done(err == nil)
		if err != nil {
			if e.policy == PolicySkip && ctx.Err() == nil {
				e.logger.Warn("synonym lookup failed, skipping term",
					zap.String("provider", e.provider.Name()),
					zap.String("term", term),
					zap.Error(err))
				set[term] = []string{}
				continue
			}
			return nil, fmt.Errorf("%s lookup for %q: %w", e.provider.Name(), term, err)
		}
		set[term] = words
	}
	return set, nil
}

// Terms returns terms followed by their synonyms in order, dropping
// case-insensitive duplicates. Caller terms therefore keep priority in
// first-match filtering.
func Terms(terms []string, set apptype.SynonymSet) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	add := func(w string) {
		k := strings.ToLower(strings.TrimSpace(w))
		if k == "" {
			return
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, w)
	}
	for _, t := range terms {
		add(t)
	}
	for _, t := range terms {
		for _, w := range set[t] {
			add(w)
		}
	}
	return out
}
