// Package lookup wires entity search, synonym expansion, the SPARQL query
// and fuzzy filtering into the two operations exposed to agents.
package lookup

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/apptype"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/filter"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/metrics"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/synonyms"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/wikidata"
)

// DefaultLanguage is used when the caller gives none.
const DefaultLanguage = "en"

// Searcher resolves names to entities.
type Searcher interface {
	Search(ctx context.Context, name, lang string) ([]apptype.EntityRef, error)
}

// GraphQuerier runs SPARQL and returns the result rows.
type GraphQuerier interface {
	Query(ctx context.Context, query string) ([]apptype.GraphBinding, error)
}

// Expander looks up related words for each term.
type Expander interface {
	Expand(ctx context.Context, terms []string) (apptype.SynonymSet, error)
	Source() string
}

// Service runs the lookup pipeline. It holds no per-request state.
type Service struct {
	searcher Searcher
	graph    GraphQuerier
	expander Expander
	mode     synonyms.Mode
	filter   *filter.Filter
	logger   *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithExpander enables the synonym stage in the given mode.
func WithExpander(e Expander, mode synonyms.Mode) Option {
	return func(s *Service) {
		s.expander = e
		s.mode = mode
	}
}

// WithFilter replaces the default fuzzy filter.
func WithFilter(f *filter.Filter) Option {
	return func(s *Service) { s.filter = f }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a Service. Without WithExpander the synonym stage is off.
func New(searcher Searcher, graph GraphQuerier, opts ...Option) *Service {
	s := &Service{
		searcher: searcher,
		graph:    graph,
		mode:     synonyms.ModeOff,
		filter:   filter.New(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.expander == nil {
		s.mode = synonyms.ModeOff
	}
	return s
}

// SynonymMode reports the effective synonym mode.
func (s *Service) SynonymMode() synonyms.Mode { return s.mode }

// SynonymSource names the synonym provider, or "" when the stage is off.
func (s *Service) SynonymSource() string {
	if s.expander == nil {
		return ""
	}
	return s.expander.Source()
}

// FindItem returns up to the searcher's limit of candidate entities for name.
func (s *Service) FindItem(ctx context.Context, name, lang string) ([]apptype.EntityRef, error) {
	const op = "find item"
	if strings.TrimSpace(name) == "" {
		return nil, E(KindInvalidInput, op, errors.New("name is required"))
	}
	if lang == "" {
		lang = DefaultLanguage
	}
	refs, err := s.searcher.Search(ctx, name, lang)
	if err != nil {
		return nil, E(KindUpstream, op, err)
	}
	if len(refs) == 0 {
		return nil, E(KindNoResults, op, ErrNoResults)
	}
	return refs, nil
}

// QueryResult is the outcome of QueryData.
type QueryResult struct {
	Query apptype.AttributeQuery
	// Synonyms is nil when the synonym stage is off.
	Synonyms apptype.SynonymSet
	// Terms are the terms the filter actually used.
	Terms []string
	Data  *filter.Result
}

// QueryData fetches every statement of q.ItemID and keeps the values whose
// attribute label matches one of q.Terms. An empty match is a KindNoResults
// error; no partial result accompanies any error.
func (s *Service) QueryData(ctx context.Context, q apptype.AttributeQuery) (*QueryResult, error) {
	const op = "query data"
	if q.Language == "" {
		q.Language = DefaultLanguage
	}
	if q.ItemID == "" {
		return nil, E(KindInvalidInput, op, errors.New("item id is required"))
	}
	sparql, err := wikidata.BuildAttributeQuery(q.ItemID, q.Language)
	if err != nil {
		return nil, E(KindInvalidInput, op, err)
	}

	res := &QueryResult{Query: q, Terms: q.Terms}
	if s.mode != synonyms.ModeOff {
		set, err := s.expander.Expand(ctx, q.Terms)
		if err != nil {
			return nil, E(KindUpstream, op, err)
		}
		res.Synonyms = set
		if s.mode == synonyms.ModeExpand {
			res.Terms = synonyms.Terms(q.Terms, set)
		}
		s.logger.Debug("synonyms resolved",
			zap.String("mode", string(s.mode)),
			zap.Any("synonyms", set),
			zap.Strings("terms", res.Terms))
	}

	bindings, err := s.graph.Query(ctx, sparql)
	if err != nil {
		return nil, E(KindUpstream, op, err)
	}

	data, dropped := s.filter.Apply(bindings, res.Terms)
	metrics.Default().ObserveFilter(len(bindings)-dropped, dropped)
	s.logger.Debug("bindings filtered",
		zap.String("item", q.ItemID),
		zap.Int("bindings", len(bindings)),
		zap.Int("dropped", dropped),
		zap.Int("labels", data.Len()))
	if data.Empty() {
		return nil, E(KindNoResults, op, ErrNoResults)
	}
	res.Data = data
	return res, nil
}
