// Package wikidata provides a library-first API for the lookup pipeline
// without any transport.
package wikidata

import (
	"context"

	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/apptype"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/lookup"
)

// Service runs item searches and attribute queries against Wikidata.
type Service struct {
	l *lookup.Service
}

// NewService constructs a Service with the provided config. A nil config
// uses the defaults. logger may be nil.
func NewService(cfg *Config, logger *zap.Logger) (*Service, error) {
	ic := cfg.toInternal()
	if err := ic.Validate(); err != nil {
		return nil, err
	}
	l, err := lookup.NewFromConfig(ic, logger)
	if err != nil {
		return nil, err
	}
	return &Service{l: l}, nil
}

// FindItem returns candidate entities for name in ranking order.
func (s *Service) FindItem(ctx context.Context, name, language string) ([]apptype.EntityRef, error) {
	return s.l.FindItem(ctx, name, language)
}

// QueryData returns the values of itemID whose attribute labels match one
// of queries, along with any synonyms looked up on the way.
func (s *Service) QueryData(ctx context.Context, itemID string, queries []string, language string) (*lookup.QueryResult, error) {
	return s.l.QueryData(ctx, apptype.AttributeQuery{ItemID: itemID, Terms: queries, Language: language})
}

// Attributes is QueryData reduced to a plain label to values map.
func (s *Service) Attributes(ctx context.Context, itemID string, queries []string, language string) (map[string][]string, error) {
	res, err := s.QueryData(ctx, itemID, queries, language)
	if err != nil {
		return nil, err
	}
	return res.Data.Map(), nil
}

// IsNoResults reports whether err means the search or filter found nothing.
func IsNoResults(err error) bool { return lookup.KindOf(err) == lookup.KindNoResults }

// IsInvalidInput reports whether err means the arguments were rejected
// before any upstream call.
func IsInvalidInput(err error) bool { return lookup.KindOf(err) == lookup.KindInvalidInput }
