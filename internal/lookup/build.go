package lookup

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/config"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/httpx"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/synonyms"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/wikidata"
)

// NewFromConfig builds a Service with real Wikidata and thesaurus clients.
// Each upstream gets its own breaker when breakers are enabled.
func NewFromConfig(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mode, err := synonyms.ParseMode(cfg.Synonyms.Mode)
	if err != nil {
		return nil, err
	}
	policy, err := synonyms.ParseFailurePolicy(cfg.Synonyms.FailurePolicy)
	if err != nil {
		return nil, err
	}

	client := httpx.NewClient(cfg.HTTP.Timeout)
	searcher := wikidata.NewSearcher(cfg.Wikidata.SearchURL, cfg.Wikidata.UserAgent, cfg.Wikidata.SearchLimit,
		httpx.WithBreaker(client, "search", cfg.Breaker, logger))
	graph := wikidata.NewSPARQLClient(cfg.Wikidata.SPARQLURL, cfg.Wikidata.UserAgent,
		httpx.WithBreaker(client, "sparql", cfg.Breaker, logger))

	opts := []Option{WithLogger(logger)}
	if mode != synonyms.ModeOff {
		provider := synonyms.NewProvider(cfg.Synonyms, httpx.WithBreaker(client, "synonyms", cfg.Breaker, logger))
		if provider == nil {
			return nil, fmt.Errorf("synonym provider %q is not configured (missing API key?)", cfg.Synonyms.Provider)
		}
		opts = append(opts, WithExpander(synonyms.NewExpander(provider, policy, logger), mode))
	}

	logger.Info("lookup service configured",
		zap.String("search_url", cfg.Wikidata.SearchURL),
		zap.String("sparql_url", cfg.Wikidata.SPARQLURL),
		zap.String("synonym_mode", string(mode)),
		zap.String("synonym_policy", string(policy)),
		zap.Bool("breaker", cfg.Breaker.Enabled))
	return New(searcher, graph, opts...), nil
}
