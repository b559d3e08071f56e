package wikidata

import (
	"time"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/config"
)

// Config exposes a stable wrapper for the lookup configuration in package
// mode. Zero fields keep the server defaults.
type Config struct {
	SearchURL   string
	SPARQLURL   string
	UserAgent   string
	SearchLimit int
	Timeout     time.Duration

	// SynonymMode is off, advisory or expand.
	SynonymMode string
	// SynonymProvider is datamuse or openai.
	SynonymProvider      string
	SynonymFailurePolicy string
	DatamuseURL          string
	OpenAIAPIKey         string
	OpenAIModel          string
	OpenAIBaseURL        string

	BreakerEnabled bool
}

func (c *Config) toInternal() *config.Config {
	out := config.Default()
	if c == nil {
		return out
	}
	setString(&out.Wikidata.SearchURL, c.SearchURL)
	setString(&out.Wikidata.SPARQLURL, c.SPARQLURL)
	setString(&out.Wikidata.UserAgent, c.UserAgent)
	if c.SearchLimit > 0 {
		out.Wikidata.SearchLimit = c.SearchLimit
	}
	if c.Timeout > 0 {
		out.HTTP.Timeout = c.Timeout
	}
	setString(&out.Synonyms.Mode, c.SynonymMode)
	setString(&out.Synonyms.Provider, c.SynonymProvider)
	setString(&out.Synonyms.FailurePolicy, c.SynonymFailurePolicy)
	setString(&out.Synonyms.DatamuseURL, c.DatamuseURL)
	setString(&out.Synonyms.OpenAIAPIKey, c.OpenAIAPIKey)
	setString(&out.Synonyms.OpenAIModel, c.OpenAIModel)
	setString(&out.Synonyms.OpenAIBaseURL, c.OpenAIBaseURL)
	out.Breaker.Enabled = c.BreakerEnabled
	return out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
