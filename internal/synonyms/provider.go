package synonyms

import (
	"context"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/httpx"
)

// Provider defines a thesaurus-style lookup.
type Provider interface {
	// Name returns the provider name (e.g., "datamuse", "openai").
	Name() string
	// Related returns words with a meaning similar to term, best first.
	Related(ctx context.Context, term string) ([]string, error)
}

// Config selects and configures the synonym stage.
type Config struct {
	Provider      string `mapstructure:"provider"`
	Mode          string `mapstructure:"mode"`
	FailurePolicy string `mapstructure:"failure_policy"`
	DatamuseURL   string `mapstructure:"datamuse_url"`
	MaxWords      int    `mapstructure:"max_words"`
	OpenAIModel   string `mapstructure:"openai_model"`
	OpenAIBaseURL string `mapstructure:"openai_base_url"`
	OpenAIAPIKey  string `mapstructure:"openai_api_key"`
}

// NewProvider constructs the configured provider.
// Provider: "datamuse" (default) or "openai". Returns nil when the openai
// provider is selected without an API key.
func NewProvider(cfg Config, doer httpx.Doer) Provider {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch name {
	case "openai", "llm":
		key := strings.TrimSpace(cfg.OpenAIAPIKey)
		if key == "" {
			key = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
		}
		if key == "" {
			return nil
		}
		return newOpenAIProvider(key, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.MaxWords, doer)
	default:
		return newDatamuseProvider(cfg.DatamuseURL, cfg.MaxWords, doer)
	}
}
