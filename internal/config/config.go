// Package config loads server configuration from defaults, an optional
// config file and WDQ_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/httpx"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/synonyms"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/wikidata"
)

// EnvPrefix prefixes every environment override, e.g. WDQ_SERVER_ADDR.
const EnvPrefix = "WDQ"

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Wikidata endpoints
	Wikidata WikidataConfig `mapstructure:"wikidata"`

	// Synonym stage
	Synonyms synonyms.Config `mapstructure:"synonyms"`

	// Outbound HTTP
	HTTP HTTPConfig `mapstructure:"http"`

	// Breaker wraps every outbound client when enabled
	Breaker httpx.BreakerConfig `mapstructure:"breaker"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Addr        string `mapstructure:"addr"`
	Transport   string `mapstructure:"transport"` // http, stdio, sse
	SSEEndpoint string `mapstructure:"sse_endpoint"`
	Mode        string `mapstructure:"mode"` // gin mode: debug, release, test
}

// WikidataConfig holds the upstream endpoints
type WikidataConfig struct {
	SearchURL   string `mapstructure:"search_url"`
	SPARQLURL   string `mapstructure:"sparql_url"`
	UserAgent   string `mapstructure:"user_agent"`
	SearchLimit int    `mapstructure:"search_limit"`
}

// HTTPConfig holds outbound client settings
type HTTPConfig struct {
	// Timeout of zero leaves requests bounded only by the caller's context.
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultUserAgent identifies this server to Wikidata.
const DefaultUserAgent = "mcp-wikidata-go/1.0 (https://github.com/ZanzyTHEbar/mcp-wikidata-go)"

// Load reads configuration from v. Environment variables override file
// values, which override defaults. A nil v uses the global viper instance.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.GetViper()
	}
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in defaults without reading files or the
// environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// defaults always decode
	_ = v.Unmarshal(cfg)
	return cfg
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.transport", "http")
	v.SetDefault("server.sse_endpoint", "/sse")
	v.SetDefault("server.mode", "release")

	v.SetDefault("wikidata.search_url", wikidata.DefaultSearchURL)
	v.SetDefault("wikidata.sparql_url", wikidata.DefaultSPARQLURL)
	v.SetDefault("wikidata.user_agent", DefaultUserAgent)
	v.SetDefault("wikidata.search_limit", wikidata.DefaultSearchLimit)

	v.SetDefault("synonyms.provider", "datamuse")
	v.SetDefault("synonyms.mode", string(synonyms.ModeAdvisory))
	v.SetDefault("synonyms.failure_policy", string(synonyms.PolicyAbort))
	v.SetDefault("synonyms.datamuse_url", synonyms.DefaultDatamuseURL)
	v.SetDefault("synonyms.max_words", 0)
	v.SetDefault("synonyms.openai_model", "")
	v.SetDefault("synonyms.openai_base_url", "")
	v.SetDefault("synonyms.openai_api_key", "")

	v.SetDefault("http.timeout", time.Duration(0))

	v.SetDefault("breaker.enabled", false)
	v.SetDefault("breaker.max_requests", 1)
	v.SetDefault("breaker.interval", 60)
	v.SetDefault("breaker.timeout", 30)
	v.SetDefault("breaker.trip_ratio", 0.6)
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case "http", "stdio", "sse":
	default:
		return fmt.Errorf("unknown transport %q (expected: http, stdio or sse)", c.Server.Transport)
	}
	if _, err := synonyms.ParseMode(c.Synonyms.Mode); err != nil {
		return err
	}
	if _, err := synonyms.ParseFailurePolicy(c.Synonyms.FailurePolicy); err != nil {
		return err
	}
	if c.Wikidata.SearchLimit <= 0 {
		return fmt.Errorf("wikidata.search_limit must be positive, got %d", c.Wikidata.SearchLimit)
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative, got %s", c.HTTP.Timeout)
	}
	return nil
}
