package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/buildinfo"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/config"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/logging"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/lookup"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/metrics"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/server"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "mcp-wikidata-go",
	Short: "Wikidata lookup server for agents",
	Long: `mcp-wikidata-go finds Wikidata items by name and returns the attributes
of an item whose names fuzzy match a list of queries.

It serves plain HTTP endpoints (/find-item, /query-data) or the same
operations as MCP tools over stdio or SSE.`,
	Version:       buildinfo.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml)")
	flags.String("transport", "http", "Transport to use: http, stdio or sse")
	flags.String("addr", ":8080", "Address to listen on for http and sse transports")
	flags.String("sse-endpoint", "/sse", "SSE endpoint path when using SSE transport")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("synonyms-mode", "advisory", "Synonym stage: off, advisory or expand")

	// Bind flags to viper
	_ = viper.BindPFlag("server.transport", flags.Lookup("transport"))
	_ = viper.BindPFlag("server.addr", flags.Lookup("addr"))
	_ = viper.BindPFlag("server.sse_endpoint", flags.Lookup("sse-endpoint"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("synonyms.mode", flags.Lookup("synonyms-mode"))
}

// initConfig reads in the config file if one was given.
func initConfig() {
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to read config file:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	if cfgFile != "" {
		logger.Info("using config file", zap.String("path", viper.ConfigFileUsed()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Set gin mode
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	// Initialize metrics (noop if disabled)
	metrics.InitFromEnv()

	pipeline, err := lookup.NewFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to configure lookup: %w", err)
	}

	logger.Info("starting server",
		zap.String("version", buildinfo.Version),
		zap.String("transport", cfg.Server.Transport))

	switch cfg.Server.Transport {
	case "stdio":
		err = server.NewMCPServer(pipeline, cfg.Breaker.Enabled, logger).Run(ctx)
	case "sse":
		err = server.NewMCPServer(pipeline, cfg.Breaker.Enabled, logger).RunSSE(ctx, cfg.Server.Addr, cfg.Server.SSEEndpoint)
	default:
		err = serveHTTP(ctx, server.NewHTTPServer(pipeline, cfg.Server.Addr, logger))
	}
	if err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func serveHTTP(ctx context.Context, srv *server.HTTPServer) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
