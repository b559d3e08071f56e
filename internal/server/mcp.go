package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/apptype"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/buildinfo"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/lookup"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/metrics"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/synonyms"
)

// synonymReporter is implemented by pipelines with a synonym stage.
type synonymReporter interface {
	SynonymMode() synonyms.Mode
	SynonymSource() string
}

// MCPServer handles MCP protocol communication
type MCPServer struct {
	server   *mcp.Server
	pipeline Pipeline
	breaker  bool
	logger   *zap.Logger
}

// NewMCPServer creates a new MCP server. breaker is reported by health_check.
func NewMCPServer(pipeline Pipeline, breaker bool, logger *zap.Logger) *MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: buildinfo.Version,
	}, nil)

	mcpServer := &MCPServer{
		server:   server,
		pipeline: pipeline,
		breaker:  breaker,
		logger:   logger,
	}
	mcpServer.setupToolHandlers()
	return mcpServer
}

// setupToolHandlers registers all MCP tools
func (s *MCPServer) setupToolHandlers() {
	findItemInputSchema, err := jsonschema.For[apptype.FindItemArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for FindItemArgs: %v", err))
	}
	// find_item and query_data answer with text: a JSON document followed
	// by an instruction sentence. Only health_check declares OutputSchema.
	queryDataInputSchema, err := jsonschema.For[apptype.QueryDataArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for QueryDataArgs: %v", err))
	}
	healthInputSchema, err := jsonschema.For[apptype.HealthArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for HealthArgs: %v", err))
	}
	healthOutputSchema, err := jsonschema.For[apptype.HealthResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for HealthResult: %v", err))
	}

	findItemAnnotations := mcp.ToolAnnotations{
		Title: "Find Item",
	}
	queryDataAnnotations := mcp.ToolAnnotations{
		Title: "Query Data",
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Annotations: &findItemAnnotations,
		Name:        "find_item",
		Title:       "Find Item",
		Description: "Returns a list of matching Wikidata Items which represent the thing you are looking for data on.",
		InputSchema: findItemInputSchema,
	}, s.handleFindItem)

	mcp.AddTool(s.server, &mcp.Tool{
		Annotations: &queryDataAnnotations,
		Name:        "query_data",
		Title:       "Query Data",
		Description: "Returns the datapoints of a Wikidata Item whose attribute names fuzzy match one of the queries.",
		InputSchema: queryDataInputSchema,
	}, s.handleQueryData)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "health_check",
		Title:        "Health Check",
		Description:  "Get server health and configuration info.",
		InputSchema:  healthInputSchema,
		OutputSchema: healthOutputSchema,
	}, s.handleHealth)
}

func (s *MCPServer) handleFindItem(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.FindItemArgs],
) (*mcp.CallToolResultFor[any], error) {
	done := metrics.TimeTool("find_item")
	args := params.Arguments
	refs, err := s.pipeline.FindItem(ctx, args.Name, args.Language)
	s.logFailure("find_item", err)
	r := renderFindItem(refs, err)
	done(!r.failed)
	return textResult(r), nil
}

func (s *MCPServer) handleQueryData(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.QueryDataArgs],
) (*mcp.CallToolResultFor[any], error) {
	done := metrics.TimeTool("query_data")
	args := params.Arguments
	res, err := s.pipeline.QueryData(ctx, apptype.AttributeQuery{
		ItemID:   args.ItemID,
		Terms:    args.Queries,
		Language: args.Language,
	})
	s.logFailure("query_data", err)
	r := renderQueryData(res, err)
	done(!r.failed)
	return textResult(r), nil
}

// handleHealth returns basic server health information
func (s *MCPServer) handleHealth(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.HealthArgs],
) (*mcp.CallToolResultFor[apptype.HealthResult], error) {
	done := metrics.TimeTool("health_check")
	defer func() { done(true) }()
	res := apptype.HealthResult{
		Name:        serverName,
		Version:     buildinfo.Version,
		Revision:    buildinfo.Revision,
		BuildDate:   buildinfo.BuildDate,
		SynonymMode: string(synonyms.ModeOff),
		Breaker:     s.breaker,
	}
	if sr, ok := s.pipeline.(synonymReporter); ok {
		res.SynonymMode = string(sr.SynonymMode())
		res.SynonymSource = sr.SynonymSource()
	}
	return &mcp.CallToolResultFor[apptype.HealthResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: "ok"}},
		StructuredContent: res,
	}, nil
}

func (s *MCPServer) logFailure(tool string, err error) {
	if err == nil {
		return
	}
	fields := []zap.Field{zap.String("tool", tool), zap.String("kind", lookup.KindOf(err).String()), zap.Error(err)}
	switch lookup.KindOf(err) {
	case lookup.KindUpstream:
		s.logger.Warn("upstream call failed", fields...)
	case lookup.KindUnexpected:
		s.logger.Error("unexpected failure", fields...)
	default:
		s.logger.Info("tool produced no data", fields...)
	}
}

func textResult(r reply) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: r.body}},
		IsError: r.failed,
	}
}

// Run starts the MCP server with stdio transport
func (s *MCPServer) Run(ctx context.Context) error {
	transport := mcp.NewStdioTransport()
	return s.server.Run(ctx, transport)
}

// RunSSE starts the MCP server over SSE at the given address and endpoint
func (s *MCPServer) RunSSE(ctx context.Context, addr string, endpoint string) error {
	handler := mcp.NewSSEHandler(func(r *http.Request) *mcp.Server { return s.server })
	mux := http.NewServeMux()
	mux.Handle(endpoint, handler)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 0)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("SSE MCP server listening", zap.String("addr", addr), zap.String("endpoint", endpoint))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
