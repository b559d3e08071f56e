package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/apptype"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/buildinfo"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/lookup"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/metrics"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/response"
)

const (
	serverName      = "mcp-wikidata-go"
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// Pipeline is the lookup surface the transports call into.
type Pipeline interface {
	FindItem(ctx context.Context, name, lang string) ([]apptype.EntityRef, error)
	QueryData(ctx context.Context, q apptype.AttributeQuery) (*lookup.QueryResult, error)
}

// HTTPServer exposes the pipeline as GET endpoints.
type HTTPServer struct {
	pipeline Pipeline
	logger   *zap.Logger
	router   *gin.Engine
	server   *http.Server
}

// NewHTTPServer creates the router. The gin mode is process-wide and is
// set by the caller before construction.
func NewHTTPServer(pipeline Pipeline, addr string, logger *zap.Logger) *HTTPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &HTTPServer{
		pipeline: pipeline,
		logger:   logger,
		router:   gin.New(),
	}

	s.router.Use(requestIDMiddleware())
	s.router.Use(loggerMiddleware(logger))
	s.router.Use(gin.CustomRecovery(s.handlePanic))
	s.router.Use(corsMiddleware())

	s.setupRoutes()

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler { return s.router }

func (s *HTTPServer) setupRoutes() {
	s.router.GET("/find-item", s.handleFindItem)
	s.router.GET("/query-data", s.handleQueryData)
	s.router.GET("/healthz", s.handleHealth)
}

// Start serves until Stop is called. It returns nil after a clean shutdown.
func (s *HTTPServer) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the server gracefully
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleFindItem(c *gin.Context) {
	done := metrics.TimeTool("find_item")
	name := c.Query("name")
	lang := c.DefaultQuery("language", lookup.DefaultLanguage)

	var r reply
	if name == "" {
		r = renderFindItem(nil, lookup.E(lookup.KindInvalidInput, "find item", errors.New("missing query parameter: name")))
	} else {
		refs, err := s.pipeline.FindItem(c.Request.Context(), name, lang)
		s.logFailure(c, "find_item", err)
		r = renderFindItem(refs, err)
	}
	done(!r.failed)
	write(c, r)
}

func (s *HTTPServer) handleQueryData(c *gin.Context) {
	done := metrics.TimeTool("query_data")
	q := apptype.AttributeQuery{
		ItemID:   c.Query("item_id"),
		Terms:    c.QueryArray("queries"),
		Language: c.DefaultQuery("language", lookup.DefaultLanguage),
	}

	var r reply
	if q.ItemID == "" {
		r = renderQueryData(nil, lookup.E(lookup.KindInvalidInput, "query data", errors.New("missing query parameter: item_id")))
	} else {
		res, err := s.pipeline.QueryData(c.Request.Context(), q)
		s.logFailure(c, "query_data", err)
		r = renderQueryData(res, err)
	}
	done(!r.failed)
	write(c, r)
}

func (s *HTTPServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    serverName,
		"version": buildinfo.Version,
	})
}

func (s *HTTPServer) logFailure(c *gin.Context, op string, err error) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String(requestIDKey, c.GetString(requestIDKey)),
		zap.String("op", op),
		zap.String("kind", lookup.KindOf(err).String()),
		zap.Error(err),
	}
	switch lookup.KindOf(err) {
	case lookup.KindNoResults, lookup.KindInvalidInput:
		s.logger.Info("request produced no data", fields...)
	case lookup.KindUpstream:
		s.logger.Warn("upstream call failed", fields...)
	default:
		s.logger.Error("unexpected failure", fields...)
	}
}

// handlePanic turns a handler panic into the usual error body.
func (s *HTTPServer) handlePanic(c *gin.Context, rec any) {
	err := lookup.E(lookup.KindUnexpected, "", fmt.Errorf("panic: %v", rec))
	s.logger.Error("handler panicked",
		zap.String(requestIDKey, c.GetString(requestIDKey)),
		zap.String("path", c.Request.URL.Path),
		zap.Any("panic", rec))
	describe := response.QueryDataFailure
	if c.FullPath() == "/find-item" {
		describe = response.FindItemFailure
	}
	c.Data(http.StatusInternalServerError, "application/json", []byte(response.ErrorJSON(describe(cause(err)))))
	c.Abort()
}

func write(c *gin.Context, r reply) {
	contentType := "text/plain; charset=utf-8"
	if r.failed {
		contentType = "application/json"
	}
	c.Data(r.status, contentType, []byte(r.body))
}

// requestIDMiddleware honours an incoming X-Request-ID or assigns a new one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// loggerMiddleware logs one line per request.
func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String(requestIDKey, c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "*")
		c.Header("Access-Control-Allow-Methods", "*")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
