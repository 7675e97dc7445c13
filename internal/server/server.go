package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rezonia/invoice-renderer/internal/logger"
	"github.com/rezonia/invoice-renderer/internal/metrics"
	"github.com/rezonia/invoice-renderer/internal/provider"
	"github.com/rezonia/invoice-renderer/internal/render"
	"github.com/rezonia/invoice-renderer/internal/store"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// ActorHeader names the user recorded in template audit fields
const ActorHeader = "X-Actor"

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
	QRImageSize  int
}

// Server represents the HTTP API server
type Server struct {
	config    *Config
	router    *gin.Engine
	engine    *render.Engine
	templates store.TemplateStore
	sales     provider.SaleProvider
	branches  provider.BranchProvider
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// Option configures a Server
type Option func(*Server)

// WithEngine replaces the render engine
func WithEngine(e *render.Engine) Option {
	return func(s *Server) {
		s.engine = e
	}
}

// WithMetrics enables Prometheus metrics and the /metrics endpoint
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger sets the request logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a new API server over its collaborators
func NewServer(config *Config, templates store.TemplateStore, sales provider.SaleProvider, branches provider.BranchProvider, opts ...Option) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:    config,
		router:    gin.New(),
		templates: templates,
		sales:     sales,
		branches:  branches,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = render.NewEngine(render.WithLogger(s.logger))
	}
	if s.config.QRImageSize <= 0 {
		s.config.QRImageSize = 256
	}

	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	v1 := s.router.Group("/api/v1")
	{
		// Template management
		v1.GET("/branches/:branch/templates", s.handleListTemplates)
		v1.POST("/branches/:branch/templates", s.handleCreateTemplate)
		v1.GET("/branches/:branch/templates/active", s.handleGetActiveTemplate)
		v1.GET("/templates/:id", s.handleGetTemplate)
		v1.PUT("/templates/:id", s.handleUpdateTemplate)
		v1.DELETE("/templates/:id", s.handleDeleteTemplate)
		v1.POST("/templates/:id/duplicate", s.handleDuplicateTemplate)
		v1.POST("/templates/:id/activate", s.handleActivateTemplate)

		// Rendering
		v1.GET("/templates/:id/preview", s.handleTemplatePreview)
		v1.POST("/preview", s.handlePreview)
		v1.GET("/branches/:branch/sales/:sale/invoice", s.handleInvoice)
		v1.GET("/branches/:branch/sales/:sale/qr", s.handleQR)
	}
}

// Run starts the HTTP server and shuts it down when ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestLogger assigns a request id, scopes a logger to the request
// context and records the access log line and request metrics
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)

		l := logger.WithRequestID(s.logger, requestID)
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		s.metrics.ObserveRequest(c.FullPath(), status)

		ev := l.Info()
		if status >= http.StatusInternalServerError {
			ev = l.Error()
		}
		for _, e := range c.Errors {
			ev = ev.AnErr("error", e.Err)
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func actor(c *gin.Context) string {
	if a := c.GetHeader(ActorHeader); a != "" {
		return a
	}
	return "system"
}
