package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/is0692vs/chronoclip/internal/builder"
	servercfg "github.com/is0692vs/chronoclip/internal/config/server"
	"github.com/is0692vs/chronoclip/internal/dom"
	"github.com/is0692vs/chronoclip/internal/domain"
	"github.com/is0692vs/chronoclip/internal/fetch"
	"github.com/is0692vs/chronoclip/internal/logger"
	"github.com/is0692vs/chronoclip/internal/rules"
)

// Server serves the extraction and rules API.
type Server struct {
	cfg      *servercfg.Config
	builder  *builder.Builder
	registry *rules.Registry
	fetcher  *fetch.Fetcher
	engine   *gin.Engine
	log      logger.Interface
}

// NewServer wires the API routes.
func NewServer(
	cfg *servercfg.Config,
	eventBuilder *builder.Builder,
	registry *rules.Registry,
	fetcher *fetch.Fetcher,
	log logger.Interface,
) *Server {
	if log == nil {
		log = logger.NewNoOp()
	}
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		cfg:      cfg,
		builder:  eventBuilder,
		registry: registry,
		fetcher:  fetcher,
		engine:   gin.New(),
		log:      log.WithComponent("api"),
	}
	s.routes()
	return s
}

// routes registers middleware and handlers.
func (s *Server) routes() {
	s.engine.Use(gin.Recovery(), s.requestID(), s.requestLog())

	s.engine.GET("/health", s.handleHealth)

	v1 := s.engine.Group("/v1")
	v1.POST("/extract", s.handleExtract)
	v1.GET("/rules", s.handleListRules)
	v1.POST("/rules", s.handleAddRule)
	v1.DELETE("/rules/:domain", s.handleRemoveRule)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "address", s.cfg.Address)
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

// requestID tags each request with a UUID.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// requestLog logs one line per request.
func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString("request_id"))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleExtract extracts an event candidate from a fetched URL or an
// inline HTML body.
func (s *Server) handleExtract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.URL == "" && req.HTML == "" {
		respondBadRequest(c, "either url or html is required")
		return
	}

	html := req.HTML
	pageURL := req.PageURL
	if req.URL != "" {
		result, err := s.fetcher.Page(req.URL)
		if err != nil {
			s.log.Warn("page fetch failed", "url", req.URL, "error", err)
			respondUnavailable(c, "failed to fetch page")
			return
		}
		html = result.HTML
		if pageURL == "" {
			pageURL = result.URL
		}
	}

	node, err := dom.FromHTML(html, req.Selector)
	if err != nil && req.Selection == "" {
		respondBadRequest(c, err.Error())
		return
	}

	candidate, err := s.builder.Build(c.Request.Context(), req.Selection, node, builder.PageMeta{
		URL:   pageURL,
		Title: req.PageTitle,
	})
	if err != nil {
		if errors.Is(err, domain.ErrContextUnavailable) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, ExtractResponse{Candidate: candidate})
}

func (s *Server) handleListRules(c *gin.Context) {
	list := s.registry.Rules()
	c.JSON(http.StatusOK, RulesListResponse{Rules: list, Total: len(list)})
}

func (s *Server) handleAddRule(c *gin.Context) {
	var req RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	rule := domain.SiteRule{
		Priority:        req.Priority,
		Selectors:       req.Selectors,
		Enabled:         enabled,
		AllowSubdomains: req.AllowSubdomains,
	}

	if err := s.registry.Add(c.Request.Context(), req.Domain, rule, domain.OriginUser); err != nil {
		switch {
		case errors.Is(err, rules.ErrInvalidDomain):
			respondBadRequest(c, err.Error())
		case errors.Is(err, domain.ErrRuleStoreUnavailable):
			respondUnavailable(c, err.Error())
		default:
			respondInternalError(c, err.Error())
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"domain": rules.NormalizeDomain(req.Domain)})
}

func (s *Server) handleRemoveRule(c *gin.Context) {
	domainName := c.Param("domain")
	if err := s.registry.Remove(c.Request.Context(), domainName, domain.OriginUser); err != nil {
		switch {
		case errors.Is(err, rules.ErrRuleNotFound):
			respondNotFound(c, "rule")
		case errors.Is(err, domain.ErrRuleStoreUnavailable):
			respondUnavailable(c, err.Error())
		default:
			respondInternalError(c, err.Error())
		}
		return
	}
	c.Status(http.StatusNoContent)
}
