// Package server serves basic info panels over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inodb/vibe-panel/internal/annotation"
	"github.com/inodb/vibe-panel/internal/basicinfo"
	"github.com/inodb/vibe-panel/internal/datasource/oncokb"
	"github.com/inodb/vibe-panel/internal/output"
)

// RawSource is a Source that can also return the unparsed annotation
// document for a list of query fields, such as the Genome Nexus client.
// Empty fields means the source's default fields.
type RawSource interface {
	Raw(ctx context.Context, variant string, fields ...string) ([]byte, error)
}

// Config configures a Server.
type Config struct {
	Addr         string
	Genes        oncokb.GeneMap
	OncoKBURL    string
	QueryFields  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server renders panels for variants from an annotation source.
type Server struct {
	cfg    Config
	source annotation.Source
	router *gin.Engine
	logger *zap.Logger
}

// New creates a server. A nil logger disables logging.
func New(cfg Config, source annotation.Source, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 60 * time.Second
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(logger))

	s := &Server{cfg: cfg, source: source, router: router, logger: logger}
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/variant/:variant", s.handlePanel)
	s.router.GET("/annotation/:variant", s.handleAnnotation)

	api := s.router.Group("/api")
	{
		api.GET("/panel/:variant", s.handlePanelJSON)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// panelState is the panel state carried in the query string.
type panelState struct {
	transcript string
	igv        bool
	open       bool
}

func stateFromQuery(c *gin.Context) panelState {
	return panelState{
		transcript: c.Query("transcript"),
		igv:        c.Query("igv") == "true",
		open:       c.Query("transcripts") == "open",
	}
}

// href links to the panel page of a variant in the given state.
func (st panelState) href(variant string) string {
	q := url.Values{}
	if st.transcript != "" {
		q.Set("transcript", st.transcript)
	}
	if st.igv {
		q.Set("igv", "true")
	}
	if st.open {
		q.Set("transcripts", "open")
	}
	u := "/variant/" + url.PathEscape(variant)
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// buildView fetches the annotation and lays out the panel. It writes the
// error response itself and returns ok=false when the request is done.
func (s *Server) buildView(c *gin.Context, st panelState) (*basicinfo.View, bool) {
	variant := c.Param("variant")
	a, err := s.source.Summary(c.Request.Context(), variant)
	if err != nil {
		s.writeError(c, variant, err)
		return nil, false
	}

	props := basicinfo.PropsFor(a, s.cfg.Genes, st.transcript)
	props.Variant = variant
	props.IGV = st.igv
	props.OncoKBURL = s.cfg.OncoKBURL
	props.QueryFields = s.cfg.QueryFields

	p := basicinfo.NewPanel(props)
	p.SetLogger(s.logger)
	if st.open {
		p.Toggle()
	}
	return p.Build(), true
}

func (s *Server) handlePanel(c *gin.Context) {
	st := stateFromQuery(c)
	v, ok := s.buildView(c, st)
	if !ok {
		return
	}
	if v == nil {
		c.Status(http.StatusNoContent)
		return
	}

	variant := c.Param("variant")
	toggled := st
	toggled.open = !st.open
	links := output.Links{
		Toggle: toggled.href(variant),
		Transcript: func(id string) string {
			sel := st
			sel.transcript = id
			return sel.href(variant)
		},
	}

	var buf bytes.Buffer
	w := output.NewHTMLWriter(&buf, links)
	if err := w.Write(v); err != nil {
		s.writeError(c, variant, err)
		return
	}
	if err := w.Flush(); err != nil {
		s.writeError(c, variant, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handlePanelJSON(c *gin.Context) {
	v, ok := s.buildView(c, stateFromQuery(c))
	if !ok {
		return
	}
	if v == nil {
		c.Status(http.StatusNoContent)
		return
	}
	s.writeJSON(c, v)
}

// handleAnnotation serves the annotation document behind the panel's JSON
// link, for the fields named in its query. Sources that keep the raw document
// return it unchanged.
func (s *Server) handleAnnotation(c *gin.Context) {
	variant := c.Param("variant")
	if raw, ok := s.source.(RawSource); ok {
		data, err := raw.Raw(c.Request.Context(), variant, queryFields(c.Query("fields"))...)
		if err != nil {
			s.writeError(c, variant, err)
			return
		}
		c.Data(http.StatusOK, "application/json", data)
		return
	}

	a, err := s.source.Summary(c.Request.Context(), variant)
	if err != nil {
		s.writeError(c, variant, err)
		return
	}
	s.writeJSON(c, annotation.VariantAnnotation{Variant: variant, AnnotationSummary: a})
}

// queryFields splits a comma separated fields query, dropping empty names.
func queryFields(q string) []string {
	var fields []string
	for _, f := range strings.Split(q, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

func (s *Server) writeJSON(c *gin.Context, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.writeError(c, c.Param("variant"), err)
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (s *Server) writeError(c *gin.Context, variant string, err error) {
	if errors.Is(err, annotation.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no annotation for variant", "variant": variant})
		return
	}
	s.logger.Error("panel request failed",
		zap.String("variant", variant),
		zap.String("request_id", c.GetString("request_id")),
		zap.Error(err))
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "variant": variant})
}

// requestID tags each request with an X-Request-ID.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// requestLogger logs each request through zap.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")))
	}
}
