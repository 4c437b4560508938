// Package genomenexus is a client for the Genome Nexus variant annotation API.
package genomenexus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/inodb/vibe-panel/internal/annotation"
)

// DefaultURL is the public Genome Nexus API.
const DefaultURL = "https://www.genomenexus.org"

// Config configures a Client.
type Config struct {
	BaseURL   string        `mapstructure:"url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit int           `mapstructure:"rate_limit"` // requests per second
	Fields    []string      `mapstructure:"fields"`     // annotation fields to request
}

// Client fetches annotation summaries from Genome Nexus.
type Client struct {
	baseURL    string
	fields     []string
	httpClient *http.Client
	rateLimit  *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a client. Zero config values get defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 10
	}
	if len(cfg.Fields) == 0 {
		cfg.Fields = []string{"annotation_summary"}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		fields:     cfg.Fields,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		rateLimit:  rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger for request messages.
func (c *Client) SetLogger(l *zap.Logger) {
	c.logger = l
}

// AnnotationURL returns the API URL of a variant's annotation. Empty fields
// means the configured fields.
func (c *Client) AnnotationURL(variant string, fields ...string) string {
	if len(fields) == 0 {
		fields = c.fields
	}
	return c.baseURL + "/annotation/" + url.PathEscape(variant) +
		"?fields=" + url.QueryEscape(strings.Join(fields, ","))
}

// Raw fetches the unparsed annotation document of a variant. Empty fields
// means the configured fields.
func (c *Client) Raw(ctx context.Context, variant string, fields ...string) ([]byte, error) {
	if strings.TrimSpace(variant) == "" {
		return nil, fmt.Errorf("variant cannot be empty")
	}
	if err := c.rateLimit.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.AnnotationURL(variant, fields...)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch annotation: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("genome nexus request",
		zap.String("url", u),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", variant, annotation.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("genome nexus returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

// Summary implements annotation.Source.
func (c *Client) Summary(ctx context.Context, variant string) (*annotation.Summary, error) {
	data, err := c.Raw(ctx, variant)
	if err != nil {
		return nil, err
	}

	var va annotation.VariantAnnotation
	if err := json.Unmarshal(data, &va); err != nil {
		return nil, fmt.Errorf("decode annotation: %w", err)
	}
	if va.AnnotationSummary == nil {
		return nil, fmt.Errorf("%s: no annotation summary: %w", variant, annotation.ErrNotFound)
	}
	s := va.AnnotationSummary
	if s.Variant == "" {
		s.Variant = va.Variant
	}
	return s, nil
}
