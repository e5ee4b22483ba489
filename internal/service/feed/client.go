package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"SignalDesk/internal/domain/models"
	drepo "SignalDesk/internal/domain/repository"
	xhttp "SignalDesk/pkg/http"
)

// Variant selects the endpoint layout of the feed.
type Variant string

const (
	// VariantAPI serves /api/signals and /api/performance.
	VariantAPI Variant = "api"
	// VariantLegacy serves /get_signals only and has no performance resource.
	VariantLegacy Variant = "legacy"
)

const (
	signalsPath     = "/api/signals"
	performancePath = "/api/performance"
	legacyPath      = "/get_signals"
)

// Client pulls snapshots from the signal feed over HTTP.
type Client struct {
	http    *xhttp.Client
	baseURL string
	variant Variant
}

// Option configures Client.
type Option func(*Client)

// WithHTTPClient replaces the default JSON client.
func WithHTTPClient(c *xhttp.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// New creates a pull client for baseURL.
func New(baseURL string, variant Variant, timeout time.Duration, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("feed base url is required")
	}
	switch variant {
	case VariantAPI, VariantLegacy:
	default:
		return nil, fmt.Errorf("unknown feed variant %q", variant)
	}
	c := &Client{
		http: xhttp.NewClient(
			xhttp.WithTimeout(timeout),
			xhttp.WithDefaultHeaders(map[string]string{"Accept": "application/json"}),
		),
		baseURL: strings.TrimRight(baseURL, "/"),
		variant: variant,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Pull fetches one full snapshot.
func (c *Client) Pull(ctx context.Context) (*models.PullResult, error) {
	if c.variant == VariantLegacy {
		return c.pullLegacy(ctx)
	}
	return c.pullAPI(ctx)
}

func (c *Client) pullAPI(ctx context.Context) (*models.PullResult, error) {
	var items []json.RawMessage
	if err := c.get(ctx, signalsPath, &items); err != nil {
		return nil, err
	}
	var perf models.PerformanceSnapshot
	if err := c.get(ctx, performancePath, &perf); err != nil {
		return nil, err
	}
	return &models.PullResult{
		Signals:     models.DecodeRawSignals(items),
		Performance: &perf,
	}, nil
}

type legacyResponse struct {
	Signals []json.RawMessage `json:"signals"`
}

func (c *Client) pullLegacy(ctx context.Context) (*models.PullResult, error) {
	var resp legacyResponse
	if err := c.get(ctx, legacyPath, &resp); err != nil {
		return nil, err
	}
	return &models.PullResult{Signals: models.DecodeRawSignals(resp.Signals)}, nil
}

func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + path,
	}, dest)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}

var _ drepo.SignalSource = (*Client)(nil)
