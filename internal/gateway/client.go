package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/heritageapp/heritage-admin/internal/domain"
	"github.com/heritageapp/heritage-admin/internal/errors"
)

const (
	// Rate limit defaults: the backend is a single small JSON store.
	defaultRPS   = 20.0
	defaultBurst = 10

	defaultTimeout = 15 * time.Second

	sitesPath = "/sites"
)

// Client is a rate-limited HTTP implementation of Gateway.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	baseURL string
	logger  *slog.Logger
}

// Options configures the gateway client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	Logger            *slog.Logger
}

// New creates a new gateway client.
func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = defaultRPS
	}
	if opts.Burst == 0 {
		opts.Burst = defaultBurst
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Client{
		http: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		logger:  opts.Logger,
	}
}

// ListSites implements Gateway.
func (c *Client) ListSites(ctx context.Context) ([]domain.Site, error) {
	body, err := c.doRequest(ctx, http.MethodGet, sitesPath, nil, nil)
	if err != nil {
		return nil, err
	}
	var sites []domain.Site
	if err := json.Unmarshal(body, &sites); err != nil {
		return nil, errors.Wrap(err, errors.CodeNetwork, "decode site collection")
	}
	domain.NormalizeAll(sites)
	return sites, nil
}

// GetSite implements Gateway.
func (c *Client) GetSite(ctx context.Context, id string) (*domain.Site, error) {
	body, err := c.doRequest(ctx, http.MethodGet, sitesPath+"/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	var site domain.Site
	if err := json.Unmarshal(body, &site); err != nil {
		return nil, errors.Wrap(err, errors.CodeNetwork, "decode site")
	}
	site.Normalize()
	return &site, nil
}

// CreateSite implements Gateway.
func (c *Client) CreateSite(ctx context.Context, site *domain.Site) (*domain.Site, error) {
	body, err := c.doRequest(ctx, http.MethodPost, sitesPath, nil, site)
	if err != nil {
		return nil, err
	}
	var created domain.Site
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, errors.Wrap(err, errors.CodeNetwork, "decode created site")
	}
	created.Normalize()
	return &created, nil
}

// UpdateSite implements Gateway.
func (c *Client) UpdateSite(ctx context.Context, site *domain.Site) (*domain.Site, error) {
	body, err := c.doRequest(ctx, http.MethodPut, sitesPath+"/"+url.PathEscape(site.ID), nil, site)
	if err != nil {
		return nil, err
	}
	var updated domain.Site
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, errors.Wrap(err, errors.CodeNetwork, "decode updated site")
	}
	updated.Normalize()
	return &updated, nil
}

// DeleteSite implements Gateway.
func (c *Client) DeleteSite(ctx context.Context, id string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, sitesPath+"/"+url.PathEscape(id), nil, nil)
	return err
}

// SearchSites implements Gateway.
func (c *Client) SearchSites(ctx context.Context, term string) ([]domain.Site, error) {
	query := url.Values{}
	query.Set("q", term)
	body, err := c.doRequest(ctx, http.MethodGet, sitesPath, query, nil)
	if err != nil {
		return nil, err
	}
	var sites []domain.Site
	if err := json.Unmarshal(body, &sites); err != nil {
		return nil, errors.Wrap(err, errors.CodeNetwork, "decode search results")
	}
	domain.NormalizeAll(sites)
	return sites, nil
}

// doRequest executes an HTTP request with rate limiting and maps failures onto the
// domain error taxonomy.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CodeNetwork, "rate limit wait")
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "encode request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "create request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("gateway request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNetwork, "backend unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNetwork, "read response")
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.NotFoundf("%s %s: not found", method, path)
	default:
		return nil, errors.Networkf("%s %s: unexpected status %d: %s",
			method, path, resp.StatusCode, truncate(string(body), 200))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s...", s[:n])
}
