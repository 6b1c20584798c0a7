package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stylecheck/reconciler/internal/domain"
)

const (
	// DefaultTimeout is the per-request deadline
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent identifies the reconciler to the catalog API
	DefaultUserAgent = "StyleCheck/1.0"

	// maxBodyBytes caps how much of a response body is read
	maxBodyBytes = 1 << 20
)

// Client handles communication with the catalog pricing proxy API.
// Each call is a single attempt; retry policy belongs to the caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the client logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new catalog API client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: DefaultUserAgent,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProductDetails fetches every color variant of a style.
// An empty slice means the catalog does not know the style.
func (c *Client) ProductDetails(ctx context.Context, style string) ([]domain.VariantRecord, error) {
	params := url.Values{}
	params.Add("styleNumber", style)
	reqURL := fmt.Sprintf("%s/product-details?%s", c.baseURL, params.Encode())

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var variants []domain.VariantRecord
	if err := json.Unmarshal(body, &variants); err != nil {
		// some deployments answer an unknown style with {} or null
		if isEmptyObject(body) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrTransport, err)
	}

	c.logger.Debug("product details fetched",
		zap.String("style", style),
		zap.Int("variants", len(variants)),
	)
	return variants, nil
}

// SearchProducts runs a catalog search limited to the top hit
func (c *Client) SearchProducts(ctx context.Context, query string) (*domain.SearchResponse, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("limit", "1")
	reqURL := fmt.Sprintf("%s/products/search?%s", c.baseURL, params.Encode())

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var searchResp domain.SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrTransport, err)
	}

	c.logger.Debug("search completed",
		zap.String("query", query),
		zap.Int("hits", len(searchResp.Products)),
	)
	return &searchResp, nil
}

// get executes one GET request and returns the body of an OK response
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrTransport, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyError(err)
	}
	defer resp.Body.Close()

	body, err := readLimitedBody(resp.Body, maxBodyBytes)
	if err != nil {
		return nil, classifyError(err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logger.Debug("catalog throttled request", zap.String("url", reqURL))
		return nil, domain.ErrRateLimited
	default:
		c.logger.Debug("catalog returned error status",
			zap.String("url", reqURL),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(body, 256)),
		)
		return nil, &domain.HTTPStatusError{Code: resp.StatusCode}
	}
}

// classifyError maps a transport failure onto the domain error taxonomy
func classifyError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", domain.ErrRequestTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrTransport, err)
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

func isEmptyObject(body []byte) bool {
	s := strings.TrimSpace(string(body))
	return s == "{}" || s == "null" || s == ""
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
