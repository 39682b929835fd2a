package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/tturner/artsel/internal/config"
	"github.com/tturner/artsel/internal/errors"
	"github.com/tturner/artsel/internal/logging"
	"github.com/tturner/artsel/internal/metrics"
)

// maxBodyBytes bounds a single response body.
const maxBodyBytes = 8 << 20

// Options configures a Client.
type Options struct {
	BaseURL    string
	PageSize   int
	Timeout    time.Duration
	RetryMax   int
	RatePerSec float64
	Burst      int
	UserAgent  string

	// HTTPClient is the transport underneath the retry layer. Tests pass
	// an httptest server client here.
	HTTPClient *http.Client
	Logger     *logging.Logger
	// Metrics receives one entry per round trip. NewClient creates a sink
	// when nil.
	Metrics *metrics.Sink
}

// OptionsFromConfig maps the api section of cfg onto client options.
func OptionsFromConfig(cfg *config.Config, logger *logging.Logger) Options {
	return Options{
		BaseURL:    cfg.API.BaseURL,
		PageSize:   cfg.API.PageSize,
		Timeout:    cfg.Timeout(),
		RetryMax:   cfg.API.RetryMax,
		RatePerSec: cfg.API.RatePerSec,
		Burst:      cfg.API.Burst,
		UserAgent:  cfg.API.UserAgent,
		Logger:     logger,
	}
}

// Client fetches pages and identifiers from the catalog.
type Client struct {
	httpClient *http.Client
	baseURL    string
	pageSize   int
	timeout    time.Duration
	userAgent  string
	limiter    *rate.Limiter
	inflight   singleflight.Group
	log        *logging.Logger
	metrics    *metrics.Sink
}

// NewClient creates a catalog client.
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = config.DefaultBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = config.DefaultPageSize
	}
	if opts.PageSize > config.MaxLimit {
		return nil, fmt.Errorf("page size %d exceeds catalog limit %d", opts.PageSize, config.MaxLimit)
	}
	if opts.RetryMax < 0 {
		opts.RetryMax = 0
	}
	if opts.Burst < 1 {
		opts.Burst = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	retryClient := retryablehttp.NewClient()
	if opts.HTTPClient != nil {
		retryClient.HTTPClient = opts.HTTPClient
	}
	retryClient.RetryMax = opts.RetryMax
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = &retryLogger{log: logger}
	// Hand the final response back untouched so status codes reach the caller.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	sink := opts.Metrics
	if sink == nil {
		sink = metrics.NewSink()
	}

	limit := rate.Inf
	if opts.RatePerSec > 0 {
		limit = rate.Limit(opts.RatePerSec)
	}

	return &Client{
		httpClient: retryClient.StandardClient(),
		baseURL:    base,
		pageSize:   opts.PageSize,
		timeout:    opts.Timeout,
		userAgent:  opts.UserAgent,
		limiter:    rate.NewLimiter(limit, opts.Burst),
		log:        logger,
		metrics:    sink,
	}, nil
}

// Stats summarizes the requests made so far.
func (c *Client) Stats() *metrics.Summary {
	return c.metrics.GetSummary()
}

// PageSize returns the number of records requested per page.
func (c *Client) PageSize() int {
	return c.pageSize
}

// BaseURL returns the catalog endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchPage requests one page of records. Pages are 1-based.
func (c *Client) FetchPage(ctx context.Context, page int) (*PageResponse, error) {
	if page < 1 {
		return nil, fmt.Errorf("page must be >= 1, got %d", page)
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(c.pageSize))
	q.Set("fields", recordFields)

	var resp PageResponse
	if err := c.getJSON(ctx, metrics.OperationPage, q, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = []Record{}
	}
	return &resp, nil
}

// FetchLeadingIdentifiers requests only the id field of the first limit
// records, in the catalog's default order.
func (c *Client) FetchLeadingIdentifiers(ctx context.Context, limit int) ([]int64, error) {
	if limit < 1 || limit > config.MaxLimit {
		return nil, fmt.Errorf("limit must be between 1 and %d, got %d", config.MaxLimit, limit)
	}
	q := url.Values{}
	q.Set("fields", "id")
	q.Set("limit", strconv.Itoa(limit))

	var resp idResponse
	if err := c.getJSON(ctx, metrics.OperationIDs, q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) > limit {
		resp.Data = resp.Data[:limit]
	}
	ids := make([]int64, len(resp.Data))
	for i, item := range resp.Data {
		ids[i] = item.ID
	}
	return ids, nil
}

func (c *Client) endpoint(q url.Values) string {
	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + q.Encode()
}

func (c *Client) getJSON(ctx context.Context, op metrics.OperationType, q url.Values, out any) error {
	target := c.endpoint(q)

	// Identical requests already in flight share one round trip. The shared
	// request outlives any single caller's cancellation; get bounds it with
	// the client timeout.
	ch := c.inflight.DoChan(target, func() (interface{}, error) {
		return c.get(context.WithoutCancel(ctx), op, target)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return &errors.NetworkError{URL: target, Err: ctx.Err()}
	}
	if res.Err != nil {
		return res.Err
	}
	if err := json.Unmarshal(res.Val.([]byte), out); err != nil {
		return &errors.ParseError{URL: target, Err: err}
	}
	return nil
}

func (c *Client) get(ctx context.Context, op metrics.OperationType, target string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &errors.NetworkError{URL: target, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("AIC-User-Agent", c.userAgent)
	}

	start := time.Now()
	finish := func(status int, err error) {
		elapsed := time.Since(start)
		c.log.LogRequest(http.MethodGet, target, status, elapsed, err)
		m := metrics.Metric{
			Timestamp:  start,
			Operation:  op,
			URL:        target,
			Success:    err == nil,
			RTTMs:      float64(elapsed.Microseconds()) / 1000,
			StatusCode: status,
		}
		if err != nil {
			m.Error = err.Error()
			m.Timeout = errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
		}
		c.metrics.Record(m)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		finish(0, err)
		return nil, &errors.NetworkError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		netErr := &errors.NetworkError{URL: target, StatusCode: resp.StatusCode}
		finish(resp.StatusCode, netErr)
		return nil, netErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		finish(resp.StatusCode, err)
		return nil, &errors.NetworkError{URL: target, Err: fmt.Errorf("read body: %w", err)}
	}
	finish(resp.StatusCode, nil)
	return body, nil
}

// retryLogger implements the retryablehttp.LeveledLogger interface
type retryLogger struct {
	log *logging.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Zerolog().Error().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Zerolog().Warn().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Zerolog().Debug().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Zerolog().Trace().Fields(keysAndValues).Msg(msg)
}
