package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"curator/internal/config"
	"curator/internal/logging"
	"curator/internal/services"
)

// Request describes a single download.
type Request struct {
	URL string
	// Pool, when set, bounds concurrency across a caller's batch of requests.
	Pool *semaphore.Weighted
	// Accept overrides the Accept header.
	Accept string
}

// Response is an open download. Callers must close Body.
type Response struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// Fetcher retrieves remote resources.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*Response, error)
}

// HTTPDoer describes the HTTP client used by HTTPFetcher.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures an HTTPFetcher.
type Options struct {
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	MaxConcurrent     int64
	UserAgent         string
	Client            HTTPDoer
	Logger            *slog.Logger
}

// HTTPFetcher is a rate-limited Fetcher over net/http.
type HTTPFetcher struct {
	client    HTTPDoer
	limiter   *rate.Limiter
	inflight  *semaphore.Weighted
	userAgent string
	logger    *slog.Logger
}

// New constructs an HTTPFetcher.
func New(opts Options) *HTTPFetcher {
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 4
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 4
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = "curator/dev"
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &HTTPFetcher{
		client:    client,
		limiter:   rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		inflight:  semaphore.NewWeighted(opts.MaxConcurrent),
		userAgent: opts.UserAgent,
		logger:    logging.NewComponentLogger(logger, "fetch"),
	}
}

// NewFromConfig builds an HTTPFetcher from the [fetch] config section.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *HTTPFetcher {
	if cfg == nil {
		return New(Options{Logger: logger})
	}
	return New(Options{
		RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
		Burst:             cfg.Fetch.Burst,
		Timeout:           time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		MaxConcurrent:     int64(cfg.Fetch.MaxConcurrent),
		UserAgent:         cfg.Fetch.UserAgent,
		Logger:            logger,
	})
}

// Fetch issues a GET for req.URL. The pool and in-flight slots are held
// until response headers arrive.
func (f *HTTPFetcher) Fetch(ctx context.Context, req Request) (*Response, error) {
	target := strings.TrimSpace(req.URL)
	if target == "" {
		return nil, services.Wrap(services.ErrValidation, "fetch", "get", "url is required", nil)
	}
	parsed, err := url.Parse(target)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, services.Wrap(services.ErrValidation, "fetch", "get", fmt.Sprintf("unsupported url %q", target), err)
	}

	if req.Pool != nil {
		if err := req.Pool.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer req.Pool.Release(1)
	}
	if err := f.inflight.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer f.inflight.Release(1)

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", f.userAgent)
	if req.Accept != "" {
		httpReq.Header.Set("Accept", req.Accept)
	}

	started := time.Now()
	resp, err := f.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, services.Wrap(services.ErrTimeout, "fetch", "get", parsed.Host, err)
		}
		return nil, services.Wrap(services.ErrTransient, "fetch", "get", parsed.Host, err)
	}
	f.logger.Debug("fetched remote resource",
		logging.String("host", parsed.Host),
		logging.Int("status", resp.StatusCode),
		logging.Duration("elapsed", time.Since(started)),
	)
	if resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, statusError(parsed.Host, resp.StatusCode)
	}
	return &Response{
		Body:          resp.Body,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}, nil
}

func statusError(host string, status int) error {
	message := fmt.Sprintf("%s returned %d", host, status)
	switch {
	case status == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "fetch", "get", message, nil)
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return services.Wrap(services.ErrTransient, "fetch", "get", message, nil)
	default:
		return services.Wrap(services.ErrExternalTool, "fetch", "get", message, nil)
	}
}
