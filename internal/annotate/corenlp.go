package annotate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nao1215/nlpreport/internal/model"
	"github.com/sethvargo/go-retry"
)

const (
	// DefaultRequestTimeout bounds a single annotation request.
	DefaultRequestTimeout = 60 * time.Second

	// defaultRetryCount is the number of transport-level retries per request.
	defaultRetryCount = 3

	// readyPollBase is the first delay between readiness checks.
	readyPollBase = 250 * time.Millisecond
)

// CoreNLPClient annotates text with a Stanford CoreNLP server.
type CoreNLPClient struct {
	client *resty.Client
	logger *slog.Logger
}

// ClientOption configures a CoreNLPClient.
type ClientOption func(*clientOptions)

type clientOptions struct {
	timeout    time.Duration
	retryCount int
	retryWait  time.Duration
	username   string
	password   string
	logger     *slog.Logger
	userAgent  string
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithRetry sets how often a failed request is retried and the first wait between attempts.
func WithRetry(count int, wait time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.retryCount = count
		o.retryWait = wait
	}
}

// WithBasicAuth sends HTTP basic auth credentials with every request.
func WithBasicAuth(username, password string) ClientOption {
	return func(o *clientOptions) {
		o.username = username
		o.password = password
	}
}

// WithClientLogger sets the logger used for request diagnostics.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(o *clientOptions) {
		o.userAgent = ua
	}
}

// NewCoreNLPClient creates a client for the server at baseURL.
func NewCoreNLPClient(baseURL string, opts ...ClientOption) *CoreNLPClient {
	o := &clientOptions{
		timeout:    DefaultRequestTimeout,
		retryCount: defaultRetryCount,
		retryWait:  500 * time.Millisecond,
		logger:     slog.Default(),
		userAgent:  "nlpreport",
	}
	for _, opt := range opts {
		opt(o)
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(o.timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", o.userAgent).
		SetRetryCount(o.retryCount).
		SetRetryWaitTime(o.retryWait).
		SetRetryMaxWaitTime(10 * o.retryWait)
	client.AddRetryCondition(retryCondition)

	if o.username != "" {
		client.SetBasicAuth(o.username, o.password)
	}

	return &CoreNLPClient{client: client, logger: o.logger}
}

// retryCondition retries network errors and temporary server conditions.
// A 500 from CoreNLP is an annotation failure and would fail again.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	if r == nil {
		return false
	}
	switch r.StatusCode() {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// Annotate sends text to the server and decodes the annotated document.
func (c *CoreNLPClient) Annotate(ctx context.Context, text string, stages StageConfig) (*model.Document, error) {
	if err := stages.Validate(); err != nil {
		return nil, err
	}
	props, err := stages.PropertiesJSON()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStage, err)
	}

	c.logger.DebugContext(ctx, "sending annotation request",
		"server", c.client.BaseURL,
		"annotators", stages.String(),
		"bytes", len(text),
	)

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("properties", props).
		SetHeader("Content-Type", "text/plain; charset=utf-8").
		SetBody(text).
		Post("/")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServer, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s: %s", ErrServer, resp.Status(), strings.TrimSpace(string(resp.Body())))
	}

	doc, err := DecodeDocument(bytes.NewReader(resp.Body()), text)
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "annotation received",
		"sentences", len(doc.Sentences),
		"chains", len(doc.CorefChains),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
	return doc, nil
}

// Ready reports whether the server answers its /ready endpoint.
func (c *CoreNLPClient) Ready(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Get("/ready")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: %s", ErrNotReady, resp.Status())
	}
	return nil
}

// WaitReady polls the /ready endpoint with exponential backoff until the
// server is ready or maxWait has elapsed.
func (c *CoreNLPClient) WaitReady(ctx context.Context, maxWait time.Duration) error {
	backoff := retry.WithMaxDuration(maxWait, retry.NewExponential(readyPollBase))
	attempt := 0

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := c.Ready(ctx); err != nil {
			c.logger.DebugContext(ctx, "annotation server not ready yet", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotReady) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}

	c.logger.DebugContext(ctx, "annotation server ready", "attempts", attempt)
	return nil
}
