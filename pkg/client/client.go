// Package client sends add-product payloads to the inventory API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-stockform/pkg/model"
	"github.com/goliatone/go-stockform/pkg/payload"
	"github.com/goliatone/go-stockform/pkg/routes"
)

const (
	// RequestIDHeader carries the per-submission correlation id.
	RequestIDHeader = "X-Request-ID"

	maxBodyBytes = 1 << 20
)

// Sender performs the add-product call.
type Sender interface {
	Send(ctx context.Context, p payload.Payload) (Response, error)
}

// Response is a successful reply. Body is kept opaque.
type Response struct {
	StatusCode int
	Body       []byte
	RequestID  string
}

// HTTPClient implements Sender over net/http.
type HTTPClient struct {
	endpoint  string
	method    string
	http      *http.Client
	headers   http.Header
	form      model.FormModel
	logger    logrus.FieldLogger
	requestID func() string
}

var _ Sender = (*HTTPClient)(nil)

// Option configures the HTTP client.
type Option func(*HTTPClient)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout sets the request timeout on the underlying http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		if timeout <= 0 {
			return
		}
		clone := *c.http
		clone.Timeout = timeout
		c.http = &clone
	}
}

// WithHeader adds a static header to every request.
func WithHeader(key, value string) Option {
	return func(c *HTTPClient) {
		if strings.TrimSpace(key) == "" {
			return
		}
		c.headers.Set(key, value)
	}
}

// WithForm enables mapping of server field errors onto the form's fields.
func WithForm(form model.FormModel) Option {
	return func(c *HTTPClient) {
		c.form = form
	}
}

// WithLogger routes request logs to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *HTTPClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequestIDGenerator overrides the X-Request-ID source.
func WithRequestIDGenerator(fn func() string) Option {
	return func(c *HTTPClient) {
		if fn != nil {
			c.requestID = fn
		}
	}
}

// New builds a client posting to baseURL joined with route.Path. The route
// method defaults to POST.
func New(baseURL string, route routes.Route, options ...Option) (*HTTPClient, error) {
	endpoint, err := joinURL(baseURL, route.Path)
	if err != nil {
		return nil, err
	}
	method := strings.ToUpper(strings.TrimSpace(route.Method))
	if method == "" {
		method = http.MethodPost
	}

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	c := &HTTPClient{
		endpoint:  endpoint,
		method:    method,
		http:      &http.Client{Timeout: 30 * time.Second},
		headers:   make(http.Header),
		logger:    quiet,
		requestID: func() string { return uuid.NewString() },
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Endpoint returns the resolved request URL.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

// Send serializes p as JSON and performs the request. Non-2xx replies yield a
// *ServerError, transport failures a *NetworkError.
func (c *HTTPClient) Send(ctx context.Context, p payload.Payload) (Response, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return Response{}, fmt.Errorf("client: encode payload: %w", err)
	}

	requestID := c.requestID()
	req, err := http.NewRequestWithContext(ctx, c.method, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("client: request: %w", err)
	}
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	log := c.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"method":     c.method,
		"endpoint":   c.endpoint,
	})
	log.Debug("sending add-product request")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warn("add-product request failed")
		return Response{}, &NetworkError{Err: err, RequestID: requestID}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Response{}, &NetworkError{Err: fmt.Errorf("read body: %w", err), RequestID: requestID}
	}

	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(started).String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serverErr := decodeServerError(resp.StatusCode, raw, c.form)
		serverErr.RequestID = requestID
		log.WithField("detail", serverErr.Detail).Warn("add-product rejected")
		return Response{}, serverErr
	}

	log.Debug("add-product accepted")
	return Response{
		StatusCode: resp.StatusCode,
		Body:       raw,
		RequestID:  requestID,
	}, nil
}

func joinURL(baseURL, path string) (string, error) {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		return "", ErrBaseURLRequired
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("client: parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("client: base url %q must be absolute", base)
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return parsed.String(), nil
	}
	return strings.TrimRight(parsed.String(), "/") + "/" + strings.TrimLeft(path, "/"), nil
}
