// Package http implements the request executor shared by all resource
// clients: one HTTP exchange against a bounded connection pool, with
// transparent rate-limit retries and outcome classification into the
// bitbucket error taxonomy.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/bitbucket-client/internal/constants"
	"github.com/fivetwenty-io/bitbucket-client/pkg/bitbucket"
)

const defaultUserAgent = "bitbucket-client/1.0"

// Request describes one HTTP exchange. Body is JSON-marshalled unless it
// is already a []byte or string; Form takes precedence over Body and is
// sent URL-encoded.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    interface{}
	Form    url.Values
}

// Response is the buffered outcome of one exchange.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client executes requests against one API endpoint. It owns the shared
// connection pool for its lifetime and is safe for concurrent use.
type Client struct {
	baseURL      string
	credentials  *bitbucket.Credentials
	userAgent    string
	logger       bitbucket.Logger
	debug        bool
	interceptors *bitbucket.InterceptorChain

	retryMax        int
	retryDelay      time.Duration
	connectTimeout  time.Duration
	readTimeout     time.Duration
	maxConnsPerHost int
	maxConns        int
	proxy           *bitbucket.ProxyConfig

	httpClient *retryablehttp.Client
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger bitbucket.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig bounds the rate-limit retry loop. A negative retryMax
// disables retrying; a zero delay keeps the default fixed wait.
func WithRetryConfig(retryMax int, delay time.Duration) Option {
	return func(c *Client) {
		c.retryMax = retryMax
		if delay > 0 {
			c.retryDelay = delay
		}
	}
}

// WithTimeouts sets the connection and read timeouts.
func WithTimeouts(connect, read time.Duration) Option {
	return func(c *Client) {
		if connect > 0 {
			c.connectTimeout = connect
		}

		if read > 0 {
			c.readTimeout = read
		}
	}
}

// WithPoolLimits bounds the connection pool.
func WithPoolLimits(perHost, total int) Option {
	return func(c *Client) {
		if perHost > 0 {
			c.maxConnsPerHost = perHost
		}

		if total > 0 {
			c.maxConns = total
		}
	}
}

// WithProxy routes requests through an HTTP proxy.
func WithProxy(proxy *bitbucket.ProxyConfig) Option {
	return func(c *Client) {
		c.proxy = proxy
	}
}

// WithInterceptors attaches an interceptor chain.
func WithInterceptors(chain *bitbucket.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a new executor for the given endpoint. Credentials,
// when present, are attached preemptively to every request.
func NewClient(baseURL string, credentials *bitbucket.Credentials, opts ...Option) *Client {
	client := &Client{
		baseURL:         strings.TrimSuffix(baseURL, "/"),
		credentials:     credentials,
		userAgent:       defaultUserAgent,
		retryMax:        constants.DefaultRetryMax,
		retryDelay:      constants.RateLimitRetryDelay,
		connectTimeout:  constants.DefaultConnectTimeout,
		readTimeout:     constants.DefaultReadTimeout,
		maxConnsPerHost: constants.DefaultMaxConnsPerHost,
		maxConns:        constants.DefaultMaxConns,
	}

	for _, opt := range opts {
		opt(client)
	}

	client.httpClient = client.buildRetryClient()

	return client
}

// buildRetryClient wires the transport and the rate-limit retry policy.
func (c *Client) buildRetryClient() *retryablehttp.Client {
	dialer := &net.Dialer{Timeout: c.connectTimeout}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxConnsPerHost:       c.maxConnsPerHost,
		MaxIdleConns:          c.maxConns,
		MaxIdleConnsPerHost:   c.maxConnsPerHost,
		ResponseHeaderTimeout: c.readTimeout,
		IdleConnTimeout:       90 * time.Second,
	}

	if c.proxy != nil {
		proxyURL := &url.URL{
			Scheme: "http",
			Host:   net.JoinHostPort(c.proxy.Host, strconv.Itoa(c.proxy.Port)),
		}
		if c.proxy.Username != "" {
			proxyURL.User = url.UserPassword(c.proxy.Username, c.proxy.Password)
		}

		transport.Proxy = http.ProxyURL(proxyURL)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &http.Client{Transport: transport}
	retryClient.Logger = nil
	retryClient.RetryMax = c.retryMax
	retryClient.RetryWaitMin = c.retryDelay
	retryClient.RetryWaitMax = c.retryDelay
	retryClient.CheckRetry = rateLimitRetryPolicy
	retryClient.Backoff = rateLimitBackoff
	// Surface the terminal response instead of a synthetic "giving up"
	// error so classification still sees the final status.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return retryClient
}

// rateLimitRetryPolicy retries only rate-limited responses. Cancellation
// is observed once per iteration and always wins over another attempt.
func rateLimitRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return false, nil
	}

	if resp != nil && resp.StatusCode == constants.RateLimitStatusCode {
		return true, nil
	}

	return false, nil
}

// rateLimitBackoff waits a fixed delay between rate-limited attempts,
// honoring a Retry-After seconds header when the server sends one.
func rateLimitBackoff(minWait, _ time.Duration, _ int, resp *http.Response) time.Duration {
	if resp != nil {
		if header := resp.Header.Get("Retry-After"); header != "" {
			if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
				return time.Duration(secs) * time.Second
			}
		}
	}

	return minWait
}

// Do executes a request and buffers the response body. On a non-success
// status both the response and a taxonomy error are returned.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()

	resp, fullURL, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := readBody(resp)
	if err != nil {
		return nil, &bitbucket.CommunicationError{URL: fullURL, Err: err}
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         fullURL,
			"status_code": resp.StatusCode,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}

	if c.interceptors != nil {
		intResp := &bitbucket.Response{
			StatusCode: resp.StatusCode,
			Headers:    resp.Header,
			Body:       body,
			Duration:   time.Since(start),
		}

		err = c.interceptors.ExecuteResponseInterceptors(ctx, interceptorRequest(req, nil), intResp)
		if err != nil {
			return response, err
		}
	}

	return response, classify(req.Method, resp, fullURL, body)
}

// GetStream executes a GET and hands the live response body to the caller,
// who owns and must close it. Error responses are drained into the
// returned error instead.
func (c *Client) GetStream(ctx context.Context, path string, query url.Values) (io.ReadCloser, error) {
	req := &Request{Method: http.MethodGet, Path: path, Query: query}

	resp, fullURL, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		drainAndClose(resp.Body)

		return nil, &bitbucket.NotFoundError{URL: fullURL}
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := readBody(resp)
		drainAndClose(resp.Body)

		return nil, &bitbucket.RequestError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        fullURL,
			Body:       excerpt(body),
		}
	}

	return resp.Body, nil
}

// Get executes a buffered GET.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Head executes a HEAD and returns the status code. Any status is a valid
// outcome; only transport failures are errors.
func (c *Client) Head(ctx context.Context, path string, query url.Values) (int, error) {
	req := &Request{Method: http.MethodHead, Path: path, Query: query}

	resp, _, err := c.send(ctx, req)
	if err != nil {
		return 0, err
	}

	drainAndClose(resp.Body)

	return resp.StatusCode, nil
}

// Post executes a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// PostForm executes a POST with URL-encoded form fields.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Form: form})
}

// Put executes a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete executes a DELETE.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// send performs the exchange, including the rate-limit retry loop, and
// returns the raw response with its body unread.
func (c *Client) send(ctx context.Context, req *Request) (*http.Response, string, error) {
	// Absolute paths occur when following server-supplied next-page URLs.
	fullURL := req.Path
	if !strings.HasPrefix(fullURL, "http://") && !strings.HasPrefix(fullURL, "https://") {
		fullURL = c.baseURL + req.Path
	}

	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, fullURL, err
	}

	intReq := interceptorRequest(req, body)
	if c.interceptors != nil {
		err = c.interceptors.ExecuteRequestInterceptors(ctx, intReq)
		if err != nil {
			return nil, fullURL, err
		}
	}

	var rawBody interface{}
	if body != nil {
		rawBody = body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, fullURL, fmt.Errorf("creating request for %s: %w", fullURL, err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	// Interceptor headers include req.Headers plus anything the chain added.
	for name, values := range intReq.Headers {
		for _, value := range values {
			httpReq.Header.Set(name, value)
		}
	}

	if c.credentials != nil {
		httpReq.SetBasicAuth(c.credentials.Username, c.credentials.AppPassword)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fullURL, fmt.Errorf("request to %s interrupted: %w", fullURL, ctx.Err())
		}

		return nil, fullURL, &bitbucket.CommunicationError{URL: fullURL, Err: err}
	}

	return resp, fullURL, nil
}

// encodeBody serializes the request payload: form fields win over Body,
// Body passes through raw bytes/strings and JSON-marshals anything else.
func encodeBody(req *Request) ([]byte, string, error) {
	if len(req.Form) > 0 {
		return []byte(req.Form.Encode()), "application/x-www-form-urlencoded", nil
	}

	if req.Body == nil {
		return nil, "", nil
	}

	switch body := req.Body.(type) {
	case []byte:
		return body, "application/json", nil
	case string:
		return []byte(body), "application/json", nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("marshaling request body: %w", err)
		}

		return data, "application/json", nil
	}
}

// classify maps a terminal status onto the error taxonomy. HEAD statuses
// are never errors; callers branch on the code directly.
func classify(method string, resp *http.Response, fullURL string, body []byte) error {
	if method == http.MethodHead {
		return nil
	}

	statusCode := resp.StatusCode
	if statusCode == http.StatusNotFound {
		return &bitbucket.NotFoundError{URL: fullURL}
	}

	switch method {
	case http.MethodGet:
		if statusCode == http.StatusOK {
			return nil
		}
	case http.MethodDelete:
		if statusCode == http.StatusNoContent {
			return nil
		}
	default:
		if statusCode == http.StatusOK || statusCode == http.StatusCreated || statusCode == http.StatusNoContent {
			return nil
		}
	}

	return &bitbucket.RequestError{
		StatusCode: statusCode,
		Status:     resp.Status,
		URL:        fullURL,
		Body:       excerpt(body),
	}
}

// readBody buffers the response body, pre-sizing from Content-Length when
// the server declares one (capped so a corrupt header cannot force a huge
// allocation) and growing dynamically otherwise.
func readBody(resp *http.Response) ([]byte, error) {
	if resp.ContentLength == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	if resp.ContentLength > 0 && resp.ContentLength <= constants.MaxBodyPrealloc {
		buf.Grow(int(resp.ContentLength))
	}

	_, err := io.Copy(&buf, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return buf.Bytes(), nil
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}

func excerpt(body []byte) string {
	if len(body) > constants.ErrorBodyExcerptLen {
		body = body[:constants.ErrorBodyExcerptLen]
	}

	return string(body)
}

func interceptorRequest(req *Request, body []byte) *bitbucket.Request {
	headers := http.Header{}
	for name, value := range req.Headers {
		headers.Set(name, value)
	}

	return &bitbucket.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: headers,
		Body:    body,
	}
}
