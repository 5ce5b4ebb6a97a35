package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/penthrey/penthrey-go/credentials"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const maxResponseBodyBytes = 1 << 20

var (
	BaseURLRequiredErr = errors.New("base URL is required")
	StoreRequiredErr   = errors.New("credential store is required")
)

// HTTPDoer issues a single HTTP request. *http.Client satisfies it; tests
// inject their own transports.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the Penthrey backend. It attaches the stored access token
// to every call, renews it once through the refresh token when the backend
// answers 401, and resolves every call into a Response envelope.
type Client struct {
	baseURL          string
	store            credentials.Store
	httpClient       HTTPDoer
	logger           zerolog.Logger
	userAgent        string
	validate         *validator.Validate
	onSessionExpired func()
}

// Option modifies the Client during construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP transport.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithLogger sets the client logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithSessionExpiredHandler registers fn to run after an unrecoverable
// renewal failure, once local credentials have been cleared.
func WithSessionExpiredHandler(fn func()) Option {
	return func(c *Client) {
		c.onSessionExpired = fn
	}
}

// New creates a Client for the API at baseURL, persisting credentials in
// store. Both are required.
func New(baseURL string, store credentials.Store, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, BaseURLRequiredErr
	}
	if store == nil {
		return nil, StoreRequiredErr
	}

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		store:      store,
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
		validate:   newValidator(),
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

// OnSessionExpired registers fn to run after an unrecoverable renewal
// failure. It overrides any handler set at construction time.
func (c *Client) OnSessionExpired(fn func()) {
	c.onSessionExpired = fn
}

// request executes one logical API call. A 401 on a call that carried an
// access token triggers exactly one renewal and, on its success, exactly one
// retry; a second 401 falls through as an ordinary failure.
func request[T any](ctx context.Context, c *Client, method, path string, body any) Response[T] {
	token, _ := c.store.Access()

	status, raw, err := c.send(ctx, method, path, body, token)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return failure[T](err.Error())
	}

	if status == http.StatusUnauthorized && token != "" {
		if renewErr := c.renewAccessToken(ctx); renewErr != nil {
			c.expireSession(renewErr)
			return failureEnvelope[T](raw)
		}

		retryToken, _ := c.store.Access()
		status, raw, err = c.send(ctx, method, path, body, retryToken)
		if err != nil {
			c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("retry after renewal failed")
			return failure[T](err.Error())
		}
	}

	if status >= 200 && status < 300 {
		data := new(T)
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, data); err != nil {
				c.logger.Error().Err(err).Str("path", path).Msg("failed to decode response body")
				return failure[T](err.Error())
			}
		}
		return success(data)
	}

	return failureEnvelope[T](raw)
}

// send issues a single HTTP call and returns the status code and raw body.
// It never interprets the outcome beyond reading the body.
func (c *Client) send(ctx context.Context, method, path string, body any, token string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, errors.Wrap(err, "[Client.send] marshal request body")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, errors.Wrap(err, "[Client.send] build request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return 0, nil, errors.Wrap(err, "[Client.send] read response body")
	}

	return resp.StatusCode, raw, nil
}

// errorBody is the shape the backend uses for non-2xx responses. DRF puts
// auth failures under "detail", application errors under "error".
type errorBody struct {
	Detail string              `json:"detail,omitempty"`
	Error  string              `json:"error,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
}

func failureEnvelope[T any](raw []byte) Response[T] {
	var body errorBody
	_ = json.Unmarshal(raw, &body)

	message := body.Detail
	if message == "" {
		message = body.Error
	}
	if message == "" {
		message = "an unexpected error occurred"
	}
	return fieldFailure[T](message, body.Errors)
}
