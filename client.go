package stripe

import (
	"context"

	"github.com/ojingolabs/stripe-go/internal/api"
)

// Client is the payments API client. A client is immutable after
// construction; any number of operations may be in flight concurrently
// against one instance. The relative completion order of concurrent
// operations is not guaranteed.
type Client struct {
	apiClient      *api.Client
	publishableKey string
	secretKey      string
	exec           Executor
}

// New creates a new client. At least one of the publishable and secret
// keys must be configured; an operation whose required key is absent
// fails with a configuration error before any network activity.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		baseURL: defaultBaseURL,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.publishableKey == "" && cfg.secretKey == "" {
		return nil, ErrMissingAPIKey
	}

	apiOpts := []api.Option{
		api.WithBaseURL(cfg.baseURL),
	}
	if cfg.timeout > 0 {
		apiOpts = append(apiOpts, api.WithTimeout(cfg.timeout))
	}

	apiClient := api.New(apiOpts...)
	if cfg.httpClient != nil {
		apiClient.SetHTTPClient(cfg.httpClient)
	}

	exec := cfg.executor
	if exec == nil {
		exec = func(fn func()) { fn() }
	}

	return &Client{
		apiClient:      apiClient,
		publishableKey: cfg.publishableKey,
		secretKey:      cfg.secretKey,
		exec:           exec,
	}, nil
}

// publishable resolves the publishable key.
func (c *Client) publishable() (string, error) {
	if c.publishableKey == "" {
		return "", ErrMissingPublishableKey
	}
	return c.publishableKey, nil
}

// secret resolves the secret key.
func (c *Client) secret() (string, error) {
	if c.secretKey == "" {
		return "", ErrMissingSecretKey
	}
	return c.secretKey, nil
}

// run dispatches one request off the caller's goroutine and decodes the
// response. keyErr short-circuits before any network activity, through
// the same completion path as every other outcome. A decode failure on
// a successful response is reported as an APIError.
func run[T any](c *Client, ctx context.Context, key string, keyErr error, req *api.Request, decode func(map[string]any) (T, error)) *Call[T] {
	return dispatch(c.exec, func() (T, error) {
		var zero T
		if keyErr != nil {
			return zero, keyErr
		}
		req.Key = key
		m, err := c.apiClient.Do(ctx, req)
		if err != nil {
			return zero, wrapError(err)
		}
		v, err := decode(m)
		if err != nil {
			return zero, decodeFailure(err)
		}
		return v, nil
	})
}

// failed returns a Call that completes with err, for configuration
// errors detected before a request can even be described.
func failed[T any](c *Client, err error) *Call[T] {
	return dispatch(c.exec, func() (T, error) {
		var zero T
		return zero, err
	})
}
