package stripe

import (
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.stripe.com/v1"

// clientConfig holds configuration for the client.
type clientConfig struct {
	publishableKey string
	secretKey      string
	baseURL        string
	httpClient     *http.Client
	timeout        time.Duration
	executor       Executor
}

// Option configures the client.
type Option func(*clientConfig)

// WithPublishableKey sets the publishable (client-safe) key, required
// for token creation.
func WithPublishableKey(key string) Option {
	return func(c *clientConfig) {
		c.publishableKey = key
	}
}

// WithSecretKey sets the secret (server-privileged) key, required for
// customer, order and product operations.
func WithSecretKey(key string) Option {
	return func(c *clientConfig) {
		c.secretKey = key
	}
}

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithExecutor sets the executor on which completion callbacks
// registered with Call.Then are run. The default executor runs them on
// the goroutine that performed the request.
func WithExecutor(exec Executor) Option {
	return func(c *clientConfig) {
		c.executor = exec
	}
}
