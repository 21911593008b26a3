package stripe

import (
	"context"
	"sync"
)

// The process-wide default client is an explicit, optional convenience
// for applications that construct one client at startup. Nothing in the
// SDK reads it implicitly; only the package-level functions below use
// it, and they fail with ErrNoDefaultClient when it was never set.

var (
	defaultMu     sync.RWMutex
	defaultClient *Client
)

// SetDefaultClient installs the client used by the package-level
// convenience functions. Call it once, early in the application's
// lifecycle; it is safe for concurrent use with the functions below.
func SetDefaultClient(c *Client) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultClient = c
}

// DefaultClient returns the client installed with SetDefaultClient, or
// nil if none was installed.
func DefaultClient() *Client {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultClient
}

// CreateToken tokenizes card details with the default client. It exists
// for callers migrating from older SDK surfaces that tokenized through
// a top-level entry point; new code should hold a *Client.
func CreateToken(ctx context.Context, card *CardParams) *Call[*Token] {
	c := DefaultClient()
	if c == nil {
		return noClientCall[*Token]()
	}
	return c.CreateToken(ctx, card)
}

// CreateBankAccountToken tokenizes bank account details with the
// default client.
func CreateBankAccountToken(ctx context.Context, bank *BankAccountParams) *Call[*Token] {
	c := DefaultClient()
	if c == nil {
		return noClientCall[*Token]()
	}
	return c.CreateBankAccountToken(ctx, bank)
}

func noClientCall[T any]() *Call[T] {
	return dispatch[T](func(fn func()) { fn() }, func() (T, error) {
		var zero T
		return zero, ErrNoDefaultClient
	})
}
