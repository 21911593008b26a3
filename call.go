package stripe

import "context"

// Executor runs completion callbacks registered with Call.Then.
// The default executor runs them on the goroutine that performed the
// request; applications integrating with an event loop can supply
// their own.
type Executor func(func())

// Call is the in-flight handle for one operation. It carries exactly
// one terminal outcome: a value or an error, never both, delivered
// once. A Call cannot be cancelled; cancelling the operation's context
// makes the outcome an error but the Call still completes.
type Call[T any] struct {
	done  chan struct{}
	exec  Executor
	value T
	err   error
}

func newCall[T any](exec Executor) *Call[T] {
	return &Call[T]{done: make(chan struct{}), exec: exec}
}

// complete records the terminal outcome. Must be called exactly once.
func (c *Call[T]) complete(value T, err error) {
	c.value = value
	c.err = err
	close(c.done)
}

// Done returns a channel that is closed when the outcome is available.
func (c *Call[T]) Done() <-chan struct{} {
	return c.done
}

// Result blocks until the operation completes and returns its outcome.
func (c *Call[T]) Result() (T, error) {
	<-c.done
	return c.value, c.err
}

// Wait blocks until the operation completes or ctx is done, whichever
// comes first. If ctx wins, Wait returns ctx.Err() but the operation
// still runs to its terminal outcome.
func (c *Call[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-c.done:
		return c.value, c.err
	}
}

// Then registers fn to receive the outcome. It is invoked exactly once,
// on the client's executor. Multiple callbacks may be registered; each
// observes the same outcome.
func (c *Call[T]) Then(fn func(T, error)) {
	go func() {
		<-c.done
		c.exec(func() { fn(c.value, c.err) })
	}()
}

// dispatch runs fn on its own goroutine and returns the Call that will
// carry its outcome. Nothing blocks the invoking goroutine, even when
// fn fails before any network activity.
func dispatch[T any](exec Executor, fn func() (T, error)) *Call[T] {
	c := newCall[T](exec)
	go func() {
		value, err := fn()
		c.complete(value, err)
	}()
	return c
}
