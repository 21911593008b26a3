package stripe

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCall_Result(t *testing.T) {
	c := dispatch(func(fn func()) { fn() }, func() (int, error) {
		return 42, nil
	})

	v, err := c.Result()
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if v != 42 {
		t.Errorf("Result() = %d, want 42", v)
	}

	// a second read observes the same outcome
	v2, _ := c.Result()
	if v2 != 42 {
		t.Errorf("second Result() = %d, want 42", v2)
	}
}

func TestCall_Error(t *testing.T) {
	boom := errors.New("boom")
	c := dispatch(func(fn func()) { fn() }, func() (int, error) {
		return 0, boom
	})

	_, err := c.Result()
	if !errors.Is(err, boom) {
		t.Errorf("Result() error = %v, want boom", err)
	}
}

func TestCall_WaitHonorsContext(t *testing.T) {
	release := make(chan struct{})
	c := dispatch(func(fn func()) { fn() }, func() (int, error) {
		<-release
		return 1, nil
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want deadline exceeded", err)
	}
}

func TestCall_Done(t *testing.T) {
	c := dispatch(func(fn func()) { fn() }, func() (string, error) {
		return "ok", nil
	})

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("Done() never closed")
	}

	v, err := c.Result()
	if err != nil || v != "ok" {
		t.Errorf("Result() = %q, %v", v, err)
	}
}

func TestCall_ThenDeliversOnce(t *testing.T) {
	c := dispatch(func(fn func()) { fn() }, func() (int, error) {
		return 7, nil
	})

	var (
		mu    sync.Mutex
		calls int
		got   int
	)
	done := make(chan struct{})
	c.Then(func(v int, err error) {
		mu.Lock()
		calls++
		got = v
		mu.Unlock()
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Then callback never ran")
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("callback ran %d times", calls)
	}
	if got != 7 {
		t.Errorf("callback value = %d, want 7", got)
	}
}

func TestCall_ThenUsesExecutor(t *testing.T) {
	var (
		mu       sync.Mutex
		executed int
	)
	exec := func(fn func()) {
		mu.Lock()
		executed++
		mu.Unlock()
		fn()
	}

	c := dispatch(exec, func() (int, error) { return 1, nil })

	done := make(chan struct{})
	c.Then(func(int, error) { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Then callback never ran")
	}

	mu.Lock()
	defer mu.Unlock()
	if executed != 1 {
		t.Errorf("executor invoked %d times, want 1", executed)
	}
}
