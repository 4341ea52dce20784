package workers_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/adtrail/adtrail/pkg/workers"
)

func TestPoolRunsTask(t *testing.T) {
	pool := workers.New(2)

	ran := false
	err := pool.Do(context.Background(), func() error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if !ran {
		t.Error("task never ran")
	}
}

func TestPoolReturnsTaskError(t *testing.T) {
	pool := workers.New(1)

	want := errors.New("task failed")
	if err := pool.Do(context.Background(), func() error { return want }); !errors.Is(err, want) {
		t.Errorf("Do = %v, want %v", err, want)
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	const size = 2
	pool := workers.New(size)

	var current, peak atomic.Int64
	var wg sync.WaitGroup

	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Do(context.Background(), func() error {
				n := current.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				current.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	if peak.Load() > size {
		t.Errorf("peak concurrency = %d, want <= %d", peak.Load(), size)
	}
}

func TestPoolHonorsContextCancellation(t *testing.T) {
	pool := workers.New(1)

	release := make(chan struct{})
	held := make(chan struct{})
	go pool.Do(context.Background(), func() error {
		close(held)
		<-release
		return nil
	})
	<-held

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pool.Do(ctx, func() error {
		t.Error("task ran despite cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do = %v, want context.Canceled", err)
	}

	close(release)
}
