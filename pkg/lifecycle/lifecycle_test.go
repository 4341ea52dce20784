package lifecycle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/adtrail/adtrail/pkg/lifecycle"
)

func TestStartupHooksRunBeforeReady(t *testing.T) {
	lc := lifecycle.New()

	var ran atomic.Bool
	lc.OnStartup(func() {
		time.Sleep(10 * time.Millisecond)
		ran.Store(true)
	})

	if lc.Ready() {
		t.Error("ready before startup completed")
	}

	lc.WaitForStartup()

	if !ran.Load() {
		t.Error("startup hook never ran")
	}
	if !lc.Ready() {
		t.Error("not ready after startup completed")
	}
}

func TestShutdownCancelsContext(t *testing.T) {
	lc := lifecycle.New()

	drained := make(chan struct{})
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		close(drained)
	})

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	select {
	case <-drained:
	default:
		t.Error("shutdown hook never observed cancellation")
	}

	select {
	case <-lc.Context().Done():
	default:
		t.Error("context not cancelled after shutdown")
	}
}

func TestShutdownTimesOutOnStuckHook(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	defer close(release)
	lc.OnShutdown(func() {
		<-release
	})

	if err := lc.Shutdown(20 * time.Millisecond); err == nil {
		t.Error("expected timeout error for stuck hook")
	}
}
