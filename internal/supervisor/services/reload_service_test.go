// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/recommend"
)

type fakeReloader struct {
	mu      sync.Mutex
	calls   atomic.Int32
	err     error
	release chan struct{}
}

func (f *fakeReloader) Reload(ctx context.Context) (*recommend.Model, error) {
	n := f.calls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &recommend.Model{Version: uint64(n)}, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func newTestReloadService(r ModelReloader) *ReloadService {
	svc := NewReloadService(r, time.Second, zerolog.New(io.Discard))
	svc.signals = nil
	return svc
}

func TestReloadServiceTrigger(t *testing.T) {
	reloader := &fakeReloader{}
	svc := newTestReloadService(reloader)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	svc.Trigger()
	waitFor(t, func() bool { return reloader.calls.Load() == 1 })

	svc.Trigger()
	waitFor(t, func() bool { return reloader.calls.Load() == 2 })

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}
}

func TestReloadServiceCoalescesTriggers(t *testing.T) {
	reloader := &fakeReloader{release: make(chan struct{})}
	svc := newTestReloadService(reloader)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = svc.Serve(ctx) }()

	svc.Trigger()
	waitFor(t, func() bool { return reloader.calls.Load() == 1 })

	// Three requests while the first rebuild runs collapse into one.
	svc.Trigger()
	svc.Trigger()
	svc.Trigger()
	close(reloader.release)

	waitFor(t, func() bool { return reloader.calls.Load() == 2 })
	time.Sleep(50 * time.Millisecond)
	if got := reloader.calls.Load(); got != 2 {
		t.Errorf("Reload called %d times, want 2", got)
	}
}

func TestReloadServiceSurvivesFailure(t *testing.T) {
	reloader := &fakeReloader{err: errors.New("all pages failed")}
	svc := newTestReloadService(reloader)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	svc.Trigger()
	waitFor(t, func() bool { return reloader.calls.Load() == 1 })

	reloader.mu.Lock()
	reloader.err = nil
	reloader.mu.Unlock()

	svc.Trigger()
	waitFor(t, func() bool { return reloader.calls.Load() == 2 })

	cancel()
	<-done
}

func TestReloadServiceDefaults(t *testing.T) {
	svc := NewReloadService(&fakeReloader{}, 0, zerolog.New(io.Discard))
	if svc.timeout != 10*time.Minute {
		t.Errorf("timeout = %v, want 10m", svc.timeout)
	}
	if svc.String() != "reload-service" {
		t.Errorf("String() = %q", svc.String())
	}
}
