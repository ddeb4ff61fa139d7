// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var (
	_ suture.Service = (*HTTPServerService)(nil)
	_ suture.Service = (*MailService)(nil)
	_ suture.Service = (*SessionCleanupService)(nil)
)

type fakeHTTPServer struct {
	listenErr   error
	shutdownErr error
	started     chan struct{}
	stop        chan struct{}
	stopOnce    sync.Once
	shutdowns   atomic.Int32
}

func newFakeHTTPServer() *fakeHTTPServer {
	return &fakeHTTPServer{started: make(chan struct{}, 1), stop: make(chan struct{})}
}

func (f *fakeHTTPServer) ListenAndServe() error {
	select {
	case f.started <- struct{}{}:
	default:
	}
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.stop
	return http.ErrServerClosed
}

func (f *fakeHTTPServer) Shutdown(context.Context) error {
	f.shutdowns.Add(1)
	f.stopOnce.Do(func() { close(f.stop) })
	return f.shutdownErr
}

func waitStarted(t *testing.T, f *fakeHTTPServer) {
	t.Helper()
	select {
	case <-f.started:
	case <-time.After(time.Second):
		t.Fatal("server did not start")
	}
}

func TestNewHTTPServerService_DefaultTimeout(t *testing.T) {
	t.Parallel()

	for _, timeout := range []time.Duration{0, -time.Second} {
		if svc := NewHTTPServerService(newFakeHTTPServer(), timeout); svc.shutdownTimeout != DefaultShutdownTimeout {
			t.Errorf("timeout %v: got %v", timeout, svc.shutdownTimeout)
		}
	}
	if got := NewHTTPServerService(newFakeHTTPServer(), time.Second).String(); got != "http-server" {
		t.Errorf("String() = %q", got)
	}
}

func TestHTTPServerService_Serve(t *testing.T) {
	t.Parallel()

	t.Run("graceful shutdown", func(t *testing.T) {
		t.Parallel()
		server := newFakeHTTPServer()
		svc := NewHTTPServerService(server, time.Second)
		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()
		waitStarted(t, server)
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return")
		}
		if server.shutdowns.Load() != 1 {
			t.Errorf("Shutdown called %d times", server.shutdowns.Load())
		}
	})

	t.Run("listen failure", func(t *testing.T) {
		t.Parallel()
		bindErr := errors.New("bind: address already in use")
		server := newFakeHTTPServer()
		server.listenErr = bindErr

		if err := NewHTTPServerService(server, time.Second).Serve(context.Background()); !errors.Is(err, bindErr) {
			t.Errorf("Serve() = %v, want %v", err, bindErr)
		}
	})

	t.Run("shutdown failure", func(t *testing.T) {
		t.Parallel()
		shutdownErr := errors.New("shutdown timeout")
		server := newFakeHTTPServer()
		server.shutdownErr = shutdownErr
		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() { errCh <- NewHTTPServerService(server, time.Second).Serve(ctx) }()
		waitStarted(t, server)
		cancel()

		if err := <-errCh; !errors.Is(err, shutdownErr) {
			t.Errorf("Serve() = %v, want %v", err, shutdownErr)
		}
	})
}

type fakeWorker struct {
	runs atomic.Int32
	err  error
}

func (w *fakeWorker) RunWithContext(ctx context.Context) error {
	w.runs.Add(1)
	if w.err != nil {
		return w.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestMailService(t *testing.T) {
	t.Parallel()

	worker := &fakeWorker{}
	svc := NewMailService(worker)
	if svc.String() != "mail-dispatcher" {
		t.Errorf("String() = %q", svc.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v", err)
	}

	failing := &fakeWorker{err: errors.New("smtp: connection reset")}
	if err := NewMailService(failing).Serve(context.Background()); !errors.Is(err, failing.err) {
		t.Errorf("Serve() = %v, want worker error", err)
	}
}

func TestMailService_RestartedBySupervisor(t *testing.T) {
	t.Parallel()

	worker := &fakeWorker{err: errors.New("boom")}
	sup := suture.New("test", suture.Spec{FailureThreshold: 100, FailureBackoff: time.Millisecond})
	sup.Add(NewMailService(worker))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	<-sup.ServeBackground(ctx)

	if worker.runs.Load() < 2 {
		t.Errorf("worker ran %d times, want restarts", worker.runs.Load())
	}
}

type fakeCleaner struct {
	calls atomic.Int32
	err   error
}

func (c *fakeCleaner) CleanupExpired(context.Context) (int, error) {
	c.calls.Add(1)
	return 3, c.err
}

func TestSessionCleanupService(t *testing.T) {
	t.Parallel()

	if svc := NewSessionCleanupService(&fakeCleaner{}, 0); svc.interval != DefaultCleanupInterval {
		t.Errorf("interval = %v, want default", svc.interval)
	}

	for _, cleanErr := range []error{nil, errors.New("redis: down")} {
		cleaner := &fakeCleaner{err: cleanErr}
		svc := NewSessionCleanupService(cleaner, 5*time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
		err := svc.Serve(ctx)
		cancel()

		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Serve() = %v, want deadline", err)
		}
		if cleaner.calls.Load() < 2 {
			t.Errorf("CleanupExpired called %d times", cleaner.calls.Load())
		}
	}
}
