// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package server accepts connections and hands each one to a worker.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"github.com/z5labs/tinyhttp/internal/fixedpool"
	"github.com/z5labs/tinyhttp/internal/noop"
	"github.com/z5labs/tinyhttp/internal/otelslog"
	"github.com/z5labs/tinyhttp/internal/slogfield"
	"github.com/z5labs/tinyhttp/internal/try"

	"golang.org/x/sync/errgroup"
)

// ConnHandler owns an accepted connection until it is closed.
type ConnHandler interface {
	Serve(ctx context.Context, conn net.Conn)
}

// Option configures a [Runtime].
type Option func(*Runtime)

// LogHandler configures the underlying slog.Handler.
func LogHandler(h slog.Handler) Option {
	return func(rt *Runtime) {
		rt.log = otelslog.New(h)
	}
}

// ThreadCount bounds the number of connections served at once. Zero, the
// default, means no bound. Once the bound is reached the acceptor waits
// for a worker to finish before accepting again.
func ThreadCount(n int) Option {
	return func(rt *Runtime) {
		rt.threadCount = n
	}
}

// Runtime is the accept loop of a server.
type Runtime struct {
	log         *slog.Logger
	ls          net.Listener
	h           ConnHandler
	threadCount int
}

// NewRuntime returns a Runtime serving connections from ls with h.
func NewRuntime(ls net.Listener, h ConnHandler, opts ...Option) *Runtime {
	rt := &Runtime{
		log: otelslog.New(noop.LogHandler{}),
		ls:  ls,
		h:   h,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Addr returns the address the runtime is accepting on.
func (rt *Runtime) Addr() net.Addr {
	return rt.ls.Addr()
}

// Run accepts connections until ctx is cancelled or accepting fails.
//
// On cancellation the listener is closed and every connection still being
// served is closed underneath its worker. Run does not wait for those
// workers to return.
func (rt *Runtime) Run(ctx context.Context) error {
	rt.log.InfoContext(ctx, "server has been started", slogfield.String("addr", rt.ls.Addr().String()))

	err := fixedpool.Wait(
		ctx,
		rt.accept,
		func(ctx context.Context) error {
			<-ctx.Done()
			return rt.ls.Close()
		},
	)
	rt.log.InfoContext(ctx, "server stopped")

	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (rt *Runtime) accept(ctx context.Context) error {
	limit := -1
	if rt.threadCount > 0 {
		limit = rt.threadCount
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for {
		conn, err := rt.ls.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				rt.log.ErrorContext(ctx, "cannot accept client connection", slogfield.Error(err))
			}
			return err
		}

		stop := context.AfterFunc(ctx, func() {
			conn.Close()
		})
		g.Go(func() error {
			defer stop()

			err := rt.serve(ctx, conn)
			if err != nil {
				rt.log.ErrorContext(ctx, "client connection handler failed", slogfield.Error(err))
				conn.Close()
			}
			return nil
		})
	}
}

func (rt *Runtime) serve(ctx context.Context, conn net.Conn) (err error) {
	defer try.Recover(&err)

	rt.h.Serve(ctx, conn)
	return nil
}
