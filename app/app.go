// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package app provides helpers for common tinyhttp.App implementation patterns.
package app

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/z5labs/tinyhttp"
	"github.com/z5labs/tinyhttp/internal/noop"
	"github.com/z5labs/tinyhttp/internal/otelslog"
	"github.com/z5labs/tinyhttp/internal/slogfield"
	"github.com/z5labs/tinyhttp/internal/try"
)

type runFunc func(context.Context) error

func (f runFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Recover will wrap the give [tinyhttp.App] with panic recovery.
// If the recovered panic value implements [error] then it will
// be wrapped by the returned error.
func Recover(app tinyhttp.App) tinyhttp.App {
	return runFunc(func(ctx context.Context) (err error) {
		defer try.Recover(&err)

		return app.Run(ctx)
	})
}

// WithSignalNotifications wraps a given [tinyhttp.App] in an implementation
// that cancels the [context.Context] that's passed to app.Run if an [os.Signal]
// is received by the running process.
func WithSignalNotifications(app tinyhttp.App, signals ...os.Signal) tinyhttp.App {
	return runFunc(func(ctx context.Context) error {
		sigCtx, cancel := signal.NotifyContext(ctx, signals...)
		defer cancel()

		return app.Run(sigCtx)
	})
}

// QuitCommands are the lines, compared case-insensitively, which
// [WithQuitCommands] stops the app on.
var QuitCommands = []string{"q", "quit", "exit"}

// QuitOption
type QuitOption func(*quitWatcher)

// QuitLogHandler
func QuitLogHandler(h slog.Handler) QuitOption {
	return func(qw *quitWatcher) {
		qw.log = otelslog.New(h)
	}
}

type quitWatcher struct {
	log *slog.Logger
}

// WithQuitCommands wraps a given [tinyhttp.App] in an implementation that
// cancels the [context.Context] passed to app.Run once one of the
// [QuitCommands] is read as a line from r. Any other line is logged as
// an error and ignored.
func WithQuitCommands(app tinyhttp.App, r io.Reader, opts ...QuitOption) tinyhttp.App {
	qw := &quitWatcher{
		log: otelslog.New(noop.LogHandler{}),
	}
	for _, opt := range opts {
		opt(qw)
	}

	return runFunc(func(ctx context.Context) error {
		quitCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		go qw.watch(quitCtx, r, cancel)

		return app.Run(quitCtx)
	})
}

func (qw *quitWatcher) watch(ctx context.Context, r io.Reader, quit context.CancelFunc) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		cmd := strings.TrimSpace(scanner.Text())
		if slices.Contains(QuitCommands, strings.ToLower(cmd)) {
			qw.log.InfoContext(ctx, "quit command received", slogfield.String("command", cmd))
			quit()
			return
		}
		qw.log.ErrorContext(
			ctx,
			"undefined command",
			slogfield.String("command", cmd),
			slogfield.Strings("supported_commands", QuitCommands),
		)
	}
}

// Hook represents functionality that needs to be performed
// at a specific "time" relative to the execution of [tinyhttp.App.Run].
type Hook interface {
	Run(context.Context) error
}

// HookFunc is a func variant of the [Hook] interface.
type HookFunc func(context.Context) error

// Run implements the [Hook] interface.
func (f HookFunc) Run(ctx context.Context) error {
	return f(ctx)
}

type multiHook []Hook

func (mh multiHook) Run(ctx context.Context) error {
	errs := make([]error, 0, len(mh))
	for _, h := range mh {
		err := h.Run(ctx)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MultiHook returns a [Hook] that's the logical concatenation
// of the provided [Hook]s. Every hook runs, in order, even when
// an earlier one fails.
func MultiHook(hooks ...Hook) Hook {
	return multiHook(hooks)
}

// PostRun wraps a given [tinyhttp.App] so hook always runs after
// app.Run returns, even if it returned an error or panicked.
func PostRun(app tinyhttp.App, hook Hook) tinyhttp.App {
	return runFunc(func(ctx context.Context) (err error) {
		defer runPostRunHook(ctx, hook, &err)
		defer try.Recover(&err)

		return app.Run(ctx)
	})
}

func runPostRunHook(ctx context.Context, hook Hook, err *error) {
	if hook == nil {
		return
	}

	// hooks still run once ctx has been cancelled
	hookErr := hook.Run(context.WithoutCancel(ctx))

	*err = errors.Join(*err, hookErr)
}
