// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package dispatch routes parsed requests to their handlers.
package dispatch

import (
	"context"
	"errors"

	"github.com/z5labs/tinyhttp/handler"
	"github.com/z5labs/tinyhttp/httperr"
	"github.com/z5labs/tinyhttp/internal/try"
	"github.com/z5labs/tinyhttp/request"
	"github.com/z5labs/tinyhttp/response"
)

// ErrNoDefaultHandler is returned by [New] when no fallback handler was given.
var ErrNoDefaultHandler = errors.New("dispatch: default handler must not be nil")

// Dispatcher selects a handler by exact URI match, falling back to a
// default handler. Its routing table is fixed at construction.
type Dispatcher struct {
	def    handler.Handler
	routes map[string]handler.Handler
}

// New returns a Dispatcher over a snapshot of routes.
func New(def handler.Handler, routes *handler.Routes) (*Dispatcher, error) {
	if def == nil {
		return nil, ErrNoDefaultHandler
	}
	d := &Dispatcher{
		def:    def,
		routes: routes.Map(),
	}
	return d, nil
}

// Dispatch invokes the handler for req.
//
// A handler error which already is an [*httperr.Error] is returned as is.
// Any other error, including a recovered panic, is wrapped as
// [httperr.HandlingFailed] so callers only ever see protocol faults.
func (d *Dispatcher) Dispatch(ctx context.Context, sc handler.Context, req *request.Request, resp response.Writable) error {
	err := d.invoke(ctx, d.lookup(req.URI()), sc, req, resp)
	if err == nil {
		return nil
	}
	if herr, ok := httperr.As(err); ok {
		return herr
	}
	return httperr.HandlingFailed(req.URI(), err)
}

func (d *Dispatcher) lookup(uri string) handler.Handler {
	h, ok := d.routes[uri]
	if !ok {
		return d.def
	}
	return h
}

func (d *Dispatcher) invoke(ctx context.Context, h handler.Handler, sc handler.Context, req *request.Request, resp response.Writable) (err error) {
	defer try.Recover(&err)
	return h.Handle(ctx, sc, req, resp)
}
