// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package handler defines the contract between the server and the code
// which answers requests.
package handler

import (
	"context"
	"fmt"

	"github.com/z5labs/tinyhttp/request"
	"github.com/z5labs/tinyhttp/response"
)

// ServerInfo identifies a running server.
type ServerInfo struct {
	Name        string
	Port        int
	ThreadCount int
}

// String implements the [fmt.Stringer] interface.
func (si ServerInfo) String() string {
	return fmt.Sprintf("ServerInfo[name=%s, port=%d, threadCount=%d]", si.Name, si.Port, si.ThreadCount)
}

// Context exposes read-only server state to handlers. Implementations
// must be safe for concurrent use.
type Context interface {
	ServerInfo() ServerInfo

	// SupportedMethods returns the accepted request methods in display order.
	SupportedMethods() []string

	// StatusMessage returns the reason phrase for code. Unknown codes
	// resolve to the message of 500.
	StatusMessage(code int) string

	// Statuses returns every known status code and its reason phrase.
	Statuses() map[int]string

	// ContentType returns the MIME type registered for a file extension
	// given without its leading dot. Unknown extensions are text/plain.
	ContentType(ext string) string

	// ExpiresDays reports how many days resources with the extension may
	// be cached for, if they may be cached at all.
	ExpiresDays(ext string) (int, bool)

	// RootPath is the absolute directory static content is served from.
	RootPath() string

	Render(name string, args map[string]any) (string, error)
}

// Handler answers a single request by populating resp. A returned error
// aborts the exchange with an error status.
type Handler interface {
	Handle(ctx context.Context, sc Context, req *request.Request, resp response.Writable) error
}

// HandlerFunc is an adapter to allow the use of ordinary functions as [Handler]s.
type HandlerFunc func(context.Context, Context, *request.Request, response.Writable) error

// Handle implements the [Handler] interface.
func (f HandlerFunc) Handle(ctx context.Context, sc Context, req *request.Request, resp response.Writable) error {
	return f(ctx, sc, req, resp)
}
