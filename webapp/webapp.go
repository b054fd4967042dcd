// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package webapp implements [handler.Context] over static configuration
// and the embedded HTML templates.
package webapp

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/z5labs/tinyhttp/handler"
	"github.com/z5labs/tinyhttp/request"
)

// DefaultContentType is served for extensions without a registered MIME type.
const DefaultContentType = "text/plain"

// Config holds everything a [Context] is built from.
type Config struct {
	Server handler.ServerInfo

	// Root is the static content directory. A relative path is resolved
	// against the working directory.
	Root string

	ExpiresDays       int
	ExpiresExtensions []string

	// Statuses maps status codes to reason phrases. It must contain 500.
	Statuses map[int]string

	// MimeTypes maps file extensions, without the leading dot, to content
	// types. Extensions match case-insensitively.
	MimeTypes map[string]string
}

// InvalidThreadCountError is returned for a negative thread count.
type InvalidThreadCountError struct {
	ThreadCount int
}

// Error implements the [error] interface.
func (e InvalidThreadCountError) Error() string {
	return fmt.Sprintf("server thread count should be >= 0, where 0 is UNLIMITED threads: got %d", e.ThreadCount)
}

// RootPathError is returned when the static root is unusable.
type RootPathError struct {
	Path  string
	Cause error
}

// Error implements the [error] interface.
func (e RootPathError) Error() string {
	return fmt.Sprintf("root path %s: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e RootPathError) Unwrap() error {
	return e.Cause
}

// ErrNotDirectory is the cause of a [RootPathError] for a root which is a file.
var ErrNotDirectory = errors.New("not a directory")

// ErrMissingInternalServerError is returned when the status table has no
// entry for 500, which every unknown status falls back to.
var ErrMissingInternalServerError = errors.New("status messages must define 500")

// Context is the shared, read-only server state handed to every handler.
type Context struct {
	info        handler.ServerInfo
	root        string
	expiresDays int
	expiresExt  map[string]struct{}
	statuses    map[int]string
	mimeTypes   map[string]string
	templates   *Templates
}

var _ handler.Context = (*Context)(nil)

// New validates cfg and returns a Context rendering with templates.
func New(cfg Config, templates *Templates) (*Context, error) {
	if cfg.Server.ThreadCount < 0 {
		return nil, InvalidThreadCountError{ThreadCount: cfg.Server.ThreadCount}
	}
	if _, ok := cfg.Statuses[500]; !ok {
		return nil, ErrMissingInternalServerError
	}

	root, err := resolveRoot(cfg.Root)
	if err != nil {
		return nil, err
	}

	expiresExt := make(map[string]struct{}, len(cfg.ExpiresExtensions))
	for _, ext := range cfg.ExpiresExtensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		expiresExt[strings.ToLower(ext)] = struct{}{}
	}

	mimeTypes := make(map[string]string, len(cfg.MimeTypes))
	for ext, ct := range cfg.MimeTypes {
		mimeTypes[strings.ToLower(ext)] = ct
	}

	c := &Context{
		info:        cfg.Server,
		root:        root,
		expiresDays: cfg.ExpiresDays,
		expiresExt:  expiresExt,
		statuses:    maps.Clone(cfg.Statuses),
		mimeTypes:   mimeTypes,
		templates:   templates,
	}
	return c, nil
}

func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", RootPathError{Path: root, Cause: err}
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return "", RootPathError{Path: abs, Cause: err}
	}
	if !fi.IsDir() {
		return "", RootPathError{Path: abs, Cause: ErrNotDirectory}
	}
	return abs, nil
}

// ServerInfo implements the [handler.Context] interface.
func (c *Context) ServerInfo() handler.ServerInfo {
	return c.info
}

// SupportedMethods implements the [handler.Context] interface.
func (c *Context) SupportedMethods() []string {
	return slices.Clone(request.SupportedMethods)
}

// StatusMessage implements the [handler.Context] interface.
func (c *Context) StatusMessage(code int) string {
	msg, ok := c.statuses[code]
	if !ok {
		return c.statuses[500]
	}
	return msg
}

// Statuses implements the [handler.Context] interface.
func (c *Context) Statuses() map[int]string {
	return maps.Clone(c.statuses)
}

// ContentType implements the [handler.Context] interface.
func (c *Context) ContentType(ext string) string {
	ct, ok := c.mimeTypes[strings.ToLower(ext)]
	if !ok {
		return DefaultContentType
	}
	return ct
}

// ExpiresDays implements the [handler.Context] interface.
func (c *Context) ExpiresDays(ext string) (int, bool) {
	if _, ok := c.expiresExt[strings.ToLower(ext)]; !ok {
		return 0, false
	}
	return c.expiresDays, true
}

// RootPath implements the [handler.Context] interface.
func (c *Context) RootPath() string {
	return c.root
}

// Render implements the [handler.Context] interface.
func (c *Context) Render(name string, args map[string]any) (string, error) {
	return c.templates.Render(name, args)
}
