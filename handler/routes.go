// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handler

import (
	"errors"
	"fmt"
	"maps"
)

// DuplicateRouteError is returned when a URI is registered twice.
type DuplicateRouteError struct {
	URI      string
	Existing Handler
}

// Error implements the [error] interface.
func (e DuplicateRouteError) Error() string {
	return fmt.Sprintf("handler already exists for uri=%s: %T", e.URI, e.Existing)
}

// ErrNilHandler is returned when registering a nil [Handler].
var ErrNilHandler = errors.New("handler must not be nil")

// Routes collects URI to [Handler] registrations before the server starts.
// The zero value is ready to use.
type Routes struct {
	handlers map[string]Handler
}

// Add registers h for requests whose URI equals uri exactly.
func (r *Routes) Add(uri string, h Handler) error {
	if h == nil {
		return ErrNilHandler
	}
	if existing, ok := r.handlers[uri]; ok {
		return DuplicateRouteError{URI: uri, Existing: existing}
	}
	if r.handlers == nil {
		r.handlers = make(map[string]Handler)
	}
	r.handlers[uri] = h
	return nil
}

// Len returns the number of registered routes.
func (r *Routes) Len() int {
	if r == nil {
		return 0
	}
	return len(r.handlers)
}

// Map returns a copy of the registrations.
func (r *Routes) Map() map[string]Handler {
	if r == nil || r.handlers == nil {
		return map[string]Handler{}
	}
	return maps.Clone(r.handlers)
}
