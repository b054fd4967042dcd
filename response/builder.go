// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package response

import (
	"fmt"
	"time"
)

// ErrorTemplate names the template rendered for error responses which
// have no body of their own. It receives StatusCode and StatusMessage.
const ErrorTemplate = "error.html"

// StatusMessager resolves the reason phrase for a status code.
type StatusMessager interface {
	StatusMessage(code int) string
}

// Renderer renders a named template.
type Renderer interface {
	Render(name string, args map[string]any) (string, error)
}

// RenderError is returned by [Builder.Prepare] when the default error body
// could not be rendered.
type RenderError struct {
	Template string
	Cause    error
}

// Error implements the [error] interface.
func (e RenderError) Error() string {
	return fmt.Sprintf("failed to render %s: %s", e.Template, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e RenderError) Unwrap() error {
	return e.Cause
}

// BuilderOption configures a [Builder].
type BuilderOption func(*Builder)

// Clock overrides the source of the Date header.
func Clock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		b.now = now
	}
}

// Builder creates responses with the baseline headers and finalizes them
// before they are written.
type Builder struct {
	serverName string
	messages   StatusMessager
	renderer   Renderer
	now        func() time.Time
}

// NewBuilder returns a Builder which identifies as serverName.
func NewBuilder(serverName string, messages StatusMessager, renderer Renderer, opts ...BuilderOption) *Builder {
	b := &Builder{
		serverName: serverName,
		messages:   messages,
		renderer:   renderer,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// New returns a response carrying the baseline headers.
func (b *Builder) New() *Response {
	resp := New()
	resp.SetHeader("Date", b.now())
	resp.SetHeader("Server", b.serverName)
	resp.SetHeader("Content-Language", "en")
	resp.SetHeader("Connection", "close")
	resp.SetHeader("Content-Type", "text/html")
	return resp
}

// Prepare finalizes resp for writing.
//
// An error status with an empty body first receives a body rendered from
// [ErrorTemplate]. Content-Length is then set from the body length. When
// suppressBody is true the body is emptied afterwards, leaving
// Content-Length at the length it would have had.
//
// A render failure leaves the body empty and is returned after the rest of
// the response has been finalized.
func (b *Builder) Prepare(resp *Response, suppressBody bool) error {
	var err error
	if resp.Status() >= 400 && resp.BodyLen() == 0 {
		err = b.renderErrorBody(resp)
	}

	resp.SetHeader("Content-Length", resp.BodyLen())

	if suppressBody {
		resp.SetBody(nil)
	}
	return err
}

func (b *Builder) renderErrorBody(resp *Response) error {
	code := resp.Status()
	body, err := b.renderer.Render(ErrorTemplate, map[string]any{
		"StatusCode":    code,
		"StatusMessage": b.messages.StatusMessage(code),
	})
	if err != nil {
		return RenderError{Template: ErrorTemplate, Cause: err}
	}
	resp.SetBodyString(body)
	return nil
}
