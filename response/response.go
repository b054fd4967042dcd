// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package response holds the per exchange response and the builder which
// creates and finalizes it.
package response

import (
	"fmt"
	"io"
	"time"

	"github.com/z5labs/tinyhttp/header"
)

// TimeFormat is the layout used for date valued headers.
const TimeFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// Writable is the surface a handler may use to populate a response.
type Writable interface {
	SetStatus(code int)

	// SetHeader stores value, formatted with [FormatValue], under the
	// normalized name. A nil value removes the header.
	SetHeader(name string, value any)

	SetBody(b []byte)
	SetBodyString(s string)

	// SetBodyFrom replaces the body with everything read from r.
	SetBodyFrom(r io.Reader) error
}

// Response is a mutable HTTP response. It belongs to exactly one exchange.
type Response struct {
	status int
	header *header.Header
	body   []byte
}

var _ Writable = (*Response)(nil)

// New returns a response with status 200, no headers and an empty body.
func New() *Response {
	return &Response{
		status: 200,
		header: &header.Header{},
		body:   []byte{},
	}
}

// Status returns the status code.
func (r *Response) Status() int {
	return r.status
}

// Header returns the live header map.
func (r *Response) Header() *header.Header {
	return r.header
}

// Body returns the body bytes.
func (r *Response) Body() []byte {
	return r.body
}

// BodyLen returns the body length in bytes.
func (r *Response) BodyLen() int {
	return len(r.body)
}

// SetStatus implements the [Writable] interface.
func (r *Response) SetStatus(code int) {
	r.status = code
}

// SetHeader implements the [Writable] interface.
func (r *Response) SetHeader(name string, value any) {
	if value == nil {
		r.header.Del(name)
		return
	}
	r.header.Set(name, FormatValue(value))
}

// SetBody implements the [Writable] interface.
func (r *Response) SetBody(b []byte) {
	if b == nil {
		b = []byte{}
	}
	r.body = b
}

// SetBodyString implements the [Writable] interface.
func (r *Response) SetBodyString(s string) {
	r.body = []byte(s)
}

// SetBodyFrom implements the [Writable] interface.
func (r *Response) SetBodyFrom(rd io.Reader) error {
	b, err := io.ReadAll(rd)
	if err != nil {
		return fmt.Errorf("set response body: %w", err)
	}
	r.body = b
	return nil
}

// FormatValue renders a header value. Times are converted to UTC and
// formatted with [TimeFormat], [fmt.Stringer]s use their String method and
// everything else its default format.
func FormatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		return x.UTC().Format(TimeFormat)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
