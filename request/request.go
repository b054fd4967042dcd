// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package request parses raw HTTP/1.1 request heads and bodies into
// immutable [Request] values.
package request

import "github.com/z5labs/tinyhttp/header"

// Request is a parsed HTTP request. It is never modified after [Parse]
// returns it and is therefore safe to share.
type Request struct {
	method     string
	uri        string
	version    string
	remoteAddr string
	header     *header.Header
	params     map[string]string
}

// Method returns the request method exactly as it was sent.
func (r *Request) Method() string {
	return r.method
}

// URI returns the request path without any query string.
func (r *Request) URI() string {
	return r.uri
}

// Version returns the protocol version from the request line.
func (r *Request) Version() string {
	return r.version
}

// RemoteAddr returns the address of the peer which sent the request.
func (r *Request) RemoteAddr() string {
	return r.remoteAddr
}

// FirstLine reconstructs the request line from the parsed method, URI
// and version.
func (r *Request) FirstLine() string {
	return r.method + " " + r.uri + " " + r.version
}

// Header returns the value of the named header. Lookup is case-insensitive.
func (r *Request) Header(name string) (string, bool) {
	return r.header.Get(name)
}

// Param returns the value of the named parameter.
func (r *Request) Param(name string) (string, bool) {
	v, ok := r.params[name]
	return v, ok
}
