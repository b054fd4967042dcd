// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package request

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/z5labs/tinyhttp/header"
	"github.com/z5labs/tinyhttp/httperr"
	"github.com/z5labs/tinyhttp/wire"
)

// SupportedMethods lists the accepted request methods in the order they
// are reported to clients.
var SupportedMethods = []string{"GET", "POST", "HEAD"}

// MalformedRequestLineError is returned when the request line does not
// consist of exactly a method, URI and version.
type MalformedRequestLineError struct {
	Line string
}

// Error implements the [error] interface.
func (e MalformedRequestLineError) Error() string {
	return fmt.Sprintf("malformed request line: %q", e.Line)
}

// MalformedHeaderError is returned for a header line without a colon.
type MalformedHeaderError struct {
	Line string
}

// Error implements the [error] interface.
func (e MalformedHeaderError) Error() string {
	return fmt.Sprintf("malformed header line: %q", e.Line)
}

// ErrOrphanContinuation is returned when a continuation line appears
// before any header.
var ErrOrphanContinuation = errors.New("header continuation without a preceding header")

// Parse builds a [Request] from a message head, as returned by
// [wire.Reader.ReadHead], and its body.
//
// Every error returned is an [*httperr.Error]: a wrong protocol version
// yields KindVersionNotSupported, a method outside of [SupportedMethods]
// yields KindMethodNotAllowed and anything else KindBadRequest.
func Parse(head string, body []byte, remoteAddr string) (*Request, error) {
	lines := strings.Split(head, "\r\n")
	firstLine := lines[0]

	tokens := strings.Fields(firstLine)
	if len(tokens) != 3 {
		return nil, httperr.BadRequest(MalformedRequestLineError{Line: firstLine}, firstLine)
	}
	method, uri, version := tokens[0], tokens[1], tokens[2]

	if version != wire.Version {
		return nil, httperr.VersionNotSupported(wire.Version, firstLine)
	}

	h, err := parseHeaders(lines[1:])
	if err != nil {
		return nil, httperr.BadRequest(err, firstLine)
	}

	var params map[string]string
	switch strings.ToUpper(method) {
	case "GET", "HEAD":
		path, query, ok := strings.Cut(uri, "?")
		uri = path
		if ok {
			params, err = ParseParams(query)
		}
	case "POST":
		if len(body) > 0 {
			params, err = ParseParams(string(body))
		}
	default:
		return nil, httperr.MethodNotAllowed(method, SupportedMethods, firstLine)
	}
	if err != nil {
		return nil, httperr.BadRequest(err, firstLine)
	}
	if params == nil {
		params = make(map[string]string)
	}

	req := &Request{
		method:     method,
		uri:        uri,
		version:    version,
		remoteAddr: remoteAddr,
		header:     h,
		params:     params,
	}
	return req, nil
}

func parseHeaders(lines []string) (*header.Header, error) {
	h := &header.Header{}
	var last string
	for _, line := range lines {
		if line == "" {
			continue
		}

		if line[0] == ' ' || line[0] == '\t' {
			if last == "" {
				return nil, ErrOrphanContinuation
			}
			h.Extend(last, strings.TrimSpace(line))
			continue
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, MalformedHeaderError{Line: line}
		}
		last = header.Normalize(name)
		h.Set(last, strings.TrimSpace(value))
	}
	return h, nil
}

// ParseParams decodes a query string shaped blob. Pairs are separated by
// '&' and split on their first '='; a pair without '=' maps to an empty
// value. Values are percent-decoded and the values of a repeated key are
// joined with ',' in order of appearance.
func ParseParams(s string) (map[string]string, error) {
	params := make(map[string]string)
	for _, pair := range strings.Split(s, "&") {
		if pair == "" {
			continue
		}

		key, raw, _ := strings.Cut(pair, "=")
		value, err := url.QueryUnescape(raw)
		if err != nil {
			return nil, fmt.Errorf("decode parameter %q: %w", key, err)
		}

		if prev, ok := params[key]; ok {
			params[key] = prev + "," + value
			continue
		}
		params[key] = value
	}
	return params, nil
}
