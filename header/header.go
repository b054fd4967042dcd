// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package header implements the ordered, case-normalized header map shared
// by requests and responses.
package header

import (
	"strings"
	"unicode"
)

// Normalize returns name in canonical form: surrounding whitespace removed,
// the first letter and every letter following a hyphen upper-cased and
// everything else lower-cased, e.g. "content-LENGTH" becomes "Content-Length".
func Normalize(name string) string {
	rs := []rune(strings.TrimSpace(name))
	for i := 0; i < len(rs); i++ {
		switch {
		case i == 0:
			rs[i] = unicode.ToUpper(rs[i])
		case rs[i] == '-' && i < len(rs)-1:
			rs[i+1] = unicode.ToUpper(rs[i+1])
			i++
		default:
			rs[i] = unicode.ToLower(rs[i])
		}
	}
	return string(rs)
}

// Header is an insertion ordered mapping of normalized names to values.
// The zero value is ready to use. A Header is not safe for concurrent use;
// each one belongs to a single exchange.
type Header struct {
	names  []string
	values map[string]string
}

// Set stores value under the normalized name. Setting an existing name
// replaces its value but keeps its original position.
func (h *Header) Set(name, value string) {
	name = Normalize(name)
	if h.values == nil {
		h.values = make(map[string]string)
	}
	if _, ok := h.values[name]; !ok {
		h.names = append(h.names, name)
	}
	h.values[name] = value
}

// Extend appends more to the value already stored under name, separated by
// a single space. It reports false if name has not been set.
func (h *Header) Extend(name, more string) bool {
	name = Normalize(name)
	v, ok := h.values[name]
	if !ok {
		return false
	}
	h.values[name] = v + " " + more
	return true
}

// Get returns the value stored under name.
func (h *Header) Get(name string) (string, bool) {
	if h == nil {
		return "", false
	}
	v, ok := h.values[Normalize(name)]
	return v, ok
}

// Del removes name.
func (h *Header) Del(name string) {
	name = Normalize(name)
	if _, ok := h.values[name]; !ok {
		return
	}
	delete(h.values, name)
	for i, n := range h.names {
		if n == name {
			h.names = append(h.names[:i], h.names[i+1:]...)
			break
		}
	}
}

// Len returns the number of distinct header names.
func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.names)
}

// Each calls f for every header in insertion order.
func (h *Header) Each(f func(name, value string)) {
	if h == nil {
		return
	}
	for _, name := range h.names {
		f(name, h.values[name])
	}
}
