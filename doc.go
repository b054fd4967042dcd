// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package tinyhttp is a small HTTP/1.1 server which serves exactly one
// request per TCP connection.
//
// Each accepted connection is handed to a worker which reads the request
// head up to the blank line, reads the body when Content-Length is
// present, dispatches the parsed request to the handler registered for
// its URI (or the default handler), writes the response and closes the
// connection. Protocol faults are turned into 400, 405, 500 or 505
// responses rendered from an HTML template.
//
// The packages are layered bottom-up:
//
//   - wire and header read request heads and bodies and write responses
//   - request and response model a single exchange
//   - dispatch routes a request to a handler
//   - exchange drives one connection end to end
//   - server accepts connections onto a bounded or unbounded worker pool
//
// This package ties configuration to a running [App] through [Run], the
// same way every command in cmd/ starts up.
package tinyhttp
