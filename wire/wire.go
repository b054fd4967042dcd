// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package wire moves HTTP/1.1 messages between raw byte streams and their
// textual head and body.
package wire

// Version is the only protocol version spoken on the wire.
const Version = "HTTP/1.1"

const crlf = "\r\n"
