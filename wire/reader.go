// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package wire

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrEndOfStream is returned when the peer closes its side of the
// connection before a complete message head was received.
var ErrEndOfStream = errors.New("wire: unexpected end of stream")

// InvalidContentLengthError is returned when a Content-Length header does
// not hold an integer.
type InvalidContentLengthError struct {
	Value string
	Cause error
}

// Error implements the [error] interface.
func (e InvalidContentLengthError) Error() string {
	return fmt.Sprintf("invalid content length: %q", e.Value)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidContentLengthError) Unwrap() error {
	return e.Cause
}

// ShortBodyError is returned when the stream ends before the advertised
// number of body bytes was read.
type ShortBodyError struct {
	Expected int
	Read     int
}

// Error implements the [error] interface.
func (e ShortBodyError) Error() string {
	return fmt.Sprintf("body ended after %d of %d bytes", e.Read, e.Expected)
}

var terminator = []byte("\r\n\r\n")

// Reader reads message heads and bodies from a byte stream.
type Reader struct {
	br *bufio.Reader
}

// NewReader returns a Reader which buffers r.
func NewReader(r io.Reader) *Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return &Reader{br: br}
	}
	return &Reader{br: bufio.NewReader(r)}
}

// ReadHead reads up to and including the first blank line and returns
// everything before it, i.e. the first line followed by the header lines
// joined with CRLF.
func (r *Reader) ReadHead() (string, error) {
	var buf bytes.Buffer
	for {
		b, err := r.br.ReadByte()
		if errors.Is(err, io.EOF) {
			return "", ErrEndOfStream
		}
		if err != nil {
			return "", err
		}

		buf.WriteByte(b)
		if b == '\n' && bytes.HasSuffix(buf.Bytes(), terminator) {
			buf.Truncate(buf.Len() - len(terminator))
			return buf.String(), nil
		}
	}
}

// ReadBody reads exactly n bytes. A non-positive n yields an empty body.
func (r *Reader) ReadBody(n int) ([]byte, error) {
	if n <= 0 {
		return []byte{}, nil
	}

	var buf bytes.Buffer
	read, err := io.CopyN(&buf, r.br, int64(n))
	if errors.Is(err, io.EOF) {
		return nil, ShortBodyError{Expected: n, Read: int(read)}
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ContentLength scans the header lines of head for a Content-Length header,
// matching its name case-insensitively. The first line is never considered.
func ContentLength(head string) (n int, found bool, err error) {
	lines := strings.Split(head, crlf)
	for _, line := range lines[1:] {
		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}

		value = strings.TrimSpace(value)
		length, perr := strconv.Atoi(value)
		if perr != nil {
			return 0, true, InvalidContentLengthError{Value: value, Cause: perr}
		}
		return length, true, nil
	}
	return 0, false, nil
}
