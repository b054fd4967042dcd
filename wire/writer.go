// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package wire

import (
	"bufio"
	"io"
	"strconv"

	"github.com/z5labs/tinyhttp/header"
)

// Message is the read side of a finalized response.
type Message interface {
	Status() int
	Header() *header.Header
	Body() []byte
}

// StatusMessager resolves the reason phrase for a status code.
type StatusMessager interface {
	StatusMessage(code int) string
}

// Writer serializes responses.
type Writer struct {
	messages StatusMessager
}

// NewWriter returns a Writer which looks up reason phrases in messages.
func NewWriter(messages StatusMessager) *Writer {
	return &Writer{messages: messages}
}

// Write emits the status line, the headers in stored order and a blank
// line, flushes them, and then writes the body bytes directly to out.
// An empty body results in no further writes after the blank line.
func (w *Writer) Write(out io.Writer, msg Message) error {
	bw := bufio.NewWriter(out)

	status := msg.Status()
	bw.WriteString(Version)
	bw.WriteByte(' ')
	bw.WriteString(strconv.Itoa(status))
	bw.WriteByte(' ')
	bw.WriteString(w.messages.StatusMessage(status))
	bw.WriteString(crlf)

	msg.Header().Each(func(name, value string) {
		bw.WriteString(name)
		bw.WriteString(": ")
		bw.WriteString(value)
		bw.WriteString(crlf)
	})
	bw.WriteString(crlf)

	// bufio.Writer keeps the first write error and reports it here.
	err := bw.Flush()
	if err != nil {
		return err
	}

	body := msg.Body()
	if len(body) == 0 {
		return nil
	}
	_, err = out.Write(body)
	return err
}
