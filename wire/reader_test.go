// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package wire

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct {
	err error
}

func (r failingReader) Read(b []byte) (int, error) {
	return 0, r.err
}

func TestReader_ReadHead(t *testing.T) {
	t.Run("will return the head without the terminator", func(t *testing.T) {
		t.Run("if the stream holds a complete head", func(t *testing.T) {
			r := NewReader(strings.NewReader("GET / HTTP/1.1\r\nHost: localhost\r\n\r\nbody"))

			head, err := r.ReadHead()
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "GET / HTTP/1.1\r\nHost: localhost", head) {
				return
			}
		})

		t.Run("if the head is empty", func(t *testing.T) {
			r := NewReader(strings.NewReader("\r\n\r\n"))

			head, err := r.ReadHead()
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Empty(t, head) {
				return
			}
		})
	})

	t.Run("will leave the body unread", func(t *testing.T) {
		t.Run("if bytes follow the terminator", func(t *testing.T) {
			r := NewReader(strings.NewReader("POST / HTTP/1.1\r\n\r\na=1"))

			_, err := r.ReadHead()
			if !assert.Nil(t, err) {
				return
			}

			body, err := r.ReadBody(3)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "a=1", string(body)) {
				return
			}
		})
	})

	t.Run("will return ErrEndOfStream", func(t *testing.T) {
		t.Run("if the stream is empty", func(t *testing.T) {
			r := NewReader(strings.NewReader(""))

			_, err := r.ReadHead()
			if !assert.ErrorIs(t, err, ErrEndOfStream) {
				return
			}
		})

		t.Run("if the stream ends before the terminator", func(t *testing.T) {
			r := NewReader(strings.NewReader("GET / HTTP/1.1\r\nHost: x\r\n"))

			_, err := r.ReadHead()
			if !assert.ErrorIs(t, err, ErrEndOfStream) {
				return
			}
		})
	})

	t.Run("will return the underlying error", func(t *testing.T) {
		t.Run("if the stream fails", func(t *testing.T) {
			readErr := errors.New("connection reset")
			r := NewReader(failingReader{err: readErr})

			_, err := r.ReadHead()
			if !assert.ErrorIs(t, err, readErr) {
				return
			}
		})
	})
}

func TestReader_ReadBody(t *testing.T) {
	t.Run("will return an empty body", func(t *testing.T) {
		t.Run("if the length is zero", func(t *testing.T) {
			r := NewReader(strings.NewReader("ignored"))

			body, err := r.ReadBody(0)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Empty(t, body) {
				return
			}
		})
	})

	t.Run("will read across partial reads", func(t *testing.T) {
		t.Run("if the stream delivers one byte at a time", func(t *testing.T) {
			r := NewReader(io.MultiReader(
				strings.NewReader("a"),
				strings.NewReader("b"),
				strings.NewReader("cd"),
			))

			body, err := r.ReadBody(4)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "abcd", string(body)) {
				return
			}
		})
	})

	t.Run("will return a ShortBodyError", func(t *testing.T) {
		t.Run("if the stream ends early", func(t *testing.T) {
			r := NewReader(strings.NewReader("ab"))

			_, err := r.ReadBody(5)

			var sberr ShortBodyError
			if !assert.ErrorAs(t, err, &sberr) {
				return
			}
			if !assert.Equal(t, 5, sberr.Expected) {
				return
			}
			if !assert.Equal(t, 2, sberr.Read) {
				return
			}
		})
	})
}

func TestContentLength(t *testing.T) {
	testCases := []struct {
		Name  string
		Head  string
		N     int
		Found bool
	}{
		{
			Name:  "exact case",
			Head:  "POST / HTTP/1.1\r\nContent-Length: 12",
			N:     12,
			Found: true,
		},
		{
			Name:  "mixed case and padding",
			Head:  "POST / HTTP/1.1\r\nHost: x\r\ncontent-LENGTH:   7  ",
			N:     7,
			Found: true,
		},
		{
			Name:  "explicit zero",
			Head:  "POST / HTTP/1.1\r\nContent-Length: 0",
			N:     0,
			Found: true,
		},
		{
			Name: "missing",
			Head: "GET / HTTP/1.1\r\nHost: x",
		},
		{
			Name: "first line is ignored",
			Head: "Content-Length: 5",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			n, found, err := ContentLength(testCase.Head)
			require.Nil(t, err)
			require.Equal(t, testCase.Found, found)
			require.Equal(t, testCase.N, n)
		})
	}

	t.Run("will return an InvalidContentLengthError", func(t *testing.T) {
		t.Run("if the value is not an integer", func(t *testing.T) {
			_, _, err := ContentLength("POST / HTTP/1.1\r\nContent-Length: ten")

			var clerr InvalidContentLengthError
			if !assert.ErrorAs(t, err, &clerr) {
				return
			}
			if !assert.Equal(t, "ten", clerr.Value) {
				return
			}
		})
	})
}
