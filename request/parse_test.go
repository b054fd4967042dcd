// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/z5labs/tinyhttp/header"
	"github.com/z5labs/tinyhttp/httperr"
)

func head(lines ...string) string {
	return strings.Join(lines, "\r\n")
}

func headerNames(h *header.Header) []string {
	var names []string
	h.Each(func(name, _ string) {
		names = append(names, name)
	})
	return names
}

func TestParse(t *testing.T) {
	t.Run("will parse the request line and headers", func(t *testing.T) {
		t.Run("if the request is a simple GET", func(t *testing.T) {
			req, err := Parse(head(
				"GET /index.html HTTP/1.1",
				"Host: localhost",
				"user-agent: curl/8.0",
				"ACCEPT: text/html",
				"Connection: close",
			), nil, "127.0.0.1:5000")
			if !assert.Nil(t, err) {
				return
			}

			assert.Equal(t, "GET", req.Method())
			assert.Equal(t, "/index.html", req.URI())
			assert.Equal(t, "HTTP/1.1", req.Version())
			assert.Equal(t, "127.0.0.1:5000", req.RemoteAddr())
			assert.Equal(t, "GET /index.html HTTP/1.1", req.FirstLine())
			assert.Empty(t, req.params)
			assert.Equal(t, []string{"Host", "User-Agent", "Accept", "Connection"}, headerNames(req.header))

			ua, ok := req.Header("User-Agent")
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, "curl/8.0", ua) {
				return
			}
		})
	})

	t.Run("will join continuation lines with a space", func(t *testing.T) {
		t.Run("if a header value spans several lines", func(t *testing.T) {
			req, err := Parse(head(
				"GET / HTTP/1.1",
				"X-Foo: a",
				"  b",
				"\tc",
				"Host: localhost",
			), nil, "")
			if !assert.Nil(t, err) {
				return
			}

			foo, _ := req.Header("x-foo")
			if !assert.Equal(t, "a b c", foo) {
				return
			}
		})
	})

	t.Run("will keep the last value", func(t *testing.T) {
		t.Run("if a header is repeated", func(t *testing.T) {
			req, err := Parse(head(
				"GET / HTTP/1.1",
				"Accept: text/plain",
				"Host: localhost",
				"accept: text/html",
			), nil, "")
			if !assert.Nil(t, err) {
				return
			}

			accept, _ := req.Header("Accept")
			if !assert.Equal(t, "text/html", accept) {
				return
			}
			if !assert.Equal(t, []string{"Accept", "Host"}, headerNames(req.header)) {
				return
			}
		})
	})

	t.Run("will strip the query string", func(t *testing.T) {
		t.Run("if a GET uri carries parameters", func(t *testing.T) {
			req, err := Parse(head(
				"GET /index.html?param1=value1&param2=true&param1=value2&param1=value1 HTTP/1.1",
				"Host: localhost",
			), nil, "")
			if !assert.Nil(t, err) {
				return
			}

			assert.Equal(t, "/index.html", req.URI())
			assert.Equal(t, map[string]string{
				"param1": "value1,value2,value1",
				"param2": "true",
			}, req.params)
		})

		t.Run("if a HEAD uri carries parameters", func(t *testing.T) {
			req, err := Parse(head("HEAD /index.html?a=1 HTTP/1.1"), nil, "")
			if !assert.Nil(t, err) {
				return
			}

			assert.Equal(t, "/index.html", req.URI())
			v, _ := req.Param("a")
			assert.Equal(t, "1", v)
		})

		t.Run("if the method is lower case", func(t *testing.T) {
			req, err := Parse(head("get /a?b=c HTTP/1.1"), nil, "")
			if !assert.Nil(t, err) {
				return
			}

			assert.Equal(t, "get", req.Method())
			assert.Equal(t, "/a", req.URI())
			assert.Equal(t, map[string]string{"b": "c"}, req.params)
		})
	})

	t.Run("will read parameters from the body", func(t *testing.T) {
		t.Run("if the request is a POST", func(t *testing.T) {
			body := "email=test%40example.com&password=&number=5&text=Simple+Text&url=http%3A%2F%2Fexample.com"
			req, err := Parse(head(
				"POST /index.html?ignored=1 HTTP/1.1",
				"Content-Length: 86",
			), []byte(body), "")
			if !assert.Nil(t, err) {
				return
			}

			assert.Equal(t, "/index.html?ignored=1", req.URI())
			assert.Equal(t, map[string]string{
				"email":    "test@example.com",
				"password": "",
				"number":   "5",
				"text":     "Simple Text",
				"url":      "http://example.com",
			}, req.params)
		})

		t.Run("if the POST body is empty", func(t *testing.T) {
			req, err := Parse(head(
				"POST /index.html HTTP/1.1",
				"Content-Length: 0",
			), []byte{}, "")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Empty(t, req.params) {
				return
			}
		})
	})

	t.Run("will return a bad request fault", func(t *testing.T) {
		testCases := []struct {
			Name      string
			Head      string
			FirstLine string
			Cause     error
		}{
			{
				Name:  "empty head",
				Head:  "",
				Cause: MalformedRequestLineError{},
			},
			{
				Name:      "two tokens",
				Head:      "GET /",
				FirstLine: "GET /",
				Cause:     MalformedRequestLineError{Line: "GET /"},
			},
			{
				Name:      "four tokens",
				Head:      "GET / HTTP/1.1 extra",
				FirstLine: "GET / HTTP/1.1 extra",
				Cause:     MalformedRequestLineError{Line: "GET / HTTP/1.1 extra"},
			},
			{
				Name:      "header without colon",
				Head:      head("GET / HTTP/1.1", "Host localhost"),
				FirstLine: "GET / HTTP/1.1",
				Cause:     MalformedHeaderError{Line: "Host localhost"},
			},
			{
				Name:      "continuation without header",
				Head:      head("GET / HTTP/1.1", "  dangling"),
				FirstLine: "GET / HTTP/1.1",
				Cause:     ErrOrphanContinuation,
			},
		}

		for _, testCase := range testCases {
			t.Run(testCase.Name, func(t *testing.T) {
				_, err := Parse(testCase.Head, nil, "")

				herr, ok := httperr.As(err)
				require.True(t, ok)
				require.Equal(t, httperr.KindBadRequest, herr.Kind)
				require.Equal(t, 400, herr.StatusCode)
				require.Equal(t, testCase.FirstLine, herr.FirstLine)
				require.True(t, errors.Is(err, testCase.Cause))
			})
		}

		t.Run("if a parameter is not valid percent encoding", func(t *testing.T) {
			_, err := Parse(head("GET /?a=%zz HTTP/1.1"), nil, "")

			herr, ok := httperr.As(err)
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, httperr.KindBadRequest, herr.Kind) {
				return
			}
		})
	})

	t.Run("will return a version not supported fault", func(t *testing.T) {
		t.Run("if the version is not HTTP/1.1", func(t *testing.T) {
			_, err := Parse(head("GET /x HTTP/1.0", "Host: localhost"), nil, "")

			herr, ok := httperr.As(err)
			if !assert.True(t, ok) {
				return
			}
			assert.Equal(t, httperr.KindVersionNotSupported, herr.Kind)
			assert.Equal(t, 505, herr.StatusCode)
			assert.Equal(t, "GET /x HTTP/1.0", herr.FirstLine)
			assert.Equal(t, "This server only supports HTTP/1.1 protocol", herr.Error())
		})
	})

	t.Run("will return a method not allowed fault", func(t *testing.T) {
		t.Run("if the method is PUT", func(t *testing.T) {
			_, err := Parse(head("PUT /index.html HTTP/1.1"), nil, "")

			herr, ok := httperr.As(err)
			if !assert.True(t, ok) {
				return
			}
			assert.Equal(t, httperr.KindMethodNotAllowed, herr.Kind)
			assert.Equal(t, 405, herr.StatusCode)
			assert.Equal(t, "PUT", herr.Method)
			assert.Equal(t, []string{"GET", "POST", "HEAD"}, herr.Allowed)
			assert.Equal(t, "Only [GET, POST, HEAD] are supported. But the current method is PUT", herr.Error())
		})
	})
}

func TestParseParams(t *testing.T) {
	testCases := []struct {
		Name     string
		Input    string
		Expected map[string]string
	}{
		{
			Name:     "empty",
			Input:    "",
			Expected: map[string]string{},
		},
		{
			Name:     "key without value",
			Input:    "flag",
			Expected: map[string]string{"flag": ""},
		},
		{
			Name:     "duplicates keep encounter order",
			Input:    "a=1&a=2&a=1",
			Expected: map[string]string{"a": "1,2,1"},
		},
		{
			Name:     "value containing separators",
			Input:    "p=test%26qwerty%3Fty%3Du",
			Expected: map[string]string{"p": "test&qwerty?ty=u"},
		},
		{
			Name:     "value split on first equals only",
			Input:    "k=a=b",
			Expected: map[string]string{"k": "a=b"},
		},
		{
			Name:     "empty segments are skipped",
			Input:    "a=1&&b=2&",
			Expected: map[string]string{"a": "1", "b": "2"},
		},
		{
			Name:     "utf-8 values",
			Input:    "name=%D0%BF%D1%80%D0%B8%D0%B2%D0%B5%D1%82",
			Expected: map[string]string{"name": "привет"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			params, err := ParseParams(testCase.Input)
			require.Nil(t, err)
			require.Equal(t, testCase.Expected, params)
		})
	}
}
