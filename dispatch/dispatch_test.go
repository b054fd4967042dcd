// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/z5labs/tinyhttp/handler"
	"github.com/z5labs/tinyhttp/httperr"
	"github.com/z5labs/tinyhttp/internal/try"
	"github.com/z5labs/tinyhttp/request"
	"github.com/z5labs/tinyhttp/response"
)

func parse(t *testing.T, head string) *request.Request {
	t.Helper()
	req, err := request.Parse(head, nil, "127.0.0.1:1234")
	if err != nil {
		t.Fatal(err)
	}
	return req
}

func statusHandler(code int) handler.Handler {
	return handler.HandlerFunc(func(_ context.Context, _ handler.Context, _ *request.Request, resp response.Writable) error {
		resp.SetStatus(code)
		return nil
	})
}

func failingHandler(err error) handler.Handler {
	return handler.HandlerFunc(func(context.Context, handler.Context, *request.Request, response.Writable) error {
		return err
	})
}

func TestNew(t *testing.T) {
	t.Run("will return ErrNoDefaultHandler", func(t *testing.T) {
		t.Run("if the default handler is nil", func(t *testing.T) {
			_, err := New(nil, nil)
			if !assert.ErrorIs(t, err, ErrNoDefaultHandler) {
				return
			}
		})
	})
}

func TestDispatcher_Dispatch(t *testing.T) {
	t.Run("will call the registered handler", func(t *testing.T) {
		t.Run("if the uri matches exactly", func(t *testing.T) {
			var routes handler.Routes
			routes.Add("/info", statusHandler(201))

			d, err := New(statusHandler(299), &routes)
			if !assert.Nil(t, err) {
				return
			}

			resp := response.New()
			err = d.Dispatch(context.Background(), nil, parse(t, "GET /info HTTP/1.1"), resp)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, 201, resp.Status()) {
				return
			}
		})

		t.Run("if the query string was stripped", func(t *testing.T) {
			var routes handler.Routes
			routes.Add("/info", statusHandler(201))

			d, err := New(statusHandler(299), &routes)
			if !assert.Nil(t, err) {
				return
			}

			resp := response.New()
			err = d.Dispatch(context.Background(), nil, parse(t, "GET /info?verbose=1 HTTP/1.1"), resp)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, 201, resp.Status()) {
				return
			}
		})
	})

	t.Run("will call the default handler", func(t *testing.T) {
		t.Run("if no route matches", func(t *testing.T) {
			var routes handler.Routes
			routes.Add("/info", statusHandler(201))

			d, err := New(statusHandler(299), &routes)
			if !assert.Nil(t, err) {
				return
			}

			resp := response.New()
			err = d.Dispatch(context.Background(), nil, parse(t, "GET /info/ HTTP/1.1"), resp)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, 299, resp.Status()) {
				return
			}
		})

		t.Run("if there are no routes", func(t *testing.T) {
			d, err := New(statusHandler(299), nil)
			if !assert.Nil(t, err) {
				return
			}

			resp := response.New()
			err = d.Dispatch(context.Background(), nil, parse(t, "GET / HTTP/1.1"), resp)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, 299, resp.Status()) {
				return
			}
		})
	})

	t.Run("will return the protocol fault unchanged", func(t *testing.T) {
		t.Run("if the handler returns one", func(t *testing.T) {
			fault := httperr.New(404, "not here")
			d, err := New(failingHandler(fault), nil)
			if !assert.Nil(t, err) {
				return
			}

			err = d.Dispatch(context.Background(), nil, parse(t, "GET /x HTTP/1.1"), response.New())

			herr, ok := httperr.As(err)
			if !assert.True(t, ok) {
				return
			}
			if !assert.Same(t, fault, herr) {
				return
			}
		})
	})

	t.Run("will wrap the error as handling failed", func(t *testing.T) {
		t.Run("if the handler returns a plain error", func(t *testing.T) {
			cause := errors.New("disk on fire")
			d, err := New(failingHandler(cause), nil)
			if !assert.Nil(t, err) {
				return
			}

			err = d.Dispatch(context.Background(), nil, parse(t, "GET /x.html HTTP/1.1"), response.New())

			herr, ok := httperr.As(err)
			if !assert.True(t, ok) {
				return
			}
			assert.Equal(t, httperr.KindHandlingFailed, herr.Kind)
			assert.Equal(t, 500, herr.StatusCode)
			assert.Equal(t, "/x.html", herr.URI)
			assert.Equal(t, "Handle request: /x.html failed: disk on fire", herr.Error())
			assert.ErrorIs(t, err, cause)
		})

		t.Run("if the handler panics", func(t *testing.T) {
			d, err := New(handler.HandlerFunc(func(context.Context, handler.Context, *request.Request, response.Writable) error {
				panic("boom")
			}), nil)
			if !assert.Nil(t, err) {
				return
			}

			err = d.Dispatch(context.Background(), nil, parse(t, "GET /x HTTP/1.1"), response.New())

			herr, ok := httperr.As(err)
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, httperr.KindHandlingFailed, herr.Kind) {
				return
			}

			var perr try.PanicError
			if !assert.ErrorAs(t, err, &perr) {
				return
			}
			if !assert.Equal(t, "boom", perr.Value) {
				return
			}
		})
	})
}
