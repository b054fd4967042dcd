// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package webapp

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/z5labs/tinyhttp/handler"
)

func testConfig(t *testing.T) Config {
	return Config{
		Server: handler.ServerInfo{
			Name:        "webapp-test",
			Port:        8080,
			ThreadCount: 2,
		},
		Root:              t.TempDir(),
		ExpiresDays:       7,
		ExpiresExtensions: []string{"css", " js ", ""},
		Statuses: map[int]string{
			200: "OK",
			404: "Not Found",
			500: "Internal Server Error",
		},
		MimeTypes: map[string]string{
			"html": "text/html",
			"png":  "image/png",
		},
	}
}

func newTestContext(t *testing.T, cfg Config) *Context {
	t.Helper()
	templates, err := DefaultTemplates()
	if err != nil {
		t.Fatal(err)
	}
	c, err := New(cfg, templates)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNew(t *testing.T) {
	t.Run("will return an InvalidThreadCountError", func(t *testing.T) {
		t.Run("if the thread count is negative", func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Server.ThreadCount = -1

			_, err := New(cfg, nil)

			var terr InvalidThreadCountError
			if !assert.ErrorAs(t, err, &terr) {
				return
			}
			if !assert.Equal(t, -1, terr.ThreadCount) {
				return
			}
		})
	})

	t.Run("will return a RootPathError", func(t *testing.T) {
		t.Run("if the root does not exist", func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Root = filepath.Join(cfg.Root, "missing")

			_, err := New(cfg, nil)

			var rerr RootPathError
			if !assert.ErrorAs(t, err, &rerr) {
				return
			}
			if !assert.ErrorIs(t, err, os.ErrNotExist) {
				return
			}
		})

		t.Run("if the root is a file", func(t *testing.T) {
			cfg := testConfig(t)
			file := filepath.Join(cfg.Root, "index.html")
			err := os.WriteFile(file, []byte("hi"), 0o644)
			if !assert.Nil(t, err) {
				return
			}
			cfg.Root = file

			_, err = New(cfg, nil)
			if !assert.ErrorIs(t, err, ErrNotDirectory) {
				return
			}
		})
	})

	t.Run("will return ErrMissingInternalServerError", func(t *testing.T) {
		t.Run("if 500 has no status message", func(t *testing.T) {
			cfg := testConfig(t)
			delete(cfg.Statuses, 500)

			_, err := New(cfg, nil)
			if !assert.ErrorIs(t, err, ErrMissingInternalServerError) {
				return
			}
		})
	})

	t.Run("will resolve the root to an absolute path", func(t *testing.T) {
		cfg := testConfig(t)

		c := newTestContext(t, cfg)
		if !assert.True(t, filepath.IsAbs(c.RootPath())) {
			return
		}
	})
}

func TestContext(t *testing.T) {
	c := newTestContext(t, testConfig(t))

	t.Run("will return the server info", func(t *testing.T) {
		assert.Equal(t, handler.ServerInfo{Name: "webapp-test", Port: 8080, ThreadCount: 2}, c.ServerInfo())
	})

	t.Run("will list the supported methods in order", func(t *testing.T) {
		methods := c.SupportedMethods()
		assert.Equal(t, []string{"GET", "POST", "HEAD"}, methods)

		methods[0] = "PUT"
		assert.Equal(t, "GET", c.SupportedMethods()[0])
	})

	t.Run("will fall back to the 500 status message", func(t *testing.T) {
		t.Run("if the status is unknown", func(t *testing.T) {
			assert.Equal(t, "Not Found", c.StatusMessage(404))
			assert.Equal(t, "Internal Server Error", c.StatusMessage(418))
		})
	})

	t.Run("will fall back to text/plain", func(t *testing.T) {
		t.Run("if the extension is unknown", func(t *testing.T) {
			assert.Equal(t, "image/png", c.ContentType("png"))
			assert.Equal(t, "image/png", c.ContentType("PNG"))
			assert.Equal(t, "text/plain", c.ContentType("bin"))
			assert.Equal(t, "text/plain", c.ContentType(""))
		})
	})

	t.Run("will report expiry days", func(t *testing.T) {
		t.Run("if the extension is configured", func(t *testing.T) {
			days, ok := c.ExpiresDays("css")
			assert.True(t, ok)
			assert.Equal(t, 7, days)

			days, ok = c.ExpiresDays("js")
			assert.True(t, ok)
			assert.Equal(t, 7, days)

			_, ok = c.ExpiresDays("CSS")
			assert.True(t, ok)
		})

		t.Run("if the extension is not configured", func(t *testing.T) {
			_, ok := c.ExpiresDays("html")
			assert.False(t, ok)

			_, ok = c.ExpiresDays("")
			assert.False(t, ok)
		})
	})

	t.Run("will return a copy of the statuses", func(t *testing.T) {
		statuses := c.Statuses()
		delete(statuses, 200)

		assert.Equal(t, "OK", c.StatusMessage(200))
	})
}

func TestTemplates_Render(t *testing.T) {
	templates, err := DefaultTemplates()
	if !assert.Nil(t, err) {
		return
	}

	t.Run("will render the error page", func(t *testing.T) {
		out, err := templates.Render("error.html", map[string]any{
			"StatusCode":    404,
			"StatusMessage": "Not Found",
		})
		if !assert.Nil(t, err) {
			return
		}
		assert.Contains(t, out, "<title>404 Not Found</title>")
		assert.Contains(t, out, "<h1>404 Not Found</h1>")
	})

	t.Run("will render a directory listing", func(t *testing.T) {
		out, err := templates.Render("list.html", map[string]any{
			"Title": "List of files for docs",
			"Entries": []map[string]string{
				{"Href": "/docs/a.txt", "Name": "a.txt"},
				{"Href": "/docs/b<c>.txt", "Name": "b<c>.txt"},
			},
		})
		if !assert.Nil(t, err) {
			return
		}
		assert.Contains(t, out, `<a href="/docs/a.txt">a.txt</a><br>`)
		assert.Contains(t, out, "b&lt;c&gt;.txt</a>")
	})

	t.Run("will return a TemplateNotFoundError", func(t *testing.T) {
		t.Run("if the template does not exist", func(t *testing.T) {
			_, err := templates.Render("missing.html", nil)

			var nerr TemplateNotFoundError
			if !assert.ErrorAs(t, err, &nerr) {
				return
			}
			if !assert.Equal(t, "missing.html", nerr.Name) {
				return
			}
		})
	})

	t.Run("will render custom templates", func(t *testing.T) {
		t.Run("if they are parsed from another file system", func(t *testing.T) {
			custom, err := ParseTemplates(fstest.MapFS{
				"hello.html": &fstest.MapFile{Data: []byte("hello {{.Name}}")},
			}, "*.html")
			if !assert.Nil(t, err) {
				return
			}

			out, err := custom.Render("hello.html", map[string]any{"Name": "world"})
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "hello world", out) {
				return
			}
		})
	})
}
