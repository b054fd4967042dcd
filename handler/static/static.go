// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package static serves files and directory listings from the server's
// root directory.
package static

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/z5labs/tinyhttp/handler"
	"github.com/z5labs/tinyhttp/internal/noop"
	"github.com/z5labs/tinyhttp/internal/otelslog"
	"github.com/z5labs/tinyhttp/internal/slogfield"
	"github.com/z5labs/tinyhttp/request"
	"github.com/z5labs/tinyhttp/response"
)

// ListTemplate is rendered for directories. It receives Title and Entries,
// where every entry has an Href and a Name.
const ListTemplate = "list.html"

// Option configures a [Handler].
type Option func(*Handler)

// LogHandler configures the underlying slog.Handler.
func LogHandler(h slog.Handler) Option {
	return func(sh *Handler) {
		sh.log = otelslog.New(h)
	}
}

// Clock overrides the time Expires headers are computed from.
func Clock(now func() time.Time) Option {
	return func(sh *Handler) {
		sh.now = now
	}
}

// Handler maps the request URI onto the root directory.
type Handler struct {
	log *slog.Logger
	now func() time.Time
}

var _ handler.Handler = (*Handler)(nil)

// New returns a static file [Handler].
func New(opts ...Option) *Handler {
	h := &Handler{
		log: otelslog.New(noop.LogHandler{}),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Entry is a single line of a directory listing.
type Entry struct {
	Href string
	Name string
}

// Handle implements the [handler.Handler] interface.
func (h *Handler) Handle(ctx context.Context, sc handler.Context, req *request.Request, resp response.Writable) error {
	root := sc.RootPath()
	path, ok := resolve(root, req.URI())
	if !ok {
		h.log.DebugContext(ctx, "uri escapes root directory", slogfield.String("uri", req.URI()))
		resp.SetStatus(404)
		return nil
	}

	fi, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		resp.SetStatus(404)
		return nil
	}
	if err != nil {
		return err
	}

	if fi.IsDir() {
		return h.serveDirectory(sc, root, path, resp)
	}
	return h.serveFile(sc, path, fi, resp)
}

// resolve maps uri onto a path under root. Symlinks are followed before
// the containment check, so a link pointing outside root is rejected.
func resolve(root, uri string) (string, bool) {
	p, err := url.PathUnescape(uri)
	if err != nil {
		return "", false
	}

	path := filepath.Join(root, filepath.FromSlash(p))
	if !within(root, path) {
		return "", false
	}

	target, err := filepath.EvalSymlinks(path)
	if errors.Is(err, fs.ErrNotExist) {
		return path, true
	}
	if err != nil {
		return "", false
	}
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", false
	}
	if !within(realRoot, target) {
		return "", false
	}
	return path, true
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (h *Handler) serveFile(sc handler.Context, path string, fi fs.FileInfo, resp response.Writable) error {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	resp.SetHeader("Content-Type", sc.ContentType(ext))
	resp.SetHeader("Last-Modified", fi.ModTime())
	if days, ok := sc.ExpiresDays(ext); ok {
		resp.SetHeader("Expires", h.now().AddDate(0, 0, days))
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return resp.SetBodyFrom(f)
}

func (h *Handler) serveDirectory(sc handler.Context, root, dir string, resp response.Writable) error {
	des, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	entries := make([]Entry, 0, len(des))
	for _, de := range des {
		rel, err := filepath.Rel(root, filepath.Join(dir, de.Name()))
		if err != nil {
			return err
		}
		entries = append(entries, Entry{
			Href: "/" + filepath.ToSlash(rel),
			Name: de.Name(),
		})
	}

	body, err := sc.Render(ListTemplate, map[string]any{
		"Title":   "List of files for " + filepath.Base(dir),
		"Entries": entries,
	})
	if err != nil {
		return err
	}
	resp.SetBodyString(body)
	return nil
}
