// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package service builds the tinyhttp server from its config.
package service

import (
	"context"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"syscall"

	"github.com/z5labs/tinyhttp"
	"github.com/z5labs/tinyhttp/app"
	"github.com/z5labs/tinyhttp/dispatch"
	"github.com/z5labs/tinyhttp/exchange"
	"github.com/z5labs/tinyhttp/handler"
	"github.com/z5labs/tinyhttp/handler/info"
	"github.com/z5labs/tinyhttp/handler/static"
	"github.com/z5labs/tinyhttp/internal/otelslog"
	"github.com/z5labs/tinyhttp/internal/slogfield"
	"github.com/z5labs/tinyhttp/server"
	"github.com/z5labs/tinyhttp/telemetry"
	"github.com/z5labs/tinyhttp/webapp"
)

// InfoPath is where the server info page is served.
const InfoPath = "/info"

// Config
type Config struct {
	Server struct {
		Name        string `config:"name"`
		Port        int    `config:"port"`
		ThreadCount int    `config:"threadCount"`
	} `config:"server"`

	WebApp struct {
		Root string `config:"root"`

		// Templates optionally points at a directory holding error.html,
		// list.html and server-info.html which replace the built-in ones.
		Templates string `config:"templates"`

		Expires struct {
			Days       int      `config:"days"`
			Extensions []string `config:"extensions"`
		} `config:"expires"`
	} `config:"webapp"`

	Statuses  map[int]string    `config:"statuses"`
	MimeTypes map[string]string `config:"mimeTypes"`

	Logging struct {
		Level slog.Level `config:"level"`
	} `config:"logging"`

	OTel telemetry.Config `config:"otel"`
}

// InitializeOTel implements the appbuilder.OTelInitializer interface.
func (cfg Config) InitializeOTel(ctx context.Context) error {
	return cfg.OTel.InitializeOTel(ctx)
}

// Option
type Option func(*Builder)

// LogOutput sets where JSON logs are written. Defaults to os.Stderr.
func LogOutput(w io.Writer) Option {
	return func(b *Builder) {
		b.logOut = w
	}
}

// QuitInput sets the reader quit commands are read from. Without one,
// only a signal or context cancellation stops the server.
func QuitInput(r io.Reader) Option {
	return func(b *Builder) {
		b.quitIn = r
	}
}

// Listen overrides how the server listener is created.
func Listen(f func(ctx context.Context, network, addr string) (net.Listener, error)) Option {
	return func(b *Builder) {
		b.listen = f
	}
}

// Builder implements [tinyhttp.AppBuilder] for [Config].
type Builder struct {
	logOut io.Writer
	quitIn io.Reader
	listen func(context.Context, string, string) (net.Listener, error)
}

// NewBuilder
func NewBuilder(opts ...Option) *Builder {
	var lc net.ListenConfig
	b := &Builder{
		logOut: os.Stderr,
		listen: lc.Listen,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build implements the [tinyhttp.AppBuilder] interface.
func (b *Builder) Build(ctx context.Context, cfg Config) (tinyhttp.App, error) {
	logHandler := slog.NewJSONHandler(b.logOut, &slog.HandlerOptions{
		Level: cfg.Logging.Level,
	})
	log := otelslog.New(logHandler)

	templates, err := loadTemplates(cfg.WebApp.Templates)
	if err != nil {
		return nil, err
	}

	sc, err := webapp.New(webapp.Config{
		Server: handler.ServerInfo{
			Name:        cfg.Server.Name,
			Port:        cfg.Server.Port,
			ThreadCount: cfg.Server.ThreadCount,
		},
		Root:              cfg.WebApp.Root,
		ExpiresDays:       cfg.WebApp.Expires.Days,
		ExpiresExtensions: cfg.WebApp.Expires.Extensions,
		Statuses:          cfg.Statuses,
		MimeTypes:         cfg.MimeTypes,
	}, templates)
	if err != nil {
		return nil, err
	}

	var routes handler.Routes
	err = routes.Add(InfoPath, info.Handler{})
	if err != nil {
		return nil, err
	}

	d, err := dispatch.New(static.New(static.LogHandler(logHandler)), &routes)
	if err != nil {
		return nil, err
	}

	eh, err := exchange.New(sc, d, exchange.LogHandler(logHandler))
	if err != nil {
		return nil, err
	}

	ls, err := b.listen(ctx, "tcp", net.JoinHostPort("", strconv.Itoa(cfg.Server.Port)))
	if err != nil {
		return nil, err
	}
	log.InfoContext(
		ctx,
		"server configured",
		slogfield.String("server_info", sc.ServerInfo().String()),
		slogfield.String("root", sc.RootPath()),
	)

	var a tinyhttp.App = server.NewRuntime(
		ls,
		eh,
		server.LogHandler(logHandler),
		server.ThreadCount(cfg.Server.ThreadCount),
	)
	if b.quitIn != nil {
		a = app.WithQuitCommands(a, b.quitIn, app.QuitLogHandler(logHandler))
	}
	a = app.WithSignalNotifications(a, os.Interrupt, syscall.SIGTERM)
	return app.Recover(a), nil
}

func loadTemplates(dir string) (*webapp.Templates, error) {
	if dir == "" {
		return webapp.DefaultTemplates()
	}
	return webapp.ParseTemplates(os.DirFS(dir), "*.html")
}
