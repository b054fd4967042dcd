// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package tinyhttp

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/z5labs/tinyhttp/config"
)

// App represents a configured server, ready to run.
type App interface {
	Run(context.Context) error
}

// AppBuilder represents anything which can initialize an [App].
type AppBuilder[T any] interface {
	Build(ctx context.Context, cfg T) (App, error)
}

// AppBuilderFunc is a functional implementation of
// the [AppBuilder] interface.
type AppBuilderFunc[T any] func(context.Context, T) (App, error)

// Build implements the [AppBuilder] interface.
func (f AppBuilderFunc[T]) Build(ctx context.Context, cfg T) (App, error) {
	return f(ctx, cfg)
}

// Option selects the config layers read by [Run].
type Option func(*layers)

type layers struct {
	defaults     fs.FS
	defaultsName string
	file         string
	envPrefix    string
}

// DefaultConfig sets the bottom config layer to the file called name in fsys,
// usually an embedded file.
func DefaultConfig(fsys fs.FS, name string) Option {
	return func(l *layers) {
		l.defaults = fsys
		l.defaultsName = name
	}
}

// ConfigFile layers the config file at path over the defaults. An empty
// path adds nothing.
func ConfigFile(path string) Option {
	return func(l *layers) {
		l.file = path
	}
}

// EnvPrefix layers environment variables named PREFIX_SECTION_KEY over
// every config file.
func EnvPrefix(prefix string) Option {
	return func(l *layers) {
		l.envPrefix = prefix
	}
}

// ConfigSource returns a single [config.Source] applying, in increasing
// precedence, the default config, the config file and the environment.
// Config files may read environment variables with {{ env "NAME" }}.
func ConfigSource(opts ...Option) config.Source {
	l := &layers{}
	for _, opt := range opts {
		opt(l)
	}

	env := config.TemplateFunc("env", os.Getenv)

	var srcs []config.Source
	if l.defaults != nil {
		srcs = append(srcs, config.FromFile(l.defaults, l.defaultsName, env))
	}
	if l.file != "" {
		srcs = append(srcs, config.FromFile(os.DirFS(filepath.Dir(l.file)), filepath.Base(l.file), env))
	}
	if l.envPrefix != "" {
		srcs = append(srcs, config.FromEnv(l.envPrefix))
	}

	return config.SourceFunc(func(store config.Store) error {
		for _, src := range srcs {
			err := src.Apply(store)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Run builds the [App] from the layered config described by opts and runs
// it until it returns or ctx is cancelled.
func Run(ctx context.Context, builder AppBuilder[config.Source], opts ...Option) error {
	app, err := builder.Build(ctx, ConfigSource(opts...))
	if err != nil {
		return AppBuildError{Cause: err}
	}

	err = app.Run(ctx)
	if err != nil {
		return AppRunError{Cause: err}
	}
	return nil
}

// ConfigReadError occurs when a config layer can not be applied.
type ConfigReadError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ConfigReadError) Error() string {
	return fmt.Sprintf("failed to read config: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ConfigReadError) Unwrap() error {
	return e.Cause
}

// ConfigUnmarshalError occurs when the merged config does not decode into
// the config type.
type ConfigUnmarshalError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ConfigUnmarshalError) Error() string {
	return fmt.Sprintf("failed to decode config: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ConfigUnmarshalError) Unwrap() error {
	return e.Cause
}

// AppBuildError
type AppBuildError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e AppBuildError) Error() string {
	return fmt.Sprintf("failed to build server: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e AppBuildError) Unwrap() error {
	return e.Cause
}

// AppRunError
type AppRunError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e AppRunError) Error() string {
	return fmt.Sprintf("server stopped: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e AppRunError) Unwrap() error {
	return e.Cause
}
