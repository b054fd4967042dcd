// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package appbuilder provides [tinyhttp.AppBuilder] middleware.
package appbuilder

import (
	"context"

	"github.com/z5labs/tinyhttp"
	"github.com/z5labs/tinyhttp/config"
	"github.com/z5labs/tinyhttp/internal/try"
)

// Recover will wrap the given [tinyhttp.AppBuilder] with panic recovery.
func Recover[T any](builder tinyhttp.AppBuilder[T]) tinyhttp.AppBuilder[T] {
	return tinyhttp.AppBuilderFunc[T](func(ctx context.Context, cfg T) (_ tinyhttp.App, err error) {
		defer try.Recover(&err)

		return builder.Build(ctx, cfg)
	})
}

// FromConfig adapts a builder of a decoded config, T, to the
// [config.Source] handed out by [tinyhttp.Run]. Failures are reported as
// [tinyhttp.ConfigReadError] or [tinyhttp.ConfigUnmarshalError].
func FromConfig[T any](builder tinyhttp.AppBuilder[T]) tinyhttp.AppBuilder[config.Source] {
	return tinyhttp.AppBuilderFunc[config.Source](func(ctx context.Context, src config.Source) (tinyhttp.App, error) {
		m, err := config.Read(src)
		if err != nil {
			return nil, tinyhttp.ConfigReadError{Cause: err}
		}

		var cfg T
		err = m.Unmarshal(&cfg)
		if err != nil {
			return nil, tinyhttp.ConfigUnmarshalError{Cause: err}
		}

		return builder.Build(ctx, cfg)
	})
}
