// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"embed"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/z5labs/tinyhttp"
	"github.com/z5labs/tinyhttp/appbuilder"
	"github.com/z5labs/tinyhttp/cmd/tinyhttp/service"
	"github.com/z5labs/tinyhttp/internal/slogfield"
)

//go:embed default_config.yaml
var configDir embed.FS

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. TINYHTTP_SERVER_PORT.
const EnvPrefix = "TINYHTTP"

func main() {
	err := newCmd(os.Stdin).ExecuteContext(context.Background())
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to run", slogfield.Error(err))
		os.Exit(1)
	}
}

func newCmd(stdin io.Reader) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "tinyhttp",
		Short:         "Serve static files over HTTP/1.1, one request per connection",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			builder := appbuilder.FromConfig(
				appbuilder.Recover(
					appbuilder.OTel[service.Config](
						service.NewBuilder(
							service.LogOutput(cmd.ErrOrStderr()),
							service.QuitInput(stdin),
						),
					),
				),
			)
			return tinyhttp.Run(cmd.Context(), builder, configLayers(configPath)...)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML, JSON or .properties config file overriding the defaults")
	return cmd
}

func configLayers(path string) []tinyhttp.Option {
	return []tinyhttp.Option{
		tinyhttp.DefaultConfig(configDir, "default_config.yaml"),
		tinyhttp.ConfigFile(path),
		tinyhttp.EnvPrefix(EnvPrefix),
	}
}
