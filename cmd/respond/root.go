package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bjaus/respond"
	"github.com/bjaus/respond/internal/config"
	"github.com/bjaus/respond/internal/logging"
)

// app holds state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string

	log *slog.Logger
	cfg *config.File
}

func newRootCmd() *cobra.Command {
	a := &app{log: logging.NewNop()}
	cmd := &cobra.Command{
		Use:           "respond",
		Short:         "Format success and error responses as JSON, XML, YAML or HTML",
		Long:          `respond wraps payloads in success and error responses using the built-in adapters, resolves view templates, and serves adapter output over HTTP for preview.`,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (.yaml, .yml or .toml)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	cmd.AddCommand(newRenderCmd(a), newResolveCmd(a), newServeCmd(a))
	return cmd
}

// setup loads the config file and builds the logger. The --log-level flag
// wins over the config file.
func (a *app) setup() error {
	a.cfg = config.Default()
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	level, err := logging.ParseLevel(firstNonEmpty(a.logLevel, a.cfg.LogLevel))
	if err != nil {
		return err
	}
	a.log = logging.New(level)
	return nil
}

// adapter builds the adapter for a route. Routes missing from the config
// are taken as adapter names. overrides are applied on top of the
// configured settings.
func (a *app) adapter(name string, overrides map[string]any) (respond.Adapter, error) {
	settings, ok := a.cfg.Settings(name)
	if !ok {
		settings = map[string]any{"adapter": name}
	}
	for k, v := range overrides {
		settings[k] = v
	}

	cfg, err := respond.DecodeConfig(settings)
	if err != nil {
		return nil, fmt.Errorf("adapter %q: %w", name, err)
	}
	cfg.Logger = a.log
	return respond.New(cfg)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
