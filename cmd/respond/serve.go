package main

import (
	"github.com/spf13/cobra"

	"github.com/bjaus/respond"
	"github.com/bjaus/respond/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve adapter output over HTTP",
		Long: `Starts the preview server. Every adapter route in the config file is
exposed under /render/{route} and /error/{route}. Without a config file
the built-in adapters are exposed under their own names.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			adapters, err := a.adapters()
			if err != nil {
				return err
			}
			srv := server.New(adapters,
				server.WithLogger(a.log),
				server.WithMetricsPath(a.cfg.Server.MetricsPath),
			)
			return srv.ListenAndServe(cmd.Context(), firstNonEmpty(addr, a.cfg.Server.Addr))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

// adapters builds every configured route.
func (a *app) adapters() (map[string]respond.Adapter, error) {
	out := make(map[string]respond.Adapter, len(a.cfg.Adapters))
	for _, name := range a.cfg.Names() {
		ad, err := a.adapter(name, nil)
		if err != nil {
			return nil, err
		}
		out[name] = ad
		a.log.Debug("adapter ready", "route", name)
	}
	return out, nil
}
