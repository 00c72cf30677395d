package main

import (
	"github.com/spf13/cobra"

	"github.com/benithors/dotresolve/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the availability resolution HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer func() { _ = a.log.Sync() }()

			if port == "" {
				port = a.cfg.App.Port
			}

			srv := server.New(a.resolver, a.log)
			return srv.Run(":" + port)
		},
	}

	cmd.SetFlagErrorFunc(usageErr)
	cmd.Flags().StringVar(&port, "port", "", "Listen port (defaults to PORT)")

	return cmd
}
