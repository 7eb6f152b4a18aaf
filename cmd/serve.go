// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"moa/admin/internal/console"
	"moa/admin/internal/guard"
)

var serveAddr string

// serveCmd runs the local web console over the same session as the CLI.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local admin web console",
	Long: `The serve command starts a local web console. It shares the stored session
with the CLI: signing in on the console signs in the CLI, and a CLI session
can browse the console. Changes made from the browser require signing in on
the console itself.
Every page except /login is protected; visitors without a validated admin
session are redirected to /login, and unknown paths go to the dashboard.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		addr := a.cfg.ConsoleAddr
		if serveAddr != "" {
			addr = serveAddr
		}

		g := guard.New(a.store, guard.WithLogger(a.log))
		srv := console.New(a.store, g, a.api, a.log)

		pterm.Info.Printf("Console on http://%s (Ctrl+C to stop)\n", addr)
		return srv.Run(cmd.Context(), addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, 127.0.0.1:8787)")
}
