// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"moa/admin/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change moa-admin settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings and where the file lives",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Resolve()
		if err != nil {
			return err
		}
		if flagAPIURL != "" {
			cfg.APIBaseURL = strings.TrimRight(flagAPIURL, "/")
		}
		if outputJSON() {
			return printJSON(cfg)
		}
		path, _ := config.Path()
		rows := [][]string{
			{"api_url", cfg.APIBaseURL},
			{"log_level", cfg.LogLevel},
			{"console_addr", cfg.ConsoleAddr},
			{"timeout_seconds", fmt.Sprint(cfg.TimeoutSeconds)},
		}
		if err := pterm.DefaultTable.WithData(rows).Render(); err != nil {
			return err
		}
		pterm.Println(pterm.NewStyle(pterm.FgGray).Sprint("Config file: " + path))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Persist a setting to the config file",
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys(),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := config.Set(&cfg, args[0], args[1]); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		pterm.Success.Printf("%s updated\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd)
}
