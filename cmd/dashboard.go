// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"moa/admin/internal/backend"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"stats"},
	Short:   "Show platform analytics",
	PreRunE: requireAdmin,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command) error {
	a, err := getApp()
	if err != nil {
		return err
	}
	ctx, cancel := a.commandContext(cmd)
	defer cancel()

	var stats *backend.Analytics
	err = withSpinner("Loading dashboard...", func() error {
		var err error
		stats, err = a.api.Analytics(ctx)
		return err
	})
	if err != nil {
		return err
	}

	if outputJSON() {
		return printJSON(stats)
	}

	pterm.DefaultSection.Println("MOA Admin Dashboard")
	pterm.Printf("Signed in as %s\n\n", a.store.User().DisplayName())
	return pterm.DefaultTable.WithData([][]string{
		{"Total users", pterm.Sprint(stats.TotalUsers)},
		{"Verified clubs", pterm.Sprint(stats.VerifiedClubs)},
		{"Events hosted", pterm.Sprint(stats.EventsHosted)},
		{"Platform revenue", pterm.Sprintf("%.2f", stats.PlatformRevenue)},
	}).Render()
}
