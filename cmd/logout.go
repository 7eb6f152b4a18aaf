// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"moa/admin/internal/logging"
)

// logoutCmd clears the stored session. It is safe to run when already logged out.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the stored session",
	Long: `The logout command clears the access token, the cached identity and the
authenticated flag, and removes the session record from the OS keychain.
Running it while already logged out is harmless.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		if err := a.store.Logout(); err != nil {
			pterm.Warning.Println(logging.PresentError("could not remove the stored session", err))
			return err
		}
		pterm.Println("✅ Session cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
