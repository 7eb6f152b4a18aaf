// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"moa/admin/internal/backend"
)

var (
	listPage   int
	listSize   int
	listSearch string
	listStatus string
	assumeYes  bool
)

// addListFlags registers the shared pagination flags on a list command.
func addListFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	cmd.Flags().IntVar(&listSize, "size", 50, "Items per page")
	cmd.Flags().StringVarP(&listSearch, "search", "s", "", "Search term")
}

func listParams() backend.ListParams {
	return backend.ListParams{Page: listPage, Size: listSize, Search: listSearch, Status: listStatus}
}

var usersCmd = &cobra.Command{
	Use:               "users",
	Short:             "Manage platform members",
	PersistentPreRunE: requireAdmin,
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List members",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		ctx, cancel := a.commandContext(cmd)
		defer cancel()

		page, err := a.api.ListUsers(ctx, listParams())
		if err != nil {
			return err
		}
		err = render(page, func() [][]string {
			rows := [][]string{{"ID", "Email", "Name", "Provider", "Created"}}
			for _, u := range page.Items {
				rows = append(rows, []string{fmt.Sprint(u.ID), u.Email, truncate(u.FullName, 32), u.AuthProvider, u.CreatedAt})
			}
			return rows
		})
		if err != nil {
			return err
		}
		pageFooter(page.Page, page.Pages, page.Total)
		return nil
	},
}

var usersBanCmd = &cobra.Command{
	Use:   "ban <id>",
	Short: "Ban a member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return runAction(cmd, fmt.Sprintf("Ban user %d?", id), fmt.Sprintf("User %d banned", id), func(ctx context.Context, a *app) error {
			return a.api.BanUser(ctx, id)
		})
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd, usersBanCmd)
	addListFlags(usersListCmd)
	usersBanCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

// runAction confirms, runs one mutation with the command timeout and reports success.
// An empty question skips the confirmation.
func runAction(cmd *cobra.Command, question, done string, fn func(ctx context.Context, a *app) error) error {
	a, err := getApp()
	if err != nil {
		return err
	}
	if question != "" && !confirm(question, assumeYes) {
		pterm.Println("Cancelled.")
		return nil
	}
	ctx, cancel := a.commandContext(cmd)
	defer cancel()

	if err := fn(ctx, a); err != nil {
		return err
	}
	pterm.Success.Println(done)
	return nil
}
