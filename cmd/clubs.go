// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var clubsCmd = &cobra.Command{
	Use:               "clubs",
	Short:             "Moderate community clubs",
	PersistentPreRunE: requireAdmin,
}

var clubsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clubs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		ctx, cancel := a.commandContext(cmd)
		defer cancel()

		page, err := a.api.ListClubs(ctx, listParams())
		if err != nil {
			return err
		}
		err = render(page, func() [][]string {
			rows := [][]string{{"ID", "Name", "Status", "Verified", "Owner", "Created"}}
			for _, c := range page.Items {
				status := c.Status
				if status == "" {
					status = "-"
				}
				rows = append(rows, []string{fmt.Sprint(c.ID), truncate(c.Name, 40), status, boolMark(c.IsVerified), fmt.Sprint(c.OwnerID), c.CreatedAt})
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

var clubsApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a pending club",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return runAction(cmd, "", fmt.Sprintf("Club %d approved", id), func(ctx context.Context, a *app) error {
			return a.api.ApproveClub(ctx, id)
		})
	},
}

var clubsRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject a pending club",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return runAction(cmd, fmt.Sprintf("Reject club %d?", id), fmt.Sprintf("Club %d rejected", id), func(ctx context.Context, a *app) error {
			return a.api.RejectClub(ctx, id)
		})
	},
}

func init() {
	rootCmd.AddCommand(clubsCmd)
	clubsCmd.AddCommand(clubsListCmd, clubsApproveCmd, clubsRejectCmd)
	addListFlags(clubsListCmd)
	clubsListCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (pending, approved, rejected)")
	clubsRejectCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}
