// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:               "events",
	Short:             "Manage club events",
	PersistentPreRunE: requireAdmin,
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		ctx, cancel := a.commandContext(cmd)
		defer cancel()

		page, err := a.api.ListEvents(ctx, listParams())
		if err != nil {
			return err
		}
		err = render(page, func() [][]string {
			rows := [][]string{{"ID", "Name", "Club", "When", "Where", "Status"}}
			for _, e := range page.Items {
				rows = append(rows, []string{fmt.Sprint(e.ID), truncate(e.Name, 36), e.Club.Name, e.EventDatetime, truncate(e.LocationName, 24), e.Status})
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

var eventsCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return runAction(cmd, fmt.Sprintf("Cancel event %d?", id), fmt.Sprintf("Event %d cancelled", id), func(ctx context.Context, a *app) error {
			return a.api.CancelEvent(ctx, id)
		})
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsListCmd, eventsCancelCmd)
	addListFlags(eventsListCmd)
	eventsCancelCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}
