// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"moa/admin/internal/backend"
)

var badgeIn backend.BadgeCreate

var badgesCmd = &cobra.Command{
	Use:               "badges",
	Short:             "Manage achievement badges",
	PersistentPreRunE: requireAdmin,
}

var badgesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List badges with their claim counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		ctx, cancel := a.commandContext(cmd)
		defer cancel()

		badges, err := a.api.ListBadges(ctx)
		if err != nil {
			return err
		}
		return render(badges, func() [][]string {
			rows := [][]string{{"ID", "", "Slug", "Name", "Type", "Trigger", "Threshold", "Claimed"}}
			for _, b := range badges {
				rows = append(rows, []string{
					fmt.Sprint(b.ID), b.Emoji, b.Slug, b.Name, b.BadgeType,
					b.TriggerMetric, fmt.Sprint(b.Threshold), fmt.Sprint(b.ClaimedCount),
				})
			}
			return rows
		})
	},
}

var badgesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a badge",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		ctx, cancel := a.commandContext(cmd)
		defer cancel()

		b, err := a.api.CreateBadge(ctx, badgeIn)
		if err != nil {
			return err
		}
		return printBadge(b)
	},
}

var badgesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a badge; only the given flags change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		in := badgeUpdateFromFlags(cmd)
		if in == (backend.BadgeUpdate{}) {
			return fmt.Errorf("nothing to update: pass at least one field flag")
		}

		a, err := getApp()
		if err != nil {
			return err
		}
		ctx, cancel := a.commandContext(cmd)
		defer cancel()

		b, err := a.api.UpdateBadge(ctx, id, in)
		if err != nil {
			return err
		}
		return printBadge(b)
	},
}

// badgeUpdateFromFlags sets only the fields whose flags were given.
func badgeUpdateFromFlags(cmd *cobra.Command) backend.BadgeUpdate {
	var in backend.BadgeUpdate
	str := func(name string, dst **string, v string) {
		if cmd.Flags().Changed(name) {
			s := v
			*dst = &s
		}
	}
	str("slug", &in.Slug, badgeIn.Slug)
	str("name", &in.Name, badgeIn.Name)
	str("description", &in.Description, badgeIn.Description)
	str("emoji", &in.Emoji, badgeIn.Emoji)
	str("trigger", &in.TriggerMetric, badgeIn.TriggerMetric)
	if cmd.Flags().Changed("threshold") {
		n := badgeIn.Threshold
		in.Threshold = &n
	}
	return in
}

func printBadge(b *backend.Badge) error {
	if outputJSON() {
		return printJSON(b)
	}
	pterm.Success.Printf("Badge %d (%s %s) saved\n", b.ID, b.Emoji, b.Slug)
	return nil
}

func init() {
	rootCmd.AddCommand(badgesCmd)
	badgesCmd.AddCommand(badgesListCmd, badgesCreateCmd, badgesUpdateCmd)

	for _, c := range []*cobra.Command{badgesCreateCmd, badgesUpdateCmd} {
		f := c.Flags()
		f.StringVar(&badgeIn.Slug, "slug", "", "Unique badge slug")
		f.StringVar(&badgeIn.Name, "name", "", "Display name")
		f.StringVar(&badgeIn.Description, "description", "", "Description")
		f.StringVar(&badgeIn.Emoji, "emoji", "", "Emoji shown with the badge")
		f.StringVar(&badgeIn.TriggerMetric, "trigger", "", "Metric that awards the badge")
		f.IntVar(&badgeIn.Threshold, "threshold", 0, "Metric value needed to earn the badge")
	}
	badgesCreateCmd.Flags().StringVar(&badgeIn.BadgeType, "type", "user", "Badge type: user or club")
}
