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
	avatarName      string
	avatarImagePath string
)

var avatarsCmd = &cobra.Command{
	Use:               "avatars",
	Short:             "Manage selectable profile avatars",
	PersistentPreRunE: requireAdmin,
}

var avatarsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List avatars",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		ctx, cancel := a.commandContext(cmd)
		defer cancel()

		avatars, err := a.api.ListAvatars(ctx)
		if err != nil {
			return err
		}
		return render(avatars, func() [][]string {
			rows := [][]string{{"ID", "Name", "Image"}}
			for _, av := range avatars {
				img := "-"
				if av.Image != nil {
					img = av.Image.Filename
				}
				rows = append(rows, []string{fmt.Sprint(av.ID), av.Name, img})
			}
			return rows
		})
	},
}

var avatarsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Upload a new avatar",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if avatarImagePath == "" {
			return fmt.Errorf("--image is required")
		}
		up, f, err := openUpload(avatarImagePath)
		if err != nil {
			return err
		}
		defer f.Close()

		a, err := getApp()
		if err != nil {
			return err
		}
		ctx, cancel := a.commandContext(cmd)
		defer cancel()

		av, err := a.api.CreateAvatar(ctx, avatarName, *up)
		if err != nil {
			return err
		}
		return printAvatar(av)
	},
}

var avatarsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Rename an avatar or replace its image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if avatarName == "" && avatarImagePath == "" {
			return fmt.Errorf("nothing to update: pass --name and/or --image")
		}
		var image *backend.Upload
		if avatarImagePath != "" {
			up, f, err := openUpload(avatarImagePath)
			if err != nil {
				return err
			}
			defer f.Close()
			image = up
		}

		a, err := getApp()
		if err != nil {
			return err
		}
		ctx, cancel := a.commandContext(cmd)
		defer cancel()

		av, err := a.api.UpdateAvatar(ctx, id, avatarName, image)
		if err != nil {
			return err
		}
		return printAvatar(av)
	},
}

var avatarsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an avatar",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return runAction(cmd, fmt.Sprintf("Delete avatar %d?", id), fmt.Sprintf("Avatar %d deleted", id), func(ctx context.Context, a *app) error {
			return a.api.DeleteAvatar(ctx, id)
		})
	},
}

func printAvatar(av *backend.Avatar) error {
	if outputJSON() {
		return printJSON(av)
	}
	pterm.Success.Printf("Avatar %d (%s) saved\n", av.ID, av.Name)
	return nil
}

func init() {
	rootCmd.AddCommand(avatarsCmd)
	avatarsCmd.AddCommand(avatarsListCmd, avatarsCreateCmd, avatarsUpdateCmd, avatarsDeleteCmd)
	for _, c := range []*cobra.Command{avatarsCreateCmd, avatarsUpdateCmd} {
		c.Flags().StringVar(&avatarName, "name", "", "Avatar name")
		c.Flags().StringVar(&avatarImagePath, "image", "", "Path to the avatar image")
	}
	avatarsDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}
