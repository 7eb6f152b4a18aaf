// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"moa/admin/internal/backend"
)

var (
	orgIn       backend.OrgInput
	orgLogoPath string
)

// openUpload opens path for a multipart upload. The caller closes the file.
func openUpload(path string) (*backend.Upload, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &backend.Upload{Filename: filepath.Base(path), Content: f}, f, nil
}

var orgsCmd = &cobra.Command{
	Use:               "orgs",
	Aliases:           []string{"organizations"},
	Short:             "Manage partner organizations",
	PersistentPreRunE: requireAdmin,
}

var orgsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List organizations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		ctx, cancel := a.commandContext(cmd)
		defer cancel()

		orgs, err := a.api.ListOrgs(ctx)
		if err != nil {
			return err
		}
		return render(orgs, func() [][]string {
			rows := [][]string{{"ID", "Name", "Type", "Email", "Verified", "Blocked"}}
			for _, o := range orgs {
				rows = append(rows, []string{fmt.Sprint(o.ID), truncate(o.Name, 36), o.Type, o.Email, boolMark(o.IsVerified), boolMark(o.IsBlocked)})
			}
			return rows
		})
	},
}

// runOrgSave shares the create and update flow; id 0 creates.
func runOrgSave(cmd *cobra.Command, id int64) error {
	in := orgIn
	if orgLogoPath != "" {
		up, f, err := openUpload(orgLogoPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in.Logo = up
	}

	a, err := getApp()
	if err != nil {
		return err
	}
	ctx, cancel := a.commandContext(cmd)
	defer cancel()

	var org *backend.Organization
	if id == 0 {
		org, err = a.api.CreateOrg(ctx, in)
	} else {
		org, err = a.api.UpdateOrg(ctx, id, in)
	}
	if err != nil {
		return err
	}
	if outputJSON() {
		return printJSON(org)
	}
	pterm.Success.Printf("Organization %d (%s) saved\n", org.ID, org.Name)
	return nil
}

var orgsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an organization",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOrgSave(cmd, 0)
	},
}

var orgsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an organization; only the given fields change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return runOrgSave(cmd, id)
	},
}

var orgsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return runAction(cmd, fmt.Sprintf("Delete organization %d?", id), fmt.Sprintf("Organization %d deleted", id), func(ctx context.Context, a *app) error {
			return a.api.DeleteOrg(ctx, id)
		})
	},
}

var orgsBlockCmd = &cobra.Command{
	Use:   "block <id>",
	Short: "Block an organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return runAction(cmd, fmt.Sprintf("Block organization %d?", id), fmt.Sprintf("Organization %d blocked", id), func(ctx context.Context, a *app) error {
			return a.api.BlockOrg(ctx, id)
		})
	},
}

var orgsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import organizations from a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		up, f, err := openUpload(args[0])
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

		var summary map[string]any
		err = withSpinner("Importing organizations...", func() error {
			var err error
			summary, err = a.api.ImportOrgs(ctx, *up)
			return err
		})
		if err != nil {
			return err
		}
		if outputJSON() {
			return printJSON(summary)
		}
		pterm.Success.Println("Import finished")
		return renderDocument(summary)
	},
}

var orgsAnalyticsCmd = &cobra.Command{
	Use:   "analytics <id>",
	Short: "Show analytics for an organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := getApp()
		if err != nil {
			return err
		}
		ctx, cancel := a.commandContext(cmd)
		defer cancel()

		doc, err := a.api.OrgAnalytics(ctx, id)
		if err != nil {
			return err
		}
		if outputJSON() {
			return printJSON(doc)
		}
		return renderDocument(doc)
	},
}

// renderDocument prints a flat key/value table for API-owned documents.
func renderDocument(doc map[string]any) error {
	if len(doc) == 0 {
		pterm.Println("No data.")
		return nil
	}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, truncate(fmt.Sprint(doc[k]), 80)})
	}
	return pterm.DefaultTable.WithData(rows).Render()
}

func init() {
	rootCmd.AddCommand(orgsCmd)
	orgsCmd.AddCommand(orgsListCmd, orgsCreateCmd, orgsUpdateCmd, orgsDeleteCmd, orgsBlockCmd, orgsImportCmd, orgsAnalyticsCmd)

	for _, c := range []*cobra.Command{orgsCreateCmd, orgsUpdateCmd} {
		f := c.Flags()
		f.StringVar(&orgIn.Name, "name", "", "Organization name")
		f.StringVar(&orgIn.Type, "type", "", "Organization type")
		f.StringVar(&orgIn.Address, "address", "", "Postal address")
		f.StringVar(&orgIn.Phone, "phone", "", "Phone number")
		f.StringVar(&orgIn.Email, "email", "", "Contact email")
		f.StringVar(&orgIn.Website, "website", "", "Website URL")
		f.StringVar(&orgLogoPath, "logo", "", "Path to a logo image")
	}
	orgsDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	orgsBlockCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}
