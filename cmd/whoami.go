// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// whoamiCmd shows the validated administrator behind the stored session.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show the signed-in administrator",
	Long: `The whoami command revalidates the stored session against the MOA API and
shows the administrator it belongs to. When the access token is a JWT, its
subject and expiry are shown as well (read without verifying the signature).`,
	PreRunE: requireAdmin,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		user := a.store.User()
		claims := tokenClaims(a.store.Token())

		if outputJSON() {
			return printJSON(map[string]any{
				"user":  user,
				"token": claims,
			})
		}

		pterm.Printf("👤 Current admin: %s\n", user.DisplayName())
		rows := [][]string{
			{"ID", pterm.Sprint(user.ID)},
			{"Email", user.Email},
			{"Username", user.Username},
			{"Role", firstNonEmpty(user.Role, user.UserType)},
			{"API", a.cfg.APIBaseURL},
		}
		if claims.Subject != "" {
			rows = append(rows, []string{"Token subject", claims.Subject})
		}
		if claims.ExpiresAt != nil {
			rows = append(rows, []string{"Token expires", claims.ExpiresAt.Local().Format(time.RFC1123) +
				" (in " + time.Until(*claims.ExpiresAt).Round(time.Minute).String() + ")"})
		}
		return pterm.DefaultTable.WithData(rows).Render()
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// tokenInfo is what the CLI shows about the bearer credential.
type tokenInfo struct {
	Subject   string     `json:"sub,omitempty"`
	ExpiresAt *time.Time `json:"exp,omitempty"`
}

// tokenClaims reads sub and exp from a JWT access token without verifying it.
// Opaque tokens yield an empty result.
func tokenClaims(token string) tokenInfo {
	var info tokenInfo
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return info
	}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
	}
	return info
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
