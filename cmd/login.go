// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"moa/admin/internal/terminal"
)

// Environment variables that supply credentials non-interactively.
const (
	envAdminUsername = "MOA_ADMIN_USERNAME"
	envAdminPassword = "MOA_ADMIN_PASSWORD"
)

var (
	loginUsername      string
	loginPasswordStdin bool
	loginForce         bool
)

// loginCmd exchanges administrator credentials for a session.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with an administrator account",
	Long: `The login command exchanges an email/username and password for an access
token, then verifies that the account is an administrator. Only administrator
accounts are accepted; any other account is signed out immediately.

Credentials are taken from --username, ` + envAdminUsername + ` and ` + envAdminPassword + `,
--password-stdin, or an interactive prompt. The session is stored in the OS
keychain and survives restarts until 'moa-admin logout' or until the API
rejects it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		ctx, cancel := a.commandContext(cmd)
		defer cancel()

		if !loginForce && a.store.Token() != "" {
			if d := a.guard.Check(ctx); d.Allowed() {
				pterm.Printf("Already logged in as %s\n", d.User.DisplayName())
				pterm.Println("   Use --force to sign in again.")
				return nil
			}
		}

		username, password, err := readCredentials()
		if err != nil {
			return err
		}

		err = withSpinner("Signing in...", func() error {
			return a.store.Login(ctx, username, password)
		})
		if err != nil {
			return err
		}

		pterm.Success.Printf("Logged in as %s\n", a.store.User().DisplayName())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Administrator email or username")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from stdin")
	loginCmd.Flags().BoolVar(&loginForce, "force", false, "Sign in again even if a valid session exists")
}

// readCredentials resolves the identifier and secret from flags, environment or prompts.
func readCredentials() (string, string, error) {
	reader := bufio.NewReader(os.Stdin)

	username := strings.TrimSpace(loginUsername)
	if username == "" {
		username = strings.TrimSpace(os.Getenv(envAdminUsername))
	}
	if username == "" {
		if !isTerminal(os.Stdin) {
			return "", "", errors.New("username is required (use --username or " + envAdminUsername + ")")
		}
		prompt := "Email or username: "
		fmt.Print(prompt)
		line, _ := reader.ReadString('\n')
		username = strings.TrimSpace(line)
		terminal.ClearPrompt(os.Stdout, prompt, username)
	}
	if username == "" {
		return "", "", errors.New("username is required")
	}

	password := os.Getenv(envAdminPassword)
	switch {
	case loginPasswordStdin:
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", "", fmt.Errorf("read password from stdin: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	case password != "":
	case isTerminal(os.Stdin):
		fmt.Print("Password: ")
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		password = string(b)
	default:
		return "", "", errors.New("password is required (use --password-stdin or " + envAdminPassword + ")")
	}
	if password == "" {
		return "", "", errors.New("password is required")
	}
	return username, password, nil
}
