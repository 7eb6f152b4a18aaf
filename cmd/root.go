// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for moa-admin.
// It wires configuration, logging, the keychain-backed session store, the
// authorizing HTTP client and the route guard, then exposes the admin
// operations as Cobra subcommands. Protected commands run behind the guard
// and refuse with a login hint when no validated admin session exists.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"moa/admin/internal/backend"
	"moa/admin/internal/config"
	apperrors "moa/admin/internal/errors"
	"moa/admin/internal/guard"
	"moa/admin/internal/httperrors"
	"moa/admin/internal/keychain"
	"moa/admin/internal/logging"
	"moa/admin/internal/session"
)

var (
	flagAPIURL  string
	flagVerbose bool
	flagTimeout time.Duration
	flagOutput  string
)

// errLoginRequired is returned by protected commands without an admin session.
var errLoginRequired = errors.New("not logged in as an administrator")

// rootCmd represents the base command when called without any subcommands.
// Its default action is the dashboard, which is itself protected.
var rootCmd = &cobra.Command{
	Use:   "moa-admin",
	Short: "Administration client for the MOA platform",
	Long: `moa-admin keeps an administrator session against the MOA REST API and
exposes the admin operations (users, clubs, events, organizations, avatars,
badges and dashboard analytics) as subcommands.

Run 'moa-admin login' first. Every other command revalidates the stored
session and only proceeds for administrator accounts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ArbitraryArgs,
	PreRunE:       requireAdmin,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			pterm.Warning.Printf("Unknown command %q, showing the dashboard.\n\n", strings.Join(args, " "))
		}
		return runDashboard(cmd)
	},
}

// Execute runs the CLI application and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if current != nil {
		_ = current.log.Sync()
	}
	if err != nil {
		reportError(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagAPIURL, "api-url", "", "MOA API base URL (overrides "+config.EnvAPIBaseURL+" and the config file)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	pf.DurationVar(&flagTimeout, "timeout", 0, "Per-command timeout (default from config, 30s)")
	pf.StringVarP(&flagOutput, "output", "o", "table", "Output format: table or json")
}

// app holds the collaborators shared by every command of one invocation.
type app struct {
	cfg   config.Config
	log   *zap.Logger
	store *session.Store
	api   *backend.HTTP
	guard *guard.Guard
}

var current *app

// getApp builds the application once per process.
func getApp() (*app, error) {
	if current != nil {
		return current, nil
	}

	cfg, err := config.Resolve()
	if err != nil {
		return nil, err
	}
	if flagAPIURL != "" {
		if err := config.Set(&cfg, "api_url", flagAPIURL); err != nil {
			return nil, err
		}
	}
	if flagTimeout > 0 {
		cfg.TimeoutSeconds = int(flagTimeout.Round(time.Second) / time.Second)
	}
	switch strings.ToLower(flagOutput) {
	case "table", "json":
	default:
		return nil, fmt.Errorf("unsupported --output %q (use table or json)", flagOutput)
	}

	log, err := logging.New(cfg.LogLevel, flagVerbose)
	if err != nil {
		return nil, err
	}

	km, err := keychain.GetManager(log)
	if err != nil {
		return nil, fmt.Errorf("secure storage unavailable: %w", err)
	}

	a := &app{cfg: cfg, log: log}
	client := backend.NewClient(
		backend.TokenFunc(func() string { return a.store.Token() }),
		a.onUnauthorized,
		"moa-admin/"+Version,
		cfg.Timeout(),
	)
	a.api = backend.New(cfg.APIBaseURL, client)
	a.store = session.New(a.api, km, log)
	a.store.OnChange(func(s session.Snapshot) {
		log.Debug("session changed", zap.Stringer("state", s.State()))
	})
	if err := a.store.Load(); err != nil {
		log.Warn("stored session was unreadable and has been cleared", logging.Err(err))
	}
	a.guard = guard.New(a.store,
		guard.WithLogger(log),
		guard.WithIndicator(newSpinnerIndicator("Checking session...")),
	)

	log.Debug("application ready",
		logging.Masked("api", cfg.APIBaseURL),
		zap.Stringer("session", a.store.State()),
	)
	current = a
	return a, nil
}

// onUnauthorized is the interceptor subscriber: any 401 ends the session.
func (a *app) onUnauthorized(ev backend.UnauthorizedEvent) {
	a.store.HandleUnauthorized(ev)
	a.log.Debug("received 401",
		zap.String("method", ev.Method),
		zap.String("path", ev.Path),
		zap.Bool("had_credential", ev.HadCredential),
	)
}

// commandContext applies the configured timeout to the command context.
func (a *app) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.cfg.Timeout())
}

// requireAdmin is the guard for protected commands.
func requireAdmin(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}
	ctx, cancel := a.commandContext(cmd)
	defer cancel()

	d := a.guard.Check(ctx)
	if d.Allowed() {
		return nil
	}
	if d.Err != nil && !apperrors.Is(d.Err, apperrors.KindUnauthorized) {
		return d.Err
	}
	return errLoginRequired
}

// reportError prints err in the most helpful form for its kind.
func reportError(err error) {
	var se *backend.StatusError
	switch {
	case errors.Is(err, errLoginRequired):
		pterm.Println("🔒 You're not logged in as an administrator.")
		pterm.Println("   Run 'moa-admin login' to get started.")
	case errors.Is(err, backend.ErrUnauthorized),
		apperrors.Is(err, apperrors.KindAuth):
		pterm.Print(logging.FormatSessionError(err))
	case apperrors.Is(err, apperrors.KindValidation):
		pterm.Error.Println(logging.Mask(err.Error()))
	case httperrors.IsNetworkError(err):
		host := ""
		if current != nil {
			host = httperrors.HostOf(current.cfg.APIBaseURL)
		}
		_ = httperrors.FormatNetworkError(err, "talking to the MOA API", host)
	case errors.As(err, &se):
		msg := se.Message
		if msg == "" {
			msg = se.Error()
		}
		pterm.Error.Println(logging.Mask(msg))
	default:
		pterm.Error.Println(logging.Mask(err.Error()))
	}
}
