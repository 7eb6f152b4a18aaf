// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	apperrors "moa/admin/internal/errors"
)

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}

// FormatSessionError renders an authentication or session failure in a
// user-friendly way. Auth errors show the backend's message; an expired
// session tells the user to log in again.
func FormatSessionError(err error) string {
	if err == nil {
		return ""
	}

	var builder strings.Builder

	switch apperrors.KindOf(err) {
	case apperrors.KindAuth:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Login failed"))
		builder.WriteString("\n\n")
		builder.WriteString(Mask(apperrors.Message(err)))
		builder.WriteString("\n")
	case apperrors.KindUnauthorized:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Session expired"))
		builder.WriteString("\n\n")
		builder.WriteString("The MOA API no longer accepts your session.\n")
		builder.WriteString("  • The token may have expired or been revoked\n")
		builder.WriteString("  • Your account may have lost administrative privileges\n")
	case apperrors.KindTransport:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Cannot reach the MOA API"))
		builder.WriteString("\n\n")
		builder.WriteString("Your session was cleared because it could not be verified.\n")
	default:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Request failed"))
		builder.WriteString("\n\n")
		builder.WriteString(Mask(err.Error()))
		builder.WriteString("\n")
	}

	builder.WriteString("\n")
	builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Please run 'moa-admin login' and try again"))
	builder.WriteString("\n")

	return builder.String()
}
