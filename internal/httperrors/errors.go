// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns failures talking to the MOA API into short,
// actionable terminal messages.
package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"

	"moa/admin/internal/backend"
)

// Category classifies a failed API call for presentation.
type Category int

const (
	Generic Category = iota
	Timeout
	DNS
	ConnectionRefused
	TLS
	Server
)

// Classify inspects err and returns the most specific category.
func Classify(err error) Category {
	switch {
	case err == nil:
		return Generic
	case isTimeoutError(err):
		return Timeout
	case isDNSError(err):
		return DNS
	case isConnectionRefusedError(err):
		return ConnectionRefused
	case isTLSError(err):
		return TLS
	case isServerError(err):
		return Server
	}
	return Generic
}

// FormatNetworkError prints a diagnostic for err and returns it wrapped.
// action reads like "loading users"; host is the API host shown to the user.
func FormatNetworkError(err error, action, host string) error {
	if err == nil {
		return nil
	}
	if host == "" {
		host = "the MOA API"
	}

	switch Classify(err) {
	case Timeout:
		pterm.Printf("⏱️  Connection timeout while %s\n\n", action)
		pterm.Println("The MOA API took too long to respond. Try again, or raise --timeout.")
	case DNS:
		pterm.Printf("🌐 Cannot resolve server address while %s\n\n", action)
		pterm.Printf("Unable to look up %s. Check your connection and the configured api_url.\n", host)
	case ConnectionRefused:
		pterm.Printf("🚫 Connection refused while %s\n\n", action)
		pterm.Printf("%s is not accepting connections. Is the API running and is api_url correct?\n", host)
	case TLS:
		pterm.Printf("🔒 Secure connection failed while %s\n\n", action)
		pterm.Println("Cannot establish HTTPS. Check the system clock and any proxy in between.")
	case Server:
		pterm.Printf("⚠️  Server error while %s\n\n", action)
		pterm.Printf("%s answered with an internal error. This is not a problem with your setup.\n", host)
		if msg := serverMessage(err); msg != "" {
			pterm.Debug.Printf("Server said: %s\n", msg)
		}
	default:
		pterm.Printf("❌ Cannot reach %s while %s\n\n", host, action)
		details := err.Error()
		if len(details) > 100 {
			details = details[:100] + "..."
		}
		pterm.Debug.Printf("Technical details: %s\n", details)
	}
	pterm.Println()

	return fmt.Errorf("network error: %w", err)
}

// IsNetworkError reports whether err deserves a network diagnostic rather
// than a plain message.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var se *backend.StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	var ue *url.Error
	var ne net.Error
	return errors.As(err, &ue) || errors.As(err, &ne)
}

func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var se *backend.StatusError
	if errors.As(err, &se) {
		return se.Code == 504
	}
	return false
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isTLSError(err error) bool {
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "tls") ||
		strings.Contains(lower, "x509") ||
		strings.Contains(lower, "certificate")
}

func isServerError(err error) bool {
	var se *backend.StatusError
	return errors.As(err, &se) && se.Code >= 500
}

func serverMessage(err error) string {
	var se *backend.StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}

// HostOf extracts the host from an API base URL for messages.
func HostOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Host
}
