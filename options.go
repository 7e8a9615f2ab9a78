// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package unifi

import "time"

// Client configuration options using the functional options pattern

// Username sets the controller login username
func Username(username string) func(*Client) {
	return func(c *Client) {
		c.username = username
	}
}

// Password sets the controller login password
func Password(password string) func(*Client) {
	return func(c *Client) {
		c.password = password
	}
}

// Site sets the initial site name (default: "default")
//
// Surrounding whitespace is trimmed. The site can be switched later with
// Client.SetSite.
func Site(site string) func(*Client) {
	return func(c *Client) {
		c.site = site
	}
}

// ControllerVersion sets the controller software version (default: 8.0.28)
//
// The version must be a valid semantic version; it is validated by NewClient.
func ControllerVersion(version string) func(*Client) {
	return func(c *Client) {
		c.ControllerVersion = version
	}
}

// VerifyCertificate enables or disables TLS certificate verification (default: true)
//
// WARNING: Disabling certificate verification makes the connection vulnerable
// to Man-in-the-Middle attacks. Controllers usually ship with a self-signed
// certificate; prefer installing a trusted one over disabling verification.
//
// Example:
//
//	client, _ := unifi.NewClient("https://192.168.1.1:8443",
//	    unifi.Username("admin"),
//	    unifi.Password("secret"),
//	    unifi.VerifyCertificate(false))  // Insecure, use only for testing
func VerifyCertificate(verify bool) func(*Client) {
	return func(c *Client) {
		c.VerifyCertificate = verify
	}
}

// ConnectTimeout sets the connection and TLS handshake timeout (default: 10s)
func ConnectTimeout(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.ConnectTimeout = duration
	}
}

// RequestTimeout sets the timeout of a single HTTP exchange (default: 30s)
func RequestTimeout(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.RequestTimeout = duration
	}
}

// GatewayOS pins the controller variant and disables probing
//
// Use this when a reverse proxy in front of a legacy controller answers the
// probe with 200, which would otherwise be taken as a gateway-OS controller.
func GatewayOS(enabled bool) func(*Client) {
	return func(c *Client) {
		c.gatewayOSOverride = &enabled
	}
}

// StrictSiteValidation rejects site names containing whitespace (default: false)
//
// Without strict validation such names are accepted and a warning is logged.
func StrictSiteValidation(enabled bool) func(*Client) {
	return func(c *Client) {
		c.StrictSiteValidation = enabled
	}
}

// WithSessionStore persists sessions outside the client
//
// On Login a stored session is adopted without contacting the controller.
// Sessions are saved after a successful login and cleared on logout or
// when the controller rejects them.
func WithSessionStore(store SessionStore) func(*Client) {
	return func(c *Client) {
		c.store = store
	}
}

// WithTransport replaces the HTTP transport
//
// When set, VerifyCertificate, ConnectTimeout and RequestTimeout are not
// applied; the transport is used as-is.
func WithTransport(transport Transport) func(*Client) {
	return func(c *Client) {
		if transport != nil {
			c.transport = transport
		}
	}
}

// WithLogger configures a custom logger for the client
//
// By default, the client uses NoOpLogger which discards all log messages.
// JSON payloads logged at Debug level are redacted (passwords, passphrases,
// tokens) before they reach the logger.
//
// Example:
//
//	logger := unifi.NewDefaultLogger(unifi.LogLevelInfo)
//	client, _ := unifi.NewClient("https://192.168.1.1",
//	    unifi.Username("admin"),
//	    unifi.Password("secret"),
//	    unifi.WithLogger(logger))
func WithLogger(logger Logger) func(*Client) {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPrettyPrintLogs enables/disables JSON pretty printing in debug logs (default: false)
func WithPrettyPrintLogs(enabled bool) func(*Client) {
	return func(c *Client) {
		c.prettyPrintLogs = enabled
	}
}

// Request modifiers for individual calls

// NoAuth returns a request modifier for endpoints that do not need a session,
// such as /status. The call is sent even when not logged in.
func NoAuth() func(*Req) {
	return func(req *Req) {
		req.RequireAuth = false
	}
}

// Timeout returns a request modifier that bounds the whole call, including
// a possible re-authentication and retry.
//
// Example:
//
//	res, err := client.Get(ctx, "/api/s/default/stat/device",
//	    unifi.Timeout(2*time.Minute))
func Timeout(duration time.Duration) func(*Req) {
	return func(req *Req) {
		req.Timeout = duration
	}
}
