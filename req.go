// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package unifi

import "time"

// Req represents a single controller API call
//
// Method, Path and Payload come from the Exec arguments; the remaining
// fields are set by request modifiers.
//
// Example:
//
//	// Public endpoint with a custom timeout
//	res, err := client.Get(ctx, "/status",
//	    unifi.NoAuth(),
//	    unifi.Timeout(5*time.Second))
type Req struct {
	// Method is the requested HTTP method (before normalization)
	Method string

	// Path is the API path relative to the controller, e.g. /api/s/default/self
	Path string

	// Payload is the JSON request body, nil for none
	Payload []byte

	// RequireAuth makes the call fail fast with ErrLoginRequired when no
	// session exists (default: true)
	RequireAuth bool

	// Timeout bounds the whole call, including a re-authentication retry
	Timeout time.Duration
}

// hasPayload reports whether a request body will be sent
func (r *Req) hasPayload() bool {
	return len(r.Payload) > 0
}
