// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package unifi

import (
	"context"
	"strings"
	"sync"
)

// Cookie markers that identify an accepted controller session
const (
	legacySessionMarker  = "unifises"
	gatewaySessionMarker = "TOKEN"
)

// Session holds the state of one authenticated controller session
//
// The CSRF token of a gateway-OS session is not stored. It is derived from
// Cookie on every use, so a rotated token is picked up without bookkeeping.
type Session struct {
	// Cookie is the joined Set-Cookie text replayed as the Cookie header
	Cookie string `json:"cookie"`

	// LoggedIn reports whether the session was accepted by the controller
	LoggedIn bool `json:"logged_in"`

	// GatewayOS reports whether the controller is a gateway-OS (UniFi OS) variant
	GatewayOS bool `json:"gateway_os"`
}

// CSRFToken returns the CSRF token embedded in a gateway-OS session token,
// or an empty string if there is none.
func (s Session) CSRFToken() string {
	if !s.GatewayOS {
		return ""
	}
	return ExtractCSRFToken(csrfTokenFromCookie(s.Cookie))
}

// hasSessionMarker reports whether cookie carries a recognized session cookie
func hasSessionMarker(cookie string) bool {
	return strings.Contains(cookie, legacySessionMarker) || strings.Contains(cookie, gatewaySessionMarker)
}

// SessionStore persists a session outside the client so that short-lived
// client instances can reuse a login.
//
// Load returns (nil, nil) when no session is stored.
type SessionStore interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, session Session) error
	Clear(ctx context.Context) error
}

// MemorySessionStore is an in-process SessionStore, safe for concurrent use.
//
// Share one instance between clients to let them share a login.
type MemorySessionStore struct {
	mu      sync.Mutex
	session *Session
}

// NewMemorySessionStore creates an empty MemorySessionStore
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

// Load returns a copy of the stored session, or nil
func (m *MemorySessionStore) Load(_ context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil
	}
	s := *m.session
	return &s, nil
}

// Save replaces the stored session
func (m *MemorySessionStore) Save(_ context.Context, session Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &session
	return nil
}

// Clear removes the stored session
func (m *MemorySessionStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}
