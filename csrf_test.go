// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package unifi

import (
	"encoding/base64"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func segment(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

// TestExtractCSRFToken verifies CSRF extraction from session tokens
func TestExtractCSRFToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{
			name:  "signed token",
			token: signedToken(t, jwt.MapClaims{"csrfToken": "abc-123", "userId": "u"}),
			want:  "abc-123",
		},
		{
			name:  "payload only",
			token: segment(`{"alg":"none"}`) + "." + segment(`{"csrfToken":"two"}`),
			want:  "two",
		},
		{
			name:  "unreadable header",
			token: "!!!." + segment(`{"csrfToken":"fallback"}`) + ".sig",
			want:  "fallback",
		},
		{
			name:  "padded payload",
			token: "h." + base64.URLEncoding.EncodeToString([]byte(`{"csrfToken":"pad"}`)) + ".s",
			want:  "pad",
		},
		{
			name:  "missing claim",
			token: signedToken(t, jwt.MapClaims{"userId": "u"}),
			want:  "",
		},
		{
			name:  "non-string claim",
			token: signedToken(t, jwt.MapClaims{"csrfToken": 42}),
			want:  "",
		},
		{
			name:  "single segment",
			token: "abc",
			want:  "",
		},
		{
			name:  "empty",
			token: "",
			want:  "",
		},
		{
			name:  "bad base64",
			token: "a.@@@.c",
			want:  "",
		},
		{
			name:  "payload not JSON",
			token: "a." + segment("hello") + ".c",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractCSRFToken(tt.token); got != tt.want {
				t.Errorf("ExtractCSRFToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestCSRFTokenFromCookie verifies locating the session token in cookie text
func TestCSRFTokenFromCookie(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		want   string
	}{
		{name: "only token", cookie: "TOKEN=a.b.c", want: "a.b.c"},
		{name: "among others", cookie: "csrf_token=x; TOKEN=a.b.c;other=y", want: "a.b.c"},
		{name: "legacy", cookie: "unifises=abc;csrf_token=x", want: ""},
		{name: "empty", cookie: "", want: ""},
		{name: "lowercase name", cookie: "token=a.b.c", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := csrfTokenFromCookie(tt.cookie); got != tt.want {
				t.Errorf("csrfTokenFromCookie() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestSessionCSRFToken verifies that only gateway-OS sessions carry a CSRF token
func TestSessionCSRFToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"csrfToken": "c-1"})

	gateway := Session{Cookie: "TOKEN=" + token, LoggedIn: true, GatewayOS: true}
	if got := gateway.CSRFToken(); got != "c-1" {
		t.Errorf("gateway CSRFToken() = %q, want c-1", got)
	}

	legacy := Session{Cookie: "TOKEN=" + token, LoggedIn: true}
	if got := legacy.CSRFToken(); got != "" {
		t.Errorf("legacy CSRFToken() = %q, want empty", got)
	}
}
