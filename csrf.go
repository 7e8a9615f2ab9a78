// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package unifi

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tidwall/gjson"
)

// csrfClaim is the claim of a gateway-OS session token holding the CSRF token
const csrfClaim = "csrfToken"

// ExtractCSRFToken returns the CSRF token embedded in a gateway-OS session
// token (a compact JWT whose payload carries a csrfToken claim).
//
// The signature is not verified; the token is only read. An empty string is
// returned when the token is empty, malformed or lacks the claim.
//
// Example:
//
//	csrf := unifi.ExtractCSRFToken(token)
//	if csrf != "" {
//	    req.Header.Set("x-csrf-token", csrf)
//	}
func ExtractCSRFToken(sessionToken string) string {
	segments := strings.Split(sessionToken, ".")
	if sessionToken == "" || len(segments) < 2 {
		return ""
	}

	parser := jwt.NewParser(jwt.WithPaddingAllowed())

	if len(segments) == 3 {
		claims := jwt.MapClaims{}
		if _, _, err := parser.ParseUnverified(sessionToken, claims); err == nil {
			csrf, _ := claims[csrfClaim].(string)
			return csrf
		}
	}

	// Header or signature unreadable: the payload segment alone is enough.
	payload, err := parser.DecodeSegment(segments[1])
	if err != nil || !gjson.ValidBytes(payload) {
		return ""
	}
	value := gjson.GetBytes(payload, csrfClaim)
	if value.Type != gjson.String {
		return ""
	}
	return value.String()
}

// csrfTokenFromCookie returns the value of the TOKEN cookie inside the
// joined cookie text of a session.
func csrfTokenFromCookie(cookie string) string {
	for _, part := range strings.Split(cookie, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if ok && name == gatewaySessionMarker {
			return value
		}
	}
	return ""
}
