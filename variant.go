// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package unifi

import (
	"context"
	"net/http"
)

// Controller paths for the two controller variants
const (
	legacyLoginPath   = "/api/login"
	legacyLogoutPath  = "/logout"
	gatewayLoginPath  = "/api/auth/login"
	gatewayLogoutPath = "/api/auth/logout"

	// gatewayAPIPrefix proxies the Network application on gateway-OS controllers
	gatewayAPIPrefix = "/proxy/network"

	// secondaryAPIPrefix marks the v2 API surface, which has its own envelope
	secondaryAPIPrefix = "/v2/api/"
)

func loginPath(gatewayOS bool) string {
	if gatewayOS {
		return gatewayLoginPath
	}
	return legacyLoginPath
}

func logoutPath(gatewayOS bool) string {
	if gatewayOS {
		return gatewayLogoutPath
	}
	return legacyLogoutPath
}

// apiURL resolves an API path against the base URL for the given variant
func (c *Client) apiURL(path string, gatewayOS bool) string {
	if gatewayOS {
		return c.BaseURL + gatewayAPIPrefix + path
	}
	return c.BaseURL + path
}

// resolveVariant returns the controller variant, probing the controller the
// first time. The result is kept until Logout.
func (c *Client) resolveVariant(ctx context.Context) (bool, error) {
	if c.gatewayOSOverride != nil {
		return *c.gatewayOSOverride, nil
	}

	c.mu.Lock()
	known := c.variant
	c.mu.Unlock()
	if known != nil {
		return *known, nil
	}

	gatewayOS, err := c.detectVariant(ctx)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	c.variant = &gatewayOS
	c.mu.Unlock()
	return gatewayOS, nil
}

// detectVariant probes the controller root with a bodiless POST. A gateway-OS
// controller answers 200; a legacy controller redirects or errors.
//
// The probe does not look at the body, so any proxy answering 200 on / is
// classified as gateway-OS. Pin the variant with the GatewayOS option if that
// happens.
func (c *Client) detectVariant(ctx context.Context) (bool, error) {
	resp, err := c.transport.Do(ctx, &Request{
		Method: http.MethodPost,
		URL:    c.BaseURL + "/",
		Header: http.Header{},
	})
	if err != nil {
		c.logger.Error(ctx, "controller variant probe failed",
			"baseURL", c.BaseURL,
			"error", err.Error())
		return false, &Error{
			Operation:   "Login",
			Kind:        ErrorKindConnection,
			Message:     "controller variant probe failed",
			InternalMsg: err.Error(),
			Err:         err,
		}
	}

	gatewayOS := resp.StatusCode == http.StatusOK
	c.logger.Debug(ctx, "controller variant detected",
		"baseURL", c.BaseURL,
		"status", resp.StatusCode,
		"gatewayOS", gatewayOS)
	return gatewayOS, nil
}
