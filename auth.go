// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package unifi

import (
	"context"
	"net/http"
	"strings"
)

const jsonContentType = "application/json; charset=utf-8"

// Login authenticates against the controller
//
// Login is idempotent: it returns nil immediately when a session exists. If a
// session store holds a session, that session is adopted without contacting
// the controller; the first real call validates it and triggers a fresh
// login if the controller rejects it.
//
// Otherwise the controller variant is detected (once) and the credentials
// are posted to the variant's login path. The session is accepted only if
// the response sets a recognized session cookie.
//
// Example:
//
//	if err := client.Login(ctx); err != nil {
//	    if errors.Is(err, unifi.ErrLoginFailed) {
//	        log.Fatal("bad credentials")
//	    }
//	    log.Fatal(err)
//	}
func (c *Client) Login(ctx context.Context) error {
	if c.LoggedIn() {
		return nil
	}

	if s := c.loadStoredSession(ctx); s != nil {
		c.setSession(*s)
		c.logger.Info(ctx, "adopted stored session",
			"baseURL", c.BaseURL,
			"gatewayOS", s.GatewayOS)
		return nil
	}

	gatewayOS, err := c.resolveVariant(ctx)
	if err != nil {
		c.recordError(err.Error())
		return err
	}

	payload, err := Body{}.
		Set("username", c.username).
		Set("password", c.password).
		Bytes()
	if err != nil {
		return c.loginError(ctx, 0, "failed to build login payload", err)
	}

	path := loginPath(gatewayOS)
	c.logger.Debug(ctx, "login request",
		"url", c.BaseURL+path,
		"payload", c.prepareJSONForLogging(string(payload)))

	resp, err := c.transport.Do(ctx, &Request{
		Method: http.MethodPost,
		URL:    c.BaseURL + path,
		Header: http.Header{
			"Content-Type": []string{jsonContentType},
			"Accept":       []string{"application/json"},
		},
		Body: payload,
	})
	if err != nil {
		c.logger.Error(ctx, "login request failed",
			"baseURL", c.BaseURL,
			"error", err.Error())
		e := &Error{
			Operation:   "Login",
			Kind:        ErrorKindConnection,
			Message:     "login request failed",
			InternalMsg: err.Error(),
			Err:         err,
		}
		c.recordError(e.Error())
		return e
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized:
		return c.loginError(ctx, resp.StatusCode, "controller rejected the credentials", nil)
	case resp.StatusCode < 200 || resp.StatusCode >= 400:
		return c.loginError(ctx, resp.StatusCode, "unexpected login response status", nil)
	case len(resp.Body) == 0:
		return c.loginError(ctx, resp.StatusCode, "empty login response", nil)
	}

	cookie := joinSetCookies(resp.Header)
	if !hasSessionMarker(cookie) {
		return c.loginError(ctx, resp.StatusCode, "login response carried no session cookie", nil)
	}

	session := Session{Cookie: cookie, LoggedIn: true, GatewayOS: gatewayOS}
	c.setSession(session)
	c.recordError("")

	if c.store != nil {
		if err := c.store.Save(ctx, session); err != nil {
			c.logger.Warn(ctx, "failed to persist session", "error", err.Error())
		}
	}

	c.logger.Info(ctx, "logged in",
		"baseURL", c.BaseURL,
		"gatewayOS", gatewayOS)
	return nil
}

func (c *Client) loginError(ctx context.Context, status int, msg string, cause error) error {
	e := &Error{
		Operation:  "Login",
		Kind:       ErrorKindLoginFailed,
		StatusCode: status,
		Message:    msg,
		Err:        cause,
	}
	if cause != nil {
		e.InternalMsg = cause.Error()
	}
	c.logger.Error(ctx, "login failed",
		"baseURL", c.BaseURL,
		"status", status,
		"reason", msg)
	c.recordError(e.Error())
	return e
}

// loadStoredSession returns a usable persisted session, or nil
func (c *Client) loadStoredSession(ctx context.Context) *Session {
	if c.store == nil {
		return nil
	}
	s, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warn(ctx, "failed to load stored session", "error", err.Error())
		return nil
	}
	if s == nil || s.Cookie == "" {
		return nil
	}
	s.LoggedIn = true
	if strings.Contains(s.Cookie, gatewaySessionMarker) {
		s.GatewayOS = true
	}
	if c.gatewayOSOverride != nil {
		s.GatewayOS = *c.gatewayOSOverride
	}
	return s
}

// Logout ends the session
//
// The logout request is best effort: local state and any persisted session
// are cleared whatever the controller answers. A transport failure is still
// reported after the state is cleared.
func (c *Client) Logout(ctx context.Context) error {
	session := c.currentSession()

	defer func() {
		c.invalidateSession(ctx)
		c.mu.Lock()
		c.variant = nil
		c.mu.Unlock()
	}()

	if !session.LoggedIn {
		return nil
	}

	header := http.Header{}
	header.Set("Cookie", session.Cookie)
	if session.GatewayOS {
		if csrf := session.CSRFToken(); csrf != "" {
			header.Set("x-csrf-token", csrf)
		}
	}

	url := c.BaseURL + logoutPath(session.GatewayOS)
	resp, err := c.transport.Do(ctx, &Request{
		Method: http.MethodPost,
		URL:    url,
		Header: header,
		Body:   []byte{},
	})
	if err != nil {
		c.logger.Warn(ctx, "logout request failed",
			"url", url,
			"error", err.Error())
		return &Error{
			Operation:   "Logout",
			Kind:        ErrorKindConnection,
			Message:     "logout request failed",
			InternalMsg: err.Error(),
			Err:         err,
		}
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn(ctx, "controller refused logout, session dropped locally",
			"url", url,
			"status", resp.StatusCode)
	} else {
		c.logger.Info(ctx, "logged out", "baseURL", c.BaseURL)
	}
	return nil
}

// joinSetCookies joins the name=value part of every Set-Cookie header with ";"
func joinSetCookies(header http.Header) string {
	values := header.Values("Set-Cookie")
	parts := make([]string, 0, len(values))
	for _, v := range values {
		nameValue, _, _ := strings.Cut(v, ";")
		if nameValue = strings.TrimSpace(nameValue); nameValue != "" {
			parts = append(parts, nameValue)
		}
	}
	return strings.Join(parts, ";")
}
