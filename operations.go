// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package unifi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Input validation constants
const (
	// MaxPayloadSize is the maximum size of a request body (10MB)
	MaxPayloadSize = 10 * 1024 * 1024

	// MaxPathLength is the maximum length of an API path
	MaxPathLength = 2048

	// maxReauthRetries bounds re-authentication per call
	maxReauthRetries = 1
)

// validateRequest checks a request before anything is sent
func validateRequest(req *Req) error {
	if err := ValidateMethod(req.Method); err != nil {
		return err
	}
	if req.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if !strings.HasPrefix(req.Path, "/") {
		return fmt.Errorf("path must start with '/': %s", truncatePath(req.Path))
	}
	if len(req.Path) > MaxPathLength {
		return fmt.Errorf("path exceeds maximum length of %d characters: %s", MaxPathLength, truncatePath(req.Path))
	}
	if strings.ContainsRune(req.Path, 0) {
		return fmt.Errorf("path contains null byte")
	}
	if len(req.Payload) > MaxPayloadSize {
		return fmt.Errorf("payload size exceeds maximum of %d bytes (got %d bytes)", MaxPayloadSize, len(req.Payload))
	}
	if req.hasPayload() && !gjson.ValidBytes(req.Payload) {
		return fmt.Errorf("payload is not valid JSON")
	}
	return nil
}

// truncatePath truncates a path for error messages
func truncatePath(path string) string {
	if len(path) <= 100 {
		return path
	}
	return path[:100] + "..."
}

// Exec sends one API call and decodes the response
//
// The path is relative to the Network application, e.g. /api/s/default/stat/device;
// on gateway-OS controllers it is sent under /proxy/network automatically.
// A payload on GET or DELETE turns the call into a POST, since the controller
// does not accept bodies on those verbs.
//
// If the controller answers 401 the session is dropped, Login is run again
// and the call is re-issued once. A second 401 fails with ErrUnauthorized.
//
// Example:
//
//	payload, _ := unifi.Body{}.Set("cmd", "restart").Set("mac", mac).Bytes()
//	res, err := client.Exec(ctx, "POST", "/api/s/default/cmd/devmgr", payload)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Returns Res with the decoded payload, or an *Error describing the failure.
func (c *Client) Exec(ctx context.Context, method, path string, payload []byte, mods ...func(*Req)) (Res, error) {
	req := &Req{
		Method:      strings.ToUpper(strings.TrimSpace(method)),
		Path:        path,
		Payload:     payload,
		RequireAuth: true,
	}
	for _, mod := range mods {
		mod(req)
	}

	if err := validateRequest(req); err != nil {
		return Res{}, fmt.Errorf("exec: %w", err)
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	return c.exec(ctx, req)
}

// ExecBool sends one API call and reports only whether it succeeded
func (c *Client) ExecBool(ctx context.Context, method, path string, payload []byte, mods ...func(*Req)) (bool, error) {
	_, err := c.Exec(ctx, method, path, payload, mods...)
	return err == nil, err
}

// Get sends a GET request
func (c *Client) Get(ctx context.Context, path string, mods ...func(*Req)) (Res, error) {
	return c.Exec(ctx, http.MethodGet, path, nil, mods...)
}

// Post sends a POST request with a JSON payload
func (c *Client) Post(ctx context.Context, path string, payload []byte, mods ...func(*Req)) (Res, error) {
	return c.Exec(ctx, http.MethodPost, path, payload, mods...)
}

// Put sends a PUT request with a JSON payload
func (c *Client) Put(ctx context.Context, path string, payload []byte, mods ...func(*Req)) (Res, error) {
	return c.Exec(ctx, http.MethodPut, path, payload, mods...)
}

// Delete sends a DELETE request
func (c *Client) Delete(ctx context.Context, path string, mods ...func(*Req)) (Res, error) {
	return c.Exec(ctx, http.MethodDelete, path, nil, mods...)
}

// exec runs the send/re-authenticate loop for a validated request
func (c *Client) exec(ctx context.Context, req *Req) (Res, error) {
	for attempt := 0; ; attempt++ {
		session := c.currentSession()
		if req.RequireAuth && !session.LoggedIn {
			return Res{}, c.fail(ctx, req, &Error{
				Operation: "Exec",
				Kind:      ErrorKindLoginRequired,
				Message:   "login required",
				Retries:   attempt,
			})
		}

		resp, err := c.send(ctx, req, session)
		if err != nil {
			kind, msg := ErrorKindConnection, "request failed"
			if errors.Is(err, ErrResponseTooLarge) {
				kind, msg = ErrorKindDecode, "response exceeds maximum size"
			}
			return Res{}, c.fail(ctx, req, &Error{
				Operation:   "Exec",
				Kind:        kind,
				Message:     msg,
				InternalMsg: err.Error(),
				Retries:     attempt,
				Err:         err,
			})
		}

		if resp.StatusCode != http.StatusUnauthorized {
			return c.decode(ctx, req, resp)
		}

		c.invalidateSession(ctx)

		if attempt >= maxReauthRetries {
			return Res{}, c.fail(ctx, req, &Error{
				Operation:  "Exec",
				Kind:       ErrorKindUnauthorized,
				StatusCode: resp.StatusCode,
				Message:    "session rejected after re-authentication",
				Retries:    attempt,
			})
		}

		c.logger.Warn(ctx, "session expired, re-authenticating",
			"path", req.Path,
			"attempt", attempt+1)

		if err := c.Login(ctx); err != nil {
			return Res{}, c.fail(ctx, req, &Error{
				Operation:   "Exec",
				Kind:        ErrorKindUnauthorized,
				StatusCode:  resp.StatusCode,
				Message:     "re-authentication failed",
				InternalMsg: err.Error(),
				Retries:     attempt + 1,
				Err:         err,
			})
		}
	}
}

// send performs a single HTTP round trip for req using session
func (c *Client) send(ctx context.Context, req *Req, session Session) (*Response, error) {
	method := wireMethod(req.Method, req.hasPayload())
	url := c.apiURL(req.Path, session.GatewayOS)

	header := http.Header{}
	header.Set("Accept", "application/json")
	if session.Cookie != "" {
		header.Set("Cookie", session.Cookie)
	}

	var body []byte
	if req.hasPayload() {
		body = req.Payload
		header.Set("Content-Type", jsonContentType)
		if session.GatewayOS {
			if csrf := session.CSRFToken(); csrf != "" {
				header.Set("x-csrf-token", csrf)
			}
		}
	}

	c.logger.Debug(ctx, "controller request",
		"method", method,
		"url", url,
		"payload", c.prepareJSONForLogging(string(body)))

	resp, err := c.transport.Do(ctx, &Request{
		Method: method,
		URL:    url,
		Header: header,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug(ctx, "controller response",
		"method", method,
		"url", url,
		"status", resp.StatusCode,
		"bytes", len(resp.Body))
	return resp, nil
}

// decode decodes resp and records the raw body and error detail on the client
func (c *Client) decode(ctx context.Context, req *Req, resp *Response) (Res, error) {
	res, err := decodeResponse(req.Path, resp.StatusCode, resp.Body)
	if err != nil {
		detail := res.Message
		if detail == "" {
			detail = err.Error()
		}
		c.recordResult(res.Raw, detail)
		c.logger.Debug(ctx, "controller returned an error",
			"path", req.Path,
			"status", resp.StatusCode,
			"error", err.Error())
		return res, err
	}
	c.recordResult(res.Raw, "")
	return res, nil
}

// fail records a failure that produced no decodable response
func (c *Client) fail(ctx context.Context, req *Req, e *Error) error {
	c.recordResult("", e.Error())
	c.logger.Error(ctx, "controller call failed",
		"method", req.Method,
		"path", req.Path,
		"kind", e.Kind.String(),
		"error", e.DetailedError())
	return e
}
