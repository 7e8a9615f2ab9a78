// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package unifi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Default client configuration values
const (
	DefaultSite              = "default"
	DefaultControllerVersion = "8.0.28"
	DefaultConnectTimeout    = 10 * time.Second
	DefaultRequestTimeout    = 30 * time.Second
	DefaultVerifyCertificate = true
	DefaultPrettyPrintLogs   = false
)

// Security limits for JSON processing and logging
const (
	MaxJSONSizeForLogging = 1 * 1024 * 1024 // 1MB
	MaxSensitiveFields    = 1000
)

// Logging message constants
const (
	JSONTooLargeMessage     = "[JSON TOO LARGE FOR LOGGING]"
	JSONTooManySensitiveMsg = "[JSON CONTAINS TOO MANY SENSITIVE FIELDS]"
)

// sensitiveFields are JSON keys whose string values are redacted in logs
var sensitiveFields = []string{
	"password",
	"x_password",
	"x_passphrase",
	"x_shadow",
	"token",
	"csrfToken",
	"secret",
}

// defaultRedactionPatterns match the sensitiveFields as JSON members
var defaultRedactionPatterns = buildRedactionPatterns(sensitiveFields)

func buildRedactionPatterns(fields []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(fields))
	for _, f := range fields {
		patterns = append(patterns, regexp.MustCompile(`"`+regexp.QuoteMeta(f)+`"\s*:\s*"(?:[^"\\]|\\.)*"`))
	}
	return patterns
}

// Client represents a connection to a UniFi Network controller
type Client struct {
	// Connection parameters
	BaseURL           string
	ControllerVersion string
	username          string // unexported for security
	password          string // unexported for security

	// TLS and timeout options
	VerifyCertificate bool
	ConnectTimeout    time.Duration
	RequestTimeout    time.Duration

	// StrictSiteValidation rejects site names containing whitespace
	StrictSiteValidation bool

	transport         Transport
	store             SessionStore
	gatewayOSOverride *bool
	version           *semver.Version

	// mu guards the mutable state below
	mu        sync.Mutex
	site      string
	session   Session
	variant   *bool // detected controller variant, sticky until Logout
	lastRaw   string
	lastError string

	// Logging configuration
	logger            Logger
	prettyPrintLogs   bool
	redactionPatterns []*regexp.Regexp
}

// NewClient creates a new controller client for baseURL
//
// No request is sent until Login (or a NoAuth call). The base URL must include
// the scheme and, for legacy controllers, the port (usually 8443).
//
// Example:
//
//	client, err := unifi.NewClient(
//	    "https://192.168.1.1",
//	    unifi.Username("admin"),
//	    unifi.Password("secret"),
//	    unifi.Site("default"),
//	)
//	if err != nil {
//	    log.Fatal(err)  // Configuration error
//	}
//	if err := client.Login(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Logout(ctx)
//
// Returns a configured Client or an error if configuration validation fails.
func NewClient(baseURL string, opts ...func(*Client)) (*Client, error) {
	client := &Client{
		BaseURL:           strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		ControllerVersion: DefaultControllerVersion,
		site:              DefaultSite,
		VerifyCertificate: DefaultVerifyCertificate,
		ConnectTimeout:    DefaultConnectTimeout,
		RequestTimeout:    DefaultRequestTimeout,
		logger:            &NoOpLogger{},
		prettyPrintLogs:   DefaultPrettyPrintLogs,
		redactionPatterns: defaultRedactionPatterns,
	}

	for _, opt := range opts {
		opt(client)
	}

	if err := client.validateConfig(); err != nil {
		return nil, err
	}

	if client.transport == nil {
		client.transport = NewHTTPTransport(client.VerifyCertificate, client.ConnectTimeout, client.RequestTimeout)
	}

	client.logger.Info(context.Background(), "UniFi client created",
		"baseURL", client.BaseURL,
		"site", client.site,
		"controllerVersion", client.ControllerVersion)

	return client, nil
}

// validateConfig validates and normalizes client configuration
func (c *Client) validateConfig() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL scheme: %q (must be http or https)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base URL: missing host")
	}
	if u.Path != "" || u.RawQuery != "" {
		return fmt.Errorf("invalid base URL: must not contain a path or query: %s", c.BaseURL)
	}

	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive, got: %v", c.ConnectTimeout)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got: %v", c.RequestTimeout)
	}

	version, err := semver.NewVersion(c.ControllerVersion)
	if err != nil {
		return fmt.Errorf("invalid controller version %q: %w", c.ControllerVersion, err)
	}
	c.version = version

	site, err := c.normalizeSite(context.Background(), c.site)
	if err != nil {
		return err
	}
	c.site = site

	if !c.VerifyCertificate {
		c.logger.Warn(context.Background(), "TLS certificate verification disabled",
			"baseURL", c.BaseURL,
			"security_risk", "Man-in-the-Middle attacks possible")
	}
	if u.Scheme == "http" {
		c.logger.Warn(context.Background(), "TLS disabled - connection is not encrypted",
			"baseURL", c.BaseURL,
			"security_risk", "Credentials transmitted in clear text")
	}
	if !c.HasCredentials() {
		c.logger.Warn(context.Background(), "No credentials configured",
			"baseURL", c.BaseURL,
			"message", "only NoAuth calls will succeed")
	}

	return nil
}

// normalizeSite trims the site name and applies the whitespace policy
func (c *Client) normalizeSite(ctx context.Context, site string) (string, error) {
	site = strings.TrimSpace(site)
	if site == "" {
		return "", fmt.Errorf("site cannot be empty")
	}
	if strings.ContainsAny(site, " \t\r\n") {
		if c.StrictSiteValidation {
			return "", fmt.Errorf("invalid site %q: must not contain whitespace", site)
		}
		c.logger.Warn(ctx, "site name contains whitespace, the controller will likely reject it",
			"site", site)
	}
	return site, nil
}

// SetSite switches the site used to build site-scoped paths
//
// Calls already in flight are not affected.
func (c *Client) SetSite(site string) error {
	normalized, err := c.normalizeSite(context.Background(), site)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.site = normalized
	c.mu.Unlock()
	return nil
}

// Site returns the current site name
func (c *Client) Site() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.site
}

// LoggedIn reports whether the client holds a session
func (c *Client) LoggedIn() bool {
	return c.currentSession().LoggedIn
}

// IsGatewayOS reports whether the session targets a gateway-OS controller
func (c *Client) IsGatewayOS() bool {
	return c.currentSession().GatewayOS
}

// Cookie returns the cookie text replayed on every request
func (c *Client) Cookie() string {
	return c.currentSession().Cookie
}

// LastRawResult returns the unparsed body of the last Exec response. It is
// empty when the last Exec failed without a response.
func (c *Client) LastRawResult() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRaw
}

// LastErrorMessage returns the error detail of the last failed call
func (c *Client) LastErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// HasCredentials returns true if credentials are configured
func (c *Client) HasCredentials() bool {
	return c.username != "" || c.password != ""
}

// VersionAtLeast reports whether the configured controller version is at
// least v. An unparsable v yields false.
//
// Example:
//
//	if client.VersionAtLeast("7.2.0") {
//	    // use the newer endpoint
//	}
func (c *Client) VersionAtLeast(v string) bool {
	other, err := semver.NewVersion(v)
	if err != nil {
		return false
	}
	return !c.version.LessThan(other)
}

func (c *Client) currentSession() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client) setSession(s Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
	gatewayOS := s.GatewayOS
	c.variant = &gatewayOS
}

// invalidateSession drops the local session and any persisted copy. The
// detected variant is kept.
func (c *Client) invalidateSession(ctx context.Context) {
	c.mu.Lock()
	c.session = Session{}
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Clear(ctx); err != nil {
			c.logger.Warn(ctx, "failed to clear stored session", "error", err.Error())
		}
	}
}

func (c *Client) recordResult(raw, errMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastRaw = raw
	c.lastError = errMsg
}

func (c *Client) recordError(errMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastError = errMsg
}

// prepareJSONForLogging redacts sensitive data and formats JSON for logging
//
// Oversized input and input with an excessive number of sensitive fields is
// replaced by a marker instead of being run through the redaction regexes.
func (c *Client) prepareJSONForLogging(jsonStr string) string {
	if len(jsonStr) > MaxJSONSizeForLogging {
		return JSONTooLargeMessage
	}

	sensitiveCount := 0
	for _, f := range sensitiveFields {
		sensitiveCount += strings.Count(jsonStr, `"`+f+`"`)
	}
	if sensitiveCount > MaxSensitiveFields {
		c.logger.Warn(context.Background(), "Too many sensitive fields detected",
			"count", sensitiveCount,
			"max", MaxSensitiveFields)
		return JSONTooManySensitiveMsg
	}

	redacted := c.redactSensitiveData(jsonStr)

	if c.prettyPrintLogs {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(redacted), "", "  "); err == nil {
			return buf.String()
		}
	}

	return redacted
}

// redactSensitiveData replaces sensitive string values in JSON with [REDACTED]
func (c *Client) redactSensitiveData(jsonStr string) string {
	result := jsonStr
	for i, pattern := range c.redactionPatterns {
		result = pattern.ReplaceAllString(result, `"`+sensitiveFields[i]+`":"[REDACTED]"`)
	}
	return result
}
