// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package unifi

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// MaxResponseSize caps how much of a response body is read (32MB)
const MaxResponseSize = 32 * 1024 * 1024

// ErrResponseTooLarge is returned by HTTPTransport when a response body
// exceeds MaxResponseSize
var ErrResponseTooLarge = errors.New("response exceeds maximum size")

// Request is a single HTTP request as handed to a Transport
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the result of a single HTTP request
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport sends exactly one HTTP request. It must not follow redirects,
// retry, or manage cookies; the client does all of that itself.
//
// An error is returned only when no response was received (connection
// refused, TLS failure, timeout). Any HTTP status is a successful round trip.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// HTTPTransport is the default Transport built on net/http
type HTTPTransport struct {
	client          *http.Client
	maxResponseSize int64
}

// NewHTTPTransport creates a transport with the given certificate verification
// and timeouts. connectTimeout bounds dialing and the TLS handshake;
// requestTimeout bounds the whole exchange.
func NewHTTPTransport(verifyCertificate bool, connectTimeout, requestTimeout time.Duration) *HTTPTransport {
	dialer := &net.Dialer{Timeout: connectTimeout, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: connectTimeout,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSClientConfig: &tls.Config{
			//nolint:gosec // G402: controllers commonly use self-signed certificates, opt-in via VerifyCertificate(false)
			InsecureSkipVerify: !verifyCertificate,
		},
	}
	return &HTTPTransport{
		client: &http.Client{
			Transport: transport,
			Timeout:   requestTimeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		maxResponseSize: MaxResponseSize,
	}
}

// Do sends the request and reads the full response body
func (t *HTTPTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, vals := range req.Header {
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, t.maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(data)) > t.maxResponseSize {
		return nil, fmt.Errorf("%w (%d bytes)", ErrResponseTooLarge, t.maxResponseSize)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// CloseIdleConnections releases pooled connections
func (t *HTTPTransport) CloseIdleConnections() {
	t.client.CloseIdleConnections()
}
