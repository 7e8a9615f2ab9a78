// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package unifi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestHTTPTransportDoesNotFollowRedirects verifies redirects are returned as-is
func TestHTTPTransportDoesNotFollowRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/manage", http.StatusFound)
			return
		}
		t.Errorf("redirect was followed to %s", r.URL.Path)
	}))
	defer srv.Close()

	transport := NewHTTPTransport(true, time.Second, time.Second)
	defer transport.CloseIdleConnections()

	resp, err := transport.Do(context.Background(), &Request{Method: http.MethodPost, URL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Errorf("StatusCode = %d, want 302", resp.StatusCode)
	}
	if resp.Header.Get("Location") != "/manage" {
		t.Errorf("Location = %q", resp.Header.Get("Location"))
	}
}

// TestHTTPTransportHeadersAndBody verifies the request is sent unchanged
func TestHTTPTransportHeadersAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Method", r.Method)
		w.Header().Set("X-Cookie", r.Header.Get("Cookie"))
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	transport := NewHTTPTransport(true, time.Second, time.Second)
	resp, err := transport.Do(context.Background(), &Request{
		Method: http.MethodPut,
		URL:    srv.URL + "/api/s/default/rest/user/1",
		Header: http.Header{"Cookie": []string{"unifises=abc"}},
		Body:   []byte(`{"name":"x"}`),
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if string(resp.Body) != `{"name":"x"}` {
		t.Errorf("echoed body = %q", resp.Body)
	}
	if resp.Header.Get("X-Method") != http.MethodPut || resp.Header.Get("X-Cookie") != "unifises=abc" {
		t.Errorf("server saw method %q cookie %q", resp.Header.Get("X-Method"), resp.Header.Get("X-Cookie"))
	}
}

// TestHTTPTransportCertificateVerification verifies the VerifyCertificate switch
func TestHTTPTransportCertificateVerification(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, okEmpty)
	}))
	defer srv.Close()

	req := &Request{Method: http.MethodGet, URL: srv.URL + "/status"}

	if _, err := NewHTTPTransport(true, time.Second, time.Second).Do(context.Background(), req); err == nil {
		t.Error("self-signed certificate accepted with verification enabled")
	}

	resp, err := NewHTTPTransport(false, time.Second, time.Second).Do(context.Background(), req)
	if err != nil {
		t.Fatalf("Do() with verification disabled error = %v", err)
	}
	if string(resp.Body) != okEmpty {
		t.Errorf("body = %q", resp.Body)
	}
}

// TestHTTPTransportErrorStatusIsNotAnError verifies that any status is a completed round trip
func TestHTTPTransportErrorStatusIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	resp, err := NewHTTPTransport(true, time.Second, time.Second).Do(context.Background(),
		&Request{Method: http.MethodGet, URL: srv.URL + "/api/self"})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", resp.StatusCode)
	}
}

// TestHTTPTransportResponseSizeLimit verifies oversized bodies are rejected, not truncated
func TestHTTPTransportResponseSizeLimit(t *testing.T) {
	body := strings.Repeat("x", 100)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body)
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		limit   int64
		wantErr bool
	}{
		{name: "below limit", limit: 101, wantErr: false},
		{name: "at limit", limit: 100, wantErr: false},
		{name: "above limit", limit: 99, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := NewHTTPTransport(true, time.Second, time.Second)
			transport.maxResponseSize = tt.limit

			resp, err := transport.Do(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL + "/status"})
			if tt.wantErr {
				if !errors.Is(err, ErrResponseTooLarge) {
					t.Errorf("Do() error = %v, want ErrResponseTooLarge", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Do() error = %v", err)
			}
			if string(resp.Body) != body {
				t.Errorf("body length = %d, want %d", len(resp.Body), len(body))
			}
		})
	}
}
