// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package unifi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

const (
	okEmpty   = `{"meta":{"rc":"ok"},"data":[]}`
	legacyTok = "unifises=legacy-session"
)

// recordedRequest is a request as seen by the fake controller
type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

// fakeResponse is a canned controller answer
type fakeResponse struct {
	Status int
	Body   string
}

// fakeController emulates the login, logout and probe endpoints of a
// controller and serves canned responses for API paths.
type fakeController struct {
	t      *testing.T
	server *httptest.Server

	mu        sync.Mutex
	gatewayOS bool
	token     string // cookie value set on login
	loginResp *fakeResponse
	responses map[string][]fakeResponse
	counts    map[string]int
	requests  []recordedRequest
}

func newFakeController(t *testing.T, gatewayOS bool) *fakeController {
	t.Helper()
	fc := &fakeController{
		t:         t,
		gatewayOS: gatewayOS,
		responses: map[string][]fakeResponse{},
		counts:    map[string]int{},
	}
	if gatewayOS {
		fc.token = "TOKEN=" + makeSessionToken(t, "csrf-1")
	} else {
		fc.token = legacyTok
	}
	fc.server = httptest.NewServer(http.HandlerFunc(fc.handle))
	t.Cleanup(fc.server.Close)
	return fc
}

func (fc *fakeController) URL() string {
	return fc.server.URL
}

// respond queues responses for path; the last one is repeated
func (fc *fakeController) respond(path string, responses ...fakeResponse) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.responses[path] = append(fc.responses[path], responses...)
}

func (fc *fakeController) setLoginResponse(status int, body string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.loginResp = &fakeResponse{Status: status, Body: body}
}

func (fc *fakeController) setToken(cookie string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.token = cookie
}

func (fc *fakeController) count(path string) int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.counts[path]
}

func (fc *fakeController) total() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	n := 0
	for _, c := range fc.counts {
		n += c
	}
	return n
}

// last returns the last request recorded for path
func (fc *fakeController) last(path string) (recordedRequest, bool) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	for i := len(fc.requests) - 1; i >= 0; i-- {
		if fc.requests[i].Path == path {
			return fc.requests[i], true
		}
	}
	return recordedRequest{}, false
}

func (fc *fakeController) loginPath() string {
	return loginPath(fc.gatewayOS)
}

func (fc *fakeController) apiPath(path string) string {
	if fc.gatewayOS {
		return gatewayAPIPrefix + path
	}
	return path
}

func (fc *fakeController) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	fc.mu.Lock()
	fc.counts[r.URL.Path]++
	fc.requests = append(fc.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   string(body),
	})
	gatewayOS := fc.gatewayOS
	token := fc.token
	loginResp := fc.loginResp
	fc.mu.Unlock()

	switch r.URL.Path {
	case "/":
		if gatewayOS {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Redirect(w, r, "/manage", http.StatusFound)
		return
	case legacyLoginPath, gatewayLoginPath:
		if loginResp != nil {
			w.WriteHeader(loginResp.Status)
			_, _ = io.WriteString(w, loginResp.Body)
			return
		}
		name, value, _ := strings.Cut(token, "=")
		http.SetCookie(w, &http.Cookie{Name: name, Value: value, Path: "/", HttpOnly: true})
		w.Header().Add("Set-Cookie", "csrf_token=abc; Path=/")
		_, _ = io.WriteString(w, `{"meta":{"rc":"ok"},"data":[]}`)
		return
	case legacyLogoutPath, gatewayLogoutPath:
		_, _ = io.WriteString(w, okEmpty)
		return
	}

	resp, ok := fc.next(r.URL.Path)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"meta":{"rc":"error","msg":"api.err.NotFound"},"data":[]}`)
		return
	}
	w.WriteHeader(resp.Status)
	_, _ = io.WriteString(w, resp.Body)
}

func (fc *fakeController) next(path string) (fakeResponse, bool) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	queue := fc.responses[path]
	if len(queue) == 0 {
		return fakeResponse{}, false
	}
	resp := queue[0]
	if len(queue) > 1 {
		fc.responses[path] = queue[1:]
	}
	return resp, true
}

// makeSessionToken builds a signed gateway-OS style session token
func makeSessionToken(t *testing.T, csrf string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId":    "u-1",
		"csrfToken": csrf,
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func newTestClient(t *testing.T, fc *fakeController, opts ...func(*Client)) *Client {
	t.Helper()
	base := []func(*Client){Username("admin"), Password("secret")}
	client, err := NewClient(fc.URL(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func loggedInClient(t *testing.T, fc *fakeController, opts ...func(*Client)) *Client {
	t.Helper()
	client := newTestClient(t, fc, opts...)
	if err := client.Login(context.Background()); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	return client
}

// countingTransport counts round trips before delegating
type countingTransport struct {
	next  Transport
	calls atomic.Int32
}

func (c *countingTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	c.calls.Add(1)
	return c.next.Do(ctx, req)
}
