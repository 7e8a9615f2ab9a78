// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package unifi provides a client for the UniFi Network controller REST API.
//
// The library handles the parts of the API that are not plain request
// building: detecting the controller variant, logging in, replaying the
// session cookie and CSRF token, and renewing an expired session.
//
// # Quick Start
//
//	client, err := unifi.NewClient(
//	    "https://192.168.1.1",
//	    unifi.Username("admin"),
//	    unifi.Password("secret"),
//	    unifi.Site("default"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	if err := client.Login(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Logout(ctx)
//
//	res, err := client.Get(ctx, "/api/s/default/stat/device")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, dev := range res.Items() {
//	    fmt.Println(dev.Get("name").String(), dev.Get("mac").String())
//	}
//
// # Controller Variants
//
// Legacy controllers (self-hosted Network application, usually on port
// 8443) log in at /api/login and serve the API unprefixed. Gateway-OS
// controllers (UniFi OS consoles) log in at /api/auth/login and serve the
// Network API under /proxy/network, protected by a CSRF token carried in the
// session token. The variant is detected once, on the first login, by
// probing the controller root. Use the GatewayOS option to skip the probe.
//
// # Payloads
//
// Use the Body builder for JSON payloads:
//
//	payload, err := unifi.Body{}.
//	    Set("cmd", "restart").
//	    Set("mac", "aa:bb:cc:dd:ee:ff").
//	    Bytes()
//	res, err := client.Post(ctx, "/api/s/default/cmd/devmgr", payload)
//
// A payload on GET or DELETE is sent as POST; the controller does not accept
// bodies on those verbs.
//
// # Error Handling
//
// Failures are returned as *Error values. Use errors.Is with the sentinel
// errors to branch on the kind of failure:
//
//	_, err := client.Get(ctx, "/api/self/sites")
//	switch {
//	case errors.Is(err, unifi.ErrLoginRequired):
//	    // Login was not called
//	case errors.Is(err, unifi.ErrUnauthorized):
//	    // session expired and could not be renewed
//	case errors.Is(err, unifi.ErrAPI):
//	    fmt.Println(client.LastErrorMessage())
//	}
//
// When the controller answers 401, the client logs in again and retries the
// call once. No other error is retried.
//
// # Session Reuse
//
// A SessionStore lets short-lived processes share one login. BoltSessionStore
// keeps sessions in a bbolt file:
//
//	store, _ := unifi.OpenBoltSessionStore("unifi.db", "admin@192.168.1.1")
//	defer store.Close()
//	client, _ := unifi.NewClient(url, unifi.WithSessionStore(store), ...)
//
// # Thread Safety
//
// Client methods are safe to call concurrently, but re-authentication after
// an expired session is not coordinated between calls. Drive one session from
// one goroutine at a time when sessions may expire.
//
// # References
//
//   - gjson: https://github.com/tidwall/gjson
//   - sjson: https://github.com/tidwall/sjson
//   - bbolt: https://github.com/etcd-io/bbolt
//   - jwt: https://github.com/golang-jwt/jwt
package unifi
