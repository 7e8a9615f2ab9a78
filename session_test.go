// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package unifi

import (
	"context"
	"path/filepath"
	"testing"
)

// storeUnderTest opens a fresh store for the shared contract tests
type storeUnderTest struct {
	name string
	open func(t *testing.T) SessionStore
}

func sessionStores() []storeUnderTest {
	return []storeUnderTest{
		{
			name: "memory",
			open: func(t *testing.T) SessionStore {
				return NewMemorySessionStore()
			},
		},
		{
			name: "bolt",
			open: func(t *testing.T) SessionStore {
				store, err := OpenBoltSessionStore(filepath.Join(t.TempDir(), "sessions.db"), "admin@unifi")
				if err != nil {
					t.Fatalf("OpenBoltSessionStore() error = %v", err)
				}
				t.Cleanup(func() { _ = store.Close() })
				return store
			},
		},
	}
}

// TestSessionStoreContract verifies Load, Save and Clear for every store
func TestSessionStoreContract(t *testing.T) {
	ctx := context.Background()

	for _, st := range sessionStores() {
		t.Run(st.name, func(t *testing.T) {
			store := st.open(t)

			got, err := store.Load(ctx)
			if err != nil || got != nil {
				t.Fatalf("Load() on empty store = %v, %v; want nil, nil", got, err)
			}

			want := Session{Cookie: "TOKEN=a.b.c", LoggedIn: true, GatewayOS: true}
			if err := store.Save(ctx, want); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, err = store.Load(ctx)
			if err != nil || got == nil {
				t.Fatalf("Load() = %v, %v; want a session", got, err)
			}
			if *got != want {
				t.Errorf("Load() = %+v, want %+v", *got, want)
			}

			replacement := Session{Cookie: "unifises=new", LoggedIn: true}
			if err := store.Save(ctx, replacement); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, _ = store.Load(ctx)
			if got == nil || *got != replacement {
				t.Errorf("Load() after replace = %+v, want %+v", got, replacement)
			}

			if err := store.Clear(ctx); err != nil {
				t.Fatalf("Clear() error = %v", err)
			}
			got, err = store.Load(ctx)
			if err != nil || got != nil {
				t.Errorf("Load() after Clear = %v, %v; want nil, nil", got, err)
			}
			if err := store.Clear(ctx); err != nil {
				t.Errorf("Clear() on empty store error = %v", err)
			}
		})
	}
}

// TestMemorySessionStoreReturnsCopy verifies that callers cannot mutate the stored session
func TestMemorySessionStoreReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()
	_ = store.Save(ctx, Session{Cookie: "unifises=a"})

	got, _ := store.Load(ctx)
	got.Cookie = "changed"

	again, _ := store.Load(ctx)
	if again.Cookie != "unifises=a" {
		t.Errorf("stored cookie = %q, want unifises=a", again.Cookie)
	}
}

// TestBoltSessionStorePersists verifies a session survives reopening the database
func TestBoltSessionStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.db")

	store, err := OpenBoltSessionStore(path, "admin@a")
	if err != nil {
		t.Fatalf("OpenBoltSessionStore() error = %v", err)
	}
	want := Session{Cookie: "unifises=persisted", LoggedIn: true}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenBoltSessionStore(path, "admin@a")
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Load(ctx)
	if err != nil || got == nil {
		t.Fatalf("Load() = %v, %v; want a session", got, err)
	}
	if *got != want {
		t.Errorf("Load() = %+v, want %+v", *got, want)
	}
}

// TestBoltSessionStoreKeys verifies that keys isolate sessions in one database
func TestBoltSessionStoreKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.db")

	a, err := OpenBoltSessionStore(path, "admin@a")
	if err != nil {
		t.Fatalf("OpenBoltSessionStore() error = %v", err)
	}
	if err := a.Save(ctx, Session{Cookie: "unifises=a"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	_ = a.Close()

	b, err := OpenBoltSessionStore(path, "admin@b")
	if err != nil {
		t.Fatalf("OpenBoltSessionStore() error = %v", err)
	}
	defer b.Close()

	got, err := b.Load(ctx)
	if err != nil || got != nil {
		t.Errorf("Load() for other key = %v, %v; want nil, nil", got, err)
	}
}

// TestOpenBoltSessionStoreErrors verifies argument and file errors
func TestOpenBoltSessionStoreErrors(t *testing.T) {
	if _, err := OpenBoltSessionStore(filepath.Join(t.TempDir(), "s.db"), "  "); err == nil {
		t.Error("expected error for empty key")
	}
	if _, err := OpenBoltSessionStore(filepath.Join(t.TempDir(), "missing", "s.db"), "k"); err == nil {
		t.Error("expected error for missing directory")
	}
}

// TestHasSessionMarker verifies recognition of session cookies
func TestHasSessionMarker(t *testing.T) {
	tests := []struct {
		cookie string
		want   bool
	}{
		{cookie: "unifises=abc", want: true},
		{cookie: "TOKEN=a.b.c;csrf_token=x", want: true},
		{cookie: "csrf_token=x", want: false},
		{cookie: "", want: false},
	}
	for _, tt := range tests {
		if got := hasSessionMarker(tt.cookie); got != tt.want {
			t.Errorf("hasSessionMarker(%q) = %v, want %v", tt.cookie, got, tt.want)
		}
	}
}
