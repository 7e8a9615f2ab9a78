// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package unifi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var sessionBucket = []byte("sessions")

// BoltSessionStore is a SessionStore persisted in a bbolt database file
//
// Each store reads and writes a single key, so one database can hold the
// sessions of several controllers or users.
//
// Example:
//
//	store, err := unifi.OpenBoltSessionStore("/var/lib/app/unifi.db", "admin@192.168.1.1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	client, _ := unifi.NewClient("https://192.168.1.1",
//	    unifi.Username("admin"),
//	    unifi.Password("secret"),
//	    unifi.WithSessionStore(store))
type BoltSessionStore struct {
	db  *bolt.DB
	key []byte
}

// OpenBoltSessionStore opens (or creates) the database at path and returns a
// store for the session identified by key.
func OpenBoltSessionStore(path, key string) (*BoltSessionStore, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("session key cannot be empty")
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open session db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(sessionBucket); err != nil {
			return fmt.Errorf("failed to create sessions bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltSessionStore{db: db, key: []byte(key)}, nil
}

// Load returns the stored session, or nil if none is stored
func (b *BoltSessionStore) Load(_ context.Context) (*Session, error) {
	var session *Session
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(sessionBucket).Get(b.key)
		if data == nil {
			return nil
		}
		session = &Session{}
		if err := json.Unmarshal(data, session); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Save stores the session, replacing any previous one
func (b *BoltSessionStore) Save(_ context.Context, session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Put(b.key, data)
	})
}

// Clear removes the stored session
func (b *BoltSessionStore) Clear(_ context.Context) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete(b.key)
	})
}

// Close closes the underlying database
func (b *BoltSessionStore) Close() error {
	return b.db.Close()
}
