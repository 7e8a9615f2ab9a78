// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package unifi

import (
	"fmt"

	"github.com/tidwall/sjson"
)

// Body builds JSON request payloads using sjson path syntax.
//
// Errors are tracked internally so calls can be chained; check them with
// Bytes, String or Err.
//
// Example:
//
//	payload, err := unifi.Body{}.
//	    Set("cmd", "set-locate").
//	    Set("mac", "aa:bb:cc:dd:ee:ff").
//	    Bytes()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := client.Post(ctx, "/api/s/default/cmd/devmgr", payload)
type Body struct {
	str string
	err error
}

// Set sets a value at the specified JSON path and returns a new Body
//
// The path uses dot notation for nested fields (e.g., "radio_table.0.channel").
// Once an error occurs, all subsequent operations preserve it.
func (b Body) Set(path string, value any) Body {
	if b.err != nil {
		return b
	}
	result, err := sjson.Set(b.str, path, value)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("Set(%q): %w", path, err)}
	}
	return Body{str: result}
}

// SetRaw sets pre-encoded JSON at the specified path and returns a new Body
func (b Body) SetRaw(path, rawJSON string) Body {
	if b.err != nil {
		return b
	}
	result, err := sjson.SetRaw(b.str, path, rawJSON)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("SetRaw(%q): %w", path, err)}
	}
	return Body{str: result}
}

// Delete removes a value at the specified JSON path and returns a new Body
func (b Body) Delete(path string) Body {
	if b.err != nil {
		return b
	}
	result, err := sjson.Delete(b.str, path)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("Delete(%q): %w", path, err)}
	}
	return Body{str: result}
}

// String returns the JSON string and any error encountered during building
func (b Body) String() (string, error) {
	return b.str, b.err
}

// Err returns any error that occurred during building
func (b Body) Err() error {
	return b.err
}

// Bytes returns the JSON payload for Exec, or the building error
//
// An empty Body yields nil, which Exec treats as "no payload".
func (b Body) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.str == "" {
		return nil, nil
	}
	return []byte(b.str), nil
}
