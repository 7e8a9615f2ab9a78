// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package unifi

import (
	"fmt"
	"net/http"
	"strings"
)

// ValidMethods contains the HTTP methods accepted by Exec
var ValidMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// ValidateMethod checks if the method is accepted by Exec
//
// Example:
//
//	if err := unifi.ValidateMethod("PATCH"); err != nil {
//	    log.Fatal(err)
//	}
func ValidateMethod(method string) error {
	for _, valid := range ValidMethods {
		if method == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid method: %s (valid values: %s)", method, strings.Join(ValidMethods, ", "))
}

// wireMethod returns the method actually sent for a request. The controller
// does not accept a body on GET or DELETE, so those become POST when a
// payload is present. PUT and PATCH keep their verb.
func wireMethod(method string, hasPayload bool) string {
	if hasPayload && (method == http.MethodGet || method == http.MethodDelete) {
		return http.MethodPost
	}
	return method
}
