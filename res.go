// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package unifi

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Res represents a decoded controller response
type Res struct {
	// StatusCode is the HTTP status of the response
	StatusCode int

	// Raw is the unparsed response body
	Raw string

	// Data is the payload: the "data" list of the primary API, or the
	// whole body for the v2 API. It is empty when the primary API returned
	// no list.
	Data gjson.Result

	// OK indicates if the controller reported success
	OK bool

	// Message carries the controller's error detail, if any
	Message string
}

// GetValue retrieves a value from Data using a gjson path.
//
// Example:
//
//	res, err := client.Get(ctx, "/api/self/sites")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	name := res.GetValue("0.desc").String()
//	count := res.GetValue("#").Int()
func (r Res) GetValue(path string) gjson.Result {
	return r.Data.Get(path)
}

// Items returns the elements of a list payload
func (r Res) Items() []gjson.Result {
	if !r.Data.IsArray() {
		return nil
	}
	return r.Data.Array()
}

// JSON returns the payload as raw JSON, or an empty string when there is none
func (r Res) JSON() string {
	return r.Data.Raw
}

// isSecondaryAPI reports whether path belongs to the v2 API surface
func isSecondaryAPI(path string) bool {
	return strings.HasPrefix(path, secondaryAPIPrefix)
}

// decodeResponse interprets a controller response body
//
// The primary API wraps results as {"meta":{"rc":"ok"|"error","msg":...},"data":[...]}.
// The v2 API returns the payload itself on success and
// {"errorCode":...,"message":...} on failure. Any other shape is a failure
// without detail.
func decodeResponse(path string, status int, body []byte) (Res, error) {
	res := Res{StatusCode: status, Raw: string(body)}

	if !gjson.ValidBytes(body) {
		return res, &Error{
			Operation:   "Exec",
			Kind:        ErrorKindDecode,
			StatusCode:  status,
			Message:     "response is not valid JSON",
			InternalMsg: truncateBody(res.Raw),
		}
	}
	parsed := gjson.ParseBytes(body)

	if isSecondaryAPI(path) {
		if errCode := parsed.Get("errorCode"); errCode.Exists() {
			res.Message = parsed.Get("message").String()
			return res, &Error{
				Operation:   "Exec",
				Kind:        ErrorKindAPI,
				StatusCode:  status,
				Message:     res.Message,
				InternalMsg: "errorCode " + errCode.String(),
			}
		}
		res.OK = true
		res.Data = parsed
		return res, nil
	}

	switch parsed.Get("meta.rc").String() {
	case "ok":
		res.OK = true
		if data := parsed.Get("data"); data.IsArray() {
			res.Data = data
		}
		return res, nil
	case "error":
		res.Message = parsed.Get("meta.msg").String()
		return res, &Error{
			Operation:  "Exec",
			Kind:       ErrorKindAPI,
			StatusCode: status,
			Message:    res.Message,
		}
	default:
		return res, &Error{
			Operation:   "Exec",
			Kind:        ErrorKindAPI,
			StatusCode:  status,
			Message:     "unexpected response envelope",
			InternalMsg: truncateBody(res.Raw),
		}
	}
}

func truncateBody(body string) string {
	if len(body) <= 256 {
		return body
	}
	return body[:256] + "..."
}
