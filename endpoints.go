// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package unifi

import (
	"context"
	"net/http"
	"strings"
)

// sitePath builds a path under the current site of the primary API
func (c *Client) sitePath(suffix string) string {
	return "/api/s/" + c.Site() + suffix
}

// Status returns the controller status. It does not need a session.
//
// Example:
//
//	res, err := client.Status(ctx)
//	if err == nil {
//	    fmt.Println(gjson.Get(res.Raw, "meta.server_version").String())
//	}
func (c *Client) Status(ctx context.Context) (Res, error) {
	return c.Get(ctx, "/status", NoAuth())
}

// Self returns the logged-in admin as seen from the current site
func (c *Client) Self(ctx context.Context) (Res, error) {
	return c.Get(ctx, c.sitePath("/self"))
}

// Sites lists the sites visible to the logged-in admin
func (c *Client) Sites(ctx context.Context) (Res, error) {
	return c.Get(ctx, "/api/self/sites")
}

// Health returns the health metrics of the current site
func (c *Client) Health(ctx context.Context) (Res, error) {
	return c.Get(ctx, c.sitePath("/stat/health"))
}

// Devices lists the adopted devices of the current site, optionally
// filtered by MAC address
func (c *Client) Devices(ctx context.Context, macs ...string) (Res, error) {
	var payload []byte
	if len(macs) > 0 {
		normalized := make([]string, len(macs))
		for i, mac := range macs {
			normalized[i] = strings.ToLower(strings.TrimSpace(mac))
		}
		var err error
		payload, err = Body{}.Set("macs", normalized).Bytes()
		if err != nil {
			return Res{}, err
		}
	}
	// GET with a payload is sent as POST.
	return c.Exec(ctx, http.MethodGet, c.sitePath("/stat/device"), payload)
}

// TrafficRules lists the traffic rules of the current site (v2 API)
func (c *Client) TrafficRules(ctx context.Context) (Res, error) {
	return c.Get(ctx, "/v2/api/site/"+c.Site()+"/trafficrules")
}
