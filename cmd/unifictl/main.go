// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Command unifictl is a command line client for UniFi Network controllers.
package main

import "github.com/netascode/go-unifi/internal/cli"

func main() {
	cli.Execute()
}
