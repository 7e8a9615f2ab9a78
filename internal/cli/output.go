// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/tidwall/pretty"
)

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)

// noColor reports whether w is not a terminal
func noColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return true
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}

// printRaw pretty prints raw JSON to w, colorized on a terminal
func printRaw(w io.Writer, raw string) {
	if raw == "" {
		raw = "null"
	}
	out := pretty.Pretty([]byte(raw))
	if !noColor(w) {
		out = pretty.Color(out, nil)
	}
	_, _ = w.Write(out)
}

// printJSON marshals v and prints it like printRaw
func printJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	printRaw(w, string(data))
	return nil
}

// printOK prints a green status line
func printOK(w io.Writer, format string, args ...any) {
	_, _ = okLabel.Fprintf(w, "✓ "+format+"\n", args...)
}
