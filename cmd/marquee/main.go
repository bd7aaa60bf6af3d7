// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Command marquee queries recommendations from the command line. It reads
// the same configuration as the server.
package main

import (
	"os"

	"github.com/tomtom215/marquee/internal/cli"
)

var version = "dev"

func main() {
	os.Exit(cli.Execute(cli.Options{Version: version}))
}
