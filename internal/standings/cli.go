package standings

import "os"

// ShowHelp prints usage information for the standings tool.
func ShowHelp() {
	os.Stdout.WriteString(`Levelboard Standings
====================

Computes leaderboards from the speedrun and hard feeds exactly as the server
does, without starting it. With -url the boards are also compared against a
running service.

Usage:
  go run ./cmd/standings [options]

Options:
  -speedrun string
        Speedrun feed, file path or URL (default from config)
  -hard string
        Hard feed, file path or URL (default from config)
  -profiles string
        Profiles feed, file path or URL (default from config)
  -criterion string
        Comma-separated boards: points,total,speedrun,hard (default all)
  -top int
        Entries printed per board (default 10)
  -url string
        Base URL of a running service to verify
  -timeout duration
        Feed and HTTP timeout (default 10s)
  -diagnostics
        Print every excluded record and warning
  -help
        Show this help message

Configuration is read the same way as the server (LEVELBOARD_CONFIG and
LEVELBOARD_* variables); flags override it.

Examples:
  go run ./cmd/standings -top 5
  go run ./cmd/standings -criterion points -url http://localhost:9080
`)
}
