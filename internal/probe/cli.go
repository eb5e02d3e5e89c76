package probe

import (
	"fmt"
	"io"
	"os"

	"github.com/The-Tifo/Graphql/pkg/logger"
)

// SetupLogging sends log output to stderr and, when logFile is set, to that
// file as well.
func SetupLogging(logFile string, verbose bool) (func(), error) {
	var w io.Writer = os.Stderr
	closeFn := func() {}
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, file)
		closeFn = func() { _ = file.Close() }
	}
	if err := logger.InitWithWriter(w); err != nil {
		closeFn()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return closeFn, nil
}

// ShowHelp prints usage information for the probe.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Profile Probe
=============

Signs in against the platform, builds the profile dashboard once and writes
the skills radar, the audit bars and the dashboard JSON to a directory.

Usage:
  go run ./cmd/profile-probe -user <login> [options]

Options:
  -url string
        Platform root URL (default "https://learn.reboot01.com")
  -module string
        Module path scoping XP and progress (default "/bahrain/bh-module")
  -user string
        Username or email
  -password string
        Password (default: $`+PasswordEnv+`)
  -width float
        Chart width in pixels (default 600)
  -height float
        Radar height in pixels (default 300)
  -timeout duration
        Platform request timeout (default 10s)
  -out string
        Output directory (default ".")
  -log string
        Also write logs to this file
  -verbose
        Enable debug logging
  -help
        Show this help message

Examples:
  `+PasswordEnv+`=... go run ./cmd/profile-probe -user tifo -out ./out
`)
}
