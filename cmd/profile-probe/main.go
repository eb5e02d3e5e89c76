package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/The-Tifo/Graphql/internal/probe"
)

// Default configuration constants.
const (
	defaultBaseURL    = "https://learn.reboot01.com"
	defaultModulePath = "/bahrain/bh-module"
	defaultWidth      = 600
	defaultHeight     = 300
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 2 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", defaultBaseURL, "Platform root URL")
		modulePath = flag.String("module", defaultModulePath, "Module path scoping XP and progress")
		username   = flag.String("user", "", "Username or email")
		password   = flag.String("password", "", "Password (default: $"+probe.PasswordEnv+")")
		width      = flag.Float64("width", defaultWidth, "Chart width in pixels")
		height     = flag.Float64("height", defaultHeight, "Radar height in pixels")
		timeout    = flag.Duration("timeout", defaultTimeout, "Platform request timeout")
		outDir     = flag.String("out", ".", "Output directory")
		logFile    = flag.String("log", "", "Also write logs to this file")
		verbose    = flag.Bool("verbose", false, "Enable debug logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp(os.Stdout)
		return
	}

	closeLog, err := probe.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	cfg := &probe.Config{
		BaseURL:    *baseURL,
		ModulePath: *modulePath,
		Username:   *username,
		Password:   *password,
		Width:      *width,
		Height:     *height,
		Timeout:    *timeout,
		OutDir:     *outDir,
		Verbose:    *verbose,
	}

	sum, err := probe.Run(ctx, cfg)
	if err != nil {
		os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		closeLog()
		os.Exit(1)
	}
	for _, f := range sum.Files {
		os.Stdout.WriteString(f + "\n")
	}
}
