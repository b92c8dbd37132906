// Package config resolves the runner's command-line options into a
// concrete Options value: the report format, color policy, tee defaults,
// and the document sources to read.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/go-texest/texest/internal/report"
)

// ColorMode selects when ANSI color is used in the simple report.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color flag value.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(s) {
	case ColorAuto, ColorAlways, ColorNever:
		return ColorMode(s), nil
	default:
		return "", fmt.Errorf("unknown color mode %q (want auto, always, or never)", s)
	}
}

// Options holds the resolved settings of one runner invocation.
type Options struct {
	Files     []string
	Format    report.Format
	Color     ColorMode
	TeeStdout bool
	TeeStderr bool
	EnvFile   string
}

// ColorEnabled resolves Color against whether stdout is a terminal.
func (o Options) ColorEnabled() bool {
	switch o.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd())
	}
}

// LoadEnvFile loads NAME=VALUE pairs from path into the process
// environment ahead of the run, so `$env` expressions can observe them.
// Existing environment variables are never overwritten. A missing
// EnvFile is silently ignored, matching godotenv's optional-file
// convention for local development setups.
func LoadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}
