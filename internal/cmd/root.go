// Package cmd wires the cobra command tree: a single root command that
// reads one or more YAML documents, runs their cases, and reports the
// result, plus a version subcommand.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-texest/texest/internal/build"
	"github.com/go-texest/texest/internal/config"
	"github.com/go-texest/texest/internal/document"
	"github.com/go-texest/texest/internal/orchestrator"
	"github.com/go-texest/texest/internal/report"
	"github.com/go-texest/texest/internal/texlog"
)

// NewRootCommand builds the "texest [OPTIONS] [FILES]..." command.
func NewRootCommand() *cobra.Command {
	var (
		format    string
		colorMode string
		teeStdout bool
		teeStderr bool
		envFile   string
		debug     bool
		quiet     bool
	)

	cmd := &cobra.Command{
		Use:   "texest [OPTIONS] [FILES]...",
		Short: "Declarative end-to-end test runner for command-line programs",
		Long: "texest [--color auto|always|never] [--format simple|json] " +
			"[--tee-stdout] [--tee-stderr] [FILES]...\n\n" +
			"Each FILE is a YAML document of test cases. A single \"-\" reads " +
			"the document from stdin.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolveOptions(args, format, colorMode, teeStdout, teeStderr, envFile)
			if err != nil {
				return err
			}

			logger := texlog.New(optsToLogOptions(debug, quiet)...)

			if err := config.LoadEnvFile(opts.EnvFile); err != nil {
				return err
			}

			cases, err := loadCases(cmd, opts.Files)
			if err != nil {
				return err
			}
			applyTeeOverrides(cases, opts.TeeStdout, opts.TeeStderr)

			tempRoot, err := os.MkdirTemp("", "texest-*")
			if err != nil {
				return err
			}
			defer os.RemoveAll(tempRoot)

			results := orchestrator.Run(cases, tempRoot, logger)
			if err := report.Write(cmd.OutOrStdout(), opts.Format, results, opts.ColorEnabled()); err != nil {
				return err
			}
			if !report.Success(results) {
				return errFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "simple", "report format: simple or json")
	cmd.Flags().StringVar(&colorMode, "color", "auto", "color policy: auto, always, or never")
	cmd.Flags().BoolVar(&teeStdout, "tee-stdout", false, "forward every process's stdout to the report regardless of tee_stdout in the document")
	cmd.Flags().BoolVar(&teeStderr, "tee-stderr", false, "forward every process's stderr to the report regardless of tee_stderr in the document")
	cmd.Flags().StringVar(&envFile, "env-file", "", "path to a .env file loaded before evaluating $env expressions (default .env if present)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug-level diagnostic logging")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress informational diagnostic logging")

	cmd.AddCommand(newVersionCommand())
	return cmd
}

// errFailed signals "at least one case failed" without itself printing
// anything; the entrypoint maps it to exit code 1. Every other error
// returned from Execute (a bad flag, a malformed document) maps to exit
// code 2.
var errFailed = fmt.Errorf("one or more test cases failed")

// IsFailure reports whether err is the "cases ran, one or more failed"
// sentinel rather than a usage or document error.
func IsFailure(err error) bool {
	return errors.Is(err, errFailed)
}

func optsToLogOptions(debug, quiet bool) []texlog.Option {
	var opts []texlog.Option
	if debug {
		opts = append(opts, texlog.WithDebug())
	}
	if quiet {
		opts = append(opts, texlog.WithQuiet())
	}
	return opts
}

func resolveOptions(files []string, format, colorMode string, teeStdout, teeStderr bool, envFile string) (config.Options, error) {
	f, err := report.ParseFormat(format)
	if err != nil {
		return config.Options{}, err
	}
	c, err := config.ParseColorMode(colorMode)
	if err != nil {
		return config.Options{}, err
	}
	if len(files) == 0 {
		files = []string{"-"}
	}
	return config.Options{
		Files:     files,
		Format:    f,
		Color:     c,
		TeeStdout: teeStdout,
		TeeStderr: teeStderr,
		EnvFile:   envFile,
	}, nil
}

// loadCases reads every file (or stdin, for "-") and concatenates their
// cases in argument order.
func loadCases(cmd *cobra.Command, files []string) ([]document.Case, error) {
	var all []document.Case
	for _, f := range files {
		data, err := readSource(cmd, f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		cases, err := document.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		all = append(all, cases...)
	}
	return all, nil
}

// applyTeeOverrides forces tee_stdout/tee_stderr on for every process
// when the matching --tee-stdout/--tee-stderr flag was given, regardless
// of what the document itself declared.
func applyTeeOverrides(cases []document.Case, teeStdout, teeStderr bool) {
	if !teeStdout && !teeStderr {
		return
	}
	for _, c := range cases {
		for name, ps := range c.Processes {
			if teeStdout {
				ps.TeeStdout = true
			}
			if teeStderr {
				ps.TeeStderr = true
			}
			c.Processes[name] = ps
		}
	}
}

func readSource(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the texest version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), build.Version)
			return nil
		},
	}
}
