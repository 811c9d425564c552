package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/fetcher"
	"github.com/adamwoolhether/fetcher/client"
	"github.com/adamwoolhether/fetcher/config"
)

var version = "dev"

// app carries what every subcommand needs once the root has run.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	client *client.Client

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(a *app) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           "fetcher",
		Short:         "Stream HTTP responses to local files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			a.cfg = cfg
			a.logger = cfg.Logger(a.stderr)

			c, err := fetcher.NewClient(fetcher.FromConfig(cfg, a.logger)...)
			if err != nil {
				return fmt.Errorf("building client: %w", err)
			}
			a.client = c

			return nil
		},
	}

	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides FETCHER_LOG_LEVEL)")

	cmd.AddCommand(newGetCmd(a), newCallCmd(a), newBatchCmd(a))

	return cmd
}

// baseDir is where relative file paths from request input are resolved.
func (a *app) baseDir() (string, error) {
	if a.cfg.BaseDir != "" {
		return a.cfg.BaseDir, nil
	}

	return os.Getwd()
}

// withDefaults fills unset timeouts from the environment.
func (a *app) withDefaults(spec client.RequestSpec) client.RequestSpec {
	if spec.ConnectTimeout == 0 {
		spec.ConnectTimeout = a.cfg.ConnectTimeout
	}
	if spec.ReadTimeout == 0 {
		spec.ReadTimeout = a.cfg.ReadTimeout
	}

	return spec
}

func sizeOf(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}

	return fmt.Sprintf("(%s)", humanBytes(info.Size()))
}

func elapsedSince(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
