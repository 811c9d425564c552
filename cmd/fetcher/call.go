package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/fetcher/client"
)

// callError is written to stdout in place of a result when a call fails.
type callError struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func newCallCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call [FILE|-]",
		Short: "Run one JSON download request and print the result as JSON",
		Long: `Reads a download request such as

  {"url": "https://example.com/data", "filePath": "data.bin",
   "params": {"q": "a b", "tag": ["x", "y"]}, "progress": true}

from FILE or stdin, downloads it and prints {"path": "..."} to stdout.
With "progress" set, one JSON event per chunk is written to stderr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = a.stdin
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening request: %w", err)
				}
				defer f.Close()
				in = f
			}

			res, err := a.call(cmd, in)
			enc := json.NewEncoder(a.stdout)
			if err != nil {
				if encErr := enc.Encode(callError{Error: err.Error(), Kind: client.Outcome(err)}); encErr != nil {
					a.logger.Error("writing error", "error", encErr)
				}
				return err
			}

			return enc.Encode(res)
		},
	}

	return cmd
}

func (a *app) call(cmd *cobra.Command, in io.Reader) (client.DownloadResult, error) {
	var fr client.FileRequest
	if err := json.NewDecoder(in).Decode(&fr); err != nil {
		return client.DownloadResult{}, &client.Error{Err: client.ErrInvalidRequest, Detail: "decoding request", Cause: err}
	}

	if err := fr.Validate(); err != nil {
		return client.DownloadResult{}, err
	}

	dir, err := a.baseDir()
	if err != nil {
		return client.DownloadResult{}, fmt.Errorf("resolving base dir: %w", err)
	}

	var opts []client.DownloadOption
	if fr.Progress {
		opts = append(opts, client.WithProgressEvents(a.stderr, fr.URL))
	}

	return a.client.Download(cmd.Context(), a.withDefaults(fr.Spec()), fr.Destination(dir), opts...)
}
