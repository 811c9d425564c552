package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/adamwoolhether/fetcher/client"
)

// batchFile is a YAML list of download requests, e.g.
//
//	- url: https://example.com/a.bin
//	  filePath: a.bin
//	- url: https://example.com/search
//	  filePath: results.json
//	  params:
//	    q: a b
//	    tag: [x, y]
type batchFile []client.FileRequest

func newBatchCmd(a *app) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "batch [YAML_FILE] [OPTIONS]",
		Short: "Process multiple downloads from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := readBatch(args[0])
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Workers
			}

			return a.batch(cmd, entries, workers)
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "Number of downloads to run in parallel (0 for no limit); defaults to FETCHER_WORKERS")

	return cmd
}

func readBatch(path string) (batchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}

	var entries batchFile
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing batch file: %w", err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no downloads found in %s", path)
	}

	for i, fr := range entries {
		if err := fr.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}

	return entries, nil
}

func (a *app) batch(cmd *cobra.Command, entries batchFile, workers int) error {
	dir, err := a.baseDir()
	if err != nil {
		return fmt.Errorf("resolving base dir: %w", err)
	}

	start := time.Now()
	jobs := make([]*client.DownloadJob, len(entries))

	var queue *client.DownloadQueue
	for i, fr := range entries {
		opts := []client.DownloadOption{client.WithBatch(workers)}
		if queue != nil {
			opts = []client.DownloadOption{client.WithQueue(queue)}
		}
		if fr.Progress {
			opts = append(opts, client.WithProgressLog())
		}

		j, err := a.client.DownloadAsync(cmd.Context(), a.withDefaults(fr.Spec()), fr.Destination(dir), opts...)
		if err != nil {
			if queue != nil {
				queue.Shutdown()
				_ = queue.Wait()
			}
			return fmt.Errorf("starting entry %d: %w", i, err)
		}

		jobs[i] = j
		queue = j.Queue()
	}

	var failed int
	for i, j := range jobs {
		res, err := j.Result()
		if err != nil {
			failed++
			printFailure(a.stdout, entries[i].URL, err)
			continue
		}
		printSuccess(a.stdout, res.Path, sizeOf(res.Path))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", failed, len(jobs))
	}

	a.logger.Info("batch complete", "downloads", len(jobs), "elapsed", elapsedSince(start))

	return nil
}
