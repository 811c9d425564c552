package main

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/fetcher/client"
)

type getFlags struct {
	output         string
	method         string
	headers        []string
	query          []string
	rawQuery       bool
	connectTimeout time.Duration
	readTimeout    time.Duration
	noRedirects    bool
	events         bool
	progressLog    bool
	quiet          bool
	sha256         string
}

func newGetCmd(a *app) *cobra.Command {
	var f getFlags

	cmd := &cobra.Command{
		Use:   "get URL -o FILE [OPTIONS]",
		Short: "Download a single URL to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := f.spec(args[0])
			if err != nil {
				return err
			}
			spec = a.withDefaults(spec)

			var opts []client.DownloadOption
			if f.events {
				opts = append(opts, client.WithProgressEvents(a.stderr, args[0]))
			}
			if f.progressLog {
				opts = append(opts, client.WithProgressLog())
			}
			if f.sha256 != "" {
				opts = append(opts, client.WithChecksum(sha256.New(), strings.ToLower(f.sha256)))
			}

			start := time.Now()
			res, err := a.client.Download(cmd.Context(), spec, f.output, opts...)
			if err != nil {
				return err
			}

			if !f.quiet {
				printSuccess(a.stdout, res.Path, sizeOf(res.Path)+" in "+elapsedSince(start))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Destination file path")
	cmd.Flags().StringVarP(&f.method, "method", "X", "GET", "HTTP method")
	cmd.Flags().StringArrayVarP(&f.headers, "header", "H", nil, "Request header as 'Key: Value'; can be repeated")
	cmd.Flags().StringArrayVarP(&f.query, "query", "q", nil, "Query parameter as 'key=value'; repeat a key to send several values")
	cmd.Flags().BoolVar(&f.rawQuery, "raw-query", false, "Append query parameters without percent-encoding")
	cmd.Flags().DurationVar(&f.connectTimeout, "connect-timeout", 0, "Connect timeout (eg. 5s); defaults to FETCHER_CONNECT_TIMEOUT")
	cmd.Flags().DurationVar(&f.readTimeout, "read-timeout", 0, "Read timeout (eg. 30s); defaults to FETCHER_READ_TIMEOUT")
	cmd.Flags().BoolVar(&f.noRedirects, "no-redirects", false, "Do not follow redirects")
	cmd.Flags().BoolVar(&f.events, "events", false, "Write JSON progress events to stderr")
	cmd.Flags().BoolVar(&f.progressLog, "progress", false, "Log progress periodically")
	cmd.Flags().BoolVar(&f.quiet, "quiet", false, "Print nothing on success")
	cmd.Flags().StringVar(&f.sha256, "sha256", "", "Expected hex SHA-256 of the body")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (f getFlags) spec(rawURL string) (client.RequestSpec, error) {
	headers, err := parseHeaders(f.headers)
	if err != nil {
		return client.RequestSpec{}, err
	}

	params, err := parseQuery(f.query)
	if err != nil {
		return client.RequestSpec{}, err
	}

	return client.RequestSpec{
		URL:               rawURL,
		Method:            f.method,
		Headers:           headers,
		Params:            params,
		ConnectTimeout:    f.connectTimeout,
		ReadTimeout:       f.readTimeout,
		SkipQueryEncoding: f.rawQuery,
		DisableRedirects:  f.noRedirects,
	}, nil
}

// parseHeaders turns 'Key: Value' arguments into headers, in order.
func parseHeaders(args []string) (client.Headers, error) {
	var headers client.Headers
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q: expected 'Key: Value'", arg)
		}
		headers = append(headers, client.Header{Key: key, Value: strings.TrimSpace(value)})
	}

	return headers, nil
}

var errInvalidQuery = errors.New("expected 'key=value'")

// parseQuery turns 'key=value' arguments into params. Keys keep the order of
// their first appearance; a key given more than once becomes a sequence.
func parseQuery(args []string) (client.Params, error) {
	var order []string
	values := make(map[string][]string)

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid query %q: %w", arg, errInvalidQuery)
		}
		if _, seen := values[key]; !seen {
			order = append(order, key)
		}
		values[key] = append(values[key], value)
	}

	params := make(client.Params, 0, len(order))
	for _, key := range order {
		vs := values[key]
		if len(vs) == 1 {
			params = append(params, client.Param{Key: key, Value: client.Scalar(vs[0])})
			continue
		}
		params = append(params, client.Param{Key: key, Value: client.Sequence(vs...)})
	}

	return params, nil
}
