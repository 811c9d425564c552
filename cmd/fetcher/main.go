// Command fetcher streams HTTP responses to local files.
//
//	fetcher get https://example.com/data.json -o data.json -q page=2
//	echo '{"url":"https://example.com/a","filePath":"a.bin","progress":true}' | fetcher call
//	fetcher batch downloads.yaml -w 4
//
// Settings are read from FETCHER_* environment variables; see the config package.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	err := newRootCmd(a).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, fError(symbols["fail"]+" "+err.Error()))
		os.Exit(1)
	}
}
