// Package client performs single streaming HTTP downloads on top of
// [net/http].
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithUserAgent("myapp/1.0"),
//		client.WithThrottle(10, 5),
//	)
//
// # Describing a Request
//
// A [RequestSpec] carries everything one download needs. Params keep their
// order and may repeat a key; a [Sequence] value emits one pair per element:
//
//	spec := client.RequestSpec{
//		URL: "https://api.example.com/data",
//		Params: client.Params{
//			{Key: "q", Value: client.Scalar("a b")},
//			{Key: "tag", Value: client.Sequence("x", "y")},
//		},
//		ReadTimeout: 30 * time.Second,
//	}
//
// Values are percent-encoded unless SkipQueryEncoding is set, in which case
// they are appended exactly as given.
//
// # Downloading Files
//
// [Client.Download] streams the body to disk in 1 KiB chunks, reporting
// progress after every chunk:
//
//	res, err := c.Download(ctx, spec, "/tmp/data.json",
//		client.WithProgress(func(received, total int64) { ... }),
//	)
//
// Failures carry one of [ErrInvalidRequest], [ErrMalformedURL],
// [ErrURISyntax], [ErrConnection] or [ErrIO]; match them with errors.Is.
//
// # Async Downloads
//
// [Client.DownloadAsync] runs a download on its own goroutine. Use
// [WithBatch] to bound concurrency and [WithQueue] to add more files to the
// same batch:
//
//	j, err := c.DownloadAsync(ctx, specA, "/tmp/a.bin", client.WithBatch(4))
//	_, err = c.DownloadAsync(ctx, specB, "/tmp/b.bin", client.WithQueue(j.Queue()))
//	err = j.Wait() // blocks until both finish
//
// For lower-level control see the
// [github.com/adamwoolhether/fetcher/client/download] package.
package client
