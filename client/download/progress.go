package download

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// LogProgress returns a sink logging download progress at most once
// per second, plus a final line when a known total is reached.
func LogProgress(logger *slog.Logger) ProgressFunc {
	start := time.Now()
	var lastLog time.Time

	return func(received, total int64) {
		if time.Since(lastLog) >= time.Second {
			lastLog = time.Now()
			logProgress(logger, "downloading", start, received, total)
		}

		if total > 0 && received == total {
			logProgress(logger, "download complete", start, received, total)
		}
	}
}

func logProgress(logger *slog.Logger, msg string, start time.Time, received, total int64) {
	elapsed := time.Since(start)

	attrs := []any{
		"elapsed", elapsed.Round(time.Millisecond),
		"transferred", humanize.Bytes(uint64(received)),
	}

	if total > 0 {
		attrs = append(attrs,
			"progress", fmt.Sprintf("%.1f%%", float64(received)/float64(total)*100),
			"total", humanize.Bytes(uint64(total)),
		)
	} else {
		attrs = append(attrs, "total", "unknown")
	}

	if secs := elapsed.Seconds(); secs > 0 {
		attrs = append(attrs, "rate", humanize.Bytes(uint64(float64(received)/secs))+"/s")
	}

	logger.Info(msg, attrs...)
}

// Event is the wire shape of a progress notification forwarded to a host.
type Event struct {
	Type          string `json:"type"`
	URL           string `json:"url"`
	Bytes         int64  `json:"bytes"`
	ContentLength int64  `json:"contentLength"`
}

// JSONEvents returns a sink writing one JSON [Event] per line to w.
// Write errors are dropped; the download itself is unaffected.
func JSONEvents(w io.Writer, url string) ProgressFunc {
	var mu sync.Mutex
	enc := json.NewEncoder(w)

	return func(received, total int64) {
		mu.Lock()
		defer mu.Unlock()

		_ = enc.Encode(Event{
			Type:          "DOWNLOAD",
			URL:           url,
			Bytes:         received,
			ContentLength: total,
		})
	}
}
