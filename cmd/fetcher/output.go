package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("37")) // dark green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")) // purple
)

var symbols = map[string]string{
	"pass":  "✓",
	"fail":  "✗",
	"arrow": "→",
}

func fSuccess(text string) string { return successStyle.Render(text) }
func fError(text string) string   { return errorStyle.Render(text) }
func fDetail(text string) string  { return detailStyle.Render(text) }

func printSuccess(w io.Writer, path, detail string) {
	fmt.Fprintln(w, fSuccess(symbols["pass"]+" "+path), fDetail(detail))
}

func printFailure(w io.Writer, target string, err error) {
	fmt.Fprintln(w, fError(symbols["fail"]+" "+target), fDetail(symbols["arrow"]+" "+err.Error()))
}

func humanBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
