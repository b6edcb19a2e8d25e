package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the application banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{" ___       _                  _                         ", "#818cf8"},
		{"|_ _|_ __ | |_ ___ _ ____   _(_) _____      _____ _ __ ", "#a78bfa"},
		{" | || '_ \\| __/ _ \\ '__\\ \\ / / |/ _ \\ \\ /\\ / / _ \\ '__|", "#c084fc"},
		{" | || | | | ||  __/ |   \\ V /| |  __/\\ V  V /  __/ |   ", "#e879f9"},
		{"|___|_| |_|\\__\\___|_|    \\_/ |_|\\___| \\_/\\_/ \\___|_|   ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Dim renders s in a muted color for hints and status lines.
func Dim(s string) string {
	return termenv.String(s).Faint().String()
}
