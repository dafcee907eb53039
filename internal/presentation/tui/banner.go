package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the pawtrail wordmark to out.
func PrintBanner(out *termenv.Output) {
	// Warm gradient, amber to rose
	lines := []struct {
		text  string
		color string
	}{
		{"                      _             _ _ ", "#fbbf24"},
		{"  _ __   __ ___      _| |_ _ __ __ _(_) |", "#f59e0b"},
		{" | '_ \\ / _` \\ \\ /\\ / / __| '__/ _` | | |", "#f97316"},
		{" | |_) | (_| |\\ V  V /| |_| | | (_| | | |", "#fb7185"},
		{" | .__/ \\__,_| \\_/\\_/  \\__|_|  \\__,_|_|_|", "#f43f5e"},
		{" |_|", "#e11d48"},
	}

	fmt.Fprintln(out)
	for _, l := range lines {
		fmt.Fprintln(out, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(out)
}

// NewOutput wraps w. Unstyled output never emits escape sequences.
func NewOutput(w io.Writer, styled bool) *termenv.Output {
	if !styled {
		return termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	}
	return termenv.NewOutput(w)
}
