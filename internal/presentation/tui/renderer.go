package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/pawtrail/pkg/domain"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// ScreenRenderer prints navigator screens to a terminal.
type ScreenRenderer struct {
	out      *termenv.Output
	markdown func(string) (string, error)
}

// NewScreenRenderer writes to w. When styled is false the output is plain text
// and dog descriptions are printed verbatim instead of rendered as markdown.
func NewScreenRenderer(w io.Writer, styled bool) (*ScreenRenderer, error) {
	r := &ScreenRenderer{
		out:      NewOutput(w, styled),
		markdown: func(s string) (string, error) { return s + "\n", nil },
	}
	if styled {
		md, err := NewRenderer()
		if err != nil {
			return nil, err
		}
		r.markdown = md
	}
	return r, nil
}

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// Banner prints the wordmark.
func (r *ScreenRenderer) Banner() {
	PrintBanner(r.out)
}

// Render prints screen.
func (r *ScreenRenderer) Render(screen domain.Screen) error {
	switch s := domain.Normalize(screen).(type) {
	case domain.Home:
		fmt.Fprintln(r.out, r.title("Home"))
		fmt.Fprintln(r.out, r.faint("No dog selected. Open one to see its details."))
		return nil
	case domain.Detail:
		return r.renderDetail(s.Dog)
	default:
		return fmt.Errorf("cannot render screen %T", screen)
	}
}

func (r *ScreenRenderer) renderDetail(dog domain.Dog) error {
	fmt.Fprintf(r.out, "%s %s\n", r.title(dog.Name), r.faint(fmt.Sprintf("#%d", dog.ID)))

	fields := []struct{ label, value string }{
		{"Breed", dog.Breed},
		{"Age", formatAge(dog.Age)},
		{"Gender", dog.Gender},
		{"Image", dog.ImageURL},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(r.out, "  %s %s\n", r.out.String(f.label+":").Bold(), f.value)
	}

	if strings.TrimSpace(dog.Description) == "" {
		return nil
	}
	rendered, err := r.markdown(dog.Description)
	if err != nil {
		return fmt.Errorf("failed to render description: %w", err)
	}
	fmt.Fprintln(r.out)
	fmt.Fprint(r.out, rendered)
	return nil
}

func (r *ScreenRenderer) title(s string) termenv.Style {
	return r.out.String(s).Bold().Foreground(r.out.Color("#f97316"))
}

func (r *ScreenRenderer) faint(s string) termenv.Style {
	return r.out.String(s).Faint()
}

func formatAge(years int64) string {
	switch {
	case years <= 0:
		return ""
	case years == 1:
		return "1 year"
	default:
		return fmt.Sprintf("%d years", years)
	}
}
