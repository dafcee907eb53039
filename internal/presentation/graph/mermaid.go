package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/pawtrail/pkg/domain"
)

// transition is one edge of the navigation state machine.
type transition struct {
	from, to domain.ScreenTag
	label    string
	noop     bool
}

var transitions = []transition{
	{from: domain.TagHome, to: domain.TagDetail, label: "navigate(Detail)"},
	{from: domain.TagDetail, to: domain.TagDetail, label: "navigate(Detail)"},
	{from: domain.TagDetail, to: domain.TagHome, label: "back / navigate(Home)"},
	{from: domain.TagHome, to: domain.TagHome, label: "back", noop: true},
}

// GenerateMermaid produces a Mermaid flowchart of the navigation state machine.
// If current is not nil, its screen is highlighted and, for Detail, labelled with the dog.
func GenerateMermaid(current domain.Screen) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	sb.WriteString("    start((\"start\")) --> HOME\n")
	sb.WriteString(fmt.Sprintf("    HOME([\"%s\"])\n", domain.TagHome))

	detailLabel := string(domain.TagDetail)
	if d, ok := domain.Normalize(current).(domain.Detail); ok {
		detailLabel = fmt.Sprintf("%s <br/> %s #%d", domain.TagDetail, escapeLabel(d.Dog.Name), d.Dog.ID)
	}
	sb.WriteString(fmt.Sprintf("    DETAIL[\"%s\"]\n", detailLabel))

	for _, t := range transitions {
		arrow := fmt.Sprintf("-- \"%s\" -->", t.label)
		if t.noop {
			arrow = fmt.Sprintf("-. \"%s\" .->", t.label)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", t.from, arrow, t.to))
	}

	if screen := domain.Normalize(current); screen != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s current;\n", screen.Tag()))
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
