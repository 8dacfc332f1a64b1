package cli

import (
	"fmt"
	"strings"
	"time"

	"glslreflect/internal/core/app"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Width(12)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

func renderSummary(res *app.Result) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("glslreflect: "+res.Path) + "\n")

	rows := []struct {
		label string
		value int
	}{
		{"structs", res.Stats.Structs},
		{"members", res.Stats.Members},
		{"functions", res.Stats.Functions},
		{"parameters", res.Stats.Parameters},
		{"files", res.Stats.Files},
	}
	for _, row := range rows {
		b.WriteString("  " + labelStyle.Render(row.label) + countStyle.Render(fmt.Sprintf("%d", row.value)) + "\n")
	}

	status := fmt.Sprintf("run %s in %s", res.RunID, res.Duration.Round(time.Microsecond))
	if res.CacheHit {
		status += " (cached)"
	}
	b.WriteString("  " + statusStyle.Render(status) + "\n")
	return b.String()
}
