package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#5B41DF", Dark: "#7B61FF"}).
			MarginBottom(1)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"})

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#333333"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"})

	indexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#008866", Dark: "#00D4AA"})

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#555555"}).
			MarginTop(1)
)

// --- View ---

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.prompt))
	b.WriteString("\n")

	for i, label := range m.labels {
		label = truncate(label, m.width-6)
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		num := " "
		if i < 9 {
			num = fmt.Sprint(i + 1)
		}
		line := fmt.Sprintf("%s%s %s", marker, indexStyle.Render(num), label)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		} else {
			line = itemStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("up/down:move  1-9:choose  enter:select  esc:cancel"))
	b.WriteString("\n")
	return b.String()
}

// truncate shortens s to at most width runes. Widths too small to be
// useful leave s unchanged.
func truncate(s string, width int) string {
	if width < 10 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
