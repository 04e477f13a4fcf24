// Package picker is the interactive instance chooser: a small bubbletea list
// that returns the index of the chosen label.
package picker

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
)

// Model is the bubbletea model for one selection prompt.
type Model struct {
	prompt   string
	labels   []string
	cursor   int
	chosen   int
	quitting bool
	width    int
}

// NewModel creates a model with the cursor on the first label.
func NewModel(prompt string, labels []string) Model {
	return Model{prompt: prompt, labels: labels, chosen: -1}
}

// Chosen returns the selected index, or -1 when the prompt was dismissed.
func (m Model) Chosen() int {
	return m.chosen
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "up", "k", "shift+tab":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j", "tab":
			if m.cursor < len(m.labels)-1 {
				m.cursor++
			}

		case "home", "g":
			m.cursor = 0

		case "end", "G":
			m.cursor = max(0, len(m.labels)-1)

		case "enter":
			if len(m.labels) > 0 {
				m.chosen = m.cursor
			}
			m.quitting = true
			return m, tea.Quit

		default:
			// 1-9 choose directly.
			if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.labels) && n <= 9 {
				m.cursor = n - 1
				m.chosen = m.cursor
				m.quitting = true
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}
