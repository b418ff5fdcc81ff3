package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/fct/pkg/core/ifs"
)

var (
	pickerHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	pickerBorderStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// kindPicker is the bubbletea model for choosing a fractal kind.
type kindPicker struct {
	models   []*ifs.Model
	cursor   int
	selected string
}

func newKindPicker(models []*ifs.Model) kindPicker {
	return kindPicker{models: models}
}

func (m kindPicker) Init() tea.Cmd { return nil }

func (m kindPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.models)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.models) > 0 {
			m.selected = m.models[m.cursor].Kind
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m kindPicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Fractal"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.models))
	for i, model := range m.models {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows[i] = append([]string{cursor}, fractalRow(model)...)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(pickerBorderStyle).
		Headers("", "Kind", "Name", "Maps", "Probabilities").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return pickerHeaderStyle
			case row == m.cursor:
				return StyleHighlight.Bold(true)
			default:
				return StyleDim
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.models))))
	return b.String()
}

// fractalRow renders kind, name, map count and map probabilities.
func fractalRow(m *ifs.Model) []string {
	probs := m.Probabilities()
	ps := make([]string, len(probs))
	for i, p := range probs {
		ps[i] = fmt.Sprintf("%.2f", p)
	}
	return []string{m.Kind, m.Name, fmt.Sprint(m.Len()), strings.Join(ps, " ")}
}

// interactive reports whether stdin and stdout are terminals.
func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// pickKind runs the picker and returns the chosen kind, or "" if the user quit.
func pickKind(models []*ifs.Model) (string, error) {
	final, err := tea.NewProgram(newKindPicker(models)).Run()
	if err != nil {
		return "", fmt.Errorf("fractal picker: %w", err)
	}
	return final.(kindPicker).selected, nil
}
