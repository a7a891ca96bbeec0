package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/recolor/pkg/palette"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// SchemePickerModel - Interactive scheme selection
// =============================================================================

// SchemePickerModel is the bubbletea model for picking a color scheme.
type SchemePickerModel struct {
	Theme    string
	Slots    []string
	Schemes  []palette.Scheme
	Cursor   int
	Selected *palette.Scheme
}

// NewSchemePickerModel creates a picker with the cursor on active, the name
// of the scheme currently in use ("" for none).
func NewSchemePickerModel(theme string, slots []string, schemes []palette.Scheme, active string) SchemePickerModel {
	m := SchemePickerModel{Theme: theme, Slots: slots, Schemes: schemes}
	for i, s := range schemes {
		if s.Name == active {
			m.Cursor = i
		}
	}
	return m
}

func (m SchemePickerModel) Init() tea.Cmd {
	return nil
}

func (m SchemePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Schemes)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Schemes) > 0 {
				s := m.Schemes[m.Cursor]
				m.Selected = &s
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SchemePickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Color Scheme for " + m.Theme))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ apply  q quit"))
	b.WriteString("\n\n")

	for i, s := range m.Schemes {
		cursor, style := "  ", listNormalStyle
		if i == m.Cursor {
			cursor, style = "▸ ", listSelectedStyle
		}
		label := s.Label
		if label == "" {
			label = s.Name
		}
		b.WriteString(cursor + style.Width(24).Render(label) + " " + swatches(s.Palette, m.Slots) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Schemes))))
	return b.String()
}

// swatches renders one color block per slot.
func swatches(p *palette.Palette, slots []string) string {
	var b strings.Builder
	for _, slot := range slots {
		hex, _ := p.Get(slot)
		if hex == "" {
			b.WriteString("  ")
			continue
		}
		b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  "))
	}
	return b.String()
}

// schemeTable renders schemes as a table with one column per slot.
func schemeTable(slots []string, schemes []palette.Scheme, active string) string {
	headers := append([]string{"", "Scheme"}, slots...)
	rows := make([][]string, 0, len(schemes))
	for _, s := range schemes {
		mark := ""
		if s.Name == active {
			mark = "●"
		}
		row := []string{mark, s.Name}
		for _, slot := range slots {
			hex, _ := s.Palette.Get(slot)
			row = append(row, hex)
		}
		rows = append(rows, row)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col >= 2 && row >= 0 && row < len(rows) {
				if hex := rows[row][col]; hex != "" {
					return cellStyle.Foreground(lipgloss.Color(hex))
				}
			}
			if col == 0 {
				return cellStyle.Foreground(colorGreen)
			}
			return cellStyle
		}).
		Render()
}
