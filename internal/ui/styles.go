package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
	Label  lipgloss.Style
	Good   lipgloss.Style
	Bad    lipgloss.Style
	Border lipgloss.Style
}

// NewStyles derives styles from t. The no-color theme yields styles with no
// foreground or bold attributes.
func NewStyles(t Theme) Styles {
	bold := t.Name != NoColorTheme.Name
	return Styles{
		Header: lipgloss.NewStyle().Bold(bold).Foreground(t.Accent).Padding(0, 1),
		Cell:   lipgloss.NewStyle().Padding(0, 1),
		Label:  lipgloss.NewStyle().Foreground(t.Dim),
		Good:   lipgloss.NewStyle().Foreground(t.Good),
		Bad:    lipgloss.NewStyle().Foreground(t.Bad).Bold(bold),
		Border: lipgloss.NewStyle().Foreground(t.Border),
	}
}

// CurrentStyles returns the styles of the active theme.
func CurrentStyles() Styles { return NewStyles(GetCurrentTheme()) }

// RenderTable renders rows under headers with a rounded border in the
// active theme.
func RenderTable(headers []string, rows [][]string) string {
	s := CurrentStyles()
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header
			}
			return s.Cell
		})
	return t.Render()
}
