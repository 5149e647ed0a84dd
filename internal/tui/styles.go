// internal/tui/styles.go
package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss style for each kind of cell and the status bar.
type Styles struct {
	List        lipgloss.Style
	Item        lipgloss.Style
	Disabled    lipgloss.Style
	Placeholder lipgloss.Style
	Dragging    lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
}

var (
	colorBase     = lipgloss.Color("#1e1e2e")
	colorSurface  = lipgloss.Color("#313244")
	colorOverlay  = lipgloss.Color("#6c7086")
	colorText     = lipgloss.Color("#cdd6f4")
	colorBlue     = lipgloss.Color("#89b4fa")
	colorPeach    = lipgloss.Color("#fab387")
	colorRed      = lipgloss.Color("#f38ba8")
	colorSubtext0 = lipgloss.Color("#a6adc8")
)

// DefaultStyles returns the stock palette.
func DefaultStyles() Styles {
	return Styles{
		List:        lipgloss.NewStyle().Foreground(colorOverlay).Background(colorBase),
		Item:        lipgloss.NewStyle().Foreground(colorText).Background(colorSurface),
		Disabled:    lipgloss.NewStyle().Foreground(colorOverlay).Background(colorSurface).Faint(true),
		Placeholder: lipgloss.NewStyle().Foreground(colorBlue).Background(colorBase),
		Dragging:    lipgloss.NewStyle().Foreground(colorBase).Background(colorPeach).Bold(true),
		Status:      lipgloss.NewStyle().Foreground(colorSubtext0),
		Error:       lipgloss.NewStyle().Foreground(colorRed),
	}
}

func (s Styles) style(k cellKind) lipgloss.Style {
	switch k {
	case kindList:
		return s.List
	case kindItem:
		return s.Item
	case kindDisabled:
		return s.Disabled
	case kindPlaceholder:
		return s.Placeholder
	case kindDragging:
		return s.Dragging
	}
	return lipgloss.NewStyle()
}
