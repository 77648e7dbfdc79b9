package ui

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors used by the dashboard.
type Theme struct {
	Name string

	Text   string
	Muted  string
	Faint  string
	Accent string

	Success string
	Warning string
	Danger  string

	Solar   string
	Grid    string
	Battery string
}

// Styles returns pre-built lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		FaintText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),
		Accent:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),

		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),

		Solar:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Solar)).Bold(true),
		Grid:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Grid)),
		Battery: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Battery)),

		Label: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)).Width(10),
	}
}

// Styles contains pre-built lipgloss styles for the theme.
type Styles struct {
	Text      lipgloss.Style
	MutedText lipgloss.Style
	FaintText lipgloss.Style
	Accent    lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Danger  lipgloss.Style

	Solar   lipgloss.Style
	Grid    lipgloss.Style
	Battery lipgloss.Style

	Label lipgloss.Style
}

// LevelStyle colors a percentage by how healthy it is.
func (s Styles) LevelStyle(percent float64) lipgloss.Style {
	switch {
	case percent > 60:
		return s.Success
	case percent > 30:
		return s.Warning
	default:
		return s.Danger
	}
}

// DefaultTheme is the only palette for now.
func DefaultTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name: "Nightfox",

		Text:   "#cdcecf", // fg1
		Muted:  "#738091", // comment
		Faint:  "#71839b", // fg3
		Accent: "#719cd6", // blue

		Success: "#81b29a", // green
		Warning: "#dbc074", // yellow
		Danger:  "#c94f6d", // red

		Solar:   "#dbc074", // yellow
		Grid:    "#719cd6", // blue
		Battery: "#81b29a", // green
	}
}
