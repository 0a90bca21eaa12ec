package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/pdfkit/prefs"
	"github.com/lepinkainen/pdfkit/transport"
)

// Styling functions using lipgloss
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Bold(true).
			Padding(0, 2).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	ProcessingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// palette holds the theme-dependent colors
type palette struct {
	border lipgloss.Color
	text   lipgloss.Color
	accent lipgloss.Color
}

var palettes = map[prefs.Theme]palette{
	prefs.ThemeDark:  {border: "62", text: "252", accent: "86"},
	prefs.ThemeLight: {border: "25", text: "236", accent: "30"},
}

func paletteFor(theme prefs.Theme) palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[prefs.ThemeDark]
}

// panelStyle frames a region
func panelStyle(theme prefs.Theme) lipgloss.Style {
	p := paletteFor(theme)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Foreground(p.text).
		Padding(0, 1)
}

// statusStyle picks the text style for a status kind
func statusStyle(kind transport.Status) lipgloss.Style {
	switch kind {
	case transport.StatusSuccess:
		return SuccessStyle
	case transport.StatusError:
		return ErrorStyle
	case transport.StatusWarning:
		return WarningStyle
	case transport.StatusProcessing:
		return ProcessingStyle
	}
	return InfoStyle
}

// toastStyle frames a notification in its kind's color
func toastStyle(kind transport.Status, fading bool) lipgloss.Style {
	color := statusStyle(kind).GetForeground()
	s := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(color).
		Padding(0, 2)
	if fading {
		s = s.Faint(true)
	}
	return s
}

func kindIcon(kind transport.Status) string {
	switch kind {
	case transport.StatusSuccess:
		return "✅"
	case transport.StatusError:
		return "❌"
	case transport.StatusWarning:
		return "⚠️"
	case transport.StatusProcessing:
		return "🔄"
	}
	return "ℹ️"
}
