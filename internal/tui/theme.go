package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset the widget uses.
const (
	colorRed      lipgloss.Color = "#f38ba8"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"
	colorPink     lipgloss.Color = "#f5c2e7"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
)

const (
	colorBrand   = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorInfo    = colorTeal
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorBrand)
	subtleStyle   = lipgloss.NewStyle().Foreground(colorSubtext0)
	faintStyle    = lipgloss.NewStyle().Foreground(colorOverlay0)
	dropzoneStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSurface1).Padding(0, 1)
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFocus).Padding(0, 1)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorBase).
			Background(colorFocus).
			Padding(0, 2).
			MarginRight(1)
	buttonDisabledStyle = lipgloss.NewStyle().
				Foreground(colorOverlay0).
				Background(colorSurface0).
				Padding(0, 2).
				MarginRight(1)

	badgeWarningStyle = lipgloss.NewStyle().Bold(true).Foreground(colorError).
				Border(lipgloss.RoundedBorder()).BorderForeground(colorError).Padding(0, 1)
	badgeNeutralStyle = lipgloss.NewStyle().Bold(true).Foreground(colorFocus).
				Border(lipgloss.RoundedBorder()).BorderForeground(colorSurface1).Padding(0, 1)

	noticeStyle      = lipgloss.NewStyle().Foreground(colorSuccess)
	noticeErrorStyle = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	statusInfoStyle  = lipgloss.NewStyle().Foreground(colorInfo)
	explainStyle     = lipgloss.NewStyle().Foreground(colorText).Italic(true)
)
