package tui

import "github.com/charmbracelet/lipgloss"

// Palette. Each color carries a light and a dark terminal variant.
var (
	colorPrimary   = lipgloss.AdaptiveColor{Light: "#9333EA", Dark: "#9333EA"}
	colorTertiary  = lipgloss.AdaptiveColor{Light: "#65A30D", Dark: "#8CEB34"}
	colorHighlight = lipgloss.AdaptiveColor{Light: "#7E22CE", Dark: "#C084FC"}
	colorText      = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#F3F4F6"}
	colorMuted     = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	colorBorder    = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#374151"}
	colorAccent    = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#FF6B6B"}
	colorSuccess   = lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#2ECC71"}
	colorWarning   = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F39C12"}
	colorError     = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#E74C3C"}
)

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func bordered(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c).
		Padding(1, 2)
}

var (
	activeTabStyle = fg(colorPrimary).
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)
	inactiveTabStyle = fg(colorMuted).Padding(0, 2)

	panelStyle       = bordered(colorBorder)
	activePanelStyle = bordered(colorPrimary)

	streakStyle = fg(colorPrimary).Bold(true).Align(lipgloss.Center)

	// Calendar dots follow the entry: solo entries use the tertiary color.
	dotStyle     = fg(colorPrimary)
	soloDotStyle = fg(colorTertiary)
	todayStyle   = fg(colorHighlight).Bold(true).Underline(true)

	titleStyle     = fg(colorText).Bold(true)
	subtitleStyle  = fg(colorMuted)
	accentStyle    = fg(colorAccent)
	successStyle   = fg(colorSuccess)
	warningStyle   = fg(colorWarning)
	errorStyle     = fg(colorError)
	mutedStyle     = fg(colorMuted)
	highlightStyle = fg(colorHighlight)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = fg(colorMuted).Padding(0, 1)

	selectedItemStyle = fg(colorPrimary).Bold(true)
	normalItemStyle   = fg(colorText)
)
