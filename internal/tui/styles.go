package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/qazzerep/internal/model"
)

// Color palette. Adaptive colors follow the theme store's background.
var (
	// Risk colors
	Danger  = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}
	Warning = lipgloss.AdaptiveColor{Light: "#B7950B", Dark: "#FFE66D"}
	Safe    = lipgloss.AdaptiveColor{Light: "#1E8449", Dark: "#95E1A3"}

	// UI colors
	Primary   = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#4ECDC4"}
	Surface   = lipgloss.AdaptiveColor{Light: "#E6F4F1", Dark: "#16213E"}
	Text      = lipgloss.AdaptiveColor{Light: "#111111", Dark: "#FFFFFF"}
	TextMuted = lipgloss.AdaptiveColor{Light: "#6C757D", Dark: "#888888"}
	Border    = lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#333333"}
)

// Styles
var (
	// Header bar
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	NavItemStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1)

	NavItemActiveStyle = lipgloss.NewStyle().
				Foreground(Primary).
				Bold(true).
				Underline(true).
				Padding(0, 1)

	// Main content
	ContentStyle = lipgloss.NewStyle().
			Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	// List items
	ItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	ItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	// Scores
	HighRiskStyle = lipgloss.NewStyle().Foreground(Danger).Bold(true)
	SafeStyle     = lipgloss.NewStyle().Foreground(Safe).Bold(true)
	NoticeStyle   = lipgloss.NewStyle().Foreground(Safe)
	ErrorStyle    = lipgloss.NewStyle().Foreground(Danger)
	SpinnerStyle  = lipgloss.NewStyle().Foreground(Primary)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Modals and panes
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// OriginalityStyle is red below the risk threshold
func OriginalityStyle(c model.Comparison) lipgloss.Style {
	if c.HighRisk() {
		return HighRiskStyle
	}
	return SafeStyle
}

// AIStyle is red when the AI probability is above the threshold
func AIStyle(d model.Document) lipgloss.Style {
	if d.AIHighRisk() {
		return HighRiskStyle
	}
	return SafeStyle
}
