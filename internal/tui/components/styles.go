// Package components provides reusable UI pieces for the board view.
package components

import (
	"charm.land/lipgloss/v2"
)

// Palette
const (
	ColorBackground  = "#1e1e2e"
	ColorSubtle      = "#6c7086"
	ColorTitle       = "#cdd6f4"
	ColorBorder      = "#45475a"
	ColorSelected    = "#89b4fa"
	ColorCardBg      = "#313244"
	ColorCardGrabbed = "#45475a"
	ColorWarning     = "#f9e2af"
	ColorExceeded    = "#f38ba8"
	ColorOK          = "#a6e3a1"
	ColorBlocked     = "#f38ba8"
)

// Column and card dimensions
const (
	ColumnWidth    = 32
	CardWidth      = 28
	CardHeight     = 4
	columnOverhead = 5
)

// These are cached to avoid recomputing on every redraw.
var (
	// ColumnStyle defines the appearance of board columns
	ColumnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorBorder)).
			PaddingLeft(1).
			PaddingRight(1).
			Width(ColumnWidth)

	// CardStyle defines the appearance of story cards
	CardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color(ColorBorder)).
			Width(CardWidth)

	// TitleStyle defines column headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorTitle))

	// SubtleStyle is for secondary text
	SubtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSubtle))

	// WarnBadgeStyle marks columns close to their WIP limit
	WarnBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorBackground)).
			Background(lipgloss.Color(ColorWarning)).
			Bold(true).
			Padding(0, 1)

	// ExceededBadgeStyle marks columns over their WIP limit
	ExceededBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorBackground)).
				Background(lipgloss.Color(ColorExceeded)).
				Bold(true).
				Padding(0, 1)

	// CountBadgeStyle is the normal occupancy badge
	CountBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSubtle))

	// StatusBarStyle defines the bottom status bar
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(ColorCardBg)).
			Foreground(lipgloss.Color(ColorTitle)).
			Padding(0, 1)

	// InfoBannerStyle shows transient notifications
	InfoBannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorBackground)).
			Background(lipgloss.Color(ColorOK)).
			Bold(true).
			Padding(0, 1)

	// WarningBannerStyle shows rejected moves
	WarningBannerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorBackground)).
				Background(lipgloss.Color(ColorWarning)).
				Bold(true).
				Padding(0, 1)

	// ErrorBannerStyle shows rollbacks and daemon failures
	ErrorBannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorBackground)).
			Background(lipgloss.Color(ColorExceeded)).
			Bold(true).
			Padding(0, 1)

	// DetailBoxStyle frames the story detail overlay
	DetailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorSelected)).
			Padding(1, 2)

	// BlockedStyle is the ! indicator on blocked stories
	BlockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorBlocked)).
			Bold(true)
)
