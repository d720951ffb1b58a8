package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/josephgoksu/pkghistory/models"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorBlue      = lipgloss.Color("75")

	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	StyleSectionTitle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Underline(true)

	StylePrefixError = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StylePrefixDone  = lipgloss.NewStyle().Foreground(ColorSuccess)
)

// CategoryStyle returns the accent style for a package change category.
func CategoryStyle(c models.Category) lipgloss.Style {
	switch c {
	case models.CategoryRemoved, models.CategoryAutoRemoved:
		return StyleError
	case models.CategoryInstalled, models.CategoryReinstalled:
		return StyleSuccess
	case models.CategoryUpgraded:
		return lipgloss.NewStyle().Foreground(ColorBlue)
	case models.CategoryDowngraded:
		return StyleWarning
	default:
		return StyleText
	}
}
