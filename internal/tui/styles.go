package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorWhite     = lipgloss.Color("#FFFFFF")
	colorLightGray = lipgloss.Color("#CCCCCC")
	colorGray      = lipgloss.Color("#888888")
	colorDarkGray  = lipgloss.Color("#444444")
	colorPurple    = lipgloss.Color("#8524a6")
	colorGreen     = lipgloss.Color("#00FF00")
	colorYellow    = lipgloss.Color("#FFFF00")
	colorRed       = lipgloss.Color("#FF0000")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			MarginTop(1)

	statStyle = lipgloss.NewStyle().
			Foreground(colorLightGray).
			PaddingRight(2)

	onlineStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	offlineStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	promptStyle = lipgloss.NewStyle().
			Foreground(colorLightGray)

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colorGray).
			Padding(0)

	confirmStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	dangerStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDarkGray).
			Italic(true).
			MarginTop(1)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorGray).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorWhite).
		Background(colorPurple).
		Bold(false)

	return s
}

const logo = `
  ▄▀█ █▀█ █▀▀ █░█ █░█ █ ▀█   █▀ ▀█▀ █░█ █▀▄ █ █▀█
  █▀█ █▀▄ █▄▄ █▀█ ▀▄▀ █ █▄   ▄█ ░█░ █▄█ █▄▀ █ █▄█
`
