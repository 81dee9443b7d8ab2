package ui

import "github.com/charmbracelet/lipgloss"

const (
	colorAccent  = lipgloss.Color("#AD8CFF")
	colorPick    = lipgloss.Color("#00E6B8")
	colorSuccess = lipgloss.Color("#3DDC97")
	colorError   = lipgloss.Color("#FF5C5C")
	colorSubtle  = lipgloss.Color("#999999")
	colorHelp    = lipgloss.Color("#777777")
)

type Styles struct {
	Header       lipgloss.Style
	Subtitle     lipgloss.Style
	Question     lipgloss.Style
	ListSelected lipgloss.Style
	Checked      lipgloss.Style
	Help         lipgloss.Style
	Footer       lipgloss.Style
	Accent       lipgloss.Style
	Error        lipgloss.Style
	Success      lipgloss.Style
	Thinking     lipgloss.Style
	Status       lipgloss.Style
	StatusRight  lipgloss.Style
	Container    lipgloss.Style
	Subtle       lipgloss.Style
}

func NewStyles() Styles {
	status := lipgloss.NewStyle().
		Background(colorAccent).
		Foreground(lipgloss.Color("#FFFFFF")).
		Padding(0, 1)

	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(colorSubtle).
			Padding(0, 1),

		Question: lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true),

		ListSelected: lipgloss.NewStyle().
			Foreground(colorPick).
			Bold(true),

		Checked: lipgloss.NewStyle().
			Foreground(colorSuccess),

		Help: lipgloss.NewStyle().
			Foreground(colorHelp),

		Footer: lipgloss.NewStyle().
			Foreground(colorHelp).
			Faint(true),

		Accent: lipgloss.NewStyle().
			Foreground(colorAccent),

		Error: lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true),

		Thinking: lipgloss.NewStyle().
			Foreground(colorSuccess),

		Status: status,

		StatusRight: lipgloss.NewStyle().Inherit(status).Align(lipgloss.Right),

		Container: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1),

		Subtle: lipgloss.NewStyle().
			Foreground(colorSubtle),
	}
}
