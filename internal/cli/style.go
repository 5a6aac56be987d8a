package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/cadence/internal/models"
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	MutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	CoreStyle  = lipgloss.NewStyle().Bold(true)
	OKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	ErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2)

	statusStyles = map[models.Status]lipgloss.Style{
		models.StatusPending: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		models.StatusDone:    OKStyle,
		models.StatusSnoozed: WarnStyle,
		models.StatusSkipped: MutedStyle,
	}

	modeStyles = map[models.Mode]lipgloss.Style{
		models.ModeNormal:   OKStyle,
		models.ModeBusy:     lipgloss.NewStyle().Foreground(lipgloss.Color("111")),
		models.ModeLowMood:  WarnStyle,
		models.ModeRecovery: ErrStyle,
	}
)

// StatusBadge renders a status in its color.
func StatusBadge(s models.Status) string {
	style, ok := statusStyles[s]
	if !ok {
		style = MutedStyle
	}
	return style.Render(string(s))
}

// ModeBadge renders a mode in its color.
func ModeBadge(m models.Mode) string {
	style, ok := modeStyles[m]
	if !ok {
		style = MutedStyle
	}
	return style.Render(m.DisplayText())
}
