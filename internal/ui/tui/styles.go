package tui

import "github.com/charmbracelet/lipgloss"

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	PhaseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")).
			Padding(0, 1).
			Width(18)

	HighlightedCardStyle = CardStyle.
				BorderForeground(lipgloss.Color("#FFD700")).
				BorderStyle(lipgloss.ThickBorder())

	NameStyle = lipgloss.NewStyle().Bold(true)

	ScoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	GreetingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF8CC6")).
			Italic(true)
)

// stateStyles colours the state line of a card.
var stateStyles = map[string]lipgloss.Style{
	"intro":      lipgloss.NewStyle().Foreground(lipgloss.Color("#C77DFF")),
	"active":     lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
	"ranking":    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFEAA7")).Bold(true),
	"answering":  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFEAA7")).Bold(true),
	"eliminated": lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	"win":        lipgloss.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true),
}

func stateStyle(state string) lipgloss.Style {
	if s, ok := stateStyles[state]; ok {
		return s
	}
	return StatusStyle
}
