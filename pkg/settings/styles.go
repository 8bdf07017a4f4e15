package settings

import "github.com/charmbracelet/lipgloss"

var (
	// Base colors
	primaryColor = lipgloss.Color("212")
	mutedColor   = lipgloss.Color("241")
	successColor = lipgloss.Color("42")
	warningColor = lipgloss.Color("214")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			MarginTop(1)

	// Selected row style - inverted colors for visibility
	selectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("237")).
				Foreground(lipgloss.Color("255"))

	subtleStyle = lipgloss.NewStyle().Foreground(mutedColor)
	statusStyle = lipgloss.NewStyle().Foreground(successColor)

	// Value styles by flag kind
	onStyle     = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	offStyle    = lipgloss.NewStyle().Foreground(mutedColor)
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	pickerStyle = lipgloss.NewStyle().Foreground(primaryColor)
	groupStyle  = lipgloss.NewStyle().Foreground(warningColor)

	activeMarker   = lipgloss.NewStyle().Foreground(successColor).Render("●")
	inactiveMarker = subtleStyle.Render("○")

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)
