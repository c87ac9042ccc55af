package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains lipgloss styles for the board
type Styles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Pane        lipgloss.Style
	ActivePane  lipgloss.Style
	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style
	Card        lipgloss.Style
	Selected    lipgloss.Style
	Deleted     lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	Warning     lipgloss.Style
	Muted       lipgloss.Style
	Key         lipgloss.Style
	Dirty       lipgloss.Style
	RewardTiers []lipgloss.Style
}

// DefaultStyles returns the default board styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		ActivePane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1),
		Tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Background(lipgloss.Color("63")).
			Foreground(lipgloss.Color("230")).
			Bold(true).
			Padding(0, 1),
		Card: lipgloss.NewStyle().
			PaddingLeft(2),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true),
		Deleted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Strikethrough(true),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")),
		Warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Key: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")),
		Dirty: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),
		// Reward tiers: <30, 30+, 50+, 70+
		RewardTiers: []lipgloss.Style{
			lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
			lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
	}
}

// rewardStyle picks the tier style for a base reward
func (s Styles) rewardStyle(reward float64) lipgloss.Style {
	switch {
	case reward >= 70:
		return s.RewardTiers[3]
	case reward >= 50:
		return s.RewardTiers[2]
	case reward >= 30:
		return s.RewardTiers[1]
	default:
		return s.RewardTiers[0]
	}
}
