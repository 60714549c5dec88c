package monitor

import "github.com/charmbracelet/lipgloss"

type styles struct {
	base      lipgloss.Style
	title     lipgloss.Style
	main      lipgloss.Style
	secondary lipgloss.Style
	hint      lipgloss.Style
	warning   lipgloss.Style
	verified  lipgloss.Style
	unverify  lipgloss.Style
	active    lipgloss.Style
	upcoming  lipgloss.Style
	past      lipgloss.Style
}

func newStyles(dark bool) styles {
	fg := lipgloss.Color("#1F2937")
	dim := lipgloss.Color("#6B7280")

	if dark {
		fg = lipgloss.Color("#F9FAFB")
		dim = lipgloss.Color("#9CA3AF")
	}

	return styles{
		base:      lipgloss.NewStyle().Padding(1, 2),
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#12EAEA")),
		main:      lipgloss.NewStyle().Bold(true).Foreground(fg),
		secondary: lipgloss.NewStyle().Foreground(fg),
		hint:      lipgloss.NewStyle().Foreground(dim),
		warning:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B")),
		verified:  lipgloss.NewStyle().Foreground(lipgloss.Color("#B0DB43")),
		unverify:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		active:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#B0DB43")),
		upcoming:  lipgloss.NewStyle().Foreground(lipgloss.Color("#12EAEA")),
		past:      lipgloss.NewStyle().Foreground(dim),
	}
}
