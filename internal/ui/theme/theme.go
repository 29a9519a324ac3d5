// Package theme holds the terminal styles the CLI renders results with.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Calm      = lipgloss.Color("#38BDF8") // Sky
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Label = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Card frames a block of generated text.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 1)

// Outcome styles
var (
	Good = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Warn = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	Bad = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Tier styles a fallback tier: primary is good, secondary a warning and the
// static tier bad. Negative tiers (no chain ran) are dim.
func Tier(tier int) lipgloss.Style {
	switch {
	case tier < 0:
		return Hint
	case tier == 0:
		return Good
	case tier == 1:
		return Warn
	}
	return Bad
}

// Emotion styles an emotion label: negative affect warns, boredom is dim
// and curiosity or engagement reads as good.
func Emotion(label string) lipgloss.Style {
	switch label {
	case "frustration", "confusion":
		return Warn
	case "anxiety":
		return lipgloss.NewStyle().Foreground(Calm).Bold(true)
	case "boredom":
		return Hint
	case "curiosity", "engagement":
		return Good
	}
	return Body
}

// Outcome styles an audit outcome.
func Outcome(outcome string) lipgloss.Style {
	switch outcome {
	case "ok":
		return Good
	case "degraded":
		return Warn
	}
	return Bad
}
