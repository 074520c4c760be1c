package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tapedeck-audio/tapedeck/internal/visualizer"
)

// Theme is a named color set for the TUI. The bar colors form a
// low-to-high gradient for the spectrum display.
type Theme struct {
	Name    string
	Border  lipgloss.Color
	Title   lipgloss.Color
	Text    lipgloss.Color
	Dim     lipgloss.Color
	Accent  lipgloss.Color
	BarLow  lipgloss.Color
	BarMid  lipgloss.Color
	BarHigh lipgloss.Color
}

// themes the user can cycle through with the theme key.
var themes = []Theme{
	{
		Name:    "chrome",
		Border:  lipgloss.Color("240"),
		Title:   lipgloss.Color("252"),
		Text:    lipgloss.Color("250"),
		Dim:     lipgloss.Color("240"),
		Accent:  lipgloss.Color("81"),
		BarLow:  lipgloss.Color("39"),
		BarMid:  lipgloss.Color("45"),
		BarHigh: lipgloss.Color("51"),
	},
	{
		Name:    "ferric",
		Border:  lipgloss.Color("94"),
		Title:   lipgloss.Color("214"),
		Text:    lipgloss.Color("223"),
		Dim:     lipgloss.Color("95"),
		Accent:  lipgloss.Color("208"),
		BarLow:  lipgloss.Color("130"),
		BarMid:  lipgloss.Color("208"),
		BarHigh: lipgloss.Color("220"),
	},
	{
		Name:    "neon",
		Border:  lipgloss.Color("55"),
		Title:   lipgloss.Color("201"),
		Text:    lipgloss.Color("255"),
		Dim:     lipgloss.Color("60"),
		Accent:  lipgloss.Color("213"),
		BarLow:  lipgloss.Color("93"),
		BarMid:  lipgloss.Color("165"),
		BarHigh: lipgloss.Color("201"),
	},
	{
		Name:    "forest",
		Border:  lipgloss.Color("22"),
		Title:   lipgloss.Color("114"),
		Text:    lipgloss.Color("151"),
		Dim:     lipgloss.Color("65"),
		Accent:  lipgloss.Color("120"),
		BarLow:  lipgloss.Color("28"),
		BarMid:  lipgloss.Color("70"),
		BarHigh: lipgloss.Color("118"),
	},
}

// barColor picks the gradient color for a bar of the given height
// fraction, or a hue-rotated rainbow color when rainbow mode is on.
func (t Theme) barColor(frac float64, rainbow bool, hue float64) lipgloss.Color {
	if rainbow {
		r, g, b := visualizer.HSVToRGB(hue, 1.0, 1.0)
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
	}
	switch {
	case frac > 0.66:
		return t.BarHigh
	case frac > 0.33:
		return t.BarMid
	default:
		return t.BarLow
	}
}
