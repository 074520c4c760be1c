package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// wheelFrames are the spinner glyphs for the cassette reels. The frame
// advances once per tick while a track plays.
var wheelFrames = []rune{'|', '/', '-', '\\'}

// renderCassette draws the cassette shell with the track title on the
// label and spinning reels. The reels only turn while playing.
func renderCassette(title string, frame int, playing bool, t Theme) string {
	wheel := wheelFrames[0]
	if playing {
		wheel = wheelFrames[frame%len(wheelFrames)]
	}

	label := truncatePad(title, 24)

	body := lipgloss.NewStyle().Foreground(t.Text)
	reel := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	tape := lipgloss.NewStyle().Foreground(t.Dim)

	lines := []string{
		body.Render(" ╭──────────────────────────────╮"),
		body.Render(" │ ") + tape.Render("┌────────────────────────┐") + body.Render(" │"),
		body.Render(" │ ") + tape.Render("│") + body.Render(label) + tape.Render("│") + body.Render(" │"),
		body.Render(" │ ") + tape.Render("└────────────────────────┘") + body.Render(" │"),
		body.Render(" │   ") + reel.Render(fmt.Sprintf("(%c)", wheel)) + tape.Render("════════════════") + reel.Render(fmt.Sprintf("(%c)", wheel)) + body.Render("   │"),
		body.Render(" │      ──────────────────      │"),
		body.Render(" ╰─────┐  ┌──────────┐  ┌──────╯"),
		body.Render("       └──┘          └──┘"),
	}

	return strings.Join(lines, "\n")
}

// truncatePad fits s into exactly width runes, centering short strings
// and ellipsizing long ones.
func truncatePad(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width-1]) + "…"
	}
	pad := width - len(runes)
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
