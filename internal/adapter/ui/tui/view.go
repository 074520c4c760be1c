package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tapedeck-audio/tapedeck/internal/domain"
)

const panelWidth = 64

// barGlyphs map a bar height fraction to a unicode block character.
var barGlyphs = []rune("▁▂▃▄▅▆▇█")

// View renders the full TUI frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	t := themes[m.theme]
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(1, 2).
		Width(panelWidth + 4)

	sections := []string{
		m.renderTitle(t),
		"",
		m.renderCassettePanel(t),
		"",
		m.renderSpectrum(t),
		m.renderStatus(t),
		m.renderVolume(t),
		"",
		m.renderBrowser(t),
		"",
		m.renderFooter(t),
	}

	if m.pickingDir {
		sections = append(sections, "", m.renderDirPrompt(t))
	}
	if m.showKeys {
		sections = append(sections, "", m.renderShortcuts(t))
	}
	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		sections = append(sections, "", errStyle.Render(fmt.Sprintf("error: %v", m.err)))
	}

	return frame.Render(strings.Join(sections, "\n"))
}

func (m Model) renderTitle(t Theme) string {
	title := lipgloss.NewStyle().Foreground(t.Title).Bold(true)
	dim := lipgloss.NewStyle().Foreground(t.Dim)
	return title.Render("▶ T A P E D E C K") + "  " +
		dim.Render("theme:"+t.Name)
}

func (m Model) renderCassettePanel(t Theme) string {
	snap, track := m.playback.Snapshot()

	title := "no tape loaded"
	if track != nil {
		title = track.DisplayTitle()
	}

	return renderCassette(title, m.wheelFrame, snap.Status == domain.StatusPlaying, t)
}

func (m Model) renderSpectrum(t Theme) string {
	bars := m.analyzer.SpectrumBars()
	hue := m.analyzer.RainbowHue()

	var b strings.Builder
	for i, v := range bars {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		idx := int(v * float64(len(barGlyphs)-1))
		barHue := hue + float64(i)*360.0/float64(len(bars))
		for barHue >= 360 {
			barHue -= 360
		}
		style := lipgloss.NewStyle().Foreground(t.barColor(v, m.rainbow, barHue))
		b.WriteString(style.Render(string(barGlyphs[idx])))
		b.WriteString(style.Render(string(barGlyphs[idx])))
	}
	return b.String()
}

func (m Model) renderStatus(t Theme) string {
	snap, track := m.playback.Snapshot()

	text := lipgloss.NewStyle().Foreground(t.Text)
	dim := lipgloss.NewStyle().Foreground(t.Dim)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	pos := formatDuration(snap.Position)
	dur := formatDuration(snap.Duration)

	var status string
	switch snap.Status {
	case domain.StatusPlaying:
		status = accent.Render("▶ playing")
	case domain.StatusPaused:
		status = text.Render("⏸ paused")
	case domain.StatusLoading:
		status = dim.Render("… loading")
	case domain.StatusEnded:
		status = dim.Render("⏹ ended")
	case domain.StatusFailed:
		status = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗ failed")
	default:
		status = dim.Render("⏹ idle")
	}

	artist := ""
	if track != nil && track.Artist != domain.UnknownArtist {
		artist = dim.Render(" · " + track.Artist)
	}

	left := text.Render(pos+" / "+dur) + artist
	gap := panelWidth - lipgloss.Width(left) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + status
}

func (m Model) renderVolume(t Theme) string {
	vol := m.playback.Volume()

	const barW = 20
	filled := int(vol * barW)
	if filled > barW {
		filled = barW
	}

	accent := lipgloss.NewStyle().Foreground(t.Accent)
	dim := lipgloss.NewStyle().Foreground(t.Dim)
	label := lipgloss.NewStyle().Foreground(t.Text).Bold(true)

	bar := accent.Render(strings.Repeat("█", filled)) +
		dim.Render(strings.Repeat("░", barW-filled))
	return label.Render("vol ") + bar + dim.Render(fmt.Sprintf(" %3.0f%%", vol*100))
}

// renderBrowser shows the album under the cursor and a track window
// around the cursor position.
func (m Model) renderBrowser(t Theme) string {
	dim := lipgloss.NewStyle().Foreground(t.Dim)

	if m.scanning {
		return dim.Render("scanning…")
	}
	if m.library.IsEmpty() {
		return dim.Render("library empty — press d to pick a music directory")
	}

	album, err := m.library.CurrentAlbum()
	if err != nil {
		return dim.Render("library empty")
	}
	_, trackIdx := m.library.CurrentIndices()

	text := lipgloss.NewStyle().Foreground(t.Text)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	lines := []string{dim.Render("── ") + text.Render(album.DisplayName()) + dim.Render(" ──")}

	const visible = 5
	start := trackIdx - visible/2
	if start+visible > len(album.Tracks) {
		start = len(album.Tracks) - visible
	}
	if start < 0 {
		start = 0
	}
	end := start + visible
	if end > len(album.Tracks) {
		end = len(album.Tracks)
	}

	for i := start; i < end; i++ {
		name := album.Tracks[i].DisplayTitle()
		runes := []rune(name)
		if len(runes) > panelWidth-8 {
			name = string(runes[:panelWidth-9]) + "…"
		}
		line := fmt.Sprintf("  %2d. %s", i+1, name)
		if i == trackIdx {
			lines = append(lines, accent.Render("▸"+line[1:]))
		} else {
			lines = append(lines, text.Render(line))
		}
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderFooter(t Theme) string {
	dim := lipgloss.NewStyle().Foreground(t.Dim)
	return dim.Render("[space]play/pause [←→]track [↑↓]album [s]keys [ctrl+q]quit")
}

func (m Model) renderDirPrompt(t Theme) string {
	accent := lipgloss.NewStyle().Foreground(t.Accent)
	return accent.Render("directory: ") +
		lipgloss.NewStyle().Foreground(t.Text).Render(m.dirInput+"▏")
}

func (m Model) renderShortcuts(t Theme) string {
	dim := lipgloss.NewStyle().Foreground(t.Dim)
	text := lipgloss.NewStyle().Foreground(t.Text)

	rows := []struct{ key, action string }{
		{"space", "play / pause"},
		{"enter", "play selected track"},
		{"← / →", "previous / next track"},
		{"↑ / ↓", "previous / next album"},
		{"+ / -", "volume up / down"},
		{"t", "cycle theme"},
		{"r", "toggle rainbow spectrum"},
		{"d", "choose music directory"},
		{"s", "toggle this overlay"},
		{"ctrl+q", "quit"},
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, dim.Render("── shortcuts ──"))
	for _, r := range rows {
		lines = append(lines, dim.Render(fmt.Sprintf("  %-8s", r.key))+text.Render(r.action))
	}
	return strings.Join(lines, "\n")
}

func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
