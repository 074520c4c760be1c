// Package tui implements the terminal user interface for tapedeck.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tapedeck-audio/tapedeck/internal/domain"
	"github.com/tapedeck-audio/tapedeck/internal/service"
	"github.com/tapedeck-audio/tapedeck/internal/visualizer"
)

// tickInterval drives the render loop. Each tick drains the sample
// queue into the analyzer and advances the spectrum one step.
const tickInterval = 100 * time.Millisecond

type tickMsg time.Time

type scanDoneMsg struct{ err error }

// Model is the Bubbletea model for the tapedeck TUI.
type Model struct {
	logger   *slog.Logger
	playback *service.PlaybackService
	library  *service.LibraryService
	analyzer *visualizer.Analyzer

	theme      int
	rainbow    bool
	showKeys   bool
	pickingDir bool
	dirInput   string
	scanning   bool
	wheelFrame int
	err        error
	quitting   bool
	width      int
	height     int
}

// NewModel creates a Model wired to the playback and library services.
func NewModel(
	logger *slog.Logger,
	playback *service.PlaybackService,
	library *service.LibraryService,
) Model {
	return Model{
		logger:   logger,
		playback: playback,
		library:  library,
		analyzer: visualizer.New(),
	}
}

// Init starts the tick timer and requests the terminal size.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), tea.WindowSize())
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages: key presses, ticks, scan completion, and
// window resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		if m.quitting {
			return m, tea.Quit
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case scanDoneMsg:
		m.scanning = false
		if msg.err != nil && !errors.Is(msg.err, domain.ErrScanCancelled) {
			m.err = msg.err
		}

	case tickMsg:
		m.analyzer.AddSamples(m.playback.Samples())
		m.analyzer.UpdateSpectrum()

		snap, _ := m.playback.Snapshot()
		if snap.Status == domain.StatusPlaying {
			m.wheelFrame++
		}
		if snap.Status == domain.StatusEnded {
			m.advanceTrack()
		}
		return m, tickCmd()
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.pickingDir {
		return m.handleDirInput(msg)
	}

	switch msg.String() {
	case "ctrl+q", "ctrl+c", "q":
		m.quitting = true

	case " ", "space":
		if err := m.playback.TogglePlayback(); err != nil {
			if errors.Is(err, domain.ErrNoTrackLoaded) {
				m.playCurrent()
			} else {
				m.err = err
			}
		}

	case "right":
		if track, err := m.library.NextTrack(); err == nil {
			m.loadTrack(track)
		}

	case "left":
		if track, err := m.library.PreviousTrack(); err == nil {
			m.loadTrack(track)
		}

	case "down":
		if track, err := m.library.NextAlbum(); err == nil {
			m.loadTrack(track)
		}

	case "up":
		if track, err := m.library.PreviousAlbum(); err == nil {
			m.loadTrack(track)
		}

	case "enter":
		m.playCurrent()

	case "+", "=":
		m.playback.SetVolume(m.playback.Volume() + 0.05)

	case "-", "_":
		m.playback.SetVolume(m.playback.Volume() - 0.05)

	case "t":
		m.theme = (m.theme + 1) % len(themes)

	case "r":
		m.rainbow = !m.rainbow

	case "s":
		m.showKeys = !m.showKeys

	case "d":
		m.pickingDir = true
		m.dirInput = ""
	}

	return nil
}

// handleDirInput reads the directory-selector overlay: printable runes
// append, backspace deletes, enter scans, esc cancels.
func (m *Model) handleDirInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.pickingDir = false

	case tea.KeyEnter:
		dir := m.dirInput
		m.pickingDir = false
		if dir == "" {
			return nil
		}
		m.scanning = true
		m.err = nil
		return func() tea.Msg {
			return scanDoneMsg{err: m.library.Scan(context.Background(), dir)}
		}

	case tea.KeyBackspace:
		if len(m.dirInput) > 0 {
			runes := []rune(m.dirInput)
			m.dirInput = string(runes[:len(runes)-1])
		}

	case tea.KeyRunes:
		m.dirInput += string(msg.Runes)

	case tea.KeySpace:
		m.dirInput += " "
	}

	return nil
}

// playCurrent loads whatever track the library cursor points to.
func (m *Model) playCurrent() {
	track, err := m.library.CurrentTrack()
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidIndex) {
			m.err = err
		}
		return
	}
	m.loadTrack(track)
}

// advanceTrack moves to the next track when the current one ends.
func (m *Model) advanceTrack() {
	track, err := m.library.NextTrack()
	if err != nil {
		return
	}
	m.loadTrack(track)
}

func (m *Model) loadTrack(track domain.MusicTrack) {
	m.err = nil
	if err := m.playback.LoadTrack(track); err != nil {
		m.err = err
	}
}
