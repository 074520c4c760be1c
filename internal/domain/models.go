// Package domain contains core business models and logic with no external dependencies.
// This package defines the fundamental entities of the tapedeck music player.
package domain

import (
	"fmt"
	"sort"
	"time"
)

// MusicTrack represents a single audio track with its metadata.
// This is the core domain model for individual music files.
type MusicTrack struct {
	// FilePath is the absolute path to the audio file on the filesystem
	FilePath string

	// Title is the song title (from metadata or filename)
	Title string

	// Artist is the performing artist name
	Artist string

	// Album is the album name
	Album string

	// TrackNumber is the track number on the album (0 if unknown)
	TrackNumber int

	// Duration is the total length of the track (zero until determined on load)
	Duration time.Duration

	// FileFormat is the lowercase file extension without the dot (mp3, flac, ...)
	FileFormat string
}

// DisplayTitle returns the title prefixed with the track number when known.
func (t MusicTrack) DisplayTitle() string {
	if t.TrackNumber > 0 {
		return fmt.Sprintf("%d. %s", t.TrackNumber, t.Title)
	}
	return t.Title
}

// Album represents a group of tracks sharing the same artist and album name.
type Album struct {
	// Name is the album name
	Name string

	// Artist is the album artist
	Artist string

	// Tracks is the track list, kept sorted by track number
	Tracks []MusicTrack
}

// AddTrack appends a track and re-sorts the list by track number.
func (a *Album) AddTrack(track MusicTrack) {
	a.Tracks = append(a.Tracks, track)
	sort.SliceStable(a.Tracks, func(i, j int) bool {
		return a.Tracks[i].TrackNumber < a.Tracks[j].TrackNumber
	})
}

// DisplayName returns "artist - name", or just the name for unknown artists.
func (a Album) DisplayName() string {
	if a.Artist != UnknownArtist {
		return fmt.Sprintf("%s - %s", a.Artist, a.Name)
	}
	return a.Name
}

// Fallback values used when a file carries no usable tags.
const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// PlaybackStatus represents the current playback state.
type PlaybackStatus int

const (
	// StatusIdle indicates no track has been loaded yet
	StatusIdle PlaybackStatus = iota

	// StatusLoading indicates a track is being probed and set up
	StatusLoading

	// StatusPlaying indicates the decode loop is producing samples
	StatusPlaying

	// StatusPaused indicates the decode loop is parked on its pause poll
	StatusPaused

	// StatusEnded indicates the stream reached its natural end
	StatusEnded

	// StatusFailed indicates the decode loop terminated on an error
	StatusFailed
)

// String returns a human-readable representation of the playback status.
func (s PlaybackStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusEnded:
		return "ended"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PlaybackSnapshot is an atomic multi-field view of the playback state.
// All fields are captured under a single lock so they are mutually consistent.
type PlaybackSnapshot struct {
	// Status is the tagged playback state
	Status PlaybackStatus

	// Position is the current decode position within the track
	Position time.Duration

	// Duration is the total track length (zero if the container did not know it)
	Duration time.Duration

	// Volume is the current volume level (0.0 to 1.0)
	Volume float64

	// Err carries the failure reason when Status is StatusFailed, nil otherwise
	Err error
}

// ScanProgress represents the progress of a music library scan operation.
type ScanProgress struct {
	// CurrentFile is the file currently being scanned
	CurrentFile string

	// FilesScanned is the number of files processed so far
	FilesScanned int

	// TracksFound is the number of valid music tracks found
	TracksFound int
}
