// Package ports define repository interfaces for catalog storage abstraction.
package ports

import (
	"github.com/tapedeck-audio/tapedeck/internal/domain"
)

// LibraryRepository holds the scanned music catalog.
// The catalog is replaced wholesale by a scan and read by navigation and the UI.
//
// Thread-safety: Implementations must be thread-safe.
type LibraryRepository interface {
	// Replace swaps the entire catalog for the given albums.
	Replace(albums []domain.Album)

	// Albums returns all albums in display order.
	// The returned slice must not be mutated by callers.
	Albums() []domain.Album

	// Album returns the album at the given index.
	// Returns domain.ErrInvalidIndex if the index is out of bounds.
	Album(index int) (domain.Album, error)

	// Track returns the track at the given album/track indices.
	// Returns domain.ErrInvalidIndex if either index is out of bounds.
	Track(albumIndex, trackIndex int) (domain.MusicTrack, error)

	// AlbumCount returns the number of albums in the catalog.
	AlbumCount() int

	// TrackCount returns the number of tracks in the album at the given index,
	// or 0 if the index is out of bounds.
	TrackCount(albumIndex int) int

	// IsEmpty returns true when the catalog holds no albums.
	IsEmpty() bool
}
