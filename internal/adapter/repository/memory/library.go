// Package memory provides in-memory implementations of the repository ports.
package memory

import (
	"sync"

	"github.com/tapedeck-audio/tapedeck/internal/domain"
	"github.com/tapedeck-audio/tapedeck/internal/ports"
)

// LibraryRepository holds the scanned music catalog in memory.
// The catalog is replaced wholesale by a scan, so there is no incremental
// mutation surface to keep consistent.
//
// Thread-safety: This implementation is thread-safe.
type LibraryRepository struct {
	mu     sync.RWMutex
	albums []domain.Album
}

// NewLibraryRepository creates an empty library repository.
func NewLibraryRepository() *LibraryRepository {
	return &LibraryRepository{}
}

// Replace swaps the entire catalog for the given albums.
func (r *LibraryRepository) Replace(albums []domain.Album) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.albums = albums
}

// Albums returns all albums in display order.
func (r *LibraryRepository) Albums() []domain.Album {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.albums
}

// Album returns the album at the given index.
func (r *LibraryRepository) Album(index int) (domain.Album, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.albums) {
		return domain.Album{}, domain.ErrInvalidIndex
	}
	return r.albums[index], nil
}

// Track returns the track at the given album/track indices.
func (r *LibraryRepository) Track(albumIndex, trackIndex int) (domain.MusicTrack, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if albumIndex < 0 || albumIndex >= len(r.albums) {
		return domain.MusicTrack{}, domain.ErrInvalidIndex
	}
	tracks := r.albums[albumIndex].Tracks
	if trackIndex < 0 || trackIndex >= len(tracks) {
		return domain.MusicTrack{}, domain.ErrInvalidIndex
	}
	return tracks[trackIndex], nil
}

// AlbumCount returns the number of albums in the catalog.
func (r *LibraryRepository) AlbumCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.albums)
}

// TrackCount returns the number of tracks in the album at the given index.
func (r *LibraryRepository) TrackCount(albumIndex int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if albumIndex < 0 || albumIndex >= len(r.albums) {
		return 0
	}
	return len(r.albums[albumIndex].Tracks)
}

// IsEmpty returns true when the catalog holds no albums.
func (r *LibraryRepository) IsEmpty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.albums) == 0
}

// Verify that LibraryRepository implements the LibraryRepository port
var _ ports.LibraryRepository = (*LibraryRepository)(nil)
