package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapedeck-audio/tapedeck/internal/domain"
)

func testAlbums() []domain.Album {
	return []domain.Album{
		{
			Name:   "First Album",
			Artist: "Artist A",
			Tracks: []domain.MusicTrack{
				{FilePath: "/music/a1.mp3", Title: "A1", TrackNumber: 1},
				{FilePath: "/music/a2.mp3", Title: "A2", TrackNumber: 2},
			},
		},
		{
			Name:   "Second Album",
			Artist: "Artist B",
			Tracks: []domain.MusicTrack{
				{FilePath: "/music/b1.flac", Title: "B1", TrackNumber: 1},
			},
		},
	}
}

func TestLibraryRepository_EmptyByDefault(t *testing.T) {
	repo := NewLibraryRepository()

	assert.True(t, repo.IsEmpty())
	assert.Equal(t, 0, repo.AlbumCount())
	assert.Empty(t, repo.Albums())
}

func TestLibraryRepository_Replace(t *testing.T) {
	repo := NewLibraryRepository()

	repo.Replace(testAlbums())

	assert.False(t, repo.IsEmpty())
	assert.Equal(t, 2, repo.AlbumCount())
	assert.Equal(t, 2, repo.TrackCount(0))
	assert.Equal(t, 1, repo.TrackCount(1))

	// A second replace swaps the whole catalog
	repo.Replace(nil)
	assert.True(t, repo.IsEmpty())
}

func TestLibraryRepository_Album(t *testing.T) {
	repo := NewLibraryRepository()
	repo.Replace(testAlbums())

	album, err := repo.Album(1)
	require.NoError(t, err)
	assert.Equal(t, "Second Album", album.Name)

	_, err = repo.Album(-1)
	assert.ErrorIs(t, err, domain.ErrInvalidIndex)

	_, err = repo.Album(2)
	assert.ErrorIs(t, err, domain.ErrInvalidIndex)
}

func TestLibraryRepository_Track(t *testing.T) {
	repo := NewLibraryRepository()
	repo.Replace(testAlbums())

	track, err := repo.Track(0, 1)
	require.NoError(t, err)
	assert.Equal(t, "A2", track.Title)

	_, err = repo.Track(0, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidIndex)

	_, err = repo.Track(3, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidIndex)

	_, err = repo.Track(-1, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidIndex)
}

func TestLibraryRepository_TrackCountOutOfRange(t *testing.T) {
	repo := NewLibraryRepository()
	repo.Replace(testAlbums())

	assert.Equal(t, 0, repo.TrackCount(-1))
	assert.Equal(t, 0, repo.TrackCount(9))
}
