package service

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dhowden/tag"

	"github.com/tapedeck-audio/tapedeck/internal/domain"
	"github.com/tapedeck-audio/tapedeck/internal/ports"
)

// supportedExtensions are the file extensions the scanner picks up.
// Formats without a decoder still show in the library; loading one
// reports ErrUnsupportedFormat.
var supportedExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".wav":  true,
	".ogg":  true,
	".oga":  true,
	".m4a":  true,
	".aac":  true,
}

// LibraryService scans directories for audio files, groups them into
// albums, and keeps a navigation cursor over the resulting catalog.
type LibraryService struct {
	logger *slog.Logger
	repo   ports.LibraryRepository
	bus    ports.EventBus

	mu       sync.RWMutex
	albumIdx int
	trackIdx int
}

// NewLibraryService creates a new library service.
func NewLibraryService(
	logger *slog.Logger,
	repo ports.LibraryRepository,
	bus ports.EventBus,
) *LibraryService {
	logger.Debug("library service initialized")

	return &LibraryService{
		logger: logger,
		repo:   repo,
		bus:    bus,
	}
}

// Scan walks dir for supported audio files, reads their tags, and replaces
// the repository contents with the grouped result. Cancelling ctx aborts the
// walk and leaves the previous catalog in place.
func (s *LibraryService) Scan(ctx context.Context, dir string) error {
	s.logger.Info("scanning music directory", slog.String("dir", dir))
	s.bus.Publish(domain.NewScanStartedEvent(dir))

	progress := domain.ScanProgress{}
	albums := make(map[string]*domain.Album)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal
			s.logger.Warn("skipping unreadable entry",
				slog.String("path", path), slog.Any("error", err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return domain.ErrScanCancelled
		default:
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !supportedExtensions[ext] {
			return nil
		}

		progress.FilesScanned++
		progress.CurrentFile = filepath.Base(path)

		track := readTrack(path, ext)
		key := albumKey(track)
		album, ok := albums[key]
		if !ok {
			album = &domain.Album{
				Name:   trackAlbum(track),
				Artist: track.Artist,
			}
			albums[key] = album
		}
		album.AddTrack(track)

		progress.TracksFound++
		s.bus.Publish(domain.NewScanProgressEvent(progress))
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrScanCancelled) {
			s.logger.Info("scan cancelled", slog.String("dir", dir))
			s.bus.Publish(domain.NewScanCancelledEvent(ctx.Err().Error()))
			return domain.ErrScanCancelled
		}
		s.logger.Error("scan failed", slog.String("dir", dir), slog.Any("error", err))
		return domain.NewServiceError("library", "Scan", "directory walk failed", err)
	}

	sorted := make([]domain.Album, 0, len(albums))
	for _, album := range albums {
		sorted = append(sorted, *album)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Artist != sorted[j].Artist {
			return sorted[i].Artist < sorted[j].Artist
		}
		return sorted[i].Name < sorted[j].Name
	})

	s.repo.Replace(sorted)

	s.mu.Lock()
	s.albumIdx = 0
	s.trackIdx = 0
	s.mu.Unlock()

	s.logger.Info("scan completed",
		slog.Int("albums", len(sorted)),
		slog.Int("tracks", progress.TracksFound))
	s.bus.Publish(domain.NewScanCompletedEvent(len(sorted), progress.TracksFound))

	return nil
}

// readTrack extracts metadata from path, falling back to the file name when
// the container carries no tags.
func readTrack(path, ext string) domain.MusicTrack {
	track := domain.MusicTrack{
		FilePath:   path,
		Title:      strings.TrimSuffix(filepath.Base(path), ext),
		Artist:     domain.UnknownArtist,
		Album:      domain.UnknownAlbum,
		FileFormat: strings.TrimPrefix(ext, "."),
	}

	f, err := os.Open(path)
	if err != nil {
		return track
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return track
	}

	if t := strings.TrimSpace(meta.Title()); t != "" {
		track.Title = t
	}
	if a := strings.TrimSpace(meta.Artist()); a != "" {
		track.Artist = a
	}
	if al := strings.TrimSpace(meta.Album()); al != "" {
		track.Album = al
	}
	track.TrackNumber, _ = meta.Track()

	return track
}

func trackAlbum(t domain.MusicTrack) string {
	if t.Album != "" {
		return t.Album
	}
	return domain.UnknownAlbum
}

func albumKey(t domain.MusicTrack) string {
	return strings.ToLower(t.Artist) + " - " + strings.ToLower(trackAlbum(t))
}

// Albums returns all albums in the catalog.
func (s *LibraryService) Albums() []domain.Album {
	return s.repo.Albums()
}

// IsEmpty reports whether the catalog has no albums.
func (s *LibraryService) IsEmpty() bool {
	return s.repo.IsEmpty()
}

// CurrentIndices returns the cursor position as (album, track).
func (s *LibraryService) CurrentIndices() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.albumIdx, s.trackIdx
}

// SetIndices moves the cursor to the given album and track.
func (s *LibraryService) SetIndices(album, track int) error {
	if _, err := s.repo.Track(album, track); err != nil {
		return err
	}

	s.mu.Lock()
	s.albumIdx = album
	s.trackIdx = track
	s.mu.Unlock()
	return nil
}

// CurrentTrack returns the track under the cursor.
func (s *LibraryService) CurrentTrack() (domain.MusicTrack, error) {
	s.mu.RLock()
	album, track := s.albumIdx, s.trackIdx
	s.mu.RUnlock()
	return s.repo.Track(album, track)
}

// CurrentAlbum returns the album under the cursor.
func (s *LibraryService) CurrentAlbum() (domain.Album, error) {
	s.mu.RLock()
	album := s.albumIdx
	s.mu.RUnlock()
	return s.repo.Album(album)
}

// NextTrack advances the cursor to the next track, rolling over into the
// next album and wrapping at the end of the catalog.
func (s *LibraryService) NextTrack() (domain.MusicTrack, error) {
	if s.repo.IsEmpty() {
		return domain.MusicTrack{}, domain.ErrLibraryEmpty
	}

	s.mu.Lock()
	s.trackIdx++
	if s.trackIdx >= s.repo.TrackCount(s.albumIdx) {
		s.trackIdx = 0
		s.albumIdx++
		if s.albumIdx >= s.repo.AlbumCount() {
			s.albumIdx = 0
		}
	}
	album, track := s.albumIdx, s.trackIdx
	s.mu.Unlock()

	return s.repo.Track(album, track)
}

// PreviousTrack moves the cursor to the previous track, wrapping backwards
// across album boundaries.
func (s *LibraryService) PreviousTrack() (domain.MusicTrack, error) {
	if s.repo.IsEmpty() {
		return domain.MusicTrack{}, domain.ErrLibraryEmpty
	}

	s.mu.Lock()
	s.trackIdx--
	if s.trackIdx < 0 {
		s.albumIdx--
		if s.albumIdx < 0 {
			s.albumIdx = s.repo.AlbumCount() - 1
		}
		s.trackIdx = s.repo.TrackCount(s.albumIdx) - 1
	}
	album, track := s.albumIdx, s.trackIdx
	s.mu.Unlock()

	return s.repo.Track(album, track)
}

// NextAlbum moves the cursor to the first track of the next album.
func (s *LibraryService) NextAlbum() (domain.MusicTrack, error) {
	if s.repo.IsEmpty() {
		return domain.MusicTrack{}, domain.ErrLibraryEmpty
	}

	s.mu.Lock()
	s.albumIdx++
	if s.albumIdx >= s.repo.AlbumCount() {
		s.albumIdx = 0
	}
	s.trackIdx = 0
	album, track := s.albumIdx, s.trackIdx
	s.mu.Unlock()

	return s.repo.Track(album, track)
}

// PreviousAlbum moves the cursor to the first track of the previous album.
func (s *LibraryService) PreviousAlbum() (domain.MusicTrack, error) {
	if s.repo.IsEmpty() {
		return domain.MusicTrack{}, domain.ErrLibraryEmpty
	}

	s.mu.Lock()
	s.albumIdx--
	if s.albumIdx < 0 {
		s.albumIdx = s.repo.AlbumCount() - 1
	}
	s.trackIdx = 0
	album, track := s.albumIdx, s.trackIdx
	s.mu.Unlock()

	return s.repo.Track(album, track)
}
