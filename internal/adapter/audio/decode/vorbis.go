package decode

import (
	"fmt"
	"io"
	"os"

	"github.com/jfreymuth/oggvorbis"

	"github.com/tapedeck-audio/tapedeck/internal/domain"
)

// VorbisDecoder streams float32 blocks out of an Ogg Vorbis file.
type VorbisDecoder struct {
	file *os.File
	dec  *oggvorbis.Reader
}

// NewVorbis opens an Ogg Vorbis file and reads the identification headers.
func NewVorbis(path string) (*VorbisDecoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProbeFailure, err)
	}

	dec, err := oggvorbis.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrDecoderInit, err)
	}

	return &VorbisDecoder{file: f, dec: dec}, nil
}

// ReadBlock reads the next block of decoded float samples.
func (d *VorbisDecoder) ReadBlock() (*Block, error) {
	buf := make([]float32, blockFrames*d.dec.Channels())
	n, err := d.dec.Read(buf)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if n == 0 {
		return nil, io.EOF
	}

	return &Block{
		Format:   FormatF32,
		Channels: d.dec.Channels(),
		Floats:   buf[:n],
	}, nil
}

// Reset is a no-op; the ogg layer skips damaged pages on its own.
func (d *VorbisDecoder) Reset() error { return nil }

// SampleRate returns the native sample rate.
func (d *VorbisDecoder) SampleRate() int { return d.dec.SampleRate() }

// Channels returns the native channel count.
func (d *VorbisDecoder) Channels() int { return d.dec.Channels() }

// TotalFrames returns the per-channel sample count from the last ogg page.
func (d *VorbisDecoder) TotalFrames() int64 { return d.dec.Length() }

// Close closes the underlying file.
func (d *VorbisDecoder) Close() error { return d.file.Close() }

var _ Decoder = (*VorbisDecoder)(nil)
