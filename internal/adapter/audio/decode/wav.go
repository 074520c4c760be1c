package decode

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/tapedeck-audio/tapedeck/internal/domain"
)

// WAVDecoder streams PCM blocks out of a RIFF/WAVE container.
// 8-bit WAV is unsigned by convention; 16/24/32-bit is signed.
type WAVDecoder struct {
	file *os.File
	dec  *wav.Decoder
	fmt  SampleFormat
	buf  *audio.IntBuffer
}

// NewWAV opens a WAV file and positions the decoder at the PCM data chunk.
func NewWAV(path string) (*WAVDecoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProbeFailure, err)
	}

	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		_ = f.Close()
		return nil, fmt.Errorf("%w: not a valid wav file", domain.ErrProbeFailure)
	}
	if err := dec.FwdToPCM(); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrDecoderInit, err)
	}

	var sf SampleFormat
	switch dec.BitDepth {
	case 8:
		sf = FormatU8
	case 16:
		sf = FormatS16
	case 24:
		sf = FormatS24
	case 32:
		sf = FormatS32
	default:
		_ = f.Close()
		return nil, fmt.Errorf("%w: %d-bit wav", domain.ErrNoSupportedTrack, dec.BitDepth)
	}

	channels := int(dec.NumChans)
	if channels <= 0 {
		_ = f.Close()
		return nil, fmt.Errorf("%w: no channels", domain.ErrNoSupportedTrack)
	}

	return &WAVDecoder{
		file: f,
		dec:  dec,
		fmt:  sf,
		buf: &audio.IntBuffer{
			Data: make([]int, blockFrames*channels),
			Format: &audio.Format{
				NumChannels: channels,
				SampleRate:  int(dec.SampleRate),
			},
		},
	}, nil
}

// ReadBlock reads the next block of PCM samples.
func (d *WAVDecoder) ReadBlock() (*Block, error) {
	n, err := d.dec.PCMBuffer(d.buf)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if n == 0 {
		return nil, io.EOF
	}

	ints := make([]int64, n)
	for i := 0; i < n; i++ {
		ints[i] = int64(d.buf.Data[i])
	}

	return &Block{
		Format:   d.fmt,
		Channels: int(d.dec.NumChans),
		Ints:     ints,
	}, nil
}

// Reset is a no-op; WAV PCM has no recoverable desync state.
func (d *WAVDecoder) Reset() error { return nil }

// SampleRate returns the native sample rate.
func (d *WAVDecoder) SampleRate() int { return int(d.dec.SampleRate) }

// Channels returns the native channel count.
func (d *WAVDecoder) Channels() int { return int(d.dec.NumChans) }

// TotalFrames derives the frame count from the PCM chunk size.
func (d *WAVDecoder) TotalFrames() int64 {
	bytesPerFrame := int64(d.dec.BitDepth/8) * int64(d.dec.NumChans)
	if bytesPerFrame == 0 {
		return 0
	}
	return int64(d.dec.PCMSize) / bytesPerFrame
}

// Close closes the underlying file.
func (d *WAVDecoder) Close() error { return d.file.Close() }

var _ Decoder = (*WAVDecoder)(nil)
