package decode

import (
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"

	"github.com/tapedeck-audio/tapedeck/internal/domain"
)

// FLACDecoder streams frames out of a FLAC file at the source bit depth.
type FLACDecoder struct {
	file   *os.File
	stream *flac.Stream
	fmt    SampleFormat
}

// NewFLAC opens a FLAC file and parses the stream info block.
func NewFLAC(path string) (*FLACDecoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProbeFailure, err)
	}

	stream, err := flac.New(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrDecoderInit, err)
	}

	var sf SampleFormat
	switch stream.Info.BitsPerSample {
	case 8:
		sf = FormatS8
	case 16:
		sf = FormatS16
	case 24:
		sf = FormatS24
	case 32:
		sf = FormatS32
	default:
		_ = f.Close()
		return nil, fmt.Errorf("%w: %d-bit flac", domain.ErrNoSupportedTrack, stream.Info.BitsPerSample)
	}

	return &FLACDecoder{file: f, stream: stream, fmt: sf}, nil
}

// ReadBlock parses the next FLAC frame and interleaves its subframes.
// A corrupt frame surfaces as ErrResetRequired so the caller can skip it
// and continue with the next one.
func (d *FLACDecoder) ReadBlock() (*Block, error) {
	frame, err := d.stream.ParseNext()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, ErrResetRequired
	}

	channels := len(frame.Subframes)
	if channels == 0 {
		return nil, ErrResetRequired
	}
	frames := len(frame.Subframes[0].Samples)

	ints := make([]int64, frames*channels)
	for ch, sub := range frame.Subframes {
		for i, s := range sub.Samples {
			ints[i*channels+ch] = int64(s)
		}
	}

	return &Block{
		Format:   d.fmt,
		Channels: channels,
		Ints:     ints,
	}, nil
}

// Reset is a no-op; ParseNext already advances past the corrupt frame.
func (d *FLACDecoder) Reset() error { return nil }

// SampleRate returns the native sample rate.
func (d *FLACDecoder) SampleRate() int { return int(d.stream.Info.SampleRate) }

// Channels returns the native channel count.
func (d *FLACDecoder) Channels() int { return int(d.stream.Info.NChannels) }

// TotalFrames returns the stream info frame count.
func (d *FLACDecoder) TotalFrames() int64 { return int64(d.stream.Info.NSamples) }

// Close closes the stream and the underlying file.
func (d *FLACDecoder) Close() error {
	if err := d.stream.Close(); err != nil {
		_ = d.file.Close()
		return err
	}
	return d.file.Close()
}

var _ Decoder = (*FLACDecoder)(nil)
