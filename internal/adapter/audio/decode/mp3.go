package decode

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/tapedeck-audio/tapedeck/internal/domain"
)

// mp3 decodes to interleaved stereo s16le regardless of the source layout.
const mp3Channels = 2

// MP3Decoder streams s16 blocks out of an MPEG layer 3 file.
type MP3Decoder struct {
	file *os.File
	dec  *mp3.Decoder
	raw  []byte
}

// NewMP3 opens an MP3 file and reads the stream header.
func NewMP3(path string) (*MP3Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProbeFailure, err)
	}

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrDecoderInit, err)
	}

	return &MP3Decoder{
		file: f,
		dec:  dec,
		// 4 bytes per stereo s16 frame
		raw: make([]byte, blockFrames*mp3Channels*2),
	}, nil
}

// ReadBlock reads the next block of decoded s16 samples.
func (d *MP3Decoder) ReadBlock() (*Block, error) {
	n, err := d.dec.Read(d.raw)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if n == 0 {
		return nil, io.EOF
	}

	n = frameAlign(n)
	ints := make([]int64, n/2)
	for i := range ints {
		ints[i] = int64(int16(binary.LittleEndian.Uint16(d.raw[i*2:])))
	}

	return &Block{
		Format:   FormatS16,
		Channels: mp3Channels,
		Ints:     ints,
	}, nil
}

// frameAlign truncates a byte count to the whole stereo s16 frame boundary.
// A read that splits a frame would flip channel parity for every block after
// it, so partial frames are dropped rather than carried.
func frameAlign(n int) int { return n - n%(mp3Channels*2) }

// Reset is a no-op; go-mp3 resynchronizes internally on bad frames.
func (d *MP3Decoder) Reset() error { return nil }

// SampleRate returns the native sample rate.
func (d *MP3Decoder) SampleRate() int { return d.dec.SampleRate() }

// Channels returns the decoded channel count (always stereo for go-mp3).
func (d *MP3Decoder) Channels() int { return mp3Channels }

// TotalFrames derives the frame count from the decoded stream length.
func (d *MP3Decoder) TotalFrames() int64 {
	length := d.dec.Length()
	if length <= 0 {
		return 0
	}
	return length / (mp3Channels * 2)
}

// Close closes the underlying file.
func (d *MP3Decoder) Close() error { return d.file.Close() }

var _ Decoder = (*MP3Decoder)(nil)
