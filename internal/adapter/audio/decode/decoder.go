// Package decode provides streaming per-format audio decoders.
//
// Each decoder demuxes and decodes one file into Blocks of interleaved native
// samples, preserving the source sample format so the pipeline can normalize
// every bit depth through one conversion table.
package decode

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tapedeck-audio/tapedeck/internal/domain"
)

// ErrResetRequired is a recoverable decode signal. The caller should Reset the
// decoder and continue reading; any other decode error is terminal.
var ErrResetRequired = errors.New("decoder reset required")

// SampleFormat identifies the native sample encoding of a decoded block.
type SampleFormat int

const (
	FormatU8 SampleFormat = iota
	FormatS8
	FormatU16
	FormatS16
	FormatU24
	FormatS24
	FormatU32
	FormatS32
	FormatF32
	FormatF64
)

// String returns a short name for the sample format.
func (f SampleFormat) String() string {
	switch f {
	case FormatU8:
		return "u8"
	case FormatS8:
		return "s8"
	case FormatU16:
		return "u16"
	case FormatS16:
		return "s16"
	case FormatU24:
		return "u24"
	case FormatS24:
		return "s24"
	case FormatU32:
		return "u32"
	case FormatS32:
		return "s32"
	case FormatF32:
		return "f32"
	case FormatF64:
		return "f64"
	default:
		return "unknown"
	}
}

// Bits returns the bit depth of the format.
func (f SampleFormat) Bits() int {
	switch f {
	case FormatU8, FormatS8:
		return 8
	case FormatU16, FormatS16:
		return 16
	case FormatU24, FormatS24:
		return 24
	case FormatU32, FormatS32, FormatF32:
		return 32
	case FormatF64:
		return 64
	default:
		return 0
	}
}

// Unsigned returns true for the unsigned integer formats.
func (f SampleFormat) Unsigned() bool {
	switch f {
	case FormatU8, FormatU16, FormatU24, FormatU32:
		return true
	default:
		return false
	}
}

// Block is one decoded chunk of interleaved samples in their native format.
// Exactly one of Ints, Floats, or Floats64 is populated, chosen by Format.
type Block struct {
	Format   SampleFormat
	Channels int

	// Ints holds integer samples widened to int64, unscaled.
	Ints []int64

	// Floats holds 32-bit float samples in [-1, 1].
	Floats []float32

	// Floats64 holds 64-bit float samples in [-1, 1].
	Floats64 []float64
}

// Frames returns the number of sample frames in the block.
func (b *Block) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	switch b.Format {
	case FormatF32:
		return len(b.Floats) / b.Channels
	case FormatF64:
		return len(b.Floats64) / b.Channels
	default:
		return len(b.Ints) / b.Channels
	}
}

// Decoder is a streaming audio decoder for a single open file.
//
// ReadBlock returns io.EOF at end of stream and ErrResetRequired for
// recoverable desync; callers must Reset and continue on the latter.
// Decoders are not safe for concurrent use; the decode goroutine owns them.
type Decoder interface {
	// ReadBlock decodes and returns the next block of native samples.
	ReadBlock() (*Block, error)

	// Reset clears recoverable decoder state after ErrResetRequired.
	Reset() error

	// SampleRate returns the native sample rate in Hz.
	SampleRate() int

	// Channels returns the native channel count.
	Channels() int

	// TotalFrames returns the total frame count, or 0 when the container
	// does not know it.
	TotalFrames() int64

	// Close releases the decoder and its underlying file.
	Close() error
}

// Open probes the file by extension and constructs the matching decoder.
//
// Unknown extensions return domain.ErrUnsupportedFormat. Extensions the
// library lists but no decoder covers (m4a, aac) fall out the same way.
func Open(path string) (Decoder, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "wav":
		return NewWAV(path)
	case "mp3":
		return NewMP3(path)
	case "flac":
		return NewFLAC(path)
	case "ogg", "oga":
		return NewVorbis(path)
	default:
		return nil, fmt.Errorf("%w: .%s", domain.ErrUnsupportedFormat, ext)
	}
}

// blockFrames is the preferred number of frames per decoded block.
const blockFrames = 4096
