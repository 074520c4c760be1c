package pipeline

import (
	"github.com/tapedeck-audio/tapedeck/internal/adapter/audio/decode"
)

// Normalize extracts the first channel of a decoded block and converts it to
// float32 in [-1, 1] using the format-specific scale: unsigned N-bit maps
// value/2^(N-1) - 1, signed N-bit maps value/2^(N-1), 32-bit float passes
// through, 64-bit float is narrowed.
func Normalize(blk *decode.Block) []float32 {
	frames := blk.Frames()
	out := make([]float32, frames)
	stride := blk.Channels

	switch blk.Format {
	case decode.FormatF32:
		for i := 0; i < frames; i++ {
			out[i] = blk.Floats[i*stride]
		}
	case decode.FormatF64:
		for i := 0; i < frames; i++ {
			out[i] = float32(blk.Floats64[i*stride])
		}
	default:
		scale := float32(int64(1) << (blk.Format.Bits() - 1))
		if blk.Format.Unsigned() {
			for i := 0; i < frames; i++ {
				out[i] = float32(blk.Ints[i*stride])/scale - 1
			}
		} else {
			for i := 0; i < frames; i++ {
				out[i] = float32(blk.Ints[i*stride]) / scale
			}
		}
	}
	return out
}
