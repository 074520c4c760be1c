// Package pipeline implements the decode pipeline: it probes and decodes a
// media file on a background goroutine, normalizes every sample format to mono
// float32, resamples to a fixed output rate, applies volume, and feeds the
// bounded sample queue drained by the visualizer.
package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	resampler "github.com/tphakala/go-audio-resampler"

	"github.com/tapedeck-audio/tapedeck/internal/adapter/audio/decode"
	"github.com/tapedeck-audio/tapedeck/internal/domain"
	"github.com/tapedeck-audio/tapedeck/internal/ports"
)

const (
	// OutputRate is the fixed sample rate of everything in the queue.
	OutputRate = 48000

	// pausePoll is how long the decode loop sleeps between pause checks, so
	// production can lag up to one interval after unpausing.
	pausePoll = 10 * time.Millisecond

	// queueSeconds bounds the sample queue at this many seconds of mono audio.
	queueSeconds = 8

	// maxConsecutiveResets caps recoverable decoder resets before the loop
	// treats the stream as unrecoverable.
	maxConsecutiveResets = 3

	// defaultVolume matches the startup volume before any SetVolume call.
	defaultVolume = 0.7
)

// Config holds engine construction options.
type Config struct {
	// SampleRate is the fixed output rate (defaults to OutputRate).
	SampleRate int

	// NegotiateDevice controls whether the system output device is opened at
	// construction. Tests disable this; the process can only open it once.
	NegotiateDevice bool
}

// playbackState is every shared playback field behind one mutex, so snapshots
// are atomic multi-field reads and there is no lock ordering to get wrong.
type playbackState struct {
	status   domain.PlaybackStatus
	position time.Duration
	duration time.Duration
	volume   float64
	err      error
}

// Engine is the decode pipeline. One decode goroutine is logically active per
// loaded source: Load cancels and joins the previous one before starting the
// next, so the queue never sees interleaved producers.
type Engine struct {
	logger *slog.Logger
	rate   int
	device *oto.Context
	queue  *SampleQueue

	mu     sync.Mutex
	st     playbackState
	cancel context.CancelFunc
	closed bool

	// loadMu serializes the cancel/join/spawn sequence in Load and Close, so
	// concurrent Loads cannot both pass the join and spawn two producers.
	loadMu sync.Mutex
	wg     sync.WaitGroup
}

// monoResampler is the streaming resampler surface the decode loop needs.
type monoResampler interface {
	Process(input []float32) ([]float32, error)
	Flush() ([]float32, error)
}

// New creates the engine and, unless disabled, negotiates the output device.
func New(logger *slog.Logger, cfg Config) (*Engine, error) {
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = OutputRate
	}

	e := &Engine{
		logger: logger,
		rate:   rate,
		queue:  NewSampleQueue(rate * queueSeconds),
		st: playbackState{
			status: domain.StatusIdle,
			volume: defaultVolume,
		},
	}

	if cfg.NegotiateDevice {
		device, err := negotiateDevice(rate)
		if err != nil {
			return nil, err
		}
		e.device = device
	}

	return e, nil
}

// Load probes the file, builds a decoder and resampler, then spawns the decode
// goroutine and returns immediately. A failed Load leaves the previous
// playback state untouched; a successful one cancels and joins the previous
// decode goroutine before the new producer starts.
func (e *Engine) Load(path string) error {
	dec, err := decode.Open(path)
	if err != nil {
		return domain.NewEngineError("load", path, err)
	}

	var rs monoResampler
	if dec.SampleRate() != e.rate {
		eng, err := resampler.NewEngineFloat32(float64(dec.SampleRate()), float64(e.rate), resampler.QualityMedium)
		if err != nil {
			_ = dec.Close()
			return domain.NewEngineError("load", path, err)
		}
		rs = eng
	}

	var duration time.Duration
	if frames := dec.TotalFrames(); frames > 0 {
		duration = time.Duration(float64(frames) / float64(dec.SampleRate()) * float64(time.Second))
	}

	e.loadMu.Lock()
	defer e.loadMu.Unlock()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		_ = dec.Close()
		return domain.ErrEngineClosed
	}
	cancel := e.cancel
	e.mu.Unlock()

	// Signal-and-join the previous producer before touching shared state
	if cancel != nil {
		cancel()
	}
	e.wg.Wait()

	ctx, cancelFn := context.WithCancel(context.Background())

	e.mu.Lock()
	e.cancel = cancelFn
	e.st.status = domain.StatusLoading
	e.st.position = 0
	e.st.duration = duration
	e.st.err = nil
	e.mu.Unlock()

	e.queue.Drain()

	e.logger.Info("track loaded",
		slog.String("path", path),
		slog.Int("native_rate", dec.SampleRate()),
		slog.Int("channels", dec.Channels()),
		slog.Bool("resampling", rs != nil),
		slog.Duration("duration", duration))

	e.wg.Add(1)
	go e.decodeLoop(ctx, dec, rs, path)

	return nil
}

// decodeLoop runs on the background goroutine until end of stream, a fatal
// error, or cancellation.
func (e *Engine) decodeLoop(ctx context.Context, dec decode.Decoder, rs monoResampler, path string) {
	defer e.wg.Done()
	defer func() {
		if err := dec.Close(); err != nil {
			e.logger.Warn("decoder close failed", slog.Any("error", err))
		}
	}()

	e.setStatusIfLoading(domain.StatusPaused)

	resets := 0
	for {
		if ctx.Err() != nil {
			return
		}

		if !e.isPlaying() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(pausePoll):
			}
			continue
		}

		blk, err := dec.ReadBlock()
		switch {
		case errors.Is(err, decode.ErrResetRequired):
			resets++
			if resets > maxConsecutiveResets {
				e.fail(ctx, domain.NewEngineError("decode", path, err))
				return
			}
			if rerr := dec.Reset(); rerr != nil {
				e.fail(ctx, domain.NewEngineError("reset", path, rerr))
				return
			}
			continue
		case errors.Is(err, io.EOF):
			e.flushTail(ctx, rs, dec.Channels())
			e.finish(ctx)
			return
		case err != nil:
			e.fail(ctx, domain.NewEngineError("decode", path, err))
			return
		}
		resets = 0

		mono := Normalize(blk)
		mono = e.resampleBlock(rs, mono)
		e.applyVolume(mono)
		e.queue.Append(mono)
		e.advance(len(mono), blk.Channels)
	}
}

// resampleBlock resamples one block; on resampler failure the unresampled
// block passes through unchanged. The gap is logged, not corrected.
func (e *Engine) resampleBlock(rs monoResampler, mono []float32) []float32 {
	if rs == nil {
		return mono
	}
	out, err := rs.Process(mono)
	if err != nil {
		e.logger.Warn("resample failed, passing block through",
			slog.Int("samples", len(mono)),
			slog.Any("error", err))
		return mono
	}
	return out
}

// flushTail drains the resampler's internal state at end of stream.
func (e *Engine) flushTail(ctx context.Context, rs monoResampler, channels int) {
	if rs == nil || ctx.Err() != nil {
		return
	}
	tail, err := rs.Flush()
	if err != nil || len(tail) == 0 {
		return
	}
	e.applyVolume(tail)
	e.queue.Append(tail)
	e.advance(len(tail), channels)
}

// applyVolume scales a block by the volume read at this moment, so runtime
// volume changes apply from the next processed block.
func (e *Engine) applyVolume(mono []float32) {
	e.mu.Lock()
	vol := float32(e.st.volume)
	e.mu.Unlock()

	if vol == 1 {
		return
	}
	for i := range mono {
		mono[i] *= vol
	}
}

// advance moves the position by produced/(rate*channels) seconds.
func (e *Engine) advance(produced, channels int) {
	if channels <= 0 {
		return
	}
	delta := time.Duration(float64(produced) / (float64(e.rate) * float64(channels)) * float64(time.Second))

	e.mu.Lock()
	e.st.position += delta
	e.mu.Unlock()
}

// finish marks the stream as naturally ended, unless this producer was
// cancelled and a newer load owns the state.
func (e *Engine) finish(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	e.mu.Lock()
	e.st.status = domain.StatusEnded
	e.mu.Unlock()

	e.logger.Info("track ended")
}

// fail records the failure reason and surfaces it through Snapshot.
func (e *Engine) fail(ctx context.Context, err error) {
	if ctx.Err() != nil {
		return
	}
	e.mu.Lock()
	e.st.status = domain.StatusFailed
	e.st.err = err
	e.mu.Unlock()

	e.logger.Error("decode loop failed", slog.Any("error", err))
}

// setStatusIfLoading promotes Loading to the given status; Play may already
// have raced the goroutine startup, which wins.
func (e *Engine) setStatusIfLoading(status domain.PlaybackStatus) {
	e.mu.Lock()
	if e.st.status == domain.StatusLoading {
		e.st.status = status
	}
	e.mu.Unlock()
}

// isPlaying reports whether the decode loop should produce samples.
func (e *Engine) isPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.status == domain.StatusPlaying
}

// Play sets the shared playing flag polled by the decode loop.
func (e *Engine) Play() {
	e.mu.Lock()
	if e.st.status == domain.StatusLoading || e.st.status == domain.StatusPaused {
		e.st.status = domain.StatusPlaying
	}
	e.mu.Unlock()
}

// Pause clears the playing flag; the decode goroutine parks on its poll sleep.
func (e *Engine) Pause() {
	e.mu.Lock()
	if e.st.status == domain.StatusPlaying {
		e.st.status = domain.StatusPaused
	}
	e.mu.Unlock()
}

// Samples atomically drains and returns everything buffered since the last call.
func (e *Engine) Samples() []float32 {
	return e.queue.Drain()
}

// Snapshot returns an atomic view of the playback state.
func (e *Engine) Snapshot() domain.PlaybackSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.PlaybackSnapshot{
		Status:   e.st.status,
		Position: e.st.position,
		Duration: e.st.duration,
		Volume:   e.st.volume,
		Err:      e.st.err,
	}
}

// Position returns the current decode position.
func (e *Engine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.position
}

// Duration returns the total track length, or zero when unknown.
func (e *Engine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.duration
}

// SetVolume clamps v to [0, 1]; the decode loop reads the cell per block, so
// the change applies to the next block it processes.
func (e *Engine) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	e.mu.Lock()
	e.st.volume = v
	e.mu.Unlock()
}

// Close cancels the decode goroutine, joins it, and suspends the device.
func (e *Engine) Close() error {
	e.loadMu.Lock()
	defer e.loadMu.Unlock()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return domain.ErrEngineClosed
	}
	e.closed = true
	cancel := e.cancel
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.wg.Wait()

	if e.device != nil {
		return e.device.Suspend()
	}
	return nil
}

// Verify that Engine implements the AudioEngine interface
var _ ports.AudioEngine = (*Engine)(nil)
