// Package visualizer computes visualization-ready data from raw audio samples:
// windowed FFT magnitude bars, a beat-intensity signal derived from bass
// energy, and a continuously rotating hue for rainbow mode.
package visualizer

import (
	"math"
	"math/cmplx"
	"sync"
	"time"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/window"
)

const (
	// fftSize is the analysis window: the ring holds at most this many samples.
	fftSize = 2048

	// barCount is the number of spectrum bars exposed to the renderer.
	barCount = 32

	// Bar smoothing: bar = smoothPrev*previous + smoothNew*new.
	smoothPrev = 0.7
	smoothNew  = 0.3

	// Beat detection over the lowest eighth of the magnitude bins.
	beatThreshold  = 0.3
	beatRefractory = 200 * time.Millisecond
	beatDecay      = 0.95

	// Hue rotation in degrees per tick: base speed plus a beat-driven boost.
	hueBaseSpeed = 0.02
	hueBeatBoost = 0.1
)

// Analyzer maintains a bounded sliding window of raw samples and recomputes
// bars, beat intensity, and hue once per tick.
//
// Thread-safety: all methods are safe for concurrent use; the tick loop and
// the renderer may run on different goroutines.
type Analyzer struct {
	mu sync.Mutex

	ring  []float64 // sliding window, newest at the end
	hann  window.Values
	bars  []float64
	beat  float64
	hue   float64
	last  time.Time // last beat trigger
	now   func() time.Time
	frame []float64 // scratch copy of the window per transform
}

// New creates an analyzer with an empty window and zeroed bars.
func New() *Analyzer {
	return &Analyzer{
		ring:  make([]float64, 0, fftSize),
		hann:  window.NewValues(window.Hann, fftSize),
		bars:  make([]float64, barCount),
		now:   time.Now,
		frame: make([]float64, fftSize),
	}
}

// SetClock overrides the time source used by beat detection. Tests use this
// to step through the refractory interval deterministically.
func (a *Analyzer) SetClock(now func() time.Time) {
	a.mu.Lock()
	a.now = now
	a.mu.Unlock()
}

// AddSamples appends raw samples to the sliding window, discarding the oldest
// beyond the window size. Accumulation is bounded, never historical.
func (a *Analyzer) AddSamples(samples []float32) {
	if len(samples) == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, s := range samples {
		a.ring = append(a.ring, float64(s))
	}
	if over := len(a.ring) - fftSize; over > 0 {
		a.ring = append(a.ring[:0], a.ring[over:]...)
	}
}

// UpdateSpectrum recomputes bars, beat intensity, and hue from the current
// window. With fewer than a full window of samples accumulated it is a no-op:
// the previous bars freeze rather than reset, which avoids flicker on
// start-up and after a load.
func (a *Analyzer) UpdateSpectrum() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.ring) < fftSize {
		return
	}

	copy(a.frame, a.ring[len(a.ring)-fftSize:])
	a.hann.Transform(a.frame)

	spectrum := fft.FFTReal(a.frame)

	mags := make([]float64, fftSize/2)
	maxMag := 0.0
	for i := range mags {
		mags[i] = cmplx.Abs(spectrum[i])
		if mags[i] > maxMag {
			maxMag = mags[i]
		}
	}
	if maxMag > 0 {
		for i := range mags {
			mags[i] /= maxMag
		}
	}

	a.updateBars(mags)
	a.detectBeat(mags)
	a.rotateHue()
}

// updateBars buckets magnitudes into bars by averaging contiguous bin ranges,
// the remainder going to the last bucket, then smooths against the previous
// frame.
func (a *Analyzer) updateBars(mags []float64) {
	binsPerBar := len(mags) / barCount

	for i := range a.bars {
		start := i * binsPerBar
		end := start + binsPerBar
		if i == barCount-1 {
			end = len(mags)
		}

		avg := 0.0
		if start < end {
			sum := 0.0
			for _, m := range mags[start:end] {
				sum += m
			}
			avg = sum / float64(end-start)
		}

		a.bars[i] = a.bars[i]*smoothPrev + avg*smoothNew
	}
}

// detectBeat derives bass energy from the lowest eighth of the bins and
// triggers a beat on an energy spike outside the refractory interval;
// otherwise the intensity decays toward zero.
func (a *Analyzer) detectBeat(mags []float64) {
	sum := 0.0
	for _, m := range mags[:len(mags)/8] {
		sum += m
	}
	energy := math.Sqrt(sum)

	now := a.now()
	if energy > beatThreshold && now.Sub(a.last) >= beatRefractory {
		a.beat = math.Min(1.0, energy-beatThreshold)
		a.last = now
	} else {
		a.beat *= beatDecay
	}
}

// rotateHue advances the hue faster on beats, wrapping at 360 degrees.
func (a *Analyzer) rotateHue() {
	a.hue = math.Mod(a.hue+hueBaseSpeed+a.beat*hueBeatBoost, 360)
}

// SpectrumBars returns a copy of the smoothed bars, each in [0, 1].
func (a *Analyzer) SpectrumBars() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]float64, len(a.bars))
	copy(out, a.bars)
	return out
}

// BeatIntensity returns the current beat intensity in [0, 1].
func (a *Analyzer) BeatIntensity() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.beat
}

// RainbowHue returns the current hue angle in degrees [0, 360).
func (a *Analyzer) RainbowHue() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hue
}

// HSVToRGB converts a hue in degrees with saturation and value in [0, 1] to
// an 8-bit RGB triple.
func HSVToRGB(h, s, v float64) (r, g, b uint8) {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var rf, gf, bf float64
	switch {
	case h < 60:
		rf, gf, bf = c, x, 0
	case h < 120:
		rf, gf, bf = x, c, 0
	case h < 180:
		rf, gf, bf = 0, c, x
	case h < 240:
		rf, gf, bf = 0, x, c
	case h < 300:
		rf, gf, bf = x, 0, c
	default:
		rf, gf, bf = c, 0, x
	}

	return uint8((rf + m) * 255), uint8((gf + m) * 255), uint8((bf + m) * 255)
}
