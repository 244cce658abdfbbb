package audio

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"golang.org/x/exp/rand"
)

// FilterType selects the response of a biquad filter.
type FilterType int

const (
	LowPass FilterType = iota
	HighPass
)

// minFilterFrequency keeps the filter poles away from DC where the coefficients degenerate.
const minFilterFrequency = 10.0

// noise is an endless white noise generator.
type noise struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewNoise creates a white noise streamer producing samples uniformly in [-1, 1).
//
// Parameters:
//   - seed: the random seed
//
// Returns:
//   - beep.Streamer: the noise source, which never drains
func NewNoise(seed uint64) beep.Streamer {
	return &noise{rng: rand.New(rand.NewSource(seed))}
}

func (n *noise) Stream(samples [][2]float64) (int, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := range samples {
		v := n.rng.Float64()*2 - 1
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (n *noise) Err() error { return nil }

// Biquad is a second order filter streamer whose cutoff can be changed while it plays.
type Biquad struct {
	Streamer beep.Streamer

	typ        FilterType
	sampleRate beep.SampleRate
	q          float64
	frequency  atomic.Uint64

	applied            float64
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     [2]float64
}

// NewBiquad creates a filter over s using the RBJ cookbook coefficients.
//
// Parameters:
//   - s: the input streamer
//   - typ: LowPass or HighPass
//   - sampleRate: the stream's sample rate
//   - frequency: the cutoff frequency in Hz
//   - q: the resonance, 1 matching the web audio default
//
// Returns:
//   - *Biquad: the filter
func NewBiquad(s beep.Streamer, typ FilterType, sampleRate beep.SampleRate, frequency, q float64) *Biquad {
	b := &Biquad{Streamer: s, typ: typ, sampleRate: sampleRate, q: q}
	b.SetFrequency(frequency)
	b.update(b.Frequency())
	return b
}

// SetFrequency changes the cutoff. It is clamped to (10 Hz, Nyquist) and takes effect on the next
// streamed buffer, so it is safe to call while the speaker is pulling samples.
func (b *Biquad) SetFrequency(hz float64) {
	nyquist := float64(b.sampleRate) / 2
	hz = math.Max(minFilterFrequency, math.Min(hz, nyquist*0.99))
	b.frequency.Store(math.Float64bits(hz))
}

// Frequency returns the current cutoff in Hz.
func (b *Biquad) Frequency() float64 {
	return math.Float64frombits(b.frequency.Load())
}

func (b *Biquad) update(hz float64) {
	w0 := 2 * math.Pi * hz / float64(b.sampleRate)
	cos := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * b.q)

	var b0, b1, b2 float64
	switch b.typ {
	case HighPass:
		b0 = (1 + cos) / 2
		b1 = -(1 + cos)
		b2 = (1 + cos) / 2
	default:
		b0 = (1 - cos) / 2
		b1 = 1 - cos
		b2 = (1 - cos) / 2
	}
	a0 := 1 + alpha
	b.b0, b.b1, b.b2 = b0/a0, b1/a0, b2/a0
	b.a1, b.a2 = -2*cos/a0, (1-alpha)/a0
	b.applied = hz
}

func (b *Biquad) Stream(samples [][2]float64) (int, bool) {
	if hz := b.Frequency(); hz != b.applied {
		b.update(hz)
	}
	n, ok := b.Streamer.Stream(samples)
	for i := range samples[:n] {
		for c := range 2 {
			x := samples[i][c]
			y := b.b0*x + b.b1*b.x1[c] + b.b2*b.x2[c] - b.a1*b.y1[c] - b.a2*b.y2[c]
			b.x2[c], b.x1[c] = b.x1[c], x
			b.y2[c], b.y1[c] = b.y1[c], y
			samples[i][c] = y
		}
	}
	return n, ok
}

func (b *Biquad) Err() error { return b.Streamer.Err() }

// Gain scales a streamer by a linear factor that can be changed while it plays.
type Gain struct {
	Streamer beep.Streamer
	gain     atomic.Uint64
}

// NewGain creates a gain node over s.
func NewGain(s beep.Streamer, gain float64) *Gain {
	g := &Gain{Streamer: s}
	g.SetGain(gain)
	return g
}

// SetGain sets the linear gain. Negative values are treated as 0.
func (g *Gain) SetGain(gain float64) {
	g.gain.Store(math.Float64bits(math.Max(gain, 0)))
}

// Value returns the current linear gain.
func (g *Gain) Value() float64 {
	return math.Float64frombits(g.gain.Load())
}

func (g *Gain) Stream(samples [][2]float64) (int, bool) {
	n, ok := g.Streamer.Stream(samples)
	gain := g.Value()
	for i := range samples[:n] {
		samples[i][0] *= gain
		samples[i][1] *= gain
	}
	return n, ok
}

func (g *Gain) Err() error { return g.Streamer.Err() }
