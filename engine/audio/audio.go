package audio

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/wayfare/engine/logger"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

const (
	// DefaultSampleRate is used when Init receives a non-positive rate.
	DefaultSampleRate = beep.SampleRate(48000)

	// DefaultMasterGain matches the level every channel is mixed down to.
	DefaultMasterGain = 0.2

	windFilterFrequency = 1000.0
	windFilterQ         = 1.0
)

// audioService is the implementation of the Service interface.
type audioService struct {
	mu         sync.Mutex
	headless   bool
	masterGain float64
	seed       uint64

	sampleRate  beep.SampleRate
	mixer       *beep.Mixer
	ctrl        *beep.Ctrl
	master      *effects.Volume
	initialized bool
	speakerOn   bool
}

// Service owns the master mix of a running game. Channels are added to the mix and play
// until they are closed.
//
// Usage pattern:
//  1. NewService creates the service, optionally headless
//  2. Init opens the speaker (skipped when headless)
//  3. Channels such as NewWindChannel are created and tuned from the frame goroutine
//  4. Suspend / Resume follow window focus
//  5. Close stops playback
type Service interface {
	// Init prepares the mix and opens the speaker unless the service is headless.
	// Calling Init twice is a no-op.
	//
	// Parameters:
	//   - sampleRate: the output sample rate in Hz, DefaultSampleRate when <= 0
	//
	// Returns:
	//   - error: error if the speaker cannot be opened
	Init(sampleRate int) error

	// Close stops playback and drops every channel.
	Close()

	// Suspend silences the master output, e.g. when the window loses focus.
	Suspend()

	// Resume un-silences the master output.
	Resume()

	// Suspended reports whether the master output is silenced.
	Suspended() bool

	// SampleRate returns the rate the service was initialized with.
	SampleRate() beep.SampleRate

	// Play adds a streamer to the master mix.
	Play(s beep.Streamer)

	// NewWindChannel creates a wind channel and adds it to the master mix.
	//
	// Returns:
	//   - *WindChannel: the channel, whose gain and high-pass cutoff may be tuned per frame
	NewWindChannel() *WindChannel

	// Master returns the master output. A headless service is pulled through it directly.
	Master() beep.Streamer
}

var _ Service = &audioService{}

// NewService creates an audio service. Nothing plays until Init is called.
//
// Parameters:
//   - options: builder options, e.g. WithHeadless or WithMasterGain
//
// Returns:
//   - Service: the audio service
func NewService(options ...ServiceBuilderOption) Service {
	s := &audioService{
		masterGain: DefaultMasterGain,
		seed:       uint64(time.Now().UnixNano()),
		sampleRate: DefaultSampleRate,
		mixer:      &beep.Mixer{},
	}
	for _, opt := range options {
		opt(s)
	}
	s.ctrl = &beep.Ctrl{Streamer: s.mixer}
	s.master = newVolume(s.ctrl, s.masterGain)
	return s
}

// newVolume converts a linear gain into an effects.Volume, which works in powers of two.
func newVolume(st beep.Streamer, gain float64) *effects.Volume {
	if gain <= 0 {
		return &effects.Volume{Streamer: st, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: st, Base: 2, Volume: math.Log2(gain)}
}

func (s *audioService) Init(sampleRate int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}
	if sampleRate > 0 {
		s.sampleRate = beep.SampleRate(sampleRate)
	}

	if !s.headless {
		if err := speaker.Init(s.sampleRate, s.sampleRate.N(100*time.Millisecond)); err != nil {
			return fmt.Errorf("audio: init speaker at %d Hz: %w", s.sampleRate, err)
		}
		speaker.Play(lockedStreamer{s})
		s.speakerOn = true
	}
	s.initialized = true
	logger.Info("audio initialized", zap.Int("sampleRate", int(s.sampleRate)), zap.Bool("headless", s.headless))
	return nil
}

func (s *audioService) Close() {
	s.mu.Lock()
	speakerOn := s.speakerOn
	s.mixer.Clear()
	s.initialized = false
	s.speakerOn = false
	s.mu.Unlock()

	if speakerOn {
		speaker.Clear()
		speaker.Close()
	}
}

func (s *audioService) Suspend() {
	s.mu.Lock()
	s.ctrl.Paused = true
	s.mu.Unlock()
}

func (s *audioService) Resume() {
	s.mu.Lock()
	s.ctrl.Paused = false
	s.mu.Unlock()
}

func (s *audioService) Suspended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Paused
}

func (s *audioService) SampleRate() beep.SampleRate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampleRate
}

func (s *audioService) Play(st beep.Streamer) {
	s.mu.Lock()
	s.mixer.Add(st)
	s.mu.Unlock()
}

func (s *audioService) NewWindChannel() *WindChannel {
	s.mu.Lock()
	rate := s.sampleRate
	s.seed++
	seed := s.seed
	s.mu.Unlock()

	lowPass := NewBiquad(NewNoise(seed), LowPass, rate, windFilterFrequency, windFilterQ)
	highPass := NewBiquad(lowPass, HighPass, rate, windFilterFrequency, windFilterQ)
	ch := &WindChannel{
		highPass: highPass,
		gain:     NewGain(highPass, 1),
	}
	s.Play(ch)
	return ch
}

func (s *audioService) Master() beep.Streamer {
	return lockedStreamer{s}
}

// lockedStreamer pulls the master mix under the service lock so channels can be added from
// the frame goroutine while the speaker goroutine streams.
type lockedStreamer struct {
	s *audioService
}

func (l lockedStreamer) Stream(samples [][2]float64) (int, bool) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.master.Stream(samples)
}

func (l lockedStreamer) Err() error { return nil }

// WindChannel is filtered white noise whose loudness and brightness follow the scenery.
// It stays in the mix until Close.
type WindChannel struct {
	highPass *Biquad
	gain     *Gain
	closed   atomic.Bool
}

// SetGain sets the channel's linear gain.
func (w *WindChannel) SetGain(gain float64) {
	w.gain.SetGain(gain)
}

// Gain returns the channel's linear gain.
func (w *WindChannel) Gain() float64 {
	return w.gain.Value()
}

// SetHighPassFrequency moves the high-pass cutoff in Hz.
func (w *WindChannel) SetHighPassFrequency(hz float64) {
	w.highPass.SetFrequency(hz)
}

// HighPassFrequency returns the high-pass cutoff in Hz.
func (w *WindChannel) HighPassFrequency() float64 {
	return w.highPass.Frequency()
}

// Close removes the channel from the mix on the next streamed buffer.
func (w *WindChannel) Close() {
	w.closed.Store(true)
}

func (w *WindChannel) Stream(samples [][2]float64) (int, bool) {
	if w.closed.Load() {
		return 0, false
	}
	return w.gain.Stream(samples)
}

func (w *WindChannel) Err() error { return nil }
