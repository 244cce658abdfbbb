package game

import (
	"math"

	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine/audio"
	"github.com/Carmen-Shannon/wayfare/engine/scene"
	"github.com/Carmen-Shannon/wayfare/engine/world"
)

// windCutoff is the high-pass cutoff in Hz when no chunk is near.
const windCutoff = 1000

// Wind drives a wind channel from how close the listener is to the nearest chunk.
type Wind struct {
	w       *world.World
	svc     audio.Service
	channel *audio.WindChannel
}

// NewWind creates the wind system. The channel is opened on the first update.
func NewWind(w *world.World, svc audio.Service) *Wind {
	if w == nil || svc == nil {
		panic("game: NewWind requires a non-nil World and audio Service")
	}
	return &Wind{w: w, svc: svc}
}

// windLevels maps the vertical distance to the nearest chunk to a channel gain and a
// high-pass cutoff. Closer chunks are louder and let more low end through.
//
// Parameters:
//   - minDist: the distance to the nearest chunk
//
// Returns:
//   - gain: the linear gain in [0, 1]
//   - cutoff: the high-pass cutoff in Hz
func windLevels(minDist float32) (gain, cutoff float64) {
	c := common.Clamp01(1 - float64(minDist)*0.5)
	return c * c * c, windCutoff - math.Sqrt(c)*windCutoff
}

// Update retunes the channel. Nothing changes without a listener or without chunks.
func (wd *Wind) Update() {
	if wd.channel == nil {
		wd.channel = wd.svc.NewWindChannel()
	}

	id, _, ok := world.First[WindListener](wd.w)
	if !ok {
		return
	}
	listener, ok := world.Get[scene.Transform](wd.w, id)
	if !ok {
		return
	}

	minDist := float32(math.Inf(1))
	world.Each2(wd.w, func(_ world.Entity, _ *MapChunk, t *scene.Transform) {
		minDist = min(minDist, float32(math.Abs(float64(t.Position[1]-listener.Position[1]))))
	})
	if math.IsInf(float64(minDist), 1) {
		return
	}

	gain, cutoff := windLevels(minDist)
	wd.channel.SetGain(gain)
	wd.channel.SetHighPassFrequency(cutoff)
}

// Channel returns the wind channel, or nil before the first update.
func (wd *Wind) Channel() *audio.WindChannel {
	return wd.channel
}

// Close takes the channel out of the mix.
func (wd *Wind) Close() {
	if wd.channel != nil {
		wd.channel.Close()
		wd.channel = nil
	}
}
