package game

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine/audio"
	"github.com/Carmen-Shannon/wayfare/engine/scene"
	"github.com/Carmen-Shannon/wayfare/engine/world"
)

func TestWindLevels(t *testing.T) {
	tests := []struct {
		dist   float32
		gain   float64
		cutoff float64
	}{
		{0, 1, 0},
		{1, 0.125, 1000 - math.Sqrt(0.5)*1000},
		{2, 0, 1000},
		{50, 0, 1000},
	}

	for _, tt := range tests {
		gain, cutoff := windLevels(tt.dist)
		if math.Abs(gain-tt.gain) > 1e-9 {
			t.Errorf("Expected gain %f at distance %f, got %f", tt.gain, tt.dist, gain)
		}
		if math.Abs(cutoff-tt.cutoff) > 1e-6 {
			t.Errorf("Expected cutoff %f at distance %f, got %f", tt.cutoff, tt.dist, cutoff)
		}
	}
}

func TestWindFollowsNearestChunk(t *testing.T) {
	w := world.NewWorld()
	wind := NewWind(w, audio.NewService(audio.WithHeadless(true), audio.WithSeed(1)))
	t.Cleanup(wind.Close)

	w.Spawn(world.With(WindListener{}), world.With(scene.DefaultTransform()))
	wind.Update()
	if wind.Channel() == nil {
		t.Fatal("Expected the channel to open on the first update")
	}
	if wind.Channel().Gain() != 1 {
		t.Errorf("Expected levels untouched without chunks, got gain %f", wind.Channel().Gain())
	}

	for _, y := range []float32{-5, -1, 3} {
		tr := scene.DefaultTransform()
		tr.Position = common.Vec3{0, y, 0}
		w.Spawn(world.With(MapChunk{Length: 1}), world.With(tr))
	}
	wind.Update()

	if g := wind.Channel().Gain(); math.Abs(g-0.125) > 1e-6 {
		t.Errorf("Expected gain 0.125 one unit from a chunk, got %f", g)
	}
	want := 1000 - math.Sqrt(0.5)*1000
	if f := wind.Channel().HighPassFrequency(); math.Abs(f-want) > 1e-3 {
		t.Errorf("Expected cutoff %f, got %f", want, f)
	}
}
