package game

import (
	"github.com/Carmen-Shannon/wayfare/engine/audio"
	"github.com/Carmen-Shannon/wayfare/engine/camera"
	"github.com/Carmen-Shannon/wayfare/engine/input"
)

// GameBuilderOption is a functional option for configuring a Game.
type GameBuilderOption func(*Game)

// WithInput reads the controls from svc. Defaults to a private service nothing feeds.
//
// Parameters:
//   - svc: the input service, usually the one the window feeds
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithInput(svc input.Service) GameBuilderOption {
	return func(g *Game) {
		if svc != nil {
			g.input = svc
		}
	}
}

// WithAudio plays the wind on svc. Defaults to a headless service.
func WithAudio(svc audio.Service) GameBuilderOption {
	return func(g *Game) {
		if svc != nil {
			g.audio = svc
		}
	}
}

// WithSeed fixes the seed of chunk placement and particle scattering.
//
// Parameters:
//   - seed: the random seed
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithSeed(seed uint64) GameBuilderOption {
	return func(g *Game) {
		g.seed = seed
	}
}

// WithMapSettings replaces the default streaming settings.
func WithMapSettings(s MapSettings) GameBuilderOption {
	return func(g *Game) {
		g.settings = s
	}
}

// WithControls replaces the default control table. It must define ControlMovement and
// ControlShoot.
func WithControls(controls map[string]input.Control) GameBuilderOption {
	return func(g *Game) {
		g.controls = controls
	}
}

// WithFollowController replaces the camera follow behaviour.
func WithFollowController(fc camera.FollowController) GameBuilderOption {
	return func(g *Game) {
		g.follow = fc
	}
}
