// Command wayfare runs bionic jolt: fall through the chunks, steer with the arrow keys or
// WASD, press Space to start over after a miss.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine"
	"github.com/Carmen-Shannon/wayfare/engine/audio"
	"github.com/Carmen-Shannon/wayfare/engine/config"
	"github.com/Carmen-Shannon/wayfare/engine/input"
	"github.com/Carmen-Shannon/wayfare/engine/logger"
	"github.com/Carmen-Shannon/wayfare/engine/renderer"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/wgpu_device"
	"github.com/Carmen-Shannon/wayfare/engine/window"
	"github.com/Carmen-Shannon/wayfare/game"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "wayfare:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags, err := config.ParseFlags("wayfare", args)
	if err != nil {
		return err
	}
	cfg, cfgPath, err := config.Load(flags)
	if err != nil {
		return err
	}

	if err := logger.InitWithFileConfig(cfg.Log.Level, logger.FileConfig{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	}, true); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	logger.Info("starting", zap.String("config", cfgPath), zap.String("level", cfg.Log.Level))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	keys := input.NewService()
	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithInput(keys),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	dev, err := wgpu_device.NewDevice(win.SurfaceDescriptor(),
		wgpu_device.WithVSync(cfg.Window.VSync),
		wgpu_device.WithFallbackAdapter(cfg.Renderer.FallbackAdapter),
	)
	if err != nil {
		return fmt.Errorf("create device: %w", err)
	}
	defer dev.Destroy()

	r, err := renderer.NewRenderer(dev, uint32(win.Width()), uint32(win.Height()), rendererOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	eng := engine.NewEngine(r,
		engine.WithSurface(win),
		engine.WithProfiling(cfg.Profiler.Enabled, time.Duration(cfg.Profiler.IntervalSeconds*float64(time.Second))),
	)
	defer eng.Destroy()

	sound := newAudio(cfg)
	defer sound.Close()
	win.SetFocusCallback(func(focused bool) {
		if focused {
			sound.Resume()
		} else {
			sound.Suspend()
		}
	})

	options := []game.GameBuilderOption{
		game.WithInput(keys),
		game.WithAudio(sound),
		game.WithMapSettings(game.MapSettingsFromConfig(cfg.Map)),
	}
	if cfg.Map.Seed != 0 {
		options = append(options, game.WithSeed(cfg.Map.Seed))
	}
	g := game.New(eng, options...)
	defer g.Close()
	if err := g.Start(); err != nil {
		return err
	}

	if cfgPath != "" {
		if err := config.Watch(ctx, cfgPath, g.ApplyConfig); err != nil {
			logger.Warn("config hot reload disabled", zap.Error(err))
		}
	}

	return eng.Run(ctx, g.Update)
}

// rendererOptions maps the renderer section of cfg. Zero values keep the renderer defaults.
func rendererOptions(cfg *config.Config) []renderer.RendererBuilderOption {
	c := cfg.Renderer.ClearColor
	options := []renderer.RendererBuilderOption{
		renderer.WithClearColor(common.Color{R: c[0], G: c[1], B: c[2], A: c[3]}),
	}
	if cfg.Renderer.Workers > 0 {
		options = append(options, renderer.WithWorkers(cfg.Renderer.Workers))
	}
	if cfg.Renderer.ParallelThreshold > 0 {
		options = append(options, renderer.WithParallelThreshold(cfg.Renderer.ParallelThreshold))
	}
	return options
}

// newAudio opens the speaker when audio is enabled. A speaker that fails to open leaves the
// game silent rather than stopping it.
func newAudio(cfg *config.Config) audio.Service {
	if cfg.Audio.Enabled {
		svc := audio.NewService(audio.WithMasterGain(cfg.Audio.MasterVolume))
		err := svc.Init(cfg.Audio.SampleRate)
		if err == nil {
			return svc
		}
		logger.Warn("audio unavailable, continuing muted", zap.Error(err))
	}
	svc := audio.NewService(audio.WithHeadless(true))
	_ = svc.Init(cfg.Audio.SampleRate)
	return svc
}
