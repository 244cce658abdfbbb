// Package engine runs the frame loop: it owns the world and transform graph, runs the
// built-in systems in a fixed order around the gameplay callback and hands the result to
// the renderer.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine/camera"
	"github.com/Carmen-Shannon/wayfare/engine/logger"
	"github.com/Carmen-Shannon/wayfare/engine/profiler"
	"github.com/Carmen-Shannon/wayfare/engine/renderer"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/material"
	"github.com/Carmen-Shannon/wayfare/engine/scene"
	"github.com/Carmen-Shannon/wayfare/engine/world"
	"go.uber.org/zap"
)

var (
	// ErrMeshWithoutTransform is returned by Frame when a Mesh is added to an entity that has
	// no scene.Transform.
	ErrMeshWithoutTransform = errors.New("mesh added to an entity without a transform")

	// ErrDestroyed is returned by Frame and Run after Destroy.
	ErrDestroyed = errors.New("engine destroyed")

	// ErrFramePanic is returned by Run when the frame callback panicked.
	ErrFramePanic = errors.New("frame panicked")
)

// FrameFunc is the gameplay callback run once per frame after Time is set and before any
// built-in system. A returned error stops Run.
type FrameFunc func(deltaSeconds float32) error

// Surface is the presentation surface driving Run. The window package implements it.
type Surface interface {
	// PollEvents dispatches pending window events, including resize callbacks.
	PollEvents()

	// ShouldClose reports whether the user asked to close the surface.
	ShouldClose() bool

	// SetResizeCallback registers the function called with the new framebuffer size.
	SetResizeCallback(callback func(width, height int))
}

// engine implements the Engine interface.
type engine struct {
	frameMu sync.Mutex

	w        *world.World
	graph    scene.Graph
	renderer renderer.Renderer
	surface  Surface

	onFrame FrameFunc
	elapsed float64

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once
	destroyed   bool

	profiler         *profiler.Profiler
	profilingEnabled bool
	profileInterval  time.Duration

	graphOptions []scene.GraphBuilderOption
	frameLimit   time.Duration // minimum frame duration; 0 = uncapped
	maxDelta     time.Duration
}

// Engine owns the world, the transform graph and the renderer, and advances them one frame
// at a time.
type Engine interface {
	// World returns the entity world.
	World() *world.World

	// Graph returns the transform graph of the world.
	Graph() scene.Graph

	// Renderer returns the renderer frames are drawn with.
	Renderer() renderer.Renderer

	// SetFrameCallback registers the gameplay callback used by Frame.
	//
	// Parameters:
	//   - callback: the callback, or nil to run only the built-in systems
	SetFrameCallback(callback FrameFunc)

	// Frame runs one frame: Time, the frame callback, velocity integration, the transform
	// graph, added meshes, removed meshes, the active camera and rendering, in that order.
	//
	// Parameters:
	//   - deltaSeconds: the time since the previous frame
	//
	// Returns:
	//   - error: the callback error, ErrMeshWithoutTransform, a graph or render error, or
	//     ErrDestroyed
	Frame(deltaSeconds float32) error

	// Run polls the surface and runs frames until ctx is done, the surface closes, Stop is
	// called or a frame fails. Panics raised by the frame callback are recovered, logged
	// and returned as ErrFramePanic.
	//
	// Parameters:
	//   - ctx: stops the loop when done
	//   - onFrame: the gameplay callback; nil keeps the registered one
	//
	// Returns:
	//   - error: nil on a clean stop, otherwise the error that ended the loop
	Run(ctx context.Context, onFrame FrameFunc) error

	// EnableProfiler enables frame statistics output to the log.
	EnableProfiler()

	// DisableProfiler disables frame statistics output.
	DisableProfiler()

	// SetFrameLimit sets an optional frame rate cap. Pass 0 to uncap the loop.
	SetFrameLimit(fps float64)

	// Stop ends Run after the current frame. Safe to call from the frame callback and
	// multiple times.
	Stop()

	// Destroy stops the engine, releases the renderer, evicts the device from every mesh in
	// the world and clears the world. It is idempotent and must not be called from the
	// frame callback.
	Destroy()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine drawing with r. A fresh world and transform graph are
// created and mesh tracking is enabled before any entity exists.
//
// Parameters:
//   - r: the renderer; the engine destroys it on Destroy
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(r renderer.Renderer, options ...EngineBuilderOption) Engine {
	if r == nil {
		panic("engine: NewEngine requires a non-nil Renderer")
	}
	e := &engine{
		w:           world.NewWorld(),
		renderer:    r,
		quitChannel: make(chan struct{}),
		maxDelta:    100 * time.Millisecond,
	}

	for _, opt := range options {
		opt(e)
	}

	e.graph = scene.NewGraph(e.w, e.graphOptions...)
	world.Track[Mesh](e.w)
	world.SetResource(e.w, Time{})
	e.profiler = profiler.NewProfiler(e.profileInterval)

	if e.surface != nil {
		e.surface.SetResizeCallback(func(width, height int) {
			if width <= 0 || height <= 0 {
				return
			}
			if err := e.renderer.UpdateViewport(uint32(width), uint32(height)); err != nil {
				logger.Error("viewport update failed", zap.Int("width", width), zap.Int("height", height), zap.Error(err))
			}
		})
	}

	return e
}

func (e *engine) World() *world.World {
	return e.w
}

func (e *engine) Graph() scene.Graph {
	return e.graph
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) SetFrameCallback(callback FrameFunc) {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	e.onFrame = callback
}

func (e *engine) Frame(deltaSeconds float32) error {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	if e.destroyed {
		return ErrDestroyed
	}

	e.elapsed += float64(deltaSeconds)
	world.SetResource(e.w, Time{DeltaSeconds: deltaSeconds, Elapsed: e.elapsed})

	if e.onFrame != nil {
		if err := e.onFrame(deltaSeconds); err != nil {
			return err
		}
	}

	e.integrateVelocity(deltaSeconds)

	if err := e.graph.Update(); err != nil {
		return err
	}
	if err := e.addMeshes(); err != nil {
		return err
	}
	e.removeMeshes()
	e.updatePOV()

	return e.renderer.Render(nil)
}

// integrateVelocity moves every transform with a Velocity.
func (e *engine) integrateVelocity(dt float32) {
	world.Each2(e.w, func(_ world.Entity, v *Velocity, t *scene.Transform) {
		t.Position = t.Position.Add(common.Vec3(*v).Scale(dt))
	})
}

// addMeshes registers the entities that gained a Mesh since the previous frame. World and
// params are handed to the renderer as live views into the world.
func (e *engine) addMeshes() error {
	for _, id := range world.Added[Mesh](e.w) {
		m, ok := world.Get[Mesh](e.w, id)
		if !ok {
			continue
		}
		if !world.Has[scene.Transform](e.w, id) {
			return fmt.Errorf("%w: entity %d", ErrMeshWithoutTransform, id)
		}
		mats := world.GetOrInsert(e.w, id, scene.NewMatrices)

		mat := material.BlinnPhong()
		if ref, ok := world.Get[MaterialRef](e.w, id); ok && ref.Material != nil {
			mat = ref.Material
		}

		obj := renderer.Object{
			ID:       id,
			Mesh:     m.Asset,
			World:    &mats.World,
			Material: mat,
			Params:   e.paramsOf(id),
		}
		if inst, ok := world.Get[renderer.InstanceBuffer](e.w, id); ok {
			obj.Instances = inst
		}
		if extra, ok := world.Get[Extra](e.w, id); ok {
			obj.Extra = extra.BindGroup
		}
		e.renderer.AddObject(obj)
		logger.Debug("object added", zap.Uint32("entity", uint32(id)), zap.String("material", mat.Name()),
			zap.Int("objects", e.renderer.Objects()))
	}
	return nil
}

// paramsOf reads the MaterialRef of id each time it is called, so replacing the reference
// or its getter takes effect on the next frame.
func (e *engine) paramsOf(id world.Entity) func() []byte {
	return func() []byte {
		ref, ok := world.Get[MaterialRef](e.w, id)
		if !ok || ref.Params == nil {
			return nil
		}
		return ref.Params()
	}
}

func (e *engine) removeMeshes() {
	for _, id := range world.Removed[Mesh](e.w) {
		e.renderer.RemoveObject(id)
		logger.Debug("object removed", zap.Uint32("entity", uint32(id)), zap.Int("objects", e.renderer.Objects()))
	}
}

// updatePOV points the renderer at the first active camera. Without one, or while it lacks
// a transform or projection, the previous point of view is kept.
func (e *engine) updatePOV() {
	id, _, ok := world.First[camera.ActiveCamera](e.w)
	if !ok {
		return
	}
	t, ok := world.Get[scene.Transform](e.w, id)
	if !ok {
		return
	}
	cam, ok := world.Get[camera.Camera](e.w, id)
	if !ok || cam.Config == nil {
		return
	}
	e.renderer.SetPOV(*t, cam.Config)
}

func (e *engine) Run(ctx context.Context, onFrame FrameFunc) (err error) {
	if onFrame != nil {
		e.SetFrameCallback(onFrame)
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("frame loop recovered from panic", zap.Any("panic", r), zap.Stack("stack"))
			e.Stop()
			err = fmt.Errorf("%w: %v", ErrFramePanic, r)
		}
	}()

	logger.Info("engine started")
	defer logger.Info("engine stopped")

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-e.quitChannel:
			return nil
		default:
		}

		if e.surface != nil {
			e.surface.PollEvents()
			if e.surface.ShouldClose() {
				e.Stop()
				return nil
			}
		}

		start := time.Now()
		dt := min(start.Sub(last), e.maxDelta)
		last = start

		if err := e.Frame(float32(dt.Seconds())); err != nil {
			e.Stop()
			if errors.Is(err, ErrDestroyed) {
				return nil
			}
			logger.Error("frame failed", zap.Error(err))
			return err
		}

		frame := time.Since(start)
		if e.profilingEnabled {
			e.profiler.Tick(frame, e.renderer.Objects())
		}

		if e.frameLimit > 0 {
			if remaining := e.frameLimit - frame; remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetFrameLimit sets an optional frame rate cap.
// Pass 0 to uncap the loop.
func (e *engine) SetFrameLimit(fps float64) {
	if fps <= 0 {
		e.frameLimit = 0
		return
	}
	e.frameLimit = time.Duration(float64(time.Second) / fps)
}

// Stop closes the quit channel to signal the loop to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) Stop() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) Destroy() {
	e.Stop()

	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	if e.destroyed {
		return
	}
	e.destroyed = true

	root := e.renderer.Device().ID()
	e.renderer.Destroy()
	world.Each(e.w, func(_ world.Entity, m *Mesh) {
		if m.Asset != nil {
			m.Asset.Evict(root)
		}
	})
	world.Each(e.w, func(_ world.Entity, inst *renderer.InstanceBuffer) {
		if inst.Buffer != nil {
			inst.Buffer.Release()
		}
	})
	e.w.Clear()
	logger.Info("engine destroyed")
}
