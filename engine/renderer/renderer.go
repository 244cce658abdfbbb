// Package renderer draws registered objects through their materials. It owns the shared
// point-of-view uniforms, the per-object resource cache and the viewport depth buffer.
package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/wayfare/engine/camera"
	"github.com/Carmen-Shannon/wayfare/engine/logger"
	"github.com/Carmen-Shannon/wayfare/engine/mesh"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/device"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/material"
	"github.com/Carmen-Shannon/wayfare/engine/scene"
	"github.com/Carmen-Shannon/wayfare/engine/world"
	"go.uber.org/zap"
)

var (
	// ErrParametrizedOverride is returned by Render when the override material has parameters.
	ErrParametrizedOverride = errors.New("override material cannot have parameters")

	// ErrDestroyed is returned by Render after Destroy.
	ErrDestroyed = errors.New("renderer destroyed")

	// ErrParamsSize is returned when an object's parameter bytes do not match its material.
	ErrParamsSize = errors.New("material params size mismatch")
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	dev    device.Device
	format device.TextureFormat

	objects   []Object
	resources map[world.Entity]*ObjectResources

	// materials and meshes remember what was drawn on dev so Destroy can evict it.
	materials map[material.Material]struct{}
	meshes    map[mesh.Asset]struct{}

	shared material.SharedLayouts
	pov    bind_group_provider.BindGroupProvider

	viewport  *Viewport
	cameraCfg camera.Config
	view      camera.POV
	current   camera.POV

	workers           int
	parallelThreshold int
	pool              worker.DynamicWorkerPool

	destroyed bool
}

// Renderer draws the registered objects once per Render call. Objects are drawn in
// registration order; objects whose mesh is still loading are skipped for that frame.
type Renderer interface {
	// Device returns the device the renderer draws with.
	Device() device.Device

	// AddObject registers an object. Registering an id again replaces the previous entry in place.
	//
	// Parameters:
	//   - obj: the object; Mesh, World and Material must be set
	AddObject(obj Object)

	// RemoveObject unregisters an object and frees its cached resources.
	//
	// Parameters:
	//   - id: the object id
	RemoveObject(id world.Entity)

	// Objects returns the number of registered objects.
	Objects() int

	// Resources returns the cached resources for an object id, creating them on first use.
	// The same id yields the same resources until it is removed or its material changes.
	//
	// Parameters:
	//   - id: the object id
	//   - m: the object's material
	//
	// Returns:
	//   - *ObjectResources: the cached resources
	//   - error: error if a buffer, bind group or material layout could not be created
	Resources(id world.Entity, m material.Material) (*ObjectResources, error)

	// Render uploads uniforms and draws every registered object.
	//
	// Parameters:
	//   - overrides: optional redirection of the pass, or nil
	//
	// Returns:
	//   - error: ErrParametrizedOverride, ErrDestroyed, or a device error
	Render(overrides *Overrides) error

	// SetPOV sets the point of view from a camera transform and projection.
	//
	// Parameters:
	//   - t: the camera transform
	//   - cfg: the camera projection
	SetPOV(t scene.Transform, cfg camera.Config)

	// POV returns the current point of view.
	POV() camera.POV

	// UpdateViewport resizes the surface and depth buffer and recomputes the projection.
	// The view matrix is kept.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: error if the surface could not be reconfigured
	UpdateViewport(width, height uint32) error

	// Viewport returns the viewport.
	Viewport() *Viewport

	// Destroy releases every resource the renderer created and evicts the device from the
	// caches of every material and mesh it drew. It is idempotent.
	Destroy()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing to dev's surface.
//
// Parameters:
//   - dev: the device; the renderer does not destroy it
//   - width: the initial surface width in pixels
//   - height: the initial surface height in pixels
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: error if the shared layouts or POV buffer could not be created
func NewRenderer(dev device.Device, width, height uint32, options ...RendererBuilderOption) (Renderer, error) {
	if dev == nil {
		panic("renderer: NewRenderer requires a non-nil Device")
	}
	r := &renderer{
		mu:                &sync.Mutex{},
		dev:               dev,
		format:            dev.SurfaceFormat(),
		resources:         make(map[world.Entity]*ObjectResources),
		materials:         make(map[material.Material]struct{}),
		meshes:            make(map[mesh.Asset]struct{}),
		viewport:          NewViewport(dev, width, height),
		view:              camera.DefaultPOV(),
		current:           camera.DefaultPOV(),
		workers:           max(runtime.NumCPU()-1, 1),
		parallelThreshold: 64,
	}
	for _, opt := range options {
		opt(r)
	}

	if err := r.createShared(); err != nil {
		r.releaseShared()
		return nil, err
	}
	r.pool = worker.NewDynamicWorkerPool(r.workers, 256, 1*time.Second)
	return r, nil
}

// povEntries and objectEntries describe groups 0 and 1 of every material shader.
var (
	povEntries = []device.BindGroupLayoutEntry{{
		Binding:        0,
		Visibility:     device.ShaderStageVertex | device.ShaderStageFragment,
		Type:           device.BindingTypeUniform,
		MinBindingSize: camera.POVUniformSize,
	}}
	objectEntries = []device.BindGroupLayoutEntry{{
		Binding:        0,
		Visibility:     device.ShaderStageVertex | device.ShaderStageFragment,
		Type:           device.BindingTypeUniform,
		MinBindingSize: ObjectUniformsSize,
	}}
)

func (r *renderer) createShared() error {
	var err error
	r.shared.POV, err = r.dev.CreateBindGroupLayout(device.BindGroupLayoutDescriptor{Label: "pov", Entries: povEntries})
	if err != nil {
		return fmt.Errorf("create pov layout: %w", err)
	}
	r.shared.Object, err = r.dev.CreateBindGroupLayout(device.BindGroupLayoutDescriptor{Label: "object uniforms", Entries: objectEntries})
	if err != nil {
		return fmt.Errorf("create object layout: %w", err)
	}
	r.pov, err = bind_group_provider.NewBindGroupProvider(r.dev, "pov", r.shared.POV, povEntries)
	if err != nil {
		return fmt.Errorf("create pov buffer: %w", err)
	}
	return nil
}

func (r *renderer) releaseShared() {
	if r.pov != nil {
		r.pov.Release()
		r.pov = nil
	}
	if r.shared.POV != nil {
		r.shared.POV.Release()
	}
	if r.shared.Object != nil {
		r.shared.Object.Release()
	}
	r.shared = material.SharedLayouts{}
}

func (r *renderer) Device() device.Device {
	return r.dev
}

func (r *renderer) AddObject(obj Object) {
	if obj.Mesh == nil || obj.World == nil || obj.Material == nil {
		panic(fmt.Sprintf("renderer: AddObject requires a mesh, world matrix and material (object %d)", obj.ID))
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := slices.IndexFunc(r.objects, func(o Object) bool { return o.ID == obj.ID }); i >= 0 {
		r.objects[i] = obj
		return
	}
	r.objects = append(r.objects, obj)
	logger.Debug("render object added", zap.Uint32("id", uint32(obj.ID)), zap.Int("objects", len(r.objects)))
}

func (r *renderer) RemoveObject(id world.Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.objects = slices.DeleteFunc(r.objects, func(o Object) bool { return o.ID == id })
	if res, ok := r.resources[id]; ok {
		res.release()
		delete(r.resources, id)
	}
	logger.Debug("render object removed", zap.Uint32("id", uint32(id)), zap.Int("objects", len(r.objects)))
}

func (r *renderer) Objects() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.objects)
}

func (r *renderer) Resources(id world.Entity, m material.Material) (*ObjectResources, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resourcesFor(id, m)
}

func (r *renderer) resourcesFor(id world.Entity, m material.Material) (*ObjectResources, error) {
	if res, ok := r.resources[id]; ok {
		if res.material == m {
			return res, nil
		}
		res.release()
		delete(r.resources, id)
	}

	uniforms, err := bind_group_provider.NewBindGroupProvider(r.dev, fmt.Sprintf("object %d", id), r.shared.Object, objectEntries)
	if err != nil {
		return nil, fmt.Errorf("object %d uniforms: %w", id, err)
	}
	res := &ObjectResources{material: m, Uniforms: uniforms}

	if m.HasParams() {
		matRes, err := r.materialResources(m, r.format)
		if err != nil {
			uniforms.Release()
			return nil, err
		}
		res.Params, err = bind_group_provider.NewBindGroupProvider(
			r.dev,
			fmt.Sprintf("object %d params", id),
			matRes.ParamsLayout,
			m.Shader().BindGroupLayoutEntries(material.GroupParams),
			bind_group_provider.WithBufferSize(0, m.ParamsSize()),
		)
		if err != nil {
			uniforms.Release()
			return nil, fmt.Errorf("object %d params: %w", id, err)
		}
	}

	r.resources[id] = res
	return res, nil
}

func (r *renderer) materialResources(m material.Material, format device.TextureFormat) (*material.Resources, error) {
	r.materials[m] = struct{}{}
	return m.Resources(r.dev, format, r.shared)
}

func (r *renderer) Render(overrides *Overrides) error {
	if overrides == nil {
		overrides = &Overrides{}
	}
	if overrides.Material != nil && overrides.Material.HasParams() {
		return fmt.Errorf("%w: %s", ErrParametrizedOverride, overrides.Material.Name())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return ErrDestroyed
	}

	if err := r.uploadUniforms(); err != nil {
		return err
	}

	format := r.format
	colors := overrides.ColorAttachments
	if colors == nil {
		target, err := r.dev.CurrentTextureView()
		if err != nil {
			return fmt.Errorf("acquire surface: %w", err)
		}
		colors = []device.ColorAttachment{{View: target, Load: device.LoadOpClear, Clear: r.current.Clear}}
	} else if overrides.ColorFormat != device.TextureFormatUndefined {
		format = overrides.ColorFormat
	}

	depth := overrides.DepthAttachment
	if depth == nil {
		view, err := r.viewport.DepthView()
		if err != nil {
			return err
		}
		depth = &device.DepthAttachment{View: view, Load: device.LoadOpClear, Clear: 1}
	}

	pass, err := r.dev.BeginRenderPass(device.RenderPassDescriptor{
		Label:            "main",
		ColorAttachments: colors,
		DepthAttachment:  depth,
	})
	if err != nil {
		return fmt.Errorf("begin render pass: %w", err)
	}

	drawErr := r.draw(pass, overrides, format)
	if err := pass.End(); err != nil && drawErr == nil {
		drawErr = fmt.Errorf("end render pass: %w", err)
	}
	if drawErr != nil {
		return drawErr
	}

	if err := r.dev.Submit(); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if p, ok := r.dev.(device.Presenter); ok {
		if err := p.Present(); err != nil {
			return fmt.Errorf("present: %w", err)
		}
	}
	return nil
}

// uploadUniforms writes the POV and every object's uniforms and params. Matrix work for
// large object sets is spread over the worker pool; device writes stay on this goroutine.
func (r *renderer) uploadUniforms() error {
	writes := make([]bind_group_provider.BufferWrite, 0, 2*len(r.objects)+1)
	writes = append(writes, bind_group_provider.BufferWrite{Provider: r.pov, Binding: 0, Data: r.current.Marshal()})

	uniforms := r.prepareUniforms()
	for i, obj := range r.objects {
		res, err := r.resourcesFor(obj.ID, obj.Material)
		if err != nil {
			return err
		}
		writes = append(writes, bind_group_provider.BufferWrite{Provider: res.Uniforms, Binding: 0, Data: uniforms[i]})

		if res.Params == nil {
			continue
		}
		var params []byte
		if obj.Params != nil {
			params = obj.Params()
		}
		if params == nil {
			params = obj.Material.DefaultParams()
		}
		if uint64(len(params)) != obj.Material.ParamsSize() {
			return fmt.Errorf("%w: object %d has %d bytes, material %s wants %d",
				ErrParamsSize, obj.ID, len(params), obj.Material.Name(), obj.Material.ParamsSize())
		}
		writes = append(writes, bind_group_provider.BufferWrite{Provider: res.Params, Binding: 0, Data: params})
	}
	return bind_group_provider.Apply(writes)
}

// prepareUniforms computes the marshalled ObjectUniforms of every object, in object order.
func (r *renderer) prepareUniforms() [][]byte {
	out := make([][]byte, len(r.objects))
	if len(r.objects) < r.parallelThreshold || r.workers < 2 {
		for i, obj := range r.objects {
			out[i] = NewObjectUniforms(*obj.World).Marshal()
		}
		return out
	}

	chunk := (len(r.objects) + r.workers - 1) / r.workers
	var wg sync.WaitGroup
	for id, start := 0, 0; start < len(r.objects); id, start = id+1, start+chunk {
		end := min(start+chunk, len(r.objects))
		wg.Add(1)
		r.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i := start; i < end; i++ {
					out[i] = NewObjectUniforms(*r.objects[i].World).Marshal()
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	return out
}

func (r *renderer) draw(pass device.RenderPass, overrides *Overrides, format device.TextureFormat) error {
	for _, obj := range r.objects {
		if overrides.Filter != nil && !overrides.Filter(obj.ID) {
			continue
		}

		r.meshes[obj.Mesh] = struct{}{}
		m, ready := obj.Mesh.Peek(r.dev)
		if !ready {
			continue
		}

		mat := obj.Material
		if overrides.Material != nil {
			mat = overrides.Material
		}
		if mat.InstanceLayout() != nil && obj.Instances == nil {
			continue
		}
		if mat.UsesExtra() && obj.Extra == nil {
			continue
		}

		matRes, err := r.materialResources(mat, format)
		if err != nil {
			return err
		}
		res, err := r.resourcesFor(obj.ID, obj.Material)
		if err != nil {
			return err
		}

		pass.SetPipeline(matRes.Pipeline)
		pass.SetBindGroup(material.GroupPOV, r.pov.BindGroup())
		pass.SetBindGroup(material.GroupObject, res.Uniforms.BindGroup())
		pass.SetVertexBuffer(material.SlotMesh, m.VertexBuffer)

		switch {
		case overrides.Material == nil && res.Params != nil:
			pass.SetBindGroup(material.GroupParams, res.Params.BindGroup())
		case matRes.EmptyGroup != nil:
			pass.SetBindGroup(material.GroupParams, matRes.EmptyGroup)
		}

		instances := uint32(1)
		if mat.InstanceLayout() != nil {
			pass.SetVertexBuffer(material.SlotInstance, obj.Instances.Buffer)
			instances = obj.Instances.Count
		}
		if mat.UsesExtra() {
			pass.SetBindGroup(material.GroupExtra, obj.Extra)
		}

		pass.Draw(m.VertexCount, instances)
	}
	return nil
}

func (r *renderer) SetPOV(t scene.Transform, cfg camera.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.View = camera.ComputeView(t)
	r.cameraCfg = cfg
	r.updateProjection()
}

// updateProjection recomputes the projection from the camera config and viewport aspect.
// Without a camera config the previous POV is kept.
func (r *renderer) updateProjection() {
	if r.cameraCfg == nil {
		return
	}
	r.current = camera.NewPOV(r.view.View, r.cameraCfg.Projection(r.viewport.Aspect()), r.cameraCfg.ClearColor())
}

func (r *renderer) POV() camera.POV {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *renderer) UpdateViewport(width, height uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.viewport.Resize(width, height)
	r.updateProjection()
	if err := r.dev.ConfigureSurface(r.viewport.Width(), r.viewport.Height()); err != nil {
		return fmt.Errorf("configure surface %dx%d: %w", width, height, err)
	}
	logger.Info("viewport resized", zap.Uint32("width", r.viewport.Width()), zap.Uint32("height", r.viewport.Height()))
	return nil
}

func (r *renderer) Viewport() *Viewport {
	return r.viewport
}

func (r *renderer) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return
	}
	r.destroyed = true

	r.pool.Stop()
	for id, res := range r.resources {
		res.release()
		delete(r.resources, id)
	}
	r.objects = nil

	root := r.dev.ID()
	for m := range r.materials {
		m.Evict(root)
	}
	for a := range r.meshes {
		a.Evict(root)
	}
	r.viewport.Release()
	r.releaseShared()
	logger.Debug("renderer destroyed", zap.Int("materials", len(r.materials)), zap.Int("meshes", len(r.meshes)))
}
