// Package mesh holds vertex geometry and the per-device cache that uploads it to GPU buffers.
package mesh

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/wayfare/engine/renderer/device"
	"github.com/google/uuid"
)

var (
	// ErrNoSource is returned when an asset was built without data or a generator.
	ErrNoSource = errors.New("mesh asset has no source")

	// ErrDestroyed is returned by Get after Destroy has been called.
	ErrDestroyed = errors.New("mesh asset destroyed")

	// ErrEmpty is returned when the source produced no vertices.
	ErrEmpty = errors.New("mesh asset has no vertices")
)

// Generator produces mesh data on demand. It may block, e.g. to decode a file.
type Generator func(ctx context.Context) (Data, error)

// entry is the upload state of an asset on one device.
type entry struct {
	done chan struct{}
	mesh *Mesh
	err  error
}

// asset is the implementation of the Asset interface.
type asset struct {
	mu        sync.Mutex
	label     string
	generator Generator

	dataOnce sync.Once
	data     Data
	dataErr  error

	entries   map[uuid.UUID]*entry
	destroyed bool
}

// Asset is a device-independent mesh handle. Geometry is resolved once and uploaded lazily
// to each device that asks for it, keyed by the device id.
type Asset interface {
	// Label returns the debug label of the asset.
	Label() string

	// Preload resolves the CPU-side geometry without touching any device.
	//
	// Parameters:
	//   - ctx: cancels a blocking generator
	//
	// Returns:
	//   - error: the generator error, if any
	Preload(ctx context.Context) error

	// Get returns the mesh for dev, uploading it on first use and blocking until it is ready.
	//
	// Parameters:
	//   - ctx: cancels the wait
	//   - dev: the device to upload to
	//
	// Returns:
	//   - *Mesh: the uploaded mesh
	//   - error: the load or upload error, ctx.Err(), or ErrDestroyed
	Get(ctx context.Context, dev device.Device) (*Mesh, error)

	// Peek returns the mesh for dev only if it is already uploaded. The first call for a
	// device starts the upload in the background.
	//
	// Returns:
	//   - *Mesh: the mesh, or nil while loading
	//   - bool: true if the mesh is ready
	Peek(dev device.Device) (*Mesh, bool)

	// Evict releases the buffer uploaded to the device with the given id.
	Evict(root uuid.UUID)

	// Destroy evicts every device and makes later Get calls fail.
	Destroy()
}

var _ Asset = &asset{}

// NewAsset creates a mesh asset. Either WithData or WithGenerator must be supplied.
//
// Parameters:
//   - options: builder options
//
// Returns:
//   - Asset: the asset
func NewAsset(options ...AssetBuilderOption) Asset {
	a := &asset{
		label:   "mesh",
		entries: make(map[uuid.UUID]*entry),
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// NewStatic wraps already-built geometry in an asset.
func NewStatic(label string, data Data) Asset {
	return NewAsset(WithLabel(label), WithData(data))
}

func (a *asset) Label() string {
	return a.label
}

func (a *asset) Preload(ctx context.Context) error {
	_, err := a.resolve(ctx)
	return err
}

func (a *asset) resolve(ctx context.Context) (Data, error) {
	a.dataOnce.Do(func() {
		if a.generator == nil {
			a.dataErr = fmt.Errorf("%s: %w", a.label, ErrNoSource)
			return
		}
		a.data, a.dataErr = a.generator(ctx)
		if a.dataErr == nil && len(a.data.Vertices) == 0 {
			a.dataErr = fmt.Errorf("%s: %w", a.label, ErrEmpty)
		}
	})
	return a.data, a.dataErr
}

func (a *asset) Get(ctx context.Context, dev device.Device) (*Mesh, error) {
	if dev == nil {
		panic("mesh: Get requires a non-nil Device")
	}
	en, err := a.entryFor(dev)
	if err != nil {
		return nil, err
	}
	select {
	case <-en.done:
		return en.mesh, en.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (a *asset) Peek(dev device.Device) (*Mesh, bool) {
	en, err := a.entryFor(dev)
	if err != nil {
		return nil, false
	}
	select {
	case <-en.done:
		return en.mesh, en.err == nil
	default:
		return nil, false
	}
}

// entryFor returns the entry for dev, starting the upload if there is none.
func (a *asset) entryFor(dev device.Device) (*entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.destroyed {
		return nil, fmt.Errorf("%s: %w", a.label, ErrDestroyed)
	}
	id := dev.ID()
	if en, ok := a.entries[id]; ok {
		return en, nil
	}
	en := &entry{done: make(chan struct{})}
	a.entries[id] = en
	go a.upload(dev, en)
	return en, nil
}

// upload resolves and uploads the geometry. The entry is completed under the asset lock so
// Evict and Destroy observe either a finished entry or one that will release its own buffer.
func (a *asset) upload(dev device.Device, en *entry) {
	data, err := a.resolve(context.Background())
	if err != nil {
		a.finish(en, nil, err)
		return
	}

	bytes := MarshalVertices(data.Vertices)
	buf, err := dev.CreateBuffer(device.BufferDescriptor{
		Label: a.label + " vertices",
		Size:  uint64(len(bytes)),
		Usage: device.BufferUsageVertex | device.BufferUsageCopyDst,
	})
	if err != nil {
		a.finish(en, nil, fmt.Errorf("%s: create vertex buffer: %w", a.label, err))
		return
	}
	if err := dev.WriteBuffer(buf, 0, bytes); err != nil {
		buf.Release()
		a.finish(en, nil, fmt.Errorf("%s: write vertex buffer: %w", a.label, err))
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.destroyed || a.entries[dev.ID()] != en {
		// evicted while uploading
		buf.Release()
		en.err = fmt.Errorf("%s: %w", a.label, ErrDestroyed)
		close(en.done)
		return
	}
	en.mesh = &Mesh{
		VertexCount:    uint32(len(data.Vertices)),
		VertexBuffer:   buf,
		BoundingRadius: data.BoundingRadius(),
	}
	close(en.done)
}

func (a *asset) finish(en *entry, m *Mesh, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	en.mesh, en.err = m, err
	close(en.done)
}

func (a *asset) Evict(root uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if en, ok := a.entries[root]; ok {
		delete(a.entries, root)
		releaseIfDone(en)
	}
}

func (a *asset) Destroy() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyed = true
	for id, en := range a.entries {
		delete(a.entries, id)
		releaseIfDone(en)
	}
}

// releaseIfDone frees the entry's buffer if the upload already finished. An upload still
// in flight sees the entry gone and releases its own buffer. Callers hold the asset lock.
func releaseIfDone(en *entry) {
	select {
	case <-en.done:
		if en.mesh != nil {
			en.mesh.VertexBuffer.Release()
		}
	default:
	}
}
