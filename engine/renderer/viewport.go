package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/wayfare/engine/renderer/device"
)

// Viewport tracks the surface size and owns the depth texture matching it. The texture is
// created on first use and recreated after a resize.
type Viewport struct {
	dev    device.Device
	width  uint32
	height uint32
	depth  device.Texture
}

// NewViewport creates a viewport of the given size. No GPU objects are created yet.
func NewViewport(dev device.Device, width, height uint32) *Viewport {
	return &Viewport{dev: dev, width: max(width, 1), height: max(height, 1)}
}

func (v *Viewport) Width() uint32 {
	return v.width
}

func (v *Viewport) Height() uint32 {
	return v.height
}

// Aspect returns width / height.
func (v *Viewport) Aspect() float32 {
	return float32(v.width) / float32(v.height)
}

// DepthView returns the depth texture view, creating the texture if needed.
//
// Returns:
//   - device.TextureView: the depth attachment view
//   - error: error if the texture could not be created
func (v *Viewport) DepthView() (device.TextureView, error) {
	if v.depth == nil {
		tex, err := v.dev.CreateTexture(device.TextureDescriptor{
			Label:  "viewport depth",
			Width:  v.width,
			Height: v.height,
			Format: device.TextureFormatDepth24Plus,
			Usage:  device.TextureUsageRenderAttachment,
		})
		if err != nil {
			return nil, fmt.Errorf("create depth texture %dx%d: %w", v.width, v.height, err)
		}
		v.depth = tex
	}
	return v.depth.View(), nil
}

// Resize records a new size and drops the depth texture. Zero dimensions are clamped to 1.
func (v *Viewport) Resize(width, height uint32) {
	v.width = max(width, 1)
	v.height = max(height, 1)
	v.Release()
}

// Release frees the depth texture.
func (v *Viewport) Release() {
	if v.depth != nil {
		v.depth.Release()
		v.depth = nil
	}
}
