package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"sync"

	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/shader"
)

//go:embed assets/blinn_phong.wgsl
var blinnPhongSource string

// BlinnPhongParamsSize is the std140 size of BlinnPhongParams: a vec3 padded to 16 bytes.
const BlinnPhongParamsSize = 16

// BlinnPhongParams are the per-object parameters of the BlinnPhong material.
type BlinnPhongParams struct {
	Albedo common.Vec3
}

// DefaultBlinnPhongParams returns magenta, which makes objects missing their params obvious.
func DefaultBlinnPhongParams() BlinnPhongParams {
	return BlinnPhongParams{Albedo: common.Vec3{1, 0, 1}}
}

// Marshal serializes the params into their 16-byte GPU layout.
//
// Returns:
//   - []byte: the packed params
func (p BlinnPhongParams) Marshal() []byte {
	buf := make([]byte, BlinnPhongParamsSize)
	for i, c := range p.Albedo {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(c))
	}
	return buf
}

// BlinnPhong returns the shared default material: a fixed sun light with ambient and diffuse
// terms modulated by the object's albedo.
var BlinnPhong = sync.OnceValue(func() Material {
	return NewMaterial(
		WithName("blinn-phong"),
		WithShader(shader.MustShader("blinn-phong", blinnPhongSource)),
		WithParams(DefaultBlinnPhongParams().Marshal()),
	)
})
