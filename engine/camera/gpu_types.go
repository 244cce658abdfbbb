package camera

import (
	"encoding/binary"
	"math"
)

// POVUniformSize is the byte size of the POV uniform: viewProj and invViewProj, 64 bytes each.
const POVUniformSize = 128

// Marshal serializes the view-projection and its inverse into the layout of the WGSL
// POVUniform struct.
//
// Returns:
//   - []byte: 128-byte buffer ready for GPU upload
func (p POV) Marshal() []byte {
	buf := make([]byte, POVUniformSize)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(p.ViewProj[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(p.InvViewProj[i]))
	}
	return buf
}
