package input

import (
	"fmt"

	"github.com/Carmen-Shannon/wayfare/common"
)

// ControlType selects how a control reduces its bindings to a value.
type ControlType int

const (
	// ControlLinear yields 1 while any bound key is held and 0 otherwise.
	ControlLinear ControlType = iota
	// ControlXY sums the directions of every held key, clamped to unit length.
	ControlXY
)

// DirectionalBinding maps a key to a 2D direction for an XY control.
type DirectionalBinding struct {
	Key common.Key
	Dir common.Vec2
}

// ArrowKeysPreset binds the arrow keys to the four cardinal directions, +Y being up.
var ArrowKeysPreset = []DirectionalBinding{
	{Key: common.KeyLeft, Dir: common.Vec2{-1, 0}},
	{Key: common.KeyRight, Dir: common.Vec2{1, 0}},
	{Key: common.KeyDown, Dir: common.Vec2{0, -1}},
	{Key: common.KeyUp, Dir: common.Vec2{0, 1}},
}

// WASDPreset binds W, A, S and D to the four cardinal directions, +Y being up.
var WASDPreset = []DirectionalBinding{
	{Key: common.KeyA, Dir: common.Vec2{-1, 0}},
	{Key: common.KeyD, Dir: common.Vec2{1, 0}},
	{Key: common.KeyS, Dir: common.Vec2{0, -1}},
	{Key: common.KeyW, Dir: common.Vec2{0, 1}},
}

// Control is a named input definition held by a Map.
type Control struct {
	Type       ControlType
	Keys       []common.Key
	Directions []DirectionalBinding
}

// Linear creates a control that is active while any of keys is held.
func Linear(keys ...common.Key) Control {
	return Control{Type: ControlLinear, Keys: keys}
}

// XY creates a directional control from one or more binding sets, e.g. XY(ArrowKeysPreset, WASDPreset).
func XY(bindings ...[]DirectionalBinding) Control {
	c := Control{Type: ControlXY}
	for _, b := range bindings {
		c.Directions = append(c.Directions, b...)
	}
	return c
}

// LinearState is the current reading of a linear control.
type LinearState struct {
	Value float32
	// IsActive is equivalent to Value > 0.
	IsActive bool
}

// Map reads named controls from an input service.
type Map struct {
	svc      Service
	controls map[string]Control
}

// NewMap creates an input map over svc.
//
// Parameters:
//   - svc: the input service providing key state
//   - controls: the controls keyed by name, e.g. "movement" and "shoot"
//
// Returns:
//   - *Map: the input map
func NewMap(svc Service, controls map[string]Control) *Map {
	if svc == nil {
		panic("input: NewMap requires a non-nil Service")
	}
	return &Map{svc: svc, controls: controls}
}

// Linear reads a linear control. Unknown names and non-linear controls panic since they are
// programming errors in the control table.
//
// Parameters:
//   - name: the control name
//
// Returns:
//   - LinearState: the current reading
func (m *Map) Linear(name string) LinearState {
	c := m.control(name, ControlLinear)
	for _, k := range c.Keys {
		if m.svc.IsKeyDown(k) {
			return LinearState{Value: 1, IsActive: true}
		}
	}
	return LinearState{}
}

// XY reads a directional control. Opposite keys cancel and the sum is clamped to unit length.
//
// Parameters:
//   - name: the control name
//
// Returns:
//   - common.Vec2: the direction, with length at most 1
func (m *Map) XY(name string) common.Vec2 {
	c := m.control(name, ControlXY)
	var v common.Vec2
	seen := make(map[common.Key]bool, len(c.Directions))
	for _, b := range c.Directions {
		if seen[b.Key] || !m.svc.IsKeyDown(b.Key) {
			continue
		}
		seen[b.Key] = true
		v[0] += b.Dir[0]
		v[1] += b.Dir[1]
	}
	if v.Len() > 1 {
		v = v.Normalize()
	}
	return v
}

func (m *Map) control(name string, want ControlType) Control {
	c, ok := m.controls[name]
	if !ok {
		panic(fmt.Sprintf("input: unknown control %q", name))
	}
	if c.Type != want {
		panic(fmt.Sprintf("input: control %q has type %d, not %d", name, c.Type, want))
	}
	return c
}
