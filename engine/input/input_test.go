package input

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/wayfare/common"
)

func TestServicePressRelease(t *testing.T) {
	s := NewService()
	if s.IsKeyDown(common.KeySpace) {
		t.Error("Expected no key down on a new service")
	}
	s.Press(common.KeySpace)
	s.Press(common.KeyW)
	if !s.IsKeyDown(common.KeySpace) || !s.IsKeyDown(common.KeyW) {
		t.Error("Expected pressed keys to be down")
	}
	s.Release(common.KeySpace)
	if s.IsKeyDown(common.KeySpace) {
		t.Error("Expected released key to be up")
	}
	s.Reset()
	if s.IsKeyDown(common.KeyW) {
		t.Error("Expected Reset to release every key")
	}
}

func TestServicesAreIndependent(t *testing.T) {
	a, b := NewService(), NewService()
	a.Press(common.KeyA)
	if b.IsKeyDown(common.KeyA) {
		t.Error("Expected key state not to leak between services")
	}
}

func TestMapXY(t *testing.T) {
	diag := float32(1 / math.Sqrt2)
	tests := []struct {
		name string
		keys []common.Key
		want common.Vec2
	}{
		{name: "idle", want: common.Vec2{0, 0}},
		{name: "up arrow", keys: []common.Key{common.KeyUp}, want: common.Vec2{0, 1}},
		{name: "left wasd", keys: []common.Key{common.KeyA}, want: common.Vec2{-1, 0}},
		{name: "opposites cancel", keys: []common.Key{common.KeyLeft, common.KeyD}, want: common.Vec2{0, 0}},
		{name: "diagonal clamped", keys: []common.Key{common.KeyRight, common.KeyW}, want: common.Vec2{diag, diag}},
		{name: "same axis twice", keys: []common.Key{common.KeyUp, common.KeyW}, want: common.Vec2{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService()
			m := NewMap(s, map[string]Control{"movement": XY(ArrowKeysPreset, WASDPreset)})
			for _, k := range tt.keys {
				s.Press(k)
			}
			got := m.XY("movement")
			if math.Abs(float64(got[0]-tt.want[0])) > 1e-6 || math.Abs(float64(got[1]-tt.want[1])) > 1e-6 {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMapLinear(t *testing.T) {
	s := NewService()
	m := NewMap(s, map[string]Control{"shoot": Linear(common.KeySpace)})
	if m.Linear("shoot").IsActive {
		t.Error("Expected shoot to be inactive")
	}
	s.Press(common.KeySpace)
	if st := m.Linear("shoot"); !st.IsActive || st.Value != 1 {
		t.Errorf("Expected active shoot with value 1, got %+v", st)
	}
}

func TestMapPanicsOnMisuse(t *testing.T) {
	m := NewMap(NewService(), map[string]Control{"shoot": Linear(common.KeySpace)})
	tests := []struct {
		name string
		fn   func()
	}{
		{name: "unknown control", fn: func() { m.Linear("jump") }},
		{name: "wrong type", fn: func() { m.XY("shoot") }},
		{name: "nil service", fn: func() { NewMap(nil, nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Expected a panic")
				}
			}()
			tt.fn()
		})
	}
}
