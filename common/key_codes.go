package common

// Key is a virtual key code. Values match GLFW key codes, which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
type Key int

const (
	KeyW     Key = 87  // W key (ASCII)
	KeyA     Key = 65  // A key (ASCII)
	KeyS     Key = 83  // S key (ASCII)
	KeyD     Key = 68  // D key (ASCII)
	KeyR     Key = 82  // R key (ASCII)
	KeyP     Key = 80  // P key (ASCII)
	KeySpace Key = 32  // Spacebar (ASCII)
	KeyEsc   Key = 256 // Escape key (GLFW)
	KeyEnter Key = 257 // Enter key (GLFW)
)

// Arrow keys
const (
	KeyRight Key = 262
	KeyLeft  Key = 263
	KeyDown  Key = 264
	KeyUp    Key = 265
)
