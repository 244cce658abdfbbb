// Package window provides the GLFW presentation surface: the native window, its WebGPU
// surface descriptor and the translation of key, focus and resize events.
package window

import (
	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps the GLFW window with a common interface.
type Window interface {
	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press events. Repeats are not reported.
	//
	// Parameters:
	//   - callback: function receiving the key
	SetKeyDownCallback(callback func(key common.Key))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the key
	SetKeyUpCallback(callback func(key common.Key))

	// SetFocusCallback sets the callback for focus changes.
	//
	// Parameters:
	//   - callback: function receiving true when the window gains focus
	SetFocusCallback(callback func(focused bool))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// PollEvents dispatches pending events without blocking. Callbacks run on the calling
	// goroutine, which must be the one that created the window.
	PollEvents()

	// ShouldClose reports whether the window was asked to close.
	ShouldClose() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was already closed
	Close() error

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// minWidth and minHeight bound interactive resizing.
	minWidth  int
	minHeight int

	// width and height are the current framebuffer size in pixels.
	width  int
	height int

	// input receives key state and is reset when focus is lost.
	input input.Service

	// closeKey closes the window when pressed, 0 to disable.
	closeKey common.Key

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow *glfwWindow

	onResize  func(width, height int)
	onKeyDown func(key common.Key)
	onKeyUp   func(key common.Key)
	onFocus   func(focused bool)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options. The calling
// goroutine is locked to its OS thread, which GLFW requires for every later window call.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: error if GLFW or the window could not be initialized
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "Wayfare",
		minWidth:  320,
		minHeight: 240,
		width:     1280,
		height:    720,
		closeKey:  common.KeyEsc,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(key common.Key)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(key common.Key)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetFocusCallback(callback func(focused bool)) {
	w.onFocus = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) PollEvents() {
	platformProcessMessages(w)
}

func (w *engineWindow) ShouldClose() bool {
	return !platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// handleKey forwards a key transition to the input service and the key callbacks.
//
// Returns:
//   - bool: true if the key asks the window to close
func (w *engineWindow) handleKey(key common.Key, pressed bool) bool {
	if pressed && w.closeKey != 0 && key == w.closeKey {
		return true
	}
	if pressed {
		if w.input != nil {
			w.input.Press(key)
		}
		if w.onKeyDown != nil {
			w.onKeyDown(key)
		}
		return false
	}
	if w.input != nil {
		w.input.Release(key)
	}
	if w.onKeyUp != nil {
		w.onKeyUp(key)
	}
	return false
}

// handleFocus drops held keys on focus loss, since their release events go to another window.
func (w *engineWindow) handleFocus(focused bool) {
	if !focused && w.input != nil {
		w.input.Reset()
	}
	if w.onFocus != nil {
		w.onFocus(focused)
	}
}

// handleResize records the framebuffer size and forwards it.
func (w *engineWindow) handleResize(width, height int) {
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
