package main

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gpucontext"
)

// window is a glfw window with no client API, sized in framebuffer pixels.
type window struct {
	w *glfw.Window
}

var _ gpucontext.WindowProvider = (*window)(nil)

func newWindow(width, height int, title string) (*window, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	w, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	return &window{w: w}, nil
}

// Size returns the framebuffer size in pixels.
func (win *window) Size() (width, height int) {
	return win.w.GetFramebufferSize()
}

func (win *window) ScaleFactor() float64 {
	x, _ := win.w.GetContentScale()
	return float64(x)
}

// RequestRedraw wakes an event loop blocked in glfw.WaitEvents.
func (win *window) RequestRedraw() {
	glfw.PostEmptyEvent()
}

// onResize calls fn with the new framebuffer size whenever it changes.
func (win *window) onResize(fn func(width, height int)) {
	win.w.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		fn(width, height)
	})
}

func (win *window) minimized() bool {
	return win.w.GetAttrib(glfw.Iconified) == glfw.True
}

func (win *window) shouldClose() bool {
	return win.w.ShouldClose()
}

func (win *window) destroy() {
	win.w.Destroy()
}
