//go:build (linux || freebsd || netbsd || openbsd) && wayland

package main

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/present"
)

// handle returns the wl_display and wl_surface.
func (win *window) handle() (present.WindowHandle, error) {
	return present.WindowHandle{
		Display: uintptr(unsafe.Pointer(glfw.GetWaylandDisplay())),
		Window:  uintptr(unsafe.Pointer(win.w.GetWaylandWindow())),
	}, nil
}
