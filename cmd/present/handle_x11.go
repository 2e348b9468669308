//go:build (linux || freebsd || netbsd || openbsd) && !wayland

package main

import (
	"errors"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/present"
)

// handle returns the X11 Display* and Window id.
func (win *window) handle() (present.WindowHandle, error) {
	display := glfw.GetX11Display()
	if display == nil {
		return present.WindowHandle{}, errors.New("no X11 display")
	}
	return present.WindowHandle{
		Display: uintptr(unsafe.Pointer(display)),
		Window:  uintptr(win.w.GetX11Window()),
	}, nil
}
