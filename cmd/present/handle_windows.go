package main

import (
	"unsafe"

	"github.com/gogpu/present"
)

// handle returns the HWND. A zero Display selects the module that created
// the window.
func (win *window) handle() (present.WindowHandle, error) {
	hwnd := win.w.GetWin32Window()
	return present.WindowHandle{Window: uintptr(unsafe.Pointer(hwnd))}, nil
}
