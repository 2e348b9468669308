//go:build !windows && !linux && !freebsd && !netbsd && !openbsd

package main

import (
	"fmt"
	"runtime"

	"github.com/gogpu/present"
)

// TODO: macOS needs a CAMetalLayer attached to the Cocoa view before the
// Metal or MoltenVK surface can be created.
func (win *window) handle() (present.WindowHandle, error) {
	return present.WindowHandle{}, fmt.Errorf("no native window handle on %s", runtime.GOOS)
}
