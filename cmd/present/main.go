// Command present opens a window and renders into it with a present.Renderer
// until the window is closed.
//
// Usage:
//
//	present [-config file.toml] [-variant triangle|clear] [-width 1280]
//	        [-height 720] [-backend vulkan|dx12|metal|gles|software]
//	        [-clear color] [-frames n] [-debug]
//
// A config file uses the flag names as keys:
//
//	variant = "clear"
//	clear = "#1a3366"
//	backend = "vulkan"
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/glfw/v3.3/glfw"
	_ "github.com/gogpu/wgpu/hal/allbackends"

	"github.com/gogpu/present"
	"github.com/gogpu/present/backend"
)

func init() {
	// glfw and the platform swapchains must be driven from the main thread.
	runtime.LockOSThread()
}

// settings are the host options. They come from an optional TOML file,
// overridden by any flag set on the command line.
type settings struct {
	Variant string `toml:"variant"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	Backend string `toml:"backend"`
	Clear   string `toml:"clear"`
	Frames  uint64 `toml:"frames"`
	Debug   bool   `toml:"debug"`
}

func defaultSettings() settings {
	return settings{Variant: "triangle", Width: 1280, Height: 720}
}

// decodeSettings overlays the TOML document data onto s. Unknown keys are
// an error.
func decodeSettings(data string, s *settings) error {
	md, err := toml.Decode(data, s)
	if err != nil {
		return err
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return fmt.Errorf("unknown keys %v", keys)
	}
	return nil
}

func loadSettings(path string, s *settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := decodeSettings(string(data), s); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

type config struct {
	width, height int
	frames        uint64
	opts          []present.Option
}

func main() {
	var (
		f          = defaultSettings()
		configPath = flag.String("config", "", "TOML file with default settings; flags override it")
	)
	flag.StringVar(&f.Variant, "variant", f.Variant, "what to draw: triangle or clear")
	flag.IntVar(&f.Width, "width", f.Width, "initial window width")
	flag.IntVar(&f.Height, "height", f.Height, "initial window height")
	flag.StringVar(&f.Backend, "backend", f.Backend, "HAL backend; empty picks the best available")
	flag.StringVar(&f.Clear, "clear", f.Clear, "clear colour as a name or hex value")
	flag.Uint64Var(&f.Frames, "frames", f.Frames, "exit after this many frames; 0 runs until the window closes")
	flag.BoolVar(&f.Debug, "debug", f.Debug, "enable backend validation and debug logging")
	flag.Parse()

	s := defaultSettings()
	if *configPath != "" {
		if err := loadSettings(*configPath, &s); err != nil {
			slog.Error("invalid config", "err", err)
			os.Exit(2)
		}
	}
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "variant":
			s.Variant = f.Variant
		case "width":
			s.Width = f.Width
		case "height":
			s.Height = f.Height
		case "backend":
			s.Backend = f.Backend
		case "clear":
			s.Clear = f.Clear
		case "frames":
			s.Frames = f.Frames
		case "debug":
			s.Debug = f.Debug
		}
	})

	level := slog.LevelInfo
	if s.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	present.SetLogger(logger)

	cfg, err := newConfig(s)
	if err != nil {
		logger.Error("invalid settings", "err", err)
		os.Exit(2)
	}
	if err := run(cfg, logger); err != nil {
		logger.Error("present failed", "err", err)
		os.Exit(1)
	}
}

func newConfig(s settings) (config, error) {
	if s.Width <= 0 || s.Height <= 0 {
		return config{}, fmt.Errorf("window size %dx%d must be positive", s.Width, s.Height)
	}
	v, err := present.ParseVariant(s.Variant)
	if err != nil {
		return config{}, err
	}
	cfg := config{
		width:  s.Width,
		height: s.Height,
		frames: s.Frames,
		opts: []present.Option{
			present.WithVariant(v),
			present.WithBackendName(s.Backend),
			present.WithDebug(s.Debug),
		},
	}
	if s.Backend == backend.Software {
		// The CPU adapter is a fallback unless asked for by name.
		cfg.opts = append(cfg.opts, present.WithFallbackAdapters())
	}
	if s.Clear != "" {
		c, err := present.ParseColor(s.Clear)
		if err != nil {
			return config{}, err
		}
		cfg.opts = append(cfg.opts, present.WithClearColor(c))
	}
	return cfg, nil
}

func run(cfg config, logger *slog.Logger) (err error) {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	win, err := newWindow(cfg.width, cfg.height, "present")
	if err != nil {
		return err
	}
	defer win.destroy()

	handle, err := win.handle()
	if err != nil {
		return err
	}

	r := present.NewRenderer(cfg.opts...)
	w, h := win.Size()
	if err := r.Init(handle, uint32(w), uint32(h)); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, r.Shutdown())
	}()

	info := r.AdapterInfo()
	logger.Info("renderer ready",
		"variant", r.Variant(),
		"adapter", info.Name,
		"type", info.Type,
		"format", r.Format(),
		"scale", win.ScaleFactor())

	var resizeErr error
	win.onResize(func(width, height int) {
		if err := r.Resize(uint32(width), uint32(height)); err != nil && resizeErr == nil {
			resizeErr = err
		}
	})

	for !win.shouldClose() {
		if win.minimized() {
			glfw.WaitEvents()
			continue
		}
		glfw.PollEvents()
		if resizeErr != nil {
			return resizeErr
		}
		if err := r.Render(); err != nil {
			return err
		}
		if cfg.frames > 0 && r.Frames() >= cfg.frames {
			break
		}
	}
	logger.Info("window closed", "frames", r.Frames())
	return nil
}
