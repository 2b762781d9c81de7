// Command oxy-stages runs one of the built-in scene stages, or a stage file, in a window or
// headless.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/Carmen-Shannon/oxy-stages/engine"
	"github.com/Carmen-Shannon/oxy-stages/engine/host"
	"github.com/Carmen-Shannon/oxy-stages/engine/logging"
	"github.com/Carmen-Shannon/oxy-stages/engine/renderer"
	"github.com/Carmen-Shannon/oxy-stages/engine/stage"
	"github.com/Carmen-Shannon/oxy-stages/engine/texture"
	"github.com/Carmen-Shannon/oxy-stages/engine/window"
)

func init() {
	// GLFW and the WebGPU surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	var (
		stageName = flag.String("stage", "basic-scene", "built-in stage to run")
		config    = flag.String("config", "", "stage file (.yaml, .yml or .toml); overrides -stage")
		headless  = flag.Bool("headless", false, "run without a window on the headless renderer")
		frames    = flag.Uint64("frames", 0, "stop after this many frames (0 = until closed)")
		hz        = flag.Float64("hz", 60, "refresh rate of the headless host; when set, also animates per second tuned to this rate")
		debug     = flag.Bool("debug", false, "enable debug logging")
		profile   = flag.Bool("profile", false, "log FPS and memory once per second")
		fallback  = flag.Bool("software", false, "force the fallback (software) GPU adapter")
		list      = flag.Bool("list", false, "list built-in stages and exit")
	)
	flag.Parse()

	logger := logging.NewDefaultLogger("oxy-stages", *debug)

	if *list {
		for _, name := range stage.Names() {
			cfg, err := stage.Builtin(name)
			if err != nil {
				logger.Errorf("%s: %v", name, err)
				continue
			}
			fmt.Printf("%-16s %s\n", name, cfg.Description)
		}
		return
	}

	cfg, err := loadConfig(*stageName, *config)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "hz" {
			overrideRate(&cfg, *hz)
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, options{
		headless: *headless,
		frames:   *frames,
		hz:       *hz,
		profile:  *profile,
		fallback: *fallback,
		baseDir:  baseDir(*config),
	}, logger); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

type options struct {
	headless bool
	frames   uint64
	hz       float64
	profile  bool
	fallback bool
	baseDir  string
}

func baseDir(configPath string) string {
	if configPath == "" {
		return ""
	}
	return filepath.Dir(configPath)
}

// overrideRate switches the stage to per-second animation tuned to hz.
func overrideRate(cfg *stage.Config, hz float64) {
	cfg.Rate = stage.RateConfig{Kind: "per-second", ReferenceHz: hz}
}

func loadConfig(name, path string) (stage.Config, error) {
	if path != "" {
		return stage.Load(path)
	}
	return stage.Builtin(name)
}

func run(ctx context.Context, cfg stage.Config, opts options, logger logging.Logger) error {
	width, height := stage.WindowSize(cfg)
	loader := texture.NewLoader(texture.WithBaseDir(opts.baseDir), texture.WithLogger(logger))

	// ── Host + Renderer ─────────────────────────────────────────────────
	var (
		h           host.Host
		backendType renderer.RendererBackendType
	)
	if opts.headless {
		h = host.NewHeadless(width, height, host.WithRefreshRate(opts.hz))
		backendType = renderer.BackendTypeHeadless
	} else {
		w, err := window.NewWindow(
			window.WithTitle(fmt.Sprintf("oxy-stages - %s", cfg.Window.Title)),
			window.WithWidth(width),
			window.WithHeight(height),
		)
		if err != nil {
			return err
		}
		defer w.Close()
		h = w
		backendType = renderer.BackendTypeWGPU
	}

	rendererOpts := append(cfg.RendererOptions(),
		renderer.WithTextureLoader(loader),
		renderer.WithLogger(logger),
		renderer.WithForceSoftwareRenderer(opts.fallback),
	)
	r := renderer.NewRenderer(backendType, rendererOpts...)

	// ── Stage ───────────────────────────────────────────────────────────
	sc, err := engine.Setup(h, r, cfg,
		engine.WithLogger(logger),
		engine.WithProfiling(opts.profile),
		engine.WithFrameLimit(opts.frames),
	)
	if err != nil {
		r.Release()
		return err
	}
	defer sc.Teardown()

	err = sc.Run(ctx)
	stats := r.Stats()
	logger.Infof("stage %q finished: %d frames drawn, %d skipped, %d draw calls",
		cfg.Name, stats.Frames, stats.Skipped, stats.TotalDrawCalls)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
