package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/loop"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/scene"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

const (
	maxHookRuns    = 4
	trayRefresh    = 500 * time.Millisecond
	defaultEnvFile = ".env"
)

type flags struct {
	configPath string
	addr       string
	camera     int
	demo       bool
	tray       bool
	static     string
}

func parseFlags(fs *flag.FlagSet, args []string) (flags, map[string]bool, error) {
	var f flags
	fs.StringVar(&f.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&f.addr, "addr", "", "HTTP listen address")
	fs.IntVar(&f.camera, "camera", 0, "camera device index")
	fs.BoolVar(&f.demo, "demo", false, "replay a scripted pose sequence instead of the camera")
	fs.BoolVar(&f.tray, "tray", false, "show the system tray menu")
	fs.StringVar(&f.static, "static", "", "directory with the viewer's static files")
	if err := fs.Parse(args); err != nil {
		return f, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return f, set, nil
}

// apply overrides cfg with the flags given on the command line.
func (f flags) apply(cfg *config.Config, set map[string]bool) {
	if set["addr"] {
		cfg.Addr = f.addr
	}
	if set["camera"] {
		cfg.Capture.Camera = f.camera
	}
	if set["demo"] {
		cfg.Demo = f.demo
	}
	if set["tray"] {
		cfg.Tray = f.tray
	}
	if set["static"] {
		cfg.StaticDir = f.static
	}
}

func main() {
	fmt.Println("mudra - hand-pose orbit controller")

	if err := config.LoadDotEnv(defaultEnvFile); err != nil {
		log.Fatalf("Failed to load %s: %v", defaultEnvFile, err)
	}
	f, set, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}
	cfg, err := config.Load(f.configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	f.apply(&cfg, set)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	if err := run(cfg); err != nil {
		var access *capture.CameraAccessError
		if errors.As(err, &access) {
			log.Fatalf("Camera unavailable, try -demo: %v", err)
		}
		log.Fatalf("mudra stopped: %v", err)
	}
}

func run(cfg config.Config) error {
	if err := cfg.EnsureDirs(); err != nil {
		return err
	}
	st, err := store.New(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	plugins := plugin.NewManager(cfg.PluginDir)
	if err := plugins.Discover(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	}
	bindings, err := cfg.Bindings()
	if err != nil {
		return err
	}
	if err := app.SeedHooks(st, bindings); err != nil {
		return err
	}
	hooks := plugin.NewRunner(plugins, plugin.NewExecutor(cfg.HookTimeout), app.StoreHooks(st), maxHookRuns)
	defer hooks.Close()

	src, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	a := app.New(app.Config{
		RenderInterval: loop.FPS(cfg.Render.FPS),
		Enabled:        cfg.Enabled,
		SourceName:     src.name,
		Store:          st,
		Hooks:          hooks,
	}, src.landmarks, scene.NewController(scene.DefaultSystem()))

	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = findWebDir(cfg.DataDir)
	}
	if staticDir != "" {
		log.Printf("Serving static files from: %s", staticDir)
	}
	srv := server.New(server.Config{
		StaticDir: staticDir,
		App:       a,
		Store:     st,
		Plugins:   plugins,
		Preview:   src.preview,
		StreamFPS: cfg.Stream.FPS,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Run(gctx) })
	g.Go(func() error { return srv.ListenAndServe(gctx, cfg.Addr) })

	if !cfg.Tray {
		return g.Wait()
	}

	t := tray.New(a.IsEnabled(), tray.Handlers{
		OnToggle:     a.SetEnabled,
		OnReset:      func() { a.RequestReset() },
		OnComet:      func() { a.RequestComet() },
		OnOpenViewer: func() { openBrowser("http://" + cfg.Addr) },
		OnQuit:       stop,
	})
	g.Go(func() error {
		return ignoreCanceled(loop.Every(gctx, trayRefresh, func() {
			status := a.Status()
			t.SetEnabled(status.Enabled)
			t.SetStatus(status.Pose, status.LastAction)
		}))
	})

	errc := make(chan error, 1)
	go func() {
		errc <- g.Wait()
		t.Quit()
	}()
	// The tray owns the main goroutine until Quit.
	t.Run()
	stop()
	return <-errc
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// findWebDir searches for the viewer in common locations: "web", "../web",
// and dataDir/web. Returns the first existing directory or empty string.
func findWebDir(dataDir string) string {
	candidates := []string{"web", filepath.Join("..", "web"), filepath.Join(dataDir, "web")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
		return
	}
	go cmd.Wait()
}
