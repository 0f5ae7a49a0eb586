package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"solar-system-explorer/camera"
	"solar-system-explorer/celestial"
	"solar-system-explorer/config"
	"solar-system-explorer/frame"
	"solar-system-explorer/handlers"
	"solar-system-explorer/input"
	"solar-system-explorer/logging"
	"solar-system-explorer/metrics"
	"solar-system-explorer/models"
	"solar-system-explorer/render"
	"solar-system-explorer/render/terminal"
	"solar-system-explorer/session"
	"solar-system-explorer/stream"
)

func main() {
	cfg, err := config.Load(config.NewFlagSet(os.Args[0]), os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// the terminal renderer owns stdout
	var console io.Writer = os.Stdout
	if cfg.Renderer == config.RendererTerminal {
		console = nil
	}
	log, logFile, err := logging.Setup(logging.Options{
		Level:   cfg.LogLevel,
		Console: console,
		Dir:     cfg.LogsDir,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err = run(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Solar System Explorer stopped")
		fmt.Fprintln(os.Stderr, err)
	}
	_ = logFile.Close()
	if err != nil {
		os.Exit(1)
	}
}

func loadCatalog(path string) ([]models.Planet, error) {
	if path == "" {
		return models.GetSolarSystemBodies(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene file: %w", err)
	}
	defer f.Close()
	return models.LoadCatalog(f)
}

func run(cfg *config.Config, log zerolog.Logger) error {
	catalog, err := loadCatalog(cfg.Scene.File)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewCollector(reg)

	queue := input.NewQueue(cfg.HTTP.QueueSize)
	remote := session.NewRemotePanel(cfg.HTTP.QueueSize)
	sources := []input.Source{queue}
	panels := []frame.Panel{remote}

	var device render.Device
	switch cfg.Renderer {
	case config.RendererTerminal:
		term, err := terminal.Open()
		if err != nil {
			return err
		}
		panel := terminal.NewPanel(term)
		src := terminal.NewSource(term.Screen(), input.DefaultBindings(), cfg.Terminal.KeyHold, panel)
		defer src.Stop()
		sources = append(sources, src)
		panels = append(panels, panel)
		device = term
	default:
		device = render.NewRecorder(cfg.Viewport.Width, cfg.Viewport.Height)
	}

	scene, err := celestial.Build(catalog, device)
	if err != nil {
		return errors.Join(fmt.Errorf("build scene: %w", err), device.Close())
	}
	log.Info().Int("bodies", scene.Len()).Str("renderer", cfg.Renderer).Msg("Scene loaded")

	hub := stream.NewHub(cfg.HTTP.AllowOrigins, log, m)
	driver, err := frame.New(frame.Options{
		Device:       device,
		Scene:        scene,
		Camera:       camera.New(cfg.CameraConfig()),
		State:        session.New(cfg.Settings),
		Sources:      sources,
		Panels:       panels,
		Lighting:     cfg.LightingConfig(),
		MaxDelta:     cfg.Frame.MaxDelta,
		SnapshotRate: cfg.HTTP.SnapshotRate,
		Publishers:   []frame.Publisher{hub},
		Metrics:      m,
		Logger:       log,
	})
	if err != nil {
		return errors.Join(err, scene.Close(), device.Close())
	}
	defer func() {
		if err := driver.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to release render resources")
		}
	}()

	if cfg.HTTP.Enabled {
		stop, err := serveHTTP(cfg, log, handlers.New(catalog, driver, remote, queue, m), hub, reg)
		if err != nil {
			return err
		}
		defer stop()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return driver.Run(ctx, cfg.Frame.FPS, cfg.Frames)
}

// serveHTTP starts the API and returns a function stopping it. The listener
// is opened before returning so a bad address fails startup.
func serveHTTP(cfg *config.Config, log zerolog.Logger, h *handlers.Handler, hub *stream.Hub, reg *prometheus.Registry) (func(), error) {
	if log.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(h, handlers.RouterConfig{
		AllowOrigins: cfg.HTTP.AllowOrigins,
		Stream:       hub,
		Metrics:      metrics.Handler(reg),
		Logger:       log,
	})

	ln, err := net.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.HTTP.Addr, err)
	}
	srv := &http.Server{Handler: router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server failed")
		}
	}()
	log.Info().Str("addr", ln.Addr().String()).Msg("Solar System Explorer API running")

	return func() {
		hub.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("HTTP server shutdown")
		}
	}, nil
}
