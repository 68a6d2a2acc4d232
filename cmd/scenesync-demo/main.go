package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/plus3/scenesync/assets"
	"github.com/plus3/scenesync/config"
	"github.com/plus3/scenesync/debugui"
	debugui_ebiten "github.com/plus3/scenesync/debugui/ebiten"
	"github.com/plus3/scenesync/ecs"
	"github.com/plus3/scenesync/logging"
	"github.com/plus3/scenesync/render"
	"github.com/plus3/scenesync/scene"
	scene_ebiten "github.com/plus3/scenesync/scene/ebiten"
)

func main() {
	configPath := flag.String("config", "scenesync.env", "Optional KEY=value settings file.")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	game, err := newGame(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("setup failed")
	}

	ebiten.SetTPS(cfg.TPS)
	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal().Err(err).Msg("game stopped")
	}

	logging.Storage(&logger, game.storage, zerolog.InfoLevel)
	logging.Scheduler(&logger, game.scheduler, zerolog.InfoLevel)
}

// Game runs the world at a fixed tick and draws its stage every frame.
type Game struct {
	cfg       config.Config
	logger    zerolog.Logger
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	stage     *scene.Stage
	renderer  *scene_ebiten.Renderer

	imguiBackend *ecs.Singleton[debugui_ebiten.ImguiBackend]
}

func newGame(cfg config.Config, logger zerolog.Logger) (*Game, error) {
	registry := ecs.NewComponentRegistry()
	render.RegisterComponents(registry)
	debugui.RegisterComponents(registry)
	ecs.RegisterComponent[debugui_ebiten.ImguiBackend](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Spin](registry)
	ecs.RegisterComponent[Blink](registry)
	ecs.RegisterComponent[Hud](registry)
	ecs.RegisterComponent[Arena](registry)

	storage := ecs.NewStorage(registry)

	if cfg.DebugUI {
		backend := debugui_ebiten.NewImguiBackend(cfg.WindowTitle, cfg.WindowWidth, cfg.WindowHeight)
		ecs.NewSingleton[debugui_ebiten.ImguiBackend](storage, backend)
	} else {
		ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
		ebiten.SetWindowTitle(cfg.WindowTitle)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	fsys := os.DirFS(cfg.AssetRoot)
	opts := []assets.LoaderOption{
		assets.WithLogger(logging.System(logger, "assets")),
		assets.WithConcurrency(cfg.LoadConcurrency),
	}
	manifest, err := readManifest(fsys, cfg.Manifest)
	if err != nil {
		return nil, err
	}
	if manifest != nil {
		opts = append(opts, assets.WithManifest(manifest))
	}
	loader := assets.NewLoader(fsys, opts...)
	addGeneratedTextures(loader)

	stage := scene.NewStage()
	renderSystem := render.NewSystem(stage, loader,
		render.WithLogger(logging.System(logger, "render")),
		render.WithOffset(cfg.OffsetX, cfg.OffsetY))
	renderSystem.Attach(storage)

	ecs.NewSingleton[Arena](storage, Arena{
		Width:  float64(cfg.WindowWidth),
		Height: float64(cfg.WindowHeight),
	})
	ecs.NewSingleton[debugui.ImguiInputState](storage)

	populate(storage)
	preload(renderSystem, manifest, logging.System(logger, "preload"))

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&InputSystem{Render: renderSystem})
	scheduler.Register(&MovementSystem{})
	scheduler.Register(&SpinSystem{})
	scheduler.Register(&BlinkSystem{Render: renderSystem})
	scheduler.Register(&HudSystem{Render: renderSystem})
	scheduler.Register(renderSystem)

	if cfg.DebugUI {
		scheduler.Register(&debugui.ImguiSystem{})
		debugui.Spawn(storage, renderSystem)
	}

	logging.Storage(&logger, storage, zerolog.DebugLevel)

	return &Game{
		cfg:          cfg,
		logger:       logger,
		storage:      storage,
		scheduler:    scheduler,
		stage:        stage,
		renderer:     scene_ebiten.NewRenderer(),
		imguiBackend: ecs.NewSingleton[debugui_ebiten.ImguiBackend](storage),
	}, nil
}

func readManifest(fsys fs.FS, path string) (*assets.Manifest, error) {
	if path == "" {
		return nil, nil
	}
	return assets.ReadManifest(fsys, path)
}

func (g *Game) overlay() *debugui_ebiten.ImguiBackend {
	if !g.cfg.DebugUI {
		return nil
	}
	return g.imguiBackend.Get()
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	overlay := g.overlay()
	if overlay != nil {
		overlay.BeginFrame()
	}

	g.scheduler.Once(1 / float64(ebiten.TPS()))

	if overlay != nil {
		overlay.EndFrame()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.stage)
	if overlay := g.overlay(); overlay != nil {
		overlay.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	var arena *Arena
	if g.storage.ReadSingleton(&arena) {
		arena.Width, arena.Height = float64(outsideWidth), float64(outsideHeight)
	}
	if overlay := g.overlay(); overlay != nil {
		overlay.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// preload loads every texture the manifest names and reports when done.
func preload(sys *render.System, manifest *assets.Manifest, logger zerolog.Logger) {
	if manifest == nil || len(manifest.Textures) == 0 {
		return
	}

	ids := make([]string, 0, len(manifest.Textures))
	for id := range manifest.Textures {
		ids = append(ids, id)
	}

	start := time.Now()
	sys.Load(ids, func(err error) {
		if err != nil {
			logger.Warn().Err(err).Msg("preload incomplete")
			return
		}
		logger.Info().Int("textures", len(ids)).Dur("took", time.Since(start)).Msg("preload done")
	})
}
