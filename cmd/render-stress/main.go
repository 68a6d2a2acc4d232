package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/gogpu/gg"
	"github.com/rs/zerolog"

	"github.com/plus3/scenesync/assets"
	"github.com/plus3/scenesync/config"
	"github.com/plus3/scenesync/ecs"
	"github.com/plus3/scenesync/logging"
	"github.com/plus3/scenesync/render"
	"github.com/plus3/scenesync/scene"
)

func main() {
	configPath := flag.String("config", "scenesync.env", "Optional KEY=value settings file.")
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 5000, "The initial number of entities to create.")
	churn := flag.Int("churn", 50, "Entities deleted and respawned every frame.")
	restyle := flag.Int("restyle", 50, "Entities whose graphics change every frame.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
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

	logger.Info().Msg("starting render stress test")

	registry := ecs.NewComponentRegistry()
	render.RegisterComponents(registry)
	ecs.RegisterComponent[Velocity](registry)
	storage := ecs.NewStorage(registry)

	loader := assets.NewLoader(os.DirFS(cfg.AssetRoot),
		assets.WithLogger(logging.System(logger, "assets")),
		assets.WithConcurrency(cfg.LoadConcurrency))
	loader.Add("ball", ballTexture(16))

	stage := scene.NewStage()
	renderSystem := render.NewSystem(stage, loader,
		render.WithLogger(logging.System(logger, "render")),
		render.WithOffset(cfg.OffsetX, cfg.OffsetY))

	world := &World{
		Width:   float64(cfg.WindowWidth),
		Height:  float64(cfg.WindowHeight),
		Churn:   *churn,
		Restyle: *restyle,
		rng:     rand.New(rand.NewPCG(1, 2)),
	}

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&MovementSystem{World: world})
	scheduler.Register(&ChurnSystem{World: world})
	scheduler.Register(renderSystem)

	logger.Info().Int("entities", *entityCount).Msg("populating storage")
	for range *entityCount {
		world.spawn(storage)
	}

	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Churn:          *churn,
		Restyle:        *restyle,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info().Dur("duration", *duration).Msg("running simulation")
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			scheduler.Once(deltaTime.Seconds())
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))

			bakeStart := time.Now()
			report.Drawn += bake(stage)
			report.BakeTime.Samples = append(report.BakeTime.Samples, time.Since(bakeStart))

			report.Render.add(renderSystem.Stats())
			report.TotalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.BakeTime.Finalize()
	report.Visuals = renderSystem.Len()
	report.StageNodes = stage.Count()
	runtime.ReadMemStats(&report.MemStatsEnd)

	logging.Storage(&logger, storage, zerolog.DebugLevel)
	logging.Scheduler(&logger, scheduler, zerolog.DebugLevel)

	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal().Err(err).Msg("failed to generate report")
	}
	logger.Info().Msg("stress test complete")
}

// bake asks every rendered drawable for its texture, doing the CPU side of
// a frame without a GPU.
func bake(stage *scene.Stage) int {
	drawn := 0
	for d := range stage.Drawables() {
		if img, _, _ := d.Texture(); img != nil {
			drawn++
		}
	}
	return drawn
}

func ballTexture(size int) image.Image {
	dc := gg.NewContext(size, size)
	defer dc.Close()
	dc.SetColor(color.RGBA{R: 240, G: 200, B: 80, A: 255})
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2-1)
	_ = dc.Fill()
	return dc.Image()
}
