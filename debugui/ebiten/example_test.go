package ebiten_test

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/scenesync/assets"
	"github.com/plus3/scenesync/debugui"
	debugui_ebiten "github.com/plus3/scenesync/debugui/ebiten"
	"github.com/plus3/scenesync/ecs"
	"github.com/plus3/scenesync/render"
	"github.com/plus3/scenesync/scene"
	scene_ebiten "github.com/plus3/scenesync/scene/ebiten"
)

// Game runs the ECS, the render system and the debug overlay.
type Game struct {
	scheduler    *ecs.Scheduler
	stage        *scene.Stage
	renderer     *scene_ebiten.Renderer
	imguiBackend *ecs.Singleton[debugui_ebiten.ImguiBackend]
}

func (g *Game) Update() error {
	// ImGui calls made by deferred windows must land inside the frame
	g.imguiBackend.Get().BeginFrame()
	g.scheduler.Once(1.0 / 60.0)
	g.imguiBackend.Get().EndFrame()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.stage)
	g.imguiBackend.Get().Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.imguiBackend.Get().Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func Example() {
	backend := debugui_ebiten.NewImguiBackend("scenesync", 1280, 720)

	registry := ecs.NewComponentRegistry()
	render.RegisterComponents(registry)
	debugui.RegisterComponents(registry)
	ecs.RegisterComponent[debugui_ebiten.ImguiBackend](registry)

	storage := ecs.NewStorage(registry)
	ecs.NewSingleton[debugui_ebiten.ImguiBackend](storage, backend)

	stage := scene.NewStage()
	system := render.NewSystem(stage, assets.NewLoader(os.DirFS("assets")))

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(system)
	scheduler.Register(&debugui.ImguiSystem{})
	debugui.Spawn(storage, system)

	storage.Spawn(
		render.Position{X: 640, Y: 360},
		render.Text{Content: "Hello from scenesync"},
	)

	game := &Game{
		scheduler:    scheduler,
		stage:        stage,
		renderer:     scene_ebiten.NewRenderer(),
		imguiBackend: ecs.NewSingleton[debugui_ebiten.ImguiBackend](storage),
	}

	if err := ebiten.RunGame(game); err != nil {
		panic(err)
	}
}
