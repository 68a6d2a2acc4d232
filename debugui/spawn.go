package debugui

import (
	"github.com/plus3/scenesync/ecs"
	"github.com/plus3/scenesync/render"
)

// Windows groups the inspection windows spawned by Spawn.
type Windows struct {
	Browser *SceneBrowser
	Stats   *RenderStats
}

// Spawn adds the scene browser and render stats windows to storage, plus
// the ImguiInputState singleton if it is missing. Components must have been
// registered with RegisterComponents.
func Spawn(storage *ecs.Storage, system *render.System) Windows {
	ecs.NewSingleton[ImguiInputState](storage)

	w := Windows{
		Browser: NewSceneBrowser(system, 100),
		Stats:   NewRenderStats(system, 120),
	}
	storage.Spawn(ImguiItem{Render: w.Browser.Render})
	storage.Spawn(ImguiItem{Render: w.Stats.Render})
	return w
}
