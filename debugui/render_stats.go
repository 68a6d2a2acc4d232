package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/AllenDang/cimgui-go/implot"

	"github.com/plus3/scenesync/ecs"
	"github.com/plus3/scenesync/render"
)

// RenderStats shows the render system's per-frame counters and the storage
// layout, with a short history of frame time and rebuild counts.
type RenderStats struct {
	system *render.System
	timer  *FrameTimer

	frameTimes history
	rebuilds   history
	moves      history
}

// NewRenderStats keeps historyFrames samples per chart.
func NewRenderStats(system *render.System, historyFrames int) *RenderStats {
	historyFrames = max(historyFrames, 1)
	return &RenderStats{
		system:     system,
		timer:      NewFrameTimer(),
		frameTimes: newHistory(historyFrames),
		rebuilds:   newHistory(historyFrames),
		moves:      newHistory(historyFrames),
	}
}

func (rs *RenderStats) record(stats render.Stats, dt time.Duration) {
	rs.frameTimes.push(float32(dt.Seconds() * 1000))
	rs.rebuilds.push(float32(stats.Rebuilt + stats.NodesBuilt))
	rs.moves.push(float32(stats.Repositioned))
}

// Render draws the stats window.
func (rs *RenderStats) Render() {
	stats := rs.system.Stats()
	rs.record(stats, rs.timer.Delta())

	imgui.SetNextWindowPosV(imgui.NewVec2(480, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(420, 520), imgui.CondOnce)

	if !imgui.BeginV("Render Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	avg := rs.frameTimes.mean()
	fps := float32(0)
	if avg > 0 {
		fps = 1000 / avg
	}
	imgui.Text(fmt.Sprintf("Frame %d  avg %.2f ms (%.0f FPS)", stats.Frame, avg, fps))
	imgui.Text(fmt.Sprintf("Visuals: %d  stage nodes: %d", rs.system.Len(), rs.system.Stage().Count()))
	imgui.Separator()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("RenderCounters", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Counter")
		imgui.TableSetupColumn("This frame")
		imgui.TableHeadersRow()
		for _, row := range []struct {
			name  string
			value int
		}{
			{"Containers built", stats.Built},
			{"Containers destroyed", stats.Destroyed},
			{"Nodes built", stats.NodesBuilt},
			{"Nodes rebuilt", stats.Rebuilt},
			{"Nodes removed", stats.NodesRemoved},
			{"Repositioned", stats.Repositioned},
			{"Asset batches", stats.AssetBatches},
		} {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(row.name)
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.value))
		}
		imgui.EndTable()
	}

	if imgui.BeginTabBar("RenderCharts") {
		rs.plotTab("Frame time", "ms", &rs.frameTimes)
		rs.plotTab("Rebuilds", "nodes", &rs.rebuilds)
		rs.plotTab("Moves", "containers", &rs.moves)
		imgui.EndTabBar()
	}

	if storage := rs.system.Storage(); storage != nil && imgui.TreeNodeStr("Storage") {
		renderStorage(storage.CollectStats())
		imgui.TreePop()
	}

	imgui.End()
}

func (rs *RenderStats) plotTab(name, unit string, h *history) {
	if !imgui.BeginTabItem(name) {
		return
	}
	samples := h.ordered()
	if implot.BeginPlotV(name, imgui.NewVec2(-1, 200), 0) {
		implot.SetupAxesV("Frame", unit, 0, implot.AxisFlagsAutoFit)
		implot.PlotLineFloatPtrInt(name, &samples[0], int32(len(samples)))
		implot.EndPlot()
	}
	imgui.EndTabItem()
}

func renderStorage(stats *ecs.StorageStats) {
	imgui.Text(fmt.Sprintf("Entities: %d  archetypes: %d  singletons: %d",
		stats.TotalEntityCount, stats.ArchetypeCount, stats.SingletonCount))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("ArchetypeTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Archetype")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Entities")
		imgui.TableHeadersRow()

		for _, arch := range stats.ArchetypeBreakdown {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%X", arch.ID))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(arch.ComponentTypes)))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", arch.EntityCount))
		}
		imgui.EndTable()
	}

	for _, name := range stats.SingletonTypes {
		imgui.BulletText(name)
	}
}

// history is a fixed size ring of samples.
type history struct {
	samples []float32
	next    int
	filled  bool
}

func newHistory(n int) history {
	return history{samples: make([]float32, n)}
}

func (h *history) push(v float32) {
	h.samples[h.next] = v
	h.next = (h.next + 1) % len(h.samples)
	if h.next == 0 {
		h.filled = true
	}
}

// ordered returns the samples oldest first, padded with zeros until full.
func (h *history) ordered() []float32 {
	out := make([]float32, len(h.samples))
	n := copy(out, h.samples[h.next:])
	copy(out[n:], h.samples[:h.next])
	return out
}

func (h *history) mean() float32 {
	count := h.next
	if h.filled {
		count = len(h.samples)
	}
	if count == 0 {
		return 0
	}
	var sum float32
	for _, v := range h.samples[:count] {
		sum += v
	}
	return sum / float32(count)
}

// FrameTimer measures wall time between calls to Delta.
type FrameTimer struct {
	last time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{last: time.Now()}
}

// Delta returns the time since the previous call, or since creation.
func (ft *FrameTimer) Delta() time.Duration {
	now := time.Now()
	delta := now.Sub(ft.last)
	ft.last = now
	return delta
}
