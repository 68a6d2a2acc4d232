package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/scenesync/render"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Entities int
	Churn    int
	Restyle  int

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	BakeTime       Stats
	Drawn          int
	Visuals        int
	StageNodes     int
	Render         RenderTotals
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// RenderTotals sums render.Stats over every frame.
type RenderTotals struct {
	Built        int
	Destroyed    int
	NodesBuilt   int
	Rebuilt      int
	NodesRemoved int
	Repositioned int
}

func (t *RenderTotals) add(s render.Stats) {
	t.Built += s.Built
	t.Destroyed += s.Destroyed
	t.NodesBuilt += s.NodesBuilt
	t.Rebuilt += s.Rebuilt
	t.NodesRemoved += s.NodesRemoved
	t.Repositioned += s.Repositioned
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]
	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

const reportTemplate = `
# Render Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Initial Entities:** {{.Entities}}
- **Churn per Frame:** {{.Churn}}
- **Restyles per Frame:** {{.Restyle}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (ECS + render sync):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
- **Bake Time (textures):**
  - **Avg:** {{.BakeTime.Avg}}
  - **Min:** {{.BakeTime.Min}}
  - **Max:** {{.BakeTime.Max}}

## Render Work
- Containers built / destroyed: {{.Render.Built}} / {{.Render.Destroyed}}
- Nodes built / rebuilt / removed: {{.Render.NodesBuilt}} / {{.Render.Rebuilt}} / {{.Render.NodesRemoved}}
- Repositioned: {{.Render.Repositioned}} ({{per .Render.Repositioned .TotalUpdates}} per frame)
- Textures drawn: {{.Drawn}} ({{per .Drawn .TotalUpdates}} per frame)
- Final visuals: {{.Visuals}} entities, {{.StageNodes}} stage nodes

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{end}}`

var reportFuncs = template.FuncMap{
	"bsub": func(a, b uint64) int64 {
		return int64(a) - int64(b)
	},
	"usub": func(a, b uint32) uint32 {
		return a - b
	},
	"ns": func(ns uint64) string {
		return time.Duration(ns).String()
	},
	"per": func(total int, frames int64) int64 {
		if frames == 0 {
			return 0
		}
		return int64(total) / frames
	},
}

func (r *Report) Generate(w io.Writer) error {
	tmpl, err := template.New("report").Funcs(reportFuncs).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
