package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/plus3/scenesync/ecs"
)

// New builds a logger writing to w. format is "console" for human readable
// output or "json"; level is any zerolog level name.
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), eris.Wrapf(err, "log level %q", level)
	}

	switch format {
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	case "json", "":
	default:
		return zerolog.Nop(), eris.Errorf("log format %q: want console or json", format)
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// System creates a sub logger with the entry {"system": name}.
func System(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("system", name).Logger()
}

// Storage logs the archetype layout and singletons of storage.
func Storage(logger *zerolog.Logger, storage *ecs.Storage, level zerolog.Level) {
	stats := storage.CollectStats()

	archetypes := zerolog.Arr()
	for _, a := range stats.ArchetypeBreakdown {
		archetypes = archetypes.Dict(zerolog.Dict().
			Uint32("archetype_id", a.ID).
			Strs("components", a.ComponentTypes).
			Int("entities", a.EntityCount))
	}

	logger.WithLevel(level).
		Int("total_entities", stats.TotalEntityCount).
		Int("total_archetypes", stats.ArchetypeCount).
		Array("archetypes", archetypes).
		Strs("singletons", stats.SingletonTypes).
		Send()
}

// Scheduler logs the timing of every registered system.
func Scheduler(logger *zerolog.Logger, scheduler *ecs.Scheduler, level zerolog.Level) {
	stats := scheduler.GetStats()

	systems := zerolog.Arr()
	for _, s := range stats.Systems {
		systems = systems.Dict(zerolog.Dict().
			Str("system", s.Name).
			Int64("executions", s.ExecutionCount).
			Dur("avg", s.AvgDuration).
			Dur("max", s.MaxDuration))
	}

	logger.WithLevel(level).
		Int("total_systems", stats.SystemCount).
		Int64("total_executions", stats.TotalExecutions).
		Array("systems", systems).
		Send()
}
