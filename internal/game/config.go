package game

import (
	"errors"
	"flag"
	"fmt"

	"github.com/Garsondee/Holdout/internal/nav"
)

// ErrInvalidConfig is wrapped by every error Config.Validate returns.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds every tunable of a World. Cadence values are defaults, not
// invariants; callers may change them freely as long as Validate passes.
type Config struct {
	WorldW   float64 // world width in pixels
	WorldH   float64 // world height in pixels
	CellSize float64 // grid cell edge in pixels
	TickRate int     // simulation ticks per second

	FieldInterval    float64 // seconds between routine distance-field rebuilds
	FieldMinInterval float64 // floor between rebuilds when the target changes cell
	PathInterval     float64 // seconds between per-agent path re-extractions
	MaxPathSteps     int     // cells per extracted path
	WaypointRadius   float64 // waypoints closer than this are discarded

	VisibilityRadius float64 // fog-of-war sight radius around the leader

	SpawnInterval   float64 // seconds between edge spawns; <= 0 disables spawning
	MaxHostiles     int
	HostileSpeedMin float64 // px per tick
	HostileSpeedMax float64

	SquadSize int
	Palette   int // squad colour scheme index used by renderers

	Strategy      string // "field" or "search"
	ParallelPaths bool   // fan the repath phase out over worker goroutines
	PathWorkers   int

	Seed int64
}

// DefaultConfig returns the stock 800×600 arena.
func DefaultConfig() Config {
	return Config{
		WorldW:   800,
		WorldH:   600,
		CellSize: 40,
		TickRate: 60,

		FieldInterval:    0.25,
		FieldMinInterval: 0.1,
		PathInterval:     0.5,
		MaxPathSteps:     8,
		WaypointRadius:   12,

		VisibilityRadius: 800 * 0.35,

		SpawnInterval:   1.0,
		MaxHostiles:     60,
		HostileSpeedMin: 1,
		HostileSpeedMax: 3,

		SquadSize: 1,

		Strategy:    string(nav.StrategyField),
		PathWorkers: 4,

		Seed: 42,
	}
}

// Dt is the fixed simulation step in seconds.
func (c Config) Dt() float64 {
	if c.TickRate <= 0 {
		return 0
	}
	return 1 / float64(c.TickRate)
}

// RegisterFlags binds every field to fs using the current values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.Float64Var(&c.WorldW, "world-w", c.WorldW, "world width in pixels")
	fs.Float64Var(&c.WorldH, "world-h", c.WorldH, "world height in pixels")
	fs.Float64Var(&c.CellSize, "cell", c.CellSize, "grid cell size in pixels")
	fs.IntVar(&c.TickRate, "tick-rate", c.TickRate, "simulation ticks per second")

	fs.Float64Var(&c.FieldInterval, "field-interval", c.FieldInterval, "seconds between distance-field rebuilds")
	fs.Float64Var(&c.FieldMinInterval, "field-min-interval", c.FieldMinInterval, "minimum seconds between rebuilds when the target changes cell")
	fs.Float64Var(&c.PathInterval, "path-interval", c.PathInterval, "seconds between per-agent path refreshes")
	fs.IntVar(&c.MaxPathSteps, "path-steps", c.MaxPathSteps, "maximum cells per extracted path")
	fs.Float64Var(&c.WaypointRadius, "waypoint-radius", c.WaypointRadius, "waypoint discard radius in pixels")

	fs.Float64Var(&c.VisibilityRadius, "vis-radius", c.VisibilityRadius, "fog-of-war sight radius in pixels")

	fs.Float64Var(&c.SpawnInterval, "spawn-interval", c.SpawnInterval, "seconds between hostile spawns (0 disables)")
	fs.IntVar(&c.MaxHostiles, "max-hostiles", c.MaxHostiles, "cap on live hostiles")
	fs.Float64Var(&c.HostileSpeedMin, "hostile-speed-min", c.HostileSpeedMin, "slowest hostile speed in px/tick")
	fs.Float64Var(&c.HostileSpeedMax, "hostile-speed-max", c.HostileSpeedMax, "fastest hostile speed in px/tick")

	fs.IntVar(&c.SquadSize, "squad", c.SquadSize, "initial squad size")
	fs.IntVar(&c.Palette, "palette", c.Palette, "squad colour palette index")

	fs.StringVar(&c.Strategy, "strategy", c.Strategy, "path strategy: field or search")
	fs.BoolVar(&c.ParallelPaths, "parallel", c.ParallelPaths, "compute hostile paths on worker goroutines")
	fs.IntVar(&c.PathWorkers, "workers", c.PathWorkers, "worker goroutines for -parallel")

	fs.Int64Var(&c.Seed, "seed", c.Seed, "RNG seed")
}

// Validate reports the first invalid field. Errors wrap ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case !(c.WorldW > 0) || !(c.WorldH > 0):
		return fmt.Errorf("%w: world size %.0fx%.0f must be positive", ErrInvalidConfig, c.WorldW, c.WorldH)
	case !(c.CellSize > 0):
		return fmt.Errorf("%w: cell size %.2f must be positive", ErrInvalidConfig, c.CellSize)
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick rate %d must be positive", ErrInvalidConfig, c.TickRate)
	case !(c.FieldInterval > 0):
		return fmt.Errorf("%w: field interval %.3f must be positive", ErrInvalidConfig, c.FieldInterval)
	case c.FieldMinInterval < 0 || c.FieldMinInterval > c.FieldInterval:
		return fmt.Errorf("%w: field min interval %.3f must be in [0, %.3f]", ErrInvalidConfig, c.FieldMinInterval, c.FieldInterval)
	case !(c.PathInterval > 0):
		return fmt.Errorf("%w: path interval %.3f must be positive", ErrInvalidConfig, c.PathInterval)
	case c.MaxPathSteps <= 0:
		return fmt.Errorf("%w: max path steps %d must be positive", ErrInvalidConfig, c.MaxPathSteps)
	case c.WaypointRadius < 0:
		return fmt.Errorf("%w: waypoint radius %.2f is negative", ErrInvalidConfig, c.WaypointRadius)
	case c.VisibilityRadius < 0:
		return fmt.Errorf("%w: visibility radius %.2f is negative", ErrInvalidConfig, c.VisibilityRadius)
	case c.SpawnInterval < 0:
		return fmt.Errorf("%w: spawn interval %.3f is negative", ErrInvalidConfig, c.SpawnInterval)
	case c.MaxHostiles < 0:
		return fmt.Errorf("%w: max hostiles %d is negative", ErrInvalidConfig, c.MaxHostiles)
	case !(c.HostileSpeedMin > 0) || c.HostileSpeedMax < c.HostileSpeedMin:
		return fmt.Errorf("%w: hostile speed range [%.2f, %.2f]", ErrInvalidConfig, c.HostileSpeedMin, c.HostileSpeedMax)
	case c.SquadSize < 1:
		return fmt.Errorf("%w: squad size %d must be at least 1", ErrInvalidConfig, c.SquadSize)
	case c.ParallelPaths && c.PathWorkers < 1:
		return fmt.Errorf("%w: parallel paths need at least one worker, got %d", ErrInvalidConfig, c.PathWorkers)
	}
	if _, err := nav.ParseStrategy(c.Strategy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
