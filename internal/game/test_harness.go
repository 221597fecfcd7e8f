package game

import (
	"github.com/Garsondee/Holdout/internal/logger"
)

// TestSim is a headless harness used by tests. It wraps a World with
// spawning disabled by default, a discarding logger and deterministic
// seeding.
type TestSim struct {
	World  *World
	SimLog *SimLog

	cfg       Config
	verbose   bool
	obstacles [][4]float64
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // config, seed, obstacles, verbose; applied before the world exists
	simOptAgent                      // leader placement and hostiles; applied after obstacles are stamped
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.cfg.Seed = seed }}
}

// WithConfig edits the harness config before the world is built.
func WithConfig(edit func(*Config)) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { edit(&ts.cfg) }}
}

// WithObstacle adds a w×h obstacle centred on (x, y).
func WithObstacle(x, y, w, h float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.obstacles = append(ts.obstacles, [4]float64{x, y, w, h})
	}}
}

// WithVerbose enables per-request verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.verbose = v }}
}

// WithLeader moves the whole squad to (x, y).
func WithLeader(x, y float64) SimOption {
	return SimOption{simOptAgent, func(ts *TestSim) {
		ts.World.squad.Reset(x, y, ts.cfg.SquadSize)
	}}
}

// WithHostile spawns a hostile at (x, y).
func WithHostile(x, y float64) SimOption {
	return SimOption{simOptAgent, func(ts *TestSim) {
		ts.World.SpawnHostileAt(x, y)
	}}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (config, seed, obstacles, verbose)
//  2. Build the World and stamp obstacles
//  3. Agents
//
// It panics on an invalid config; tests build their configs by hand.
func NewTestSim(opts ...SimOption) *TestSim {
	cfg := DefaultConfig()
	cfg.SpawnInterval = 0
	ts := &TestSim{cfg: cfg}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}

	w, err := NewWorld(ts.cfg, logger.Discard())
	if err != nil {
		panic(err)
	}
	ts.World = w
	ts.SimLog = NewSimLog(ts.verbose)
	w.SetSimLog(ts.SimLog)

	for _, o := range ts.obstacles {
		w.AddObstacle(o[0], o[1], o[2], o[3])
	}
	w.applyObstacleChanges()

	for _, o := range opts {
		if o.kind == simOptAgent {
			o.fn(ts)
		}
	}
	return ts
}

// RunTicks advances the simulation n ticks.
func (ts *TestSim) RunTicks(n int) {
	for range n {
		ts.World.Step()
	}
}

// RunUntil steps until predicate returns true or maxTicks elapse. It
// returns the tick at which the predicate held, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for range maxTicks {
		ts.World.Step()
		if predicate(ts) {
			return ts.World.Tick()
		}
	}
	return -1
}

// CurrentTick returns the world tick counter.
func (ts *TestSim) CurrentTick() int { return ts.World.Tick() }

// Leader returns the squad leader.
func (ts *TestSim) Leader() *Member { return ts.World.squad.Leader() }
