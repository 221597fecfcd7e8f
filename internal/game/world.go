package game

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/Holdout/internal/logger"
	"github.com/Garsondee/Holdout/internal/nav"
)

// World owns the grid, the shared navigation state and every agent.
// Everything is mutated inside Step; obstacle edits made between steps are
// queued and applied at the start of the next one.
type World struct {
	cfg      Config
	log      *logrus.Entry
	simLog   *SimLog
	reporter *SimReporter
	rng      *rand.Rand

	grid     *nav.Grid
	field    *nav.DistanceField
	schedule *nav.FieldSchedule
	search   *nav.SearchPaths
	paths    nav.PathProvider
	strategy nav.Strategy
	vis      *nav.Visibility

	obstacles *ObstacleTable
	pending   []*Obstacle

	squad       *Squad
	hostiles    []*Hostile
	bosses      []*Boss
	projectiles []ProjectileRequest
	bonuses     []*Bonus

	squadHealth int
	overrun     bool

	spawnTimer float64
	nextAgent  int
	tick       int
	elapsed    float64
	stats      Stats

	repathBuf []*walker
}

// NewWorld validates cfg and builds an empty level with the squad centred.
// A nil log discards output.
func NewWorld(cfg Config, log *logrus.Logger) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	strategy, err := nav.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Discard()
	}

	w := &World{
		cfg:      cfg,
		log:      log.WithField("component", "world"),
		simLog:   NewSimLog(false),
		reporter: NewSimReporter(0),
		rng:      rand.New(rand.NewSource(cfg.Seed)), // #nosec G404 -- gameplay RNG
		strategy: strategy,

		squadHealth: squadMaxHealth,
	}
	w.grid = nav.NewGrid(cfg.WorldW, cfg.WorldH, cfg.CellSize)
	w.field = nav.NewDistanceField(w.grid)
	w.schedule = nav.NewFieldSchedule(cfg.FieldInterval, cfg.FieldMinInterval)
	w.search = &nav.SearchPaths{Grid: w.grid}
	switch strategy {
	case nav.StrategySearch:
		w.paths = w.search
	default:
		w.paths = nav.FieldPaths{Field: w.field}
	}
	w.vis = nav.NewVisibility(w.grid)
	w.obstacles = NewObstacleTable()
	w.squad = NewSquad(cfg.WorldW/2, cfg.WorldH/2, cfg.WorldW, cfg.WorldH, cfg.SquadSize, cfg.Palette)

	w.log.WithFields(logrus.Fields{
		"rows":     w.grid.Rows(),
		"cols":     w.grid.Cols(),
		"strategy": strategy,
		"parallel": cfg.ParallelPaths,
		"seed":     cfg.Seed,
	}).Info("world created")
	return w, nil
}

// --- Accessors ---

func (w *World) Config() Config                { return w.cfg }
func (w *World) Grid() *nav.Grid               { return w.grid }
func (w *World) Field() *nav.DistanceField     { return w.field }
func (w *World) Visibility() *nav.Visibility   { return w.vis }
func (w *World) Strategy() nav.Strategy        { return w.strategy }
func (w *World) Obstacles() *ObstacleTable     { return w.obstacles }
func (w *World) Squad() *Squad                 { return w.squad }
func (w *World) Hostiles() []*Hostile          { return w.hostiles }
func (w *World) Bosses() []*Boss               { return w.bosses }
func (w *World) Bonuses() []*Bonus             { return w.bonuses }
func (w *World) SquadHealth() int              { return w.squadHealth }
func (w *World) Overrun() bool                 { return w.overrun }
func (w *World) SimLog() *SimLog               { return w.simLog }
func (w *World) Reporter() *SimReporter        { return w.reporter }
func (w *World) Tick() int                     { return w.tick }
func (w *World) Elapsed() float64              { return w.elapsed }
func (w *World) PendingObstacles() []*Obstacle { return w.pending }

// SetSimLog swaps the event log, e.g. for a verbose one.
func (w *World) SetSimLog(sl *SimLog) { w.simLog = sl }

// SetInput steers the squad leader; components are clamped to [-1, 1].
func (w *World) SetInput(ix, iy float64) { w.squad.Steer(ix, iy) }

// --- Obstacles ---

// PlaceObstacle queues a standard crate centred on (x, y).
func (w *World) PlaceObstacle(x, y float64) *Obstacle {
	return w.AddObstacle(x, y, obstacleSize, obstacleSize)
}

// AddObstacle registers an obstacle and queues it for the grid. It starts
// blocking cells at the next Step.
func (w *World) AddObstacle(x, y, width, height float64) *Obstacle {
	o := w.obstacles.Add(x, y, width, height)
	w.pending = append(w.pending, o)
	return o
}

// DamageObstacle applies n damage and reports whether it destroyed the
// obstacle. Its cells are cleared at the next Step.
func (w *World) DamageObstacle(id nav.ObstacleID, n int) bool {
	if !w.obstacles.Damage(id, n) {
		return false
	}
	w.log.WithField("obstacle", id).Debug("obstacle destroyed")
	return true
}

// ObstacleAt returns the active obstacle under (x, y), or nil. The crate
// stamped on that cell wins; otherwise the newest crate whose rectangle
// touches the point, which covers crates still waiting for the next Step.
func (w *World) ObstacleAt(x, y float64) *Obstacle {
	if c := w.grid.CellAt(x, y); c != nil && c.Occupied() {
		if o := w.obstacles.Get(c.Obstacle); o != nil && o.Active() {
			return o
		}
	}
	all := w.obstacles.All()
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].CollidesWithCircle(x, y, pickRadius) {
			return all[i]
		}
	}
	return nil
}

// restampOverlapping gives cells cleared by a removed obstacle back to any
// live obstacle that still covers them. Pending obstacles are already
// stamped by the time removals run.
func (w *World) restampOverlapping(gone *Obstacle) {
	r0, c0, r1, c1, ok := w.grid.Footprint(gone.Box())
	if !ok {
		return
	}
	for _, o := range w.obstacles.All() {
		if !o.Active() {
			continue
		}
		or0, oc0, or1, oc1, ok := w.grid.Footprint(o.Box())
		if !ok || or0 > r1 || or1 < r0 || oc0 > c1 || oc1 < c0 {
			continue
		}
		w.grid.PlaceObstacle(o)
	}
}

func (w *World) applyObstacleChanges() {
	changed := false
	for _, o := range w.pending {
		if !o.Active() {
			continue
		}
		w.grid.PlaceObstacle(o)
		w.stats.ObstaclesPlaced++
		w.simLog.Add(w.tick, "--", "obstacle", "place",
			fmt.Sprintf("#%d at (%.0f,%.0f) %.0fx%.0f", o.id, o.X, o.Y, o.W, o.H), float64(o.id))
		changed = true
	}
	w.pending = w.pending[:0]

	for _, o := range w.obstacles.DrainDestroyed() {
		w.grid.RemoveObstacle(o)
		w.obstacles.Remove(o.id)
		w.restampOverlapping(o)
		w.stats.ObstaclesDestroyed++
		w.simLog.Add(w.tick, "--", "obstacle", "remove",
			fmt.Sprintf("#%d at (%.0f,%.0f)", o.id, o.X, o.Y), float64(o.id))
		changed = true
	}

	if !changed || !w.field.Valid() {
		return
	}
	if t := w.field.Target(); t != nil && !t.Walkable {
		w.field.Invalidate()
		w.stats.InvalidFields++
		w.simLog.Add(w.tick, "--", "field", "invalid",
			fmt.Sprintf("target (%d,%d) blocked", t.Row, t.Col), 0)
		w.log.WithFields(logrus.Fields{"row": t.Row, "col": t.Col}).Debug("field target blocked, invalidated")
	}
}

// --- Agents ---

// SpawnHostileAt adds a hostile at (x, y) regardless of the cap.
func (w *World) SpawnHostileAt(x, y float64) *Hostile {
	w.nextAgent++
	speed := w.cfg.HostileSpeedMin + w.rng.Float64()*(w.cfg.HostileSpeedMax-w.cfg.HostileSpeedMin)
	h := newHostile(w.nextAgent, x, y, speed, w.rng.Float64()*w.cfg.PathInterval)
	h.label = fmt.Sprintf("H%d", h.ID)
	w.hostiles = append(w.hostiles, h)
	w.stats.Spawns++
	w.simLog.Add(w.tick, h.label, "spawn", "hostile", fmt.Sprintf("(%.0f,%.0f) speed=%.2f", x, y, speed), speed)
	return h
}

// DamageHostile applies n damage to hostile id and reports a kill.
func (w *World) DamageHostile(id, n int) bool {
	for _, h := range w.hostiles {
		if h.ID != id {
			continue
		}
		if !h.TakeDamage(n) {
			return false
		}
		w.stats.HostilesKilled++
		w.simLog.Add(w.tick, h.label, "spawn", "killed", "", 0)
		w.maybeDropBonus(h.X, h.Y)
		return true
	}
	return false
}

// SpawnBoss adds a boss. Tanks roll in from a world edge; helicopters start
// hovering over the top of the map.
func (w *World) SpawnBoss(kind BossKind) *Boss {
	w.nextAgent++
	var x, y float64
	switch kind {
	case BossHelicopter:
		x, y = w.cfg.WorldW/2, heliHoverY
	default:
		x, y = edgeSpawnPoint(w.rng, w.cfg.WorldW, w.cfg.WorldH)
	}
	b := newBoss(w.nextAgent, kind, x, y)
	b.label = fmt.Sprintf("B%d", b.ID)
	w.bosses = append(w.bosses, b)
	w.stats.BossesSpawned++
	w.simLog.Add(w.tick, b.label, "boss", "spawn", kind.String(), 0)
	w.log.WithFields(logrus.Fields{"kind": kind, "id": b.ID}).Info("boss spawned")
	return b
}

// DamageBoss applies n damage to boss id and reports a kill.
func (w *World) DamageBoss(id, n int) bool {
	for _, b := range w.bosses {
		if b.ID != id || !b.Alive() {
			continue
		}
		b.TakeDamage(n)
		if b.Alive() {
			return false
		}
		w.simLog.Add(w.tick, b.label, "boss", "killed", b.Kind.String(), 0)
		w.log.WithFields(logrus.Fields{"kind": b.Kind, "id": b.ID}).Info("boss killed")
		return true
	}
	return false
}

// DrainProjectiles hands queued boss shots to the caller.
func (w *World) DrainProjectiles() []ProjectileRequest {
	out := w.projectiles
	w.projectiles = nil
	return out
}

func (w *World) queueProjectile(p ProjectileRequest) {
	w.projectiles = append(w.projectiles, p)
	w.stats.Projectiles++
	w.simLog.AddVerbose(w.tick, "--", "boss", "fire", p.Kind.String(), float64(p.Damage))
}

// --- Level ---

// ResetLevel clears obstacles, fog memory, hostiles, bosses and queued
// shots, invalidates the field and restores a fresh squad. Counters in
// Stats keep accumulating.
func (w *World) ResetLevel() {
	w.grid.Reset()
	w.obstacles.Reset()
	w.pending = nil
	w.vis.Reset()
	w.field.Invalidate()
	w.schedule.Reset()
	w.search.SetGoal(nil)
	w.hostiles = nil
	w.bosses = nil
	w.projectiles = nil
	w.bonuses = nil
	w.squadHealth = squadMaxHealth
	w.overrun = false
	w.spawnTimer = 0
	w.squad.Reset(w.cfg.WorldW/2, w.cfg.WorldH/2, w.cfg.SquadSize)
	w.stats.LevelResets++
	w.simLog.Add(w.tick, "--", "level", "reset", "", 0)
	w.log.WithField("tick", w.tick).Info("level reset")
}

// --- Tick ---

// Step advances the world by one fixed tick.
func (w *World) Step() {
	dt := w.cfg.Dt()
	w.tick++
	w.elapsed += dt
	w.stats.Ticks++

	w.applyObstacleChanges()
	w.squad.Update(w.grid)
	w.updateSpawns(dt)

	lead := w.squad.Leader()
	lx, ly := lead.X, lead.Y
	goal := w.refreshNavigation(dt, lx, ly)
	w.repath(dt, goal)
	w.moveAgents(dt, lx, ly)
	w.resolveContacts()
	w.updateBonuses()

	w.vis.Update(lx, ly, w.cfg.VisibilityRadius)
	w.cull()

	if n := len(w.hostiles); n > w.stats.PeakHostiles {
		w.stats.PeakHostiles = n
	}
	if w.tick%w.cfg.TickRate == 0 {
		w.reporter.Collect(w)
	}
}

func (w *World) updateSpawns(dt float64) {
	if w.cfg.SpawnInterval <= 0 {
		return
	}
	w.spawnTimer += dt
	if w.spawnTimer < w.cfg.SpawnInterval {
		return
	}
	w.spawnTimer = 0
	if len(w.hostiles) >= w.cfg.MaxHostiles {
		return
	}
	x, y := edgeSpawnPoint(w.rng, w.cfg.WorldW, w.cfg.WorldH)
	w.SpawnHostileAt(x, y)
}

// refreshNavigation brings the active PathProvider up to date with the
// leader at (lx, ly) and returns the goal cell.
func (w *World) refreshNavigation(dt, lx, ly float64) *nav.Cell {
	goal := w.grid.CellAt(lx, ly)
	switch w.strategy {
	case nav.StrategySearch:
		w.search.SetGoal(goal)
	default:
		if !w.schedule.Refresh(dt, w.field, lx, ly) {
			return goal
		}
		w.stats.FieldRecomputes++
		if w.field.Valid() {
			t := w.field.Target()
			w.simLog.Add(w.tick, "--", "field", "recompute", fmt.Sprintf("target (%d,%d)", t.Row, t.Col), 0)
			w.log.WithFields(logrus.Fields{"row": t.Row, "col": t.Col, "tick": w.tick}).Trace("distance field rebuilt")
		} else {
			w.stats.InvalidFields++
			w.simLog.Add(w.tick, "--", "field", "invalid", "leader cell blocked or off-grid", 0)
			w.log.WithField("tick", w.tick).Debug("distance field has no valid target")
		}
	}
	return goal
}

// repath hands a fresh path to every agent whose own timer is due. With
// ParallelPaths the requests run on a bounded worker pool; the grid and
// field are read-only for the duration and each worker writes only its
// agent's waypoint buffer.
func (w *World) repath(dt float64, goal *nav.Cell) {
	due := w.repathBuf[:0]
	for _, h := range w.hostiles {
		if h.alive && h.repathDue(dt, w.cfg.PathInterval) {
			due = append(due, &h.walker)
		}
	}
	for _, b := range w.bosses {
		if b.Kind == BossTank && b.Alive() && b.repathDue(dt, w.cfg.PathInterval) {
			due = append(due, &b.walker)
		}
	}
	w.repathBuf = due
	if len(due) == 0 {
		return
	}

	if w.cfg.ParallelPaths && len(due) > 1 {
		var g errgroup.Group
		g.SetLimit(w.cfg.PathWorkers)
		for _, a := range due {
			g.Go(func() error {
				w.assignPath(a, goal)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for _, a := range due {
			w.assignPath(a, goal)
		}
	}

	for _, a := range due {
		w.stats.PathRequests++
		w.simLog.AddVerbose(w.tick, a.label, "path", "request", fmt.Sprintf("%d waypoints", len(a.path)), float64(len(a.path)))
		if a.fallback {
			w.stats.PathFallbacks++
			w.simLog.Add(w.tick, a.label, "path", "fallback", fmt.Sprintf("(%.0f,%.0f)", a.X, a.Y), 0)
		}
	}
}

// assignPath must not touch shared world state; it may run on a worker.
func (w *World) assignPath(a *walker, goal *nav.Cell) {
	start := w.grid.CellAt(a.X, a.Y)
	a.setPath(w.paths.PathFrom(start, w.cfg.MaxPathSteps))
	if a.fallback && start != nil && start == goal {
		a.fallback = false
	}
}

func (w *World) moveAgents(dt, lx, ly float64) {
	for _, h := range w.hostiles {
		if h.alive {
			h.step(w.grid, lx, ly, w.cfg.WaypointRadius)
		}
	}
	if len(w.bosses) == 0 {
		return
	}
	env := &bossEnv{
		dt:             dt,
		targetX:        lx,
		targetY:        ly,
		worldW:         w.cfg.WorldW,
		waypointRadius: w.cfg.WaypointRadius,
		grid:           w.grid,
		rng:            w.rng,
		fire:           w.queueProjectile,
		drop: func(x, y float64) {
			h := w.SpawnHostileAt(x, y)
			w.simLog.Add(w.tick, h.label, "boss", "drop", fmt.Sprintf("(%.0f,%.0f)", x, y), 0)
		},
	}
	for _, b := range w.bosses {
		dashing := b.Dashing()
		b.Update(env)
		if !dashing && b.Dashing() {
			w.simLog.Add(w.tick, b.label, "boss", "dash", fmt.Sprintf("y=%.0f", b.Y), b.Y)
		}
	}
}

// resolveContacts counts one hit per overlapping hostile/member pair and
// drains squad health by the same amount. Reaching zero marks the squad
// overrun once; the world keeps running.
func (w *World) resolveContacts() {
	for _, h := range w.hostiles {
		if !h.alive {
			continue
		}
		for _, m := range w.squad.Members {
			dx, dy := m.X-h.X, m.Y-h.Y
			r := m.Radius() + h.Radius()
			if dx*dx+dy*dy < r*r {
				w.stats.ContactHits++
				w.squadHealth = max(0, w.squadHealth-contactDrain)
			}
		}
	}
	if w.squadHealth == 0 && !w.overrun {
		w.overrun = true
		w.simLog.Add(w.tick, "--", "squad", "overrun", fmt.Sprintf("members=%d", len(w.squad.Members)), 0)
		w.log.WithField("tick", w.tick).Info("squad overrun")
	}
}

func (w *World) cull() {
	alive := w.hostiles[:0]
	for _, h := range w.hostiles {
		if h.alive {
			alive = append(alive, h)
		}
	}
	for i := len(alive); i < len(w.hostiles); i++ {
		w.hostiles[i] = nil
	}
	w.hostiles = alive

	live := w.bosses[:0]
	for _, b := range w.bosses {
		if b.Alive() {
			live = append(live, b)
		}
	}
	for i := len(live); i < len(w.bosses); i++ {
		w.bosses[i] = nil
	}
	w.bosses = live
}
