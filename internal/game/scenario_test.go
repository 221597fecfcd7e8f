package game

import (
	"math"
	"testing"

	"github.com/Garsondee/Holdout/internal/nav"
)

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, ts *TestSim) {
	t.Helper()
	entries := ts.SimLog.Entries()
	if len(entries) == 0 {
		t.Log("(no log entries)")
		return
	}
	for _, e := range entries {
		t.Log(e.String())
	}
}

// dumpSummary prints the report block and the latest reporter window.
func dumpSummary(t *testing.T, ts *TestSim) {
	t.Helper()
	t.Log(ts.World.Report())
	t.Log(ts.SimLog.Summary())
	if wr := ts.World.Reporter().WindowSummary(); wr != nil {
		t.Log(wr.Format())
	}
}

// assertHostilesOnOpenCells fails when any on-grid hostile stands in a
// blocked cell.
func assertHostilesOnOpenCells(t *testing.T, ts *TestSim) {
	t.Helper()
	g := ts.World.Grid()
	for _, h := range ts.World.Hostiles() {
		if c := g.CellAt(h.X, h.Y); c != nil && !c.Walkable {
			t.Fatalf("T=%d %s inside blocked cell (%d,%d)", ts.CurrentTick(), h.label, c.Row, c.Col)
		}
	}
}

func firstContact(ts *TestSim) bool { return ts.World.Stats().ContactHits > 0 }

// --- Scenario: Open Ground Pursuit ---

func TestScenario_OpenGroundPursuit(t *testing.T) {
	t.Log("=== TestScenario_OpenGroundPursuit ===")
	t.Log("--- Setup: 1 hostile 300px west of the leader, no obstacles ---")

	ts := NewTestSim(WithSeed(42), WithHostile(100, 300))
	tick := ts.RunUntil(firstContact, 600)
	dumpLog(t, ts)
	dumpSummary(t, ts)

	if tick < 0 {
		t.Fatal("hostile never reached the squad")
	}
	if s := ts.World.Stats(); s.PathFallbacks != 0 {
		t.Fatalf("open ground should never fall back, got %d fallbacks", s.PathFallbacks)
	}
}

// --- Scenario: Wall Detour ---

func TestScenario_WallDetour(t *testing.T) {
	for _, strategy := range []nav.Strategy{nav.StrategyField, nav.StrategySearch} {
		t.Run(string(strategy), func(t *testing.T) {
			t.Logf("=== TestScenario_WallDetour/%s ===", strategy)
			t.Log("--- Setup: wall 40x400 between a hostile and the leader ---")

			ts := NewTestSim(
				WithSeed(7),
				WithConfig(func(c *Config) { c.Strategy = string(strategy) }),
				WithObstacle(260, 300, 40, 400),
				WithHostile(180, 300),
			)

			tick := ts.RunUntil(func(ts *TestSim) bool {
				assertHostilesOnOpenCells(t, ts)
				return firstContact(ts)
			}, 1500)
			dumpSummary(t, ts)

			if tick < 0 {
				dumpLog(t, ts)
				t.Fatal("hostile never got around the wall")
			}
			t.Logf("contact at T=%d", tick)
		})
	}
}

// --- Scenario: Strategies Agree ---

func TestScenario_StrategiesBothRoute(t *testing.T) {
	t.Log("=== TestScenario_StrategiesBothRoute ===")

	build := func(s nav.Strategy) *TestSim {
		return NewTestSim(
			WithSeed(9),
			WithConfig(func(c *Config) { c.Strategy = string(s) }),
			WithObstacle(260, 300, 40, 400),
			WithHostile(180, 300),
		)
	}
	field, search := build(nav.StrategyField), build(nav.StrategySearch)
	field.RunTicks(40)
	search.RunTicks(40)

	fh, sh := field.World.Hostiles()[0], search.World.Hostiles()[0]
	if len(fh.path) == 0 || len(sh.path) == 0 {
		t.Fatalf("both strategies should produce paths: field=%d search=%d", len(fh.path), len(sh.path))
	}
	if search.World.Stats().FieldRecomputes != 0 {
		t.Fatal("search strategy rebuilt the distance field")
	}
	// Both detours leave the start heading for the same end of the wall.
	g := field.World.Grid()
	fRow := g.CellAt(fh.path[len(fh.path)-1][0], fh.path[len(fh.path)-1][1]).Row
	sRow := g.CellAt(sh.path[len(sh.path)-1][0], sh.path[len(sh.path)-1][1]).Row
	if (fRow < 7) != (sRow < 7) {
		t.Logf("strategies chose different ends of the wall: field row %d, search row %d", fRow, sRow)
	}
}

// --- Scenario: Parallel Repath Matches Serial ---

func TestScenario_ParallelMatchesSerial(t *testing.T) {
	t.Log("=== TestScenario_ParallelMatchesSerial ===")
	t.Log("--- Setup: spawning on, demo layout, identical seeds ---")

	build := func(parallel bool) *TestSim {
		ts := NewTestSim(
			WithSeed(11),
			WithConfig(func(c *Config) {
				c.SpawnInterval = 0.25
				c.ParallelPaths = parallel
				c.PathWorkers = 3
			}),
		)
		ts.World.LoadLayout(DemoLayout(ts.World.Config()))
		return ts
	}
	serial, parallel := build(false), build(true)
	for tick := 0; tick < 600; tick++ {
		serial.World.SetInput(math.Sin(float64(tick)/40), math.Cos(float64(tick)/55))
		parallel.World.SetInput(math.Sin(float64(tick)/40), math.Cos(float64(tick)/55))
		serial.World.Step()
		parallel.World.Step()
	}

	sh, ph := serial.World.Hostiles(), parallel.World.Hostiles()
	if len(sh) != len(ph) || len(sh) == 0 {
		t.Fatalf("hostile counts differ: serial=%d parallel=%d", len(sh), len(ph))
	}
	for i := range sh {
		if sh[i].X != ph[i].X || sh[i].Y != ph[i].Y {
			t.Fatalf("hostile %d diverged: serial (%.3f,%.3f) parallel (%.3f,%.3f)",
				i, sh[i].X, sh[i].Y, ph[i].X, ph[i].Y)
		}
	}
	if serial.World.Stats().PathRequests != parallel.World.Stats().PathRequests {
		t.Fatal("path request counts differ")
	}
}

// --- Scenario: Obstacle Edits Apply Next Tick ---

func TestScenario_ObstacleEditsApplyNextTick(t *testing.T) {
	t.Log("=== TestScenario_ObstacleEditsApplyNextTick ===")

	ts := NewTestSim(WithSeed(1))
	w := ts.World
	o := w.PlaceObstacle(100, 100)
	if !w.Grid().CellAt(100, 100).Walkable {
		t.Fatal("obstacle stamped before Step")
	}
	ts.RunTicks(1)
	c := w.Grid().CellAt(100, 100)
	if c.Walkable || c.Obstacle != o.ObstacleID() {
		t.Fatalf("obstacle not stamped after Step: walkable=%v id=%d", c.Walkable, c.Obstacle)
	}
	if len(w.PendingObstacles()) != 0 {
		t.Fatal("pending queue not drained")
	}
	if w.ObstacleAt(100, 100) != o {
		t.Fatal("ObstacleAt did not resolve the stamped crate")
	}

	if w.DamageObstacle(o.ObstacleID(), 40) {
		t.Fatal("partial damage destroyed the crate")
	}
	if !w.DamageObstacle(o.ObstacleID(), 60) {
		t.Fatal("lethal damage did not destroy the crate")
	}
	if w.Grid().CellAt(100, 100).Walkable {
		t.Fatal("destroyed crate cleared before Step")
	}
	ts.RunTicks(1)
	if !w.Grid().CellAt(100, 100).Walkable || w.Obstacles().Len() != 0 {
		t.Fatal("destroyed crate not cleared after Step")
	}
	dumpLog(t, ts)
	if ts.SimLog.CountCategory("obstacle", "place") != 1 || ts.SimLog.CountCategory("obstacle", "remove") != 1 {
		t.Fatal("expected one place and one remove event")
	}
}

// --- Scenario: Stacked Crates ---

func TestScenario_StackedCratesSurviveDestroy(t *testing.T) {
	t.Log("=== TestScenario_StackedCratesSurviveDestroy ===")

	ts := NewTestSim(WithSeed(2))
	w := ts.World
	a := w.PlaceObstacle(140, 140)
	b := w.PlaceObstacle(140, 140)
	ts.RunTicks(1)
	if w.ObstacleAt(140, 140) != b {
		t.Fatal("newest crate should own the shared cell")
	}

	w.DamageObstacle(b.ObstacleID(), obstacleHealth)
	ts.RunTicks(1)
	c := w.Grid().CellAt(140, 140)
	if c.Walkable || c.Obstacle != a.ObstacleID() {
		t.Fatalf("crate #%d still stands but cell is walkable=%v id=%d", a.ObstacleID(), c.Walkable, c.Obstacle)
	}
	if w.ObstacleAt(140, 140) != a {
		t.Fatal("ObstacleAt lost the surviving crate")
	}

	w.DamageObstacle(a.ObstacleID(), obstacleHealth)
	ts.RunTicks(1)
	if !w.Grid().CellAt(140, 140).Walkable || w.ObstacleAt(140, 140) != nil {
		t.Fatal("cell still blocked after both crates were destroyed")
	}
}

func TestScenario_PartlyOverlappingCrates(t *testing.T) {
	t.Log("=== TestScenario_PartlyOverlappingCrates ===")

	ts := NewTestSim(WithSeed(2))
	w := ts.World
	wide := w.AddObstacle(140, 140, 120, 40) // columns 2..4
	small := w.PlaceObstacle(140, 140)       // column 3 only
	ts.RunTicks(1)

	w.DamageObstacle(small.ObstacleID(), obstacleHealth)
	ts.RunTicks(1)
	for _, x := range []float64{100, 140, 180} {
		c := w.Grid().CellAt(x, 140)
		if c.Walkable || c.Obstacle != wide.ObstacleID() {
			t.Fatalf("x=%.0f: wide crate lost its cell (walkable=%v id=%d)", x, c.Walkable, c.Obstacle)
		}
	}

	// The other way round: the small crate keeps its cell when the wide
	// one goes.
	small = w.PlaceObstacle(140, 140)
	ts.RunTicks(1)
	w.DamageObstacle(wide.ObstacleID(), obstacleHealth)
	ts.RunTicks(1)
	if w.Grid().CellAt(140, 140).Obstacle != small.ObstacleID() {
		t.Fatal("small crate lost its cell to the wide crate's removal")
	}
	if !w.Grid().CellAt(100, 140).Walkable || !w.Grid().CellAt(180, 140).Walkable {
		t.Fatal("wide crate's outer cells not cleared")
	}
}

// --- Scenario: Blocked Leader Invalidates Field ---

func TestScenario_BlockedLeaderInvalidatesField(t *testing.T) {
	t.Log("=== TestScenario_BlockedLeaderInvalidatesField ===")
	t.Log("--- Setup: crate dropped on top of the leader ---")

	ts := NewTestSim(WithSeed(3), WithHostile(100, 300))
	ts.RunTicks(20)
	if !ts.World.Field().Valid() {
		t.Fatal("field should be valid on open ground")
	}

	lead := ts.Leader()
	ts.World.AddObstacle(lead.X, lead.Y, 40, 40)
	ts.RunTicks(1)
	dumpLog(t, ts)

	if ts.World.Field().Valid() {
		t.Fatal("field still valid with its target blocked")
	}
	if !ts.SimLog.HasEntry("field", "invalid", "") {
		t.Fatal("no field/invalid event logged")
	}
	// Hostiles keep coming by steering straight at the leader.
	ts.RunTicks(60)
	if ts.World.Stats().PathFallbacks == 0 {
		t.Fatal("expected fallbacks while the field is invalid")
	}
}

// --- Scenario: Spawn Cap ---

func TestScenario_SpawnCap(t *testing.T) {
	t.Log("=== TestScenario_SpawnCap ===")

	ts := NewTestSim(WithSeed(4), WithConfig(func(c *Config) {
		c.SpawnInterval = 0.05
		c.MaxHostiles = 5
	}))
	ts.RunTicks(300)
	s := ts.World.Stats()
	if s.Hostiles > 5 || s.PeakHostiles != 5 {
		t.Fatalf("cap not honoured: live=%d peak=%d", s.Hostiles, s.PeakHostiles)
	}
	if n := ts.SimLog.CountCategory("spawn", "hostile"); n != s.Spawns || n != 5 {
		t.Fatalf("spawn events=%d stats=%d", n, s.Spawns)
	}
}

// --- Scenario: Repath Cadence ---

func TestScenario_RepathCadence(t *testing.T) {
	t.Log("=== TestScenario_RepathCadence ===")

	ts := NewTestSim(WithSeed(6), WithVerbose(true), WithHostile(100, 100))
	ts.RunTicks(120)
	n := ts.SimLog.CountCategory("path", "request")
	if n < 3 || n > 5 {
		t.Fatalf("expected ~4 requests in 2s at a 0.5s interval, got %d", n)
	}
}

// --- Scenario: Kills Are Culled ---

func TestScenario_KilledHostileCulled(t *testing.T) {
	t.Log("=== TestScenario_KilledHostileCulled ===")

	ts := NewTestSim(WithSeed(8), WithHostile(100, 100), WithHostile(700, 500))
	id := ts.World.Hostiles()[0].ID
	if ts.World.DamageHostile(id, 50) {
		t.Fatal("half damage killed the hostile")
	}
	if !ts.World.DamageHostile(id, 50) {
		t.Fatal("lethal damage not reported")
	}
	ts.RunTicks(1)
	if n := len(ts.World.Hostiles()); n != 1 {
		t.Fatalf("expected 1 hostile after cull, got %d", n)
	}
	if ts.World.Stats().HostilesKilled != 1 || !ts.SimLog.HasEntry("spawn", "killed", "") {
		t.Fatal("kill not recorded")
	}
	if ts.World.DamageHostile(9999, 100) {
		t.Fatal("unknown hostile reported a kill")
	}
}

// --- Scenario: Bosses ---

func TestScenario_TankShellsQueueForCaller(t *testing.T) {
	t.Log("=== TestScenario_TankShellsQueueForCaller ===")

	ts := NewTestSim(WithSeed(12))
	b := ts.World.SpawnBoss(BossTank)
	ts.RunTicks(240)

	shots := ts.World.DrainProjectiles()
	if len(shots) == 0 {
		t.Fatal("tank never fired")
	}
	for _, s := range shots {
		if s.Kind != ProjectileShell {
			t.Fatalf("tank fired %s", s.Kind)
		}
	}
	if len(ts.World.DrainProjectiles()) != 0 {
		t.Fatal("drain did not clear the queue")
	}
	if ts.World.Stats().Projectiles != len(shots) {
		t.Fatal("projectile counter mismatch")
	}

	if ts.World.DamageBoss(b.ID, tankHealth-1) {
		t.Fatal("tank died early")
	}
	if !ts.World.DamageBoss(b.ID, 1) {
		t.Fatal("tank kill not reported")
	}
	ts.RunTicks(1)
	if len(ts.World.Bosses()) != 0 {
		t.Fatal("dead tank not culled")
	}
}

func TestScenario_HelicopterDropsHostiles(t *testing.T) {
	t.Log("=== TestScenario_HelicopterDropsHostiles ===")

	ts := NewTestSim(WithSeed(13))
	ts.World.SpawnBoss(BossHelicopter)
	ts.RunTicks(60 * 8)
	dumpSummary(t, ts)

	if !ts.SimLog.HasEntry("boss", "dash", "") {
		t.Fatal("helicopter never logged a dash")
	}
	drops := ts.SimLog.CountCategory("boss", "drop")
	if drops < 3 {
		t.Fatalf("expected a dash to drop at least 3 hostiles, got %d", drops)
	}
	if ts.World.Stats().Spawns != drops {
		t.Fatalf("drops=%d spawns=%d", drops, ts.World.Stats().Spawns)
	}
	if len(ts.World.DrainProjectiles()) == 0 {
		t.Fatal("helicopter never fired a burst")
	}
}

// --- Scenario: Level Reset ---

func TestScenario_ResetLevel(t *testing.T) {
	t.Log("=== TestScenario_ResetLevel ===")

	ts := NewTestSim(
		WithSeed(14),
		WithConfig(func(c *Config) {
			c.SpawnInterval = 0.2
			c.SquadSize = 3
		}),
		WithObstacle(300, 220, 40, 40),
	)
	ts.World.SpawnBoss(BossTank)
	ts.World.SetInput(1, 0)
	ts.RunTicks(120)
	before := ts.World.Stats()

	ts.World.ResetLevel()
	w := ts.World
	if len(w.Hostiles()) != 0 || len(w.Bosses()) != 0 || w.Obstacles().Len() != 0 {
		t.Fatal("agents or obstacles survived the reset")
	}
	if w.Field().Valid() || w.Visibility().SeenCount() != 0 {
		t.Fatal("navigation or fog state survived the reset")
	}
	for _, ok := range w.Grid().WalkableMask() {
		if !ok {
			t.Fatal("grid still has blocked cells")
		}
	}
	lead := ts.Leader()
	if lead.X != 400 || lead.Y != 300 || len(w.Squad().Members) != 3 {
		t.Fatalf("squad not restored: leader (%.1f,%.1f) size %d", lead.X, lead.Y, len(w.Squad().Members))
	}

	ts.RunTicks(1)
	after := w.Stats()
	if after.Ticks != before.Ticks+1 || after.LevelResets != 1 || after.Spawns < before.Spawns {
		t.Fatalf("counters should survive the reset: before=%+v after=%+v", before, after)
	}
	if !w.Field().Valid() {
		t.Fatal("field not rebuilt on the first tick after reset")
	}
}

// --- Scenario: Fog Follows The Leader ---

func TestScenario_FogFollowsLeader(t *testing.T) {
	t.Log("=== TestScenario_FogFollowsLeader ===")

	ts := NewTestSim(WithSeed(15), WithObstacle(300, 220, 40, 40))
	ts.RunTicks(1)
	vis := ts.World.Visibility()
	if vis.Fog(5, 7) != nav.FogVisible {
		t.Fatalf("crate cell should be visible, got %s", vis.Fog(5, 7))
	}

	// Walk east until the crate is out of range; it stays remembered.
	ts.World.SetInput(1, 0)
	ts.RunUntil(func(ts *TestSim) bool { return ts.Leader().X > 600 }, 300)
	if vis.Fog(5, 7) != nav.FogRemembered {
		t.Fatalf("crate cell should be remembered, got %s", vis.Fog(5, 7))
	}
	if vis.Fog(0, 0) != nav.FogHidden {
		t.Fatal("far corner should be hidden")
	}
}
