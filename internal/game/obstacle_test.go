package game

import (
	"testing"

	"github.com/Garsondee/Holdout/internal/nav"
)

func TestObstacleTable_AddAndGet(t *testing.T) {
	tbl := NewObstacleTable()
	a := tbl.Add(100, 100, 40, 40)
	b := tbl.Add(200, 100, 40, 40)
	if a.ObstacleID() == nav.NoObstacle || a.ObstacleID() == b.ObstacleID() {
		t.Fatal("obstacles need distinct non-zero ids")
	}
	if tbl.Get(b.ObstacleID()) != b || tbl.Len() != 2 {
		t.Fatal("lookup by id failed")
	}
	if tbl.Get(nav.NoObstacle) != nil {
		t.Fatal("NoObstacle must never resolve")
	}
	box := a.Box()
	if box.CX != 100 || box.W != 40 {
		t.Fatalf("unexpected box %+v", box)
	}
}

func TestObstacleTable_DamageDeactivatesAndQueues(t *testing.T) {
	tbl := NewObstacleTable()
	o := tbl.Add(100, 100, 40, 40)
	if tbl.Damage(o.ObstacleID(), 60) {
		t.Fatal("60 damage should not destroy a 100hp crate")
	}
	if o.HealthRatio() != 0.4 {
		t.Fatalf("expected 0.4 health ratio, got %.2f", o.HealthRatio())
	}
	if !tbl.Damage(o.ObstacleID(), 40) {
		t.Fatal("reaching zero should destroy")
	}
	if o.Active() {
		t.Fatal("destroyed obstacle should be inactive")
	}
	if tbl.Damage(o.ObstacleID(), 10) {
		t.Fatal("an inactive obstacle cannot be destroyed twice")
	}
	dead := tbl.DrainDestroyed()
	if len(dead) != 1 || dead[0] != o {
		t.Fatalf("expected one queued removal, got %d", len(dead))
	}
	if len(tbl.DrainDestroyed()) != 0 {
		t.Fatal("drain should empty the queue")
	}
	if tbl.Get(o.ObstacleID()) != o {
		t.Fatal("destroyed obstacle stays registered until removed")
	}
	tbl.Remove(o.ObstacleID())
	if tbl.Get(o.ObstacleID()) != nil || tbl.Len() != 0 {
		t.Fatal("remove should forget the obstacle")
	}
}

func TestObstacleTable_ResetKeepsIDsMonotonic(t *testing.T) {
	tbl := NewObstacleTable()
	first := tbl.Add(0, 0, 40, 40).ObstacleID()
	tbl.Reset()
	if tbl.Len() != 0 {
		t.Fatal("reset should empty the table")
	}
	if next := tbl.Add(0, 0, 40, 40).ObstacleID(); next <= first {
		t.Fatal("ids must not be reused after reset")
	}
}

func TestObstacle_CollidesWithCircle(t *testing.T) {
	tbl := NewObstacleTable()
	o := tbl.Add(100, 100, 40, 40)
	if !o.CollidesWithCircle(125, 100, 10) {
		t.Fatal("circle overlapping the right edge should collide")
	}
	if o.CollidesWithCircle(140, 100, 10) {
		t.Fatal("circle 20px from the edge should not collide")
	}
	tbl.Damage(o.ObstacleID(), 100)
	if o.CollidesWithCircle(100, 100, 5) {
		t.Fatal("destroyed obstacles do not collide")
	}
}

func TestWorld_ObstacleAtQueuedCrate(t *testing.T) {
	ts := NewTestSim(WithSeed(1))
	w := ts.World
	o := w.PlaceObstacle(300, 100)
	if got := w.ObstacleAt(315, 85); got != o {
		t.Fatalf("queued crate not found under the cursor, got %v", got)
	}
	if w.ObstacleAt(330, 100) != nil {
		t.Fatal("point outside the crate matched")
	}
	w.DamageObstacle(o.ObstacleID(), obstacleHealth)
	if w.ObstacleAt(300, 100) != nil {
		t.Fatal("destroyed queued crate still matched")
	}
	ts.RunTicks(1)
	if !w.Grid().CellAt(300, 100).Walkable {
		t.Fatal("crate destroyed while queued reached the grid")
	}
}
