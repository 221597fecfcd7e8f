package game

import (
	"math"

	"github.com/Garsondee/Holdout/internal/nav"
)

// walker moves an agent along waypoints handed out by a PathProvider and
// steers straight at the target when it has none left.
type walker struct {
	X, Y  float64
	Speed float64 // px per tick
	label string

	path     [][2]float64
	pathIdx  int
	repathIn float64 // seconds until the next path request
	fallback bool    // last request produced no waypoints
}

// repathDue advances the agent's own repath timer by dt.
func (w *walker) repathDue(dt, interval float64) bool {
	w.repathIn -= dt
	if w.repathIn > 0 {
		return false
	}
	w.repathIn += interval
	if w.repathIn <= 0 {
		w.repathIn = interval
	}
	return true
}

// setPath replaces the waypoint buffer with the centers of cells.
func (w *walker) setPath(cells []*nav.Cell) {
	w.path = nav.Waypoints(cells)
	w.pathIdx = 0
	w.fallback = len(w.path) == 0
}

// Waypoints returns the waypoints not yet reached.
func (w *walker) Waypoints() [][2]float64 {
	if w.pathIdx >= len(w.path) {
		return nil
	}
	return w.path[w.pathIdx:]
}

// Steering reports whether the agent is steering directly at its target.
func (w *walker) Steering() bool { return w.pathIdx >= len(w.path) }

// step moves at most Speed pixels toward the next waypoint, or toward
// (tx, ty) when none remain. Waypoints within radius are dropped first.
func (w *walker) step(g *nav.Grid, tx, ty, radius float64) {
	r2 := radius * radius
	for w.pathIdx < len(w.path) {
		wp := w.path[w.pathIdx]
		dx, dy := wp[0]-w.X, wp[1]-w.Y
		if dx*dx+dy*dy > r2 {
			break
		}
		w.pathIdx++
	}

	gx, gy := tx, ty
	if w.pathIdx < len(w.path) {
		gx, gy = w.path[w.pathIdx][0], w.path[w.pathIdx][1]
	}
	dx, dy := gx-w.X, gy-w.Y
	dist := math.Hypot(dx, dy)
	if dist < 1e-6 {
		return
	}
	s := math.Min(w.Speed, dist)
	w.X, w.Y = constrainStep(g, w.X, w.Y, w.X+dx/dist*s, w.Y+dy/dist*s)
}

// constrainStep returns where a mover at (x0, y0) ends up when it wants
// (x1, y1). A mover on a walkable cell never enters an unwalkable one; it
// slides along whichever axis stays clear, or stops. Movers off the grid or
// already inside an obstacle are not constrained, so they can walk in from
// the spawn margin or out of a freshly placed crate.
func constrainStep(g *nav.Grid, x0, y0, x1, y1 float64) (float64, float64) {
	from := g.CellAt(x0, y0)
	if from == nil || !from.Walkable {
		return x1, y1
	}
	switch {
	case openAt(g, x1, y1):
		return x1, y1
	case openAt(g, x1, y0):
		return x1, y0
	case openAt(g, x0, y1):
		return x0, y1
	default:
		return x0, y0
	}
}

func openAt(g *nav.Grid, x, y float64) bool {
	c := g.CellAt(x, y)
	return c == nil || c.Walkable
}
