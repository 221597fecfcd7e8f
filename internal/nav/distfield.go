package nav

import (
	"container/heap"
	"math"
)

// DistanceField holds, on each cell, the cheapest 8-directional cost to a
// single target cell. One field is shared by every agent seeking the target.
type DistanceField struct {
	grid   *Grid
	target *Cell
	valid  bool

	open   distQueue
	nbrBuf []*Cell
}

// NewDistanceField creates an invalid field over g.
func NewDistanceField(g *Grid) *DistanceField {
	return &DistanceField{
		grid:   g,
		open:   make(distQueue, 0, g.Len()/4),
		nbrBuf: make([]*Cell, 0, 8),
	}
}

func (f *DistanceField) Grid() *Grid   { return f.grid }
func (f *DistanceField) Valid() bool   { return f.valid }
func (f *DistanceField) Target() *Cell { return f.target }

// Invalidate marks the field non-authoritative. Distances are kept.
func (f *DistanceField) Invalidate() { f.valid = false }

// Distance returns c's distance to the target, +Inf when unknown.
func (f *DistanceField) Distance(c *Cell) float64 {
	if !f.valid || c == nil {
		return math.Inf(1)
	}
	return c.Distance
}

// Recompute rebuilds the field toward the cell under world point (x, y).
// When that cell is absent or unwalkable the field is marked invalid and the
// previous distances are left in place. Returns whether the field is valid.
func (f *DistanceField) Recompute(x, y float64) bool {
	target := f.grid.CellAt(x, y)
	if target == nil || !target.Walkable {
		f.valid = false
		return false
	}

	inf := math.Inf(1)
	for i := range f.grid.cells {
		f.grid.cells[i].Distance = inf
	}
	target.Distance = 0

	f.open = f.open[:0]
	heap.Push(&f.open, distEntry{cell: target, dist: 0})

	for f.open.Len() > 0 {
		cur := heap.Pop(&f.open).(distEntry)
		if cur.dist > cur.cell.Distance {
			continue // stale
		}
		f.nbrBuf = f.grid.AppendNeighbors(f.nbrBuf[:0], cur.cell)
		for _, n := range f.nbrBuf {
			nd := cur.dist + StepCost(cur.cell, n)
			if nd < n.Distance {
				n.Distance = nd
				heap.Push(&f.open, distEntry{cell: n, dist: nd})
			}
		}
	}

	f.target = target
	f.valid = true
	return true
}

// --- priority queue ---

type distEntry struct {
	cell *Cell
	dist float64
}

type distQueue []distEntry

func (q distQueue) Len() int            { return len(q) }
func (q distQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q distQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *distQueue) Push(x interface{}) { *q = append(*q, x.(distEntry)) }
func (q *distQueue) Pop() interface{} {
	old := *q
	e := old[len(old)-1]
	*q = old[:len(old)-1]
	return e
}

// --- cadence ---

// FieldSchedule decides when the shared field is rebuilt. It runs on its own
// clock, independent of frame and per-agent timers.
type FieldSchedule struct {
	Interval    float64 // seconds between routine rebuilds
	MinInterval float64 // floor between rebuilds when the target changes cell

	sinceLast  float64
	lastRow    int
	lastCol    int
	hasTarget  bool
	recomputes int
}

// NewFieldSchedule returns a schedule that fires on its first check.
func NewFieldSchedule(interval, minInterval float64) *FieldSchedule {
	return &FieldSchedule{
		Interval:    interval,
		MinInterval: minInterval,
		sinceLast:   interval,
	}
}

// Recomputes is the number of rebuilds this schedule has triggered.
func (s *FieldSchedule) Recomputes() int { return s.recomputes }

// Reset forces a rebuild on the next check.
func (s *FieldSchedule) Reset() {
	s.sinceLast = s.Interval
	s.hasTarget = false
}

// Due advances the clock by dt and reports whether a rebuild is due for a
// target currently in cell (row, col).
func (s *FieldSchedule) Due(dt float64, row, col int) bool {
	s.sinceLast += dt
	if !s.hasTarget {
		return true
	}
	if s.sinceLast >= s.Interval {
		return true
	}
	moved := row != s.lastRow || col != s.lastCol
	return moved && s.sinceLast >= s.MinInterval
}

// Refresh advances the schedule and rebuilds f toward (x, y) when due.
// Returns true when a rebuild ran, whether or not it produced a valid field.
func (s *FieldSchedule) Refresh(dt float64, f *DistanceField, x, y float64) bool {
	cs := f.grid.CellSize()
	row := int(math.Floor(y / cs))
	col := int(math.Floor(x / cs))
	if !s.Due(dt, row, col) {
		return false
	}
	f.Recompute(x, y)
	s.sinceLast = 0
	s.lastRow, s.lastCol = row, col
	s.hasTarget = true
	s.recomputes++
	return true
}
