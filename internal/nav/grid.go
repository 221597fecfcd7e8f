package nav

import "math"

// ObstacleID is a handle into the obstacle table owned by the game world.
// The grid only stores handles; it never owns obstacle lifetime.
type ObstacleID uint32

// NoObstacle marks a cell that carries no obstacle reference.
const NoObstacle ObstacleID = 0

// Box is an axis-aligned world-space rectangle given by its center and size.
type Box struct {
	CX, CY float64
	W, H   float64
}

// Obstacle is anything the grid can stamp into its cells.
type Obstacle interface {
	ObstacleID() ObstacleID
	Box() Box
}

// Cell is one grid square. Identity is (Row, Col).
type Cell struct {
	Row, Col int
	X, Y     float64 // world-space center, fixed at construction

	Walkable bool
	Obstacle ObstacleID

	// Distance is the cost to the target of the last DistanceField run.
	Distance float64
}

// Occupied reports whether the cell carries a live obstacle handle.
func (c *Cell) Occupied() bool { return c.Obstacle != NoObstacle }

// Grid is a dense row-major array of cells covering the world.
type Grid struct {
	rows     int
	cols     int
	cellSize float64
	cells    []Cell
}

// NewGrid builds a grid of ceil(w/cellSize) × ceil(h/cellSize) cells.
// Shape is immutable after construction.
func NewGrid(worldW, worldH, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(math.Ceil(worldW / cellSize))
	rows := int(math.Ceil(worldH / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	g := &Grid{
		rows:     rows,
		cols:     cols,
		cellSize: cellSize,
		cells:    make([]Cell, rows*cols),
	}
	half := cellSize / 2
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.cells[r*cols+c] = Cell{
				Row:      r,
				Col:      c,
				X:        float64(c)*cellSize + half,
				Y:        float64(r)*cellSize + half,
				Walkable: true,
				Distance: math.Inf(1),
			}
		}
	}
	return g
}

func (g *Grid) Rows() int              { return g.rows }
func (g *Grid) Cols() int              { return g.cols }
func (g *Grid) CellSize() float64      { return g.cellSize }
func (g *Grid) Len() int               { return len(g.cells) }
func (g *Grid) Index(c *Cell) int      { return c.Row*g.cols + c.Col }
func (g *Grid) At(idx int) *Cell       { return &g.cells[idx] }
func (g *Grid) InBounds(r, c int) bool { return r >= 0 && c >= 0 && r < g.rows && c < g.cols }

// Cell returns the cell at (row, col), or nil when out of bounds.
func (g *Grid) Cell(row, col int) *Cell {
	if !g.InBounds(row, col) {
		return nil
	}
	return &g.cells[row*g.cols+col]
}

// CellAt returns the cell containing world point (x, y), or nil.
func (g *Grid) CellAt(x, y float64) *Cell {
	col := int(math.Floor(x / g.cellSize))
	row := int(math.Floor(y / g.cellSize))
	return g.Cell(row, col)
}

// Blocked reports whether (row, col) is out of bounds or unwalkable.
func (g *Grid) Blocked(row, col int) bool {
	if !g.InBounds(row, col) {
		return true
	}
	return !g.cells[row*g.cols+col].Walkable
}

// Neighbors returns the walkable cells among the 8 around c.
func (g *Grid) Neighbors(c *Cell) []*Cell {
	return g.AppendNeighbors(make([]*Cell, 0, 8), c)
}

// AppendNeighbors appends c's walkable neighbours to dst in row-major
// order over the surrounding 3x3 block. The order is fixed so that
// tie-breaking in callers is deterministic.
func (g *Grid) AppendNeighbors(dst []*Cell, c *Cell) []*Cell {
	if c == nil {
		return dst
	}
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, col := c.Row+dr, c.Col+dc
			if !g.InBounds(r, col) {
				continue
			}
			n := &g.cells[r*g.cols+col]
			if n.Walkable {
				dst = append(dst, n)
			}
		}
	}
	return dst
}

// StepCost is 1 for orthogonal neighbours and √2 for diagonal ones.
func StepCost(a, b *Cell) float64 {
	if a.Row != b.Row && a.Col != b.Col {
		return math.Sqrt2
	}
	return 1
}

// Adjacent reports whether a and b are distinct 8-connected neighbours.
func Adjacent(a, b *Cell) bool {
	dr := a.Row - b.Row
	dc := a.Col - b.Col
	if dr == 0 && dc == 0 {
		return false
	}
	return dr >= -1 && dr <= 1 && dc >= -1 && dc <= 1
}

// --- Obstacle footprints ---

// Footprint returns the inclusive cell rectangle covered by b, clipped to
// the grid. ok is false for degenerate boxes or boxes entirely outside.
// A max edge lying exactly on a cell boundary does not claim the next cell.
func (g *Grid) Footprint(b Box) (r0, c0, r1, c1 int, ok bool) {
	if !(b.W > 0) || !(b.H > 0) {
		return 0, 0, 0, 0, false
	}
	minX := b.CX - b.W/2
	maxX := b.CX + b.W/2
	minY := b.CY - b.H/2
	maxY := b.CY + b.H/2

	c0 = int(math.Floor(minX / g.cellSize))
	r0 = int(math.Floor(minY / g.cellSize))
	c1 = int(math.Ceil(maxX/g.cellSize)) - 1
	r1 = int(math.Ceil(maxY/g.cellSize)) - 1
	if c1 < c0 {
		c1 = c0
	}
	if r1 < r0 {
		r1 = r0
	}

	c0 = max(c0, 0)
	r0 = max(r0, 0)
	c1 = min(c1, g.cols-1)
	r1 = min(r1, g.rows-1)
	if c0 > c1 || r0 > r1 {
		return 0, 0, 0, 0, false
	}
	return r0, c0, r1, c1, true
}

// PlaceObstacle marks every cell under o's footprint unwalkable and points
// it at o. A cell already claimed by another obstacle is re-claimed.
func (g *Grid) PlaceObstacle(o Obstacle) {
	id := o.ObstacleID()
	if id == NoObstacle {
		return
	}
	r0, c0, r1, c1, ok := g.Footprint(o.Box())
	if !ok {
		return
	}
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			cell := &g.cells[r*g.cols+c]
			cell.Walkable = false
			cell.Obstacle = id
		}
	}
}

// RemoveObstacle clears o's footprint, recomputed from its current box.
// Only cells still referencing o are cleared.
func (g *Grid) RemoveObstacle(o Obstacle) {
	id := o.ObstacleID()
	if id == NoObstacle {
		return
	}
	r0, c0, r1, c1, ok := g.Footprint(o.Box())
	if !ok {
		return
	}
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			cell := &g.cells[r*g.cols+c]
			if cell.Obstacle != id {
				continue
			}
			cell.Walkable = true
			cell.Obstacle = NoObstacle
		}
	}
}

// Reset clears every obstacle reference. Used on level reset.
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i].Walkable = true
		g.cells[i].Obstacle = NoObstacle
		g.cells[i].Distance = math.Inf(1)
	}
}

// WalkableMask returns a copy of the walkable flags in row-major order.
func (g *Grid) WalkableMask() []bool {
	out := make([]bool, len(g.cells))
	for i := range g.cells {
		out[i] = g.cells[i].Walkable
	}
	return out
}
