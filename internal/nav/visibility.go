package nav

import "math"

// FogState is the fog-of-war classification of one cell.
type FogState uint8

const (
	FogHidden     FogState = iota // never visible, or visible without an obstacle and now out of sight
	FogRemembered                 // obstacle seen before, not visible now
	FogVisible                    // in sight this update
)

func (s FogState) String() string {
	switch s {
	case FogHidden:
		return "hidden"
	case FogRemembered:
		return "remembered"
	case FogVisible:
		return "visible"
	default:
		return "unknown"
	}
}

// Opacity is the overlay opacity a renderer should draw for the state.
func (s FogState) Opacity() float64 {
	switch s {
	case FogVisible:
		return 0
	case FogRemembered:
		return 0.6
	default:
		return 1
	}
}

// Visibility holds the per-cell "visible now" matrix and the sticky
// "obstacle seen" memory. Both are row-major and sized to the grid.
type Visibility struct {
	grid    *Grid
	visible []bool
	seen    []bool

	viewer       *Cell
	visibleCount int
}

// NewVisibility creates an all-hidden visibility field over g.
func NewVisibility(g *Grid) *Visibility {
	return &Visibility{
		grid:    g,
		visible: make([]bool, g.Len()),
		seen:    make([]bool, g.Len()),
	}
}

// Update recomputes the visible matrix from the viewer at world point (x, y).
// A cell is a candidate when its center lies within radius of the viewer;
// it becomes visible when LineOfSight from the viewer cell reaches it.
// Visible cells carrying an obstacle set their sticky bit.
func (v *Visibility) Update(x, y, radius float64) {
	for i := range v.visible {
		v.visible[i] = false
	}
	v.visibleCount = 0
	v.viewer = v.grid.CellAt(x, y)
	if v.viewer == nil || !(radius > 0) {
		return
	}

	cs := v.grid.cellSize
	r0 := max(int(math.Floor((y-radius)/cs)), 0)
	r1 := min(int(math.Floor((y+radius)/cs)), v.grid.rows-1)
	c0 := max(int(math.Floor((x-radius)/cs)), 0)
	c1 := min(int(math.Floor((x+radius)/cs)), v.grid.cols-1)
	r2 := radius * radius

	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			idx := r*v.grid.cols + c
			cell := &v.grid.cells[idx]
			dx := cell.X - x
			dy := cell.Y - y
			if dx*dx+dy*dy > r2 {
				continue
			}
			if !LineOfSight(v.grid, v.viewer, cell) {
				continue
			}
			v.visible[idx] = true
			v.visibleCount++
			if cell.Occupied() {
				v.seen[idx] = true
			}
		}
	}
}

// Reset clears both matrices, including the sticky memory.
func (v *Visibility) Reset() {
	for i := range v.visible {
		v.visible[i] = false
		v.seen[i] = false
	}
	v.visibleCount = 0
	v.viewer = nil
}

func (v *Visibility) Viewer() *Cell     { return v.viewer }
func (v *Visibility) VisibleCount() int { return v.visibleCount }

// IsVisible reports whether (row, col) was in sight at the last update.
func (v *Visibility) IsVisible(row, col int) bool {
	if !v.grid.InBounds(row, col) {
		return false
	}
	return v.visible[row*v.grid.cols+col]
}

// WasObstacleSeen reports whether an obstacle was ever seen at (row, col)
// since the last Reset.
func (v *Visibility) WasObstacleSeen(row, col int) bool {
	if !v.grid.InBounds(row, col) {
		return false
	}
	return v.seen[row*v.grid.cols+col]
}

// Fog classifies (row, col) for an overlay renderer.
func (v *Visibility) Fog(row, col int) FogState {
	switch {
	case v.IsVisible(row, col):
		return FogVisible
	case v.WasObstacleSeen(row, col):
		return FogRemembered
	default:
		return FogHidden
	}
}

// SeenCount returns how many cells carry the sticky obstacle bit.
func (v *Visibility) SeenCount() int {
	n := 0
	for _, s := range v.seen {
		if s {
			n++
		}
	}
	return n
}

// --- line of sight ---

// LineOfSight reports whether the segment between the centers of a and b
// passes only through walkable cells. The endpoints themselves never block.
// Where the segment crosses exactly through a cell corner, it is blocked only
// if both cells beside that corner are blocked. Endpoints are put in a fixed
// order first, so LineOfSight(a, b) == LineOfSight(b, a).
func LineOfSight(g *Grid, a, b *Cell) bool {
	if a == nil || b == nil {
		return false
	}
	if b.Row < a.Row || (b.Row == a.Row && b.Col < a.Col) {
		a, b = b, a
	}

	x, y := a.Col, a.Row
	dx, dy := b.Col-a.Col, b.Row-a.Row
	nx, ny := absInt(dx), absInt(dy)
	sx, sy := signInt(dx), signInt(dy)

	for ix, iy := 0, 0; ix < nx || iy < ny; {
		d := (1+2*ix)*ny - (1+2*iy)*nx
		switch {
		case d == 0:
			if g.Blocked(y, x+sx) && g.Blocked(y+sy, x) {
				return false
			}
			x += sx
			y += sy
			ix++
			iy++
		case d < 0:
			x += sx
			ix++
		default:
			y += sy
			iy++
		}
		if x == b.Col && y == b.Row {
			return true
		}
		if g.Blocked(y, x) {
			return false
		}
	}
	return true
}

// SupercoverCells lists the cells strictly between a and b visited by
// LineOfSight, in canonical order. Used by overlays and tests.
func SupercoverCells(g *Grid, a, b *Cell) []*Cell {
	if a == nil || b == nil {
		return nil
	}
	if b.Row < a.Row || (b.Row == a.Row && b.Col < a.Col) {
		a, b = b, a
	}
	var out []*Cell
	x, y := a.Col, a.Row
	dx, dy := b.Col-a.Col, b.Row-a.Row
	nx, ny := absInt(dx), absInt(dy)
	sx, sy := signInt(dx), signInt(dy)
	for ix, iy := 0, 0; ix < nx || iy < ny; {
		d := (1+2*ix)*ny - (1+2*iy)*nx
		switch {
		case d == 0:
			x += sx
			y += sy
			ix++
			iy++
		case d < 0:
			x += sx
			ix++
		default:
			y += sy
			iy++
		}
		if x == b.Col && y == b.Row {
			break
		}
		out = append(out, g.Cell(y, x))
	}
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func signInt(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
