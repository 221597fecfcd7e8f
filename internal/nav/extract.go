package nav

// ExtractPath walks greedily down f from start, at most maxSteps hops.
// Each hop moves to the walkable neighbour with the strictly lowest distance
// below the current cell's; the first such neighbour in Neighbors order wins
// ties. The walk stops at the target or at a local minimum. The start cell
// is not included. f is only read, so any number of callers may share it.
func ExtractPath(f *DistanceField, start *Cell, maxSteps int) []*Cell {
	if f == nil || !f.valid || start == nil || maxSteps <= 0 {
		return nil
	}
	var nbrs [8]*Cell
	path := make([]*Cell, 0, maxSteps)
	cur := start
	for len(path) < maxSteps && cur.Distance > 0 {
		var next *Cell
		best := cur.Distance
		for _, n := range f.grid.AppendNeighbors(nbrs[:0], cur) {
			if n.Distance < best {
				best = n.Distance
				next = n
			}
		}
		if next == nil {
			break
		}
		path = append(path, next)
		cur = next
	}
	return path
}

// Waypoints converts cells to their world-space centers.
func Waypoints(cells []*Cell) [][2]float64 {
	if len(cells) == 0 {
		return nil
	}
	out := make([][2]float64, len(cells))
	for i, c := range cells {
		out[i] = [2]float64{c.X, c.Y}
	}
	return out
}
