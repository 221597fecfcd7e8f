package nav

import (
	"container/heap"
	"math"
)

// --- A* point-to-point search ---

type searchNode struct {
	cell   *Cell
	g, h   float64
	parent *searchNode
}

type searchQueue []*searchNode

func (q searchQueue) Len() int { return len(q) }
func (q searchQueue) Less(i, j int) bool {
	fi, fj := q[i].g+q[i].h, q[j].g+q[j].h
	if fi == fj {
		return q[i].h < q[j].h
	}
	return fi < fj
}
func (q searchQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *searchQueue) Push(x interface{}) { *q = append(*q, x.(*searchNode)) }
func (q *searchQueue) Pop() interface{} {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return n
}

// cellDistance is the straight-line distance between two cells in cell units.
// It never overestimates the 8-directional cost, so it is admissible.
func cellDistance(a, b *Cell) float64 {
	dr := float64(a.Row - b.Row)
	dc := float64(a.Col - b.Col)
	return math.Sqrt(dr*dr + dc*dc)
}

// FindPath returns the cheapest path from start to goal, excluding start and
// including goal. Returns nil if either end is missing, the goal is blocked,
// or no path exists. Cells are not mutated, so searches may run while other
// callers read a shared DistanceField.
func FindPath(g *Grid, start, goal *Cell) []*Cell {
	if start == nil || goal == nil || !goal.Walkable {
		return nil
	}
	if start == goal {
		return nil
	}

	best := make(map[int]*searchNode)
	closed := make(map[int]bool)

	root := &searchNode{cell: start, h: cellDistance(start, goal)}
	best[g.Index(start)] = root
	open := &searchQueue{root}
	heap.Init(open)

	var nbrs [8]*Cell
	for open.Len() > 0 {
		cur := heap.Pop(open).(*searchNode)
		if cur.cell == goal {
			return retrace(cur)
		}
		k := g.Index(cur.cell)
		if closed[k] {
			continue
		}
		closed[k] = true

		for _, n := range g.AppendNeighbors(nbrs[:0], cur.cell) {
			nk := g.Index(n)
			if closed[nk] {
				continue
			}
			ng := cur.g + StepCost(cur.cell, n)
			if prev, ok := best[nk]; ok && ng >= prev.g {
				continue
			}
			node := &searchNode{cell: n, g: ng, h: cellDistance(n, goal), parent: cur}
			best[nk] = node
			heap.Push(open, node)
		}
	}
	return nil
}

func retrace(end *searchNode) []*Cell {
	var cells []*Cell
	for n := end; n.parent != nil; n = n.parent {
		cells = append(cells, n.cell)
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}
