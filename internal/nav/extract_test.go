package nav

import "testing"

func TestExtractPath_InvalidFieldIsEmpty(t *testing.T) {
	g := NewGrid(400, 400, 40)
	f := NewDistanceField(g)
	if p := ExtractPath(f, g.Cell(0, 0), 10); len(p) != 0 {
		t.Fatalf("expected empty path on never-computed field, got %d cells", len(p))
	}
	f.Recompute(220, 220)
	f.Invalidate()
	if p := ExtractPath(f, g.Cell(0, 0), 10); len(p) != 0 {
		t.Fatal("expected empty path on invalidated field")
	}
	if p := ExtractPath(nil, g.Cell(0, 0), 10); len(p) != 0 {
		t.Fatal("expected empty path on nil field")
	}
}

func TestExtractPath_NilStartOrZeroSteps(t *testing.T) {
	g := NewGrid(400, 400, 40)
	f := NewDistanceField(g)
	f.Recompute(220, 220)
	if p := ExtractPath(f, nil, 10); len(p) != 0 {
		t.Fatal("nil start should give an empty path")
	}
	if p := ExtractPath(f, g.Cell(0, 0), 0); len(p) != 0 {
		t.Fatal("zero maxSteps should give an empty path")
	}
}

func TestExtractPath_ReachesTargetOnOpenGrid(t *testing.T) {
	g := NewGrid(400, 400, 40)
	f := NewDistanceField(g)
	f.Recompute(220, 220)
	p := ExtractPath(f, g.Cell(0, 0), 20)
	if len(p) != 5 {
		t.Fatalf("expected 5 hops from (0,0) to (5,5), got %d", len(p))
	}
	if p[len(p)-1] != f.Target() {
		t.Fatal("path should end at the target")
	}
}

func TestExtractPath_BoundedAndAdjacent(t *testing.T) {
	g := NewGrid(400, 400, 40)
	g.PlaceObstacle(newTestObstacle(1, 180, 180, 40, 360))
	f := NewDistanceField(g)
	f.Recompute(20, 20)
	start := g.Cell(0, 8)
	for _, steps := range []int{1, 3, 7, 50} {
		p := ExtractPath(f, start, steps)
		if len(p) > steps {
			t.Fatalf("maxSteps=%d returned %d cells", steps, len(p))
		}
		prev := start
		for i, c := range p {
			if !Adjacent(prev, c) {
				t.Fatalf("maxSteps=%d: hop %d (%d,%d)->(%d,%d) is not adjacent", steps, i, prev.Row, prev.Col, c.Row, c.Col)
			}
			if !c.Walkable {
				t.Fatalf("path enters blocked cell (%d,%d)", c.Row, c.Col)
			}
			if c.Distance >= prev.Distance {
				t.Fatal("every hop must strictly decrease distance")
			}
			prev = c
		}
	}
	if p := ExtractPath(f, start, 50); p[len(p)-1] != f.Target() {
		t.Fatal("with enough steps the descent should reach the target around the wall")
	}
}

func TestExtractPath_AtTargetIsEmpty(t *testing.T) {
	g := NewGrid(400, 400, 40)
	f := NewDistanceField(g)
	f.Recompute(220, 220)
	if p := ExtractPath(f, f.Target(), 5); len(p) != 0 {
		t.Fatal("starting on the target should give an empty path")
	}
}

func TestExtractPath_AvoidsObstacleAddedAfterCompute(t *testing.T) {
	g := NewGrid(400, 400, 40)
	f := NewDistanceField(g)
	f.Recompute(220, 20) // target (0,5)
	// Block the straight-line next step from (0,0).
	g.PlaceObstacle(newTestObstacle(1, 60, 20, 40, 40))
	p := ExtractPath(f, g.Cell(0, 0), 10)
	for _, c := range p {
		if !c.Walkable {
			t.Fatal("stale field descent must not step into a newly blocked cell")
		}
	}
}

func TestExtractPath_DoesNotMutateField(t *testing.T) {
	g := NewGrid(400, 400, 40)
	f := NewDistanceField(g)
	f.Recompute(220, 220)
	snapshot := make([]float64, g.Len())
	for i := range snapshot {
		snapshot[i] = g.At(i).Distance
	}
	ExtractPath(f, g.Cell(9, 0), 10)
	ExtractPath(f, g.Cell(0, 9), 10)
	for i := range snapshot {
		if g.At(i).Distance != snapshot[i] {
			t.Fatalf("distance at %d changed during extraction", i)
		}
	}
}

func TestWaypoints(t *testing.T) {
	g := NewGrid(400, 400, 40)
	wps := Waypoints([]*Cell{g.Cell(1, 2), g.Cell(3, 4)})
	if len(wps) != 2 || wps[0] != [2]float64{100, 60} || wps[1] != [2]float64{180, 140} {
		t.Fatalf("unexpected waypoints %v", wps)
	}
	if Waypoints(nil) != nil {
		t.Fatal("no cells should give nil waypoints")
	}
}
