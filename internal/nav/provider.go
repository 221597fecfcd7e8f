package nav

import "fmt"

// PathProvider hands out bounded paths toward the shared destination.
type PathProvider interface {
	PathFrom(start *Cell, maxSteps int) []*Cell
}

// Strategy names a PathProvider implementation.
type Strategy string

const (
	StrategyField  Strategy = "field"  // one shared distance field, greedy descent
	StrategySearch Strategy = "search" // independent A* per request
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyField, StrategySearch:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown path strategy %q (want %q or %q)", s, StrategyField, StrategySearch)
	}
}

// FieldPaths extracts paths from a shared distance field.
type FieldPaths struct {
	Field *DistanceField
}

func (p FieldPaths) PathFrom(start *Cell, maxSteps int) []*Cell {
	return ExtractPath(p.Field, start, maxSteps)
}

// SearchPaths runs A* from each start to the current goal. Suited to
// deployments where agents do not share one field.
type SearchPaths struct {
	Grid *Grid
	goal *Cell
}

// SetGoal sets the destination for later requests. nil disables paths.
func (p *SearchPaths) SetGoal(c *Cell) { p.goal = c }

func (p *SearchPaths) Goal() *Cell { return p.goal }

func (p *SearchPaths) PathFrom(start *Cell, maxSteps int) []*Cell {
	if maxSteps <= 0 {
		return nil
	}
	path := FindPath(p.Grid, start, p.goal)
	if len(path) > maxSteps {
		path = path[:maxSteps]
	}
	return path
}
