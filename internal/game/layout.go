package game

import (
	"math"
	"math/rand"
)

// demoScatter is how many loose crates DemoLayout sprinkles.
const demoScatter = 12

// DemoLayout returns crate centres for the stock arena: two wall runs
// flanking the squad start, a short bunker line and a seeded scatter of
// loose crates. Positions land on cell centres and never within three cells
// of the world centre.
func DemoLayout(cfg Config) [][2]float64 {
	cs := cfg.CellSize
	cols := int(math.Ceil(cfg.WorldW / cs))
	rows := int(math.Ceil(cfg.WorldH / cs))
	midR, midC := rows/2, cols/2

	used := map[[2]int]bool{}
	var out [][2]float64
	add := func(r, c int) {
		if r < 0 || c < 0 || r >= rows || c >= cols {
			return
		}
		if abs(r-midR) <= 3 && abs(c-midC) <= 3 {
			return
		}
		k := [2]int{r, c}
		if used[k] {
			return
		}
		used[k] = true
		out = append(out, [2]float64{float64(c)*cs + cs/2, float64(r)*cs + cs/2})
	}

	// Vertical runs left and right of centre.
	for r := rows / 4; r <= rows*3/4; r++ {
		add(r, cols/4)
		add(r, cols*3/4)
	}
	// Bunker line across the top third with a gap in the middle.
	for c := cols/3 - 1; c <= cols*2/3+1; c++ {
		if abs(c-midC) <= 1 {
			continue
		}
		add(rows/5, c)
	}

	fixed := len(out)
	rng := rand.New(rand.NewSource(cfg.Seed)) // #nosec G404 -- layout seed
	for tries := 0; len(out)-fixed < demoScatter && tries < demoScatter*8; tries++ {
		add(rng.Intn(rows), rng.Intn(cols))
	}
	return out
}

// LoadLayout queues a standard crate at each centre.
func (w *World) LoadLayout(centres [][2]float64) {
	for _, p := range centres {
		w.PlaceObstacle(p[0], p[1])
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
