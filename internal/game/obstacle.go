package game

import (
	"math"

	"github.com/Garsondee/Holdout/internal/nav"
)

const (
	obstacleSize   = 40.0
	obstacleHealth = 100
	pickRadius     = 1.0 // point lookups treat the cursor as a 1px circle
)

// Obstacle is a destructible axis-aligned crate. The grid only ever holds
// its ID; the ObstacleTable owns it.
type Obstacle struct {
	id        nav.ObstacleID
	X, Y      float64 // center
	W, H      float64
	Health    int
	MaxHealth int
	active    bool
}

func (o *Obstacle) ObstacleID() nav.ObstacleID { return o.id }

func (o *Obstacle) Box() nav.Box {
	return nav.Box{CX: o.X, CY: o.Y, W: o.W, H: o.H}
}

// Active is false once health has dropped to zero.
func (o *Obstacle) Active() bool { return o.active }

// HealthRatio is the remaining health in [0, 1].
func (o *Obstacle) HealthRatio() float64 {
	if o.MaxHealth <= 0 {
		return 0
	}
	return math.Max(0, float64(o.Health)/float64(o.MaxHealth))
}

// CollidesWithCircle reports whether an active obstacle overlaps the circle.
func (o *Obstacle) CollidesWithCircle(cx, cy, r float64) bool {
	if !o.active {
		return false
	}
	nx := math.Max(o.X-o.W/2, math.Min(cx, o.X+o.W/2))
	ny := math.Max(o.Y-o.H/2, math.Min(cy, o.Y+o.H/2))
	dx, dy := cx-nx, cy-ny
	return dx*dx+dy*dy < r*r
}

// ObstacleTable owns every obstacle of the level, keyed by ObstacleID.
// Destroyed obstacles stay in the table until the world has cleared their
// footprint, so removal can still read their geometry.
type ObstacleTable struct {
	byID      map[nav.ObstacleID]*Obstacle
	order     []*Obstacle
	destroyed []*Obstacle
	nextID    nav.ObstacleID
}

func NewObstacleTable() *ObstacleTable {
	return &ObstacleTable{
		byID:   make(map[nav.ObstacleID]*Obstacle),
		nextID: 1,
	}
}

// Add registers a new full-health obstacle and returns it.
func (t *ObstacleTable) Add(x, y, w, h float64) *Obstacle {
	o := &Obstacle{
		id:        t.nextID,
		X:         x,
		Y:         y,
		W:         w,
		H:         h,
		Health:    obstacleHealth,
		MaxHealth: obstacleHealth,
		active:    true,
	}
	t.nextID++
	t.byID[o.id] = o
	t.order = append(t.order, o)
	return o
}

// Get returns the obstacle for id, or nil.
func (t *ObstacleTable) Get(id nav.ObstacleID) *Obstacle {
	if id == nav.NoObstacle {
		return nil
	}
	return t.byID[id]
}

// Damage subtracts n health. An obstacle reaching zero is deactivated and
// queued for grid removal; the return value reports that transition.
func (t *ObstacleTable) Damage(id nav.ObstacleID, n int) bool {
	o := t.Get(id)
	if o == nil || !o.active || n <= 0 {
		return false
	}
	o.Health -= n
	if o.Health > 0 {
		return false
	}
	o.Health = 0
	o.active = false
	t.destroyed = append(t.destroyed, o)
	return true
}

// DrainDestroyed returns obstacles destroyed since the last drain.
func (t *ObstacleTable) DrainDestroyed() []*Obstacle {
	out := t.destroyed
	t.destroyed = nil
	return out
}

// Remove forgets id entirely.
func (t *ObstacleTable) Remove(id nav.ObstacleID) {
	if _, ok := t.byID[id]; !ok {
		return
	}
	delete(t.byID, id)
	for i, o := range t.order {
		if o.id == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// All returns obstacles in insertion order, including destroyed ones that
// are still awaiting removal.
func (t *ObstacleTable) All() []*Obstacle { return t.order }

// Len counts registered obstacles.
func (t *ObstacleTable) Len() int { return len(t.order) }

// Reset empties the table. IDs keep increasing so stale handles never alias.
func (t *ObstacleTable) Reset() {
	t.byID = make(map[nav.ObstacleID]*Obstacle)
	t.order = nil
	t.destroyed = nil
}
