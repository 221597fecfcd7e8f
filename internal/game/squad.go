package game

import (
	"math"

	"github.com/Garsondee/Holdout/internal/nav"
)

const (
	memberRadius    = 10.0
	leaderSpeed     = 3.0  // px per tick at full input
	leaderSmoothing = 0.2  // fraction of the velocity gap closed per tick
	edgeClamp       = 50.0 // leader stays this far inside the world
	followerLerp    = 0.1
	ringSlots       = 6
)

// Member is one friendly agent. Index 0 is the leader.
type Member struct {
	X, Y  float64
	Index int
}

func (m *Member) Leader() bool    { return m.Index == 0 }
func (m *Member) Radius() float64 { return memberRadius }

// slotOffset is the ring position a follower holds around the leader.
func (m *Member) slotOffset() (float64, float64) {
	angle := float64(m.Index) * 2 * math.Pi / ringSlots
	dist := 30 + 15*float64(m.Index)
	return math.Cos(angle) * dist, math.Sin(angle) * dist
}

// Squad is the friendly cohort. The leader is steered by an input vector;
// followers ease toward ring slots around it.
type Squad struct {
	Members []*Member
	Palette int

	vx, vy float64
	ix, iy float64
	worldW float64
	worldH float64
}

// NewSquad creates a squad of size members with the leader at (x, y).
func NewSquad(x, y, worldW, worldH float64, size, palette int) *Squad {
	sq := &Squad{Palette: palette, worldW: worldW, worldH: worldH}
	sq.Members = append(sq.Members, &Member{X: x, Y: y})
	for i := 1; i < size; i++ {
		sq.AddSoldier(x, y)
	}
	return sq
}

// AddSoldier appends a follower starting at (x, y).
func (sq *Squad) AddSoldier(x, y float64) *Member {
	m := &Member{X: x, Y: y, Index: len(sq.Members)}
	sq.Members = append(sq.Members, m)
	return m
}

// Leader returns member 0, or nil for an empty squad.
func (sq *Squad) Leader() *Member {
	if len(sq.Members) == 0 {
		return nil
	}
	return sq.Members[0]
}

// Steer sets the leader's input direction; components are in [-1, 1].
func (sq *Squad) Steer(ix, iy float64) {
	sq.ix = math.Max(-1, math.Min(1, ix))
	sq.iy = math.Max(-1, math.Min(1, iy))
}

// Velocity is the leader's current smoothed velocity.
func (sq *Squad) Velocity() (float64, float64) { return sq.vx, sq.vy }

// Update moves the leader then the followers by one tick.
func (sq *Squad) Update(g *nav.Grid) {
	lead := sq.Leader()
	if lead == nil {
		return
	}

	tx, ty := sq.ix*leaderSpeed, sq.iy*leaderSpeed
	if tx != 0 && ty != 0 {
		tx *= math.Sqrt2 / 2
		ty *= math.Sqrt2 / 2
	}
	sq.vx += (tx - sq.vx) * leaderSmoothing
	sq.vy += (ty - sq.vy) * leaderSmoothing

	nx := clamp(lead.X+sq.vx, edgeClamp, sq.worldW-edgeClamp)
	ny := clamp(lead.Y+sq.vy, edgeClamp, sq.worldH-edgeClamp)
	lead.X, lead.Y = constrainStep(g, lead.X, lead.Y, nx, ny)

	for _, m := range sq.Members[1:] {
		ox, oy := m.slotOffset()
		sx, sy := lead.X+ox, lead.Y+oy
		m.X, m.Y = constrainStep(g, m.X, m.Y,
			m.X+(sx-m.X)*followerLerp,
			m.Y+(sy-m.Y)*followerLerp)
	}
}

// Reset puts a fresh squad of size members at (x, y).
func (sq *Squad) Reset(x, y float64, size int) {
	sq.Members = sq.Members[:0]
	sq.Members = append(sq.Members, &Member{X: x, Y: y})
	for i := 1; i < size; i++ {
		sq.AddSoldier(x, y)
	}
	sq.vx, sq.vy = 0, 0
	sq.ix, sq.iy = 0, 0
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}
