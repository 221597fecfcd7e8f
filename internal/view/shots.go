package view

import "github.com/Garsondee/Holdout/internal/game"

// shot is a boss projectile in flight. The viewer only animates them; hits
// are not resolved.
type shot struct {
	game.ProjectileRequest
	age float64
}

// advanceShots moves live shots one tick, appends fresh requests and drops
// anything past its TTL. live is reused.
func advanceShots(live []shot, fresh []game.ProjectileRequest, dt float64) []shot {
	out := live[:0]
	for _, s := range live {
		s.X += s.DX * s.Speed
		s.Y += s.DY * s.Speed
		s.age += dt
		if s.age < s.TTL {
			out = append(out, s)
		}
	}
	for _, p := range fresh {
		out = append(out, shot{ProjectileRequest: p})
	}
	return out
}
