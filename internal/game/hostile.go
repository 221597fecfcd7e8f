package game

import (
	"math/rand"
)

const (
	hostileRadius = 15.0
	hostileHealth = 100
	spawnMargin   = 50.0 // spawn distance outside the world edge
)

// Hostile is one pursuing agent. It re-requests a path on its own timer and
// otherwise just walks the waypoints it has.
type Hostile struct {
	walker
	ID     int
	Health int
	alive  bool
}

func newHostile(id int, x, y, speed, repathIn float64) *Hostile {
	return &Hostile{
		walker: walker{
			X:        x,
			Y:        y,
			Speed:    speed,
			repathIn: repathIn,
		},
		ID:     id,
		Health: hostileHealth,
		alive:  true,
	}
}

func (h *Hostile) Alive() bool     { return h.alive }
func (h *Hostile) Radius() float64 { return hostileRadius }

// TakeDamage subtracts n health and reports whether this killed the hostile.
func (h *Hostile) TakeDamage(n int) bool {
	if !h.alive || n <= 0 {
		return false
	}
	h.Health -= n
	if h.Health > 0 {
		return false
	}
	h.Health = 0
	h.alive = false
	return true
}

// edgeSpawnPoint picks a point spawnMargin outside a random world edge.
func edgeSpawnPoint(rng *rand.Rand, w, h float64) (float64, float64) {
	if rng.Float64() < 0.5 {
		x := -spawnMargin
		if rng.Float64() < 0.5 {
			x = w + spawnMargin
		}
		return x, rng.Float64() * h
	}
	y := -spawnMargin
	if rng.Float64() < 0.5 {
		y = h + spawnMargin
	}
	return rng.Float64() * w, y
}
