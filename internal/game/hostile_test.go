package game

import (
	"math/rand"
	"testing"
)

func TestHostile_TakeDamage(t *testing.T) {
	h := newHostile(1, 0, 0, 2, 0)
	if h.TakeDamage(60) {
		t.Fatal("60 damage should not kill a fresh hostile")
	}
	if h.TakeDamage(0) {
		t.Fatal("zero damage should be ignored")
	}
	if !h.TakeDamage(40) {
		t.Fatal("expected kill at zero health")
	}
	if h.Alive() || h.Health != 0 {
		t.Fatalf("expected dead hostile with 0 health, got alive=%v health=%d", h.Alive(), h.Health)
	}
	if h.TakeDamage(10) {
		t.Fatal("dead hostile reported a second kill")
	}
}

func TestEdgeSpawnPoint_OutsideWorld(t *testing.T) {
	rng := rand.New(rand.NewSource(3)) // #nosec G404 -- test
	const w, h = 800.0, 600.0
	for i := 0; i < 500; i++ {
		x, y := edgeSpawnPoint(rng, w, h)
		onEdge := x == -spawnMargin || x == w+spawnMargin || y == -spawnMargin || y == h+spawnMargin
		if !onEdge {
			t.Fatalf("spawn %d at (%.1f,%.1f) is not on the spawn margin", i, x, y)
		}
	}
}
