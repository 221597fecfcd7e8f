package game

import (
	"strings"
	"testing"
)

func TestStats_FallbackRate(t *testing.T) {
	if r := (Stats{}).FallbackRate(); r != 0 {
		t.Fatalf("empty stats fallback rate = %.2f", r)
	}
	s := Stats{PathRequests: 8, PathFallbacks: 2}
	if r := s.FallbackRate(); r != 0.25 {
		t.Fatalf("fallback rate = %.2f, want 0.25", r)
	}
}

func TestStats_LiveGauges(t *testing.T) {
	ts := NewTestSim(
		WithSeed(5),
		WithObstacle(300, 220, 40, 40),
		WithHostile(100, 300),
		WithHostile(700, 300),
	)
	ts.RunTicks(30)

	s := ts.World.Stats()
	if s.Ticks != 30 {
		t.Fatalf("ticks = %d, want 30", s.Ticks)
	}
	if s.Hostiles != 2 || s.Obstacles != 1 || s.ObstaclesPlaced != 1 {
		t.Fatalf("unexpected gauges %+v", s)
	}
	if !s.FieldValid || s.FieldRecomputes == 0 {
		t.Fatalf("field should be valid and rebuilt, got valid=%v recomputes=%d", s.FieldValid, s.FieldRecomputes)
	}
	if s.VisibleCells == 0 || s.RememberedCells != 1 {
		t.Fatalf("fog gauges visible=%d remembered=%d", s.VisibleCells, s.RememberedCells)
	}
	if s.PathRequests == 0 {
		t.Fatal("no path requests after 30 ticks")
	}
}

func TestFormatReport(t *testing.T) {
	cfg := DefaultConfig()
	out := FormatReport(cfg, Stats{Ticks: 120, PathRequests: 10, PathFallbacks: 1, Spawns: 3,
		Members: 2, SquadHealth: 70, BonusesDropped: 4, BonusesCollected: 1})
	for _, want := range []string{
		"--- Holdout report ---",
		"seed=42 strategy=field",
		"ticks=120 seconds=2.0",
		"fallback_rate=10.0%",
		"spawned=3",
		"squad: members=2 health=70 overrun=false bonuses_dropped=4 bonuses_collected=1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
