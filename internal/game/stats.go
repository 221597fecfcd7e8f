package game

import (
	"fmt"
	"strings"
)

// Stats are run counters plus a few live gauges filled in by World.Stats.
// Counters survive ResetLevel.
type Stats struct {
	Ticks              int
	FieldRecomputes    int
	InvalidFields      int
	PathRequests       int
	PathFallbacks      int
	Spawns             int
	HostilesKilled     int
	PeakHostiles       int
	ObstaclesPlaced    int
	ObstaclesDestroyed int
	ContactHits        int
	BossesSpawned      int
	Projectiles        int
	LevelResets        int
	BonusesDropped     int
	BonusesCollected   int

	// Live gauges.
	Hostiles        int
	Bosses          int
	Obstacles       int
	FieldValid      bool
	VisibleCells    int
	RememberedCells int
	SteeringAgents  int // hostiles with no waypoints left
	Bonuses         int
	Members         int
	SquadHealth     int
	Overrun         bool
}

// FallbackRate is the share of path requests that came back empty.
func (s Stats) FallbackRate() float64 {
	if s.PathRequests == 0 {
		return 0
	}
	return float64(s.PathFallbacks) / float64(s.PathRequests)
}

// Stats returns the counters with live gauges filled in.
func (w *World) Stats() Stats {
	s := w.stats
	s.Hostiles = len(w.hostiles)
	s.Bosses = len(w.bosses)
	s.Obstacles = w.obstacles.Len()
	s.FieldValid = w.field.Valid()
	s.VisibleCells = w.vis.VisibleCount()
	s.RememberedCells = w.vis.SeenCount()
	s.Bonuses = len(w.bonuses)
	s.Members = len(w.squad.Members)
	s.SquadHealth = w.squadHealth
	s.Overrun = w.overrun
	for _, h := range w.hostiles {
		if h.Steering() {
			s.SteeringAgents++
		}
	}
	return s
}

// Report formats the current stats as the key=value block printed by the
// headless runner and copied by the viewer.
func (w *World) Report() string {
	return FormatReport(w.cfg, w.Stats())
}

// FormatReport renders s for cfg as a compact text block.
func FormatReport(cfg Config, s Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Holdout report ---\n")
	fmt.Fprintf(&b, "seed=%d strategy=%s parallel=%v world=%.0fx%.0f cell=%.0f\n",
		cfg.Seed, cfg.Strategy, cfg.ParallelPaths, cfg.WorldW, cfg.WorldH, cfg.CellSize)
	fmt.Fprintf(&b, "ticks=%d seconds=%.1f level_resets=%d\n",
		s.Ticks, float64(s.Ticks)*cfg.Dt(), s.LevelResets)
	fmt.Fprintf(&b, "field: recomputes=%d invalid=%d valid_now=%v\n",
		s.FieldRecomputes, s.InvalidFields, s.FieldValid)
	fmt.Fprintf(&b, "paths: requests=%d fallbacks=%d fallback_rate=%.1f%% steering_now=%d\n",
		s.PathRequests, s.PathFallbacks, s.FallbackRate()*100, s.SteeringAgents)
	fmt.Fprintf(&b, "hostiles: spawned=%d killed=%d live=%d peak=%d contact_hits=%d\n",
		s.Spawns, s.HostilesKilled, s.Hostiles, s.PeakHostiles, s.ContactHits)
	fmt.Fprintf(&b, "bosses: spawned=%d live=%d projectiles=%d\n",
		s.BossesSpawned, s.Bosses, s.Projectiles)
	fmt.Fprintf(&b, "obstacles: placed=%d destroyed=%d live=%d\n",
		s.ObstaclesPlaced, s.ObstaclesDestroyed, s.Obstacles)
	fmt.Fprintf(&b, "squad: members=%d health=%d overrun=%v bonuses_dropped=%d bonuses_collected=%d bonuses_live=%d\n",
		s.Members, s.SquadHealth, s.Overrun, s.BonusesDropped, s.BonusesCollected, s.Bonuses)
	fmt.Fprintf(&b, "fog: visible=%d remembered=%d\n", s.VisibleCells, s.RememberedCells)
	return b.String()
}
