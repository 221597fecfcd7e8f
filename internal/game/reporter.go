package game

import (
	"fmt"
	"math"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-behaviour reports (~10s at 60TPS).
const reportWindowTicks = 600

// SimReport is a snapshot of the world at one tick.
type SimReport struct {
	Tick            int
	Hostiles        int
	Steering        int // hostiles walking straight at the leader
	Bosses          int
	Obstacles       int
	FieldValid      bool
	VisibleCells    int
	RememberedCells int

	// Distance from the leader to the nearest and the average hostile.
	NearestHostile float64
	MeanHostile    float64
}

// SimReporter collects periodic snapshots and summarises sliding windows.
type SimReporter struct {
	history     []SimReport
	windowTicks int
}

// NewSimReporter creates a reporter with the given window size.
func NewSimReporter(windowTicks int) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &SimReporter{windowTicks: windowTicks}
}

// Collect records a snapshot of w. World.Step calls it once per second.
func (r *SimReporter) Collect(w *World) {
	rep := SimReport{
		Tick:            w.tick,
		Hostiles:        len(w.hostiles),
		Bosses:          len(w.bosses),
		Obstacles:       w.obstacles.Len(),
		FieldValid:      w.field.Valid(),
		VisibleCells:    w.vis.VisibleCount(),
		RememberedCells: w.vis.SeenCount(),
		NearestHostile:  math.Inf(1),
	}
	lead := w.squad.Leader()
	sum := 0.0
	for _, h := range w.hostiles {
		if h.Steering() {
			rep.Steering++
		}
		d := math.Hypot(h.X-lead.X, h.Y-lead.Y)
		sum += d
		rep.NearestHostile = math.Min(rep.NearestHostile, d)
	}
	if n := len(w.hostiles); n > 0 {
		rep.MeanHostile = sum / float64(n)
	}
	r.history = append(r.history, rep)
}

// Latest returns the most recent snapshot, or nil.
func (r *SimReporter) Latest() *SimReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns every collected snapshot.
func (r *SimReporter) History() []SimReport { return r.history }

// Reset drops the history.
func (r *SimReporter) Reset() { r.history = nil }

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick    int
	ToTick      int
	SampleCount int

	AvgHostiles        float64
	AvgSteering        float64
	AvgVisibleCells    float64
	AvgRemembered      float64
	AvgNearestHostile  float64 // over samples that had a hostile
	FieldValidFraction float64
}

// WindowSummary aggregates the snapshots within the last windowTicks.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}
	last := r.history[len(r.history)-1].Tick
	from := last - r.windowTicks + 1
	wr := &WindowReport{FromTick: last, ToTick: last}

	nearestN := 0
	valid := 0
	for _, rep := range r.history {
		if rep.Tick < from {
			continue
		}
		if rep.Tick < wr.FromTick {
			wr.FromTick = rep.Tick
		}
		wr.SampleCount++
		wr.AvgHostiles += float64(rep.Hostiles)
		wr.AvgSteering += float64(rep.Steering)
		wr.AvgVisibleCells += float64(rep.VisibleCells)
		wr.AvgRemembered += float64(rep.RememberedCells)
		if rep.Hostiles > 0 {
			wr.AvgNearestHostile += rep.NearestHostile
			nearestN++
		}
		if rep.FieldValid {
			valid++
		}
	}
	n := float64(wr.SampleCount)
	wr.AvgHostiles /= n
	wr.AvgSteering /= n
	wr.AvgVisibleCells /= n
	wr.AvgRemembered /= n
	wr.FieldValidFraction = float64(valid) / n
	if nearestN > 0 {
		wr.AvgNearestHostile /= float64(nearestN)
	}
	return wr
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Window Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)
	fmt.Fprintf(&sb, "  hostiles=%.1f  steering=%.1f  nearest=%.0fpx\n",
		wr.AvgHostiles, wr.AvgSteering, wr.AvgNearestHostile)
	fmt.Fprintf(&sb, "  fog visible=%.1f  remembered=%.1f\n",
		wr.AvgVisibleCells, wr.AvgRemembered)
	fmt.Fprintf(&sb, "  field valid %.0f%% of samples\n", wr.FieldValidFraction*100)
	return sb.String()
}
