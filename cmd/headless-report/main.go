package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Holdout/internal/game"
	"github.com/Garsondee/Holdout/internal/logger"
)

// Scenario names accepted by -scenario.
const (
	scenarioHoldout = "holdout" // leader holds the centre of the demo layout
	scenarioPatrol  = "patrol"  // leader walks a slow loop
	scenarioSiege   = "siege"   // holdout plus a tank and a helicopter at T=0
)

type runStats struct {
	runIndex int
	seed     int64

	firstSpawnTick    int
	firstFallbackTick int
	firstInvalidTick  int
	firstContactTick  int
	firstDropTick     int

	fieldRecomputes int
	pathFallbacks   int
	spawns          int
	drops           int
	obstacleEvents  int
	fallbackAgents  map[string]struct{}

	stats         game.Stats
	windowSummary *game.WindowReport
}

func main() {
	cfg := game.DefaultConfig()
	cfg.RegisterFlags(flag.CommandLine)

	var runs, ticks int
	var seedStep int64
	var scenario string
	var copyOut bool
	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", scenarioHoldout, "scenario: holdout, patrol or siege")
	flag.BoolVar(&copyOut, "copy", false, "also copy the report to the clipboard")
	flag.Parse()

	log := logger.FromEnv()
	if runs <= 0 || ticks <= 0 {
		log.Error("-runs and -ticks must be > 0")
		os.Exit(2)
	}
	if err := checkScenario(scenario); err != nil {
		log.WithError(err).Error("bad scenario")
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Error("bad configuration")
		os.Exit(2)
	}

	var report strings.Builder
	out := io.MultiWriter(os.Stdout, &report)

	fmt.Fprintf(out, "=== Headless Holdout Report ===\n")
	fmt.Fprintf(out, "scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d strategy=%s parallel=%v\n\n",
		scenario, runs, ticks, cfg.Seed, seedStep, cfg.Strategy, cfg.ParallelPaths)

	all := make([]runStats, 0, runs)
	base := cfg.Seed
	for i := 0; i < runs; i++ {
		cfg.Seed = base + int64(i)*seedStep
		rs, err := runScenario(cfg, scenario, i+1, ticks, log)
		if err != nil {
			log.WithError(err).WithField("run", i+1).Error("run failed")
			os.Exit(1)
		}
		all = append(all, rs)
		printRun(out, cfg, rs)
	}
	printAggregate(out, all)

	if copyOut {
		if err := clipboard.WriteAll(report.String()); err != nil {
			log.WithError(err).Warn("copy report to clipboard")
		}
	}
}

func checkScenario(name string) error {
	switch name {
	case scenarioHoldout, scenarioPatrol, scenarioSiege:
		return nil
	}
	return fmt.Errorf("unsupported scenario %q (supported: %s, %s, %s)", name, scenarioHoldout, scenarioPatrol, scenarioSiege)
}

func runScenario(cfg game.Config, scenario string, runIndex, ticks int, log *logrus.Logger) (runStats, error) {
	w, err := game.NewWorld(cfg, log)
	if err != nil {
		return runStats{}, err
	}
	w.LoadLayout(game.DemoLayout(cfg))
	if scenario == scenarioSiege {
		w.SpawnBoss(game.BossTank)
		w.SpawnBoss(game.BossHelicopter)
	}

	firstContact := -1
	for t := 0; t < ticks; t++ {
		if scenario == scenarioPatrol {
			a := float64(t) / 180
			w.SetInput(math.Cos(a), math.Sin(a))
		}
		w.Step()
		// Shots are not resolved headless; keep the queue from growing.
		w.DrainProjectiles()
		if firstContact < 0 && w.Stats().ContactHits > 0 {
			firstContact = w.Tick()
		}
	}

	sl := w.SimLog()
	fallbackAgents := map[string]struct{}{}
	for _, e := range sl.Filter("path", "fallback") {
		fallbackAgents[e.Agent] = struct{}{}
	}
	s := w.Stats()
	return runStats{
		runIndex:          runIndex,
		seed:              cfg.Seed,
		firstSpawnTick:    sl.FirstTick("spawn", "hostile", ""),
		firstFallbackTick: sl.FirstTick("path", "fallback", ""),
		firstInvalidTick:  sl.FirstTick("field", "invalid", ""),
		firstContactTick:  firstContact,
		firstDropTick:     sl.FirstTick("boss", "drop", ""),
		fieldRecomputes:   sl.CountCategory("field", "recompute"),
		pathFallbacks:     sl.CountCategory("path", "fallback"),
		spawns:            sl.CountCategory("spawn", "hostile"),
		drops:             sl.CountCategory("boss", "drop"),
		obstacleEvents:    sl.CountCategory("obstacle", ""),
		fallbackAgents:    fallbackAgents,
		stats:             s,
		windowSummary:     w.Reporter().WindowSummary(),
	}, nil
}

func printRun(out io.Writer, cfg game.Config, rs runStats) {
	fmt.Fprintf(out, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(out, "phase_markers: first_spawn=%d first_fallback=%d first_invalid_field=%d first_contact=%d first_drop=%d\n",
		rs.firstSpawnTick, rs.firstFallbackTick, rs.firstInvalidTick, rs.firstContactTick, rs.firstDropTick)
	fmt.Fprintf(out, "event_totals: field_recompute=%d path_fallback=%d spawn=%d boss_drop=%d obstacle=%d\n",
		rs.fieldRecomputes, rs.pathFallbacks, rs.spawns, rs.drops, rs.obstacleEvents)
	fmt.Fprintf(out, "fallback_agents=%d [%s]\n", len(rs.fallbackAgents), joinSet(rs.fallbackAgents))
	if rs.windowSummary != nil {
		fmt.Fprint(out, rs.windowSummary.Format())
	}
	fmt.Fprint(out, game.FormatReport(cfg, rs.stats))
	fmt.Fprintln(out)
}

func printAggregate(out io.Writer, all []runStats) {
	totalRecomputes := 0
	totalFallbacks := 0
	totalRequests := 0
	totalSpawns := 0
	totalContact := 0
	totalPeak := 0
	spawnTicks := make([]int, 0, len(all))
	fallbackTicks := make([]int, 0, len(all))
	contactTicks := make([]int, 0, len(all))
	agents := map[string]struct{}{}

	for _, rs := range all {
		totalRecomputes += rs.stats.FieldRecomputes
		totalFallbacks += rs.stats.PathFallbacks
		totalRequests += rs.stats.PathRequests
		totalSpawns += rs.stats.Spawns
		totalContact += rs.stats.ContactHits
		totalPeak += rs.stats.PeakHostiles
		if rs.firstSpawnTick >= 0 {
			spawnTicks = append(spawnTicks, rs.firstSpawnTick)
		}
		if rs.firstFallbackTick >= 0 {
			fallbackTicks = append(fallbackTicks, rs.firstFallbackTick)
		}
		if rs.firstContactTick >= 0 {
			contactTicks = append(contactTicks, rs.firstContactTick)
		}
		for label := range rs.fallbackAgents {
			agents[label] = struct{}{}
		}
	}

	n := len(all)
	fmt.Fprintln(out, "=== Aggregate ===")
	fmt.Fprintf(out, "runs=%d\n", n)
	fmt.Fprintf(out, "avg_per_run: field_recompute=%.1f path_request=%.1f path_fallback=%.1f spawn=%.1f contact_hits=%.1f peak_hostiles=%.1f\n",
		avg(totalRecomputes, n), avg(totalRequests, n), avg(totalFallbacks, n), avg(totalSpawns, n), avg(totalContact, n), avg(totalPeak, n))
	rate := 0.0
	if totalRequests > 0 {
		rate = float64(totalFallbacks) / float64(totalRequests) * 100
	}
	fmt.Fprintf(out, "fallback_rate=%.1f%%\n", rate)
	fmt.Fprintf(out, "phase_marker_avg_ticks: first_spawn=%s first_fallback=%s first_contact=%s\n",
		avgTickString(spawnTicks), avgTickString(fallbackTicks), avgTickString(contactTicks))
	fmt.Fprintf(out, "unique_fallback_labels=%d [%s]\n", len(agents), joinSet(agents))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}
