package game

import (
	"fmt"
	"sort"
	"strings"
)

// SimLogEntry is one world event: a field recompute, a path fallback, an
// obstacle change, a spawn, a boss action or a level reset.
type SimLogEntry struct {
	Tick     int
	Agent    string  // "H12", "B3", or "--" for world events
	Category string  // field, path, obstacle, spawn, boss, level
	Key      string  // event within the category
	Value    string  // free-form detail
	NumVal   float64 // numeric detail for threshold checks
}

// String renders the entry as one aligned line:
//
//	[T=042] --    field     recompute        target (5,7)
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-5s %-9s %-16s %s",
		e.Tick, e.Agent, e.Category, e.Key, e.Value)
}

// matches treats empty arguments as wildcards.
func (e SimLogEntry) matches(category, key, substr string) bool {
	if category != "" && e.Category != category {
		return false
	}
	if key != "" && e.Key != key {
		return false
	}
	return substr == "" || strings.Contains(e.Value, substr)
}

// SimLog is the world's event journal. The logrus output is for people
// watching a run; the SimLog is what tests, the headless report and the
// sound cues read back.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates an empty journal. Verbose journals also keep
// per-agent path requests and boss shots.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

func (sl *SimLog) Add(tick int, agent, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick: tick, Agent: agent, Category: category, Key: key, Value: value, NumVal: numVal,
	})
}

// AddVerbose is Add on verbose journals and a no-op otherwise.
func (sl *SimLog) AddVerbose(tick int, agent, category, key, value string, numVal float64) {
	if sl.verbose {
		sl.Add(tick, agent, category, key, value, numVal)
	}
}

func (sl *SimLog) Verbose() bool          { return sl.verbose }
func (sl *SimLog) Entries() []SimLogEntry { return sl.entries }
func (sl *SimLog) Reset()                 { sl.entries = nil }
func (sl *SimLog) Len() int               { return len(sl.entries) }
func (sl *SimLog) Format() string         { return formatEntries(sl.entries) }

// CountCategory counts entries matching category and key; empty matches any.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// Filter returns entries matching category and key; empty matches any.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	return sl.collect(func(e SimLogEntry) bool { return e.matches(category, key, "") })
}

// FilterAgent returns every entry recorded for one agent label.
func (sl *SimLog) FilterAgent(label string) []SimLogEntry {
	return sl.collect(func(e SimLogEntry) bool { return e.Agent == label })
}

// FilterTickRange returns entries with fromTick <= Tick <= toTick.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	return sl.collect(func(e SimLogEntry) bool { return e.Tick >= fromTick && e.Tick <= toTick })
}

func (sl *SimLog) collect(keep func(SimLogEntry) bool) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// FirstTick is the tick of the earliest match, or -1.
func (sl *SimLog) FirstTick(category, key, substr string) int {
	for _, e := range sl.entries {
		if e.matches(category, key, substr) {
			return e.Tick
		}
	}
	return -1
}

// LastOf returns the latest entry with this category and key.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	for i := len(sl.entries) - 1; i >= 0; i-- {
		if sl.entries[i].matches(category, key, "") {
			return sl.entries[i], true
		}
	}
	return SimLogEntry{}, false
}

func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	return sl.FirstTick(category, key, valueSubstr) >= 0
}

// FormatRange renders the entries of a tick window.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	return formatEntries(sl.FilterTickRange(fromTick, toTick))
}

// Summary counts entries per "category/key", sorted by name:
//
//	--- SimLog: 14 entries ---
//	boss/spawn=1  field/recompute=12  level/reset=1
func (sl *SimLog) Summary() string {
	counts := map[string]int{}
	for _, e := range sl.entries {
		counts[e.Category+"/"+e.Key]++
	}
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Strings(names)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- SimLog: %d entries ---\n", len(sl.entries))
	for i, n := range names {
		if i > 0 {
			sb.WriteString("  ")
		}
		fmt.Fprintf(&sb, "%s=%d", n, counts[n])
	}
	sb.WriteByte('\n')
	return sb.String()
}

func formatEntries(entries []SimLogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
