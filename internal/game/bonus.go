package game

import (
	"fmt"
	"math"
)

const (
	bonusDropChance   = 0.3 // chance a killed hostile leaves a bonus
	bonusHealthChance = 0.3 // share of bonuses that restore health
	bonusRadius       = 8.0
	bonusDrift        = 3.0  // initial velocity spread, px/tick
	bonusDamping      = 0.98 // velocity kept per tick
	bonusHealAmount   = 30
	recruitSpread     = 100.0 // new soldiers appear within this box around the leader

	squadMaxHealth = 100
	contactDrain   = 1 // health lost per hostile/member overlap per tick
)

// BonusKind is what a bonus does when a squad member touches it.
type BonusKind uint8

const (
	BonusHealth BonusKind = iota
	BonusSoldier
)

func (k BonusKind) String() string {
	switch k {
	case BonusHealth:
		return "health"
	case BonusSoldier:
		return "soldier"
	default:
		return "unknown"
	}
}

// Bonus is a pickup left behind by a killed hostile. It drifts to a stop
// with a slight bob and waits to be collected.
type Bonus struct {
	ID   int
	Kind BonusKind
	X, Y float64

	vx, vy float64
	bob    float64
	taken  bool
}

func (b *Bonus) Radius() float64 { return bonusRadius }

func (b *Bonus) update(worldW, worldH float64) {
	b.X += b.vx
	b.Y += b.vy
	b.vx *= bonusDamping
	b.vy *= bonusDamping
	b.bob += 0.1
	b.Y += math.Sin(b.bob) * 0.5
	b.X = clamp(b.X, bonusRadius, worldW-bonusRadius)
	b.Y = clamp(b.Y, bonusRadius, worldH-bonusRadius)
}

// maybeDropBonus rolls the drop chance for a kill at (x, y).
func (w *World) maybeDropBonus(x, y float64) *Bonus {
	if w.rng.Float64() >= bonusDropChance {
		return nil
	}
	return w.DropBonus(x, y, w.rollBonusKind())
}

func (w *World) rollBonusKind() BonusKind {
	if w.rng.Float64() < bonusHealthChance {
		return BonusHealth
	}
	return BonusSoldier
}

// DropBonus places a bonus of the given kind at (x, y).
func (w *World) DropBonus(x, y float64, kind BonusKind) *Bonus {
	w.nextAgent++
	b := &Bonus{
		ID:   w.nextAgent,
		Kind: kind,
		X:    x,
		Y:    y,
		vx:   (w.rng.Float64() - 0.5) * bonusDrift,
		vy:   (w.rng.Float64() - 0.5) * bonusDrift,
	}
	w.bonuses = append(w.bonuses, b)
	w.stats.BonusesDropped++
	w.simLog.Add(w.tick, fmt.Sprintf("P%d", b.ID), "bonus", "drop",
		fmt.Sprintf("%s at (%.0f,%.0f)", kind, x, y), float64(kind))
	return b
}

// updateBonuses moves every bonus and hands it to the first member that
// touches it. Collected bonuses are dropped from the list.
func (w *World) updateBonuses() {
	live := w.bonuses[:0]
	for _, b := range w.bonuses {
		b.update(w.cfg.WorldW, w.cfg.WorldH)
		for _, m := range w.squad.Members {
			dx, dy := m.X-b.X, m.Y-b.Y
			r := m.Radius() + b.Radius()
			if dx*dx+dy*dy < r*r {
				w.collectBonus(b)
				break
			}
		}
		if !b.taken {
			live = append(live, b)
		}
	}
	for i := len(live); i < len(w.bonuses); i++ {
		w.bonuses[i] = nil
	}
	w.bonuses = live
}

func (w *World) collectBonus(b *Bonus) {
	b.taken = true
	w.stats.BonusesCollected++
	switch b.Kind {
	case BonusHealth:
		w.squadHealth = min(squadMaxHealth, w.squadHealth+bonusHealAmount)
	case BonusSoldier:
		lead := w.squad.Leader()
		w.squad.AddSoldier(
			lead.X+(w.rng.Float64()-0.5)*recruitSpread,
			lead.Y+(w.rng.Float64()-0.5)*recruitSpread,
		)
	}
	w.simLog.Add(w.tick, fmt.Sprintf("P%d", b.ID), "bonus", "pickup",
		fmt.Sprintf("%s health=%d members=%d", b.Kind, w.squadHealth, len(w.squad.Members)), float64(b.Kind))
}
