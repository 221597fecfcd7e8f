package game

import (
	"math"
	"math/rand"

	"github.com/Garsondee/Holdout/internal/nav"
)

// BossKind tags which behaviour a Boss runs.
type BossKind uint8

const (
	BossTank BossKind = iota
	BossHelicopter
)

func (k BossKind) String() string {
	switch k {
	case BossTank:
		return "tank"
	case BossHelicopter:
		return "helicopter"
	default:
		return "unknown"
	}
}

// Tank tuning.
const (
	tankRadius      = 36.0
	tankHealth      = 1500
	tankSpeed       = 1.2
	tankShellEvery  = 2.6
	tankChargeTime  = 0.6
	shellSpeed      = 4.0
	shellDamage     = 60
	shellTTL        = 2.5
	shellRadius     = 6.0
	shellBlastRange = 110.0
)

// Helicopter tuning.
const (
	heliRadius        = 28.0
	heliHealth        = 1000
	heliHoverY        = 90.0
	heliDashEvery     = 6.0
	heliDashSpeed     = 12.0
	heliDashMargin    = 80.0
	heliDropEvery     = 0.3
	heliBurstTime     = 1.0
	heliBurstCooldown = 1.6
	heliShotEvery     = 0.18
	bulletSpeed       = 8.5
	bulletDamage      = 8
	bulletTTL         = 2.5
	bulletRadius      = 3.5
)

// ProjectileKind distinguishes boss munitions.
type ProjectileKind uint8

const (
	ProjectileBullet ProjectileKind = iota
	ProjectileShell
)

func (k ProjectileKind) String() string {
	if k == ProjectileShell {
		return "shell"
	}
	return "bullet"
}

// ProjectileRequest is a shot a boss wants fired. The world only queues
// these; flight and damage are resolved by the caller.
type ProjectileRequest struct {
	Kind        ProjectileKind
	X, Y        float64 // origin
	DX, DY      float64 // unit direction
	Speed       float64 // px per tick
	Damage      int
	TTL         float64 // seconds
	Radius      float64
	BlastRadius float64 // zero for non-explosive rounds
}

func newProjectile(kind ProjectileKind, x, y, tx, ty, speed float64, damage int, ttl, radius, blast float64) ProjectileRequest {
	dx, dy := tx-x, ty-y
	if d := math.Hypot(dx, dy); d > 1e-9 {
		dx, dy = dx/d, dy/d
	} else {
		dx, dy = 1, 0
	}
	return ProjectileRequest{
		Kind: kind, X: x, Y: y, DX: dx, DY: dy,
		Speed: speed, Damage: damage, TTL: ttl,
		Radius: radius, BlastRadius: blast,
	}
}

type tankState struct {
	shellTimer  float64
	chargeTimer float64
	charging    bool
}

type heliMode uint8

const (
	heliHover heliMode = iota
	heliDash
)

type heliState struct {
	mode          heliMode
	hoverTime     float64
	dashCooldown  float64
	dashDir       float64
	dropTimer     float64
	dropsLeft     int
	burstCooldown float64
	burstTimer    float64
	fireTimer     float64
	bursting      bool
}

// Boss is a tagged variant: Kind selects which of tank or heli is live.
// The tank walks the shared path provider like a hostile; the helicopter
// ignores the grid entirely.
type Boss struct {
	walker
	ID        int
	Kind      BossKind
	Health    int
	MaxHealth int

	tank tankState
	heli heliState
}

func newBoss(id int, kind BossKind, x, y float64) *Boss {
	b := &Boss{ID: id, Kind: kind}
	b.X, b.Y = x, y
	switch kind {
	case BossTank:
		b.Health, b.MaxHealth = tankHealth, tankHealth
		b.Speed = tankSpeed
		b.tank.shellTimer = tankShellEvery
	case BossHelicopter:
		b.Health, b.MaxHealth = heliHealth, heliHealth
		b.heli.dashCooldown = heliDashEvery
		b.heli.burstCooldown = heliBurstCooldown
	}
	return b
}

func (b *Boss) Alive() bool { return b.Health > 0 }

func (b *Boss) Radius() float64 {
	if b.Kind == BossHelicopter {
		return heliRadius
	}
	return tankRadius
}

// Charging reports whether a tank is stationary winding up a shell.
func (b *Boss) Charging() bool { return b.Kind == BossTank && b.tank.charging }

// Dashing reports whether a helicopter is on a strafing run.
func (b *Boss) Dashing() bool { return b.Kind == BossHelicopter && b.heli.mode == heliDash }

// TakeDamage clamps health at zero.
func (b *Boss) TakeDamage(n int) {
	if n <= 0 {
		return
	}
	b.Health = max(b.Health-n, 0)
}

// bossEnv is what a boss needs from the world during one update.
type bossEnv struct {
	dt             float64
	targetX        float64
	targetY        float64
	worldW         float64
	waypointRadius float64
	grid           *nav.Grid
	rng            *rand.Rand
	fire           func(ProjectileRequest)
	drop           func(x, y float64)
}

// Update advances the boss state machine by one tick.
func (b *Boss) Update(env *bossEnv) {
	if !b.Alive() {
		return
	}
	switch b.Kind {
	case BossTank:
		b.updateTank(env)
	case BossHelicopter:
		b.updateHeli(env)
	}
}

func (b *Boss) updateTank(env *bossEnv) {
	t := &b.tank
	t.shellTimer -= env.dt
	if !t.charging && t.shellTimer <= 0 {
		t.charging = true
		t.chargeTimer = tankChargeTime
	}
	if t.charging {
		t.chargeTimer -= env.dt
		if t.chargeTimer <= 0 {
			t.charging = false
			t.shellTimer = tankShellEvery
			env.fire(newProjectile(ProjectileShell, b.X, b.Y, env.targetX, env.targetY,
				shellSpeed, shellDamage, shellTTL, shellRadius, shellBlastRange))
		}
		return
	}
	b.step(env.grid, env.targetX, env.targetY, env.waypointRadius)
}

func (b *Boss) updateHeli(env *bossEnv) {
	h := &b.heli
	h.hoverTime += env.dt

	switch h.mode {
	case heliHover:
		b.X = env.worldW/2 + math.Sin(h.hoverTime*0.6)*env.worldW*0.3
		b.Y = heliHoverY + math.Sin(h.hoverTime*1.2)*10
		b.updateBurst(env)
		h.dashCooldown -= env.dt
		if h.dashCooldown <= 0 {
			b.startDash(env)
		}

	case heliDash:
		b.X += heliDashSpeed * h.dashDir
		h.dropTimer -= env.dt
		if h.dropTimer <= 0 && h.dropsLeft > 0 {
			h.dropTimer = heliDropEvery
			h.dropsLeft--
			env.drop(b.X, b.Y+30)
		}
		if (h.dashDir > 0 && b.X > env.worldW+heliDashMargin) || (h.dashDir < 0 && b.X < -heliDashMargin) {
			h.mode = heliHover
			h.dashCooldown = heliDashEvery
		}
	}
}

func (b *Boss) updateBurst(env *bossEnv) {
	h := &b.heli
	if !h.bursting {
		h.burstCooldown -= env.dt
		if h.burstCooldown <= 0 {
			h.bursting = true
			h.burstTimer = heliBurstTime
			h.fireTimer = 0
		}
		return
	}
	h.fireTimer -= env.dt
	if h.fireTimer <= 0 {
		h.fireTimer = heliShotEvery
		tx := env.targetX + (env.rng.Float64()-0.5)*30
		ty := env.targetY + (env.rng.Float64()-0.5)*20
		env.fire(newProjectile(ProjectileBullet, b.X, b.Y, tx, ty,
			bulletSpeed, bulletDamage, bulletTTL, bulletRadius, 0))
	}
	h.burstTimer -= env.dt
	if h.burstTimer <= 0 {
		h.bursting = false
		h.burstCooldown = heliBurstCooldown
	}
}

func (b *Boss) startDash(env *bossEnv) {
	h := &b.heli
	h.mode = heliDash
	h.bursting = false
	h.dashDir = 1
	if env.rng.Float64() >= 0.5 {
		h.dashDir = -1
	}
	if h.dashDir > 0 {
		b.X = -heliDashMargin
	} else {
		b.X = env.worldW + heliDashMargin
	}
	b.Y = 70 + env.rng.Float64()*60
	h.dropsLeft = 3 + env.rng.Intn(3)
	h.dropTimer = 0.2
}
