// Package sound plays short synthesized cues for world events. Cues are
// rendered once into buffers; playback failures never stop the game.
package sound

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Holdout/internal/game"
)

const sampleRate = beep.SampleRate(44100)

// Cue names one sound effect.
type Cue uint8

const (
	CueHit Cue = iota
	CueEnemyDeath
	CueBossSpawn
	CueBossShot
	CueBossDash
	CueDrop
	CueBossDeath
	CueBonus
	cueCount
)

var cueNames = [cueCount]string{"hit", "enemy-death", "boss-spawn", "boss-shot", "boss-dash", "drop", "boss-death", "bonus"}

func (c Cue) String() string {
	if c < cueCount {
		return cueNames[c]
	}
	return "unknown"
}

// Player owns the cue bank and the speaker. A muted Player accepts every
// call and does nothing.
type Player struct {
	bank   [cueCount]*beep.Buffer
	muted  bool
	cursor int
	log    *logrus.Entry
}

// New renders the cue bank and opens the speaker. If the speaker cannot be
// opened the Player comes back muted.
func New(log *logrus.Logger) *Player {
	p := &Player{bank: renderBank(1), log: log.WithField("component", "sound")}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		p.log.WithError(err).Warn("audio unavailable, running muted")
		p.muted = true
	}
	return p
}

// Muted returns a Player that never touches the speaker.
func Muted() *Player {
	return &Player{muted: true}
}

func (p *Player) Muted() bool { return p.muted }

// Play starts c without waiting for it to finish.
func (p *Player) Play(c Cue) {
	if p.muted || c >= cueCount || p.bank[c] == nil {
		return
	}
	buf := p.bank[c]
	speaker.Play(buf.Streamer(0, buf.Len()))
}

// Feed plays a cue for every SimLog entry recorded since the last call.
// A log that shrank (after Reset) is read from the start.
func (p *Player) Feed(sl *game.SimLog) {
	entries := sl.Entries()
	if p.cursor > len(entries) {
		p.cursor = 0
	}
	for _, c := range CuesFor(entries[p.cursor:]) {
		p.Play(c)
	}
	p.cursor = len(entries)
}

// Shots plays one boss-shot cue per fired projectile, capped so a burst
// does not stack dozens of voices.
func (p *Player) Shots(n int) {
	for i := 0; i < min(n, 3); i++ {
		p.Play(CueBossShot)
	}
}

// CuesFor maps SimLog entries to the cues they trigger.
func CuesFor(entries []game.SimLogEntry) []Cue {
	var out []Cue
	for _, e := range entries {
		switch e.Category + "/" + e.Key {
		case "spawn/killed":
			out = append(out, CueEnemyDeath)
		case "boss/spawn":
			out = append(out, CueBossSpawn)
		case "boss/killed":
			out = append(out, CueBossDeath)
		case "boss/drop":
			out = append(out, CueDrop)
		case "boss/dash":
			out = append(out, CueBossDash)
		case "obstacle/remove":
			out = append(out, CueHit)
		case "bonus/pickup":
			out = append(out, CueBonus)
		}
	}
	return out
}

// --- synthesis ---

var bufferFormat = beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}

func renderBank(seed int64) [cueCount]*beep.Buffer {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- noise source
	var bank [cueCount]*beep.Buffer
	bank[CueHit] = render(tone(420, 0.06, 0.4))
	bank[CueEnemyDeath] = render(mix(0.18, noise(rng, 0.18, 0.45*0.8), tone(180, 0.18, 0.3*0.6)))
	bank[CueBossSpawn] = render(mix(0.25, tone(90, 0.25, 0.4*0.8), noise(rng, 0.2, 0.25*0.6)))
	bank[CueBossShot] = render(mix(0.12, tone(180, 0.12, 0.45*0.8), noise(rng, 0.12, 0.25*0.5)))
	bank[CueBossDash] = render(noise(rng, 0.25, 0.35))
	bank[CueDrop] = render(tone(160, 0.06, 0.35))
	bank[CueBossDeath] = render(mix(0.4, noise(rng, 0.4, 0.6*0.9), tone(120, 0.25, 0.4*0.7)))
	bank[CueBonus] = render(beep.Seq(tone(900, 0.05, 0.4), tone(1200, 0.07, 0.35)))
	return bank
}

func render(s beep.Streamer) *beep.Buffer {
	buf := beep.NewBuffer(bufferFormat)
	buf.Append(s)
	return buf
}

func samples(seconds float64) int {
	return sampleRate.N(time.Duration(seconds * float64(time.Second)))
}

func tone(freq, seconds, volume float64) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return beep.Silence(samples(seconds))
	}
	return shaped(sine, seconds, volume, math.Min(0.01, seconds*0.2))
}

func noise(rng *rand.Rand, seconds, volume float64) beep.Streamer {
	src := beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		for i := range buf {
			v := rng.Float64()*2 - 1
			buf[i][0], buf[i][1] = v, v
		}
		return len(buf), true
	})
	return shaped(src, seconds, volume, math.Min(0.02, seconds*0.2))
}

// mix plays both streamers together for the given length.
func mix(seconds float64, a, b beep.Streamer) beep.Streamer {
	return beep.Take(samples(seconds), beep.Mix(a, b))
}

// envelope applies a linear attack and a linear decay over n samples and
// ends the stream after them.
type envelope struct {
	src    beep.Streamer
	pos    int
	n      int
	attack int
	volume float64
}

func shaped(src beep.Streamer, seconds, volume, attack float64) beep.Streamer {
	return &envelope{src: src, n: samples(seconds), attack: samples(attack), volume: volume}
}

func (e *envelope) Stream(buf [][2]float64) (int, bool) {
	if e.pos >= e.n {
		return 0, false
	}
	if left := e.n - e.pos; len(buf) > left {
		buf = buf[:left]
	}
	n, ok := e.src.Stream(buf)
	for i := 0; i < n; i++ {
		t := float64(e.pos + i)
		gain := e.volume * math.Max(0, 1-t/float64(e.n))
		if e.attack > 0 {
			gain *= math.Min(1, t/float64(e.attack))
		}
		buf[i][0] *= gain
		buf[i][1] *= gain
	}
	e.pos += n
	return n, ok && n > 0
}

func (e *envelope) Err() error { return e.src.Err() }
