package game

import (
	"math/rand"
	"sync"

	"tower-climb/internal/event"
)

// Engine maintains the live power-up set under the population and lifetime
// constraints. Tick never fails and never blocks; when nothing drives it the
// live set is frozen.
type Engine struct {
	mu          sync.Mutex
	rng         *rand.Rand
	dispatcher  *event.Dispatcher
	spawnChance float64
	nextID      int64
	live        []*PowerUp
}

func NewEngine(rng *rand.Rand, dispatcher *event.Dispatcher) *Engine {
	return &Engine{
		rng:         rng,
		dispatcher:  dispatcher,
		spawnChance: SpawnChance,
		nextID:      1,
	}
}

// SetSpawnChance overrides the per-tick spawn probability.
func (e *Engine) SetSpawnChance(p float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spawnChance = p
}

// Tick runs one spawn-then-decay step. A power-up spawned this tick decays
// this tick too, so its observable lifetime after its spawn tick is
// LifetimeTicks-1 and it leaves the live set LifetimeTicks ticks after
// spawning.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Spawn step: skipped at capacity, never queued.
	if len(e.live) < MaxLive && e.rng.Float64() < e.spawnChance {
		p := &PowerUp{
			ID:                e.nextID,
			Kind:              kinds[e.rng.Intn(len(kinds))],
			X:                 SpawnMinX + e.rng.Float64()*(SpawnMaxX-SpawnMinX),
			Y:                 SpawnMinY + e.rng.Float64()*(SpawnMaxY-SpawnMinY),
			RemainingLifetime: LifetimeTicks,
		}
		e.nextID++
		e.live = append(e.live, p)
		e.dispatcher.Dispatch(event.Event{Type: event.PowerUpSpawned, Data: *p})
	}

	// Decay step: every live entity, including one spawned just above.
	kept := e.live[:0]
	for _, p := range e.live {
		p.RemainingLifetime--
		if p.RemainingLifetime <= 0 {
			e.dispatcher.Dispatch(event.Event{Type: event.PowerUpExpired, Data: *p})
			continue
		}
		kept = append(kept, p)
	}
	e.live = kept
}

// Collect removes a live power-up on behalf of the collision collaborator and
// reports what was taken. The reward credit happens on the dispatched event,
// not here.
func (e *Engine) Collect(id int64) (PowerUp, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, p := range e.live {
		if p.ID == id {
			e.live = append(e.live[:i], e.live[i+1:]...)
			e.dispatcher.Dispatch(event.Event{Type: event.PowerUpCollected, Data: *p})
			return *p, true
		}
	}
	return PowerUp{}, false
}

// Snapshot returns a copy of the live set in spawn order.
func (e *Engine) Snapshot() []PowerUp {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]PowerUp, len(e.live))
	for i, p := range e.live {
		out[i] = *p
	}
	return out
}

// LiveCount reports the current live-set size.
func (e *Engine) LiveCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.live)
}
