package session

import (
	"errors"
	"math/rand"
	"sync"

	"tower-climb/internal/event"
	"tower-climb/internal/game"
	"tower-climb/internal/ledger"
	"tower-climb/internal/minigame"
	"tower-climb/pkg"
)

var ErrNoPowerUp = errors.New("power-up is not live")

// Session owns one player's game state: the spawner engine and its scheduler,
// the gold ledger, and the current minigame round. Nothing here is shared
// across sessions.
type Session struct {
	Code       string
	Dispatcher *event.Dispatcher
	Engine     *game.Engine
	Ledger     *ledger.Ledger

	scheduler *game.Scheduler

	mu       sync.Mutex
	guessRNG *rand.Rand
	guess    *minigame.Session
}

// New wires a session together and subscribes the collection-reward listener.
// The caller starts ticking with Start. The engine keeps rng for itself; the
// minigame draws from a separately seeded source because the scheduler
// goroutine and the request path run under different locks.
func New(code string, rng *rand.Rand, tokens ledger.TokenStore, log pkg.Logger) *Session {
	dispatcher := event.NewDispatcher()
	engine := game.NewEngine(rng, dispatcher)
	led := ledger.NewLedger(tokens, dispatcher, log)

	guessRNG := rand.New(rand.NewSource(rng.Int63()))
	s := &Session{
		Code:       code,
		Dispatcher: dispatcher,
		Engine:     engine,
		Ledger:     led,
		scheduler:  game.NewScheduler(engine, game.TickInterval),
		guessRNG:   guessRNG,
		guess:      minigame.NewSession(guessRNG),
	}

	// Collection rewards arrive as events, not as calls from the collision
	// collaborator into the ledger.
	dispatcher.Subscribe(event.PowerUpCollected, event.ListenerFunc(func(ev event.Event) {
		p, ok := ev.Data.(game.PowerUp)
		if !ok {
			return
		}
		_, _ = led.GrantFromGameplay(game.CollectReward[p.Kind])
	}))

	return s
}

func (s *Session) Start() { s.scheduler.Start() }

// Stop freezes the live set; it is safe on every teardown path.
func (s *Session) Stop() { s.scheduler.Stop() }

// Collect removes a live power-up on behalf of the collision collaborator.
// The gameplay credit happens through the dispatched event.
func (s *Session) Collect(id int64) (game.PowerUp, error) {
	p, ok := s.Engine.Collect(id)
	if !ok {
		return game.PowerUp{}, ErrNoPowerUp
	}
	return p, nil
}

// Guess submits one minigame guess; a winning guess credits the reward.
func (s *Session) Guess(value int) (minigame.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.guess.SubmitGuess(value)
	if err != nil {
		return minigame.Result{}, err
	}
	if res.Won {
		if _, err := s.Ledger.GrantFromGameplay(res.Reward); err != nil {
			return minigame.Result{}, err
		}
	}
	return res, nil
}

// ResetGuess starts a fresh minigame round, as if re-entering the minigame.
func (s *Session) ResetGuess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guess = minigame.NewSession(s.guessRNG)
}
