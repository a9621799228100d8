package minigame

import (
	"errors"
	"math/rand"
)

var (
	ErrOutOfRange = errors.New("guess must be between 1 and 100")
	ErrFinished   = errors.New("guess session already won")
)

const (
	minTarget = 1
	maxTarget = 100

	baseReward    = 300
	rewardPenalty = 20
	minReward     = 50
)

// State of a guess session. There is no loss state: a session is active until
// the exact target is hit or the player navigates away.
type State int

const (
	Active State = iota
	Won
)

// Session is one bounded-information-gain guessing round. The target is fixed
// at creation and never changes.
type Session struct {
	target   int
	attempts int
	history  []string
	state    State
}

// Result reports the outcome of one guess.
type Result struct {
	Won      bool
	Hint     string
	Attempts int
	Reward   int
}

func NewSession(rng *rand.Rand) *Session {
	return &Session{
		target: minTarget + rng.Intn(maxTarget-minTarget+1),
	}
}

func (s *Session) State() State      { return s.state }
func (s *Session) Attempts() int     { return s.attempts }
func (s *Session) History() []string { return append([]string(nil), s.history...) }

// SubmitGuess checks one guess. Out-of-range guesses are rejected without
// touching the attempt counter or history.
func (s *Session) SubmitGuess(value int) (Result, error) {
	if s.state == Won {
		return Result{}, ErrFinished
	}
	if value < minTarget || value > maxTarget {
		return Result{}, ErrOutOfRange
	}

	s.attempts++
	if value == s.target {
		s.state = Won
		return Result{
			Won:      true,
			Attempts: s.attempts,
			Reward:   rewardFor(s.attempts),
		}, nil
	}

	hint := "too large"
	if value < s.target {
		hint = "too small"
	}
	s.history = append(s.history, hint)
	return Result{Hint: hint, Attempts: s.attempts}, nil
}

func rewardFor(attempts int) int {
	reward := baseReward - attempts*rewardPenalty
	if reward < minReward {
		return minReward
	}
	return reward
}
