package ledger

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"tower-climb/internal/event"
	"tower-climb/pkg"
)

var (
	ErrInvalidAmount  = errors.New("grant amount must be a positive integer")
	ErrDuplicateToken = errors.New("purchase token already redeemed")
)

// TokenStore records redeemed purchase tokens. Redeem returns
// ErrDuplicateToken when the token was seen before; any other error aborts
// the grant.
type TokenStore interface {
	Redeem(token string, amount int) error
}

// MemoryTokenStore keeps redeemed tokens for the lifetime of the session.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]struct{}
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]struct{})}
}

func (m *MemoryTokenStore) Redeem(token string, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, seen := m.tokens[token]; seen {
		return ErrDuplicateToken
	}
	m.tokens[token] = struct{}{}
	return nil
}

// Ledger is the single source of truth for a session's gold balance. It only
// grows: there is no debit operation.
type Ledger struct {
	mu         sync.Mutex
	balance    int
	tokens     TokenStore
	dispatcher *event.Dispatcher
	log        pkg.Logger
}

func NewLedger(tokens TokenStore, dispatcher *event.Dispatcher, log pkg.Logger) *Ledger {
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	return &Ledger{
		tokens:     tokens,
		dispatcher: dispatcher,
		log:        log,
	}
}

func (l *Ledger) Balance() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// GrantFromGameplay credits a minigame or collection reward.
func (l *Ledger) GrantFromGameplay(amount int) (int, error) {
	if amount <= 0 {
		return l.Balance(), ErrInvalidAmount
	}
	l.mu.Lock()
	l.balance += amount
	balance := l.balance
	l.mu.Unlock()

	l.dispatcher.Dispatch(event.Event{Type: event.GoldGranted, Data: amount})
	l.log.Info("gold granted from gameplay", zap.Int("amount", amount), zap.Int("balance", balance))
	return balance, nil
}

// GrantFromPurchase credits a verified purchase exactly once per source token.
func (l *Ledger) GrantFromPurchase(amount int, sourceToken string) (int, error) {
	if amount <= 0 {
		return l.Balance(), ErrInvalidAmount
	}
	if err := l.tokens.Redeem(sourceToken, amount); err != nil {
		if !errors.Is(err, ErrDuplicateToken) {
			l.log.Error("failed to record purchase token", zap.String("token", sourceToken), zap.Error(err))
		}
		return l.Balance(), err
	}
	l.mu.Lock()
	l.balance += amount
	balance := l.balance
	l.mu.Unlock()

	l.dispatcher.Dispatch(event.Event{Type: event.GoldGranted, Data: amount})
	l.log.Info("gold granted from purchase",
		zap.Int("amount", amount),
		zap.String("token", sourceToken),
		zap.Int("balance", balance))
	return balance, nil
}
