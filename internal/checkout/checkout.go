package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"tower-climb/pkg"
)

var (
	ErrInvalidGoldAmount = errors.New("gold amount must be a positive integer")
	ErrUpstream          = errors.New("payment provider rejected the request")
	ErrUnpaid            = errors.New("checkout session is not paid")
)

// SessionRequest is the provider-facing shape of a checkout session.
type SessionRequest struct {
	Mode       string
	PriceID    string
	Quantity   int
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// ProviderSession is what the provider reports about a checkout session.
type ProviderSession struct {
	ID            string
	URL           string
	PaymentStatus string
	Metadata      map[string]string
}

// Provider is the external payment boundary.
type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (ProviderSession, error)
	GetSession(ctx context.Context, id string) (ProviderSession, error)
}

// Initiator converts a purchase intent into an externally hosted payment
// session. It never credits gold itself.
type Initiator struct {
	provider Provider
	appID    string
	log      pkg.Logger
}

func NewInitiator(provider Provider, appID string, log pkg.Logger) *Initiator {
	return &Initiator{
		provider: provider,
		appID:    appID,
		log:      log,
	}
}

// CreateCheckout builds a one-time-payment session with a single line item
// and returns the hosted URL the caller must redirect the browser to. The
// gold amount rides along as opaque metadata for later reconciliation; the
// redirect query parameters are informational only and are never trusted for
// crediting.
func (i *Initiator) CreateCheckout(ctx context.Context, origin, priceID string, goldAmount int) (string, error) {
	if goldAmount <= 0 {
		return "", ErrInvalidGoldAmount
	}

	req := SessionRequest{
		Mode:       "payment",
		PriceID:    priceID,
		Quantity:   1,
		SuccessURL: fmt.Sprintf("%s?payment_success=true&gold=%d", origin, goldAmount),
		CancelURL:  origin + "?payment_canceled=true",
		Metadata: map[string]string{
			"gold_amount": strconv.Itoa(goldAmount),
			"app_id":      i.appID,
		},
	}

	sess, err := i.provider.CreateSession(ctx, req)
	if err != nil {
		i.log.Error("failed to create checkout session",
			zap.String("priceID", priceID),
			zap.Int("goldAmount", goldAmount),
			zap.Error(err))
		return "", err
	}

	i.log.Info("checkout session created",
		zap.String("sessionID", sess.ID),
		zap.String("priceID", priceID),
		zap.Int("goldAmount", goldAmount))
	return sess.URL, nil
}

// Verifier resolves a completed checkout into a creditable gold amount from
// the provider's own record, not from anything the client carried back on the
// redirect.
type Verifier struct {
	provider Provider
	log      pkg.Logger
}

func NewVerifier(provider Provider, log pkg.Logger) *Verifier {
	return &Verifier{provider: provider, log: log}
}

// Verify fetches the session and returns the gold amount attached at
// creation. Sessions that are not paid yield ErrUnpaid.
func (v *Verifier) Verify(ctx context.Context, sessionID string) (int, error) {
	sess, err := v.provider.GetSession(ctx, sessionID)
	if err != nil {
		v.log.Error("failed to fetch checkout session", zap.String("sessionID", sessionID), zap.Error(err))
		return 0, err
	}
	if sess.PaymentStatus != "paid" {
		v.log.Warn("checkout session not paid",
			zap.String("sessionID", sessionID),
			zap.String("status", sess.PaymentStatus))
		return 0, fmt.Errorf("session %s has status %q: %w", sessionID, sess.PaymentStatus, ErrUnpaid)
	}

	gold, err := strconv.Atoi(sess.Metadata["gold_amount"])
	if err != nil || gold <= 0 {
		return 0, fmt.Errorf("session %s carries invalid gold_amount metadata %q: %w",
			sessionID, sess.Metadata["gold_amount"], ErrUpstream)
	}
	return gold, nil
}
