package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type mockLogger struct{}

func (m *mockLogger) Info(msg string, fields ...zap.Field)  {}
func (m *mockLogger) Warn(msg string, fields ...zap.Field)  {}
func (m *mockLogger) Error(msg string, fields ...zap.Field) {}
func (m *mockLogger) Sync() error                           { return nil }

type mockProvider struct {
	CreateSessionFunc func(ctx context.Context, req SessionRequest) (ProviderSession, error)
	GetSessionFunc    func(ctx context.Context, id string) (ProviderSession, error)
}

func (m *mockProvider) CreateSession(ctx context.Context, req SessionRequest) (ProviderSession, error) {
	return m.CreateSessionFunc(ctx, req)
}

func (m *mockProvider) GetSession(ctx context.Context, id string) (ProviderSession, error) {
	return m.GetSessionFunc(ctx, id)
}

func TestInitiator_CreateCheckout(t *testing.T) {
	var captured SessionRequest
	provider := &mockProvider{
		CreateSessionFunc: func(ctx context.Context, req SessionRequest) (ProviderSession, error) {
			captured = req
			return ProviderSession{ID: "cs_123", URL: "https://pay.example/cs_123"}, nil
		},
	}
	initiator := NewInitiator(provider, "tower-climb", &mockLogger{})

	url, err := initiator.CreateCheckout(context.Background(), "https://game.example", "price_x", 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://pay.example/cs_123" {
		t.Errorf("unexpected session url %q", url)
	}

	if captured.Mode != "payment" {
		t.Errorf("expected one-time payment mode, got %q", captured.Mode)
	}
	if captured.PriceID != "price_x" || captured.Quantity != 1 {
		t.Errorf("expected single line item price_x x1, got %q x%d", captured.PriceID, captured.Quantity)
	}
	if captured.Metadata["gold_amount"] != "10000" {
		t.Errorf("expected gold_amount metadata \"10000\", got %q", captured.Metadata["gold_amount"])
	}
	if captured.Metadata["app_id"] != "tower-climb" {
		t.Errorf("expected app_id metadata, got %q", captured.Metadata["app_id"])
	}
	if !strings.Contains(captured.SuccessURL, "gold=10000") ||
		!strings.Contains(captured.SuccessURL, "payment_success=true") ||
		!strings.HasPrefix(captured.SuccessURL, "https://game.example") {
		t.Errorf("unexpected success url %q", captured.SuccessURL)
	}
	if !strings.Contains(captured.CancelURL, "payment_canceled=true") {
		t.Errorf("unexpected cancel url %q", captured.CancelURL)
	}
}

func TestInitiator_CreateCheckout_InvalidGold(t *testing.T) {
	called := false
	provider := &mockProvider{
		CreateSessionFunc: func(ctx context.Context, req SessionRequest) (ProviderSession, error) {
			called = true
			return ProviderSession{}, nil
		},
	}
	initiator := NewInitiator(provider, "tower-climb", &mockLogger{})

	for _, amount := range []int{0, -100} {
		if _, err := initiator.CreateCheckout(context.Background(), "https://game.example", "price_x", amount); !errors.Is(err, ErrInvalidGoldAmount) {
			t.Errorf("amount %d: expected ErrInvalidGoldAmount, got %v", amount, err)
		}
	}
	if called {
		t.Fatal("provider must not be called for invalid amounts")
	}
}

func TestInitiator_CreateCheckout_UpstreamFailure(t *testing.T) {
	provider := &mockProvider{
		CreateSessionFunc: func(ctx context.Context, req SessionRequest) (ProviderSession, error) {
			return ProviderSession{}, errors.New("no such price: 'price_x'")
		},
	}
	initiator := NewInitiator(provider, "tower-climb", &mockLogger{})

	_, err := initiator.CreateCheckout(context.Background(), "https://game.example", "price_x", 500)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "no such price") {
		t.Errorf("expected underlying message surfaced, got %v", err)
	}
}

func TestVerifier_PaidSession(t *testing.T) {
	provider := &mockProvider{
		GetSessionFunc: func(ctx context.Context, id string) (ProviderSession, error) {
			return ProviderSession{
				ID:            id,
				PaymentStatus: "paid",
				Metadata:      map[string]string{"gold_amount": "10000", "app_id": "tower-climb"},
			}, nil
		},
	}
	v := NewVerifier(provider, &mockLogger{})

	gold, err := v.Verify(context.Background(), "cs_123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gold != 10000 {
		t.Fatalf("expected 10000 gold from metadata, got %d", gold)
	}
}

func TestVerifier_UnpaidSession(t *testing.T) {
	provider := &mockProvider{
		GetSessionFunc: func(ctx context.Context, id string) (ProviderSession, error) {
			return ProviderSession{ID: id, PaymentStatus: "unpaid"}, nil
		},
	}
	v := NewVerifier(provider, &mockLogger{})

	if _, err := v.Verify(context.Background(), "cs_123"); !errors.Is(err, ErrUnpaid) {
		t.Fatalf("expected ErrUnpaid, got %v", err)
	}
}

func TestVerifier_BadMetadata(t *testing.T) {
	provider := &mockProvider{
		GetSessionFunc: func(ctx context.Context, id string) (ProviderSession, error) {
			return ProviderSession{
				ID:            id,
				PaymentStatus: "paid",
				Metadata:      map[string]string{"gold_amount": "not-a-number"},
			}, nil
		},
	}
	v := NewVerifier(provider, &mockLogger{})

	if _, err := v.Verify(context.Background(), "cs_123"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream on bad metadata, got %v", err)
	}
}
