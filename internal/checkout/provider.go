package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const providerTimeout = 10 * time.Second

// HTTPProvider talks to a Stripe-style checkout API: form-encoded session
// creation, JSON responses, bearer-key auth.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPProvider(baseURL, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: providerTimeout},
	}
}

type providerSessionPayload struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
	Error         *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *HTTPProvider) CreateSession(ctx context.Context, req SessionRequest) (ProviderSession, error) {
	form := url.Values{}
	form.Set("mode", req.Mode)
	form.Set("line_items[0][price]", req.PriceID)
	form.Set("line_items[0][quantity]", strconv.Itoa(req.Quantity))
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	for k, v := range req.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return ProviderSession{}, fmt.Errorf("failed to build provider request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	return p.do(httpReq)
}

func (p *HTTPProvider) GetSession(ctx context.Context, id string) (ProviderSession, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.baseURL+"/v1/checkout/sessions/"+url.PathEscape(id), nil)
	if err != nil {
		return ProviderSession{}, fmt.Errorf("failed to build provider request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	return p.do(httpReq)
}

func (p *HTTPProvider) do(req *http.Request) (ProviderSession, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return ProviderSession{}, fmt.Errorf("provider call failed: %w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	var payload providerSessionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ProviderSession{}, fmt.Errorf("failed to decode provider response: %w", ErrUpstream)
	}
	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if payload.Error != nil && payload.Error.Message != "" {
			msg = payload.Error.Message
		}
		return ProviderSession{}, fmt.Errorf("%w: %s", ErrUpstream, msg)
	}

	return ProviderSession{
		ID:            payload.ID,
		URL:           payload.URL,
		PaymentStatus: payload.PaymentStatus,
		Metadata:      payload.Metadata,
	}, nil
}
