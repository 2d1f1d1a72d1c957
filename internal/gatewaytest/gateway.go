// Package gatewaytest provides an in-memory payment gateway that records
// the calls it receives.
package gatewaytest

import (
	"context"
	"fmt"
	"sync"

	"github.com/alovak/terminal-backend/terminal/models"
)

type Gateway struct {
	// Secret is returned by CreateConnectionToken.
	Secret string
	// Err, when set, is returned by every call.
	Err error

	mu      sync.Mutex
	tokens  int
	intents []models.PaymentIntentParams
}

func New() *Gateway {
	return &Gateway{Secret: "pst_test_secret"}
}

// Fail makes every following call return a gateway error with msg.
func (g *Gateway) Fail(msg string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Err = &models.GatewayError{Op: "gatewaytest", Message: msg}
}

func (g *Gateway) CreateConnectionToken(ctx context.Context) (models.ConnectionToken, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tokens++

	if g.Err != nil {
		return models.ConnectionToken{}, g.Err
	}
	return models.ConnectionToken{Secret: g.Secret}, nil
}

func (g *Gateway) CreatePaymentIntent(ctx context.Context, params models.PaymentIntentParams) (*models.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents = append(g.intents, params)

	if g.Err != nil {
		return nil, g.Err
	}

	n := len(g.intents)
	return &models.PaymentIntent{
		ID:                 fmt.Sprintf("pi_test_%d", n),
		Object:             "payment_intent",
		Amount:             params.Amount,
		Currency:           params.Currency,
		Status:             "requires_payment_method",
		ClientSecret:       fmt.Sprintf("pi_test_%d_secret", n),
		CaptureMethod:      params.CaptureMethod,
		PaymentMethodTypes: params.PaymentMethodTypes,
	}, nil
}

// TokenCalls reports how many connection tokens were requested.
func (g *Gateway) TokenCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tokens
}

// Intents returns the parameters of every CreatePaymentIntent call.
func (g *Gateway) Intents() []models.PaymentIntentParams {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.PaymentIntentParams(nil), g.intents...)
}
