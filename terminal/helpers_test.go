package terminal_test

import (
	"bytes"
	"context"
	"sync"

	"github.com/alovak/terminal-backend/terminal/models"
)

// rawGateway answers payment intents with a fixed upstream JSON document.
type rawGateway struct {
	raw string
}

func (g rawGateway) CreateConnectionToken(ctx context.Context) (models.ConnectionToken, error) {
	return models.ConnectionToken{Secret: "pst_raw"}, nil
}

func (g rawGateway) CreatePaymentIntent(ctx context.Context, p models.PaymentIntentParams) (*models.PaymentIntent, error) {
	return &models.PaymentIntent{ID: "pi_123", Amount: p.Amount, Currency: p.Currency, Raw: []byte(g.raw)}, nil
}

// ctxGateway records the context error each gateway call sees.
type ctxGateway struct {
	mu   sync.Mutex
	errs []error
}

func (g *ctxGateway) record(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errs = append(g.errs, ctx.Err())
}

func (g *ctxGateway) Errs() []error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]error(nil), g.errs...)
}

func (g *ctxGateway) CreateConnectionToken(ctx context.Context) (models.ConnectionToken, error) {
	g.record(ctx)
	return models.ConnectionToken{Secret: "pst_ctx"}, nil
}

func (g *ctxGateway) CreatePaymentIntent(ctx context.Context, p models.PaymentIntentParams) (*models.PaymentIntent, error) {
	g.record(ctx)
	return &models.PaymentIntent{ID: "pi_ctx", Amount: p.Amount, Currency: p.Currency}, nil
}

// nilGateway succeeds without returning a payment intent.
type nilGateway struct{}

func (nilGateway) CreateConnectionToken(ctx context.Context) (models.ConnectionToken, error) {
	return models.ConnectionToken{}, nil
}

func (nilGateway) CreatePaymentIntent(ctx context.Context, p models.PaymentIntentParams) (*models.PaymentIntent, error) {
	return nil, nil
}

// syncBuffer is a bytes.Buffer safe for the server goroutines to log into
// while the test reads it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
