// Package stripegw implements the terminal payment gateway on top of the
// Stripe API.
package stripegw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alovak/terminal-backend/terminal/models"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// defaultTimeout is the stripe-go client default; it is kept, not overridden.
const defaultTimeout = 80 * time.Second

type Config struct {
	SecretKey string
	// APIURL replaces https://api.stripe.com when set.
	APIURL     string
	Logger     *slog.Logger
	HTTPClient *http.Client
}

type Gateway struct {
	api *client.API
}

// New creates a Stripe gateway. Network retries are disabled: every call is
// sent exactly once.
func New(cfg Config) *Gateway {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "stripe"))

	// GetBackendWithConfig fills in defaults on the config it is given,
	// so every backend gets its own.
	backendConfig := func() *stripe.BackendConfig {
		bc := &stripe.BackendConfig{
			HTTPClient:        httpClient,
			LeveledLogger:     &leveledLogger{logger: logger},
			MaxNetworkRetries: stripe.Int64(0),
			EnableTelemetry:   stripe.Bool(false),
		}
		if cfg.APIURL != "" {
			bc.URL = stripe.String(cfg.APIURL)
		}
		return bc
	}

	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig()),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendConfig()),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendConfig()),
	}

	return &Gateway{
		api: client.New(cfg.SecretKey, backends),
	}
}

func (g *Gateway) CreateConnectionToken(ctx context.Context) (models.ConnectionToken, error) {
	params := &stripe.TerminalConnectionTokenParams{}
	params.Context = ctx

	token, err := g.api.TerminalConnectionTokens.New(params)
	if err != nil {
		return models.ConnectionToken{}, gatewayError("creating connection token", err)
	}

	return models.ConnectionToken{Secret: token.Secret}, nil
}

func (g *Gateway) CreatePaymentIntent(ctx context.Context, p models.PaymentIntentParams) (*models.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(p.Amount),
		Currency:           stripe.String(p.Currency),
		PaymentMethodTypes: stripe.StringSlice(p.PaymentMethodTypes),
		CaptureMethod:      stripe.String(p.CaptureMethod),
	}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, gatewayError("creating payment intent", err)
	}

	intent := &models.PaymentIntent{
		ID:                 pi.ID,
		Object:             pi.Object,
		Amount:             pi.Amount,
		Currency:           string(pi.Currency),
		Status:             string(pi.Status),
		ClientSecret:       pi.ClientSecret,
		CaptureMethod:      string(pi.CaptureMethod),
		PaymentMethodTypes: pi.PaymentMethodTypes,
		Created:            pi.Created,
	}
	if pi.LastResponse != nil && len(pi.LastResponse.RawJSON) > 0 {
		intent.Raw = pi.LastResponse.RawJSON
	}

	return intent, nil
}

// gatewayError keeps the Stripe message as is so callers can show it.
func gatewayError(op string, err error) error {
	msg := err.Error()

	var serr *stripe.Error
	if errors.As(err, &serr) && serr.Msg != "" {
		msg = serr.Msg
	}

	return &models.GatewayError{Op: op, Message: msg, Err: err}
}
