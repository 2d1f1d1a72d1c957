package terminal

import (
	"context"
	"fmt"

	"github.com/alovak/terminal-backend/terminal/models"
	"golang.org/x/exp/slices"
)

const missingAmountOrCurrency = "Missing amount or currency"

// Gateway is the payment processor behind the terminal backend.
type Gateway interface {
	CreateConnectionToken(ctx context.Context) (models.ConnectionToken, error)
	CreatePaymentIntent(ctx context.Context, params models.PaymentIntentParams) (*models.PaymentIntent, error)
}

type Service struct {
	registry *Registry
	gateway  Gateway
	cfg      *Config
}

func NewService(registry *Registry, gateway Gateway, cfg *Config) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return &Service{
		registry: registry,
		gateway:  gateway,
		cfg:      cfg,
	}
}

func (s *Service) DeviceConfig(deviceID string) (models.Device, error) {
	device, err := s.registry.Get(deviceID)
	if err != nil {
		return models.Device{}, fmt.Errorf("finding device %s: %w", deviceID, err)
	}

	return device, nil
}

func (s *Service) CreateConnectionToken(ctx context.Context) (models.ConnectionToken, error) {
	return s.gateway.CreateConnectionToken(ctx)
}

// CreatePaymentIntent forwards the request to the gateway with the
// configured in-person payment methods and capture method. Zero amount or
// empty currency is rejected with a ValidationError and never forwarded.
func (s *Service) CreatePaymentIntent(ctx context.Context, req models.PaymentIntentRequest) (*models.PaymentIntent, error) {
	if req.Amount == 0 || req.Currency == "" {
		return nil, &models.ValidationError{Message: missingAmountOrCurrency}
	}

	params := models.PaymentIntentParams{
		Amount:             req.Amount,
		Currency:           req.Currency,
		PaymentMethodTypes: slices.Clone(s.cfg.PaymentMethodTypes),
		CaptureMethod:      s.cfg.CaptureMethod,
	}

	return s.gateway.CreatePaymentIntent(ctx, params)
}
