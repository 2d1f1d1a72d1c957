package terminal_test

import (
	"context"
	"testing"

	"github.com/alovak/terminal-backend/internal/gatewaytest"
	"github.com/alovak/terminal-backend/terminal"
	"github.com/alovak/terminal-backend/terminal/models"
	"github.com/stretchr/testify/require"
)

func TestService_CreatePaymentIntent_UsesConfiguredMethods(t *testing.T) {
	cfg := terminal.DefaultConfig()
	cfg.PaymentMethodTypes = []string{"card_present"}
	cfg.CaptureMethod = "manual"

	registry, err := terminal.NewRegistry(cfg.Devices)
	require.NoError(t, err)

	gw := gatewaytest.New()
	svc := terminal.NewService(registry, gw, cfg)

	intent, err := svc.CreatePaymentIntent(context.Background(), models.PaymentIntentRequest{Amount: 500, Currency: "usd"})
	require.NoError(t, err)
	require.Equal(t, "manual", intent.CaptureMethod)

	require.Equal(t, []models.PaymentIntentParams{{
		Amount:             500,
		Currency:           "usd",
		PaymentMethodTypes: []string{"card_present"},
		CaptureMethod:      "manual",
	}}, gw.Intents())
}

func TestService_CreatePaymentIntent_Validation(t *testing.T) {
	registry, err := terminal.NewRegistry(terminal.DefaultDevices())
	require.NoError(t, err)

	gw := gatewaytest.New()
	svc := terminal.NewService(registry, gw, nil)

	_, err = svc.CreatePaymentIntent(context.Background(), models.PaymentIntentRequest{Currency: "cad"})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "Missing amount or currency", verr.Message)
	require.Empty(t, gw.Intents())
}

func TestService_DeviceConfig(t *testing.T) {
	registry, err := terminal.NewRegistry(terminal.DefaultDevices())
	require.NoError(t, err)
	svc := terminal.NewService(registry, gatewaytest.New(), nil)

	device, err := svc.DeviceConfig("device-123")
	require.NoError(t, err)
	require.Equal(t, "device-123", device.ID)

	_, err = svc.DeviceConfig("nope")
	require.ErrorIs(t, err, terminal.ErrNotFound)
}
