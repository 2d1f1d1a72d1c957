package terminal

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/alovak/terminal-backend/terminal/models"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPort = "4000"

// Config is a configuration for the terminal backend
type Config struct {
	HTTPAddr string
	// StripeSecretKey authenticates calls to the payment gateway.
	StripeSecretKey string
	// StripeAPIURL overrides the gateway base URL (stripe-mock, tests). Empty means the live API.
	StripeAPIURL string
	// Devices is the static device table served by GET /devices/{id}/config.
	Devices []models.Device
	// PaymentMethodTypes and CaptureMethod are attached to every created payment intent.
	PaymentMethodTypes []string
	CaptureMethod      string
	LogLevel           slog.Level
	Telemetry          bool
}

func DefaultConfig() *Config {
	return &Config{
		HTTPAddr: ":" + DefaultPort,
		Devices:  DefaultDevices(),
		PaymentMethodTypes: []string{
			models.PaymentMethodCardPresent,
			models.PaymentMethodInteracPresent,
		},
		CaptureMethod: models.CaptureMethodAutomatic,
		LogLevel:      slog.LevelInfo,
	}
}

// DefaultDevices is the built-in device table.
func DefaultDevices() []models.Device {
	return []models.Device{
		{
			ID:       "device-123",
			OrgID:    "org-rahma",
			Currency: "cad",
			Presets: []models.Preset{
				{ID: "small", Amount: 500, Label: "$5"},
				{ID: "medium", Amount: 2000, Label: "$20"},
				{ID: "large", Amount: 5000, Label: "$50"},
			},
		},
	}
}

// LoadConfig builds the configuration from the environment. A .env file in
// the working directory is loaded first when present; variables already set
// in the environment win.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := DefaultConfig()

	cfg.HTTPAddr = ":" + getenv("PORT", DefaultPort)
	cfg.StripeSecretKey = os.Getenv("STRIPE_SECRET_KEY")
	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	cfg.StripeAPIURL = os.Getenv("STRIPE_API_URL")

	if path := os.Getenv("DEVICES_FILE"); path != "" {
		devices, err := LoadDevicesFile(path)
		if err != nil {
			return nil, err
		}
		cfg.Devices = devices
	}

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(lvl)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL=%s: %w", lvl, err)
		}
	}

	cfg.Telemetry = strings.EqualFold(getenv("OTEL_ENABLED", "false"), "true")

	return cfg, nil
}

// devicesFile is the YAML layout of DEVICES_FILE:
//
//	devices:
//	  - id: device-123
//	    orgId: org-rahma
//	    currency: cad
//	    presets:
//	      - {id: small, amount: 500, label: "$5"}
type devicesFile struct {
	Devices []models.Device `yaml:"devices"`
}

// LoadDevicesFile reads a device table from a YAML file.
func LoadDevicesFile(path string) ([]models.Device, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading devices file: %w", err)
	}

	var f devicesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing devices file %s: %w", path, err)
	}
	if len(f.Devices) == 0 {
		return nil, fmt.Errorf("devices file %s defines no devices", path)
	}

	return f.Devices, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
