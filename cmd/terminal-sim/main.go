// Command terminal-sim plays the point-of-sale terminal against a running
// backend: it loads the device config, obtains a reader connection token and
// creates a payment intent for one of the presets.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/alovak/terminal-backend/internal/relayclient"
	"github.com/alovak/terminal-backend/terminal/models"
)

var (
	flagBackend  = flag.String("backend", "http://127.0.0.1:4000", "terminal backend base URL")
	flagDevice   = flag.String("device", "device-123", "device id")
	flagPreset   = flag.String("preset", "", "preset id to charge (defaults to the first preset)")
	flagAmount   = flag.Int64("amount", 0, "custom amount in minor units, overrides -preset")
	flagNoToken  = flag.Bool("no-token", false, "skip the connection token request")
	flagShowOnly = flag.Bool("config", false, "print the device config only")
	flagTimeout  = flag.Duration("timeout", 30*time.Second, "overall timeout")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *flagTimeout)
	defer cancel()

	cli := relayclient.New(*flagBackend, nil)

	device := must1(cli.DeviceConfig(ctx, *flagDevice))
	fmt.Printf("DEVICE: %s  ORG: %s  CURRENCY: %s\n", device.ID, device.OrgID, device.Currency)
	for _, p := range device.Presets {
		fmt.Printf("  preset %-8s %8d  %s\n", p.ID, p.Amount, p.Label)
	}
	if *flagShowOnly {
		return
	}

	if !*flagNoToken {
		secret := must1(cli.ConnectionToken(ctx))
		fmt.Printf("CONNECTION TOKEN: %s\n", maskSecret(secret))
	}

	amount := *flagAmount
	if amount == 0 {
		preset, err := pickPreset(device.Presets, *flagPreset)
		must(err)
		amount = preset.Amount
	}

	intent := must1(cli.CreatePaymentIntent(ctx, amount, device.Currency))
	fmt.Printf("PAYMENT INTENT: %s  amount=%d %s  status=%s\n", intent.ID, intent.Amount, intent.Currency, intent.Status)
}

// pickPreset returns the preset with id, or the first preset when id is empty.
func pickPreset(presets []models.Preset, id string) (models.Preset, error) {
	if len(presets) == 0 {
		return models.Preset{}, fmt.Errorf("device has no presets")
	}
	if id == "" {
		return presets[0], nil
	}
	for _, p := range presets {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Preset{}, fmt.Errorf("unknown preset %q", id)
}

func maskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:8] + "****"
}

func must(err error) {
	if err != nil {
		fail("%v", err)
	}
}
func must1[T any](v T, err error) T {
	if err != nil {
		fail("%v", err)
	}
	return v
}
func fail(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
