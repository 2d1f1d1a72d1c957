// Package relayclient is a Go client for the terminal backend HTTP API, as
// used by a point-of-sale terminal.
package relayclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alovak/terminal-backend/terminal/models"
	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// APIError is a non-2xx answer of the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend status=%d: %s", e.StatusCode, e.Message)
}

type errorBody struct {
	Error string `json:"error"`
}

type Client struct {
	rc *resty.Client
}

// New returns a client for the backend at base. hc may be nil.
func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	json := jsoniter.ConfigCompatibleWithStandardLibrary
	rc := resty.NewWithClient(hc).
		SetBaseURL(strings.TrimRight(base, "/")).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &Client{rc: rc}
}

// DeviceConfig fetches the configuration of a terminal.
func (c *Client) DeviceConfig(ctx context.Context, deviceID string) (*models.Device, error) {
	device := &models.Device{}
	resp, err := c.rc.R().
		SetContext(ctx).
		SetResult(device).
		SetError(&errorBody{}).
		Get("/devices/" + url.PathEscape(deviceID) + "/config")
	if err != nil {
		return nil, fmt.Errorf("device config: %w", err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	device.ID = deviceID
	return device, nil
}

// ConnectionToken obtains a connection token secret for the terminal reader.
func (c *Client) ConnectionToken(ctx context.Context) (string, error) {
	token := &models.ConnectionToken{}
	resp, err := c.rc.R().
		SetContext(ctx).
		SetResult(token).
		SetError(&errorBody{}).
		Post("/connection_token")
	if err != nil {
		return "", fmt.Errorf("connection token: %w", err)
	}
	if err := checkResponse(resp); err != nil {
		return "", err
	}

	return token.Secret, nil
}

// CreatePaymentIntent creates a payment intent for amount minor units of currency.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (*models.PaymentIntent, error) {
	intent := &models.PaymentIntent{}
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(models.PaymentIntentRequest{Amount: amount, Currency: currency}).
		SetResult(intent).
		SetError(&errorBody{}).
		Post("/payment_intents")
	if err != nil {
		return nil, fmt.Errorf("payment intent: %w", err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	intent.Raw = resp.Body()
	return intent, nil
}

func checkResponse(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}

	msg := strings.TrimSpace(resp.String())
	if body, ok := resp.Error().(*errorBody); ok && body.Error != "" {
		msg = body.Error
	}

	return &APIError{StatusCode: resp.StatusCode(), Message: msg}
}
