package terminal

import (
	"bytes"
	"context"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alovak/terminal-backend/terminal/models"
	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodyBytes matches the default body limit of common JSON parsers.
const maxBodyBytes = 100 << 10

// API is a HTTP API for the terminal backend
type API struct {
	svc    *Service
	logger *slog.Logger
}

func NewAPI(svc *Service, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}

	return &API{
		svc:    svc,
		logger: logger,
	}
}

func (a *API) AppendRoutes(r chi.Router) {
	r.Get("/devices/{deviceID}/config", a.getDeviceConfig)
	r.Post("/connection_token", a.createConnectionToken)
	r.Post("/payment_intents", a.createPaymentIntent)
}

func (a *API) getDeviceConfig(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")
	if unescaped, err := url.PathUnescape(deviceID); err == nil {
		deviceID = unescaped
	}

	device, err := a.svc.DeviceConfig(deviceID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "Unknown device")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, device)
}

func (a *API) createConnectionToken(w http.ResponseWriter, r *http.Request) {
	// the gateway call outlives a disconnected client
	ctx := context.WithoutCancel(r.Context())

	token, err := a.svc.CreateConnectionToken(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "creating connection token", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, gatewayMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, models.ConnectionToken{Secret: token.Secret})
}

func (a *API) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	body := paymentIntentBody{}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req, err := body.request()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := context.WithoutCancel(r.Context())

	intent, err := a.svc.CreatePaymentIntent(ctx, req)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Message)
			return
		}

		a.logger.ErrorContext(ctx, "creating payment intent",
			slog.Int64("amount", req.Amount),
			slog.String("currency", req.Currency),
			slog.Any("err", err),
		)
		writeError(w, http.StatusInternalServerError, gatewayMessage(err))
		return
	}

	if intent == nil {
		a.logger.ErrorContext(ctx, "gateway returned no payment intent")
		writeError(w, http.StatusInternalServerError, "Payment gateway returned no payment intent")
		return
	}

	if len(intent.Raw) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(intent.Raw)
		return
	}

	writeJSON(w, http.StatusOK, intent)
}

// paymentIntentBody is the wire form of PaymentIntentRequest. Amount may be
// any integral JSON number, so 2000, 2000.0 and 2e3 are the same amount.
type paymentIntentBody struct {
	Amount   stdjson.Number `json:"amount"`
	Currency string         `json:"currency"`
}

func (b paymentIntentBody) request() (models.PaymentIntentRequest, error) {
	amount, err := parseAmount(b.Amount)
	if err != nil {
		return models.PaymentIntentRequest{}, err
	}

	return models.PaymentIntentRequest{Amount: amount, Currency: b.Currency}, nil
}

// parseAmount returns 0 for a missing or null amount.
func parseAmount(n stdjson.Number) (int64, error) {
	if n == "" {
		return 0, nil
	}
	if v, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return v, nil
	}

	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", n, err)
	}
	if f != math.Trunc(f) || f >= 1<<63 || f < -(1<<63) {
		return 0, fmt.Errorf("amount %s is not an integer", n)
	}

	return int64(f), nil
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	return json.Unmarshal(body, v)
}

// gatewayMessage returns the upstream message of a gateway failure.
func gatewayMessage(err error) string {
	var gerr *models.GatewayError
	if errors.As(err, &gerr) {
		return gerr.Message
	}

	return err.Error()
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
