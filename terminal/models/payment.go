package models

import "encoding/json"

const (
	PaymentMethodCardPresent    = "card_present"
	PaymentMethodInteracPresent = "interac_present"

	CaptureMethodAutomatic = "automatic"
)

// PaymentIntentRequest is the body of POST /payment_intents.
type PaymentIntentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// PaymentIntentParams is what gets forwarded to the gateway.
type PaymentIntentParams struct {
	Amount             int64
	Currency           string
	PaymentMethodTypes []string
	CaptureMethod      string
}

type ConnectionToken struct {
	Secret string `json:"secret"`
}

// PaymentIntent is the gateway's record of a created intent. When Raw is
// set it holds the upstream JSON object and is returned to callers as is.
type PaymentIntent struct {
	ID                 string   `json:"id"`
	Object             string   `json:"object"`
	Amount             int64    `json:"amount"`
	Currency           string   `json:"currency"`
	Status             string   `json:"status"`
	ClientSecret       string   `json:"client_secret"`
	CaptureMethod      string   `json:"capture_method"`
	PaymentMethodTypes []string `json:"payment_method_types"`
	Created            int64    `json:"created"`

	Raw json.RawMessage `json:"-"`
}
