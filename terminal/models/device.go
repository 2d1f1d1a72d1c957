package models

// Device is a payment terminal registration. ID is the lookup key and is
// not part of the config returned to the terminal.
type Device struct {
	ID       string   `json:"-" yaml:"id"`
	OrgID    string   `json:"orgId" yaml:"orgId"`
	Currency string   `json:"currency" yaml:"currency"`
	Presets  []Preset `json:"presets" yaml:"presets"`
}

// Preset is a fixed charge amount offered on the terminal, in minor units.
type Preset struct {
	ID     string `json:"id" yaml:"id"`
	Amount int64  `json:"amount" yaml:"amount"`
	Label  string `json:"label" yaml:"label"`
}
