package main

import (
	"testing"

	"github.com/alovak/terminal-backend/terminal/models"
)

func TestPickPreset(t *testing.T) {
	presets := []models.Preset{
		{ID: "small", Amount: 500, Label: "$5"},
		{ID: "medium", Amount: 2000, Label: "$20"},
	}

	cases := []struct {
		id      string
		want    int64
		wantErr bool
	}{
		{"", 500, false},
		{"medium", 2000, false},
		{"huge", 0, true},
	}
	for _, c := range cases {
		got, err := pickPreset(presets, c.id)
		if c.wantErr {
			if err == nil {
				t.Fatalf("pickPreset(%q) expected error", c.id)
			}
			continue
		}
		if err != nil {
			t.Fatalf("pickPreset(%q): %v", c.id, err)
		}
		if got.Amount != c.want {
			t.Fatalf("pickPreset(%q) = %d want %d", c.id, got.Amount, c.want)
		}
	}

	if _, err := pickPreset(nil, ""); err == nil {
		t.Fatalf("pickPreset on empty presets expected error")
	}
}

func TestMaskSecret(t *testing.T) {
	if got := maskSecret("pst_test_abcdef123"); got != "pst_test****" {
		t.Fatalf("maskSecret = %q", got)
	}
	if got := maskSecret("short"); got != "****" {
		t.Fatalf("maskSecret short = %q", got)
	}
}
