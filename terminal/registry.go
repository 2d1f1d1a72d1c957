package terminal

import (
	"fmt"

	"github.com/alovak/terminal-backend/terminal/models"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var ErrNotFound = fmt.Errorf("not found")

// Registry is the device table. It is built once at start-up and never
// changes afterwards, so it is safe for concurrent reads without locking.
type Registry struct {
	devices map[string]models.Device
}

// NewRegistry validates devices and builds the registry. Every device must
// have a unique non-empty id and at least one preset, and every preset
// amount must be positive.
func NewRegistry(devices []models.Device) (*Registry, error) {
	r := &Registry{
		devices: make(map[string]models.Device, len(devices)),
	}

	for _, d := range devices {
		if d.ID == "" {
			return nil, fmt.Errorf("device with empty id")
		}
		if _, ok := r.devices[d.ID]; ok {
			return nil, fmt.Errorf("duplicate device %q", d.ID)
		}
		if len(d.Presets) == 0 {
			return nil, fmt.Errorf("device %q has no presets", d.ID)
		}
		for _, p := range d.Presets {
			if p.Amount <= 0 {
				return nil, fmt.Errorf("device %q preset %q: amount must be positive, got %d", d.ID, p.ID, p.Amount)
			}
		}

		d.Presets = slices.Clone(d.Presets)
		r.devices[d.ID] = d
	}

	return r, nil
}

// Get returns the device with exactly this id, or ErrNotFound.
func (r *Registry) Get(deviceID string) (models.Device, error) {
	d, ok := r.devices[deviceID]
	if !ok {
		return models.Device{}, ErrNotFound
	}

	d.Presets = slices.Clone(d.Presets)
	return d, nil
}

// IDs returns the registered device ids in sorted order.
func (r *Registry) IDs() []string {
	ids := maps.Keys(r.devices)
	slices.Sort(ids)
	return ids
}

func (r *Registry) Len() int {
	return len(r.devices)
}
