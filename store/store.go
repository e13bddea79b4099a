package store

import (
	"errors"
	"io"

	"github.com/gloworm-vision/gloworm-gpio/hardware"
)

// ErrNotFound is returned when a value hasn't been stored yet.
var ErrNotFound = errors.New("not found")

// LightState is the last state requested for the lights and status
// indicators, restored when the hardware is set up again.
type LightState struct {
	Brightness float64         `json:"brightness"`
	Statuses   map[string]bool `json:"statuses,omitempty"`
}

// Store describes a persistent storage engine for gloworm-gpio information.
type Store interface {
	HardwareConfig() (hardware.Config, error)
	PutHardwareConfig(h hardware.Config) error

	LightState() (LightState, error)
	PutLightState(l LightState) error

	io.Closer
}
