package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/gloworm-vision/gloworm-gpio/hardware"
)

func openTestBBolt(t *testing.T) *BBolt {
	t.Helper()

	b, err := OpenBBolt(filepath.Join(t.TempDir(), "store.db"), 0600, nil)
	if err != nil {
		t.Fatalf("OpenBBolt: %v", err)
	}
	t.Cleanup(func() { b.Close() })

	return b
}

func TestBBoltHardwareConfig(t *testing.T) {
	b := openTestBBolt(t)

	if _, err := b.HardwareConfig(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before a config is stored, got %v", err)
	}

	config := hardware.Config{Gloworm: &hardware.GlowormConfig{
		Driver:     hardware.DriverPigpio,
		PigpioAddr: "localhost:8888",
		PWMRange:   480,
		PWMClock:   2,
	}}
	if err := b.PutHardwareConfig(config); err != nil {
		t.Fatalf("PutHardwareConfig: %v", err)
	}

	got, err := b.HardwareConfig()
	if err != nil {
		t.Fatalf("HardwareConfig: %v", err)
	}
	if got.Gloworm == nil || *got.Gloworm != *config.Gloworm {
		t.Fatalf("HardwareConfig() = %+v, want %+v", got.Gloworm, config.Gloworm)
	}
}

func TestBBoltLightState(t *testing.T) {
	b := openTestBBolt(t)

	l, err := b.LightState()
	if err != nil {
		t.Fatalf("LightState: %v", err)
	}
	if l.Brightness != 0 || len(l.Statuses) != 0 {
		t.Fatalf("expected empty light state, got %+v", l)
	}

	want := LightState{Brightness: 0.75, Statuses: map[string]bool{"targetAquired": true}}
	if err := b.PutLightState(want); err != nil {
		t.Fatalf("PutLightState: %v", err)
	}

	l, err = b.LightState()
	if err != nil {
		t.Fatalf("LightState: %v", err)
	}
	if l.Brightness != 0.75 || !l.Statuses["targetAquired"] || len(l.Statuses) != 1 {
		t.Fatalf("LightState() = %+v, want %+v", l, want)
	}
}

func TestBBoltPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	b, err := OpenBBolt(path, 0600, nil)
	if err != nil {
		t.Fatalf("OpenBBolt: %v", err)
	}
	if err := b.PutLightState(LightState{Brightness: 0.5}); err != nil {
		t.Fatalf("PutLightState: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b, err = OpenBBolt(path, 0600, nil)
	if err != nil {
		t.Fatalf("OpenBBolt: %v", err)
	}
	defer b.Close()

	l, err := b.LightState()
	if err != nil || l.Brightness != 0.5 {
		t.Fatalf("LightState() = %+v, %v; want brightness 0.5", l, err)
	}
}
