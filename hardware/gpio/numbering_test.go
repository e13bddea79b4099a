package gpio_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/gloworm-vision/gloworm-gpio/hardware/gpio"
)

func TestToBCM(t *testing.T) {
	tests := []struct {
		numbering gpio.Numbering
		revision  int
		pin       int
		want      int
	}{
		{gpio.NumberingWiringPi, 2, 0, 17},
		{gpio.NumberingWiringPi, 2, 1, 18},
		{gpio.NumberingWiringPi, 2, 2, 27},
		{gpio.NumberingWiringPi, 1, 2, 21},
		{gpio.NumberingWiringPi, 1, 8, 0},
		{gpio.NumberingWiringPi, 2, 8, 2},
		{gpio.NumberingWiringPi, 2, 29, 21},
		{gpio.NumberingPhys, 2, 11, 17},
		{gpio.NumberingPhys, 2, 12, 18},
		{gpio.NumberingPhys, 1, 13, 21},
		{gpio.NumberingPhys, 2, 13, 27},
		{gpio.NumberingPhys, 2, 40, 21},
		{gpio.NumberingBCM, 2, 17, 17},
		{gpio.NumberingSys, 1, 4, 4},
	}

	for _, tt := range tests {
		got, err := gpio.ToBCM(tt.numbering, tt.revision, tt.pin)
		if err != nil {
			t.Errorf("ToBCM(%s, %d, %d): %v", tt.numbering, tt.revision, tt.pin, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ToBCM(%s, %d, %d) = %d, want %d", tt.numbering, tt.revision, tt.pin, got, tt.want)
		}
	}
}

func TestToBCMNoSuchPin(t *testing.T) {
	tests := []struct {
		numbering gpio.Numbering
		revision  int
		pin       int
	}{
		{gpio.NumberingPhys, 2, 1},  // 3.3v
		{gpio.NumberingPhys, 2, 6},  // ground
		{gpio.NumberingPhys, 1, 27}, // rev 1 boards have 26 pins
		{gpio.NumberingPhys, 2, 41},
		{gpio.NumberingWiringPi, 1, 17},
		{gpio.NumberingWiringPi, 2, 32},
		{gpio.NumberingWiringPi, 2, -1},
		{gpio.NumberingBCM, 2, 54},
	}

	for _, tt := range tests {
		if _, err := gpio.ToBCM(tt.numbering, tt.revision, tt.pin); !errors.Is(err, gpio.ErrNoSuchPin) {
			t.Errorf("ToBCM(%s, %d, %d): got %v, want ErrNoSuchPin", tt.numbering, tt.revision, tt.pin, err)
		}
	}
}

func TestBoardRevisionFromCode(t *testing.T) {
	tests := []struct {
		code uint32
		want int
	}{
		{0x0002, 1},
		{0x0003, 1},
		{0x1000002, 1}, // over-volted
		{0x0004, 2},
		{0x000f, 2},
		{0x0010, 2},
		{0xa02082, 2},
		{0xc03111, 2},
	}

	for _, tt := range tests {
		if got := gpio.BoardRevisionFromCode(tt.code); got != tt.want {
			t.Errorf("BoardRevisionFromCode(%#x) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestReadRevisionCode(t *testing.T) {
	cpuinfo := `processor	: 0
model name	: ARMv7 Processor rev 4 (v7l)
Hardware	: BCM2835
Revision	: a02082
Serial		: 00000000deadbeef
`
	code, err := gpio.ReadRevisionCode(strings.NewReader(cpuinfo))
	if err != nil {
		t.Fatalf("ReadRevisionCode: %v", err)
	}
	if code != 0xa02082 {
		t.Fatalf("ReadRevisionCode() = %#x, want 0xa02082", code)
	}

	if _, err := gpio.ReadRevisionCode(strings.NewReader("processor : 0\n")); err == nil {
		t.Fatalf("expected error without a revision line")
	}
	if _, err := gpio.ReadRevisionCode(strings.NewReader("Revision : zz\n")); err == nil {
		t.Fatalf("expected error for a malformed revision")
	}
}

func TestPinMap(t *testing.T) {
	m := gpio.PinMap{Numbering: gpio.NumberingWiringPi, Revision: 1}
	if bcm, err := m.BCM(2); err != nil || bcm != 21 {
		t.Fatalf("BCM(2) = %d, %v; want 21", bcm, err)
	}
}
