package gpio

import "fmt"

// Numbering identifies a pin numbering scheme at runtime.
type Numbering int

const (
	// NumberingWiringPi is the simplified wiringPi numbering: virtual pins 0
	// through 16 (and 17-31 on later boards) mapped onto Broadcom GPIOs.
	NumberingWiringPi Numbering = iota
	// NumberingBCM uses the Broadcom GPIO numbers directly.
	NumberingBCM
	// NumberingPhys uses the physical pin positions on the P1 connector.
	NumberingPhys
	// NumberingSys uses Broadcom numbers through pins exported in
	// /sys/class/gpio. It does not need root, and the privileged operations
	// have no effect.
	NumberingSys
)

func (n Numbering) String() string {
	switch n {
	case NumberingWiringPi:
		return "wiringpi"
	case NumberingBCM:
		return "bcm"
	case NumberingPhys:
		return "phys"
	case NumberingSys:
		return "sys"
	}
	return fmt.Sprintf("numbering(%d)", int(n))
}

// ParseNumbering is the inverse of Numbering.String.
func ParseNumbering(s string) (Numbering, error) {
	for _, n := range []Numbering{NumberingWiringPi, NumberingBCM, NumberingPhys, NumberingSys} {
		if n.String() == s {
			return n, nil
		}
	}
	return 0, fmt.Errorf("unknown numbering %q", s)
}

// Scheme is a compile-time tag for a numbering scheme. Controllers and pin
// handles are parameterized by a Scheme so that pins from different schemes
// can never be mixed.
type Scheme interface {
	Numbering() Numbering
}

// Privileged is implemented by schemes that drive the hardware directly and
// therefore expose the root-only controls: pull resistors and software PWM.
type Privileged interface {
	Scheme
	privileged()
}

type (
	// WiringPi is the wiringPi numbering scheme.
	WiringPi struct{}
	// BCM is the Broadcom GPIO numbering scheme.
	BCM struct{}
	// Phys is the physical connector numbering scheme.
	Phys struct{}
	// Sys is the sysfs numbering scheme.
	Sys struct{}
)

func (WiringPi) Numbering() Numbering { return NumberingWiringPi }
func (BCM) Numbering() Numbering      { return NumberingBCM }
func (Phys) Numbering() Numbering     { return NumberingPhys }
func (Sys) Numbering() Numbering      { return NumberingSys }

func (WiringPi) privileged() {}
func (BCM) privileged()      {}
func (Phys) privileged()     {}

var (
	_ Privileged = WiringPi{}
	_ Privileged = BCM{}
	_ Privileged = Phys{}
	_ Scheme     = Sys{}
)

// Pin identifies a pin under scheme S.
type Pin[S Scheme] interface {
	Number() int
	scheme() S
}

// HardwarePWM is satisfied only by pins wired to the PWM generator.
type HardwarePWM[S Scheme] interface {
	Pin[S]
	hardwarePWM()
}

// GPIOClock is satisfied only by pins wired to a general purpose clock.
type GPIOClock[S Scheme] interface {
	Pin[S]
	gpioClock()
}

// Number is a plain pin number under scheme S. It carries no capabilities.
type Number[S Scheme] int

func (n Number[S]) Number() int { return int(n) }

func (Number[S]) scheme() (s S) { return s }

func (n Number[S]) String() string {
	var s S
	return fmt.Sprintf("%s:%d", s.Numbering(), int(n))
}
