package gpio

// Level describes the binary state of a GPIO pin: either LOW or HIGH.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// Mode is the hardware mode code passed to Driver.PinMode.
type Mode int

const (
	ModeInput Mode = iota
	ModeOutput
	ModePWMOutput
	ModeGPIOClock
	ModeSoftPWMOutput
)

func (m Mode) String() string {
	switch m {
	case ModeInput:
		return "input"
	case ModeOutput:
		return "output"
	case ModePWMOutput:
		return "pwm"
	case ModeGPIOClock:
		return "clock"
	case ModeSoftPWMOutput:
		return "softpwm"
	}
	return "unknown"
}

// Pull selects the internal pull resistor of an input pin.
type Pull int

const (
	PullOff Pull = iota
	PullDown
	PullUp
)

// PWMMode is the waveform mode of the hardware PWM generator. The default
// mode on the Pi is Balanced.
type PWMMode int

const (
	MarkSpace PWMMode = iota
	Balanced
)

const (
	// DefaultPWMRange is the range register value after initialization.
	DefaultPWMRange = 1024
	// DefaultPWMClock is the clock divisor after initialization.
	DefaultPWMClock = 32

	// SoftPWMRange is the fixed resolution of software PWM. With a 100µs
	// step this gives a 100Hz base frequency.
	SoftPWMRange = 100
)

// Driver is the raw, stateless hardware interface a Controller dispatches to.
//
// Pin numbers are given in the numbering passed to Setup. Drivers that talk
// Broadcom numbers natively translate with ToBCM.
//
// Operations that need elevated privileges (pull resistors, software PWM,
// hardware PWM and clock registers) are no-ops on most hardware when the
// process is not privileged. Privileged reports whether they will take
// effect.
type Driver interface {
	Setup(numbering Numbering) error
	Close() error

	PinMode(pin int, mode Mode) error
	DigitalRead(pin int) (Level, error)
	DigitalWrite(pin int, level Level) error
	AnalogRead(pin int) (uint16, error)
	AnalogWrite(pin int, value uint16) error
	PullUpDnControl(pin int, pull Pull) error

	PWMWrite(pin int, value uint16) error
	PWMSetMode(mode PWMMode) error
	PWMSetRange(value uint32) error
	PWMSetClock(divisor uint16) error

	SoftPWMCreate(pin, initial, pwmRange int) error
	SoftPWMWrite(pin, value int) error
	SoftPWMStop(pin int) error

	GPIOClockSet(pin, freq int) error

	Millis() (uint32, error)
	Micros() (uint32, error)
	BoardRevision() (int, error)
	Privileged() bool
}
