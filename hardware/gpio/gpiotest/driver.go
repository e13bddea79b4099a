// Package gpiotest provides a gpio.Driver that records calls instead of
// touching hardware.
package gpiotest

import (
	"fmt"
	"sync"

	"github.com/gloworm-vision/gloworm-gpio/hardware/gpio"
)

// Op names a driver call.
type Op string

const (
	OpSetup           Op = "setup"
	OpClose           Op = "close"
	OpPinMode         Op = "pinMode"
	OpDigitalRead     Op = "digitalRead"
	OpDigitalWrite    Op = "digitalWrite"
	OpAnalogRead      Op = "analogRead"
	OpAnalogWrite     Op = "analogWrite"
	OpPullUpDnControl Op = "pullUpDnControl"
	OpPWMWrite        Op = "pwmWrite"
	OpPWMSetMode      Op = "pwmSetMode"
	OpPWMSetRange     Op = "pwmSetRange"
	OpPWMSetClock     Op = "pwmSetClock"
	OpSoftPWMCreate   Op = "softPwmCreate"
	OpSoftPWMWrite    Op = "softPwmWrite"
	OpSoftPWMStop     Op = "softPwmStop"
	OpGPIOClockSet    Op = "gpioClockSet"
)

// NoPin is the Pin of calls that configure the whole board.
const NoPin = -1

// Call is one recorded driver call.
type Call struct {
	Op    Op
	Pin   int
	Value int
}

func (c Call) String() string {
	if c.Pin == NoPin {
		return fmt.Sprintf("%s(%d)", c.Op, c.Value)
	}
	return fmt.Sprintf("%s(%d, %d)", c.Op, c.Pin, c.Value)
}

// Driver is a recording gpio.Driver. The zero value is ready to use and
// behaves like a privileged board of revision 2.
type Driver struct {
	// SetupStatus is the status the native setup call returns. Negative
	// values fail Setup.
	SetupStatus int
	// Unprivileged makes Privileged report false.
	Unprivileged bool
	// Revision is returned by BoardRevision; 0 means 2.
	Revision int
	// RevisionErr, if set, is returned by BoardRevision.
	RevisionErr error
	// Err, if set, is returned by every pin call.
	Err error
	// Fail holds errors returned only by calls of one kind. It takes
	// precedence over Err.
	Fail map[Op]error

	mu      sync.Mutex
	calls   []Call
	levels  map[int]gpio.Level
	analog  map[int]uint16
	closed  bool
	elapsed uint64
	number  gpio.Numbering
}

var _ gpio.Driver = &Driver{}

func (d *Driver) record(op Op, pin, value int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls = append(d.calls, Call{Op: op, Pin: pin, Value: value})
	if err, ok := d.Fail[op]; ok {
		return err
	}
	return d.Err
}

// Calls returns the calls recorded so far.
func (d *Driver) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]Call(nil), d.calls...)
}

// CallsOf returns the recorded calls of one kind.
func (d *Driver) CallsOf(op Op) []Call {
	var calls []Call
	for _, c := range d.Calls() {
		if c.Op == op {
			calls = append(calls, c)
		}
	}
	return calls
}

// Reset forgets the recorded calls.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls = nil
}

// SetLevel sets the level DigitalRead returns for pin.
func (d *Driver) SetLevel(pin int, level gpio.Level) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.levels == nil {
		d.levels = make(map[int]gpio.Level)
	}
	d.levels[pin] = level
}

// Level returns the last level written to or set for pin.
func (d *Driver) Level(pin int) gpio.Level {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.levels[pin]
}

// SetAnalog sets the sample AnalogRead returns for pin.
func (d *Driver) SetAnalog(pin int, value uint16) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.analog == nil {
		d.analog = make(map[int]uint16)
	}
	d.analog[pin] = value
}

// Advance moves the millisecond and microsecond counters forward.
func (d *Driver) Advance(micros uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.elapsed += uint64(micros)
}

// Closed reports whether Close has been called.
func (d *Driver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.closed
}

// Numbering returns the numbering passed to Setup.
func (d *Driver) Numbering() gpio.Numbering {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.number
}

func (d *Driver) Setup(numbering gpio.Numbering) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls = append(d.calls, Call{Op: OpSetup, Pin: NoPin, Value: int(numbering)})
	if d.SetupStatus < 0 {
		return fmt.Errorf("setup returned status %d", d.SetupStatus)
	}
	d.number = numbering
	d.closed = false

	return nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls = append(d.calls, Call{Op: OpClose, Pin: NoPin})
	d.closed = true

	return nil
}

func (d *Driver) PinMode(pin int, mode gpio.Mode) error {
	return d.record(OpPinMode, pin, int(mode))
}

func (d *Driver) DigitalRead(pin int) (gpio.Level, error) {
	if err := d.record(OpDigitalRead, pin, 0); err != nil {
		return gpio.Low, err
	}
	return d.Level(pin), nil
}

func (d *Driver) DigitalWrite(pin int, level gpio.Level) error {
	value := 0
	if level {
		value = 1
	}
	if err := d.record(OpDigitalWrite, pin, value); err != nil {
		return err
	}
	d.SetLevel(pin, level)

	return nil
}

func (d *Driver) AnalogRead(pin int) (uint16, error) {
	if err := d.record(OpAnalogRead, pin, 0); err != nil {
		return 0, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.analog[pin], nil
}

func (d *Driver) AnalogWrite(pin int, value uint16) error {
	if err := d.record(OpAnalogWrite, pin, int(value)); err != nil {
		return err
	}
	d.SetAnalog(pin, value)

	return nil
}

func (d *Driver) PullUpDnControl(pin int, pull gpio.Pull) error {
	return d.record(OpPullUpDnControl, pin, int(pull))
}

func (d *Driver) PWMWrite(pin int, value uint16) error {
	return d.record(OpPWMWrite, pin, int(value))
}

func (d *Driver) PWMSetMode(mode gpio.PWMMode) error {
	return d.record(OpPWMSetMode, NoPin, int(mode))
}

func (d *Driver) PWMSetRange(value uint32) error {
	return d.record(OpPWMSetRange, NoPin, int(value))
}

func (d *Driver) PWMSetClock(divisor uint16) error {
	return d.record(OpPWMSetClock, NoPin, int(divisor))
}

// SoftPWMCreate records the range as the call's value.
func (d *Driver) SoftPWMCreate(pin, initial, pwmRange int) error {
	return d.record(OpSoftPWMCreate, pin, pwmRange)
}

func (d *Driver) SoftPWMWrite(pin, value int) error {
	return d.record(OpSoftPWMWrite, pin, value)
}

func (d *Driver) SoftPWMStop(pin int) error {
	return d.record(OpSoftPWMStop, pin, 0)
}

func (d *Driver) GPIOClockSet(pin, freq int) error {
	return d.record(OpGPIOClockSet, pin, freq)
}

func (d *Driver) Millis() (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return uint32(d.elapsed / 1000), nil
}

func (d *Driver) Micros() (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return uint32(d.elapsed), nil
}

func (d *Driver) BoardRevision() (int, error) {
	if d.RevisionErr != nil {
		return 0, d.RevisionErr
	}
	if d.Revision == 0 {
		return 2, nil
	}
	return d.Revision, nil
}

func (d *Driver) Privileged() bool { return !d.Unprivileged }
