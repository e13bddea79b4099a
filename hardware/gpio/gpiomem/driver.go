// Package gpiomem drives the GPIO registers directly through /dev/gpiomem
// or /dev/mem with go-rpio.
package gpiomem

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gloworm-vision/gloworm-gpio/hardware/gpio"
	"github.com/stianeikeland/go-rpio/v4"
)

// pwmBaseClock is the oscillator the PWM clock divisor applies to.
const pwmBaseClock = 19200000

// Driver is a gpio.Driver on top of the memory mapped GPIO registers.
//
// /dev/gpiomem gives access to the GPIO registers without root. The PWM and
// clock registers are only mapped through /dev/mem, which needs root.
type Driver struct {
	mu       sync.Mutex
	pins     gpio.PinMap
	revErr   error
	started  time.Time
	pwmRange uint32
	divisor  uint16
	pwmDuty  map[int]uint16

	soft gpio.SoftPWMBank
}

var _ gpio.Driver = &Driver{}

// New returns a driver. The registers are mapped by Setup.
func New() *Driver {
	return &Driver{}
}

func (d *Driver) Setup(numbering gpio.Numbering) error {
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("unable to map gpio registers: %w", err)
	}

	// An unknown board is mapped as revision 2; BoardRevision reports why.
	revision, revErr := gpio.ReadBoardRevision()
	if revErr != nil {
		revision = 2
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.pins = gpio.PinMap{Numbering: numbering, Revision: revision}
	d.revErr = revErr
	d.started = time.Now()
	d.pwmRange = gpio.DefaultPWMRange
	d.divisor = gpio.DefaultPWMClock
	d.pwmDuty = make(map[int]uint16)

	return nil
}

func (d *Driver) Close() error {
	stopErr := d.soft.StopAll()

	if err := rpio.Close(); err != nil {
		return fmt.Errorf("unable to unmap gpio registers: %w", err)
	}

	return stopErr
}

func (d *Driver) pin(n int) (rpio.Pin, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	bcm, err := d.pins.BCM(n)
	if err != nil {
		return 0, err
	}
	return rpio.Pin(bcm), nil
}

func (d *Driver) PinMode(n int, mode gpio.Mode) error {
	pin, err := d.pin(n)
	if err != nil {
		return err
	}

	switch mode {
	case gpio.ModeInput:
		pin.Input()
	case gpio.ModeOutput, gpio.ModeSoftPWMOutput:
		pin.Output()
	case gpio.ModePWMOutput:
		pin.Pwm()
	case gpio.ModeGPIOClock:
		pin.Clock()
	default:
		return fmt.Errorf("unknown pin mode %d", mode)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if mode == gpio.ModePWMOutput {
		rpio.SetFreq(pin, pwmBaseClock/int(d.divisor))
	} else {
		delete(d.pwmDuty, int(pin))
	}

	return nil
}

func (d *Driver) DigitalRead(n int) (gpio.Level, error) {
	pin, err := d.pin(n)
	if err != nil {
		return gpio.Low, err
	}
	return pin.Read() == rpio.High, nil
}

func (d *Driver) DigitalWrite(n int, level gpio.Level) error {
	pin, err := d.pin(n)
	if err != nil {
		return err
	}

	if level {
		pin.Write(rpio.High)
	} else {
		pin.Write(rpio.Low)
	}

	return nil
}

func (d *Driver) AnalogRead(n int) (uint16, error) { return 0, gpio.ErrUnsupported }

func (d *Driver) AnalogWrite(n int, value uint16) error { return gpio.ErrUnsupported }

func (d *Driver) PullUpDnControl(n int, pull gpio.Pull) error {
	pin, err := d.pin(n)
	if err != nil {
		return err
	}

	switch pull {
	case gpio.PullOff:
		pin.PullOff()
	case gpio.PullDown:
		pin.PullDown()
	case gpio.PullUp:
		pin.PullUp()
	default:
		return fmt.Errorf("unknown pull %d", pull)
	}

	return nil
}

func (d *Driver) PWMWrite(n int, value uint16) error {
	pin, err := d.pin(n)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.pwmDuty[int(pin)] = value
	rpio.SetDutyCycle(pin, uint32(value), d.pwmRange)

	return nil
}

// PWMSetMode is accepted, but go-rpio always runs the generator in
// mark:space mode.
func (d *Driver) PWMSetMode(mode gpio.PWMMode) error { return nil }

func (d *Driver) PWMSetRange(value uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pwmRange = value
	for pin, duty := range d.pwmDuty {
		rpio.SetDutyCycle(rpio.Pin(pin), uint32(duty), value)
	}

	return nil
}

func (d *Driver) PWMSetClock(divisor uint16) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.divisor = divisor
	// The clock is shared, setting it through any PWM pin is enough.
	for pin := range d.pwmDuty {
		rpio.SetFreq(rpio.Pin(pin), pwmBaseClock/int(divisor))
		break
	}

	return nil
}

func (d *Driver) SoftPWMCreate(n, initial, pwmRange int) error {
	pin, err := d.pin(n)
	if err != nil {
		return err
	}
	pin.Output()

	return d.soft.Create(n, func(level gpio.Level) error {
		if level {
			pin.High()
		} else {
			pin.Low()
		}
		return nil
	}, initial, pwmRange)
}

func (d *Driver) SoftPWMWrite(n, value int) error { return d.soft.Write(n, value) }

func (d *Driver) SoftPWMStop(n int) error { return d.soft.Stop(n) }

func (d *Driver) GPIOClockSet(n, freq int) error {
	pin, err := d.pin(n)
	if err != nil {
		return err
	}
	pin.Freq(freq)

	return nil
}

func (d *Driver) Millis() (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return uint32(time.Since(d.started) / time.Millisecond), nil
}

func (d *Driver) Micros() (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return uint32(time.Since(d.started) / time.Microsecond), nil
}

// BoardRevision returns the revision read at Setup, or the error that
// prevented reading it.
func (d *Driver) BoardRevision() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.revErr != nil {
		return 0, fmt.Errorf("unable to read board revision: %w", d.revErr)
	}
	return d.pins.Revision, nil
}

// Privileged reports whether the process runs as root, which the PWM, clock
// and pull registers need.
func (d *Driver) Privileged() bool { return os.Geteuid() == 0 }
