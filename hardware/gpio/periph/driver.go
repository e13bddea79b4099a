// Package periph drives GPIO through periph.io, which uses the Broadcom
// registers when it can and falls back to /sys/class/gpio otherwise.
package periph

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gloworm-vision/gloworm-gpio/hardware/gpio"
	periphgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// Driver is a gpio.Driver on top of periph.io.
type Driver struct {
	mu       sync.Mutex
	pins     gpio.PinMap
	revErr   error
	started  time.Time
	resolved map[int]periphgpio.PinIO
	pwmRange uint32
	divisor  uint16
	pwmDuty  map[int]uint16

	soft gpio.SoftPWMBank
}

var _ gpio.Driver = &Driver{}

// New returns a driver. periph.io is initialized by Setup.
func New() *Driver {
	return &Driver{}
}

func (d *Driver) Setup(numbering gpio.Numbering) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph host init: %w", err)
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
	d.resolved = make(map[int]periphgpio.PinIO)
	d.pwmRange = gpio.DefaultPWMRange
	d.divisor = gpio.DefaultPWMClock
	d.pwmDuty = make(map[int]uint16)

	return nil
}

// Close stops software PWM and halts every pin that was used.
func (d *Driver) Close() error {
	err := d.soft.StopAll()

	d.mu.Lock()
	defer d.mu.Unlock()

	for bcm, p := range d.resolved {
		if haltErr := p.Halt(); haltErr != nil && err == nil {
			err = fmt.Errorf("unable to halt gpio %d: %w", bcm, haltErr)
		}
	}
	d.resolved = nil

	return err
}

// resolve looks up a pin by number, caching the result.
func (d *Driver) resolve(n int) (periphgpio.PinIO, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.resolveLocked(n)
}

func (d *Driver) resolveLocked(n int) (periphgpio.PinIO, error) {
	bcm, err := d.pins.BCM(n)
	if err != nil {
		return nil, err
	}

	if p, ok := d.resolved[bcm]; ok {
		return p, nil
	}

	name := fmt.Sprintf("GPIO%d", bcm)
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("pin %d (%s): %w", n, name, gpio.ErrNoSuchPin)
	}
	d.resolved[bcm] = p

	return p, nil
}

func (d *Driver) PinMode(n int, mode gpio.Mode) error {
	p, err := d.resolve(n)
	if err != nil {
		return err
	}

	d.mu.Lock()
	delete(d.pwmDuty, n)
	d.mu.Unlock()

	switch mode {
	case gpio.ModeInput:
		return p.In(periphgpio.PullNoChange, periphgpio.NoEdge)
	case gpio.ModeOutput, gpio.ModeSoftPWMOutput:
		return p.Out(periphgpio.Low)
	case gpio.ModePWMOutput, gpio.ModeGPIOClock:
		// periph selects the alternate function when the waveform starts.
		return nil
	}

	return fmt.Errorf("unknown pin mode %d", mode)
}

func (d *Driver) DigitalRead(n int) (gpio.Level, error) {
	p, err := d.resolve(n)
	if err != nil {
		return gpio.Low, err
	}
	return p.Read() == periphgpio.High, nil
}

func (d *Driver) DigitalWrite(n int, level gpio.Level) error {
	p, err := d.resolve(n)
	if err != nil {
		return err
	}
	return p.Out(periphgpio.Level(level))
}

func (d *Driver) AnalogRead(n int) (uint16, error) { return 0, gpio.ErrUnsupported }

func (d *Driver) AnalogWrite(n int, value uint16) error { return gpio.ErrUnsupported }

func (d *Driver) PullUpDnControl(n int, pull gpio.Pull) error {
	p, err := d.resolve(n)
	if err != nil {
		return err
	}

	var periphPull periphgpio.Pull
	switch pull {
	case gpio.PullOff:
		periphPull = periphgpio.Float
	case gpio.PullDown:
		periphPull = periphgpio.PullDown
	case gpio.PullUp:
		periphPull = periphgpio.PullUp
	default:
		return fmt.Errorf("unknown pull %d", pull)
	}

	return p.In(periphPull, periphgpio.NoEdge)
}

func (d *Driver) PWMWrite(n int, value uint16) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, err := d.resolveLocked(n)
	if err != nil {
		return err
	}
	d.pwmDuty[n] = value

	return d.pwmLocked(p, value)
}

func (d *Driver) pwmLocked(p periphgpio.PinIO, value uint16) error {
	duty := periphgpio.Duty(uint64(value) * uint64(periphgpio.DutyMax) / uint64(d.pwmRange))
	if duty > periphgpio.DutyMax {
		duty = periphgpio.DutyMax
	}
	frequency := physic.Frequency(gpio.PWMFrequency(d.divisor, d.pwmRange) * float64(physic.Hertz))

	return p.PWM(duty, frequency)
}

func (d *Driver) refreshLocked() error {
	for n, value := range d.pwmDuty {
		p, err := d.resolveLocked(n)
		if err != nil {
			return err
		}
		if err := d.pwmLocked(p, value); err != nil {
			return fmt.Errorf("unable to update pwm on pin %d: %w", n, err)
		}
	}
	return nil
}

// PWMSetMode is accepted, but periph always generates mark:space waveforms.
func (d *Driver) PWMSetMode(mode gpio.PWMMode) error { return nil }

func (d *Driver) PWMSetRange(value uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pwmRange = value
	return d.refreshLocked()
}

func (d *Driver) PWMSetClock(divisor uint16) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.divisor = divisor
	return d.refreshLocked()
}

func (d *Driver) SoftPWMCreate(n, initial, pwmRange int) error {
	p, err := d.resolve(n)
	if err != nil {
		return err
	}
	if err := p.Out(periphgpio.Low); err != nil {
		return err
	}

	return d.soft.Create(n, func(level gpio.Level) error {
		return p.Out(periphgpio.Level(level))
	}, initial, pwmRange)
}

func (d *Driver) SoftPWMWrite(n, value int) error { return d.soft.Write(n, value) }

func (d *Driver) SoftPWMStop(n int) error { return d.soft.Stop(n) }

// GPIOClockSet runs the clock behind the pin with a 50% duty.
func (d *Driver) GPIOClockSet(n, freq int) error {
	p, err := d.resolve(n)
	if err != nil {
		return err
	}
	return p.PWM(periphgpio.DutyHalf, physic.Frequency(freq)*physic.Hertz)
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

// Privileged reports whether the process runs as root. Without it periph
// falls back to sysfs, where pulls and waveforms are unavailable.
func (d *Driver) Privileged() bool { return os.Geteuid() == 0 }
