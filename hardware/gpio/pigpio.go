package gpio

import (
	"encoding/binary"
	"fmt"
	"math"
	"net"
	"sync"
	"time"
)

// Pigpio is used for controlling GPIO over the pigpio socket interface
type Pigpio struct {
	conn net.Conn

	mu        sync.Mutex
	pins      PinMap
	started   time.Time
	startTick uint32

	pwmRange uint32
	divisor  uint16
	pwmDuty  map[uint32]uint16
}

// compile-time check for whether Pigpio satisfies the Driver interface
var _ Driver = &Pigpio{}

// DialPigpio dials into the pigpio socket interface (normally running on port 8888)
func DialPigpio(addr string) (*Pigpio, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("couldn't dial into pigpio socket: %w", err)
	}

	return &Pigpio{conn: conn}, nil
}

// Close closes the underlying pigpio socket interface connection
func (p *Pigpio) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return fmt.Errorf("connection is already closed")
	}

	err := p.conn.Close()
	p.conn = nil

	return err
}

const (
	cmdModes uint32 = 0
	cmdPud   uint32 = 2
	cmdRead  uint32 = 3
	cmdWrite uint32 = 4
	cmdPwm   uint32 = 5
	cmdPrs   uint32 = 6
	cmdPfs   uint32 = 7
	cmdTick  uint32 = 16
	cmdHwver uint32 = 17
	cmdHc    uint32 = 85
	cmdHp    uint32 = 86
)

// pigpio pin modes
const (
	pigpioInput  uint32 = 0
	pigpioOutput uint32 = 1
	pigpioAlt0   uint32 = 4
	pigpioAlt5   uint32 = 2
)

type cmd struct {
	Cmd uint32
	P1  uint32
	P2  uint32
	P3  uint32
}

// PigpioError is a negative status returned by the pigpio daemon.
type PigpioError struct {
	Cmd    uint32
	Status int32
}

func (e PigpioError) Error() string {
	return fmt.Sprintf("pigpio command %d failed with status %d", e.Cmd, e.Status)
}

// command sends a request and returns the result field of the response. ext
// is sent after the request as the command's extension.
func (p *Pigpio) command(c, p1, p2 uint32, ext ...uint32) (int32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.commandLocked(c, p1, p2, ext...)
}

func (p *Pigpio) commandLocked(c, p1, p2 uint32, ext ...uint32) (int32, error) {
	if p.conn == nil {
		return 0, fmt.Errorf("not connected to pigpio socket interface")
	}

	request := cmd{
		Cmd: c,
		P1:  p1,
		P2:  p2,
		P3:  uint32(4 * len(ext)),
	}

	if err := binary.Write(p.conn, binary.LittleEndian, request); err != nil {
		return 0, fmt.Errorf("unable to write request to socket: %w", err)
	}
	if len(ext) > 0 {
		if err := binary.Write(p.conn, binary.LittleEndian, ext); err != nil {
			return 0, fmt.Errorf("unable to write request extension to socket: %w", err)
		}
	}

	var response cmd
	if err := binary.Read(p.conn, binary.LittleEndian, &response); err != nil {
		return 0, fmt.Errorf("unable to read response from socket: %w", err)
	}

	status := int32(response.P3)
	// TICK and HWVER return unsigned values in the status field
	if status < 0 && c != cmdTick && c != cmdHwver {
		return status, PigpioError{Cmd: c, Status: status}
	}

	return status, nil
}

// Setup records the numbering used by the caller and reads the board
// revision from the daemon.
func (p *Pigpio) Setup(numbering Numbering) error {
	code, err := p.command(cmdHwver, 0, 0)
	if err != nil {
		return fmt.Errorf("unable to read hardware revision: %w", err)
	}
	tick, err := p.command(cmdTick, 0, 0)
	if err != nil {
		return fmt.Errorf("unable to read tick: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.pins = PinMap{Numbering: numbering, Revision: BoardRevisionFromCode(uint32(code))}
	p.started = time.Now()
	p.startTick = uint32(tick)
	p.pwmRange = DefaultPWMRange
	p.divisor = DefaultPWMClock
	p.pwmDuty = make(map[uint32]uint16)

	return nil
}

func (p *Pigpio) bcm(pin int) (uint32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n, err := p.pins.BCM(pin)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

// PinMode sets the mode of a GPIO. PWM and clock modes select the alternate
// function that routes the generator to the pin.
func (p *Pigpio) PinMode(pin int, mode Mode) error {
	gpio, err := p.bcm(pin)
	if err != nil {
		return err
	}

	var raw uint32
	switch mode {
	case ModeInput:
		raw = pigpioInput
	case ModeOutput, ModeSoftPWMOutput:
		raw = pigpioOutput
	case ModePWMOutput:
		switch gpio {
		case 12, 13:
			raw = pigpioAlt0
		case 18, 19:
			raw = pigpioAlt5
		default:
			return fmt.Errorf("gpio %d has no pwm function: %w", gpio, ErrUnsupported)
		}
	case ModeGPIOClock:
		switch gpio {
		case 4, 5, 6:
			raw = pigpioAlt0
		default:
			return fmt.Errorf("gpio %d has no clock function: %w", gpio, ErrUnsupported)
		}
	default:
		return fmt.Errorf("unknown pin mode %d", mode)
	}

	if _, err := p.command(cmdModes, gpio, raw); err != nil {
		return err
	}

	if mode != ModePWMOutput {
		p.mu.Lock()
		delete(p.pwmDuty, gpio)
		p.mu.Unlock()
	}

	return nil
}

// DigitalRead reads the level of a GPIO.
func (p *Pigpio) DigitalRead(pin int) (Level, error) {
	gpio, err := p.bcm(pin)
	if err != nil {
		return Low, err
	}

	status, err := p.command(cmdRead, gpio, 0)
	if err != nil {
		return Low, err
	}

	return status != 0, nil
}

// DigitalWrite sets a GPIO to LOW or HIGH.
func (p *Pigpio) DigitalWrite(pin int, level Level) error {
	gpio, err := p.bcm(pin)
	if err != nil {
		return err
	}

	var rawLevel uint32
	if level {
		rawLevel = 1
	}

	_, err = p.command(cmdWrite, gpio, rawLevel)
	return err
}

func (p *Pigpio) AnalogRead(pin int) (uint16, error) { return 0, ErrUnsupported }

func (p *Pigpio) AnalogWrite(pin int, value uint16) error { return ErrUnsupported }

// PullUpDnControl sets the pull resistor of a GPIO.
func (p *Pigpio) PullUpDnControl(pin int, pull Pull) error {
	gpio, err := p.bcm(pin)
	if err != nil {
		return err
	}

	_, err = p.command(cmdPud, gpio, uint32(pull))
	return err
}

// PWMWrite sets the duty of a hardware PWM pin, relative to the generator
// range.
func (p *Pigpio) PWMWrite(pin int, value uint16) error {
	gpio, err := p.bcm(pin)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.setUpLocked(); err != nil {
		return err
	}
	p.pwmDuty[gpio] = value
	return p.hpLocked(gpio, value)
}

// PWMSetMode is accepted, but pigpio always runs the generator in
// mark:space mode.
func (p *Pigpio) PWMSetMode(mode PWMMode) error { return nil }

// PWMSetRange changes the generator range and reapplies every pin's duty.
func (p *Pigpio) PWMSetRange(value uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.setUpLocked(); err != nil {
		return err
	}
	if value == 0 {
		return fmt.Errorf("pwm range must be positive")
	}
	p.pwmRange = value
	return p.refreshLocked()
}

// PWMSetClock changes the generator clock divisor and reapplies every pin's
// duty.
func (p *Pigpio) PWMSetClock(divisor uint16) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.setUpLocked(); err != nil {
		return err
	}
	if divisor == 0 {
		return fmt.Errorf("pwm clock divisor must be positive")
	}
	p.divisor = divisor
	return p.refreshLocked()
}

// setUpLocked fails until Setup has initialized the generator state.
func (p *Pigpio) setUpLocked() error {
	if p.pwmDuty == nil {
		return fmt.Errorf("pigpio has not been set up")
	}
	return nil
}

func (p *Pigpio) refreshLocked() error {
	for gpio, value := range p.pwmDuty {
		if err := p.hpLocked(gpio, value); err != nil {
			return fmt.Errorf("unable to update pwm on gpio %d: %w", gpio, err)
		}
	}
	return nil
}

// hpLocked sets frequency (1-125,000,000) and duty cycle (0-1000000) for
// hardware PWM on the specified pin.
func (p *Pigpio) hpLocked(gpio uint32, value uint16) error {
	frequency := uint32(math.Round(PWMFrequency(p.divisor, p.pwmRange)))
	if frequency == 0 {
		frequency = 1
	}

	duty := uint64(value) * 1000000 / uint64(p.pwmRange)
	if duty > 1000000 {
		duty = 1000000
	}

	_, err := p.commandLocked(cmdHp, gpio, frequency, uint32(duty))
	return err
}

// SoftPWMCreate starts pigpio's timed PWM on a GPIO with a 100Hz base
// frequency.
func (p *Pigpio) SoftPWMCreate(pin, initial, pwmRange int) error {
	gpio, err := p.bcm(pin)
	if err != nil {
		return err
	}

	if _, err := p.command(cmdModes, gpio, pigpioOutput); err != nil {
		return err
	}
	if _, err := p.command(cmdPrs, gpio, uint32(pwmRange)); err != nil {
		return fmt.Errorf("unable to set pwm range: %w", err)
	}
	if _, err := p.command(cmdPfs, gpio, 100); err != nil {
		return fmt.Errorf("unable to set pwm frequency: %w", err)
	}

	_, err = p.command(cmdPwm, gpio, uint32(initial))
	return err
}

// SoftPWMWrite sets the duty of a software PWM pin.
func (p *Pigpio) SoftPWMWrite(pin, value int) error {
	gpio, err := p.bcm(pin)
	if err != nil {
		return err
	}

	_, err = p.command(cmdPwm, gpio, uint32(value))
	return err
}

// SoftPWMStop stops the PWM on a GPIO and leaves it LOW.
func (p *Pigpio) SoftPWMStop(pin int) error {
	gpio, err := p.bcm(pin)
	if err != nil {
		return err
	}

	if _, err := p.command(cmdPwm, gpio, 0); err != nil {
		return err
	}

	_, err = p.command(cmdWrite, gpio, 0)
	return err
}

// GPIOClockSet starts the general purpose clock routed to a GPIO.
func (p *Pigpio) GPIOClockSet(pin, freq int) error {
	gpio, err := p.bcm(pin)
	if err != nil {
		return err
	}

	_, err = p.command(cmdHc, gpio, uint32(freq))
	return err
}

// Millis returns the milliseconds since Setup.
func (p *Pigpio) Millis() (uint32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return uint32(time.Since(p.started) / time.Millisecond), nil
}

// Micros returns the microseconds since Setup, from the daemon's tick.
func (p *Pigpio) Micros() (uint32, error) {
	tick, err := p.command(cmdTick, 0, 0)
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return uint32(tick) - p.startTick, nil
}

// BoardRevision returns the revision read during Setup.
func (p *Pigpio) BoardRevision() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.pins.Revision, nil
}

// Privileged is always true: the pigpio daemon runs as root.
func (p *Pigpio) Privileged() bool { return true }
