package gpio

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// initialized guards the driver: the hardware is set up at most once per
// process until the owning controller is closed.
var initialized atomic.Bool

// Controller is the entry point for a numbering scheme. It initializes the
// driver and mints pin handles.
//
// A Controller and its handles are not safe for concurrent use. The PWM
// generator is shared by every PWM pin, so serialize all access to the
// controller with a single lock if it is shared between goroutines.
type Controller[S Scheme] struct {
	scheme S
	driver Driver
	logger logrus.FieldLogger

	revision int
	pwm      *PWMGenerator

	mu      sync.Mutex
	claimed map[int]bool
	closed  bool
}

// NewController initializes driver for scheme. It fails with
// ErrInitialization if the driver reports a failure or if another
// controller is still open in this process.
func NewController[S Scheme](scheme S, driver Driver, logger logrus.FieldLogger) (*Controller[S], error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	numbering := scheme.Numbering()

	if !initialized.CompareAndSwap(false, true) {
		return nil, ErrInitialization{fmt.Errorf("unable to set up %s numbering: %w", numbering, ErrAlreadyInitialized)}
	}

	if err := driver.Setup(numbering); err != nil {
		initialized.Store(false)
		return nil, ErrInitialization{fmt.Errorf("unable to set up %s numbering: %w", numbering, err)}
	}

	revision, err := driver.BoardRevision()
	if err != nil {
		logger.Warnf("unable to read board revision, assuming 2: %s", err)
		revision = 2
	}

	c := &Controller[S]{
		scheme:   scheme,
		driver:   driver,
		logger:   logger.WithField("numbering", numbering.String()),
		revision: revision,
		pwm: &PWMGenerator{
			driver:   driver,
			pwmRange: DefaultPWMRange,
			divisor:  DefaultPWMClock,
			mode:     Balanced,
		},
		claimed: make(map[int]bool),
	}

	c.logger.WithField("revision", revision).Info("gpio initialized")
	if !driver.Privileged() {
		c.logger.Warn("not running with elevated privileges: pull resistors and software pwm are unavailable")
	}

	return c, nil
}

// Close closes the driver and allows a new controller to be created.
// Handles minted by this controller must not be used afterwards.
func (c *Controller[S]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}
	c.closed = true
	initialized.Store(false)

	if err := c.driver.Close(); err != nil {
		return fmt.Errorf("unable to close driver: %w", err)
	}

	return nil
}

// Numbering returns the numbering scheme of the controller.
func (c *Controller[S]) Numbering() Numbering { return c.scheme.Numbering() }

// Pin returns the plain pin with number n.
func (c *Controller[S]) Pin(n int) Number[S] { return Number[S](n) }

// Input configures pin n as an input.
func (c *Controller[S]) Input(n int) (*InputPin[S, Number[S]], error) {
	return NewInput(c, Number[S](n))
}

// Output configures pin n as an output.
func (c *Controller[S]) Output(n int) (*OutputPin[S, Number[S]], error) {
	return NewOutput(c, Number[S](n))
}

// PWMGenerator returns the PWM generator shared by all hardware PWM pins.
func (c *Controller[S]) PWMGenerator() *PWMGenerator { return c.pwm }

// Privileged reports whether privileged operations take effect.
func (c *Controller[S]) Privileged() bool { return c.driver.Privileged() }

// Millis returns the milliseconds since initialization. It wraps after
// about 49 days.
func (c *Controller[S]) Millis() (uint32, error) { return c.driver.Millis() }

// Micros returns the microseconds since initialization. It wraps after
// about 71 minutes.
func (c *Controller[S]) Micros() (uint32, error) { return c.driver.Micros() }

// BoardRevision returns the board revision, 1 or 2. Some Broadcom GPIO
// numbers changed between the two.
func (c *Controller[S]) BoardRevision() int { return c.revision }

// ToBCM returns the Broadcom GPIO number of pin n on this board.
func (c *Controller[S]) ToBCM(n int) (int, error) {
	return ToBCM(c.scheme.Numbering(), c.revision, n)
}

func (c *Controller[S]) claim(n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}
	if c.claimed[n] {
		return ErrDoubleAllocation{fmt.Errorf("%s pin %d is already in use", c.scheme.Numbering(), n)}
	}
	c.claimed[n] = true

	return nil
}

// usable fails once the controller is closed: its driver is gone and its
// pins may belong to a newer controller.
func (c *Controller[S]) usable() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}
	return nil
}

func (c *Controller[S]) release(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.claimed, n)
}

// mint claims pin and runs the mode-set call for a new handle. The claim is
// dropped again if the call fails.
func mint[S Scheme, P Pin[S]](c *Controller[S], pin P, mode Mode, set func(n int) error) (handle[S, P], error) {
	n := pin.Number()
	if err := c.claim(n); err != nil {
		return handle[S, P]{}, err
	}

	if err := set(n); err != nil {
		c.release(n)
		return handle[S, P]{}, fmt.Errorf("unable to set %s pin %d to %s: %w", c.scheme.Numbering(), n, mode, err)
	}
	c.logger.WithField("pin", n).Debugf("pin set to %s", mode)

	return handle[S, P]{ctl: c, pin: pin}, nil
}

func (c *Controller[S]) pinMode(mode Mode) func(n int) error {
	return func(n int) error { return c.driver.PinMode(n, mode) }
}

// NewInput configures pin as an input.
func NewInput[S Scheme, P Pin[S]](c *Controller[S], pin P) (*InputPin[S, P], error) {
	h, err := mint(c, pin, ModeInput, c.pinMode(ModeInput))
	if err != nil {
		return nil, err
	}
	return &InputPin[S, P]{h}, nil
}

// NewOutput configures pin as an output.
func NewOutput[S Scheme, P Pin[S]](c *Controller[S], pin P) (*OutputPin[S, P], error) {
	h, err := mint(c, pin, ModeOutput, c.pinMode(ModeOutput))
	if err != nil {
		return nil, err
	}
	return &OutputPin[S, P]{h}, nil
}

// NewPWM configures pin as a hardware PWM output. Only pins wired to the PWM
// generator are accepted.
func NewPWM[S Scheme, P HardwarePWM[S]](c *Controller[S], pin P) (*PWMPin[S, P], error) {
	if err := c.requirePrivilege("hardware pwm", pin.Number()); err != nil {
		return nil, err
	}

	h, err := mint(c, pin, ModePWMOutput, c.pinMode(ModePWMOutput))
	if err != nil {
		return nil, err
	}
	return &PWMPin[S, P]{h}, nil
}

// NewClock configures pin as a general purpose clock output. Only pins wired
// to a clock are accepted.
func NewClock[S Scheme, P GPIOClock[S]](c *Controller[S], pin P) (*ClockPin[S, P], error) {
	if err := c.requirePrivilege("clock output", pin.Number()); err != nil {
		return nil, err
	}

	h, err := mint(c, pin, ModeGPIOClock, c.pinMode(ModeGPIOClock))
	if err != nil {
		return nil, err
	}
	return &ClockPin[S, P]{h}, nil
}

// NewSoftPWM starts software PWM on pin with a duty of 0. Only schemes that
// drive the hardware directly support it, and the process needs elevated
// privileges.
func NewSoftPWM[S Privileged, P Pin[S]](c *Controller[S], pin P) (*SoftPWMPin[S, P], error) {
	if err := c.requirePrivilege("software pwm", pin.Number()); err != nil {
		return nil, err
	}

	h, err := mint(c, pin, ModeSoftPWMOutput, c.softPWMCreate)
	if err != nil {
		return nil, err
	}
	return &SoftPWMPin[S, P]{handle: h}, nil
}

func (c *Controller[S]) softPWMCreate(n int) error {
	return c.driver.SoftPWMCreate(n, 0, SoftPWMRange)
}

func (c *Controller[S]) requirePrivilege(op string, n int) error {
	return requirePrivilege(c.driver, fmt.Sprintf("%s on pin %d", op, n))
}

func requirePrivilege(d Driver, op string) error {
	if d.Privileged() {
		return nil
	}
	return ErrPrivilegeNoop{fmt.Errorf("%s needs elevated privileges", op)}
}
