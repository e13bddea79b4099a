package gpio

import "errors"

var (
	// ErrAlreadyInitialized is wrapped in ErrInitialization when a second
	// controller is created while one is still open.
	ErrAlreadyInitialized = errors.New("gpio already initialized")

	// ErrConsumed is returned by a handle that has been converted into
	// another mode or closed.
	ErrConsumed = errors.New("pin handle has been consumed")

	// ErrSoftPWMStopped is returned when writing to a stopped software PWM pin.
	ErrSoftPWMStopped = errors.New("software pwm has been stopped")

	// ErrUnsupported is returned by drivers for operations the hardware
	// behind them can't perform.
	ErrUnsupported = errors.New("operation not supported by driver")

	// ErrNoSuchPin is returned when a pin number doesn't map to a GPIO.
	ErrNoSuchPin = errors.New("no such pin")

	// ErrControllerClosed is returned by a controller, and every handle it
	// minted, once it has been closed.
	ErrControllerClosed = errors.New("gpio controller is closed")
)

// ErrInitialization is returned when the driver could not be set up. No pin
// handles can be created after it.
type ErrInitialization struct {
	error
}

func (err ErrInitialization) Is(target error) bool {
	_, ok := target.(ErrInitialization)
	return ok
}

func (err ErrInitialization) Unwrap() error { return err.error }

// ErrDoubleAllocation is returned when a pin is claimed while another handle
// for it is still open.
type ErrDoubleAllocation struct {
	error
}

func (err ErrDoubleAllocation) Is(target error) bool {
	_, ok := target.(ErrDoubleAllocation)
	return ok
}

// ErrPrivilegeNoop is returned instead of calling an operation that needs
// elevated privileges the process doesn't have. On the hardware such a
// call would silently do nothing.
type ErrPrivilegeNoop struct {
	error
}

func (err ErrPrivilegeNoop) Is(target error) bool {
	_, ok := target.(ErrPrivilegeNoop)
	return ok
}
