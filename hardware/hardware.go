package hardware

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Hardware defines a common interface for boards gloworm-gpio can drive
//
// Because not all hardware has status LEDs, or LED cluster brightness control,
// or even an LED cluster at all, this is a fairly minimal interface. Most of the
// time this interface should be type asserted to a more specific interface. For
// example, you can assert to the BinaryLight interface for binary LED cluster control,
// or the DimmableLight interface for dimmable LED cluster control.
type Hardware interface {
	Name() string

	io.Closer
}

// BinaryLight describes hardware with an LED cluster that can be toggled on/off
type BinaryLight interface {
	// SetLights turns the LED cluster on or off
	SetLights(on bool) error
}

// DimmableLight describes hardware with an LED cluster that can be dimmed
type DimmableLight interface {
	// SetLightBrightness sets the LED cluster brightness (from off - 0, to fully on - 1)
	SetLightBrightness(v float64) error
}

// Status defines a list of statuses that can be indicated in various ways by different
// hardware
type Status int

const (
	// TargetAquired is true when a contour is being tracked and its location
	// is being published
	TargetAquired Status = iota
	// Ready is true once the hardware has been set up and is accepting requests
	Ready
)

var statusNames = map[Status]string{
	TargetAquired: "targetAquired",
	Ready:         "ready",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(name string) (Status, error) {
	for status, n := range statusNames {
		if n == name {
			return status, nil
		}
	}
	return 0, ErrUnsupportedStatus{fmt.Errorf("unknown status %q", name)}
}

type ErrUnsupportedStatus struct {
	error
}

func (err ErrUnsupportedStatus) Is(target error) bool {
	_, ok := target.(ErrUnsupportedStatus)
	return ok
}

// StatusIndicators describes hardware with one or more status indicators
type StatusIndicators interface {
	// SetStatus sets a status on or off. If the underlying hardware can't indicate this
	// status, it should return an ErrUnsupportedStatus error.
	SetStatus(status Status, value bool) error
}

// Board describes the GPIO controller behind the hardware.
type Board struct {
	Name         string  `json:"name"`
	Driver       string  `json:"driver"`
	Numbering    string  `json:"numbering"`
	Revision     int     `json:"revision"`
	Privileged   bool    `json:"privileged"`
	PWMRange     uint32  `json:"pwmRange"`
	PWMClock     uint16  `json:"pwmClock"`
	PWMFrequency float64 `json:"pwmFrequency"`
	Brightness   float64 `json:"brightness"`
}

// BoardDescriber describes hardware that can report on its GPIO controller
type BoardDescriber interface {
	Board() Board
}

// Config selects and configures the hardware to drive. Exactly one field
// should be set.
type Config struct {
	Gloworm *GlowormConfig `json:"gloworm,omitempty" yaml:"gloworm,omitempty"`
}

// New opens the hardware described by config.
func New(config Config, logger logrus.FieldLogger) (Hardware, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	switch {
	case config.Gloworm != nil:
		driver, err := OpenDriver(config.Gloworm.Driver, config.Gloworm.PigpioAddr)
		if err != nil {
			return nil, fmt.Errorf("unable to open gpio driver: %w", err)
		}

		g, err := NewGloworm(*config.Gloworm, driver, logger)
		if err != nil {
			return nil, err
		}
		return g, nil
	}

	return nil, fmt.Errorf("no hardware configured")
}
