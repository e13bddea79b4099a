package hardware

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gloworm-vision/gloworm-gpio/hardware/gpio"
	"github.com/sirupsen/logrus"
)

type GlowormConfig struct {
	// Driver is one of DriverPigpio (the default), DriverGPIOMem or DriverPeriph
	Driver     string `json:"driver" yaml:"driver"`
	PigpioAddr string `json:"pigpioAddr" yaml:"pigpioAddr"`

	// PWMRange and PWMClock configure the PWM generator driving both LED
	// clusters. Zero keeps the generator defaults.
	PWMRange uint32 `json:"pwmRange" yaml:"pwmRange"`
	PWMClock uint16 `json:"pwmClock" yaml:"pwmClock"`
}

type Gloworm struct {
	driver string
	ctl    *gpio.Controller[gpio.BCM]

	mu         sync.Mutex
	left       *gpio.PWMPin[gpio.BCM, gpio.BCM13]
	right      *gpio.PWMPin[gpio.BCM, gpio.BCM18]
	green      *gpio.OutputPin[gpio.BCM, gpio.BCM4]
	brightness float64
}

// NewGloworm sets up the Gloworm board on driver. The Gloworm owns driver
// from here on and closes it, even when setup fails.
func NewGloworm(config GlowormConfig, driver gpio.Driver, logger logrus.FieldLogger) (*Gloworm, error) {
	ctl, err := gpio.NewController(gpio.BCM{}, driver, logger)
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("unable to setup gpio: %w", err)
	}

	g := &Gloworm{driver: config.Driver, ctl: ctl}
	if g.driver == "" {
		g.driver = DriverPigpio
	}

	if err := g.setup(config); err != nil {
		ctl.Close()
		return nil, err
	}

	return g, nil
}

func (g *Gloworm) setup(config GlowormConfig) error {
	generator := g.ctl.PWMGenerator()
	if err := generator.SetMode(gpio.MarkSpace); err != nil {
		return fmt.Errorf("unable to setup pwm generator: %w", err)
	}
	if config.PWMClock != 0 {
		if err := generator.SetClock(config.PWMClock); err != nil {
			return fmt.Errorf("unable to setup pwm generator: %w", err)
		}
	}
	if config.PWMRange != 0 {
		if err := generator.SetRange(config.PWMRange); err != nil {
			return fmt.Errorf("unable to setup pwm generator: %w", err)
		}
	}

	var err error
	if g.left, err = gpio.NewPWM(g.ctl, gpio.BCM13{}); err != nil {
		return fmt.Errorf("unable to setup left LED cluster: %w", err)
	}
	if g.right, err = gpio.NewPWM(g.ctl, gpio.BCM18{}); err != nil {
		return fmt.Errorf("unable to setup right LED cluster: %w", err)
	}
	if g.green, err = gpio.NewOutput(g.ctl, gpio.BCM4{}); err != nil {
		return fmt.Errorf("unable to setup green status LED: %w", err)
	}

	return nil
}

func (g *Gloworm) Name() string { return "gloworm" }

func (g *Gloworm) SetLights(on bool) error {
	if on {
		return g.SetLightBrightness(1)
	}
	return g.SetLightBrightness(0)
}

func (g *Gloworm) SetLightBrightness(v float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	v = math.Max(0, math.Min(1, v))
	duty := uint16(math.Min(math.Round(v*float64(g.ctl.PWMGenerator().Range())), math.MaxUint16))

	if err := g.left.Write(duty); err != nil {
		return fmt.Errorf("can't set left LED cluster brightness: %w", err)
	}

	if err := g.right.Write(duty); err != nil {
		return fmt.Errorf("can't set right LED cluster brightness: %w", err)
	}
	g.brightness = v

	return nil
}

// Brightness returns the brightness last set on the LED clusters.
func (g *Gloworm) Brightness() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.brightness
}

func (g *Gloworm) SetStatus(status Status, value bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch status {
	case TargetAquired:
		if err := g.green.DigitalWrite(gpio.Level(value)); err != nil {
			return fmt.Errorf("can't set green status LED: %w", err)
		}
	default:
		return ErrUnsupportedStatus{fmt.Errorf("status %q not implemented by Gloworm", status)}
	}

	return nil
}

func (g *Gloworm) Board() Board {
	generator := g.ctl.PWMGenerator()

	return Board{
		Name:         g.Name(),
		Driver:       g.driver,
		Numbering:    g.ctl.Numbering().String(),
		Revision:     g.ctl.BoardRevision(),
		Privileged:   g.ctl.Privileged(),
		PWMRange:     generator.Range(),
		PWMClock:     generator.Clock(),
		PWMFrequency: generator.Frequency(),
		Brightness:   g.Brightness(),
	}
}

func (g *Gloworm) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var errs []error
	if err := g.left.Write(0); err != nil {
		errs = append(errs, fmt.Errorf("unable to turn off left cluster: %w", err))
	}
	if err := g.right.Write(0); err != nil {
		errs = append(errs, fmt.Errorf("unable to turn off right cluster: %w", err))
	}
	if err := g.green.DigitalWrite(gpio.Low); err != nil {
		errs = append(errs, fmt.Errorf("unable to turn off green status LED: %w", err))
	}
	if err := g.ctl.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
