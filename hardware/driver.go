package hardware

import (
	"fmt"

	"github.com/gloworm-vision/gloworm-gpio/hardware/gpio"
	"github.com/gloworm-vision/gloworm-gpio/hardware/gpio/gpiomem"
	"github.com/gloworm-vision/gloworm-gpio/hardware/gpio/periph"
)

// GPIO drivers selectable by name
const (
	DriverPigpio  = "pigpio"
	DriverGPIOMem = "gpiomem"
	DriverPeriph  = "periph"
)

// DefaultPigpioAddr is where the pigpio daemon listens by default.
const DefaultPigpioAddr = "localhost:8888"

// OpenDriver opens a GPIO driver by name. An empty name selects pigpio, with
// addr defaulting to DefaultPigpioAddr.
func OpenDriver(name, addr string) (gpio.Driver, error) {
	switch name {
	case "", DriverPigpio:
		if addr == "" {
			addr = DefaultPigpioAddr
		}

		p, err := gpio.DialPigpio(addr)
		if err != nil {
			return nil, fmt.Errorf("unable to dial pigpio to setup gpio: %w", err)
		}
		return p, nil
	case DriverGPIOMem:
		return gpiomem.New(), nil
	case DriverPeriph:
		return periph.New(), nil
	}

	return nil, fmt.Errorf("unknown gpio driver %q", name)
}
