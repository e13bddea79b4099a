package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gloworm-vision/gloworm-gpio/hardware"
	"github.com/gloworm-vision/gloworm-gpio/hardware/gpio"
	"github.com/sirupsen/logrus"
)

var (
	driver     = flag.String("driver", hardware.DriverPigpio, "gpio driver: pigpio, gpiomem or periph")
	pigpioAddr = flag.String("pigpio", hardware.DefaultPigpioAddr, "pigpio daemon address")
	pin        = flag.Int("pin", 0, "wiringPi pin to flash")
	period     = flag.Duration("period", time.Second, "time spent high, then low")
)

// blink flashes an LED on a wiringPi pin until interrupted.
func main() {
	flag.Parse()
	logger := logrus.New()

	d, err := hardware.OpenDriver(*driver, *pigpioAddr)
	if err != nil {
		logger.Fatal(err)
	}

	pi, err := gpio.NewController(gpio.WiringPi{}, d, logger)
	if err != nil {
		d.Close()
		logger.Fatal(err)
	}
	defer pi.Close()

	if err := run(pi, logger); err != nil {
		logger.Error(err)
	}
}

func run(pi *gpio.Controller[gpio.WiringPi], logger logrus.FieldLogger) error {
	out, err := pi.Output(*pin)
	if err != nil {
		return err
	}
	defer out.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	level := gpio.High
	for {
		if err := out.DigitalWrite(level); err != nil {
			return fmt.Errorf("unable to write pin %d: %w", *pin, err)
		}

		select {
		case <-interrupt:
			logger.Info("interrupted, switching off")
			return out.DigitalWrite(gpio.Low)
		case <-time.After(*period):
		}
		level = !level
	}
}
