package main

import (
	"flag"
	"time"

	"github.com/gloworm-vision/gloworm-gpio/hardware"
	"github.com/gloworm-vision/gloworm-gpio/hardware/gpio"
	"github.com/sirupsen/logrus"
)

var (
	driver     = flag.String("driver", hardware.DriverPigpio, "gpio driver: pigpio, gpiomem or periph")
	pigpioAddr = flag.String("pigpio", hardware.DefaultPigpioAddr, "pigpio daemon address")
	alicePin   = flag.Int("alice", 23, "BCM pin switched between software pwm and output")
	bobPin     = flag.Int("bob", 25, "BCM pin kept on software pwm")
	step       = flag.Duration("step", 2*time.Second, "time spent in each phase")
)

// softpwm drives two BCM pins (23 and 25 by default) with software PWM,
// switching the first to a constant output and back halfway through. The only hardware PWM pin on the
// original header is 18.
func main() {
	flag.Parse()
	logger := logrus.New()

	d, err := hardware.OpenDriver(*driver, *pigpioAddr)
	if err != nil {
		logger.Fatal(err)
	}

	pi, err := gpio.NewController(gpio.BCM{}, d, logger)
	if err != nil {
		d.Close()
		logger.Fatal(err)
	}
	defer pi.Close()

	if err := run(pi, *alicePin, *bobPin, *step); err != nil {
		logger.Error(err)
	}
}

func run(pi *gpio.Controller[gpio.BCM], alicePin, bobPin int, step time.Duration) error {
	alice, err := gpio.NewSoftPWM(pi, pi.Pin(alicePin))
	if err != nil {
		return err
	}
	// alice changes mode below, close whichever handle is current
	defer func() { alice.Close() }()

	bob, err := gpio.NewSoftPWM(pi, pi.Pin(bobPin))
	if err != nil {
		return err
	}
	defer bob.Close()

	// half duty on both
	if err := alice.Write(50); err != nil {
		return err
	}
	if err := bob.Write(50); err != nil {
		return err
	}
	time.Sleep(step)

	// alice constantly on as an output, bob at full duty: both look the same
	aliceOut, err := alice.IntoOutput()
	if err != nil {
		return err
	}
	if err := aliceOut.DigitalWrite(gpio.High); err != nil {
		return err
	}
	if err := bob.Write(100); err != nil {
		return err
	}
	time.Sleep(step)

	alice, err = gpio.OutputToSoftPWM(aliceOut)
	if err != nil {
		return err
	}

	if err := alice.Write(50); err != nil {
		return err
	}
	if err := bob.Write(50); err != nil {
		return err
	}
	time.Sleep(step)

	if err := alice.Write(0); err != nil {
		return err
	}
	return bob.Write(0)
}
