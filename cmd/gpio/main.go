package main

import (
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/gloworm-vision/gloworm-gpio/hardware"
	"github.com/sirupsen/logrus"
)

var (
	driver     = flag.String("driver", hardware.DriverPigpio, "gpio driver: pigpio, gpiomem or periph")
	pigpioAddr = flag.String("pigpio", hardware.DefaultPigpioAddr, "pigpio daemon address")
)

// gpio ramps the brightness of the gloworm LED clusters up and down until
// interrupted.
func main() {
	flag.Parse()
	logger := logrus.New()

	config := hardware.Config{
		Gloworm: &hardware.GlowormConfig{
			Driver:     *driver,
			PigpioAddr: *pigpioAddr,
		},
	}

	gloworm, err := hardware.New(config, logger)
	if err != nil {
		logger.Fatalf("unable to setup hardware: %s", err)
	}
	defer gloworm.Close()

	light := gloworm.(hardware.DimmableLight)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	ticker := time.NewTicker(time.Millisecond * 10)
	defer ticker.Stop()

	v, step := 0.0, 0.01
	for {
		select {
		case <-interrupt:
			return
		case <-ticker.C:
		}

		if err := light.SetLightBrightness(v); err != nil {
			logger.Errorf("unable to set brightness: %s", err)
			return
		}

		v += step
		if v >= 1 || v <= 0 {
			step = -step
		}
	}
}
