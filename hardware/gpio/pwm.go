package gpio

import (
	"fmt"
	"sync"
)

// pwmBaseClock is the oscillator feeding the PWM clock divider, in Hz.
const pwmBaseClock = 19200000

// PWMGenerator is the hardware PWM generator. There is one per board and its
// range, clock and mode apply to every hardware PWM pin at once.
//
// To understand more about the PWM system, read the Broadcom ARM peripherals
// manual.
type PWMGenerator struct {
	driver Driver

	mu       sync.Mutex
	pwmRange uint32
	divisor  uint16
	mode     PWMMode
}

// SetRange sets the range register of the generator. The default is 1024.
func (g *PWMGenerator) SetRange(value uint32) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if value == 0 {
		return fmt.Errorf("pwm range must be positive")
	}
	if err := requirePrivilege(g.driver, "setting the pwm range"); err != nil {
		return err
	}
	if err := g.driver.PWMSetRange(value); err != nil {
		return fmt.Errorf("unable to set pwm range: %w", err)
	}
	g.pwmRange = value

	return nil
}

// SetClock sets the divisor of the PWM clock.
func (g *PWMGenerator) SetClock(divisor uint16) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if divisor == 0 {
		return fmt.Errorf("pwm clock divisor must be positive")
	}
	if err := requirePrivilege(g.driver, "setting the pwm clock"); err != nil {
		return err
	}
	if err := g.driver.PWMSetClock(divisor); err != nil {
		return fmt.Errorf("unable to set pwm clock: %w", err)
	}
	g.divisor = divisor

	return nil
}

// SetMode switches the generator between mark:space and balanced mode.
// Mark:space is the traditional mode, but the default on the Pi is
// balanced.
func (g *PWMGenerator) SetMode(mode PWMMode) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := requirePrivilege(g.driver, "setting the pwm mode"); err != nil {
		return err
	}
	if err := g.driver.PWMSetMode(mode); err != nil {
		return fmt.Errorf("unable to set pwm mode: %w", err)
	}
	g.mode = mode

	return nil
}

// Range returns the current range register value.
func (g *PWMGenerator) Range() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pwmRange
}

// Clock returns the current clock divisor.
func (g *PWMGenerator) Clock() uint16 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.divisor
}

// Mode returns the current generator mode.
func (g *PWMGenerator) Mode() PWMMode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mode
}

// Frequency returns the mark:space period frequency in Hz.
func (g *PWMGenerator) Frequency() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return PWMFrequency(g.divisor, g.pwmRange)
}

// PWMFrequency returns the mark:space frequency for a clock divisor and range.
func PWMFrequency(divisor uint16, pwmRange uint32) float64 {
	if divisor == 0 || pwmRange == 0 {
		return 0
	}
	return float64(pwmBaseClock) / float64(divisor) / float64(pwmRange)
}

// PWMPin is a pin driven by the hardware PWM generator.
type PWMPin[S Scheme, P Pin[S]] struct {
	handle[S, P]
}

// IntoInput switches the pin to input mode. The PWM handle is consumed.
func (p *PWMPin[S, P]) IntoInput() (*InputPin[S, P], error) { return p.intoInput() }

// IntoOutput switches the pin to output mode. The PWM handle is consumed.
func (p *PWMPin[S, P]) IntoOutput() (*OutputPin[S, P], error) { return p.intoOutput() }

// Write sets the duty of the pin, between 0 and the generator range.
func (p *PWMPin[S, P]) Write(value uint16) error {
	d, err := p.driver()
	if err != nil {
		return err
	}
	return d.PWMWrite(p.Number(), value)
}

// Generator returns the generator driving the pin. Changing it affects all
// hardware PWM pins, not only this one.
func (p *PWMPin[S, P]) Generator() *PWMGenerator { return p.ctl.pwm }

// ClockPin is a pin driven by one of the general purpose clocks.
type ClockPin[S Scheme, P Pin[S]] struct {
	handle[S, P]
}

// IntoInput switches the pin to input mode. The clock handle is consumed.
func (p *ClockPin[S, P]) IntoInput() (*InputPin[S, P], error) { return p.intoInput() }

// IntoOutput switches the pin to output mode. The clock handle is consumed.
func (p *ClockPin[S, P]) IntoOutput() (*OutputPin[S, P], error) { return p.intoOutput() }

// SetFrequency sets the frequency of the clock behind the pin, in Hz.
func (p *ClockPin[S, P]) SetFrequency(hz int) error {
	d, err := p.driver()
	if err != nil {
		return err
	}
	if hz <= 0 {
		return fmt.Errorf("clock frequency must be positive, got %d", hz)
	}
	if err := p.ctl.requirePrivilege("clock output", p.Number()); err != nil {
		return err
	}
	return d.GPIOClockSet(p.Number(), hz)
}
