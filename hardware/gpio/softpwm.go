package gpio

import (
	"errors"
	"fmt"
)

// SoftPWMPin is a pin driven by a software PWM timer. It runs with 100 steps
// at 100Hz on any pin, at a lower fidelity than hardware PWM.
//
// The timer keeps running until Stop is called or the handle is converted
// into another mode.
type SoftPWMPin[S Scheme, P Pin[S]] struct {
	handle[S, P]
	stopped bool
	duty    int
}

// Write sets the duty cycle, from 0 to 100. Values outside are clamped.
func (p *SoftPWMPin[S, P]) Write(duty int) error {
	d, err := p.driver()
	if err != nil {
		return err
	}
	if p.stopped {
		return ErrSoftPWMStopped
	}

	if duty < 0 {
		duty = 0
	} else if duty > SoftPWMRange {
		duty = SoftPWMRange
	}

	if err := d.SoftPWMWrite(p.Number(), duty); err != nil {
		return err
	}
	p.duty = duty

	return nil
}

// Stop stops the timer and releases it. The pin can still be converted into
// another mode, but not written to.
func (p *SoftPWMPin[S, P]) Stop() error {
	d, err := p.driver()
	if err != nil {
		return err
	}
	if p.stopped {
		return nil
	}

	if err := d.SoftPWMStop(p.Number()); err != nil {
		return fmt.Errorf("unable to stop software pwm on pin %d: %w", p.Number(), err)
	}
	p.stopped = true

	return nil
}

// Stopped reports whether the timer has been stopped.
func (p *SoftPWMPin[S, P]) Stopped() bool { return p.stopped }

// Close stops the timer and releases the pin.
func (p *SoftPWMPin[S, P]) Close() error {
	if err := p.Stop(); err != nil {
		return err
	}
	return p.handle.Close()
}

// IntoInput stops the timer and switches the pin to input mode.
func (p *SoftPWMPin[S, P]) IntoInput() (*InputPin[S, P], error) {
	return leaveSoftPWM(p, p.intoInput)
}

// IntoOutput stops the timer and switches the pin to output mode.
func (p *SoftPWMPin[S, P]) IntoOutput() (*OutputPin[S, P], error) {
	return leaveSoftPWM(p, p.intoOutput)
}

// leaveSoftPWM stops the timer and runs the transition into. If into fails
// the timer is started again at the last duty, so the pin keeps running as
// before.
func leaveSoftPWM[S Scheme, P Pin[S], T any](p *SoftPWMPin[S, P], into func() (T, error)) (T, error) {
	running := !p.stopped
	if err := p.Stop(); err != nil {
		var zero T
		return zero, err
	}

	next, err := into()
	if err != nil && running {
		if restartErr := p.restart(); restartErr != nil {
			err = errors.Join(err, restartErr)
		}
	}

	return next, err
}

func (p *SoftPWMPin[S, P]) restart() error {
	d, err := p.driver()
	if err != nil {
		return err
	}
	if err := d.SoftPWMCreate(p.Number(), p.duty, SoftPWMRange); err != nil {
		return fmt.Errorf("unable to restart software pwm on pin %d: %w", p.Number(), err)
	}
	p.stopped = false

	return nil
}
