package gpio

import "fmt"

// handle is the state shared by all pin handles: the pin it owns and
// whether ownership has been passed on.
type handle[S Scheme, P Pin[S]] struct {
	ctl      *Controller[S]
	pin      P
	consumed bool
}

// Pin returns the pin owned by the handle.
func (h *handle[S, P]) Pin() P { return h.pin }

// Number returns the pin number in the controller's numbering.
func (h *handle[S, P]) Number() int { return h.pin.Number() }

// Close releases the pin without changing its mode. The handle can't be
// used afterwards and the pin can be claimed again.
func (h *handle[S, P]) Close() error {
	if h.consumed {
		return ErrConsumed
	}
	h.consumed = true
	h.ctl.release(h.pin.Number())

	return nil
}

func (h *handle[S, P]) driver() (Driver, error) {
	if h.consumed {
		return nil, ErrConsumed
	}
	if err := h.ctl.usable(); err != nil {
		return nil, err
	}
	return h.ctl.driver, nil
}

// transition runs the mode-set call for the next mode and, only if it
// succeeds, passes ownership of the pin to a new handle.
func (h *handle[S, P]) transition(mode Mode, set func(n int) error) (handle[S, P], error) {
	if h.consumed {
		return handle[S, P]{}, ErrConsumed
	}
	if err := h.ctl.usable(); err != nil {
		return handle[S, P]{}, err
	}

	n := h.pin.Number()
	if err := set(n); err != nil {
		return handle[S, P]{}, fmt.Errorf("unable to set %s pin %d to %s: %w", h.ctl.Numbering(), n, mode, err)
	}
	h.consumed = true
	h.ctl.logger.WithField("pin", n).Debugf("pin switched to %s", mode)

	return handle[S, P]{ctl: h.ctl, pin: h.pin}, nil
}

func (h *handle[S, P]) intoInput() (*InputPin[S, P], error) {
	next, err := h.transition(ModeInput, h.ctl.pinMode(ModeInput))
	if err != nil {
		return nil, err
	}
	return &InputPin[S, P]{next}, nil
}

func (h *handle[S, P]) intoOutput() (*OutputPin[S, P], error) {
	next, err := h.transition(ModeOutput, h.ctl.pinMode(ModeOutput))
	if err != nil {
		return nil, err
	}
	return &OutputPin[S, P]{next}, nil
}

// InputPin is a pin configured as an input.
type InputPin[S Scheme, P Pin[S]] struct {
	handle[S, P]
}

// IntoOutput switches the pin to output mode. The input handle is consumed.
func (p *InputPin[S, P]) IntoOutput() (*OutputPin[S, P], error) { return p.intoOutput() }

// DigitalRead returns the logic level at the pin.
func (p *InputPin[S, P]) DigitalRead() (Level, error) {
	d, err := p.driver()
	if err != nil {
		return Low, err
	}
	return d.DigitalRead(p.Number())
}

// AnalogRead returns a raw sample from an analog front end attached to the
// pin. The Pi itself has no analog inputs.
func (p *InputPin[S, P]) AnalogRead() (uint16, error) {
	d, err := p.driver()
	if err != nil {
		return 0, err
	}
	return d.AnalogRead(p.Number())
}

// SetPull sets the pull-up or pull-down resistor of an input. The BCM2835
// has both: PullOff for none, PullDown to ground, PullUp to 3.3v. Only
// schemes that drive the hardware directly expose the resistors.
func SetPull[S Privileged, P Pin[S]](p *InputPin[S, P], pull Pull) error {
	d, err := p.driver()
	if err != nil {
		return err
	}
	if err := p.ctl.requirePrivilege("pull resistor control", p.Number()); err != nil {
		return err
	}
	return d.PullUpDnControl(p.Number(), pull)
}

// OutputPin is a pin configured as an output.
type OutputPin[S Scheme, P Pin[S]] struct {
	handle[S, P]
}

// IntoInput switches the pin to input mode. The output handle is consumed.
func (p *OutputPin[S, P]) IntoInput() (*InputPin[S, P], error) { return p.intoInput() }

// DigitalWrite drives the pin HIGH or LOW.
func (p *OutputPin[S, P]) DigitalWrite(level Level) error {
	d, err := p.driver()
	if err != nil {
		return err
	}
	return d.DigitalWrite(p.Number(), level)
}

// AnalogWrite writes a raw value to an analog front end attached to the pin.
func (p *OutputPin[S, P]) AnalogWrite(value uint16) error {
	d, err := p.driver()
	if err != nil {
		return err
	}
	return d.AnalogWrite(p.Number(), value)
}
