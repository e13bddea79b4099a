package gpio

// The transitions below need a capability of the pin or the scheme, which Go
// can only express as a constraint on a type parameter. Methods can't add
// constraints, so they are functions.

func (h *handle[S, P]) intoPWM() (handle[S, P], error) {
	if err := h.ctl.requirePrivilege("hardware pwm", h.pin.Number()); err != nil {
		return handle[S, P]{}, err
	}
	return h.transition(ModePWMOutput, h.ctl.pinMode(ModePWMOutput))
}

func (h *handle[S, P]) intoClock() (handle[S, P], error) {
	if err := h.ctl.requirePrivilege("clock output", h.pin.Number()); err != nil {
		return handle[S, P]{}, err
	}
	return h.transition(ModeGPIOClock, h.ctl.pinMode(ModeGPIOClock))
}

func (h *handle[S, P]) intoSoftPWM() (handle[S, P], error) {
	if err := h.ctl.requirePrivilege("software pwm", h.pin.Number()); err != nil {
		return handle[S, P]{}, err
	}
	return h.transition(ModeSoftPWMOutput, h.ctl.softPWMCreate)
}

func pwmPin[S Scheme, P HardwarePWM[S]](next handle[S, P], err error) (*PWMPin[S, P], error) {
	if err != nil {
		return nil, err
	}
	return &PWMPin[S, P]{next}, nil
}

func clockPin[S Scheme, P GPIOClock[S]](next handle[S, P], err error) (*ClockPin[S, P], error) {
	if err != nil {
		return nil, err
	}
	return &ClockPin[S, P]{next}, nil
}

func softPWMPin[S Privileged, P Pin[S]](next handle[S, P], err error) (*SoftPWMPin[S, P], error) {
	if err != nil {
		return nil, err
	}
	return &SoftPWMPin[S, P]{handle: next}, nil
}

// InputToPWM switches an input to hardware PWM. The input is consumed.
func InputToPWM[S Scheme, P HardwarePWM[S]](p *InputPin[S, P]) (*PWMPin[S, P], error) {
	next, err := p.intoPWM()
	return pwmPin(next, err)
}

// OutputToPWM switches an output to hardware PWM. The output is consumed.
func OutputToPWM[S Scheme, P HardwarePWM[S]](p *OutputPin[S, P]) (*PWMPin[S, P], error) {
	next, err := p.intoPWM()
	return pwmPin(next, err)
}

// SoftPWMToPWM stops software PWM and switches the pin to hardware PWM.
func SoftPWMToPWM[S Privileged, P HardwarePWM[S]](p *SoftPWMPin[S, P]) (*PWMPin[S, P], error) {
	next, err := leaveSoftPWM(p, p.intoPWM)
	return pwmPin(next, err)
}

// InputToClock switches an input to clock output. The input is consumed.
func InputToClock[S Scheme, P GPIOClock[S]](p *InputPin[S, P]) (*ClockPin[S, P], error) {
	next, err := p.intoClock()
	return clockPin(next, err)
}

// OutputToClock switches an output to clock output. The output is consumed.
func OutputToClock[S Scheme, P GPIOClock[S]](p *OutputPin[S, P]) (*ClockPin[S, P], error) {
	next, err := p.intoClock()
	return clockPin(next, err)
}

// SoftPWMToClock stops software PWM and switches the pin to clock output.
func SoftPWMToClock[S Privileged, P GPIOClock[S]](p *SoftPWMPin[S, P]) (*ClockPin[S, P], error) {
	next, err := leaveSoftPWM(p, p.intoClock)
	return clockPin(next, err)
}

// InputToSoftPWM starts software PWM on an input pin. The input is consumed.
func InputToSoftPWM[S Privileged, P Pin[S]](p *InputPin[S, P]) (*SoftPWMPin[S, P], error) {
	next, err := p.intoSoftPWM()
	return softPWMPin(next, err)
}

// OutputToSoftPWM starts software PWM on an output pin. The output is
// consumed.
func OutputToSoftPWM[S Privileged, P Pin[S]](p *OutputPin[S, P]) (*SoftPWMPin[S, P], error) {
	next, err := p.intoSoftPWM()
	return softPWMPin(next, err)
}
