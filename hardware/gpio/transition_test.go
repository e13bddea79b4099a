package gpio_test

import (
	"errors"
	"testing"

	"github.com/gloworm-vision/gloworm-gpio/hardware/gpio"
	"github.com/gloworm-vision/gloworm-gpio/hardware/gpio/gpiotest"
)

func pinMode(pin int, mode gpio.Mode) gpiotest.Call {
	return gpiotest.Call{Op: gpiotest.OpPinMode, Pin: pin, Value: int(mode)}
}

func TestInputOutputRoundTrip(t *testing.T) {
	d := &gpiotest.Driver{}
	c := newController(t, gpio.WiringPi{}, d)

	in, err := c.Input(4)
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	d.Reset()

	out, err := in.IntoOutput()
	if err != nil {
		t.Fatalf("IntoOutput: %v", err)
	}
	back, err := out.IntoInput()
	if err != nil {
		t.Fatalf("IntoInput: %v", err)
	}

	if back.Number() != 4 {
		t.Fatalf("round trip changed pin to %d", back.Number())
	}
	assertCalls(t, d, []gpiotest.Call{
		pinMode(4, gpio.ModeOutput),
		pinMode(4, gpio.ModeInput),
	})
}

func TestTransitionConsumesHandle(t *testing.T) {
	d := &gpiotest.Driver{}
	c := newController(t, gpio.BCM{}, d)

	in, err := c.Input(17)
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	out, err := in.IntoOutput()
	if err != nil {
		t.Fatalf("IntoOutput: %v", err)
	}
	d.Reset()

	if _, err := in.DigitalRead(); !errors.Is(err, gpio.ErrConsumed) {
		t.Fatalf("read from consumed input: got %v, want ErrConsumed", err)
	}
	if _, err := in.IntoOutput(); !errors.Is(err, gpio.ErrConsumed) {
		t.Fatalf("second transition: got %v, want ErrConsumed", err)
	}
	if err := in.Close(); !errors.Is(err, gpio.ErrConsumed) {
		t.Fatalf("close of consumed input: got %v, want ErrConsumed", err)
	}
	if calls := d.Calls(); len(calls) != 0 {
		t.Fatalf("consumed handle reached the driver: %v", calls)
	}

	// the pin is still owned by the output
	if _, err := c.Input(17); !errors.Is(err, gpio.ErrDoubleAllocation{}) {
		t.Fatalf("expected ErrDoubleAllocation, got %v", err)
	}
	if err := out.DigitalWrite(gpio.High); err != nil {
		t.Fatalf("DigitalWrite: %v", err)
	}
	if d.Level(17) != gpio.High {
		t.Fatalf("pin 17 should be high")
	}
}

func TestFailedTransitionKeepsHandle(t *testing.T) {
	d := &gpiotest.Driver{}
	c := newController(t, gpio.BCM{}, d)

	out, err := c.Output(22)
	if err != nil {
		t.Fatalf("Output: %v", err)
	}

	d.Err = errors.New("bus error")
	if _, err := out.IntoInput(); err == nil {
		t.Fatalf("expected transition error")
	}

	d.Err = nil
	if err := out.DigitalWrite(gpio.Low); err != nil {
		t.Fatalf("handle should survive a failed transition: %v", err)
	}
}

func TestFailedSoftPWMTransitionKeepsTimer(t *testing.T) {
	d := &gpiotest.Driver{}
	c := newController(t, gpio.BCM{}, d)

	soft, err := gpio.NewSoftPWM(c, c.Pin(24))
	if err != nil {
		t.Fatalf("NewSoftPWM: %v", err)
	}
	if err := soft.Write(40); err != nil {
		t.Fatalf("Write: %v", err)
	}

	d.Fail = map[gpiotest.Op]error{gpiotest.OpPinMode: errors.New("bus error")}
	if _, err := soft.IntoOutput(); err == nil {
		t.Fatalf("expected transition error")
	}
	d.Fail = nil

	if soft.Stopped() {
		t.Fatalf("timer should run again after a failed transition")
	}
	if err := soft.Write(30); err != nil {
		t.Fatalf("handle should survive a failed transition: %v", err)
	}

	assertCalls(t, d, []gpiotest.Call{
		{Op: gpiotest.OpSoftPWMCreate, Pin: 24, Value: gpio.SoftPWMRange},
		{Op: gpiotest.OpSoftPWMWrite, Pin: 24, Value: 40},
		{Op: gpiotest.OpSoftPWMStop, Pin: 24},
		pinMode(24, gpio.ModeOutput),
		{Op: gpiotest.OpSoftPWMCreate, Pin: 24, Value: gpio.SoftPWMRange},
		{Op: gpiotest.OpSoftPWMWrite, Pin: 24, Value: 30},
	})
}

func TestInputOperations(t *testing.T) {
	d := &gpiotest.Driver{}
	c := newController(t, gpio.Phys{}, d)

	in, err := c.Input(11)
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	d.SetLevel(11, gpio.High)
	d.SetAnalog(11, 40000)

	level, err := in.DigitalRead()
	if err != nil || level != gpio.High {
		t.Fatalf("DigitalRead() = %v, %v; want high", level, err)
	}
	sample, err := in.AnalogRead()
	if err != nil || sample != 40000 {
		t.Fatalf("AnalogRead() = %d, %v; want 40000", sample, err)
	}
	if err := gpio.SetPull(in, gpio.PullDown); err != nil {
		t.Fatalf("SetPull: %v", err)
	}

	calls := d.CallsOf(gpiotest.OpPullUpDnControl)
	if len(calls) != 1 || calls[0].Pin != 11 || calls[0].Value != int(gpio.PullDown) {
		t.Fatalf("unexpected pull calls %v", calls)
	}
}

func TestOutputOperations(t *testing.T) {
	d := &gpiotest.Driver{}
	c := newController(t, gpio.WiringPi{}, d)

	out, err := c.Output(0)
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	d.Reset()

	if err := out.DigitalWrite(gpio.High); err != nil {
		t.Fatalf("DigitalWrite: %v", err)
	}
	if err := out.AnalogWrite(1234); err != nil {
		t.Fatalf("AnalogWrite: %v", err)
	}

	assertCalls(t, d, []gpiotest.Call{
		{Op: gpiotest.OpDigitalWrite, Pin: 0, Value: 1},
		{Op: gpiotest.OpAnalogWrite, Pin: 0, Value: 1234},
	})
}

func TestHardwarePWMOnWiringPiPin1(t *testing.T) {
	d := &gpiotest.Driver{}
	c := newController(t, gpio.WiringPi{}, d)

	pwm, err := gpio.NewPWM(c, gpio.WiringPi1{})
	if err != nil {
		t.Fatalf("NewPWM: %v", err)
	}
	if err := pwm.Write(512); err != nil {
		t.Fatalf("Write: %v", err)
	}

	assertCalls(t, d, []gpiotest.Call{
		pinMode(1, gpio.ModePWMOutput),
		{Op: gpiotest.OpPWMWrite, Pin: 1, Value: 512},
	})
}

func TestSharedGeneratorConfiguration(t *testing.T) {
	d := &gpiotest.Driver{}
	c := newController(t, gpio.BCM{}, d)

	a, err := gpio.NewPWM(c, gpio.BCM18{})
	if err != nil {
		t.Fatalf("NewPWM(18): %v", err)
	}
	b, err := gpio.NewPWM(c, gpio.BCM13{})
	if err != nil {
		t.Fatalf("NewPWM(13): %v", err)
	}
	d.Reset()

	if a.Generator() != b.Generator() || a.Generator() != c.PWMGenerator() {
		t.Fatalf("pwm pins should share one generator")
	}

	if err := a.Generator().SetRange(2000); err != nil {
		t.Fatalf("SetRange: %v", err)
	}
	if err := a.Generator().SetClock(16); err != nil {
		t.Fatalf("SetClock: %v", err)
	}
	if err := a.Generator().SetMode(gpio.MarkSpace); err != nil {
		t.Fatalf("SetMode: %v", err)
	}

	assertCalls(t, d, []gpiotest.Call{
		{Op: gpiotest.OpPWMSetRange, Pin: gpiotest.NoPin, Value: 2000},
		{Op: gpiotest.OpPWMSetClock, Pin: gpiotest.NoPin, Value: 16},
		{Op: gpiotest.OpPWMSetMode, Pin: gpiotest.NoPin, Value: int(gpio.MarkSpace)},
	})

	g := b.Generator()
	if g.Range() != 2000 || g.Clock() != 16 || g.Mode() != gpio.MarkSpace {
		t.Fatalf("generator state not shared: range %d clock %d mode %d", g.Range(), g.Clock(), g.Mode())
	}
	if f := g.Frequency(); f != 600 {
		t.Fatalf("Frequency() = %v, want 600", f)
	}

	if err := g.SetRange(0); err == nil {
		t.Fatalf("expected error for zero range")
	}
}

func TestPWMTransitions(t *testing.T) {
	d := &gpiotest.Driver{}
	c := newController(t, gpio.Phys{}, d)

	in, err := gpio.NewInput(c, gpio.Phys12{})
	if err != nil {
		t.Fatalf("NewInput: %v", err)
	}
	pwm, err := gpio.InputToPWM(in)
	if err != nil {
		t.Fatalf("InputToPWM: %v", err)
	}
	out, err := pwm.IntoOutput()
	if err != nil {
		t.Fatalf("IntoOutput: %v", err)
	}
	pwm, err = gpio.OutputToPWM(out)
	if err != nil {
		t.Fatalf("OutputToPWM: %v", err)
	}
	if _, err := pwm.IntoInput(); err != nil {
		t.Fatalf("IntoInput: %v", err)
	}

	assertCalls(t, d, []gpiotest.Call{
		pinMode(12, gpio.ModeInput),
		pinMode(12, gpio.ModePWMOutput),
		pinMode(12, gpio.ModeOutput),
		pinMode(12, gpio.ModePWMOutput),
		pinMode(12, gpio.ModeInput),
	})
}

func TestClockTransitions(t *testing.T) {
	d := &gpiotest.Driver{}
	c := newController(t, gpio.BCM{}, d)

	clock, err := gpio.NewClock(c, gpio.BCM4{})
	if err != nil {
		t.Fatalf("NewClock: %v", err)
	}
	if err := clock.SetFrequency(100000); err != nil {
		t.Fatalf("SetFrequency: %v", err)
	}
	if err := clock.SetFrequency(0); err == nil {
		t.Fatalf("expected error for zero frequency")
	}

	out, err := clock.IntoOutput()
	if err != nil {
		t.Fatalf("IntoOutput: %v", err)
	}
	clock, err = gpio.OutputToClock(out)
	if err != nil {
		t.Fatalf("OutputToClock: %v", err)
	}
	in, err := clock.IntoInput()
	if err != nil {
		t.Fatalf("IntoInput: %v", err)
	}
	if _, err := gpio.InputToClock(in); err != nil {
		t.Fatalf("InputToClock: %v", err)
	}

	assertCalls(t, d, []gpiotest.Call{
		pinMode(4, gpio.ModeGPIOClock),
		{Op: gpiotest.OpGPIOClockSet, Pin: 4, Value: 100000},
		pinMode(4, gpio.ModeOutput),
		pinMode(4, gpio.ModeGPIOClock),
		pinMode(4, gpio.ModeInput),
		pinMode(4, gpio.ModeGPIOClock),
	})
}

func TestSoftPWMWriteAndStop(t *testing.T) {
	d := &gpiotest.Driver{}
	c := newController(t, gpio.BCM{}, d)

	soft, err := gpio.NewSoftPWM(c, c.Pin(23))
	if err != nil {
		t.Fatalf("NewSoftPWM: %v", err)
	}
	if err := soft.Write(50); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := soft.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := soft.Write(10); !errors.Is(err, gpio.ErrSoftPWMStopped) {
		t.Fatalf("write after stop: got %v, want ErrSoftPWMStopped", err)
	}
	if _, err := soft.IntoOutput(); err != nil {
		t.Fatalf("IntoOutput: %v", err)
	}

	assertCalls(t, d, []gpiotest.Call{
		{Op: gpiotest.OpSoftPWMCreate, Pin: 23, Value: gpio.SoftPWMRange},
		{Op: gpiotest.OpSoftPWMWrite, Pin: 23, Value: 50},
		{Op: gpiotest.OpSoftPWMStop, Pin: 23},
		pinMode(23, gpio.ModeOutput),
	})
}

func TestSoftPWMImplicitStop(t *testing.T) {
	d := &gpiotest.Driver{}
	c := newController(t, gpio.WiringPi{}, d)

	out, err := c.Output(4)
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	soft, err := gpio.OutputToSoftPWM(out)
	if err != nil {
		t.Fatalf("OutputToSoftPWM: %v", err)
	}
	if err := soft.Write(150); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := soft.Write(-3); err != nil {
		t.Fatalf("Write: %v", err)
	}
	in, err := soft.IntoInput()
	if err != nil {
		t.Fatalf("IntoInput: %v", err)
	}
	soft, err = gpio.InputToSoftPWM(in)
	if err != nil {
		t.Fatalf("InputToSoftPWM: %v", err)
	}
	if err := soft.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	assertCalls(t, d, []gpiotest.Call{
		pinMode(4, gpio.ModeOutput),
		{Op: gpiotest.OpSoftPWMCreate, Pin: 4, Value: gpio.SoftPWMRange},
		{Op: gpiotest.OpSoftPWMWrite, Pin: 4, Value: 100},
		{Op: gpiotest.OpSoftPWMWrite, Pin: 4, Value: 0},
		{Op: gpiotest.OpSoftPWMStop, Pin: 4},
		pinMode(4, gpio.ModeInput),
		{Op: gpiotest.OpSoftPWMCreate, Pin: 4, Value: gpio.SoftPWMRange},
		{Op: gpiotest.OpSoftPWMStop, Pin: 4},
	})
}

func TestSoftPWMToCapabilityModes(t *testing.T) {
	d := &gpiotest.Driver{}
	c := newController(t, gpio.WiringPi{}, d)

	soft, err := gpio.NewSoftPWM(c, gpio.WiringPi1{})
	if err != nil {
		t.Fatalf("NewSoftPWM: %v", err)
	}
	pwm, err := gpio.SoftPWMToPWM(soft)
	if err != nil {
		t.Fatalf("SoftPWMToPWM: %v", err)
	}
	if err := pwm.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	soft7, err := gpio.NewSoftPWM(c, gpio.WiringPi7{})
	if err != nil {
		t.Fatalf("NewSoftPWM: %v", err)
	}
	if _, err := gpio.SoftPWMToClock(soft7); err != nil {
		t.Fatalf("SoftPWMToClock: %v", err)
	}

	assertCalls(t, d, []gpiotest.Call{
		{Op: gpiotest.OpSoftPWMCreate, Pin: 1, Value: gpio.SoftPWMRange},
		{Op: gpiotest.OpSoftPWMStop, Pin: 1},
		pinMode(1, gpio.ModePWMOutput),
		{Op: gpiotest.OpSoftPWMCreate, Pin: 7, Value: gpio.SoftPWMRange},
		{Op: gpiotest.OpSoftPWMStop, Pin: 7},
		pinMode(7, gpio.ModeGPIOClock),
	})
}
