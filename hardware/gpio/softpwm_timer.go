package gpio

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// SoftPWMStep is the length of one software PWM step. With SoftPWMRange
// steps this gives a period of 10ms.
const SoftPWMStep = 100 * time.Microsecond

// SoftPWMTimer emulates PWM on a pin by toggling it from a goroutine. It is
// used by drivers without a native software PWM.
type SoftPWMTimer struct {
	write    func(Level) error
	pwmRange int
	step     time.Duration

	mu   sync.Mutex
	duty int
	err  error

	cancel context.CancelFunc
	done   chan struct{}
}

// StartSoftPWMTimer starts toggling through write with the given duty,
// range and step length.
func StartSoftPWMTimer(write func(Level) error, initial, pwmRange int, step time.Duration) *SoftPWMTimer {
	ctx, cancel := context.WithCancel(context.Background())

	t := &SoftPWMTimer{
		write:    write,
		pwmRange: pwmRange,
		step:     step,
		duty:     clampDuty(initial, pwmRange),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go t.run(ctx)

	return t
}

// Set changes the duty, starting with the next period.
func (t *SoftPWMTimer) Set(duty int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.duty = clampDuty(duty, t.pwmRange)
}

// Duty returns the current duty.
func (t *SoftPWMTimer) Duty() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duty
}

// Stop stops the goroutine and leaves the pin LOW. It returns the first
// write error the timer ran into, if any.
func (t *SoftPWMTimer) Stop() error {
	t.cancel()
	<-t.done

	if err := t.write(Low); err != nil {
		return fmt.Errorf("unable to drive pin low: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *SoftPWMTimer) run(ctx context.Context) {
	defer close(t.done)

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	wait := func(steps int) bool {
		if steps <= 0 {
			return true
		}
		timer.Reset(time.Duration(steps) * t.step)
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
			return true
		}
	}

	for {
		duty := t.Duty()

		if duty > 0 {
			t.drive(High)
		}
		if !wait(duty) {
			return
		}

		if duty < t.pwmRange {
			t.drive(Low)
		}
		if !wait(t.pwmRange - duty) {
			return
		}
	}
}

func (t *SoftPWMTimer) drive(level Level) {
	if err := t.write(level); err != nil {
		t.mu.Lock()
		if t.err == nil {
			t.err = err
		}
		t.mu.Unlock()
	}
}

func clampDuty(duty, pwmRange int) int {
	if duty < 0 {
		return 0
	}
	if duty > pwmRange {
		return pwmRange
	}
	return duty
}

// SoftPWMBank keeps the software PWM timers of a driver, one per pin.
type SoftPWMBank struct {
	mu     sync.Mutex
	timers map[int]*SoftPWMTimer
}

// Create starts a timer on pin. A timer already running on the pin is an
// error.
func (b *SoftPWMBank) Create(pin int, write func(Level) error, initial, pwmRange int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timers == nil {
		b.timers = make(map[int]*SoftPWMTimer)
	}
	if _, ok := b.timers[pin]; ok {
		return fmt.Errorf("software pwm already running on pin %d", pin)
	}
	b.timers[pin] = StartSoftPWMTimer(write, initial, pwmRange, SoftPWMStep)

	return nil
}

// Write sets the duty of the timer on pin.
func (b *SoftPWMBank) Write(pin, value int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.timers[pin]
	if !ok {
		return fmt.Errorf("no software pwm running on pin %d", pin)
	}
	t.Set(value)

	return nil
}

// Stop stops and removes the timer on pin. Stopping a pin without a timer
// does nothing.
func (b *SoftPWMBank) Stop(pin int) error {
	b.mu.Lock()
	t, ok := b.timers[pin]
	delete(b.timers, pin)
	b.mu.Unlock()

	if !ok {
		return nil
	}
	return t.Stop()
}

// StopAll stops every timer.
func (b *SoftPWMBank) StopAll() error {
	b.mu.Lock()
	timers := b.timers
	b.timers = nil
	b.mu.Unlock()

	var firstErr error
	for pin, t := range timers {
		if err := t.Stop(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("pin %d: %w", pin, err)
		}
	}

	return firstErr
}
