package gpio

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type levelRecorder struct {
	mu     sync.Mutex
	levels []Level
	err    error
}

func (r *levelRecorder) write(level Level) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.levels = append(r.levels, level)
	return r.err
}

func (r *levelRecorder) snapshot() []Level {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Level(nil), r.levels...)
}

func waitForWrites(t *testing.T, r *levelRecorder, n int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for len(r.snapshot()) < n {
		if time.Now().After(deadline) {
			t.Fatalf("timer made %d writes, want at least %d", len(r.snapshot()), n)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSoftPWMTimerToggles(t *testing.T) {
	r := &levelRecorder{}
	timer := StartSoftPWMTimer(r.write, 5, 10, 50*time.Microsecond)

	waitForWrites(t, r, 4)
	if err := timer.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	levels := r.snapshot()
	if levels[0] != High {
		t.Fatalf("first write should be high, got %v", levels)
	}
	for i := 0; i+1 < len(levels)-1; i++ {
		if levels[i] == levels[i+1] {
			t.Fatalf("half duty should alternate levels, got %v", levels)
		}
	}
	if levels[len(levels)-1] != Low {
		t.Fatalf("stopped timer should leave the pin low, got %v", levels)
	}
}

func TestSoftPWMTimerFullAndZeroDuty(t *testing.T) {
	r := &levelRecorder{}
	timer := StartSoftPWMTimer(r.write, 100, 10, 50*time.Microsecond)
	if timer.Duty() != 10 {
		t.Fatalf("initial duty should be clamped to the range, got %d", timer.Duty())
	}

	waitForWrites(t, r, 3)
	timer.Set(-5)
	if timer.Duty() != 0 {
		t.Fatalf("duty should be clamped to zero, got %d", timer.Duty())
	}
	if err := timer.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	levels := r.snapshot()
	for _, level := range levels[:3] {
		if level != High {
			t.Fatalf("full duty should only drive high, got %v", levels)
		}
	}
}

func TestSoftPWMTimerReportsWriteError(t *testing.T) {
	r := &levelRecorder{}
	timer := StartSoftPWMTimer(r.write, 5, 10, 50*time.Microsecond)

	waitForWrites(t, r, 1)
	r.mu.Lock()
	r.err = errors.New("bus error")
	r.mu.Unlock()
	waitForWrites(t, r, len(r.snapshot())+2)

	if err := timer.Stop(); err == nil {
		t.Fatalf("expected the write error from Stop")
	}
}

func TestSoftPWMBank(t *testing.T) {
	var bank SoftPWMBank
	r := &levelRecorder{}

	if err := bank.Write(3, 10); err == nil {
		t.Fatalf("expected error writing to a pin without a timer")
	}
	if err := bank.Stop(3); err != nil {
		t.Fatalf("stopping a pin without a timer: %v", err)
	}

	if err := bank.Create(3, r.write, 0, SoftPWMRange); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := bank.Create(3, r.write, 0, SoftPWMRange); err == nil {
		t.Fatalf("expected error creating a second timer on a pin")
	}
	if err := bank.Write(3, 40); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := bank.Create(4, r.write, 20, SoftPWMRange); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := bank.Stop(3); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := bank.Write(3, 40); err == nil {
		t.Fatalf("expected error writing to a stopped pin")
	}
	if err := bank.StopAll(); err != nil {
		t.Fatalf("StopAll: %v", err)
	}
	if err := bank.Write(4, 40); err == nil {
		t.Fatalf("expected error writing after StopAll")
	}
}
