package server

import (
	"fmt"
	"sync"

	"github.com/gloworm-vision/gloworm-gpio/hardware"
)

// hardwareManager synchronizes access to the underlying hardware. We need to close
// hardware before setting up new hardware (only one GPIO controller can be open per
// process), so we can't be passing out hardware and then close it while a caller
// might be using it.
type hardwareManager struct {
	hardware hardware.Hardware
	mu       *sync.Mutex

	open func(config hardware.Config) (hardware.Hardware, error)
}

func (h *hardwareManager) Update(config hardware.Config) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hardware != nil {
		err := h.hardware.Close()
		h.hardware = nil
		if err != nil {
			return fmt.Errorf("unable to close current hardware: %w", err)
		}
	}

	var err error
	h.hardware, err = h.open(config)
	if err != nil {
		h.hardware = nil
		return fmt.Errorf("unable to create new hardware from config: %w", err)
	}

	return nil
}

// View calls fn with the current hardware, or with nil if no hardware is set
// up. The hardware must not be used after fn returns. Calls are serialized,
// since the GPIO handles behind the hardware aren't safe for concurrent use.
func (h *hardwareManager) View(fn func(h hardware.Hardware)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	fn(h.hardware)
}

func (h *hardwareManager) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hardware == nil {
		return nil
	}

	err := h.hardware.Close()
	h.hardware = nil

	return err
}
