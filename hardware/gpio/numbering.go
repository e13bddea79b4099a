package gpio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// wiringPi pin to Broadcom GPIO, by board revision. -1 is unconnected.
var (
	wiringPiToBCMRev1 = []int{
		17, 18, 21, 22, 23, 24, 25, 4, // 0-7
		0, 1, // I2C
		8, 7, // SPI CE0, CE1
		10, 9, 11, // SPI MOSI, MISO, SCLK
		14, 15, // UART
	}

	wiringPiToBCMRev2 = []int{
		17, 18, 27, 22, 23, 24, 25, 4, // 0-7
		2, 3, // I2C
		8, 7, // SPI CE0, CE1
		10, 9, 11, // SPI MOSI, MISO, SCLK
		14, 15, // UART
		28, 29, 30, 31, // P5 header
		5, 6, 13, 19, 26, 12, 16, 20, 21, // B+ 21-29
		0, 1, // ID EEPROM
	}

	physToBCMRev1 = []int{
		-1,
		-1, -1, 0, -1, 1, -1, 4, 14, -1, 15, // 1-10
		17, 18, 21, -1, 22, 23, -1, 24, 10, -1, // 11-20
		9, 25, 11, 8, -1, 7, // 21-26
	}

	physToBCMRev2 = []int{
		-1,
		-1, -1, 2, -1, 3, -1, 4, 14, -1, 15, // 1-10
		17, 18, 27, -1, 22, 23, -1, 24, 10, -1, // 11-20
		9, 25, 11, 8, -1, 7, 0, 1, 5, -1, // 21-30
		6, 12, 13, -1, 19, 16, 26, 20, -1, 21, // 31-40
	}
)

// BoardRevisionFromCode maps a raw hardware revision code, as found in
// /proc/cpuinfo, to the board revision used for pin mapping: 1 for the very
// first boards, 2 for everything since.
func BoardRevisionFromCode(code uint32) int {
	// Bit 23 set means new style revision codes; those are all revision 2.
	if code&(1<<23) != 0 {
		return 2
	}

	// Over-volted boards have bit 24 set.
	switch code & 0xffff {
	case 0x0002, 0x0003:
		return 1
	}
	return 2
}

// ToBCM translates a pin number in the given numbering to its Broadcom GPIO
// number. The board revision matters for wiringPi and physical numbering.
func ToBCM(numbering Numbering, boardRevision, pin int) (int, error) {
	var table []int

	switch numbering {
	case NumberingBCM, NumberingSys:
		if pin < 0 || pin > 53 {
			return -1, fmt.Errorf("bcm pin %d: %w", pin, ErrNoSuchPin)
		}
		return pin, nil
	case NumberingWiringPi:
		table = wiringPiToBCMRev2
		if boardRevision == 1 {
			table = wiringPiToBCMRev1
		}
	case NumberingPhys:
		table = physToBCMRev2
		if boardRevision == 1 {
			table = physToBCMRev1
		}
	default:
		return -1, fmt.Errorf("unknown numbering %v", numbering)
	}

	if pin < 0 || pin >= len(table) || table[pin] < 0 {
		return -1, fmt.Errorf("%s pin %d: %w", numbering, pin, ErrNoSuchPin)
	}

	return table[pin], nil
}

// ReadRevisionCode returns the hardware revision code from a /proc/cpuinfo
// style listing.
func ReadRevisionCode(r io.Reader) (uint32, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok || strings.TrimSpace(key) != "Revision" {
			continue
		}

		code, err := strconv.ParseUint(strings.TrimSpace(value), 16, 32)
		if err != nil {
			return 0, fmt.Errorf("unable to parse revision %q: %w", value, err)
		}
		return uint32(code), nil
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("unable to read cpuinfo: %w", err)
	}

	return 0, fmt.Errorf("no revision in cpuinfo")
}

// ReadBoardRevision returns the board revision of the running Pi.
func ReadBoardRevision() (int, error) {
	f, err := os.Open("/proc/cpuinfo")
	if err != nil {
		return 0, fmt.Errorf("unable to open cpuinfo: %w", err)
	}
	defer f.Close()

	code, err := ReadRevisionCode(f)
	if err != nil {
		return 0, err
	}

	return BoardRevisionFromCode(code), nil
}

// PinMap translates the pin numbers of one numbering to Broadcom GPIOs on a
// given board. Drivers that talk Broadcom numbers natively keep one.
type PinMap struct {
	Numbering Numbering
	Revision  int
}

// BCM returns the Broadcom GPIO number of pin.
func (m PinMap) BCM(pin int) (int, error) {
	return ToBCM(m.Numbering, m.Revision, pin)
}
