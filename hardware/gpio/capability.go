package gpio

import (
	_ "embed"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/capgen -in capabilities.yaml -out pins_gen.go

//go:embed capabilities.yaml
var rawCapabilities []byte

// Capability is a special hardware function available on some pins.
type Capability string

const (
	CapHardwarePWM Capability = "pwm"
	CapGPIOClock   Capability = "clock"
)

// CapabilityPin is one entry of the capability table.
type CapabilityPin struct {
	Number     int        `yaml:"number" json:"number"`
	Capability Capability `yaml:"capability" json:"capability"`
	Function   string     `yaml:"function" json:"function"`
	BCM        int        `yaml:"bcm" json:"bcm"`
}

// CapabilityTable lists the capability pins of one numbering scheme.
type CapabilityTable struct {
	Numbering string          `yaml:"numbering" json:"numbering"`
	Scheme    string          `yaml:"scheme" json:"scheme"`
	Pins      []CapabilityPin `yaml:"pins" json:"pins"`
}

var capabilities map[Numbering]map[int]CapabilityPin

// ParseCapabilities decodes a capability table document.
func ParseCapabilities(data []byte) ([]CapabilityTable, error) {
	var doc struct {
		Schemes []CapabilityTable `yaml:"schemes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unable to decode capability table: %w", err)
	}

	for _, t := range doc.Schemes {
		if _, err := ParseNumbering(t.Numbering); err != nil {
			return nil, err
		}
		for _, p := range t.Pins {
			if p.Capability != CapHardwarePWM && p.Capability != CapGPIOClock {
				return nil, fmt.Errorf("%s pin %d: unknown capability %q", t.Numbering, p.Number, p.Capability)
			}
		}
	}

	return doc.Schemes, nil
}

// CapabilityTables returns the built in capability tables.
func CapabilityTables() []CapabilityTable {
	tables, _ := ParseCapabilities(rawCapabilities)
	return tables
}

// Capabilities returns the capability table entry for a pin, if it has one.
func Capabilities(numbering Numbering, pin int) (CapabilityPin, bool) {
	p, ok := capabilities[numbering][pin]
	return p, ok
}

// HasCapability reports whether the pin supports the capability.
func HasCapability(numbering Numbering, pin int, c Capability) bool {
	p, ok := capabilities[numbering][pin]
	return ok && p.Capability == c
}

// CapabilityPins returns the sorted pin numbers supporting the capability.
func CapabilityPins(numbering Numbering, c Capability) []int {
	pins := capabilities[numbering]

	numbers := make([]int, 0, len(pins))
	for _, n := range maps.Keys(pins) {
		if pins[n].Capability == c {
			numbers = append(numbers, n)
		}
	}
	slices.Sort(numbers)

	return numbers
}

func init() {
	tables, err := ParseCapabilities(rawCapabilities)
	if err != nil {
		panic(err)
	}

	capabilities = make(map[Numbering]map[int]CapabilityPin, len(tables))
	for _, t := range tables {
		n, _ := ParseNumbering(t.Numbering)
		pins := make(map[int]CapabilityPin, len(t.Pins))
		for _, p := range t.Pins {
			pins[p.Number] = p
		}
		capabilities[n] = pins
	}
}
