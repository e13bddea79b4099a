package main

import (
	"fmt"
	"os"

	"github.com/gloworm-vision/gloworm-gpio/hardware/gpio"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities [numbering]",
	Short: "Print the pins with hardware PWM or clock output",
	Long:  "Print the capability table of one numbering scheme (wiringpi, bcm, phys or sys), or of all of them, as YAML.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tables := gpio.CapabilityTables()

		if len(args) == 1 {
			numbering, err := gpio.ParseNumbering(args[0])
			if err != nil {
				return err
			}

			var found []gpio.CapabilityTable
			for _, t := range tables {
				if t.Numbering == numbering.String() {
					found = append(found, t)
				}
			}
			if len(found) == 0 {
				return fmt.Errorf("no capability table for %s numbering", numbering)
			}
			tables = found
		}

		encoder := yaml.NewEncoder(os.Stdout)
		defer encoder.Close()

		return encoder.Encode(map[string]any{"schemes": tables})
	},
}
