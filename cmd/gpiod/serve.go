package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gloworm-vision/gloworm-gpio/hardware"
	"github.com/gloworm-vision/gloworm-gpio/server"
	"github.com/gloworm-vision/gloworm-gpio/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	serveOpts = struct {
		addr     string
		db       string
		config   string
		logLevel string
	}{}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long:  "Run the HTTP server. With --config, the hardware config in the YAML file replaces the stored one before the hardware is set up.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.New()
			level, err := logrus.ParseLevel(serveOpts.logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(level)

			st, err := store.OpenBBolt(serveOpts.db, 0666, nil)
			if err != nil {
				return err
			}
			defer st.Close()

			if serveOpts.config != "" {
				config, err := readConfig(serveOpts.config)
				if err != nil {
					return err
				}
				if err := st.PutHardwareConfig(config); err != nil {
					return err
				}
				logger.WithField("path", serveOpts.config).Info("loaded hardware config")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := server.Server{Addr: serveOpts.addr, Store: st, Logger: logger}
			return s.Run(ctx)
		},
	}
)

func init() {
	serveCmd.Flags().StringVarP(&serveOpts.addr, "addr", "a", ":8080", "address to serve http on")
	serveCmd.Flags().StringVar(&serveOpts.db, "db", "store.db", "path to the bbolt store")
	serveCmd.Flags().StringVarP(&serveOpts.config, "config", "c", "", "YAML hardware config to store before starting")
	serveCmd.Flags().StringVar(&serveOpts.logLevel, "log-level", "info", "logrus log level")
}

// readConfig decodes a hardware config from a YAML file, for example:
//
//	gloworm:
//	  driver: pigpio
//	  pigpioAddr: localhost:8888
//	  pwmRange: 1024
func readConfig(path string) (hardware.Config, error) {
	var config hardware.Config

	f, err := os.Open(path)
	if err != nil {
		return config, fmt.Errorf("unable to open hardware config: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return config, fmt.Errorf("unable to decode hardware config: %w", err)
	}

	return config, nil
}
