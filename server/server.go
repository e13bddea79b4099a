package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gloworm-vision/gloworm-gpio/hardware"
	"github.com/gloworm-vision/gloworm-gpio/store"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

type Server struct {
	Addr string

	Store  store.Store
	Logger *logrus.Logger

	// NewHardware opens hardware from a config. It defaults to hardware.New.
	NewHardware func(config hardware.Config) (hardware.Hardware, error)

	hardwareManager *hardwareManager
}

func (s *Server) Run(ctx context.Context) error {
	if err := s.init(); err != nil {
		return fmt.Errorf("unable to initialize: %w", err)
	}
	defer s.hardwareManager.Close()

	httpServer := &http.Server{
		Addr:              s.Addr,
		Handler:           s.routes(),
		ReadTimeout:       time.Second * 15,
		ReadHeaderTimeout: time.Second * 15,
		IdleTimeout:       time.Second * 30,
		MaxHeaderBytes:    4096,
	}

	listenErrs := make(chan error)
	go func() {
		s.Logger.WithField("addr", s.Addr).Info("serving http")
		listenErrs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-listenErrs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() http.Handler {
	mux := httprouter.New()

	mux.HandlerFunc(http.MethodGet, "/hardware", s.getHardware)
	mux.HandlerFunc(http.MethodPut, "/hardware", s.putHardware)

	mux.HandlerFunc(http.MethodPost, "/rpc/updateHardware", s.updateHardware)

	mux.HandlerFunc(http.MethodPut, "/lights", s.putLights)
	mux.HandlerFunc(http.MethodPut, "/lights/brightness", s.putLightBrightness)
	mux.HandlerFunc(http.MethodPut, "/status/:name", s.putStatus)

	mux.HandlerFunc(http.MethodGet, "/board", s.getBoard)
	mux.HandlerFunc(http.MethodGet, "/capabilities/:numbering", s.getCapabilities)

	return mux
}

// init attempts to initialize the hardware manager with the config from the
// store
func (s *Server) init() error {
	if s.Logger == nil {
		s.Logger = logrus.New()
	}

	newHardware := s.NewHardware
	if newHardware == nil {
		newHardware = func(config hardware.Config) (hardware.Hardware, error) {
			return hardware.New(config, s.Logger)
		}
	}
	s.hardwareManager = &hardwareManager{mu: new(sync.Mutex), open: newHardware}

	config, err := s.Store.HardwareConfig()
	if err != nil {
		s.Logger.Warnf("no hardware config found: %s", err)
		return nil
	}

	if err := s.hardwareManager.Update(config); err != nil {
		s.Logger.Warnf("unable to setup new hardware: %s", err)
		return nil
	}
	s.restoreLights()

	return nil
}

// restoreLights applies the stored light state to freshly set up hardware
func (s *Server) restoreLights() {
	state, err := s.Store.LightState()
	if err != nil {
		s.Logger.Warnf("unable to restore lights: %s", err)
		return
	}

	s.hardwareManager.View(func(h hardware.Hardware) {
		if light, ok := h.(hardware.DimmableLight); ok {
			if err := light.SetLightBrightness(state.Brightness); err != nil {
				s.Logger.Warnf("unable to restore brightness: %s", err)
			}
		} else if light, ok := h.(hardware.BinaryLight); ok {
			if err := light.SetLights(state.Brightness > 0); err != nil {
				s.Logger.Warnf("unable to restore lights: %s", err)
			}
		}

		indicators, ok := h.(hardware.StatusIndicators)
		if !ok {
			return
		}
		for name, value := range state.Statuses {
			status, err := hardware.ParseStatus(name)
			if err != nil {
				s.Logger.Warnf("unable to restore status: %s", err)
				continue
			}
			if err := indicators.SetStatus(status, value); err != nil {
				s.Logger.WithField("status", name).Warnf("unable to restore status: %s", err)
			}
		}
	})
}
