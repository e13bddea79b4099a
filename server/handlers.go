package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gloworm-vision/gloworm-gpio/hardware"
	"github.com/gloworm-vision/gloworm-gpio/hardware/gpio"
	"github.com/gloworm-vision/gloworm-gpio/store"
	"github.com/julienschmidt/httprouter"
)

var errNoHardware = errors.New("no hardware is set up")

func (s *Server) getHardware(res http.ResponseWriter, req *http.Request) {
	config, err := s.Store.HardwareConfig()
	if errors.Is(err, store.ErrNotFound) {
		respond(res, err, http.StatusNotFound)
		return
	} else if err != nil {
		respond(res, err, http.StatusInternalServerError)
		return
	}

	respond(res, config, http.StatusOK)
}

func (s *Server) putHardware(res http.ResponseWriter, req *http.Request) {
	var hardware hardware.Config
	if err := json.NewDecoder(req.Body).Decode(&hardware); err != nil {
		respond(res, err, http.StatusUnprocessableEntity)
		return
	}

	if err := s.Store.PutHardwareConfig(hardware); err != nil {
		respond(res, err, http.StatusInternalServerError)
		return
	}

	respond(res, nil, http.StatusNoContent)
}

func (s *Server) updateHardware(res http.ResponseWriter, req *http.Request) {
	config, err := s.Store.HardwareConfig()
	if err != nil {
		respond(res, err, http.StatusInternalServerError)
		return
	}

	if err := s.hardwareManager.Update(config); err != nil {
		respond(res, err, http.StatusInternalServerError)
		return
	}
	s.restoreLights()

	respond(res, nil, http.StatusOK)
}

// updateLights runs fn on the current hardware and stores the light state it
// leaves behind. fn returns the status code to respond with on error.
func (s *Server) updateLights(res http.ResponseWriter, fn func(h hardware.Hardware, state *store.LightState) (int, error)) {
	var (
		code = http.StatusNoContent
		err  error
	)

	s.hardwareManager.View(func(h hardware.Hardware) {
		if h == nil {
			code, err = http.StatusServiceUnavailable, errNoHardware
			return
		}

		var state store.LightState
		if state, err = s.Store.LightState(); err != nil {
			code = http.StatusInternalServerError
			return
		}

		if code, err = fn(h, &state); err != nil {
			return
		}

		if err = s.Store.PutLightState(state); err != nil {
			code = http.StatusInternalServerError
		}
	})
	if err != nil {
		respond(res, err, code)
		return
	}

	respond(res, nil, http.StatusNoContent)
}

func (s *Server) putLights(res http.ResponseWriter, req *http.Request) {
	var on bool
	if err := json.NewDecoder(req.Body).Decode(&on); err != nil {
		respond(res, err, http.StatusUnprocessableEntity)
		return
	}

	s.updateLights(res, func(h hardware.Hardware, state *store.LightState) (int, error) {
		light, ok := h.(hardware.BinaryLight)
		if !ok {
			return http.StatusNotImplemented, fmt.Errorf("%s has no switchable lights", h.Name())
		}
		if err := light.SetLights(on); err != nil {
			return http.StatusInternalServerError, err
		}

		state.Brightness = 0
		if on {
			state.Brightness = 1
		}
		return http.StatusNoContent, nil
	})
}

func (s *Server) putLightBrightness(res http.ResponseWriter, req *http.Request) {
	var brightness float64
	if err := json.NewDecoder(req.Body).Decode(&brightness); err != nil {
		respond(res, err, http.StatusUnprocessableEntity)
		return
	}
	if brightness < 0 || brightness > 1 {
		respond(res, fmt.Errorf("brightness %v is outside of [0, 1]", brightness), http.StatusUnprocessableEntity)
		return
	}

	s.updateLights(res, func(h hardware.Hardware, state *store.LightState) (int, error) {
		light, ok := h.(hardware.DimmableLight)
		if !ok {
			return http.StatusNotImplemented, fmt.Errorf("%s has no dimmable lights", h.Name())
		}
		if err := light.SetLightBrightness(brightness); err != nil {
			return http.StatusInternalServerError, err
		}

		state.Brightness = brightness
		return http.StatusNoContent, nil
	})
}

func (s *Server) putStatus(res http.ResponseWriter, req *http.Request) {
	params := httprouter.ParamsFromContext(req.Context())
	name := params.ByName("name")

	status, err := hardware.ParseStatus(name)
	if err != nil {
		respond(res, err, http.StatusNotFound)
		return
	}

	var value bool
	if err := json.NewDecoder(req.Body).Decode(&value); err != nil {
		respond(res, err, http.StatusUnprocessableEntity)
		return
	}

	s.updateLights(res, func(h hardware.Hardware, state *store.LightState) (int, error) {
		indicators, ok := h.(hardware.StatusIndicators)
		if !ok {
			return http.StatusNotImplemented, fmt.Errorf("%s has no status indicators", h.Name())
		}
		if err := indicators.SetStatus(status, value); errors.Is(err, hardware.ErrUnsupportedStatus{}) {
			return http.StatusNotImplemented, err
		} else if err != nil {
			return http.StatusInternalServerError, err
		}

		if state.Statuses == nil {
			state.Statuses = make(map[string]bool)
		}
		state.Statuses[name] = value
		return http.StatusNoContent, nil
	})
}

func (s *Server) getBoard(res http.ResponseWriter, req *http.Request) {
	var (
		board hardware.Board
		code  = http.StatusOK
		err   error
	)

	s.hardwareManager.View(func(h hardware.Hardware) {
		if h == nil {
			code, err = http.StatusServiceUnavailable, errNoHardware
			return
		}

		describer, ok := h.(hardware.BoardDescriber)
		if !ok {
			code, err = http.StatusNotImplemented, fmt.Errorf("%s can't describe its board", h.Name())
			return
		}
		board = describer.Board()
	})
	if err != nil {
		respond(res, err, code)
		return
	}

	respond(res, board, http.StatusOK)
}

func (s *Server) getCapabilities(res http.ResponseWriter, req *http.Request) {
	params := httprouter.ParamsFromContext(req.Context())

	numbering, err := gpio.ParseNumbering(params.ByName("numbering"))
	if err != nil {
		respond(res, err, http.StatusNotFound)
		return
	}

	for _, table := range gpio.CapabilityTables() {
		if table.Numbering == numbering.String() {
			if table.Pins == nil {
				table.Pins = []gpio.CapabilityPin{}
			}
			respond(res, table, http.StatusOK)
			return
		}
	}

	respond(res, fmt.Errorf("no capability table for %s numbering", numbering), http.StatusNotFound)
}
