package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gloworm-vision/gloworm-gpio/hardware"
	"github.com/gloworm-vision/gloworm-gpio/hardware/gpio"
	"github.com/gloworm-vision/gloworm-gpio/store"
	"github.com/sirupsen/logrus"
)

type fakeHardware struct {
	brightness float64
	statuses   map[hardware.Status]bool
	closed     bool
	err        error
}

func (f *fakeHardware) Name() string { return "fake" }

func (f *fakeHardware) Close() error {
	f.closed = true
	return nil
}

func (f *fakeHardware) SetLights(on bool) error {
	f.brightness = 0
	if on {
		f.brightness = 1
	}
	return nil
}

func (f *fakeHardware) SetLightBrightness(v float64) error {
	if f.err != nil {
		return f.err
	}
	f.brightness = v
	return nil
}

func (f *fakeHardware) SetStatus(status hardware.Status, value bool) error {
	if status != hardware.TargetAquired {
		return unsupportedStatus(status)
	}
	if f.statuses == nil {
		f.statuses = make(map[hardware.Status]bool)
	}
	f.statuses[status] = value
	return nil
}

func (f *fakeHardware) Board() hardware.Board {
	return hardware.Board{Name: f.Name(), Numbering: "bcm", Revision: 2, Brightness: f.brightness}
}

// unsupportedStatus builds an ErrUnsupportedStatus from outside the hardware
// package.
func unsupportedStatus(status hardware.Status) error {
	_, err := hardware.ParseStatus("unsupported " + status.String())
	return err
}

type testServer struct {
	*Server
	handler http.Handler
	opened  []*fakeHardware
}

func newTestServer(t *testing.T, config *hardware.Config) *testServer {
	t.Helper()

	st, err := store.OpenBBolt(filepath.Join(t.TempDir(), "store.db"), 0600, nil)
	if err != nil {
		t.Fatalf("OpenBBolt: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if config != nil {
		if err := st.PutHardwareConfig(*config); err != nil {
			t.Fatalf("PutHardwareConfig: %v", err)
		}
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ts := &testServer{}
	ts.Server = &Server{
		Store:  st,
		Logger: logger,
		NewHardware: func(config hardware.Config) (hardware.Hardware, error) {
			if config.Gloworm == nil {
				return nil, errors.New("no hardware configured")
			}
			h := &fakeHardware{}
			ts.opened = append(ts.opened, h)
			return h, nil
		},
	}
	if err := ts.init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	ts.handler = ts.routes()

	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	return rec
}

func (ts *testServer) current() *fakeHardware {
	return ts.opened[len(ts.opened)-1]
}

var glowormConfig = &hardware.Config{Gloworm: &hardware.GlowormConfig{Driver: hardware.DriverPigpio}}

func TestHardwareConfig(t *testing.T) {
	ts := newTestServer(t, nil)

	if rec := ts.do(t, http.MethodGet, "/hardware", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("GET /hardware before a config: got %d", rec.Code)
	}
	if rec := ts.do(t, http.MethodPut, "/hardware", "{"); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("PUT /hardware with bad JSON: got %d", rec.Code)
	}

	body := `{"gloworm": {"driver": "periph", "pwmRange": 480}}`
	if rec := ts.do(t, http.MethodPut, "/hardware", body); rec.Code != http.StatusNoContent {
		t.Fatalf("PUT /hardware: got %d: %s", rec.Code, rec.Body)
	}

	rec := ts.do(t, http.MethodGet, "/hardware", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /hardware: got %d", rec.Code)
	}
	var config hardware.Config
	if err := json.NewDecoder(rec.Body).Decode(&config); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if config.Gloworm == nil || config.Gloworm.Driver != hardware.DriverPeriph || config.Gloworm.PWMRange != 480 {
		t.Fatalf("unexpected config %+v", config.Gloworm)
	}
}

func TestUpdateHardware(t *testing.T) {
	ts := newTestServer(t, nil)

	if rec := ts.do(t, http.MethodPut, "/lights", "true"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("PUT /lights without hardware: got %d", rec.Code)
	}
	if rec := ts.do(t, http.MethodPost, "/rpc/updateHardware", ""); rec.Code != http.StatusInternalServerError {
		t.Fatalf("update without a config: got %d", rec.Code)
	}

	if err := ts.Store.PutHardwareConfig(*glowormConfig); err != nil {
		t.Fatalf("PutHardwareConfig: %v", err)
	}
	if rec := ts.do(t, http.MethodPost, "/rpc/updateHardware", ""); rec.Code != http.StatusOK {
		t.Fatalf("POST /rpc/updateHardware: got %d: %s", rec.Code, rec.Body)
	}
	if rec := ts.do(t, http.MethodPost, "/rpc/updateHardware", ""); rec.Code != http.StatusOK {
		t.Fatalf("POST /rpc/updateHardware: got %d: %s", rec.Code, rec.Body)
	}

	if len(ts.opened) != 2 {
		t.Fatalf("expected two hardware instances, got %d", len(ts.opened))
	}
	if !ts.opened[0].closed || ts.opened[1].closed {
		t.Fatalf("old hardware should be closed before opening the new one")
	}
}

func TestLightsAndStatus(t *testing.T) {
	ts := newTestServer(t, glowormConfig)

	if rec := ts.do(t, http.MethodPut, "/lights", "true"); rec.Code != http.StatusNoContent {
		t.Fatalf("PUT /lights: got %d: %s", rec.Code, rec.Body)
	}
	if b := ts.current().brightness; b != 1 {
		t.Fatalf("lights should be on, brightness %v", b)
	}

	if rec := ts.do(t, http.MethodPut, "/lights/brightness", "0.3"); rec.Code != http.StatusNoContent {
		t.Fatalf("PUT /lights/brightness: got %d: %s", rec.Code, rec.Body)
	}
	if rec := ts.do(t, http.MethodPut, "/lights/brightness", "2"); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("PUT /lights/brightness out of range: got %d", rec.Code)
	}
	if b := ts.current().brightness; b != 0.3 {
		t.Fatalf("brightness %v, want 0.3", b)
	}

	if rec := ts.do(t, http.MethodPut, "/status/targetAquired", "true"); rec.Code != http.StatusNoContent {
		t.Fatalf("PUT /status/targetAquired: got %d: %s", rec.Code, rec.Body)
	}
	if rec := ts.do(t, http.MethodPut, "/status/ready", "true"); rec.Code != http.StatusNotImplemented {
		t.Fatalf("PUT /status/ready: got %d", rec.Code)
	}
	if rec := ts.do(t, http.MethodPut, "/status/blinking", "true"); rec.Code != http.StatusNotFound {
		t.Fatalf("PUT /status/blinking: got %d", rec.Code)
	}
	if !ts.current().statuses[hardware.TargetAquired] {
		t.Fatalf("target acquired status should be set")
	}

	state, err := ts.Store.LightState()
	if err != nil {
		t.Fatalf("LightState: %v", err)
	}
	if state.Brightness != 0.3 || !state.Statuses["targetAquired"] || len(state.Statuses) != 1 {
		t.Fatalf("unexpected stored light state %+v", state)
	}

	// new hardware picks up the stored state
	if rec := ts.do(t, http.MethodPost, "/rpc/updateHardware", ""); rec.Code != http.StatusOK {
		t.Fatalf("POST /rpc/updateHardware: got %d", rec.Code)
	}
	if h := ts.current(); h.brightness != 0.3 || !h.statuses[hardware.TargetAquired] {
		t.Fatalf("light state not restored: %+v", h)
	}
}

func TestErrorKinds(t *testing.T) {
	ts := newTestServer(t, glowormConfig)
	ts.current().err = fmt.Errorf("unable to set brightness: %w", gpio.ErrControllerClosed)

	rec := ts.do(t, http.MethodPut, "/lights/brightness", "0.5")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("PUT /lights/brightness: got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Kind != "controllerClosed" || resp.Error == "" {
		t.Fatalf("unexpected error response %+v", resp)
	}

	rec = ts.do(t, http.MethodPut, "/status/ready", "true")
	resp = errorResponse{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Kind != "unsupportedStatus" {
		t.Fatalf("unexpected error response %+v", resp)
	}

	if kind := errorKind(errors.New("plain")); kind != "" {
		t.Fatalf("plain errors have no kind, got %q", kind)
	}
}

func TestGetBoard(t *testing.T) {
	ts := newTestServer(t, nil)
	if rec := ts.do(t, http.MethodGet, "/board", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("GET /board without hardware: got %d", rec.Code)
	}

	ts = newTestServer(t, glowormConfig)
	rec := ts.do(t, http.MethodGet, "/board", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /board: got %d", rec.Code)
	}

	var board hardware.Board
	if err := json.NewDecoder(rec.Body).Decode(&board); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if board.Name != "fake" || board.Numbering != "bcm" || board.Revision != 2 {
		t.Fatalf("unexpected board %+v", board)
	}
}

func TestGetCapabilities(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/capabilities/bcm", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /capabilities/bcm: got %d", rec.Code)
	}
	var table gpio.CapabilityTable
	if err := json.NewDecoder(rec.Body).Decode(&table); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if table.Numbering != "bcm" || len(table.Pins) != 7 {
		t.Fatalf("unexpected table %+v", table)
	}

	rec = ts.do(t, http.MethodGet, "/capabilities/sys", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"pins":[]`) {
		t.Fatalf("GET /capabilities/sys: got %d: %s", rec.Code, rec.Body)
	}

	if rec := ts.do(t, http.MethodGet, "/capabilities/gpiozero", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("GET /capabilities/gpiozero: got %d", rec.Code)
	}
}
