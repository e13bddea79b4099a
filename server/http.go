package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gloworm-vision/gloworm-gpio/hardware"
	"github.com/gloworm-vision/gloworm-gpio/hardware/gpio"
)

type errorResponse struct {
	Error string `json:"error"`
	// Kind names the gpio or hardware error behind Error, if there is one
	Kind string `json:"kind,omitempty"`
}

var errorKinds = []struct {
	target error
	kind   string
}{
	{gpio.ErrInitialization{}, "initialization"},
	{gpio.ErrDoubleAllocation{}, "doubleAllocation"},
	{gpio.ErrPrivilegeNoop{}, "privilegeNoop"},
	{gpio.ErrControllerClosed, "controllerClosed"},
	{gpio.ErrConsumed, "consumed"},
	{gpio.ErrSoftPWMStopped, "softPWMStopped"},
	{gpio.ErrUnsupported, "unsupported"},
	{gpio.ErrNoSuchPin, "noSuchPin"},
	{hardware.ErrUnsupportedStatus{}, "unsupportedStatus"},
}

func errorKind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k.kind
		}
	}
	return ""
}

// respond encodes data as JSON and responds with it and the http code. Errors
// are sent as an errorResponse, nil data sends no body.
func respond(w http.ResponseWriter, data interface{}, httpCode int) {
	var resp interface{}
	if v, ok := data.(error); ok {
		resp = errorResponse{Error: v.Error(), Kind: errorKind(v)}
	} else {
		resp = data
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)

	if resp != nil {
		_ = json.NewEncoder(w).Encode(resp)
	}
}
