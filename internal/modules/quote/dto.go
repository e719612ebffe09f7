package quote

import (
	"encoding/json"

	"photobook/internal/pricing"
)

// Client message types.
const (
	MsgSetServiceType        = "set_service_type"
	MsgSetPackageType        = "set_package_type"
	MsgSetPeopleCount        = "set_people_count"
	MsgSetTransportationFee  = "set_transportation_fee"
	MsgSetTransportationZone = "set_transportation_zone"
	MsgSetEventHours         = "set_event_hours"
	MsgToggleAddon           = "toggle_addon"
	MsgToggleVideoPackage    = "toggle_video_package"
	MsgSetVideoPackage       = "set_video_package"
	MsgNavigate              = "navigate"
)

// Server message types.
const (
	EventSnapshot = "snapshot"
	EventError    = "error"
)

// Reasons attached to a snapshot.
const (
	ReasonInitial      = "initial"
	ReasonAction       = "action"
	ReasonConfigLoaded = "config_loaded"
)

type ClientMessage struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type ServerMessage struct {
	Type         string            `json:"type"`
	Reason       string            `json:"reason,omitempty"`
	TotalChanged bool              `json:"total_changed,omitempty"`
	Snapshot     *pricing.Snapshot `json:"snapshot,omitempty"`
	Error        *ErrorPayload     `json:"error,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
