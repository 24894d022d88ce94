package events

import "time"

// Channel path suffixes, appended to the socket base URL. Each suffix
// requires its own connection; the set is fixed by the remote API.
const (
	ChannelSocket      = "/socket"
	ChannelMount       = "/mount"
	ChannelTPPA        = "/tppa"
	ChannelFilterWheel = "/filterwheel"
)

// Channels returns the fixed set of logical channel names.
func Channels() []string {
	return []string{ChannelSocket, ChannelMount, ChannelTPPA, ChannelFilterWheel}
}

// Status is the connection state of one logical channel.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
	StatusReconnecting
	// StatusGivenUp means the channel exhausted its reconnect budget and
	// will not try again without an explicit Connect call.
	StatusGivenUp
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusReconnecting:
		return "reconnecting"
	case StatusGivenUp:
		return "given_up"
	default:
		return "unknown"
	}
}

// Type tags a parsed inbound event.
type Type string

// Known event tags. Unrecognized tags pass through as Type(name) with a
// generic payload so new server-side events are not dropped.
const (
	TypeImageSave           Type = "IMAGE-SAVE"
	TypeAutofocusFinished   Type = "AUTOFOCUS-FINISHED"
	TypeCameraConnected     Type = "CAMERA-CONNECTED"
	TypeCameraDisconnected  Type = "CAMERA-DISCONNECTED"
	TypeMountConnected      Type = "MOUNT-CONNECTED"
	TypeMountDisconnected   Type = "MOUNT-DISCONNECTED"
	TypeMountParked         Type = "MOUNT-PARKED"
	TypeMountUnparked       Type = "MOUNT-UNPARKED"
	TypeMountHomed          Type = "MOUNT-HOMED"
	TypeMountBeforeFlip     Type = "MOUNT-BEFORE-FLIP"
	TypeMountAfterFlip      Type = "MOUNT-AFTER-FLIP"
	TypeFilterWheelChanged  Type = "FILTERWHEEL-CHANGED"
	TypeFilterWheelConnect  Type = "FILTERWHEEL-CONNECTED"
	TypeFilterWheelDisconn  Type = "FILTERWHEEL-DISCONNECTED"
	TypeFocuserConnected    Type = "FOCUSER-CONNECTED"
	TypeFocuserDisconnected Type = "FOCUSER-DISCONNECTED"
	TypeGuiderStart         Type = "GUIDER-START"
	TypeGuiderStop          Type = "GUIDER-STOP"
	TypeGuiderDither        Type = "GUIDER-DITHER"
	TypeSequenceStarting    Type = "SEQUENCE-STARTING"
	TypeSequenceFinished    Type = "SEQUENCE-FINISHED"
	TypeSequenceFailed      Type = "SEQUENCE-ENTITY-FAILED"
	TypeTPPAProgress        Type = "TPPA-PROGRESS"
	TypeTPPAFinished        Type = "TPPA-FINISHED"
	TypeSafetyChanged       Type = "SAFETY-CHANGED"
)

// Event is a parsed inbound message: a tag plus an optional typed payload.
// Events are ephemeral; they are delivered to subscribers and not kept.
type Event struct {
	Type       Type
	Channel    string
	Payload    any
	Raw        []byte
	ReceivedAt time.Time
}

// GenericPayload is the fallback payload shape for unknown events and for
// payloads that fail typed deserialization.
type GenericPayload map[string]any

// ImageSavePayload carries the statistics attached to IMAGE-SAVE.
type ImageSavePayload struct {
	ExposureTime  float64 `json:"ExposureTime"`
	ImageType     string  `json:"ImageType"`
	Filter        string  `json:"Filter"`
	Temperature   float64 `json:"Temperature"`
	CameraName    string  `json:"CameraName"`
	Gain          int     `json:"Gain"`
	Offset        int     `json:"Offset"`
	Date          string  `json:"Date"`
	TelescopeName string  `json:"TelescopeName"`
	FocalLength   float64 `json:"FocalLength"`
	StDev         float64 `json:"StDev"`
	Mean          float64 `json:"Mean"`
	Median        float64 `json:"Median"`
	Stars         int     `json:"Stars"`
	HFR           float64 `json:"HFR"`
	RmsText       string  `json:"RmsText"`
}

// AutofocusPayload carries the result of a finished autofocus run.
type AutofocusPayload struct {
	Position    int     `json:"Position"`
	Temperature float64 `json:"Temperature"`
	Filter      string  `json:"Filter"`
	Duration    string  `json:"Duration"`
}

// FilterRef identifies a filter by name and wheel slot.
type FilterRef struct {
	Name string `json:"Name"`
	ID   int    `json:"Id"`
}

// FilterChangedPayload carries the previous and new filter of a wheel move.
type FilterChangedPayload struct {
	Previous FilterRef `json:"Previous"`
	New      FilterRef `json:"New"`
}

// FlipPayload carries meridian flip timing.
type FlipPayload struct {
	ExecutionTime float64 `json:"ExecutionTime"`
}

// TPPAPayload carries three-point polar alignment progress.
type TPPAPayload struct {
	AzimuthError  float64 `json:"AzimuthError"`
	AltitudeError float64 `json:"AltitudeError"`
	TotalError    float64 `json:"TotalError"`
}

// SafetyPayload carries safety monitor state changes.
type SafetyPayload struct {
	IsSafe bool `json:"IsSafe"`
}
