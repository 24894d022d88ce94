package events

import (
	"bytes"

	"github.com/bytedance/sonic"

	"github.com/astrokit/ninaclient/transport"
)

// decoder turns a raw payload into its typed form.
type decoder func([]byte) (any, error)

// typed builds a decoder for a concrete payload type.
func typed[T any]() decoder {
	return func(data []byte) (any, error) {
		var v T
		if err := sonic.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// eventTable maps wire event names to their tag and payload decoder.
// Entries with a nil decoder carry no structured payload. The table is
// static and testable in isolation from the socket plumbing.
var eventTable = map[string]struct {
	typ    Type
	decode decoder
}{
	"IMAGE-SAVE":               {TypeImageSave, typed[ImageSavePayload]()},
	"AUTOFOCUS-FINISHED":       {TypeAutofocusFinished, typed[AutofocusPayload]()},
	"CAMERA-CONNECTED":         {TypeCameraConnected, nil},
	"CAMERA-DISCONNECTED":      {TypeCameraDisconnected, nil},
	"MOUNT-CONNECTED":          {TypeMountConnected, nil},
	"MOUNT-DISCONNECTED":       {TypeMountDisconnected, nil},
	"MOUNT-PARKED":             {TypeMountParked, nil},
	"MOUNT-UNPARKED":           {TypeMountUnparked, nil},
	"MOUNT-HOMED":              {TypeMountHomed, nil},
	"MOUNT-BEFORE-FLIP":        {TypeMountBeforeFlip, typed[FlipPayload]()},
	"MOUNT-AFTER-FLIP":         {TypeMountAfterFlip, typed[FlipPayload]()},
	"FILTERWHEEL-CHANGED":      {TypeFilterWheelChanged, typed[FilterChangedPayload]()},
	"FILTERWHEEL-CONNECTED":    {TypeFilterWheelConnect, nil},
	"FILTERWHEEL-DISCONNECTED": {TypeFilterWheelDisconn, nil},
	"FOCUSER-CONNECTED":        {TypeFocuserConnected, nil},
	"FOCUSER-DISCONNECTED":     {TypeFocuserDisconnected, nil},
	"GUIDER-START":             {TypeGuiderStart, nil},
	"GUIDER-STOP":              {TypeGuiderStop, nil},
	"GUIDER-DITHER":            {TypeGuiderDither, nil},
	"SEQUENCE-STARTING":        {TypeSequenceStarting, nil},
	"SEQUENCE-FINISHED":        {TypeSequenceFinished, nil},
	"SEQUENCE-ENTITY-FAILED":   {TypeSequenceFailed, typed[GenericPayload]()},
	"TPPA-PROGRESS":            {TypeTPPAProgress, typed[TPPAPayload]()},
	"TPPA-FINISHED":            {TypeTPPAFinished, typed[TPPAPayload]()},
	"SAFETY-CHANGED":           {TypeSafetyChanged, typed[SafetyPayload]()},
}

// resolve looks an event name up in the table and decodes its payload.
// Unknown names keep their wire tag; payloads that fail typed decoding
// fall back to GenericPayload.
func resolve(name string, payload []byte) (Type, any) {
	entry, ok := eventTable[name]
	if !ok {
		return Type(name), decodeGeneric(payload)
	}
	if entry.decode == nil || len(payload) == 0 {
		return entry.typ, decodeGeneric(payload)
	}
	value, err := entry.decode(payload)
	if err != nil {
		return entry.typ, decodeGeneric(payload)
	}
	return entry.typ, value
}

// decodeGeneric best-effort decodes a payload into the generic shape.
func decodeGeneric(payload []byte) any {
	if len(payload) == 0 {
		return nil
	}
	var generic GenericPayload
	if err := sonic.Unmarshal(payload, &generic); err != nil {
		return nil
	}
	return generic
}

// parseMessage extracts the event name and payload bytes from a frame.
// Three strategies, in order: a bare event-name string, a JSON object with
// a top-level Event field, and a response envelope with a nested event.
func parseMessage(data []byte) (string, []byte, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return "", nil, false
	}

	// Bare name, either as a JSON string or as a raw text frame.
	if trimmed[0] != '{' {
		var s string
		if err := sonic.Unmarshal(trimmed, &s); err == nil && s != "" {
			return s, nil, true
		}
		return string(trimmed), nil, true
	}

	var tagged struct {
		Event string `json:"Event"`
	}
	if err := sonic.Unmarshal(trimmed, &tagged); err == nil && tagged.Event != "" {
		return tagged.Event, trimmed, true
	}

	var env transport.Envelope
	if err := sonic.Unmarshal(trimmed, &env); err == nil && len(env.Response) > 0 {
		var nested struct {
			Event string `json:"Event"`
		}
		if err := sonic.Unmarshal(env.Response, &nested); err == nil && nested.Event != "" {
			return nested.Event, env.Response, true
		}
	}

	return "", nil, false
}
