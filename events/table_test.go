package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTypedPayloads(t *testing.T) {
	typ, payload := resolve("IMAGE-SAVE",
		[]byte(`{"Event":"IMAGE-SAVE","ExposureTime":120.0,"Filter":"Ha","Stars":842,"HFR":2.31}`))

	assert.Equal(t, TypeImageSave, typ)
	stats, ok := payload.(ImageSavePayload)
	require.True(t, ok)
	assert.Equal(t, 120.0, stats.ExposureTime)
	assert.Equal(t, "Ha", stats.Filter)
	assert.Equal(t, 842, stats.Stars)
	assert.InDelta(t, 2.31, stats.HFR, 0.001)
}

func TestResolveFilterChanged(t *testing.T) {
	typ, payload := resolve("FILTERWHEEL-CHANGED",
		[]byte(`{"Event":"FILTERWHEEL-CHANGED","Previous":{"Name":"L","Id":0},"New":{"Name":"Ha","Id":4}}`))

	assert.Equal(t, TypeFilterWheelChanged, typ)
	change, ok := payload.(FilterChangedPayload)
	require.True(t, ok)
	assert.Equal(t, "L", change.Previous.Name)
	assert.Equal(t, 4, change.New.ID)
}

func TestResolveBarePayloadlessEvent(t *testing.T) {
	typ, payload := resolve("MOUNT-PARKED", nil)

	assert.Equal(t, TypeMountParked, typ)
	assert.Nil(t, payload)
}

func TestResolveUnknownEventPassesThrough(t *testing.T) {
	typ, payload := resolve("DOME-SHUTTER-OPENED", []byte(`{"Event":"DOME-SHUTTER-OPENED","Percent":50}`))

	assert.Equal(t, Type("DOME-SHUTTER-OPENED"), typ)
	generic, ok := payload.(GenericPayload)
	require.True(t, ok)
	assert.Equal(t, float64(50), generic["Percent"])
}

func TestResolveFallsBackOnBadTypedPayload(t *testing.T) {
	// Stars should be a number; the typed decode fails and the generic
	// shape is delivered instead so the event is not lost.
	typ, payload := resolve("IMAGE-SAVE", []byte(`{"Event":"IMAGE-SAVE","Stars":"many"}`))

	assert.Equal(t, TypeImageSave, typ)
	_, ok := payload.(GenericPayload)
	assert.True(t, ok)
}

func TestParseMessageBareName(t *testing.T) {
	name, payload, ok := parseMessage([]byte(`"MOUNT-HOMED"`))
	require.True(t, ok)
	assert.Equal(t, "MOUNT-HOMED", name)
	assert.Nil(t, payload)

	name, _, ok = parseMessage([]byte("GUIDER-START"))
	require.True(t, ok)
	assert.Equal(t, "GUIDER-START", name)
}

func TestParseMessageTaggedObject(t *testing.T) {
	raw := []byte(`{"Event":"TPPA-PROGRESS","AzimuthError":0.02,"AltitudeError":0.01,"TotalError":0.022}`)

	name, payload, ok := parseMessage(raw)
	require.True(t, ok)
	assert.Equal(t, "TPPA-PROGRESS", name)
	assert.JSONEq(t, string(raw), string(payload))
}

func TestParseMessageEnvelopeWrapped(t *testing.T) {
	raw := []byte(`{"Success":true,"Response":{"Event":"SAFETY-CHANGED","IsSafe":false},"Type":"Socket"}`)

	name, payload, ok := parseMessage(raw)
	require.True(t, ok)
	assert.Equal(t, "SAFETY-CHANGED", name)

	typ, decoded := resolve(name, payload)
	assert.Equal(t, TypeSafetyChanged, typ)
	safety, castOK := decoded.(SafetyPayload)
	require.True(t, castOK)
	assert.False(t, safety.IsSafe)
}

func TestParseMessageUnparseable(t *testing.T) {
	for _, data := range [][]byte{
		nil,
		[]byte("   "),
		[]byte(`{"NotAnEvent":1}`),
		[]byte(`{"Success":true,"Response":{"NoEventHere":1}}`),
	} {
		_, _, ok := parseMessage(data)
		assert.False(t, ok, "input %q should not parse", data)
	}
}

func TestEventTableCoversAllDeclaredTypes(t *testing.T) {
	declared := []Type{
		TypeImageSave, TypeAutofocusFinished, TypeCameraConnected,
		TypeCameraDisconnected, TypeMountConnected, TypeMountDisconnected,
		TypeMountParked, TypeMountUnparked, TypeMountHomed,
		TypeMountBeforeFlip, TypeMountAfterFlip, TypeFilterWheelChanged,
		TypeFilterWheelConnect, TypeFilterWheelDisconn, TypeFocuserConnected,
		TypeFocuserDisconnected, TypeGuiderStart, TypeGuiderStop,
		TypeGuiderDither, TypeSequenceStarting, TypeSequenceFinished,
		TypeSequenceFailed, TypeTPPAProgress, TypeTPPAFinished,
		TypeSafetyChanged,
	}

	assert.Len(t, eventTable, len(declared))
	for _, typ := range declared {
		entry, ok := eventTable[string(typ)]
		require.True(t, ok, "missing table entry for %s", typ)
		assert.Equal(t, typ, entry.typ)
	}
}
