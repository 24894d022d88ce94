//go:build integration
// +build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrokit/ninaclient/apierr"
	"github.com/astrokit/ninaclient/config"
	"github.com/astrokit/ninaclient/events"
	"github.com/astrokit/ninaclient/nina"
	"github.com/astrokit/ninaclient/tests/helpers/fakenina"
)

func testConfig(server *fakenina.Server) *config.Config {
	cfg := config.Default()
	cfg.API.BaseURL = server.BaseURL()
	cfg.API.RequestTimeoutSeconds = 10
	cfg.Retry.BaseDelayMS = 1
	cfg.Socket.BaseURL = server.SocketURL()
	cfg.Socket.ReconnectDelaySeconds = 0
	return cfg
}

// TestImagingWorkflow runs the full happy path: connect equipment, load and
// start a sequence, capture, and fetch a thumbnail.
func TestImagingWorkflow(t *testing.T) {
	server := fakenina.New()
	t.Cleanup(server.Close)

	client, err := nina.New(testConfig(server))
	require.NoError(t, err)
	t.Cleanup(client.Close)

	ctx := context.Background()

	version, err := client.Version(ctx).Value()
	require.NoError(t, err)
	assert.Equal(t, "2.2.2.0", version)

	// Capturing before the camera is connected is an API-level failure.
	res := client.CameraCapture(ctx, nina.CaptureOptions{Duration: 10})
	require.Equal(t, apierr.KindAPI, res.Kind())

	require.True(t, client.CameraConnect(ctx).IsOk())
	info, err := client.CameraInfo(ctx).Value()
	require.NoError(t, err)
	assert.True(t, info.Connected)

	require.True(t, client.SequenceLoad(ctx, map[string]any{"Name": "M31 LRGB"}).IsOk())
	require.True(t, client.SequenceStart(ctx).IsOk())
	require.True(t, client.CameraCapture(ctx, nina.CaptureOptions{Duration: 10, Gain: 100}).IsOk())
	assert.Equal(t, 1, server.Captures())

	thumb, err := client.Thumbnail(ctx, 0).Value()
	require.NoError(t, err)
	assert.NotEmpty(t, thumb)
}

// TestRetriesRideThroughTransientFailures verifies the retry layer absorbs
// injected 500s without surfacing them to the caller.
func TestRetriesRideThroughTransientFailures(t *testing.T) {
	server := fakenina.New()
	t.Cleanup(server.Close)

	cfg := testConfig(server)
	cfg.Retry.MaxAttempts = 3

	client, err := nina.New(cfg)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	server.FailNext(2)
	version, err := client.Version(context.Background()).Value()
	require.NoError(t, err)
	assert.Equal(t, "2.2.2.0", version)
}

// TestBreakerOpensUnderSustainedFailure verifies the breaker trips after
// repeated exhausted retry sequences and rejects calls while open.
func TestBreakerOpensUnderSustainedFailure(t *testing.T) {
	server := fakenina.New()
	t.Cleanup(server.Close)

	cfg := testConfig(server)
	cfg.Retry.MaxAttempts = 1
	cfg.Breaker.FailureThreshold = 2
	cfg.Breaker.CooldownSeconds = 60

	client, err := nina.New(cfg)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	ctx := context.Background()
	server.FailNext(10)

	assert.Equal(t, apierr.KindHTTPStatus, client.Version(ctx).Kind())
	assert.Equal(t, apierr.KindHTTPStatus, client.Version(ctx).Kind())
	assert.Equal(t, apierr.KindCircuitOpen, client.Version(ctx).Kind())
	assert.Equal(t, 2, client.Diagnostics().FailureCount)
}

// TestEventDelivery verifies REST-triggered events arrive on the matching
// channels, in order, with typed payloads.
func TestEventDelivery(t *testing.T) {
	server := fakenina.New()
	t.Cleanup(server.Close)

	cfg := testConfig(server)

	socket := events.New(cfg.Socket, nil, nil)
	t.Cleanup(socket.DisconnectAll)

	require.NoError(t, socket.ConnectAll(context.Background()))

	sink, cancel := socket.Subscribe()
	t.Cleanup(cancel)

	client, err := nina.New(cfg)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	require.True(t, client.MountPark(context.Background()).IsOk())
	server.PushEvent("/socket", `{"Event":"IMAGE-SAVE","ExposureTime":300.0,"Filter":"Ha"}`)

	var got []events.Event
	deadline := time.After(5 * time.Second)
	for len(got) < 2 {
		select {
		case evt := <-sink:
			got = append(got, evt)
		case <-deadline:
			t.Fatalf("timed out, received %d events", len(got))
		}
	}

	byType := map[events.Type]events.Event{}
	for _, evt := range got {
		byType[evt.Type] = evt
	}

	parked, ok := byType[events.TypeMountParked]
	require.True(t, ok)
	assert.Equal(t, events.ChannelMount, parked.Channel)

	saved, ok := byType[events.TypeImageSave]
	require.True(t, ok)
	assert.Equal(t, events.ChannelSocket, saved.Channel)
	payload, ok := saved.Payload.(events.ImageSavePayload)
	require.True(t, ok)
	assert.Equal(t, 300.0, payload.ExposureTime)
	assert.Equal(t, "Ha", payload.Filter)
}

// TestChannelRecoveryAfterDrop verifies a dropped channel reconnects on its
// own while the other channels stay connected throughout.
func TestChannelRecoveryAfterDrop(t *testing.T) {
	server := fakenina.New()
	t.Cleanup(server.Close)

	cfg := testConfig(server)

	socket := events.New(cfg.Socket, nil, nil)
	t.Cleanup(socket.DisconnectAll)

	require.NoError(t, socket.ConnectAll(context.Background()))

	server.DropConnections("/tppa")

	assert.Eventually(t, func() bool {
		return socket.Status(events.ChannelTPPA) == events.StatusConnected
	}, 5*time.Second, 10*time.Millisecond)

	statuses := socket.StatusMap()
	assert.Equal(t, events.StatusConnected, statuses[events.ChannelMount])
	assert.Equal(t, events.StatusConnected, statuses[events.ChannelSocket])
	assert.Equal(t, events.StatusConnected, statuses[events.ChannelFilterWheel])
}
