package nina

import (
	"context"
	"net/url"
	"strconv"

	"github.com/astrokit/ninaclient/result"
)

// CameraInfo returns the state of the connected camera.
func (c *Client) CameraInfo(ctx context.Context) result.Result[CameraInfo] {
	return get[CameraInfo](ctx, c, "equipment/camera/info", nil)
}

// CameraConnect connects the camera.
func (c *Client) CameraConnect(ctx context.Context) result.Result[string] {
	return get[string](ctx, c, "equipment/camera/connect", nil)
}

// CameraDisconnect disconnects the camera.
func (c *Client) CameraDisconnect(ctx context.Context) result.Result[string] {
	return get[string](ctx, c, "equipment/camera/disconnect", nil)
}

// CaptureOptions parameterizes a capture request. Zero values are omitted
// from the query string so the remote defaults apply.
type CaptureOptions struct {
	// Duration is the exposure time in seconds.
	Duration float64
	// Gain overrides the camera gain when positive.
	Gain int
	// Solve plate-solves the captured frame.
	Solve bool
}

// CameraCapture starts an exposure. The request does not return until the
// exposure completes, which is why the client's request timeout defaults
// to several minutes.
func (c *Client) CameraCapture(ctx context.Context, opts CaptureOptions) result.Result[string] {
	params := url.Values{}
	if opts.Duration > 0 {
		params.Set("duration", strconv.FormatFloat(opts.Duration, 'f', -1, 64))
	}
	if opts.Gain > 0 {
		params.Set("gain", strconv.Itoa(opts.Gain))
	}
	if opts.Solve {
		params.Set("solve", "true")
	}
	return get[string](ctx, c, "equipment/camera/capture", params)
}

// CameraAbortExposure aborts a running exposure.
func (c *Client) CameraAbortExposure(ctx context.Context) result.Result[string] {
	return get[string](ctx, c, "equipment/camera/abort-exposure", nil)
}

// CameraSetTemperature sets the cooler target temperature in Celsius.
func (c *Client) CameraSetTemperature(ctx context.Context, celsius float64) result.Result[string] {
	params := url.Values{}
	params.Set("temperature", strconv.FormatFloat(celsius, 'f', -1, 64))
	return get[string](ctx, c, "equipment/camera/set-temperature", params)
}
