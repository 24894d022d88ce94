package nina

import (
	"context"
	"net/url"
	"strconv"

	"github.com/astrokit/ninaclient/result"
)

// MountInfo returns the state of the connected mount.
func (c *Client) MountInfo(ctx context.Context) result.Result[MountInfo] {
	return get[MountInfo](ctx, c, "equipment/mount/info", nil)
}

// MountConnect connects the mount.
func (c *Client) MountConnect(ctx context.Context) result.Result[string] {
	return get[string](ctx, c, "equipment/mount/connect", nil)
}

// MountDisconnect disconnects the mount.
func (c *Client) MountDisconnect(ctx context.Context) result.Result[string] {
	return get[string](ctx, c, "equipment/mount/disconnect", nil)
}

// MountPark parks the mount.
func (c *Client) MountPark(ctx context.Context) result.Result[string] {
	return get[string](ctx, c, "equipment/mount/park", nil)
}

// MountUnpark unparks the mount.
func (c *Client) MountUnpark(ctx context.Context) result.Result[string] {
	return get[string](ctx, c, "equipment/mount/unpark", nil)
}

// MountHome sends the mount to its home position.
func (c *Client) MountHome(ctx context.Context) result.Result[string] {
	return get[string](ctx, c, "equipment/mount/home", nil)
}

// MountSlew slews to the given equatorial coordinates, in degrees.
func (c *Client) MountSlew(ctx context.Context, ra, dec float64) result.Result[string] {
	params := url.Values{}
	params.Set("ra", strconv.FormatFloat(ra, 'f', -1, 64))
	params.Set("dec", strconv.FormatFloat(dec, 'f', -1, 64))
	return get[string](ctx, c, "equipment/mount/slew", params)
}

// MountSetTracking enables or disables sidereal tracking.
func (c *Client) MountSetTracking(ctx context.Context, enabled bool) result.Result[string] {
	params := url.Values{}
	params.Set("enabled", strconv.FormatBool(enabled))
	return get[string](ctx, c, "equipment/mount/tracking", params)
}
