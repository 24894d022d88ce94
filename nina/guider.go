package nina

import (
	"context"

	"github.com/astrokit/ninaclient/result"
)

// GuiderInfo returns the state of the connected guider.
func (c *Client) GuiderInfo(ctx context.Context) result.Result[GuiderInfo] {
	return get[GuiderInfo](ctx, c, "equipment/guider/info", nil)
}

// GuiderConnect connects the guider.
func (c *Client) GuiderConnect(ctx context.Context) result.Result[string] {
	return get[string](ctx, c, "equipment/guider/connect", nil)
}

// GuiderDisconnect disconnects the guider.
func (c *Client) GuiderDisconnect(ctx context.Context) result.Result[string] {
	return get[string](ctx, c, "equipment/guider/disconnect", nil)
}

// GuiderStart starts guiding.
func (c *Client) GuiderStart(ctx context.Context) result.Result[string] {
	return get[string](ctx, c, "equipment/guider/start", nil)
}

// GuiderStop stops guiding.
func (c *Client) GuiderStop(ctx context.Context) result.Result[string] {
	return get[string](ctx, c, "equipment/guider/stop", nil)
}
