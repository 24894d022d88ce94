package nina

import (
	"context"
	"net/url"
	"strconv"

	"github.com/astrokit/ninaclient/result"
)

// FocuserInfo returns the state of the connected focuser.
func (c *Client) FocuserInfo(ctx context.Context) result.Result[FocuserInfo] {
	return get[FocuserInfo](ctx, c, "equipment/focuser/info", nil)
}

// FocuserConnect connects the focuser.
func (c *Client) FocuserConnect(ctx context.Context) result.Result[string] {
	return get[string](ctx, c, "equipment/focuser/connect", nil)
}

// FocuserDisconnect disconnects the focuser.
func (c *Client) FocuserDisconnect(ctx context.Context) result.Result[string] {
	return get[string](ctx, c, "equipment/focuser/disconnect", nil)
}

// FocuserMove moves the focuser to an absolute position.
func (c *Client) FocuserMove(ctx context.Context, position int) result.Result[string] {
	params := url.Values{}
	params.Set("position", strconv.Itoa(position))
	return get[string](ctx, c, "equipment/focuser/move", params)
}

// Autofocus starts an autofocus run.
func (c *Client) Autofocus(ctx context.Context) result.Result[string] {
	return get[string](ctx, c, "equipment/focuser/auto-focus", nil)
}
