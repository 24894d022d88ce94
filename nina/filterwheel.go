package nina

import (
	"context"
	"net/url"
	"strconv"

	"github.com/astrokit/ninaclient/result"
)

// FilterWheelInfo returns the state of the connected filter wheel.
func (c *Client) FilterWheelInfo(ctx context.Context) result.Result[FilterWheelInfo] {
	return get[FilterWheelInfo](ctx, c, "equipment/filterwheel/info", nil)
}

// FilterWheelConnect connects the filter wheel.
func (c *Client) FilterWheelConnect(ctx context.Context) result.Result[string] {
	return get[string](ctx, c, "equipment/filterwheel/connect", nil)
}

// FilterWheelDisconnect disconnects the filter wheel.
func (c *Client) FilterWheelDisconnect(ctx context.Context) result.Result[string] {
	return get[string](ctx, c, "equipment/filterwheel/disconnect", nil)
}

// ChangeFilter moves the wheel to the filter with the given slot id.
func (c *Client) ChangeFilter(ctx context.Context, filterID int) result.Result[string] {
	params := url.Values{}
	params.Set("filterId", strconv.Itoa(filterID))
	return get[string](ctx, c, "equipment/filterwheel/change-filter", params)
}
