package nina

import (
	"context"
	"net/url"

	"github.com/astrokit/ninaclient/result"
)

// Version returns the remote application version string.
func (c *Client) Version(ctx context.Context) result.Result[string] {
	return get[string](ctx, c, "version", nil)
}

// SwitchTab switches the application UI to the named tab.
func (c *Client) SwitchTab(ctx context.Context, tab string) result.Result[string] {
	params := url.Values{}
	params.Set("tab", tab)
	return get[string](ctx, c, "application/switch-tab", params)
}

// Screenshot returns a screenshot of the application as raw image bytes.
func (c *Client) Screenshot(ctx context.Context) result.Result[[]byte] {
	return getBytes(ctx, c, "application/screenshot", nil)
}
