package nina

import (
	"context"
	"net/url"
	"strconv"

	"github.com/astrokit/ninaclient/result"
)

// ImageHistory returns the capture history of the current session.
func (c *Client) ImageHistory(ctx context.Context) result.Result[[]ImageHistoryItem] {
	params := url.Values{}
	params.Set("all", "true")
	return get[[]ImageHistoryItem](ctx, c, "image-history", params)
}

// Thumbnail returns the JPEG thumbnail of the image at the given history
// index. A successful response with an empty body is a failure.
func (c *Client) Thumbnail(ctx context.Context, index int) result.Result[[]byte] {
	params := url.Values{}
	params.Set("index", strconv.Itoa(index))
	return getBytes(ctx, c, "image/thumbnail", params)
}
