package nina

import (
	"context"
	"encoding/json"

	"github.com/astrokit/ninaclient/result"
)

// SequenceStart starts the loaded sequence.
func (c *Client) SequenceStart(ctx context.Context) result.Result[string] {
	return get[string](ctx, c, "sequence/start", nil)
}

// SequenceStop stops the running sequence.
func (c *Client) SequenceStop(ctx context.Context) result.Result[string] {
	return get[string](ctx, c, "sequence/stop", nil)
}

// SequenceJSON returns the loaded sequence as raw JSON. The sequence shape
// varies with installed plugins, so it stays opaque here.
func (c *Client) SequenceJSON(ctx context.Context) result.Result[json.RawMessage] {
	return get[json.RawMessage](ctx, c, "sequence/json", nil)
}

// SequenceLoad submits a full sequence definition. This is the API's one
// POST operation; everything else is a GET with query parameters.
func (c *Client) SequenceLoad(ctx context.Context, sequence any) result.Result[string] {
	return post[string](ctx, c, "sequence/load", sequence)
}
