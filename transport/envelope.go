package transport

import (
	"context"
	"encoding/json"
	"net/url"

	"go.uber.org/zap"

	"github.com/astrokit/ninaclient/apierr"
	"github.com/astrokit/ninaclient/result"
)

// Envelope is the response wrapper the Advanced API puts around every JSON
// payload. Field names are matched case-insensitively on parse; the shape
// is dictated by the remote API and must not change.
type Envelope struct {
	Success    bool            `json:"Success"`
	Error      string          `json:"Error"`
	StatusCode int             `json:"StatusCode"`
	Response   json.RawMessage `json:"Response"`
	Type       string          `json:"Type"`
}

// GetJSON issues a GET request and decodes the envelope payload into T.
func GetJSON[T any](ctx context.Context, c *Client, endpoint string, params url.Values) result.Result[T] {
	req, err := c.request(ctx)
	if err != nil {
		return result.Err[T](err)
	}
	for key, values := range params {
		for _, v := range values {
			req.SetQueryParam(key, v)
		}
	}

	resp, err := req.Get("/" + endpoint)
	if err != nil {
		return fail[T](c, endpoint, classify(ctx, err))
	}
	return decodeEnvelope[T](c, endpoint, resp.StatusCode(), resp.Body())
}

// PostJSON issues a POST request with a JSON body and decodes the envelope
// payload into T. The API documents a single POST endpoint, used for bulk
// payload submission.
func PostJSON[T any](ctx context.Context, c *Client, endpoint string, body any) result.Result[T] {
	req, err := c.request(ctx)
	if err != nil {
		return result.Err[T](err)
	}

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/" + endpoint)
	if err != nil {
		return fail[T](c, endpoint, classify(ctx, err))
	}
	return decodeEnvelope[T](c, endpoint, resp.StatusCode(), resp.Body())
}

// GetBytes issues a GET request for a binary payload (thumbnails, FITS
// previews). Status-code and error mapping follow the envelope discipline
// but the body is returned raw; an empty 2xx body is a failure.
func GetBytes(ctx context.Context, c *Client, endpoint string, params url.Values) result.Result[[]byte] {
	req, err := c.request(ctx)
	if err != nil {
		return result.Err[[]byte](err)
	}
	for key, values := range params {
		for _, v := range values {
			req.SetQueryParam(key, v)
		}
	}

	resp, err := req.Get("/" + endpoint)
	if err != nil {
		return fail[[]byte](c, endpoint, classify(ctx, err))
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fail[[]byte](c, endpoint, apierr.HTTPStatus(resp.StatusCode(), string(resp.Body())))
	}
	body := resp.Body()
	if len(body) == 0 {
		return fail[[]byte](c, endpoint, apierr.New(apierr.KindAPI, "empty data"))
	}
	c.metrics.RecordRequest(endpoint, "success")
	return result.Ok(body)
}

// decodeEnvelope maps status code and envelope fields into a typed Result.
func decodeEnvelope[T any](c *Client, endpoint string, status int, body []byte) result.Result[T] {
	if status < 200 || status >= 300 {
		return fail[T](c, endpoint, apierr.HTTPStatus(status, string(body)))
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fail[T](c, endpoint, apierr.Wrap(apierr.KindParse, "malformed response envelope", err))
	}

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "api reported failure"
		}
		return fail[T](c, endpoint, apierr.New(apierr.KindAPI, msg))
	}

	if len(env.Response) == 0 || string(env.Response) == "null" {
		return fail[T](c, endpoint, apierr.New(apierr.KindAPI, "null data in response"))
	}

	var value T
	if err := json.Unmarshal(env.Response, &value); err != nil {
		return fail[T](c, endpoint, apierr.Wrap(apierr.KindParse, "unexpected response shape", err))
	}

	c.metrics.RecordRequest(endpoint, "success")
	return result.Ok(value)
}

// fail records and logs a failure at the boundary where it is observed.
func fail[T any](c *Client, endpoint string, err error) result.Result[T] {
	c.metrics.RecordRequest(endpoint, outcome(err))

	switch apierr.KindOf(err) {
	case apierr.KindCanceled:
		c.log.Debug("request canceled", zap.String("endpoint", endpoint))
	case apierr.KindAPI:
		c.log.Warn("api error", zap.String("endpoint", endpoint), zap.Error(err))
	default:
		c.log.Error("request failed", zap.String("endpoint", endpoint), zap.Error(err))
	}
	return result.Err[T](err)
}
