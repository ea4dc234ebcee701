package supabase

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Upload stores an object in a storage bucket. contentType may be empty.
func (c *Client) Upload(ctx context.Context, bucket, path, contentType string, data []byte) error {
	u := fmt.Sprintf("%s/storage/v1/object/%s/%s",
		c.baseURL(), url.PathEscape(bucket), url.PathEscape(path))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("supabase: build upload request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.authorize(req)

	res, err := c.roundTrip(req)
	if err != nil {
		return err
	}
	if res.status < 200 || res.status > 299 {
		return decodeAPIError(res.status, res.body)
	}
	return nil
}

// PublicURL returns the durable public URL of an object. No remote call is
// made; public buckets serve objects at a fixed path.
func (c *Client) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		c.baseURL(), url.PathEscape(bucket), url.PathEscape(path))
}

// InvokeFunction calls a serverless edge function by name with a JSON payload.
func (c *Client) InvokeFunction(ctx context.Context, name string, payload, dest any) error {
	u := fmt.Sprintf("%s/functions/v1/%s", c.baseURL(), url.PathEscape(name))
	return c.do(ctx, http.MethodPost, u, nil, payload, dest)
}

func (c *Client) baseURL() string {
	// restURL always ends in /rest/v1.
	return c.restURL[:len(c.restURL)-len("/rest/v1")]
}
