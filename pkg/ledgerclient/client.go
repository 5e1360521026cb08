/**
 * @description
 * This package provides a client for the remote ledger-backed storefront
 * service. It encapsulates the transport (one HTTP call per named remote
 * operation), the wire representation (wide integer ids, nanosecond
 * timestamps, single-key variant statuses and tagged Ok/Err envelopes), and
 * the conversion to UI-shaped records.
 *
 * @dependencies
 * - bytes, context, encoding/json, fmt, net/http, time: Standard Go libraries.
 */
package ledgerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Client is a client for the ledger service.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new ledger service client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// call performs one remote operation: POST /api/v1/call/<method> with the
// arguments as a JSON array. A non-2xx status is a transport-level failure;
// expected rejections travel in-band as Err envelopes on a 200.
func (c *Client) call(ctx context.Context, method string, args []interface{}) (json.RawMessage, error) {
	if args == nil {
		args = []interface{}{}
	}
	body, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s arguments: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/api/v1/call/"+method, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("x-ledger-key", c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s request: %w", method, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", method, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("level=warn component=ledger_client op=%s status=%d msg=\"non-2xx response\"", method, resp.StatusCode)
		return nil, fmt.Errorf("%s failed with status %d", method, resp.StatusCode)
	}

	return json.RawMessage(bodyBytes), nil
}

// envelope is the tagged result wrapper used by every non-plain operation.
// Exactly one of Ok or Err is present.
type envelope struct {
	Ok  json.RawMessage `json:"Ok,omitempty"`
	Err json.RawMessage `json:"Err,omitempty"`
}

// callResult performs a remote operation whose response is an Ok/Err
// envelope. decodeErr converts the raw Err variant into a typed error.
func (c *Client) callResult(ctx context.Context, method string, args []interface{}, decodeErr func(json.RawMessage) error) (json.RawMessage, error) {
	raw, err := c.call(ctx, method, args)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode %s envelope: %w", method, err)
	}
	if env.Err != nil {
		return nil, decodeErr(env.Err)
	}
	if env.Ok == nil {
		return nil, fmt.Errorf("%s returned an empty envelope", method)
	}
	return env.Ok, nil
}

// IsDevCheck asks the service whether this is a development deployment. The
// answer gates admin-only surfaces; it is a capability probe, not real
// authorization.
func (c *Client) IsDevCheck(ctx context.Context) (bool, error) {
	raw, err := c.call(ctx, "is_dev_check", nil)
	if err != nil {
		return false, err
	}
	var isDev bool
	if err := json.Unmarshal(raw, &isDev); err != nil {
		return false, fmt.Errorf("failed to decode is_dev_check response: %w", err)
	}
	return isDev, nil
}
