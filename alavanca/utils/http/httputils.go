package httputils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultClient bounds every outbound call; the webhook contract has no
// retry or backoff, a slow reply simply fails the exchange.
var DefaultClient = &http.Client{Timeout: 30 * time.Second}

func PostJSON(ctx context.Context, client *http.Client, url string, body interface{}, resp interface{}) error {
	if client == nil {
		client = DefaultClient
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	r, err := client.Do(req)
	if err != nil {
		return err
	}
	defer r.Body.Close()
	if r.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %d", r.StatusCode)
	}
	if resp != nil {
		return json.NewDecoder(r.Body).Decode(resp)
	}
	return nil
}
