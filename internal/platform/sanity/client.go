package sanity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	cfgpkg "github.com/qybrrlabs/portal/pkg/config"
)

// Client queries the headless content provider's GROQ HTTP API. Only the
// query endpoint is used; mutations and listeners are out of scope.
type Client struct {
	httpClient *http.Client
	baseURL    string
	dataset    string
	apiVersion string
}

func New(cfg *cfgpkg.Config) *Client {
	host := "api.sanity.io"
	if cfg.Sanity.UseCDN {
		host = "apicdn.sanity.io"
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    fmt.Sprintf("https://%s.%s", cfg.Sanity.ProjectID, host),
		dataset:    cfg.Sanity.Dataset,
		apiVersion: cfg.Sanity.APIVersion,
	}
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

// Query runs a GROQ query and decodes its result into out. Params become
// GROQ query parameters ($name) and are JSON-encoded per the API contract.
func (c *Client) Query(ctx context.Context, groq string, params map[string]string, out interface{}) error {
	values := url.Values{}
	values.Set("query", groq)
	for name, val := range params {
		encoded, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("failed to encode query param %s: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	endpoint := fmt.Sprintf("%s/%s/data/query/%s?%s", c.baseURL, c.apiVersion, c.dataset, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build content query request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("content query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("content query returned status %d: %s", resp.StatusCode, body)
	}

	var envelope queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode content query response: %w", err)
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("failed to decode content query result: %w", err)
	}
	return nil
}
