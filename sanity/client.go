// Package sanity is a minimal client for the Sanity content-store HTTP API:
// GROQ queries on the read side, a create mutation on the write side, and the
// CDN image URL builder. The store is an external collaborator; callers own
// the degrade-on-failure policy, this package just reports errors.
package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Config carries everything needed to reach one project/dataset. Passing it
// explicitly (instead of a package-level client) keeps test doubles cheap.
type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	UseCDN     bool
	Timeout    time.Duration

	// BaseURL overrides the constructed api.sanity.io host. Used by tests
	// and local proxies. Mutations always use this or the non-CDN host.
	BaseURL string
}

type Client struct {
	cfg    Config
	client *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-01-01"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) Config() Config {
	return c.cfg
}

func (c *Client) queryHost() string {
	if c.cfg.BaseURL != "" {
		return c.cfg.BaseURL
	}
	if c.cfg.UseCDN {
		return fmt.Sprintf("https://%s.apicdn.sanity.io", c.cfg.ProjectID)
	}
	return fmt.Sprintf("https://%s.api.sanity.io", c.cfg.ProjectID)
}

func (c *Client) mutateHost() string {
	if c.cfg.BaseURL != "" {
		return c.cfg.BaseURL
	}
	// The CDN is read-only.
	return fmt.Sprintf("https://%s.api.sanity.io", c.cfg.ProjectID)
}

// Query runs a GROQ query and returns the raw "result" member of the
// response. Params are exposed to the query as $name.
func (c *Client) Query(ctx context.Context, groq string, params map[string]any) (json.RawMessage, error) {
	values := url.Values{}
	values.Set("query", groq)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("sanity: encoding param %q: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	endpoint := fmt.Sprintf("%s/v%s/data/query/%s?%s",
		c.queryHost(), c.cfg.APIVersion, url.PathEscape(c.cfg.Dataset), values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sanity: query request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("sanity: query returned status %d: %s", resp.StatusCode, readSnippet(resp.Body))
	}

	var body struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("sanity: decoding query response: %w", err)
	}
	return body.Result, nil
}

// Create writes one document through the mutation endpoint and returns the
// new document's ID. Requires an API token with write access.
func (c *Client) Create(ctx context.Context, doc any) (string, error) {
	if c.cfg.Token == "" {
		return "", fmt.Errorf("sanity: create requires an API token")
	}

	payload := map[string]any{
		"mutations": []map[string]any{{"create": doc}},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("sanity: encoding mutation: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v%s/data/mutate/%s?returnIds=true",
		c.mutateHost(), c.cfg.APIVersion, url.PathEscape(c.cfg.Dataset))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sanity: mutation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("sanity: mutation returned status %d: %s", resp.StatusCode, readSnippet(resp.Body))
	}

	var body struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("sanity: decoding mutation response: %w", err)
	}
	if len(body.Results) == 0 {
		return "", fmt.Errorf("sanity: mutation returned no results")
	}
	return body.Results[0].ID, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return string(b)
}
