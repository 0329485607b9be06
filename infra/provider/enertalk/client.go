// Package enertalk reads site timezones and periodic usages from the EnerTalk
// HTTP API.
package enertalk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/songpengyi/enertalk-alwayson-calculator/auth"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/baseline"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/model"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://api2.enertalk.com"

// ErrUnexpectedStatus is wrapped by errors for non-200 answers.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// Config configures the HTTP provider.
type Config struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
	Auth    auth.Conf     `json:"auth"`
}

// Client implements provider.Provider over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New validates cfg and builds an authenticated client.
func New(cfg Config) (*Client, error) {
	if err := cfg.Auth.Validate(); err != nil {
		return nil, fmt.Errorf("%w: enertalk: %w", baseline.ErrConfiguration, err)
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("%w: enertalk base url: %w", baseline.ErrConfiguration, err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc, err := cfg.Auth.HTTPClient(&http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", baseline.ErrConfiguration, err)
	}
	return &Client{baseURL: base, http: hc}, nil
}

type siteResponse struct {
	Timezone string `json:"timezone"`
}

// Timezone returns the zone registered for the site. baseTime is not used by
// the API.
func (c *Client) Timezone(ctx context.Context, siteHash string, _ *time.Time) (string, error) {
	var site siteResponse
	if err := c.get(ctx, "/sites/"+url.PathEscape(siteHash), nil, &site); err != nil {
		return "", err
	}
	if site.Timezone == "" {
		return "", fmt.Errorf("site %s has no timezone", siteHash)
	}
	return site.Timezone, nil
}

// Usages returns the periodic usages of the site in [q.Start, q.End).
func (c *Client) Usages(ctx context.Context, siteHash string, q model.UsageQuery) (*model.UsageResponse, error) {
	params := url.Values{}
	params.Set("period", q.Period)
	params.Set("start", strconv.FormatInt(q.Start, 10))
	params.Set("end", strconv.FormatInt(q.End, 10))
	var resp model.UsageResponse
	if err := c.get(ctx, "/sites/"+url.PathEscape(siteHash)+"/usages/periodic", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d, body: %s", ErrUnexpectedStatus, resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
