// Package weather relays current conditions from WeatherAPI.com and keeps
// condensed summaries for the camp locations.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/i474232898/hajj-kiosk/internal/upstream"
)

// DefaultBaseURL is the WeatherAPI.com v1 endpoint root.
const DefaultBaseURL = "https://api.weatherapi.com/v1"

// ErrNoAPIKey is returned when the WeatherAPI key is not configured.
var ErrNoAPIKey = errors.New("weatherapi api key is not configured")

// Client calls the WeatherAPI.com current conditions endpoint.
type Client struct {
	apiKey  string
	baseURL string
	http    *upstream.Client
}

// NewClient creates a Client. An empty baseURL uses DefaultBaseURL.
func NewClient(httpClient *upstream.Client, apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Current returns the upstream JSON for location unchanged.
func (c *Client) Current(ctx context.Context, location string) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	values := url.Values{}
	values.Set("key", c.apiKey)
	values.Set("q", location)
	values.Set("aqi", "no")

	u := fmt.Sprintf("%s/current.json?%s", c.baseURL, values.Encode())
	return c.http.GetJSON(ctx, u)
}
