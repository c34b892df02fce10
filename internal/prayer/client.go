// Package prayer relays daily prayer timings from the Aladhan API and
// derives the kiosk's prayer schedule from them.
package prayer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/i474232898/hajj-kiosk/internal/upstream"
)

// DefaultBaseURL is the Aladhan v1 endpoint root.
const DefaultBaseURL = "https://api.aladhan.com/v1"

// Query selects the city and calculation method of the timings.
type Query struct {
	City    string
	Country string
	Method  int // 4 = Umm al-Qura, Makkah
}

// DefaultQuery is the query the kiosk uses.
var DefaultQuery = Query{City: "Makkah", Country: "Saudi Arabia", Method: 4}

// Client calls the Aladhan timingsByCity endpoint.
type Client struct {
	baseURL string
	query   Query
	http    *upstream.Client
}

// NewClient creates a Client. An empty baseURL uses DefaultBaseURL.
func NewClient(httpClient *upstream.Client, baseURL string, q Query) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		query:   q,
		http:    httpClient,
	}
}

// Timings returns today's upstream JSON unchanged.
func (c *Client) Timings(ctx context.Context) (json.RawMessage, error) {
	values := url.Values{}
	values.Set("city", c.query.City)
	values.Set("country", c.query.Country)
	values.Set("method", strconv.Itoa(c.query.Method))

	u := fmt.Sprintf("%s/timingsByCity?%s", c.baseURL, values.Encode())
	return c.http.GetJSON(ctx, u)
}
