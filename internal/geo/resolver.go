// Package geo resolves network addresses to coarse location labels for the
// client access audit trail. Resolution is best-effort: a failed lookup
// degrades to "Unknown" and must never fail the enclosing request.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Unknown is the label recorded when the address cannot be resolved.
const Unknown = "Unknown"

// Internal is the label recorded for loopback and private addresses, which no
// public lookup service can place.
const Internal = "Internal"

// Resolver maps an IP address to a human-readable location label.
type Resolver interface {
	Lookup(ctx context.Context, ip string) string
}

// HTTPResolver queries an ip-api style JSON endpoint.
type HTTPResolver struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPResolver returns a resolver against the given base URL, e.g.
// "http://ip-api.com/json". The request timeout is deliberately short so a
// slow lookup cannot stall an audited profile read.
func NewHTTPResolver(baseURL string) *HTTPResolver {
	return &HTTPResolver{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 3 * time.Second},
	}
}

// Lookup resolves ip to "City, Country". Only lookup failures (bad address,
// network error, undecodable body) degrade to the fallback labels.
func (r *HTTPResolver) Lookup(ctx context.Context, ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Unknown
	}
	if parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		return Internal
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", r.BaseURL, ip), nil)
	if err != nil {
		return Unknown
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return Unknown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Unknown
	}

	var body struct {
		Status  string `json:"status"`
		City    string `json:"city"`
		Country string `json:"country"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Unknown
	}
	if body.Status != "success" || body.Country == "" {
		return Unknown
	}
	if body.City == "" {
		return body.Country
	}
	return body.City + ", " + body.Country
}
