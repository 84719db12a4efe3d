package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paulmach/orb"
)

// Candidate is one administrative boundary relation as returned by the
// Overpass API: a named set of outer-role way chains. The chains are raw
// source geometry, not guaranteed to be ordered or connected.
type Candidate struct {
	RelationID int64
	Name       string
	Chains     []orb.LineString
}

// Client queries Overpass API endpoints for administrative boundaries.
// Endpoints are tried in order; the first decodable response wins.
type Client struct {
	endpoints  []string
	httpClient *http.Client
}

// NewClient creates a client over the given endpoint list
func NewClient(endpoints []string) *Client {
	return &Client{
		endpoints: endpoints,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Overpass QL: administrative boundary relations of town/city level around
// a point, with member geometry inlined.
const boundaryQuery = `[out:json][timeout:25];relation["boundary"="administrative"]["admin_level"~"^(7|8)$"](around:%.0f,%.6f,%.6f);out geom;`

// FetchBoundaries returns boundary candidates around the given point.
// Unnamed relations and relations without outer ways are skipped.
func (c *Client) FetchBoundaries(ctx context.Context, lat, lng, radiusMeters float64) ([]Candidate, error) {
	query := fmt.Sprintf(boundaryQuery, radiusMeters, lat, lng)

	var lastErr error
	for _, endpoint := range c.endpoints {
		candidates, err := c.fetch(ctx, endpoint, query)
		if err != nil {
			log.Printf("Overpass endpoint %s failed: %v", endpoint, err)
			lastErr = err
			continue
		}
		return candidates, nil
	}

	return nil, fmt.Errorf("all overpass endpoints failed: %w", lastErr)
}

func (c *Client) fetch(ctx context.Context, endpoint, query string) ([]Candidate, error) {
	form := url.Values{"data": {query}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return candidatesFromElements(decoded.Elements), nil
}

// candidatesFromElements converts raw relation elements into candidates,
// keeping only named relations with at least one outer way chain.
func candidatesFromElements(elements []element) []Candidate {
	candidates := make([]Candidate, 0, len(elements))

	for _, el := range elements {
		if el.Type != "relation" {
			continue
		}
		name := el.Tags["name"]
		if name == "" {
			continue
		}

		var chains []orb.LineString
		for _, member := range el.Members {
			if member.Type != "way" || member.Role != "outer" || len(member.Geometry) < 2 {
				continue
			}
			chain := make(orb.LineString, 0, len(member.Geometry))
			for _, g := range member.Geometry {
				chain = append(chain, orb.Point{g.Lon, g.Lat})
			}
			chains = append(chains, chain)
		}

		if len(chains) == 0 {
			continue
		}

		candidates = append(candidates, Candidate{
			RelationID: el.ID,
			Name:       name,
			Chains:     chains,
		})
	}

	return candidates
}
