package gazetteer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultGeonamesBaseURL is the public geonames JSON endpoint.
const DefaultGeonamesBaseURL = "http://api.geonames.org"

// GeonamesClient fetches place details from the geonames web service.
type GeonamesClient struct {
	baseURL  string
	username string
	client   *http.Client
}

// NewGeonamesClient creates a client for the public geonames API.
func NewGeonamesClient(username string) *GeonamesClient {
	return &GeonamesClient{
		baseURL:  DefaultGeonamesBaseURL,
		username: username,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// NewGeonamesClientWithBaseURL creates a client against a custom endpoint.
func NewGeonamesClientWithBaseURL(baseURL, username string) *GeonamesClient {
	c := NewGeonamesClient(username)
	c.baseURL = baseURL
	return c
}

type geonamesResponse struct {
	Name           string `json:"name"`
	CountryName    string `json:"countryName"`
	AlternateNames []struct {
		Lang            string `json:"lang"`
		Name            string `json:"name"`
		IsPreferredName bool   `json:"isPreferredName"`
	} `json:"alternateNames"`
	Status *struct {
		Message string `json:"message"`
		Value   int    `json:"value"`
	} `json:"status"`
}

// Fetch retrieves details for one geonames id. The Polish display name
// falls back to the canonical name when no pl alternate exists; the
// wikidata id comes from the "wkdt" pseudo-language alternate.
func (g *GeonamesClient) Fetch(ctx context.Context, geonamesID string) (Entry, error) {
	endpoint := fmt.Sprintf("%s/getJSON?geonameId=%s&username=%s",
		g.baseURL, url.QueryEscape(geonamesID), url.QueryEscape(g.username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("build geonames request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return Entry{}, fmt.Errorf("geonames request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Entry{}, fmt.Errorf("geonames returned status %d", resp.StatusCode)
	}

	var body geonamesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Entry{}, fmt.Errorf("decode geonames response: %w", err)
	}
	if body.Status != nil {
		return Entry{}, fmt.Errorf("geonames error %d: %s", body.Status.Value, body.Status.Message)
	}

	entry := Entry{
		Name:    body.Name,
		Country: body.CountryName,
	}
	foundPL := false
	for _, alt := range body.AlternateNames {
		switch alt.Lang {
		case "pl":
			if !foundPL {
				entry.NamePL = alt.Name
				foundPL = alt.IsPreferredName
			}
		case "wkdt":
			if entry.WikidataID == "" {
				entry.WikidataID = alt.Name
			}
		}
	}
	if entry.NamePL == "" {
		entry.NamePL = entry.Name
	}
	return entry, nil
}
