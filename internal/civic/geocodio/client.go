// Package geocodio resolves ZIP codes to congressional districts and their
// current legislators using the Geocodio geocoding API.
package geocodio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"civicbridge/internal/domain"
	dErrors "civicbridge/pkg/domain-errors"
)

const defaultBaseURL = "https://api.geocod.io/v1.7"

var zipPattern = regexp.MustCompile(`^[0-9]{5}$`)

// Config carries the settings for a Client.
type Config struct {
	APIKey  string
	BaseURL string        // defaults to the public Geocodio API
	Timeout time.Duration // defaults to 10s
}

// Client calls the Geocodio geocoding API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// New builds a Client from cfg, filling in defaults for unset fields.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
	}
}

// Resolve looks up the congressional district for a five-digit ZIP code.
// Malformed ZIPs and lookups with no usable match carry CodeResolutionFailed;
// transport and decoding failures carry CodeUpstreamUnavailable.
func (c *Client) Resolve(ctx context.Context, zipCode string) (*domain.District, error) {
	if !zipPattern.MatchString(zipCode) {
		return nil, dErrors.New(dErrors.CodeResolutionFailed, "Invalid ZIP code format. Must be a 5-digit number.")
	}

	q := url.Values{}
	q.Set("q", zipCode)
	q.Set("fields", "cd")
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/geocode?"+q.Encode(), nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build geocode request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "geocoding request timed out")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUpstreamUnavailable, "geocoding request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, dErrors.New(dErrors.CodeUpstreamUnavailable, fmt.Sprintf("geocoding API returned status %d", resp.StatusCode))
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstreamUnavailable, "decode geocode response")
	}

	if len(payload.Results) == 0 {
		return nil, dErrors.New(dErrors.CodeResolutionFailed, fmt.Sprintf("No results found for ZIP code %s.", zipCode))
	}

	result, cd := firstDistrict(payload.Results)
	if cd == nil {
		return nil, dErrors.New(dErrors.CodeResolutionFailed, fmt.Sprintf("No congressional district information found for ZIP code %s.", zipCode))
	}

	district := &domain.District{
		ZipCode: zipCode,
		City:    result.AddressComponents.City,
		State:   result.AddressComponents.State,
		County:  result.AddressComponents.County,
		Number:  cd.DistrictNumber,
	}
	for _, leg := range cd.CurrentLegislators {
		district.Legislators = append(district.Legislators, leg.toDomain())
	}
	return district, nil
}

// firstDistrict scans results in order and returns the first one that carries
// congressional district data. Geocodio sometimes returns multiple address
// matches where only some have the cd field populated.
func firstDistrict(results []geocodeResult) (geocodeResult, *congressionalDistrict) {
	for _, res := range results {
		if len(res.Fields.CongressionalDistricts) > 0 {
			return res, &res.Fields.CongressionalDistricts[0]
		}
	}
	return geocodeResult{}, nil
}

type geocodeResponse struct {
	Results []geocodeResult `json:"results"`
}

type geocodeResult struct {
	AddressComponents struct {
		City   string `json:"city"`
		County string `json:"county"`
		State  string `json:"state"`
		Zip    string `json:"zip"`
	} `json:"address_components"`
	Fields struct {
		CongressionalDistricts []congressionalDistrict `json:"congressional_districts"`
	} `json:"fields"`
}

type congressionalDistrict struct {
	Name               string       `json:"name"`
	DistrictNumber     int          `json:"district_number"`
	CurrentLegislators []legislator `json:"current_legislators"`
}

type legislator struct {
	Type string `json:"type"`
	Bio  struct {
		LastName  string `json:"last_name"`
		FirstName string `json:"first_name"`
		Party     string `json:"party"`
		PhotoURL  string `json:"photo_url"`
	} `json:"bio"`
	Contact struct {
		URL         string `json:"url"`
		Address     string `json:"address"`
		Phone       string `json:"phone"`
		ContactForm string `json:"contact_form"`
	} `json:"contact"`
	Social struct {
		Twitter  string `json:"twitter"`
		Facebook string `json:"facebook"`
		YouTube  string `json:"youtube"`
	} `json:"social"`
	References struct {
		BioguideID string `json:"bioguide_id"`
	} `json:"references"`
}

func (l legislator) toDomain() domain.DistrictLegislator {
	return domain.DistrictLegislator{
		Type: l.Type,
		Bio: domain.LegislatorBio{
			FirstName: l.Bio.FirstName,
			LastName:  l.Bio.LastName,
			Party:     l.Bio.Party,
			PhotoURL:  l.Bio.PhotoURL,
		},
		Contact: domain.LegislatorContact{
			Phone:       l.Contact.Phone,
			Address:     l.Contact.Address,
			URL:         l.Contact.URL,
			ContactForm: l.Contact.ContactForm,
		},
		Social: domain.LegislatorSocial{
			Twitter:  l.Social.Twitter,
			Facebook: l.Social.Facebook,
			YouTube:  l.Social.YouTube,
		},
		References: domain.LegislatorReferences{BioguideID: l.References.BioguideID},
	}
}
