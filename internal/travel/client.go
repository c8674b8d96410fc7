package travel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/kiranshivaraju/fieldplanner/internal/config"
	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

// Sentinel errors for travel provider failures.
var (
	ErrProviderUnreachable = errors.New("travel provider unreachable")
	ErrProviderStatus      = errors.New("travel provider error")
	ErrProviderTimeout     = errors.New("travel provider timeout")
)

// Geocoder resolves addresses to coordinates and back.
type Geocoder interface {
	// Geocode returns nil without error when the provider has no match.
	Geocode(ctx context.Context, query string) (*models.Place, error)
	Reverse(ctx context.Context, coord models.Coordinate) (models.AddressParts, error)
}

// Router computes driving routes between coordinates.
type Router interface {
	// Route returns nil without error when no route exists.
	Route(ctx context.Context, from, to models.Coordinate) (*models.RouteLeg, error)
}

// HTTPClient implements Geocoder against a Nominatim-compatible API and
// Router against an OSRM-compatible API.
type HTTPClient struct {
	geocodeURL   string
	routingURL   string
	userAgent    string
	countryCodes string
	client       *http.Client
	limiter      *rate.Limiter
	places       *expirable.LRU[string, models.Place]
}

// NewHTTPClient creates a travel client from config.
// Geocoding requests share a token bucket; successful lookups are kept in memory.
func NewHTTPClient(cfg config.TravelConfig) *HTTPClient {
	size := cfg.GeocodeCacheMax
	if size <= 0 {
		size = 1000
	}
	rps := cfg.GeocodeRPS
	if rps <= 0 {
		rps = 1
	}
	return &HTTPClient{
		geocodeURL:   cfg.GeocodeBaseURL,
		routingURL:   cfg.RoutingBaseURL,
		userAgent:    cfg.UserAgent,
		countryCodes: cfg.CountryCodes,
		client:       &http.Client{Timeout: cfg.Timeout},
		limiter:      rate.NewLimiter(rate.Limit(rps), 1),
		places:       expirable.NewLRU[string, models.Place](size, nil, cfg.GeocodeCacheTTL),
	}
}

func (c *HTTPClient) Geocode(ctx context.Context, query string) (*models.Place, error) {
	if p, ok := c.places.Get(query); ok {
		return &p, nil
	}

	params := url.Values{
		"q":      {query},
		"format": {"jsonv2"},
		"limit":  {"1"},
	}
	if c.countryCodes != "" {
		params.Set("countrycodes", c.countryCodes)
	}

	var hits []nominatimPlace
	if err := c.getGeocoder(ctx, "/search", params, &hits); err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad latitude %q", ErrProviderStatus, hits[0].Lat)
	}
	lon, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad longitude %q", ErrProviderStatus, hits[0].Lon)
	}

	place := models.Place{
		Coordinate:  models.Coordinate{Lat: lat, Lon: lon},
		DisplayName: hits[0].DisplayName,
	}
	c.places.Add(query, place)
	return &place, nil
}

func (c *HTTPClient) Reverse(ctx context.Context, coord models.Coordinate) (models.AddressParts, error) {
	params := url.Values{
		"lat":    {strconv.FormatFloat(coord.Lat, 'f', -1, 64)},
		"lon":    {strconv.FormatFloat(coord.Lon, 'f', -1, 64)},
		"format": {"jsonv2"},
	}

	var rev nominatimReverse
	if err := c.getGeocoder(ctx, "/reverse", params, &rev); err != nil {
		return models.AddressParts{}, err
	}
	if rev.Error != "" {
		return models.AddressParts{}, fmt.Errorf("%w: %s", ErrProviderStatus, rev.Error)
	}

	return models.AddressParts{
		DisplayName: rev.DisplayName,
		HouseNumber: rev.Address.HouseNumber,
		Road:        rev.Address.Road,
		City:        rev.Address.City,
		Town:        rev.Address.Town,
		Village:     rev.Address.Village,
		Postcode:    rev.Address.Postcode,
	}, nil
}

func (c *HTTPClient) Route(ctx context.Context, from, to models.Coordinate) (*models.RouteLeg, error) {
	u := fmt.Sprintf("%s/route/v1/driving/%s;%s?overview=false",
		c.routingURL, lonLat(from), lonLat(to))

	var resp osrmResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, err
	}

	switch resp.Code {
	case "Ok":
	case "NoRoute", "NoSegment":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: routing code %s: %s", ErrProviderStatus, resp.Code, resp.Message)
	}
	if len(resp.Routes) == 0 {
		return nil, nil
	}

	return &models.RouteLeg{
		DurationSeconds: resp.Routes[0].Duration,
		DistanceMeters:  resp.Routes[0].Distance,
	}, nil
}

func (c *HTTPClient) getGeocoder(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}
	return c.get(ctx, c.geocodeURL+path+"?"+params.Encode(), out)
}

func (c *HTTPClient) get(ctx context.Context, u string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return classifyError(err)
	}
	defer resp.Body.Close()

	// OSRM reports NoRoute with a 400 and a JSON body.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("%w: status %d", ErrProviderStatus, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if resp.StatusCode == http.StatusBadRequest {
			return fmt.Errorf("%w: status %d", ErrProviderStatus, resp.StatusCode)
		}
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// classifyError maps transport-level errors to sentinel errors.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}

	return fmt.Errorf("%w: %v", ErrProviderUnreachable, err)
}

func lonLat(c models.Coordinate) string {
	return strconv.FormatFloat(c.Lon, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lat, 'f', 6, 64)
}

// --- provider response types ---

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type nominatimReverse struct {
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
	Error       string           `json:"error"`
}

type nominatimAddress struct {
	HouseNumber string `json:"house_number"`
	Road        string `json:"road"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	Postcode    string `json:"postcode"`
}

type osrmResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Duration float64 `json:"duration"`
	Distance float64 `json:"distance"`
}

// Compile-time checks that HTTPClient implements Geocoder and Router.
var (
	_ Geocoder = (*HTTPClient)(nil)
	_ Router   = (*HTTPClient)(nil)
)
