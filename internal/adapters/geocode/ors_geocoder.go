package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"map-weather-service/internal/domain"
	"map-weather-service/internal/platform/obs"
)

const DefaultBaseURL = "https://api.openrouteservice.org"

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Name     string `json:"name"`
			Locality string `json:"locality"`
		} `json:"properties"`
	} `json:"features"`
}

// ORSGeocoder implements ports.Geocoder using OpenRouteService (Pelias) geocoding.
//
// The geocoder is safe for concurrent use.
type ORSGeocoder struct {
	session *http.Client
	apiKey  string
	baseURL string
}

type Option func(*ORSGeocoder)

func WithBaseURL(u string) Option {
	return func(o *ORSGeocoder) { o.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *ORSGeocoder) { o.session = c }
}

func NewORSGeocoder(apiKey string, opts ...Option) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	g := &ORSGeocoder{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// normalize collapses whitespace so equivalent queries share a cache key.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ReverseGeocode resolves c to the locality of the closest feature.
func (o *ORSGeocoder) ReverseGeocode(ctx context.Context, c domain.Coordinate) (_ string, err error) {
	defer obs.Time(ctx, "ors.reverseGeocode")(&err)

	req, err := o.newRequest(ctx, o.baseURL+"/geocode/reverse", map[string]string{
		"point.lat": strconv.FormatFloat(c.Lat, 'f', -1, 64),
		"point.lon": strconv.FormatFloat(c.Lon, 'f', -1, 64),
		"size":      "1",
	})
	if err != nil {
		return "", fmt.Errorf("reverse geocode %s: %w: %w", c, domain.ErrGeocoding, err)
	}

	decoded, err := o.fetch(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode %s: %w", c, err)
	}

	if len(decoded.Features) == 0 {
		return domain.UnknownLocation, nil
	}

	props := decoded.Features[0].Properties
	switch {
	case strings.TrimSpace(props.Locality) != "":
		return props.Locality, nil
	case strings.TrimSpace(props.Name) != "":
		return props.Name, nil
	default:
		return domain.UnknownLocation, nil
	}
}

// ForwardGeocode resolves a free-text place name to the first matching coordinate.
func (o *ORSGeocoder) ForwardGeocode(ctx context.Context, name string) (_ domain.Coordinate, err error) {
	defer obs.Time(ctx, "ors.forwardGeocode")(&err)

	norm := normalize(name)
	if norm == "" {
		return domain.Coordinate{}, fmt.Errorf("forward geocode: empty name: %w", domain.ErrNotFound)
	}

	req, err := o.newRequest(ctx, o.baseURL+"/geocode/search", map[string]string{
		"text": norm,
		"size": "1",
	})
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("forward geocode %q: %w: %w", norm, domain.ErrGeocoding, err)
	}

	decoded, err := o.fetch(req)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("forward geocode %q: %w", norm, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinate{}, fmt.Errorf("forward geocode %q: %w", norm, domain.ErrNotFound)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinate{}, fmt.Errorf(
			"forward geocode %q: invalid coordinate format: %w",
			norm, domain.ErrGeocoding,
		)
	}

	// GeoJSON order is [lon, lat].
	c := domain.Coordinate{Lon: coords[0], Lat: coords[1]}
	if !c.Valid() {
		return domain.Coordinate{}, fmt.Errorf(
			"forward geocode %q: provider returned %s: %w",
			norm, c, domain.ErrGeocoding,
		)
	}

	return c, nil
}

// fetch executes req and decodes the GeoJSON body. All failures wrap domain.ErrGeocoding.
func (o *ORSGeocoder) fetch(req *http.Request) (*geocodeResponse, error) {
	resp, err := o.do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w: %w", domain.ErrGeocoding, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w: %w", domain.ErrGeocoding, err)
	}

	return &decoded, nil
}
