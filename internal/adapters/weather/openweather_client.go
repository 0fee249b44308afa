package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"map-weather-service/internal/domain"
	"map-weather-service/internal/platform/obs"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org"
	// Responses are always requested in metric units so main.temp is Celsius.
	units = "metric"
)

type currentWeatherResponse struct {
	Main *struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// OpenWeatherClient implements ports.WeatherProvider against the
// OpenWeatherMap current weather endpoint. One call issues exactly one GET.
type OpenWeatherClient struct {
	session *http.Client
	apiKey  string
	baseURL string
}

type Option func(*OpenWeatherClient)

func WithBaseURL(u string) Option {
	return func(c *OpenWeatherClient) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *OpenWeatherClient) { c.session = h }
}

func NewOpenWeatherClient(apiKey string, opts ...Option) (*OpenWeatherClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openweather api key is empty")
	}

	c := &OpenWeatherClient{
		session: http.DefaultClient,
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// RequestURL builds the current-weather URL for c.
func (w *OpenWeatherClient) RequestURL(c domain.Coordinate) string {
	q := make([]string, 0, 4)
	q = append(q,
		"lat="+strconv.FormatFloat(c.Lat, 'f', -1, 64),
		"lon="+strconv.FormatFloat(c.Lon, 'f', -1, 64),
		"units="+units,
		"appid="+w.apiKey,
	)
	return w.baseURL + "/data/2.5/weather?" + strings.Join(q, "&")
}

// FetchCurrentTemperature returns main.temp for c in degrees Celsius.
func (w *OpenWeatherClient) FetchCurrentTemperature(ctx context.Context, c domain.Coordinate) (_ float64, err error) {
	defer obs.Time(ctx, "openweather.current")(&err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.RequestURL(c), nil)
	if err != nil {
		return 0, fmt.Errorf("fetch weather %s: create request: %w: %w", c, domain.ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.session.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch weather %s: %w: %w", c, domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return 0, fmt.Errorf("fetch weather %s: %w: %w", c, domain.ErrNetwork, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("fetch weather %s: read body: %w: %w", c, domain.ErrNetwork, err)
	}

	var decoded currentWeatherResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return 0, fmt.Errorf("fetch weather %s: decode: %w: %w", c, domain.ErrParse, err)
	}
	if decoded.Main == nil || decoded.Main.Temp == nil {
		return 0, fmt.Errorf("fetch weather %s: missing main.temp: %w", c, domain.ErrParse)
	}

	return *decoded.Main.Temp, nil
}
