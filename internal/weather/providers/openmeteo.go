package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/avast/retry-go/v4"
	"github.com/goccy/go-json"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultOpenMeteoURL is the public Open-Meteo forecast endpoint.
const DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

const currentFields = "temperature_2m,weather_code,wind_speed_10m,relative_humidity_2m,uv_index"

// OpenMeteoClient fetches current conditions for one city at a time from
// Open-Meteo. It implements weather.Fetcher.
type OpenMeteoClient struct {
	client   Doer
	baseURL  string
	timer    retry.Timer
	breakers *breakerSet
}

var _ weather.Fetcher = (*OpenMeteoClient)(nil)

// Option customizes an OpenMeteoClient.
type Option func(*OpenMeteoClient)

// WithBaseURL points the client at a different forecast endpoint.
func WithBaseURL(u string) Option {
	return func(c *OpenMeteoClient) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithTimer replaces the clock used to wait between attempts.
func WithTimer(t retry.Timer) Option {
	return func(c *OpenMeteoClient) {
		c.timer = t
	}
}

// WithCircuitBreaker enables a per-city breaker that opens after threshold
// consecutive failed attempts. A threshold <= 0 disables it.
func WithCircuitBreaker(threshold int) Option {
	return func(c *OpenMeteoClient) {
		c.breakers = newBreakerSet(threshold)
	}
}

func NewOpenMeteoClient(client Doer, opts ...Option) *OpenMeteoClient {
	c := &OpenMeteoClient{
		client:  client,
		baseURL: DefaultOpenMeteoURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchCityWeather fetches and normalizes the current weather for city.
// Every failure, including exhausted retries, comes back as a Failure.
func (c *OpenMeteoClient) FetchCityWeather(ctx context.Context, city weather.City) (out weather.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = weather.Failure(fmt.Sprintf("%v", r))
		}
	}()

	if c.client == nil {
		return weather.Failure(errNoHTTPClient.Error())
	}

	// upstream is the last error that came from the API itself rather than
	// from an open breaker.
	var upstream error
	current, err := withRetry(ctx, city.Name, c.timer, func() (weather.CurrentWeather, error) {
		return execute(c.breakers, city.Name, func() (weather.CurrentWeather, error) {
			w, err := c.fetchOnce(ctx, city)
			if err != nil {
				upstream = err
			}
			return w, err
		})
	})
	if err != nil {
		if upstream != nil && isBreakerRejection(err) {
			err = fmt.Errorf("%w: %v", err, upstream)
		}
		log.Printf("providers: openmeteo fetch for %s gave up: %v", city.Name, err)
		return weather.Failure(err.Error())
	}

	return weather.Success(current)
}

func (c *OpenMeteoClient) buildRequest(ctx context.Context, city weather.City) (*http.Request, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(city.Latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(city.Longitude, 'f', -1, 64))
	values.Set("current", currentFields)
	values.Set("temperature_unit", "fahrenheit")
	values.Set("wind_speed_unit", "mph")
	values.Set("timezone", "auto")
	values.Set("forecast_days", "1")

	u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
	return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
}

type forecastPayload struct {
	Error   bool   `json:"error"`
	Reason  string `json:"reason"`
	Current *struct {
		Temperature         float64  `json:"temperature_2m"`
		ApparentTemperature *float64 `json:"apparent_temperature"`
		Humidity            int      `json:"relative_humidity_2m"`
		WindSpeed           float64  `json:"wind_speed_10m"`
		WeatherCode         int      `json:"weather_code"`
		UVIndex             *float64 `json:"uv_index"`
	} `json:"current"`
}

// fetchOnce performs a single attempt. Any returned error is retryable
// except a request that cannot be built.
func (c *OpenMeteoClient) fetchOnce(ctx context.Context, city weather.City) (weather.CurrentWeather, error) {
	req, err := c.buildRequest(ctx, city)
	if err != nil {
		return weather.CurrentWeather{}, retry.Unrecoverable(err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return weather.CurrentWeather{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return weather.CurrentWeather{}, err
	}

	var payload forecastPayload
	decodeErr := json.NewDecoder(bytes.NewReader(body)).Decode(&payload)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && payload.Reason != "" {
			return weather.CurrentWeather{}, fmt.Errorf("%w: %d: %s", errUnexpected, resp.StatusCode, payload.Reason)
		}
		return weather.CurrentWeather{}, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
	}
	if decodeErr != nil {
		return weather.CurrentWeather{}, fmt.Errorf("%w: %v", errMalformed, decodeErr)
	}
	if payload.Error {
		if payload.Reason != "" {
			return weather.CurrentWeather{}, fmt.Errorf("%w: %s", errPayload, payload.Reason)
		}
		return weather.CurrentWeather{}, errPayload
	}
	if payload.Current == nil {
		return weather.CurrentWeather{}, fmt.Errorf("%w: missing current conditions", errMalformed)
	}

	return normalize(payload), nil
}

func normalize(p forecastPayload) weather.CurrentWeather {
	cur := p.Current

	feelsLike := cur.Temperature
	if cur.ApparentTemperature != nil {
		feelsLike = *cur.ApparentTemperature
	}

	var uv float64
	if cur.UVIndex != nil {
		uv = *cur.UVIndex
	}

	return weather.CurrentWeather{
		Temperature: roundDegrees(cur.Temperature),
		FeelsLike:   roundDegrees(feelsLike),
		Humidity:    cur.Humidity,
		WindSpeed:   cur.WindSpeed,
		UVIndex:     uv,
		Condition: weather.Condition{
			Code:        cur.WeatherCode,
			Description: weather.PlaceholderDescription,
		},
	}
}

// roundDegrees rounds to the nearest whole degree, halves rounding up.
func roundDegrees(f float64) int {
	return int(math.Floor(f + 0.5))
}
