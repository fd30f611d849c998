package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/homedash/homedash/internal/model"
)

const weatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// WeatherClient fetches current conditions from an OpenWeatherMap-compatible API.
type WeatherClient struct {
	apiKey     string
	units      string
	httpClient *http.Client
	baseURL    string // overridable for testing
}

// NewWeatherClient creates a client with an explicit timeout instead of
// http.DefaultClient. units is "metric" or "imperial".
func NewWeatherClient(apiKey, units string, timeout time.Duration) *WeatherClient {
	if units == "" {
		units = "metric"
	}
	return &WeatherClient{
		apiKey:     apiKey,
		units:      units,
		httpClient: newClient(timeout),
		baseURL:    weatherBaseURL,
	}
}

// weatherResponse is the subset of the OpenWeatherMap payload we use.
type weatherResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

// weatherAPIError is the error payload shape. cod comes back as int or
// string depending on the endpoint.
type weatherAPIError struct {
	Cod     any    `json:"cod"`
	Message string `json:"message"`
}

// Current requests current weather for the given city and returns it as a
// record with keys: city, country, temp, feels_like, humidity, wind_speed,
// condition, description.
func (c *WeatherClient) Current(ctx context.Context, city string) (model.Record, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, &RequestError{Kind: KindNetwork, URL: c.baseURL, Err: err}
	}
	q := u.Query()
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", c.units)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &RequestError{Kind: KindNetwork, URL: u.String(), Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Kind: KindNetwork, URL: u.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		kind := KindStatus
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			kind = KindAuth
		}
		var apiErr weatherAPIError
		msg := "unable to decode error body"
		if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr); err == nil && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return nil, &RequestError{Kind: kind, URL: u.String(), Status: resp.StatusCode, Err: fmt.Errorf("%s", msg)}
	}

	var w weatherResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&w); err != nil {
		return nil, &RequestError{Kind: KindDecode, URL: u.String(), Err: err}
	}

	condition, description := "", ""
	if len(w.Weather) > 0 {
		condition = w.Weather[0].Main
		description = w.Weather[0].Description
	}

	return model.Record{
		"city":        w.Name,
		"country":     w.Sys.Country,
		"temp":        w.Main.Temp,
		"feels_like":  w.Main.FeelsLike,
		"humidity":    float64(w.Main.Humidity),
		"wind_speed":  w.Wind.Speed,
		"condition":   condition,
		"description": description,
	}, nil
}
