package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testAPIKey = "test-key"

func newTestWeatherClient(baseURL string) *WeatherClient {
	c := NewWeatherClient(testAPIKey, "metric", 5*time.Second)
	c.baseURL = baseURL
	return c
}

func TestWeatherCurrentSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("q"); got != "Stockholm" {
			t.Errorf("expected q=Stockholm, got %s", got)
		}
		if got := q.Get("appid"); got != testAPIKey {
			t.Errorf("expected appid=%s, got %s", testAPIKey, got)
		}
		if got := q.Get("units"); got != "metric" {
			t.Errorf("expected units=metric, got %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"name": "Stockholm",
			"sys": {"country": "SE"},
			"main": {"temp": -5.2, "feels_like": -9.8, "humidity": 72},
			"wind": {"speed": 3.5},
			"weather": [{"main": "Clouds", "description": "overcast clouds"}]
		}`))
	}))
	defer srv.Close()

	rec, err := newTestWeatherClient(srv.URL).Current(context.Background(), "Stockholm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := rec.Str("city"); got != "Stockholm" {
		t.Errorf("expected city Stockholm, got %s", got)
	}
	if got := rec.Str("country"); got != "SE" {
		t.Errorf("expected country SE, got %s", got)
	}
	if got := rec.Float("temp"); got != -5.2 {
		t.Errorf("expected temp -5.2, got %f", got)
	}
	if got := rec.Str("condition"); got != "Clouds" {
		t.Errorf("expected condition Clouds, got %s", got)
	}
	if got := rec.Float("wind_speed"); got != 3.5 {
		t.Errorf("expected wind 3.5, got %f", got)
	}
}

func TestWeatherCurrentUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"cod": 401, "message": "Invalid API key"})
	}))
	defer srv.Close()

	_, err := newTestWeatherClient(srv.URL).Current(context.Background(), "Stockholm")
	if err == nil {
		t.Fatal("expected error for 401 response, got nil")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T", err)
	}
	if reqErr.Kind != KindAuth {
		t.Errorf("expected kind %s, got %s", KindAuth, reqErr.Kind)
	}
	if reqErr.Status != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", reqErr.Status)
	}
}

func TestWeatherCurrentNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"cod": "404", "message": "city not found"})
	}))
	defer srv.Close()

	_, err := newTestWeatherClient(srv.URL).Current(context.Background(), "Nowhere")
	if err == nil {
		t.Fatal("expected error for 404 response, got nil")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T", err)
	}
	if reqErr.Kind != KindStatus {
		t.Errorf("expected kind %s, got %s", KindStatus, reqErr.Kind)
	}
	if want := "status error (HTTP 404): city not found"; err.Error() != want {
		t.Errorf("expected error %q, got %q", want, err.Error())
	}
}

func TestWeatherCurrentMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := newTestWeatherClient(srv.URL).Current(context.Background(), "Stockholm")
	if err == nil {
		t.Fatal("expected error for malformed body, got nil")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T", err)
	}
	if reqErr.Kind != KindDecode {
		t.Errorf("expected kind %s, got %s", KindDecode, reqErr.Kind)
	}
}

func TestWeatherCurrentContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := newTestWeatherClient(srv.URL).Current(ctx, "Stockholm")
	if err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T", err)
	}
	if reqErr.Kind != KindNetwork {
		t.Errorf("expected kind %s, got %s", KindNetwork, reqErr.Kind)
	}
}
