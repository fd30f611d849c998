package module

import (
	"context"
	"fmt"

	"github.com/homedash/homedash/internal/config"
	"github.com/homedash/homedash/internal/model"
	"github.com/homedash/homedash/internal/source"
)

// weatherModule shows current conditions for one city.
type weatherModule struct {
	id     string
	city   string
	client *source.WeatherClient
}

// NewWeatherModule builds a weather module. Params: city (required),
// units (metric|imperial, default metric).
func NewWeatherModule(cfg config.ModuleSettings) (Module, error) {
	city := cfg.Param("city", "")
	if city == "" {
		return nil, fmt.Errorf("weather: city param is required")
	}
	return &weatherModule{
		id:     cfg.Name,
		city:   city,
		client: source.NewWeatherClient(cfg.APIKey, cfg.Param("units", "metric"), cfg.Timeout),
	}, nil
}

func (m *weatherModule) ID() string   { return m.id }
func (m *weatherModule) Name() string { return "Weather" }
func (m *weatherModule) Description() string {
	return fmt.Sprintf("Current weather conditions in %s", m.city)
}

func (m *weatherModule) Fetch(ctx context.Context) (model.Record, error) {
	return m.client.Current(ctx, m.city)
}

func (m *weatherModule) Render(rec model.Record) model.Fragment {
	return model.Fragment{
		Title: m.Name(),
		Text:  fmt.Sprintf("%g°, %s", rec.Float("temp"), rec.Str("condition")),
	}
}
