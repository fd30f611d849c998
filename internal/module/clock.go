package module

import (
	"context"
	"fmt"
	"time"

	"github.com/homedash/homedash/internal/config"
	"github.com/homedash/homedash/internal/model"
)

// clockModule shows the current time, optionally in another timezone.
// It needs no data source and never fails at fetch time.
type clockModule struct {
	id     string
	format string
	loc    *time.Location
	now    func() time.Time // swappable in tests
}

// NewClockModule builds a clock module. Params: tz (IANA zone name, default
// local), format (Go reference layout, default "Mon 02 Jan 15:04").
func NewClockModule(cfg config.ModuleSettings) (Module, error) {
	loc := time.Local
	if tz := cfg.Param("tz", ""); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("clock: unknown timezone %q", tz)
		}
		loc = l
	}
	return &clockModule{
		id:     cfg.Name,
		format: cfg.Param("format", "Mon 02 Jan 15:04"),
		loc:    loc,
		now:    time.Now,
	}, nil
}

func (m *clockModule) ID() string          { return m.id }
func (m *clockModule) Name() string        { return "Clock" }
func (m *clockModule) Description() string { return "Current date and time" }

func (m *clockModule) Fetch(ctx context.Context) (model.Record, error) {
	t := m.now().In(m.loc)
	return model.Record{
		"time": t.Format(m.format),
		"zone": t.Format("MST"),
	}, nil
}

func (m *clockModule) Render(rec model.Record) model.Fragment {
	return model.Fragment{
		Title: m.Name(),
		Text:  rec.Str("time"),
	}
}
