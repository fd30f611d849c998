package module

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/homedash/homedash/internal/config"
	"github.com/homedash/homedash/internal/model"
)

// sysinfoModule shows local memory usage and load average. Unlike the other
// modules it reads the local system instead of an external API.
type sysinfoModule struct {
	id string
}

// NewSysinfoModule builds a sysinfo module. No params.
func NewSysinfoModule(cfg config.ModuleSettings) (Module, error) {
	return &sysinfoModule{id: cfg.Name}, nil
}

func (m *sysinfoModule) ID() string          { return m.id }
func (m *sysinfoModule) Name() string        { return "System" }
func (m *sysinfoModule) Description() string { return "Local memory usage and load average" }

func (m *sysinfoModule) Fetch(ctx context.Context) (model.Record, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}

	rec := model.Record{
		"mem_used_pct": vm.UsedPercent,
		"mem_total":    float64(vm.Total),
		"mem_used":     float64(vm.Used),
	}

	// Load average is unavailable on some platforms; leave the keys out then.
	if avg, err := load.AvgWithContext(ctx); err == nil {
		rec["load1"] = avg.Load1
		rec["load5"] = avg.Load5
		rec["load15"] = avg.Load15
	}

	return rec, nil
}

func (m *sysinfoModule) Render(rec model.Record) model.Fragment {
	text := fmt.Sprintf("mem %.1f%%", rec.Float("mem_used_pct"))
	if _, ok := rec["load1"]; ok {
		text += fmt.Sprintf(", load %.2f %.2f %.2f",
			rec.Float("load1"), rec.Float("load5"), rec.Float("load15"))
	}
	return model.Fragment{
		Title: m.Name(),
		Text:  text,
	}
}
