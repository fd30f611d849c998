package module

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homedash/homedash/internal/model"
)

// Refresh runs one fetch-render pass over the given modules. Fetches run
// concurrently; modules share no state. The fragment slice is assembled by
// registration index, so output order matches registration order no matter
// which fetch finishes first. A failed module yields a placeholder fragment
// and never affects the others.
func Refresh(ctx context.Context, mods []Module) model.RefreshResult {
	res := model.RefreshResult{
		PassID:    uuid.NewString(),
		Timestamp: time.Now().Unix(),
		Fragments: make([]model.Fragment, len(mods)),
	}

	var wg sync.WaitGroup
	for i, m := range mods {
		wg.Add(1)
		go func(i int, m Module) {
			defer wg.Done()
			res.Fragments[i] = runModule(ctx, m)
		}(i, m)
	}
	wg.Wait()

	return res
}

func runModule(ctx context.Context, m Module) model.Fragment {
	now := time.Now().Unix()

	rec, err := m.Fetch(ctx)
	if err != nil {
		merr := &ModuleError{Module: m.ID(), Err: err}
		log.Printf("[refresh] %v", merr)
		return model.Fragment{
			Module:    m.ID(),
			Title:     m.Name(),
			Text:      "unavailable",
			OK:        false,
			Err:       merr.Error(),
			FetchedAt: now,
		}
	}

	frag := m.Render(rec)
	frag.Module = m.ID()
	if frag.Title == "" {
		frag.Title = m.Name()
	}
	frag.OK = true
	frag.FetchedAt = now
	return frag
}
