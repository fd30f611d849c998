package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/homedash/homedash/internal/model"
	"github.com/homedash/homedash/internal/module"
	"github.com/homedash/homedash/internal/store"
)

type dashboardAPI struct {
	store     *store.Store
	scheduler *module.Scheduler
}

// latest returns the most recent refresh result, fragments in registration
// order. When no pass has run in this process yet, the last persisted pass
// is served instead, so the dashboard survives a restart.
func (a *dashboardAPI) latest(w http.ResponseWriter, r *http.Request) {
	if res := a.scheduler.Latest(); res != nil {
		writeJSON(w, http.StatusOK, res)
		return
	}

	if a.store != nil {
		samples, err := a.store.LatestPass()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if len(samples) > 0 {
			writeJSON(w, http.StatusOK, resultFromSamples(samples))
			return
		}
	}

	writeJSON(w, http.StatusNotFound, map[string]string{"error": "no refresh has run yet"})
}

// resultFromSamples rebuilds a refresh result from its persisted samples.
func resultFromSamples(samples []model.FetchSample) model.RefreshResult {
	res := model.RefreshResult{
		PassID:    samples[0].PassID,
		Timestamp: samples[0].Timestamp,
	}
	for _, s := range samples {
		res.Fragments = append(res.Fragments, model.Fragment{
			Module:    s.Module,
			Title:     s.Title,
			Text:      s.Text,
			OK:        s.OK,
			Err:       s.Err,
			FetchedAt: s.Timestamp,
		})
	}
	return res
}

// refresh triggers a refresh pass now and returns its result.
func (a *dashboardAPI) refresh(w http.ResponseWriter, r *http.Request) {
	res := a.scheduler.RunPass(r.Context())
	writeJSON(w, http.StatusOK, res)
}

// history returns persisted samples for one module.
// GET /api/v1/history?module=weather&from=0&to=1700000000
func (a *dashboardAPI) history(w http.ResponseWriter, r *http.Request) {
	moduleID := r.URL.Query().Get("module")
	if moduleID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "module parameter is required"})
		return
	}

	now := time.Now().Unix()
	from := parseInt64(r.URL.Query().Get("from"), now-3600)
	to := parseInt64(r.URL.Query().Get("to"), now)

	samples, err := a.store.QueryHistory(moduleID, from, to)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if samples == nil {
		samples = []model.FetchSample{}
	}
	writeJSON(w, http.StatusOK, samples)
}

func parseInt64(s string, def int64) int64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def
	}
	return v
}
