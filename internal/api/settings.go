package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/homedash/homedash/internal/module"
	"github.com/homedash/homedash/internal/store"
)

type settingsAPI struct {
	store     *store.Store
	scheduler *module.Scheduler
}

func (a *settingsAPI) list(w http.ResponseWriter, r *http.Request) {
	settings, err := a.store.GetAllSettings()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	// Convert to map for easier consumption
	m := make(map[string]string)
	for _, s := range settings {
		m[s.Key] = s.Value
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *settingsAPI) update(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	for k, v := range body {
		if err := a.store.SetSetting(k, v); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}

	// Apply refresh_interval change to the running scheduler
	if v, ok := body["refresh_interval"]; ok && a.scheduler != nil {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			a.scheduler.UpdateInterval(sec)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
