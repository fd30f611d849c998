package api

import (
	"net/http"

	"github.com/homedash/homedash/internal/module"
)

type modulesAPI struct {
	registry *module.Registry
}

func (a *modulesAPI) list(w http.ResponseWriter, r *http.Request) {
	infos := a.registry.List()
	writeJSON(w, http.StatusOK, infos)
}

func (a *modulesAPI) enable(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := a.registry.Enable(id); err != nil {
		if err == module.ErrModuleNotFound {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "module not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "enabled"})
}

func (a *modulesAPI) disable(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := a.registry.Disable(id); err != nil {
		if err == module.ErrModuleNotFound {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "module not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
}
