package model

// ModuleState represents the persisted enabled/disabled state of a module
// instance.
type ModuleState struct {
	ModuleID string `json:"module_id"`
	Enabled  bool   `json:"enabled"`
}

// ModuleInfo describes a configured module instance for the API.
type ModuleInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

// FetchSample is one persisted fragment from a refresh pass.
type FetchSample struct {
	ID        int64  `json:"id,omitempty"`
	PassID    string `json:"pass_id"`
	Timestamp int64  `json:"timestamp"`
	Module    string `json:"module"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	OK        bool   `json:"ok"`
	Err       string `json:"error,omitempty"`
}
