package model

// Fragment is one module's rendered output for a single refresh pass.
type Fragment struct {
	Module    string `json:"module"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	OK        bool   `json:"ok"`
	Err       string `json:"error,omitempty"`
	FetchedAt int64  `json:"fetched_at"`
}

// Line returns the one-line display form, e.g. "Weather: 72°, sunny".
func (f Fragment) Line() string {
	return f.Title + ": " + f.Text
}

// RefreshResult is the ordered output of one refresh pass. Fragment order
// always matches module registration order, regardless of fetch completion
// order.
type RefreshResult struct {
	PassID    string     `json:"pass_id"`
	Timestamp int64      `json:"timestamp"`
	Fragments []Fragment `json:"fragments"`
}
