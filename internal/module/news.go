package module

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/homedash/homedash/internal/config"
	"github.com/homedash/homedash/internal/model"
	"github.com/homedash/homedash/internal/source"
)

// newsModule shows the top headlines scraped from one news front page.
type newsModule struct {
	id     string
	url    string
	client *source.HeadlineClient
}

// NewNewsModule builds a news module. Params: url (required), limit
// (default 3).
func NewNewsModule(cfg config.ModuleSettings) (Module, error) {
	pageURL := cfg.Param("url", "")
	if pageURL == "" {
		return nil, fmt.Errorf("news: url param is required")
	}
	limit, err := strconv.Atoi(cfg.Param("limit", "3"))
	if err != nil || limit < 1 {
		return nil, fmt.Errorf("news: invalid limit param %q", cfg.Param("limit", "3"))
	}
	return &newsModule{
		id:     cfg.Name,
		url:    pageURL,
		client: source.NewHeadlineClient(limit, cfg.Timeout),
	}, nil
}

func (m *newsModule) ID() string   { return m.id }
func (m *newsModule) Name() string { return "News" }
func (m *newsModule) Description() string {
	return "Top headlines from " + m.url
}

func (m *newsModule) Fetch(ctx context.Context) (model.Record, error) {
	return m.client.Headlines(ctx, m.url)
}

func (m *newsModule) Render(rec model.Record) model.Fragment {
	headlines, _ := rec["headlines"].([]string)
	return model.Fragment{
		Title: m.Name(),
		Text:  strings.Join(headlines, " | "),
	}
}
