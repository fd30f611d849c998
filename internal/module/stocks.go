package module

import (
	"context"
	"fmt"
	"strings"

	"github.com/homedash/homedash/internal/config"
	"github.com/homedash/homedash/internal/model"
	"github.com/homedash/homedash/internal/source"
)

// stocksModule shows quotes for a fixed list of symbols.
type stocksModule struct {
	id      string
	symbols []string
	client  *source.QuoteClient
}

// NewStocksModule builds a stocks module. Params: symbols (comma-separated,
// required).
func NewStocksModule(cfg config.ModuleSettings) (Module, error) {
	symbols := splitList(cfg.Param("symbols", ""))
	if len(symbols) == 0 {
		return nil, fmt.Errorf("stocks: symbols param is required")
	}
	return &stocksModule{
		id:      cfg.Name,
		symbols: symbols,
		client:  source.NewQuoteClient(cfg.APIKey, cfg.Timeout),
	}, nil
}

func (m *stocksModule) ID() string   { return m.id }
func (m *stocksModule) Name() string { return "Stocks" }
func (m *stocksModule) Description() string {
	return "Stock quotes for " + strings.Join(m.symbols, ", ")
}

func (m *stocksModule) Fetch(ctx context.Context) (model.Record, error) {
	return m.client.Quotes(ctx, m.symbols)
}

func (m *stocksModule) Render(rec model.Record) model.Fragment {
	quotes, _ := rec["quotes"].([]source.Quote)
	parts := make([]string, 0, len(quotes))
	for _, q := range quotes {
		parts = append(parts, fmt.Sprintf("%s %.2f (%+.1f%%)", q.Symbol, q.Price, q.ChangePct))
	}
	return model.Fragment{
		Title: m.Name(),
		Text:  strings.Join(parts, ", "),
	}
}

// splitList splits a comma-separated param, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
