package module

import (
	"context"
	"fmt"
	"strings"

	"github.com/homedash/homedash/internal/config"
	"github.com/homedash/homedash/internal/model"
	"github.com/homedash/homedash/internal/source"
)

// cryptoModule shows spot prices for a fixed list of coins.
type cryptoModule struct {
	id     string
	coins  []string
	client *source.CryptoClient
}

// NewCryptoModule builds a crypto module. Params: coins (comma-separated
// CoinGecko IDs, default "bitcoin"), currency (default "usd").
func NewCryptoModule(cfg config.ModuleSettings) (Module, error) {
	coins := splitList(cfg.Param("coins", "bitcoin"))
	return &cryptoModule{
		id:     cfg.Name,
		coins:  coins,
		client: source.NewCryptoClient(cfg.Param("currency", "usd"), cfg.Timeout),
	}, nil
}

func (m *cryptoModule) ID() string   { return m.id }
func (m *cryptoModule) Name() string { return "Crypto" }
func (m *cryptoModule) Description() string {
	return "Spot prices for " + strings.Join(m.coins, ", ")
}

func (m *cryptoModule) Fetch(ctx context.Context) (model.Record, error) {
	return m.client.Prices(ctx, m.coins)
}

func (m *cryptoModule) Render(rec model.Record) model.Fragment {
	prices, _ := rec["prices"].(map[string]float64)
	currency := strings.ToUpper(rec.Str("currency"))

	// Render in config order, not map order.
	parts := make([]string, 0, len(m.coins))
	for _, coin := range m.coins {
		if p, ok := prices[coin]; ok {
			parts = append(parts, fmt.Sprintf("%s %.2f %s", coin, p, currency))
		}
	}
	return model.Fragment{
		Title: m.Name(),
		Text:  strings.Join(parts, ", "),
	}
}
