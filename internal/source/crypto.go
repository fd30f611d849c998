package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/homedash/homedash/internal/model"
)

const cryptoBaseURL = "https://api.coingecko.com/api/v3"

// CryptoClient fetches spot prices from a CoinGecko-compatible API.
// The simple price endpoint needs no API key.
type CryptoClient struct {
	currency   string
	httpClient *http.Client
	baseURL    string // overridable for testing
}

// NewCryptoClient creates a price client with an explicit timeout.
// currency is the quote currency, e.g. "usd" or "eur".
func NewCryptoClient(currency string, timeout time.Duration) *CryptoClient {
	if currency == "" {
		currency = "usd"
	}
	return &CryptoClient{
		currency:   strings.ToLower(currency),
		httpClient: newClient(timeout),
		baseURL:    cryptoBaseURL,
	}
}

// Prices fetches spot prices for the given coin IDs (e.g. "bitcoin").
// The record carries a coin→price map under "prices" and the quote currency
// under "currency".
func (c *CryptoClient) Prices(ctx context.Context, coins []string) (model.Record, error) {
	u := c.baseURL + "/simple/price?" + url.Values{
		"ids":           {strings.Join(coins, ",")},
		"vs_currencies": {c.currency},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &RequestError{Kind: KindNetwork, URL: u, Err: err}
	}

	// Response shape: {"bitcoin": {"usd": 64123.0}, ...}
	var body map[string]map[string]float64
	if err := getJSON(c.httpClient, req, &body); err != nil {
		return nil, err
	}

	prices := make(map[string]float64, len(coins))
	for _, coin := range coins {
		entry, ok := body[coin]
		if !ok {
			return nil, &RequestError{Kind: KindDecode, URL: u, Err: fmt.Errorf("coin %q missing from response", coin)}
		}
		prices[coin] = entry[c.currency]
	}

	return model.Record{"prices": prices, "currency": c.currency}, nil
}
