package source

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/homedash/homedash/internal/model"
)

const quoteBaseURL = "https://finnhub.io/api/v1"

// Quote is one stock quote.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	ChangePct float64 `json:"change_pct"`
}

// QuoteClient fetches stock quotes from a Finnhub-compatible API.
type QuoteClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string // overridable for testing
}

// NewQuoteClient creates a quote client with an explicit timeout.
func NewQuoteClient(apiKey string, timeout time.Duration) *QuoteClient {
	return &QuoteClient{
		apiKey:     apiKey,
		httpClient: newClient(timeout),
		baseURL:    quoteBaseURL,
	}
}

type quoteResponse struct {
	Current   float64 `json:"c"`
	ChangePct float64 `json:"dp"`
}

// Quotes fetches one quote per symbol, in the given order. A failure on any
// symbol fails the whole invocation; partial results are not returned.
// The record carries the quotes under the "quotes" key.
func (c *QuoteClient) Quotes(ctx context.Context, symbols []string) (model.Record, error) {
	quotes := make([]Quote, 0, len(symbols))
	for _, sym := range symbols {
		q, err := c.quote(ctx, sym)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return model.Record{"quotes": quotes}, nil
}

func (c *QuoteClient) quote(ctx context.Context, symbol string) (Quote, error) {
	u := c.baseURL + "/quote?" + url.Values{
		"symbol": {symbol},
		"token":  {c.apiKey},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Quote{}, &RequestError{Kind: KindNetwork, URL: u, Err: err}
	}

	var qr quoteResponse
	if err := getJSON(c.httpClient, req, &qr); err != nil {
		return Quote{}, err
	}
	return Quote{Symbol: symbol, Price: qr.Current, ChangePct: qr.ChangePct}, nil
}
