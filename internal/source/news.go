package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/homedash/homedash/internal/model"
)

// HeadlineClient scrapes headlines from an HTML page. It walks the page with
// a streaming tokenizer and collects the text of headline tags, so it works
// against most news front pages without a feed.
type HeadlineClient struct {
	httpClient *http.Client
	limit      int
}

// NewHeadlineClient creates a headline scraper with an explicit timeout.
// limit caps how many headlines a fetch returns.
func NewHeadlineClient(limit int, timeout time.Duration) *HeadlineClient {
	if limit <= 0 {
		limit = 5
	}
	return &HeadlineClient{
		httpClient: newClient(timeout),
		limit:      limit,
	}
}

// Headlines fetches pageURL and extracts up to limit headlines. The record
// carries the headlines under "headlines" and the source host under "source".
func (c *HeadlineClient) Headlines(ctx context.Context, pageURL string) (model.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &RequestError{Kind: KindNetwork, URL: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", "homedash/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Kind: KindNetwork, URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	// 1 MB is plenty for the headlines near the top of a front page.
	headlines, err := extractHeadlines(io.LimitReader(resp.Body, 1<<20), c.limit)
	if err != nil {
		return nil, &RequestError{Kind: KindDecode, URL: pageURL, Err: err}
	}
	if len(headlines) == 0 {
		return nil, &RequestError{Kind: KindDecode, URL: pageURL, Err: fmt.Errorf("no headlines found")}
	}

	host := pageURL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		host = u.Host
	}

	return model.Record{"headlines": headlines, "source": host}, nil
}

// headlineTags are the elements whose text counts as a headline.
var headlineTags = map[string]bool{"h1": true, "h2": true, "h3": true}

// extractHeadlines streams the HTML and returns the text content of the
// first limit headline elements, in document order.
func extractHeadlines(r io.Reader, limit int) ([]string, error) {
	tokenizer := html.NewTokenizer(r)

	var headlines []string
	depth := 0 // >0 while inside a headline element

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != io.EOF {
				return nil, fmt.Errorf("parse error: %w", err)
			}
			return headlines, nil

		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if headlineTags[string(tn)] {
				depth++
			}

		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			if headlineTags[string(tn)] && depth > 0 {
				depth--
			}

		case html.TextToken:
			if depth == 0 {
				continue
			}
			text := strings.TrimSpace(string(tokenizer.Text()))
			if text == "" {
				continue
			}
			headlines = append(headlines, text)
			if len(headlines) >= limit {
				return headlines, nil
			}
		}
	}
}
