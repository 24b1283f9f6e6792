// Package tickers resolves the constituent ticker list of a target market
// by scraping its reference page (Wikipedia index constituents tables).
package tickers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"stockwatch/internal/models"
)

// Source identifies one market's constituents page and how to turn its rows
// into provider-ready symbols.
type Source struct {
	Name   string // cache key, e.g. "us"
	URL    string
	Suffix string // appended to each symbol, e.g. ".NS" for NSE listings
	TopN   int    // keep only the first N constituents; 0 keeps all
}

// symbolColumns are the header names accepted as the ticker column, in
// preference order, matching what the reference pages actually use.
var symbolColumns = []string{"Symbol", "Ticker", "Company Name"}

// Provider scrapes constituent lists over HTTP.
type Provider struct {
	httpClient *http.Client
}

func NewProvider(timeout time.Duration) *Provider {
	return &Provider{httpClient: &http.Client{Timeout: timeout}}
}

// List fetches and parses the ordered constituent list for src.
// Any failure means the caller has no watch-list for the market; callers
// degrade to empty rather than aborting.
func (p *Provider) List(ctx context.Context, src Source) ([]models.Ticker, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", src.URL, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src.URL, err)
	}

	symbols, err := extractSymbols(doc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src.URL, err)
	}

	list := make([]models.Ticker, 0, len(symbols))
	for _, sym := range symbols {
		list = append(list, models.Ticker(sym+src.Suffix))
		if src.TopN > 0 && len(list) >= src.TopN {
			break
		}
	}
	return list, nil
}

// extractSymbols walks the document for the first table carrying a usable
// symbol column and returns that column's cell texts in row order.
func extractSymbols(doc *html.Node) ([]string, error) {
	for _, table := range findAll(doc, "table") {
		rows := findAll(table, "tr")
		if len(rows) < 2 {
			continue
		}
		col := symbolColumnIndex(rows[0])
		if col < 0 {
			continue
		}

		var symbols []string
		for _, row := range rows[1:] {
			cells := findAll(row, "td")
			if col >= len(cells) {
				continue
			}
			if sym := strings.TrimSpace(nodeText(cells[col])); sym != "" {
				symbols = append(symbols, sym)
			}
		}
		if len(symbols) > 0 {
			return symbols, nil
		}
	}
	return nil, fmt.Errorf("no table with a symbol column (%s)", strings.Join(symbolColumns, ", "))
}

func symbolColumnIndex(headerRow *html.Node) int {
	headers := findAll(headerRow, "th")
	if len(headers) == 0 {
		headers = findAll(headerRow, "td")
	}
	for _, want := range symbolColumns {
		for i, th := range headers {
			if strings.EqualFold(strings.TrimSpace(nodeText(th)), want) {
				return i
			}
		}
	}
	return -1
}

// findAll returns all descendant elements with the given tag, excluding
// matches nested inside another match (so rows of inner tables stay out).
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
