// Package pricefeed fetches daily closing prices from the Yahoo Finance
// chart API and derives start/end price windows from them.
package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"stockwatch/internal/models"
)

// ErrEmptyWindow is returned when the provider has no trading rows for the
// requested range. It is a neutral outcome, not a failure: callers skip the
// ticker for the cycle.
var ErrEmptyWindow = errors.New("no trading data in window")

// FetchError wraps a provider failure for a single ticker.
type FetchError struct {
	Ticker models.Ticker
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Ticker, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client provides access to the Yahoo Finance v8 chart API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a price feed client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// chartResponse mirrors the Yahoo v8 chart payload, trimmed to the fields
// this client consumes.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchWindow retrieves the close-price window for ticker over the half-open
// date range [start, end). The upstream range end is exclusive in a way that
// drops the last desired day, so callers pass end one calendar day past the
// last date they want included.
func (c *Client) FetchWindow(ctx context.Context, ticker models.Ticker, start, end time.Time) (models.PriceWindow, error) {
	u, err := url.Parse(c.baseURL + "/v8/finance/chart/" + url.PathEscape(string(ticker)))
	if err != nil {
		return models.PriceWindow{}, &FetchError{Ticker: ticker, Err: err}
	}
	q := u.Query()
	q.Set("period1", fmt.Sprintf("%d", start.Unix()))
	q.Set("period2", fmt.Sprintf("%d", end.Unix()))
	q.Set("interval", "1d")
	u.RawQuery = q.Encode()

	resp, err := c.doRequest(ctx, u.String())
	if err != nil {
		return models.PriceWindow{}, &FetchError{Ticker: ticker, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// 404 is how the chart API reports an unknown symbol.
		return models.PriceWindow{}, &FetchError{Ticker: ticker, Err: fmt.Errorf("unexpected status: %d", resp.StatusCode)}
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.PriceWindow{}, &FetchError{Ticker: ticker, Err: fmt.Errorf("decode response: %w", err)}
	}
	if payload.Chart.Error != nil {
		return models.PriceWindow{}, &FetchError{Ticker: ticker, Err: fmt.Errorf("%s: %s", payload.Chart.Error.Code, payload.Chart.Error.Description)}
	}
	if len(payload.Chart.Result) == 0 {
		return models.PriceWindow{}, ErrEmptyWindow
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return models.PriceWindow{}, ErrEmptyWindow
	}
	closes := result.Indicators.Quote[0].Close

	// Rows for non-trading days come back as zero; keep only real closes.
	first, last := -1, -1
	for i, price := range closes {
		if price <= 0 {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 {
		return models.PriceWindow{}, ErrEmptyWindow
	}

	return models.PriceWindow{
		StartPrice:  closes[first],
		EndPrice:    closes[last],
		WindowStart: start,
		WindowEnd:   end,
	}, nil
}

// doRequest performs a single GET. A failed ticker is skipped for the
// cycle, not retried; the next poll attempts it again.
func (c *Client) doRequest(ctx context.Context, urlStr string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 500 {
		resp.Body.Close()
		return nil, fmt.Errorf("server error: %d", resp.StatusCode)
	}
	return resp, nil
}
