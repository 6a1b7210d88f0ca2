package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ogulcanaydogan/vix-monitor/pkg/model"
)

// DefaultYahooBaseURL is the public Yahoo Finance chart host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// Yahoo reads daily closes from the Yahoo Finance chart API.
type Yahoo struct {
	baseURL string
	symbol  string
	client  *http.Client
}

// NewYahoo creates a Yahoo Finance provider for symbol.
func NewYahoo(baseURL, symbol string, timeout time.Duration) *Yahoo {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	if symbol == "" {
		symbol = model.DefaultSymbol
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Yahoo{
		baseURL: strings.TrimRight(baseURL, "/"),
		symbol:  symbol,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (y *Yahoo) Name() string { return "yahoo" }

// Symbol returns the instrument this provider fetches.
func (y *Yahoo) Symbol() string { return y.symbol }

func (y *Yahoo) Fetch(ctx context.Context) (model.Reading, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1d",
		y.baseURL, url.PathEscape(y.symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.Reading{}, fmt.Errorf("create chart request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "vix-monitor/1.0")

	resp, err := y.client.Do(req)
	if err != nil {
		return model.Reading{}, fmt.Errorf("fetch %s: %w", y.symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return model.Reading{}, fmt.Errorf("%w: symbol %s not found", ErrNoData, y.symbol)
	}
	if resp.StatusCode != http.StatusOK {
		return model.Reading{}, fmt.Errorf("chart API returned status %d", resp.StatusCode)
	}

	var body chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.Reading{}, fmt.Errorf("decode chart response: %w", err)
	}
	return body.reading(y.symbol)
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Symbol             string   `json:"symbol"`
		RegularMarketPrice *float64 `json:"regularMarketPrice"`
		RegularMarketTime  int64    `json:"regularMarketTime"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// reading picks the last non-null close, falling back to the regular
// market price when the close series is empty.
func (c chartResponse) reading(symbol string) (model.Reading, error) {
	if c.Chart.Error != nil {
		return model.Reading{}, fmt.Errorf("%w: %s: %s", ErrNoData, c.Chart.Error.Code, c.Chart.Error.Description)
	}
	if len(c.Chart.Result) == 0 {
		return model.Reading{}, fmt.Errorf("%w: empty chart for %s", ErrNoData, symbol)
	}

	res := c.Chart.Result[0]
	if res.Meta.Symbol != "" {
		symbol = res.Meta.Symbol
	}

	if len(res.Indicators.Quote) > 0 {
		closes := res.Indicators.Quote[0].Close
		for i := len(closes) - 1; i >= 0; i-- {
			if closes[i] == nil {
				continue
			}
			r := model.Reading{Symbol: symbol, Value: *closes[i]}
			if i < len(res.Timestamp) {
				r.AsOf = time.Unix(res.Timestamp[i], 0).UTC()
			}
			if r.Valid() {
				return r, nil
			}
		}
	}

	if p := res.Meta.RegularMarketPrice; p != nil {
		r := model.Reading{Symbol: symbol, Value: *p}
		if res.Meta.RegularMarketTime > 0 {
			r.AsOf = time.Unix(res.Meta.RegularMarketTime, 0).UTC()
		}
		if r.Valid() {
			return r, nil
		}
	}

	return model.Reading{}, fmt.Errorf("%w: no close for %s", ErrNoData, symbol)
}
