package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rustyeddy/papertrade/market"
)

const defaultTimeout = 10 * time.Second

// Client fetches candles from an HTTP candle service.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a candle client. token may be empty.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// candlesResponse is the wire body of GET /candles.
type candlesResponse struct {
	Symbol  string          `json:"symbol"`
	Candles []market.Candle `json:"candles"`
}

// Candles implements market.CandleSource. Transport failures, non-200
// responses and empty bodies are all reported as market.ErrDataUnavailable.
func (c *Client) Candles(ctx context.Context, req market.CandleRequest) ([]market.Candle, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	params := url.Values{}
	params.Set("symbol", req.Symbol)
	if req.Interval > 0 {
		params.Set("interval", req.Interval.String())
	}
	if req.Lookback > 0 {
		params.Set("lookback", req.Lookback.String())
	}

	apiURL := fmt.Sprintf("%s/candles?%s", c.baseURL, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", market.ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", market.ErrDataUnavailable,
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var body candlesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(body.Candles) == 0 {
		return nil, market.ErrDataUnavailable
	}

	return body.Candles, nil
}
