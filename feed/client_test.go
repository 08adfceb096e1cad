package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/papertrade/market"
)

func TestNewClientTrimsSlash(t *testing.T) {
	t.Parallel()

	c := NewClient("http://example.com/", "tok")
	assert.Equal(t, "http://example.com", c.baseURL)
	assert.Equal(t, "tok", c.token)
	assert.NotNil(t, c.httpClient)
}

func TestCandlesSuccess(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/candles", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "NQ=F", r.URL.Query().Get("symbol"))
		assert.Equal(t, "5m0s", r.URL.Query().Get("interval"))
		assert.Equal(t, "24h0m0s", r.URL.Query().Get("lookback"))

		_ = json.NewEncoder(w).Encode(candlesResponse{
			Symbol: "NQ=F",
			Candles: []market.Candle{
				{Time: ts, Open: 20000, High: 20010, Low: 19995, Close: 20005, Volume: 100},
				{Time: ts.Add(5 * time.Minute), Open: 20005, High: 20020, Low: 20001, Close: 20015.5, Volume: 80},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-token")
	cs, err := c.Candles(context.Background(), market.CandleRequest{
		Symbol:   "NQ=F",
		Interval: 5 * time.Minute,
		Lookback: 24 * time.Hour,
	})
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.True(t, ts.Equal(cs[0].Time))
	assert.Equal(t, 20015.5, cs[1].Close)
}

func TestCandlesUnavailable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "empty candles",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"symbol":"NQ=F","candles":[]}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewClient(server.URL, "").Candles(context.Background(), market.CandleRequest{Symbol: "NQ=F"})
			assert.ErrorIs(t, err, market.ErrDataUnavailable)
		})
	}
}

func TestCandlesNoServer(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url, "").Candles(context.Background(), market.CandleRequest{Symbol: "NQ"})
	assert.ErrorIs(t, err, market.ErrDataUnavailable)
}

func TestCandlesRequiresSymbol(t *testing.T) {
	t.Parallel()

	_, err := NewClient("http://localhost", "").Candles(context.Background(), market.CandleRequest{})
	assert.Error(t, err)
}

func TestClientSatisfiesCandleSource(t *testing.T) {
	var _ market.CandleSource = (*Client)(nil)
}
