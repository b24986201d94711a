package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "cryptosignal/internal/platform/http"
	"cryptosignal/models"
)

const baseURL = "https://api.binance.com/api/v3"

// Client fetches kline data from the Binance public API.
type Client struct {
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new Binance client.
type ClientOptions struct {
	RequestTimeout time.Duration
	RequestsPerSec int
}

// NewClient creates a new Binance API client.
func NewClient(options ClientOptions) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout:        options.RequestTimeout,
			RequestsPerSec: options.RequestsPerSec,
		}),
		logger: log.With().Str("component", "binance_client").Logger(),
	}
}

// GetCandles fetches candles for symbol, oldest first. A non-2xx response
// or a malformed payload is returned as an error; the caller decides how
// to degrade.
func (c *Client) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error) {
	url := fmt.Sprintf("%s/klines?symbol=%s&interval=%s&limit=%d", c.baseURL, symbol, interval, limit)

	c.logger.Debug().Str("url", url).Msg("Fetching candles")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	// Binance klines come as arrays of mixed numbers and strings:
	// [openTime, "open", "high", "low", "close", "volume", ...]
	var raw [][]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		c.logger.Error().Err(err).Msg("Error parsing klines JSON")
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	if len(raw) == 0 {
		c.logger.Warn().Msg("No candles in response")
		return nil, fmt.Errorf("empty data returned")
	}

	candles := make([]models.Candle, 0, len(raw))
	for _, k := range raw {
		if len(k) < 6 {
			return nil, fmt.Errorf("malformed kline entry: %d fields", len(k))
		}

		var openTime int64
		if err := json.Unmarshal(k[0], &openTime); err != nil {
			return nil, fmt.Errorf("parsing kline time: %w", err)
		}

		fields := make([]float64, 5)
		for i := 1; i <= 5; i++ {
			var s string
			if err := json.Unmarshal(k[i], &s); err != nil {
				return nil, fmt.Errorf("parsing kline field %d: %w", i, err)
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing kline field %d: %w", i, err)
			}
			fields[i-1] = v
		}

		candles = append(candles, models.Candle{
			Time:   openTime,
			Open:   fields[0],
			High:   fields[1],
			Low:    fields[2],
			Close:  fields[3],
			Volume: fields[4],
		})
	}

	c.logger.Debug().Int("count", len(candles)).Msg("Fetched candles")
	return candles, nil
}
