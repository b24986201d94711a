package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "cryptosignal/internal/platform/http"
	"cryptosignal/models"
)

const baseURL = "https://api.coingecko.com/api/v3"

// coinIDs maps ticker symbols to CoinGecko coin ids.
var coinIDs = map[string]string{
	"BTC": "bitcoin",
	"ETH": "ethereum",
	"SOL": "solana",
	"BNB": "binancecoin",
}

// Client synthesizes a market-move headline from CoinGecko market data.
// It acts as a news source so the sentiment aggregator always has at
// least a price-action signal to work with.
type Client struct {
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
	now        func() time.Time
}

// NewClient creates a new CoinGecko client.
func NewClient(requestTimeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout: requestTimeout,
		}),
		logger: log.With().Str("component", "coingecko_client").Logger(),
		now:    time.Now,
	}
}

type coinResponse struct {
	MarketData struct {
		PriceChange24h float64 `json:"price_change_percentage_24h"`
		PriceChange7d  float64 `json:"price_change_percentage_7d"`
	} `json:"market_data"`
}

// GetNews returns a single synthesized headline describing the 24h and
// 7d price moves for coin.
func (c *Client) GetNews(ctx context.Context, coin string) ([]models.NewsItem, error) {
	coinID, ok := coinIDs[coin]
	if !ok {
		coinID = strings.ToLower(coin)
	}

	url := fmt.Sprintf(
		"%s/coins/%s?localization=false&tickers=false&market_data=true&community_data=true&developer_data=false&sparkline=false",
		c.baseURL, coinID,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var data coinResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	change24h := data.MarketData.PriceChange24h
	change7d := data.MarketData.PriceChange7d

	title := fmt.Sprintf("%s %s %.2f%% in 24h, %s %.2f%% in 7 days",
		coin, direction(change24h), math.Abs(change24h),
		direction(change7d), math.Abs(change7d))

	return []models.NewsItem{{
		Title:       title,
		Source:      "CoinGecko",
		URL:         "https://coingecko.com/en/coins/" + coinID,
		PublishedAt: c.now().UTC().Format(time.RFC3339),
	}}, nil
}

func direction(change float64) string {
	if change >= 0 {
		return "up"
	}
	return "down"
}
