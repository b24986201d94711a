package alternative

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

const baseURL = "https://api.alternative.me/fng"

// Client fetches the Fear & Greed index from alternative.me.
type Client struct {
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// NewClient creates a new Fear & Greed client.
func NewClient(requestTimeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout: requestTimeout,
		}),
		logger: log.With().Str("component", "feargreed_client").Logger(),
	}
}

type fngResponse struct {
	Data []struct {
		Value          string `json:"value"`
		Classification string `json:"value_classification"`
	} `json:"data"`
}

// GetFearGreed fetches the latest index reading.
func (c *Client) GetFearGreed(ctx context.Context) (models.FearGreedIndex, error) {
	url := c.baseURL + "/?limit=1"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.FearGreedIndex{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return models.FearGreedIndex{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.FearGreedIndex{}, fmt.Errorf("reading response body: %w", err)
	}

	var data fngResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return models.FearGreedIndex{}, fmt.Errorf("parsing JSON: %w", err)
	}

	if len(data.Data) == 0 {
		return models.FearGreedIndex{}, fmt.Errorf("empty data returned")
	}

	value, err := strconv.Atoi(data.Data[0].Value)
	if err != nil {
		return models.FearGreedIndex{}, fmt.Errorf("parsing index value: %w", err)
	}
	if value < 0 || value > 100 {
		return models.FearGreedIndex{}, fmt.Errorf("index value out of range: %d", value)
	}

	c.logger.Debug().Int("value", value).Msg("Fetched fear & greed index")
	return models.FearGreedIndex{
		Value:          value,
		Classification: data.Data[0].Classification,
	}, nil
}
