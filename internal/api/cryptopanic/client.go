package cryptopanic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "cryptosignal/internal/platform/http"
	"cryptosignal/models"
)

const baseURL = "https://cryptopanic.com/api/free/v1/posts"

const maxItems = 10

// Client fetches crypto news from the CryptoPanic free API.
type Client struct {
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// NewClient creates a new CryptoPanic client.
func NewClient(requestTimeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout: requestTimeout,
		}),
		logger: log.With().Str("component", "cryptopanic_client").Logger(),
	}
}

type postsResponse struct {
	Results []struct {
		Title  string `json:"title"`
		Source struct {
			Title string `json:"title"`
		} `json:"source"`
		URL         string `json:"url"`
		PublishedAt string `json:"published_at"`
	} `json:"results"`
}

// GetNews fetches up to 10 recent headlines for coin.
func (c *Client) GetNews(ctx context.Context, coin string) ([]models.NewsItem, error) {
	url := fmt.Sprintf("%s/?auth_token=&public=true&currencies=%s&kind=news", c.baseURL, coin)

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

	var data postsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	var news []models.NewsItem
	for i, item := range data.Results {
		if i >= maxItems {
			break
		}
		source := item.Source.Title
		if source == "" {
			source = "CryptoPanic"
		}
		news = append(news, models.NewsItem{
			Title:       item.Title,
			Source:      source,
			URL:         item.URL,
			PublishedAt: item.PublishedAt,
		})
	}

	c.logger.Debug().Int("count", len(news)).Msg("Fetched news")
	return news, nil
}
