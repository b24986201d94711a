package rss

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "cryptosignal/internal/platform/http"
	"cryptosignal/models"
)

const (
	baseURL = "https://api.rss2json.com/v1/api.json"
	feedURL = "https://cointelegraph.com/rss"
)

const maxItems = 5

// Client fetches crypto news headlines from an RSS feed, converted to
// JSON through the rss2json public service.
type Client struct {
	baseURL    string
	feedURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// NewClient creates a new RSS news client.
func NewClient(requestTimeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		feedURL: feedURL,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout: requestTimeout,
		}),
		logger: log.With().Str("component", "rss_client").Logger(),
	}
}

type feedResponse struct {
	Feed struct {
		Title string `json:"title"`
	} `json:"feed"`
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		PubDate string `json:"pubDate"`
	} `json:"items"`
}

// GetNews fetches the feed and returns up to 5 items relevant to coin.
// Items are kept when the title mentions the coin, bitcoin, or crypto.
func (c *Client) GetNews(ctx context.Context, coin string) ([]models.NewsItem, error) {
	url := fmt.Sprintf("%s?rss_url=%s", c.baseURL, c.feedURL)

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

	var data feedResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	source := data.Feed.Title
	if source == "" {
		source = "Crypto News"
	}

	needle := strings.ToLower(coin)
	var news []models.NewsItem
	for _, item := range data.Items {
		if len(news) >= maxItems {
			break
		}
		title := strings.ToLower(item.Title)
		if !strings.Contains(title, needle) &&
			!strings.Contains(title, "bitcoin") &&
			!strings.Contains(title, "crypto") {
			continue
		}
		news = append(news, models.NewsItem{
			Title:       item.Title,
			Source:      source,
			URL:         item.Link,
			PublishedAt: item.PubDate,
		})
	}

	c.logger.Debug().Int("count", len(news)).Msg("Fetched RSS news")
	return news, nil
}
