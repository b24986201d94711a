package rss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(5 * time.Second)
	c.baseURL = srv.URL
	return c
}

func TestGetNewsFiltersRelevantHeadlines(t *testing.T) {
	payload := `{
		"feed": {"title": "Cointelegraph"},
		"items": [
			{"title": "Bitcoin breaks six figures", "link": "https://example.com/1", "pubDate": "2026-08-29 10:00:00"},
			{"title": "SOL validators vote on upgrade", "link": "https://example.com/2", "pubDate": "2026-08-29 11:00:00"},
			{"title": "Crypto regulation update from the EU", "link": "https://example.com/3", "pubDate": "2026-08-29 12:00:00"},
			{"title": "Gold hits record high", "link": "https://example.com/4", "pubDate": "2026-08-29 13:00:00"}
		]
	}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, feedURL, r.URL.Query().Get("rss_url"))
		w.Write([]byte(payload))
	})

	news, err := c.GetNews(context.Background(), "SOL")
	require.NoError(t, err)
	require.Len(t, news, 3)

	// bitcoin and crypto headlines always pass; gold does not
	assert.Equal(t, "Bitcoin breaks six figures", news[0].Title)
	assert.Equal(t, "SOL validators vote on upgrade", news[1].Title)
	assert.Equal(t, "Crypto regulation update from the EU", news[2].Title)
	assert.Equal(t, "Cointelegraph", news[0].Source)
	assert.Equal(t, "https://example.com/1", news[0].URL)
}

func TestGetNewsCapsAtFiveItems(t *testing.T) {
	payload := `{
		"feed": {"title": "Cointelegraph"},
		"items": [
			{"title": "Bitcoin news 1", "link": "u1", "pubDate": "d1"},
			{"title": "Bitcoin news 2", "link": "u2", "pubDate": "d2"},
			{"title": "Bitcoin news 3", "link": "u3", "pubDate": "d3"},
			{"title": "Bitcoin news 4", "link": "u4", "pubDate": "d4"},
			{"title": "Bitcoin news 5", "link": "u5", "pubDate": "d5"},
			{"title": "Bitcoin news 6", "link": "u6", "pubDate": "d6"}
		]
	}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	})

	news, err := c.GetNews(context.Background(), "BTC")
	require.NoError(t, err)
	assert.Len(t, news, 5)
}

func TestGetNewsSourceFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [{"title": "Crypto markets steady", "link": "u", "pubDate": "d"}]}`))
	})

	news, err := c.GetNews(context.Background(), "BTC")
	require.NoError(t, err)
	require.Len(t, news, 1)
	assert.Equal(t, "Crypto News", news[0].Source)
}
