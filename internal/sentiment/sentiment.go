package sentiment

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cryptosignal/internal/metrics"
	"cryptosignal/models"
)

const (
	aiWeight   = 0.6
	baseWeight = 0.4
	topNewsMax = 5
)

// Aggregator blends headlines from multiple news sources with the
// Fear & Greed index into one bounded sentiment score.
type Aggregator struct {
	sources   []models.NewsProvider
	fearGreed models.FearGreedProvider
	analyzer  models.HeadlineAnalyzer // nil when no API key is configured
	logger    zerolog.Logger
}

// NewAggregator creates a sentiment aggregator. analyzer may be nil, in
// which case only the Fear & Greed base score is used.
func NewAggregator(sources []models.NewsProvider, fearGreed models.FearGreedProvider, analyzer models.HeadlineAnalyzer) *Aggregator {
	return &Aggregator{
		sources:   sources,
		fearGreed: fearGreed,
		analyzer:  analyzer,
		logger:    log.With().Str("component", "sentiment_aggregator").Logger(),
	}
}

// Analyze aggregates market sentiment for coin. Individual source
// failures are swallowed; the method never fails.
func (a *Aggregator) Analyze(ctx context.Context, coin string) models.SentimentResult {
	news, fearGreed := a.collect(ctx, coin)

	// Map the 0-100 index onto [-1, 1]
	baseScore := (float64(fearGreed.Value) - 50) / 50

	finalScore := baseScore
	summary := fmt.Sprintf("Market sentiment: %s (Fear & Greed: %d)", fearGreed.Classification, fearGreed.Value)

	if len(news) > 0 && a.analyzer != nil {
		ai, err := a.analyzer.ScoreHeadlines(ctx, coin, news)
		if err != nil {
			a.logger.Warn().Err(err).Msg("Headline analysis failed, using fear & greed only")
			metrics.ProviderErrors.WithLabelValues("headline_analyzer").Inc()
		} else {
			finalScore = ai.Score*aiWeight + baseScore*baseWeight
			if ai.Summary != "" {
				summary = ai.Summary
			}
		}
	}

	finalScore = clamp(finalScore, -1, 1)
	finalScore = math.Round(finalScore*100) / 100

	topNews := news
	if len(topNews) > topNewsMax {
		topNews = topNews[:topNewsMax]
	}

	return models.SentimentResult{
		Score:     finalScore,
		Label:     labelFor(finalScore),
		Summary:   summary,
		NewsCount: len(news),
		TopNews:   topNews,
	}
}

// collect fans out to every news source and the Fear & Greed provider
// concurrently. Source order is preserved in the merged list so results
// stay deterministic for identical upstream data.
func (a *Aggregator) collect(ctx context.Context, coin string) ([]models.NewsItem, models.FearGreedIndex) {
	perSource := make([][]models.NewsItem, len(a.sources))
	fearGreed := models.FearGreedIndex{Value: 50, Classification: "Neutral"}

	var wg sync.WaitGroup
	for i, src := range a.sources {
		wg.Add(1)
		go func(i int, src models.NewsProvider) {
			defer wg.Done()
			items, err := src.GetNews(ctx, coin)
			if err != nil {
				a.logger.Warn().Err(err).Int("source", i).Msg("News source failed")
				metrics.ProviderErrors.WithLabelValues("news").Inc()
				return
			}
			perSource[i] = items
		}(i, src)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		index, err := a.fearGreed.GetFearGreed(ctx)
		if err != nil {
			a.logger.Warn().Err(err).Msg("Fear & greed fetch failed, using neutral fallback")
			metrics.ProviderErrors.WithLabelValues("feargreed").Inc()
			metrics.FallbacksUsed.WithLabelValues("sentiment").Inc()
			return
		}
		fearGreed = index
	}()

	wg.Wait()

	var all []models.NewsItem
	for _, items := range perSource {
		all = append(all, items...)
	}
	return all, fearGreed
}

func labelFor(score float64) models.SentimentLabel {
	switch {
	case score > 0.5:
		return models.SentimentVeryBullish
	case score > 0.2:
		return models.SentimentBullish
	case score < -0.5:
		return models.SentimentVeryBearish
	case score < -0.2:
		return models.SentimentBearish
	default:
		return models.SentimentNeutral
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
