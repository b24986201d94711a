package composer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptosignal/internal/fundamental"
	"cryptosignal/internal/indicators"
	"cryptosignal/internal/sentiment"
	"cryptosignal/models"
)

type stubTechnical struct{ result models.TechnicalIndicators }

func (s stubTechnical) Analyze(ctx context.Context, symbol string) models.TechnicalIndicators {
	return s.result
}

type stubSentiment struct{ result models.SentimentResult }

func (s stubSentiment) Analyze(ctx context.Context, coin string) models.SentimentResult {
	return s.result
}

type stubFundamental struct{ result models.FundamentalResult }

func (s stubFundamental) Analyze(ctx context.Context, currentPrice float64) models.FundamentalResult {
	return s.result
}

type stubRefiner struct {
	refinement models.Refinement
	err        error
}

func (s stubRefiner) Refine(ctx context.Context, req models.RefinementRequest) (models.Refinement, error) {
	return s.refinement, s.err
}

func bullishInputs() (stubTechnical, stubSentiment, stubFundamental) {
	technical := stubTechnical{result: models.TechnicalIndicators{
		RSI:          25,
		MACD:         models.MACDData{MACD: 120, Signal: 96, Histogram: 24},
		CurrentPrice: 97000,
		Trend:        models.TrendBullish,
		Signal:       models.SignalOversold,
	}}
	sent := stubSentiment{result: models.SentimentResult{
		Score: 0.8,
		Label: models.SentimentVeryBullish,
	}}
	fund := stubFundamental{result: models.FundamentalResult{
		Score: 80,
		Bias:  models.BiasStronglyBullish,
		Halving: models.HalvingData{
			CyclePhase:  models.PhaseAccumulation,
			NextHalving: models.NextHalving{DaysRemaining: 300},
		},
		KeyFactors: models.KeyFactors{Bullish: []string{"Post-halving accumulation phase"}},
		PriceProjection: models.PriceProjection{
			ShortTerm: models.ProjectionBand{Min: 100000, Max: 130000, Bias: models.TrendBullish},
		},
	}}
	return technical, sent, fund
}

func TestTechnicalScore(t *testing.T) {
	tests := []struct {
		name string
		in   models.TechnicalIndicators
		want float64
	}{
		{
			name: "deep oversold bullish stack",
			in: models.TechnicalIndicators{
				RSI:   25,
				MACD:  models.MACDData{Histogram: 5},
				Trend: models.TrendBullish,
			},
			want: 100, // 50+25+15+10
		},
		{
			name: "approaching oversold",
			in: models.TechnicalIndicators{
				RSI:   35,
				MACD:  models.MACDData{Histogram: -1},
				Trend: models.TrendNeutral,
			},
			want: 50, // 50+15-15
		},
		{
			name: "overbought bearish stack",
			in: models.TechnicalIndicators{
				RSI:   75,
				MACD:  models.MACDData{Histogram: -5},
				Trend: models.TrendBearish,
			},
			want: 0, // 50-25-15-10
		},
		{
			name: "approaching overbought",
			in: models.TechnicalIndicators{
				RSI:   65,
				MACD:  models.MACDData{Histogram: 2},
				Trend: models.TrendNeutral,
			},
			want: 50, // 50-15+15
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, technicalScore(tt.in))
		})
	}
}

func TestDetermineAction(t *testing.T) {
	tests := []struct {
		score float64
		want  models.Action
	}{
		{70, models.ActionStrongBuy},
		{61, models.ActionStrongBuy},
		{60, models.ActionBuy},
		{26, models.ActionBuy},
		{25, models.ActionHold},
		{0, models.ActionHold},
		{-25, models.ActionHold},
		{-26, models.ActionSell},
		{-60, models.ActionSell},
		{-61, models.ActionStrongSell},
		{-70, models.ActionStrongSell},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("score %.0f", tt.score), func(t *testing.T) {
			assert.Equal(t, tt.want, determineAction(tt.score))
		})
	}
}

func TestBaselineConfidence(t *testing.T) {
	assert.Equal(t, 40.0, baselineConfidence(0))    // floor
	assert.Equal(t, 70.0, baselineConfidence(50))   // |50|+20
	assert.Equal(t, 70.0, baselineConfidence(-50))  // symmetric
	assert.Equal(t, 95.0, baselineConfidence(100))  // cap
	assert.Equal(t, 95.0, baselineConfidence(-200)) // cap
}

func TestGenerateDeterministic(t *testing.T) {
	technical, sent, fund := bullishInputs()
	c := New(technical, sent, fund, nil, 0)

	result, err := c.Generate(context.Background(), "BTC")
	require.NoError(t, err)

	// tech 100*0.3 + sentiment 80*0.25 + fundamental 80*0.45 = 86
	assert.Equal(t, models.ActionStrongBuy, result.Action)
	assert.Equal(t, 95.0, result.Confidence) // |86|+20 capped
	assert.Equal(t, 97000.0, result.Price)
	assert.Equal(t, "BTC", result.Coin)
	assert.Contains(t, result.Reasoning, "Strong bullish confluence")
	assert.Contains(t, result.Reasoning, "86")
	assert.Equal(t, models.PhaseAccumulation, result.Fundamental.CyclePhase)
	assert.Equal(t, 300, result.Fundamental.DaysToHalving)
	assert.False(t, result.Timestamp.IsZero())

	// fundamental key factors lead the insight list, technical and
	// sentiment bullets follow
	require.NotEmpty(t, result.Insights.Bullish)
	assert.Equal(t, "Post-halving accumulation phase", result.Insights.Bullish[0])
	assert.Contains(t, result.Insights.Bullish, "MACD bullish with positive momentum")

	// projection comes from the fundamental engine
	assert.Equal(t, 100000.0, result.PriceProjection.ShortTerm.Min)
}

func TestGenerateRefinementApplied(t *testing.T) {
	technical, sent, fund := bullishInputs()
	refiner := stubRefiner{refinement: models.Refinement{
		Action:     "BUY",
		Confidence: 72,
		Reasoning:  "Momentum strong but extended; scale in gradually.",
	}}
	c := New(technical, sent, fund, refiner, time.Second)

	result, err := c.Generate(context.Background(), "BTC")
	require.NoError(t, err)

	assert.Equal(t, models.ActionBuy, result.Action)
	assert.Equal(t, 72.0, result.Confidence)
	assert.Equal(t, "Momentum strong but extended; scale in gradually.", result.Reasoning)
}

func TestGenerateRefinementValidation(t *testing.T) {
	tests := []struct {
		name       string
		refiner    stubRefiner
		wantAction models.Action
		wantConf   float64
	}{
		{
			name: "out-of-enum action and out-of-range confidence rejected",
			refiner: stubRefiner{refinement: models.Refinement{
				Action:     "MOON",
				Confidence: 150,
			}},
			wantAction: models.ActionStrongBuy,
			wantConf:   95,
		},
		{
			name:       "refiner error keeps deterministic path",
			refiner:    stubRefiner{err: fmt.Errorf("timeout")},
			wantAction: models.ActionStrongBuy,
			wantConf:   95,
		},
		{
			name: "valid action with bad confidence applies action only",
			refiner: stubRefiner{refinement: models.Refinement{
				Action:     "HOLD",
				Confidence: -5,
			}},
			wantAction: models.ActionHold,
			wantConf:   95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			technical, sent, fund := bullishInputs()
			c := New(technical, sent, fund, tt.refiner, time.Second)

			result, err := c.Generate(context.Background(), "BTC")
			require.NoError(t, err)

			assert.Equal(t, tt.wantAction, result.Action)
			assert.Equal(t, tt.wantConf, result.Confidence)
			assert.NotEmpty(t, result.Reasoning, "deterministic reasoning must fill in")
		})
	}
}

func TestGenerateProjectionFallback(t *testing.T) {
	technical, sent, _ := bullishInputs()
	fund := stubFundamental{result: models.FundamentalResult{
		Halving: models.HalvingData{CyclePhase: models.PhaseMarkdown},
	}}
	c := New(technical, sent, fund, nil, 0)

	result, err := c.Generate(context.Background(), "BTC")
	require.NoError(t, err)

	assert.InDelta(t, 97000*0.9, result.PriceProjection.ShortTerm.Min, 0.001)
	assert.InDelta(t, 97000*1.1, result.PriceProjection.ShortTerm.Max, 0.001)
	assert.Equal(t, models.TrendBullish, result.PriceProjection.LongTerm.Bias)
}

func TestGenerateCancelled(t *testing.T) {
	technical, sent, fund := bullishInputs()
	c := New(technical, sent, fund, nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Generate(ctx, "BTC")
	assert.ErrorIs(t, err, context.Canceled)
}

type failingCandles struct{}

func (failingCandles) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error) {
	return nil, fmt.Errorf("connection refused")
}

type failingNews struct{}

func (failingNews) GetNews(ctx context.Context, coin string) ([]models.NewsItem, error) {
	return nil, fmt.Errorf("connection refused")
}

type failingFearGreed struct{}

func (failingFearGreed) GetFearGreed(ctx context.Context) (models.FearGreedIndex, error) {
	return models.FearGreedIndex{}, fmt.Errorf("connection refused")
}

type failingOnChain struct{}

func (failingOnChain) GetOnChainMetrics(ctx context.Context) (models.OnChainMetrics, error) {
	return models.OnChainMetrics{}, fmt.Errorf("connection refused")
}

// Every upstream provider fails; the composer must still produce a
// complete, clearly degraded signal with no panic and no error.
func TestGenerateAllProvidersFail(t *testing.T) {
	technical := indicators.NewEngine(failingCandles{}, "1h", 100, 14)
	sent := sentiment.NewAggregator(
		[]models.NewsProvider{failingNews{}},
		failingFearGreed{},
		nil,
	)
	// Clock pinned deep into the cycle so the phase penalty offsets the
	// mildly bullish fallback indicators
	fund := fundamental.NewEngine(failingOnChain{}, nil,
		fundamental.WithClock(func() time.Time {
			t, _ := time.Parse("2006-01-02", "2026-09-01")
			return t
		}),
	)

	c := New(technical, sent, fund, nil, 0)

	result, err := c.Generate(context.Background(), "BTC")
	require.NoError(t, err)

	// Fallback indicators: techScore 65; sentiment 0; fundamental
	// markdown -25 plus MVRV proxy +10 = -15.
	// Composite 65*0.3 + 0 - 15*0.45 = 12.75 -> HOLD at the floor.
	assert.Equal(t, models.ActionHold, result.Action)
	assert.Equal(t, 40.0, result.Confidence)
	assert.Equal(t, 97500.0, result.Price)
	assert.NotEmpty(t, result.Reasoning)
	assert.Equal(t, models.SentimentNeutral, result.Sentiment.Label)
	assert.Equal(t, 0, result.Sentiment.NewsCount)
}
