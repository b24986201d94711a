package indicators

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptosignal/models"
)

type stubCandleProvider struct {
	candles []models.Candle
	err     error
}

func (s stubCandleProvider) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error) {
	return s.candles, s.err
}

func generateCandles(n int, gen func(i int) models.Candle) []models.Candle {
	candles := make([]models.Candle, n)
	for i := 0; i < n; i++ {
		candles[i] = gen(i)
	}
	return candles
}

func risingCandles(n int) []models.Candle {
	return generateCandles(n, func(i int) models.Candle {
		close := 100 + float64(i)
		return models.Candle{
			Time:   int64(i) * 3600_000,
			Open:   close - 0.5,
			High:   close + 1,
			Low:    close - 1,
			Close:  close,
			Volume: 10,
		}
	})
}

func TestCalculateRSI(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		period int
		check  func(t *testing.T, rsi float64)
	}{
		{
			name:   "insufficient data returns neutral 50",
			prices: []float64{100, 101, 102},
			period: 14,
			check: func(t *testing.T, rsi float64) {
				assert.Equal(t, 50.0, rsi)
			},
		},
		{
			name: "all gains returns 100",
			prices: func() []float64 {
				p := make([]float64, 30)
				for i := range p {
					p[i] = 100 + float64(i)
				}
				return p
			}(),
			period: 14,
			check: func(t *testing.T, rsi float64) {
				assert.Equal(t, 100.0, rsi)
			},
		},
		{
			name: "all losses approaches 0",
			prices: func() []float64 {
				p := make([]float64, 30)
				for i := range p {
					p[i] = 200 - float64(i)
				}
				return p
			}(),
			period: 14,
			check: func(t *testing.T, rsi float64) {
				assert.Less(t, rsi, 1.0)
				assert.GreaterOrEqual(t, rsi, 0.0)
			},
		},
		{
			name: "mixed series stays in bounds",
			prices: func() []float64 {
				p := make([]float64, 50)
				for i := range p {
					p[i] = 100 + float64(i%7) - float64(i%3)
				}
				return p
			}(),
			period: 14,
			check: func(t *testing.T, rsi float64) {
				assert.GreaterOrEqual(t, rsi, 0.0)
				assert.LessOrEqual(t, rsi, 100.0)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, CalculateRSI(tt.prices, tt.period))
		})
	}
}

func TestMovingAverages(t *testing.T) {
	t.Run("SMA falls back to latest price on short series", func(t *testing.T) {
		assert.Equal(t, 105.0, CalculateSMA([]float64{101, 103, 105}, 20))
	})

	t.Run("EMA falls back to latest price on short series", func(t *testing.T) {
		assert.Equal(t, 105.0, CalculateEMA([]float64{101, 103, 105}, 20))
	})

	t.Run("SMA averages the trailing window", func(t *testing.T) {
		prices := []float64{1, 2, 3, 4, 5, 6}
		assert.Equal(t, 5.0, CalculateSMA(prices, 3)) // (4+5+6)/3
	})

	t.Run("EMA of a constant series is the constant", func(t *testing.T) {
		prices := make([]float64, 40)
		for i := range prices {
			prices[i] = 250
		}
		assert.InDelta(t, 250.0, CalculateEMA(prices, 12), 1e-9)
	})
}

func TestCalculateMACD(t *testing.T) {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + float64(i)*0.5
	}

	macd := CalculateMACD(prices)

	// Signal line is the documented macd*0.8 approximation
	assert.InDelta(t, macd.MACD*0.8, macd.Signal, 1e-9)
	assert.InDelta(t, macd.MACD*0.2, macd.Histogram, 1e-9)
	assert.Greater(t, macd.MACD, 0.0, "rising series should have positive MACD")
}

func TestCompute(t *testing.T) {
	t.Run("strongly rising series is overbought and bullish", func(t *testing.T) {
		result := Compute(risingCandles(60), 14)

		assert.Equal(t, 100.0, result.RSI)
		assert.Equal(t, models.SignalOverbought, result.Signal)
		assert.Equal(t, models.TrendBullish, result.Trend)
		assert.Greater(t, result.MACD.Histogram, 0.0)
	})

	t.Run("30 rising candles still pin RSI at 100", func(t *testing.T) {
		result := Compute(risingCandles(30), 14)

		assert.Equal(t, 100.0, result.RSI)
		assert.Equal(t, models.SignalOverbought, result.Signal)
	})

	t.Run("24h change uses 24 samples back", func(t *testing.T) {
		result := Compute(risingCandles(60), 14)

		// closes run 100..159; 24 samples back from 159 is 136
		expected := (159.0 - 136.0) / 136.0 * 100
		assert.InDelta(t, expected, result.PriceChange24h, 0.01)
	})

	t.Run("support and resistance from trailing 20 candles", func(t *testing.T) {
		result := Compute(risingCandles(60), 14)

		// trailing window covers closes 140..159
		assert.Equal(t, 139.0, result.Support)    // low = close-1 of candle 40
		assert.Equal(t, 160.0, result.Resistance) // high = close+1 of candle 59
	})

	t.Run("current price is the latest close", func(t *testing.T) {
		result := Compute(risingCandles(60), 14)
		assert.Equal(t, 159.0, result.CurrentPrice)
	})
}

func TestAnalyzeFallback(t *testing.T) {
	tests := []struct {
		name     string
		provider stubCandleProvider
	}{
		{name: "provider error", provider: stubCandleProvider{err: fmt.Errorf("connection refused")}},
		{name: "empty series", provider: stubCandleProvider{candles: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(tt.provider, "1h", 100, 14)
			result := engine.Analyze(context.Background(), "BTCUSDT")

			require.Equal(t, 97500.0, result.CurrentPrice)
			assert.Equal(t, 52.0, result.RSI)
			assert.Equal(t, models.TrendNeutral, result.Trend)
			assert.Equal(t, models.SignalNeutral, result.Signal)
			assert.Equal(t, models.MACDData{MACD: 50, Signal: 45, Histogram: 5}, result.MACD)
		})
	}

	t.Run("unknown symbol uses generic anchor price", func(t *testing.T) {
		engine := NewEngine(stubCandleProvider{err: fmt.Errorf("boom")}, "1h", 100, 14)
		result := engine.Analyze(context.Background(), "DOGEUSDT")
		assert.Equal(t, 1000.0, result.CurrentPrice)
	})
}
