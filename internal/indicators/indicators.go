package indicators

import (
	"context"
	"math"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cryptosignal/internal/metrics"
	"cryptosignal/models"
)

const (
	defaultRSIPeriod = 14
	trailingWindow   = 20 // candles for support/resistance
	samplesPerDay    = 24 // 1h interval
)

// fallbackPrices anchor the neutral fallback set per symbol when the
// upstream feed is unreachable.
var fallbackPrices = map[string]float64{
	"BTCUSDT": 97500,
	"ETHUSDT": 3280,
	"SOLUSDT": 185,
	"BNBUSDT": 620,
}

// Engine computes technical indicators from a candle series. Each call
// recomputes from scratch; there is no caching contract.
type Engine struct {
	client    models.CandleProvider
	interval  string
	limit     int
	rsiPeriod int
	logger    zerolog.Logger
}

// NewEngine creates an indicator engine on top of a candle provider.
func NewEngine(client models.CandleProvider, interval string, limit, rsiPeriod int) *Engine {
	if rsiPeriod <= 0 {
		rsiPeriod = defaultRSIPeriod
	}
	return &Engine{
		client:    client,
		interval:  interval,
		limit:     limit,
		rsiPeriod: rsiPeriod,
		logger:    log.With().Str("component", "indicator_engine").Logger(),
	}
}

// Analyze fetches candles for symbol and derives the full indicator set.
// A failing or empty feed yields the documented neutral fallback set, not
// an error; the upstream failure must never corrupt the composite signal.
func (e *Engine) Analyze(ctx context.Context, symbol string) models.TechnicalIndicators {
	candles, err := e.client.GetCandles(ctx, symbol, e.interval, e.limit)
	if err != nil || len(candles) == 0 {
		e.logger.Warn().Err(err).Str("symbol", symbol).Msg("Candle feed unavailable, using fallback indicators")
		metrics.ProviderErrors.WithLabelValues("candles").Inc()
		metrics.FallbacksUsed.WithLabelValues("technical").Inc()
		return Fallback(symbol)
	}

	return Compute(candles, e.rsiPeriod)
}

// Compute derives all indicators from an ordered candle series.
func Compute(candles []models.Candle, rsiPeriod int) models.TechnicalIndicators {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	currentPrice := closes[len(closes)-1]
	price24hAgo := closes[0]
	if len(closes) > samplesPerDay {
		price24hAgo = closes[len(closes)-samplesPerDay]
	}
	priceChange24h := (currentPrice - price24hAgo) / price24hAgo * 100

	rsi := CalculateRSI(closes, rsiPeriod)
	macd := CalculateMACD(closes)
	sma20 := CalculateSMA(closes, 20)
	sma50 := CalculateSMA(closes, 50)
	ema12 := CalculateEMA(closes, 12)
	ema26 := CalculateEMA(closes, 26)

	// Quote volume over the trailing day
	var volume24h float64
	start := len(candles) - samplesPerDay
	if start < 0 {
		start = 0
	}
	for _, c := range candles[start:] {
		volume24h += c.Volume * c.Close
	}

	trend := models.TrendNeutral
	if currentPrice > sma20 && sma20 > sma50 && macd.Histogram > 0 {
		trend = models.TrendBullish
	} else if currentPrice < sma20 && sma20 < sma50 && macd.Histogram < 0 {
		trend = models.TrendBearish
	}

	signal := models.SignalNeutral
	if rsi < 30 {
		signal = models.SignalOversold
	} else if rsi > 70 {
		signal = models.SignalOverbought
	}

	support, resistance := supportResistance(candles)

	return models.TechnicalIndicators{
		RSI: round2(rsi),
		MACD: models.MACDData{
			MACD:      round2(macd.MACD),
			Signal:    round2(macd.Signal),
			Histogram: round2(macd.Histogram),
		},
		SMA20:          round2(sma20),
		SMA50:          round2(sma50),
		EMA12:          round2(ema12),
		EMA26:          round2(ema26),
		CurrentPrice:   round2(currentPrice),
		PriceChange24h: round2(priceChange24h),
		Volume24h:      math.Round(volume24h),
		Trend:          trend,
		Signal:         signal,
		Support:        support,
		Resistance:     resistance,
	}
}

// supportResistance takes min(low) and max(high) over the trailing 20
// candles.
func supportResistance(candles []models.Candle) (float64, float64) {
	start := len(candles) - trailingWindow
	if start < 0 {
		start = 0
	}

	window := candles[start:]
	support := window[0].Low
	resistance := window[0].High
	for _, c := range window[1:] {
		if c.Low < support {
			support = c.Low
		}
		if c.High > resistance {
			resistance = c.High
		}
	}
	return support, resistance
}

// Fallback is the documented neutral indicator set used when the price
// feed is unreachable or malformed.
func Fallback(symbol string) models.TechnicalIndicators {
	price, ok := fallbackPrices[symbol]
	if !ok {
		price = 1000
	}

	return models.TechnicalIndicators{
		RSI:            52,
		MACD:           models.MACDData{MACD: 50, Signal: 45, Histogram: 5},
		SMA20:          price * 0.98,
		SMA50:          price * 0.95,
		EMA12:          price * 0.99,
		EMA26:          price * 0.97,
		CurrentPrice:   price,
		PriceChange24h: 1.5,
		Volume24h:      25000000000,
		Trend:          models.TrendNeutral,
		Signal:         models.SignalNeutral,
		Support:        price * 0.9,
		Resistance:     price * 1.1,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
