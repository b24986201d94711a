package composer

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cryptosignal/internal/metrics"
	"cryptosignal/models"
)

// TechnicalSource produces the technical indicator set for a trading pair.
type TechnicalSource interface {
	Analyze(ctx context.Context, symbol string) models.TechnicalIndicators
}

// SentimentSource produces the aggregated sentiment for a coin.
type SentimentSource interface {
	Analyze(ctx context.Context, coin string) models.SentimentResult
}

// FundamentalSource produces the fundamental analysis for a spot price.
type FundamentalSource interface {
	Analyze(ctx context.Context, currentPrice float64) models.FundamentalResult
}

// Composer combines the three upstream analyses into the final signal.
// It is stateless per invocation: each call is a pure function of its
// upstream inputs plus the optional refinement.
type Composer struct {
	technical   TechnicalSource
	sentiment   SentimentSource
	fundamental FundamentalSource
	refiner     models.Refiner // nil when no API key is configured
	refineAfter time.Duration
	now         func() time.Time
	logger      zerolog.Logger
}

// New creates a signal composer. refiner may be nil to disable the AI
// refinement overlay entirely.
func New(technical TechnicalSource, sentiment SentimentSource, fundamental FundamentalSource, refiner models.Refiner, refineTimeout time.Duration) *Composer {
	if refineTimeout <= 0 {
		refineTimeout = 10 * time.Second
	}
	return &Composer{
		technical:   technical,
		sentiment:   sentiment,
		fundamental: fundamental,
		refiner:     refiner,
		refineAfter: refineTimeout,
		now:         time.Now,
		logger:      log.With().Str("component", "signal_composer").Logger(),
	}
}

// Generate composes the trading signal for coin. Upstream failures
// degrade into documented fallbacks inside the engines; the only error
// returned here is caller cancellation, in which case no partial result
// is produced.
func (c *Composer) Generate(ctx context.Context, coin string) (models.SignalResult, error) {
	symbol := coin + "USDT"

	// Technical and sentiment run concurrently; fundamental needs the
	// current price, so it joins after technical resolves.
	techCh := make(chan models.TechnicalIndicators, 1)
	sentCh := make(chan models.SentimentResult, 1)

	go func() { techCh <- c.technical.Analyze(ctx, symbol) }()
	go func() { sentCh <- c.sentiment.Analyze(ctx, coin) }()

	technical := <-techCh
	sentiment := <-sentCh
	fundamental := c.fundamental.Analyze(ctx, technical.CurrentPrice)

	if err := ctx.Err(); err != nil {
		return models.SignalResult{}, err
	}

	techScore := technicalScore(technical)
	composite := compositeScore(techScore, sentiment.Score, fundamental.Score)

	action := determineAction(composite)
	confidence := baselineConfidence(composite)
	reasoning := ""

	if c.refiner != nil {
		action, confidence, reasoning = c.refine(ctx, models.RefinementRequest{
			Coin:           coin,
			Price:          technical.CurrentPrice,
			RSI:            technical.RSI,
			MACDBullish:    technical.MACD.Histogram > 0,
			SentimentLabel: sentiment.Label,
			CyclePhase:     fundamental.Halving.CyclePhase,
			CompositeScore: composite,
		}, action, confidence)
	}

	if reasoning == "" {
		reasoning = buildReasoning(action, composite, technical, sentiment, fundamental)
	}

	metrics.SignalsComposed.WithLabelValues(string(action)).Inc()
	c.logger.Info().
		Str("coin", coin).
		Str("action", string(action)).
		Float64("composite", composite).
		Float64("confidence", confidence).
		Msg("Signal composed")

	return models.SignalResult{
		Coin:       coin,
		Action:     action,
		Confidence: confidence,
		Price:      technical.CurrentPrice,
		Reasoning:  reasoning,
		Insights:   buildInsights(technical, sentiment, fundamental),
		Technical: models.TechnicalSummary{
			RSI:    technical.RSI,
			MACD:   technical.MACD.Histogram,
			Trend:  technical.Trend,
			Signal: technical.Signal,
		},
		Sentiment: models.SentimentSummary{
			Score:     sentiment.Score,
			Label:     sentiment.Label,
			Summary:   sentiment.Summary,
			NewsCount: sentiment.NewsCount,
		},
		Fundamental: models.FundamentalSummary{
			Score:         fundamental.Score,
			Bias:          fundamental.Bias,
			CyclePhase:    fundamental.Halving.CyclePhase,
			DaysToHalving: fundamental.Halving.NextHalving.DaysRemaining,
		},
		PriceProjection: projectionOrDefault(fundamental.PriceProjection, technical.CurrentPrice),
		Timestamp:       c.now().UTC(),
	}, nil
}

// refine performs the single best-effort refinement attempt. The output
// is validated field by field; anything invalid or missing falls back to
// the deterministic values. A failure or timeout never stalls the
// deterministic path.
func (c *Composer) refine(ctx context.Context, req models.RefinementRequest, action models.Action, confidence float64) (models.Action, float64, string) {
	refineCtx, cancel := context.WithTimeout(ctx, c.refineAfter)
	defer cancel()

	refinement, err := c.refiner.Refine(refineCtx, req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Refinement unavailable, keeping deterministic signal")
		metrics.RefinementsRejected.Inc()
		return action, confidence, ""
	}

	applied := false
	if models.ValidAction(refinement.Action) {
		action = models.Action(refinement.Action)
		applied = true
	}
	if refinement.Confidence >= 0 && refinement.Confidence <= 100 && refinement.Confidence != 0 {
		confidence = refinement.Confidence
		applied = true
	}

	reasoning := ""
	if refinement.Reasoning != "" {
		reasoning = refinement.Reasoning
		applied = true
	}

	if applied {
		metrics.RefinementsApplied.Inc()
	} else {
		c.logger.Debug().
			Str("action", refinement.Action).
			Float64("confidence", refinement.Confidence).
			Msg("Refinement rejected by validation")
		metrics.RefinementsRejected.Inc()
	}

	return action, confidence, reasoning
}

// projectionOrDefault falls back to a neutral band when the fundamental
// engine produced no projection (zero current price leaves bands empty).
func projectionOrDefault(p models.PriceProjection, currentPrice float64) models.PriceProjection {
	if p.ShortTerm.Max > 0 || p.MediumTerm.Max > 0 || p.LongTerm.Max > 0 {
		return p
	}
	return models.PriceProjection{
		ShortTerm:  models.ProjectionBand{Min: currentPrice * 0.9, Max: currentPrice * 1.1, Bias: models.TrendNeutral},
		MediumTerm: models.ProjectionBand{Min: currentPrice * 0.8, Max: currentPrice * 1.3, Bias: models.TrendNeutral},
		LongTerm:   models.ProjectionBand{Min: currentPrice * 0.7, Max: currentPrice * 2, Bias: models.TrendBullish},
	}
}
