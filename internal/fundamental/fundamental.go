package fundamental

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cryptosignal/internal/metrics"
	"cryptosignal/models"
)

// Engine computes the fundamental/cycle analysis. On-chain and macro
// fetch failures fall back to fixed realistic proxy values; the engine
// never fails outright.
type Engine struct {
	onChain      models.OnChainProvider
	macro        models.MacroProvider
	currentBlock int64
	now          func() time.Time
	logger       zerolog.Logger
}

// Option customizes an Engine, mainly for tests.
type Option func(*Engine)

// WithCurrentBlock overrides the fixed current-block reference.
func WithCurrentBlock(block int64) Option {
	return func(e *Engine) {
		if block > 0 {
			e.currentBlock = block
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a fundamental engine. macro may be nil; the static
// macro proxy is used in that case.
func NewEngine(onChain models.OnChainProvider, macro models.MacroProvider, opts ...Option) *Engine {
	e := &Engine{
		onChain:      onChain,
		macro:        macro,
		currentBlock: defaultBlock,
		now:          time.Now,
		logger:       log.With().Str("component", "fundamental_engine").Logger(),
	}
	if e.macro == nil {
		e.macro = StaticMacro{}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze computes the full fundamental result for the given spot price.
func (e *Engine) Analyze(ctx context.Context, currentPrice float64) models.FundamentalResult {
	halving := e.HalvingSchedule()

	onChain, err := e.onChain.GetOnChainMetrics(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("On-chain fetch failed, using proxy constants")
		metrics.ProviderErrors.WithLabelValues("onchain").Inc()
		metrics.FallbacksUsed.WithLabelValues("fundamental").Inc()
		onChain = fallbackOnChain
	}

	macro, err := e.macro.GetMacroFactors(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Macro fetch failed, using proxy constants")
		metrics.ProviderErrors.WithLabelValues("macro").Inc()
		macro = defaultMacro
	}

	score, factors := calculateScore(halving, onChain, macro)

	return models.FundamentalResult{
		Score:           score,
		Bias:            biasFor(score),
		Halving:         halving,
		OnChain:         onChain,
		Macro:           macro,
		KeyFactors:      factors,
		PriceProjection: Projection(currentPrice, score, halving),
	}
}

// Projection derives price bands from the fundamental score and the
// cycle phase.
func Projection(currentPrice, score float64, halving models.HalvingData) models.PriceProjection {
	isPostHalvingBull := halving.CyclePhase == models.PhaseAccumulation || halving.CyclePhase == models.PhaseMarkup

	shortTermMultiplier := 1 + score/200
	mediumTermMultiplier := 0.8
	longTermMultiplier := 1.2
	if isPostHalvingBull {
		mediumTermMultiplier = 1.5
		longTermMultiplier = 2.5
	}

	shortBias := models.TrendNeutral
	if score > 20 {
		shortBias = models.TrendBullish
	} else if score < -20 {
		shortBias = models.TrendBearish
	}

	mediumBias := models.TrendBearish
	if isPostHalvingBull {
		mediumBias = models.TrendBullish
	}

	return models.PriceProjection{
		ShortTerm: models.ProjectionBand{
			Min:  math.Round(currentPrice * (shortTermMultiplier - 0.15)),
			Max:  math.Round(currentPrice * (shortTermMultiplier + 0.2)),
			Bias: shortBias,
		},
		MediumTerm: models.ProjectionBand{
			Min:  math.Round(currentPrice * (mediumTermMultiplier - 0.3)),
			Max:  math.Round(currentPrice * (mediumTermMultiplier + 0.5)),
			Bias: mediumBias,
		},
		LongTerm: models.ProjectionBand{
			Min:  math.Round(currentPrice * (longTermMultiplier - 0.5)),
			Max:  math.Round(currentPrice * (longTermMultiplier + 1)),
			Bias: models.TrendBullish, // long horizon has always resolved bullish so far
		},
	}
}

// fallbackOnChain are the documented proxy constants used when the
// on-chain provider is unreachable.
var fallbackOnChain = models.OnChainMetrics{
	ActiveAddresses24h:  920000,
	TransactionVolume24: 28000000000,
	ExchangeNetFlow:     -8500,
	WhaleTransactions:   1180,
	MiningDifficulty:    72000000000000,
	HashRate:            520000000,
	NUPL:                0.42,
	MVRV:                1.65,
	SOPR:                1.01,
}

// defaultMacro are the static macro proxy values.
var defaultMacro = models.MacroFactors{
	DXYIndex:         103.5,
	DXYTrend:         models.DXYStable,
	FedRate:          4.5,
	FedOutlook:       models.FedNeutral,
	SP500Correlation: 0.65,
	GoldCorrelation:  0.35,
	Inflation:        2.8,
}

// StaticMacro serves the fixed macro proxy values. A live macro provider
// can replace it without touching the engine.
type StaticMacro struct{}

// GetMacroFactors implements models.MacroProvider.
func (StaticMacro) GetMacroFactors(context.Context) (models.MacroFactors, error) {
	return defaultMacro, nil
}
