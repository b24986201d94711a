package fundamental

import (
	"fmt"
	"math"

	"cryptosignal/models"
)

// calculateScore accumulates the additive rule set over halving cycle,
// on-chain and macro inputs. Every triggered rule appends a factor string
// which later surfaces as a signal insight. The result is clamped to
// [-100, 100].
func calculateScore(halving models.HalvingData, onChain models.OnChainMetrics, macro models.MacroFactors) (float64, models.KeyFactors) {
	var score float64
	var factors models.KeyFactors

	bullish := func(points float64, msg string) {
		score += points
		factors.Bullish = append(factors.Bullish, msg)
	}
	bearish := func(points float64, msg string) {
		score -= points
		factors.Bearish = append(factors.Bearish, msg)
	}

	switch halving.CyclePhase {
	case models.PhaseAccumulation:
		bullish(25, "Post-halving accumulation phase - historically most bullish period")
	case models.PhaseMarkup:
		bullish(30, "Bull market markup phase - typically 300-500% gains from halving")
	case models.PhaseDistribution:
		bearish(10, "Distribution phase - smart money taking profits")
	default:
		bearish(25, "Markdown phase - bear market conditions")
	}

	if days := halving.NextHalving.DaysRemaining; days < 365 {
		bullish(15, fmt.Sprintf("Only %d days to next halving - supply shock incoming", days))
	}

	if onChain.ExchangeNetFlow < -10000 {
		bullish(15, fmt.Sprintf("Strong exchange outflow (%.0f BTC) - accumulation", math.Abs(onChain.ExchangeNetFlow)))
	} else if onChain.ExchangeNetFlow > 10000 {
		bearish(15, "Exchange inflow detected - selling pressure")
	}

	if onChain.MVRV < 1 {
		bullish(20, fmt.Sprintf("MVRV below 1 (%.2f) - historically undervalued", onChain.MVRV))
	} else if onChain.MVRV > 3.5 {
		bearish(25, fmt.Sprintf("MVRV at %.2f - overvalued territory, correction likely", onChain.MVRV))
	} else if onChain.MVRV < 2 {
		bullish(10, fmt.Sprintf("MVRV at %.2f - healthy valuation with upside potential", onChain.MVRV))
	}

	if onChain.NUPL < 0.25 {
		bullish(15, fmt.Sprintf("Low NUPL (%.2f) - fear zone, good entry", onChain.NUPL))
	} else if onChain.NUPL > 0.75 {
		bearish(20, fmt.Sprintf("High NUPL (%.2f) - euphoria zone, risk of correction", onChain.NUPL))
	}

	if macro.DXYTrend == models.DXYFalling {
		bullish(15, "Falling DXY supports risk assets including Bitcoin")
	} else if macro.DXYTrend == models.DXYRising {
		bearish(10, "Rising DXY creates headwinds for risk assets")
	}

	if macro.FedOutlook == models.FedDovish {
		bullish(15, "Dovish Fed stance - liquidity favorable for crypto")
	} else if macro.FedOutlook == models.FedHawkish {
		bearish(15, "Hawkish Fed - tighter liquidity pressures risk assets")
	}

	return math.Max(-100, math.Min(100, score)), factors
}

// biasFor buckets the clamped fundamental score.
func biasFor(score float64) models.Bias {
	switch {
	case score > 50:
		return models.BiasStronglyBullish
	case score > 20:
		return models.BiasBullish
	case score < -50:
		return models.BiasStronglyBearish
	case score < -20:
		return models.BiasBearish
	default:
		return models.BiasNeutral
	}
}
