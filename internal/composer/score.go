package composer

import (
	"math"

	"cryptosignal/models"
)

// Composite weighting. Fundamentals deliberately carry the largest share:
// halving-cycle positioning has been the strongest historical predictor.
const (
	technicalWeight   = 0.3
	sentimentWeight   = 0.25
	fundamentalWeight = 0.45
)

// technicalScore reduces the indicator set to one number. It starts at a
// baseline of 50 and walks up or down on RSI, histogram and trend. The
// RSI buckets are mutually exclusive, most specific first.
func technicalScore(t models.TechnicalIndicators) float64 {
	score := 50.0

	switch {
	case t.RSI < 30:
		score += 25
	case t.RSI < 40:
		score += 15
	case t.RSI > 70:
		score -= 25
	case t.RSI > 60:
		score -= 15
	}

	if t.MACD.Histogram > 0 {
		score += 15
	} else {
		score -= 15
	}

	if t.Trend == models.TrendBullish {
		score += 10
	} else if t.Trend == models.TrendBearish {
		score -= 10
	}

	return math.Max(-100, math.Min(100, score))
}

// compositeScore blends the three sub-scores with the 30/25/45 weighting.
// Sentiment arrives in [-1, 1] and is scaled to match the others.
func compositeScore(technical, sentiment, fundamental float64) float64 {
	return technical*technicalWeight + sentiment*100*sentimentWeight + fundamental*fundamentalWeight
}

// determineAction maps the composite score onto the discrete action. The
// mapping is a pure, monotonic step function.
func determineAction(score float64) models.Action {
	switch {
	case score > 60:
		return models.ActionStrongBuy
	case score > 25:
		return models.ActionBuy
	case score < -60:
		return models.ActionStrongSell
	case score < -25:
		return models.ActionSell
	default:
		return models.ActionHold
	}
}

// baselineConfidence is the deterministic confidence used when no valid
// refinement is available: |composite|+20 clamped to [40, 95].
func baselineConfidence(score float64) float64 {
	return math.Min(95, math.Max(40, math.Abs(score)+20))
}
