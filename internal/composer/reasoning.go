package composer

import (
	"fmt"
	"strings"

	"cryptosignal/models"
)

// buildReasoning synthesizes the deterministic reasoning sentence for an
// action when no refinement text is available.
func buildReasoning(action models.Action, composite float64, technical models.TechnicalIndicators, sentiment models.SentimentResult, fundamental models.FundamentalResult) string {
	cyclePhase := fundamental.Halving.CyclePhase
	daysToHalving := fundamental.Halving.NextHalving.DaysRemaining

	switch action {
	case models.ActionStrongBuy:
		halvingNote := ""
		if daysToHalving < 500 {
			halvingNote = fmt.Sprintf(" %d days to halving.", daysToHalving)
		}
		return fmt.Sprintf("Strong bullish confluence (score %.0f). %s phase with RSI at %.1f.%s Sentiment: %s.",
			composite, cyclePhase, technical.RSI, halvingNote, strings.ToLower(string(sentiment.Label)))
	case models.ActionBuy:
		return fmt.Sprintf("Favorable accumulation conditions (score %.0f). RSI %.1f not overextended. %s phase provides support.",
			composite, technical.RSI, cyclePhase)
	case models.ActionSell:
		return fmt.Sprintf("Caution warranted (score %.0f). RSI %.1f shows weakening. Consider reducing positions.",
			composite, technical.RSI)
	case models.ActionStrongSell:
		condition := "weakness"
		if technical.RSI > 70 {
			condition = "overbought"
		}
		return fmt.Sprintf("Multiple bearish signals (score %.0f). RSI %.1f indicates %s. Reduce exposure.",
			composite, technical.RSI, condition)
	default:
		return fmt.Sprintf("Mixed signals (score %.0f). RSI %.1f neutral. %s phase, %d days to halving. Wait for confirmation.",
			composite, technical.RSI, cyclePhase, daysToHalving)
	}
}

// buildInsights merges the fundamental key factors with technical and
// sentiment derived bullets.
func buildInsights(technical models.TechnicalIndicators, sentiment models.SentimentResult, fundamental models.FundamentalResult) models.Insights {
	insights := models.Insights{
		Bullish: append([]string{}, fundamental.KeyFactors.Bullish...),
		Bearish: append([]string{}, fundamental.KeyFactors.Bearish...),
		Neutral: []string{},
	}

	if technical.RSI < 30 {
		insights.Bullish = append(insights.Bullish, fmt.Sprintf("RSI oversold at %.1f - strong bounce potential", technical.RSI))
	} else if technical.RSI > 70 {
		insights.Bearish = append(insights.Bearish, fmt.Sprintf("RSI overbought at %.1f - correction likely", technical.RSI))
	}

	if technical.MACD.Histogram > 0 {
		insights.Bullish = append(insights.Bullish, "MACD bullish with positive momentum")
	} else {
		insights.Bearish = append(insights.Bearish, "MACD bearish with negative momentum")
	}

	if sentiment.Score > 0.3 {
		insights.Bullish = append(insights.Bullish, fmt.Sprintf("Strong positive sentiment (%.0f%%) from %d news sources", sentiment.Score*100, sentiment.NewsCount))
	} else if sentiment.Score < -0.3 {
		insights.Bearish = append(insights.Bearish, fmt.Sprintf("Negative market sentiment (%.0f%%)", sentiment.Score*100))
	}

	return insights
}
