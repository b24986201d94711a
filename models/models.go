package models

import (
	"time"
)

// Candle represents a single OHLCV price candle.
type Candle struct {
	Time   int64   `json:"time"` // unix milliseconds, strictly increasing
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Trend describes the direction of the price structure.
type Trend string

const (
	TrendBullish Trend = "BULLISH"
	TrendBearish Trend = "BEARISH"
	TrendNeutral Trend = "NEUTRAL"
)

// MarketSignal classifies the RSI condition.
type MarketSignal string

const (
	SignalOversold   MarketSignal = "OVERSOLD"
	SignalOverbought MarketSignal = "OVERBOUGHT"
	SignalNeutral    MarketSignal = "NEUTRAL"
)

// MACDData holds the MACD line, signal line and histogram.
//
// The signal line is a simplified single-pass approximation (macd * 0.8),
// not a 9-period EMA of the MACD line. Downstream thresholds are tuned
// against this approximation, so it is kept as defined behavior.
type MACDData struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// TechnicalIndicators holds all indicators derived from a price series.
type TechnicalIndicators struct {
	RSI            float64      `json:"rsi"`
	MACD           MACDData     `json:"macd"`
	SMA20          float64      `json:"sma20"`
	SMA50          float64      `json:"sma50"`
	EMA12          float64      `json:"ema12"`
	EMA26          float64      `json:"ema26"`
	CurrentPrice   float64      `json:"current_price"`
	PriceChange24h float64      `json:"price_change_24h"`
	Volume24h      float64      `json:"volume_24h"`
	Trend          Trend        `json:"trend"`
	Signal         MarketSignal `json:"signal"`
	Support        float64      `json:"support"`
	Resistance     float64      `json:"resistance"`
}

// NewsItem is a single headline from a news source.
type NewsItem struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
}

// FearGreedIndex is the market mood reading, 0 (extreme fear) to 100
// (extreme greed).
type FearGreedIndex struct {
	Value          int    `json:"value"`
	Classification string `json:"classification"`
}

// SentimentLabel buckets the blended sentiment score.
type SentimentLabel string

const (
	SentimentVeryBullish SentimentLabel = "VERY_BULLISH"
	SentimentBullish     SentimentLabel = "BULLISH"
	SentimentNeutral     SentimentLabel = "NEUTRAL"
	SentimentBearish     SentimentLabel = "BEARISH"
	SentimentVeryBearish SentimentLabel = "VERY_BEARISH"
)

// SentimentResult is the aggregated market sentiment.
type SentimentResult struct {
	Score     float64        `json:"score"` // -1 to 1
	Label     SentimentLabel `json:"label"`
	Summary   string         `json:"summary"`
	NewsCount int            `json:"news_count"`
	TopNews   []NewsItem     `json:"top_news,omitempty"`
}

// HeadlineScore is the qualitative sentiment read for a batch of headlines.
type HeadlineScore struct {
	Score   float64 `json:"score"` // -1 to 1
	Summary string  `json:"summary"`
}

// CyclePhase is the position inside the four-year halving cycle.
type CyclePhase string

const (
	PhaseAccumulation CyclePhase = "ACCUMULATION"
	PhaseMarkup       CyclePhase = "MARKUP"
	PhaseDistribution CyclePhase = "DISTRIBUTION"
	PhaseMarkdown     CyclePhase = "MARKDOWN"
)

// HalvingInfo describes a single halving event.
type HalvingInfo struct {
	Date           string  `json:"date"`
	Block          int64   `json:"block"`
	PriceAtHalving float64 `json:"price_at_halving"`
}

// NextHalving is the estimate for the upcoming halving.
type NextHalving struct {
	EstimatedDate   string `json:"estimated_date"`
	EstimatedBlock  int64  `json:"estimated_block"`
	CurrentBlock    int64  `json:"current_block"`
	BlocksRemaining int64  `json:"blocks_remaining"`
	DaysRemaining   int    `json:"days_remaining"`
}

// HalvingPerformance records price behavior around a past halving.
type HalvingPerformance struct {
	HalvingNumber   int     `json:"halving_number"`
	Date            string  `json:"date"`
	PriceAtHalving  float64 `json:"price_at_halving"`
	PriceAfter1Year float64 `json:"price_after_1_year"`
	PercentGain     float64 `json:"percent_gain"`
}

// HalvingData is the halving schedule and cycle position.
type HalvingData struct {
	LastHalving           HalvingInfo          `json:"last_halving"`
	NextHalving           NextHalving          `json:"next_halving"`
	CyclePhase            CyclePhase           `json:"cycle_phase"`
	CycleProgress         int                  `json:"cycle_progress"` // 0-100
	HistoricalPerformance []HalvingPerformance `json:"historical_performance"`
	AnalysisNote          string               `json:"analysis_note"`
}

// OnChainMetrics are best-effort on-chain proxy values.
type OnChainMetrics struct {
	ActiveAddresses24h  int64   `json:"active_addresses_24h"`
	TransactionVolume24 float64 `json:"transaction_volume_24h"`
	ExchangeNetFlow     float64 `json:"exchange_net_flow"` // negative = outflow (accumulation)
	WhaleTransactions   int64   `json:"whale_transactions"`
	MiningDifficulty    float64 `json:"mining_difficulty"`
	HashRate            float64 `json:"hash_rate"`
	NUPL                float64 `json:"nupl"`
	MVRV                float64 `json:"mvrv"`
	SOPR                float64 `json:"sopr"`
}

// DXYTrend is the direction of the dollar index.
type DXYTrend string

const (
	DXYRising  DXYTrend = "RISING"
	DXYFalling DXYTrend = "FALLING"
	DXYStable  DXYTrend = "STABLE"
)

// FedOutlook is the expected monetary policy stance.
type FedOutlook string

const (
	FedHawkish FedOutlook = "HAWKISH"
	FedDovish  FedOutlook = "DOVISH"
	FedNeutral FedOutlook = "NEUTRAL"
)

// MacroFactors are macro-economic proxy values.
type MacroFactors struct {
	DXYIndex         float64    `json:"dxy_index"`
	DXYTrend         DXYTrend   `json:"dxy_trend"`
	FedRate          float64    `json:"fed_rate"`
	FedOutlook       FedOutlook `json:"fed_outlook"`
	SP500Correlation float64    `json:"sp500_correlation"`
	GoldCorrelation  float64    `json:"gold_correlation"`
	Inflation        float64    `json:"inflation"`
}

// Bias buckets the fundamental score.
type Bias string

const (
	BiasStronglyBullish Bias = "STRONGLY_BULLISH"
	BiasBullish         Bias = "BULLISH"
	BiasNeutral         Bias = "NEUTRAL"
	BiasBearish         Bias = "BEARISH"
	BiasStronglyBearish Bias = "STRONGLY_BEARISH"
)

// KeyFactors are human-readable drivers of the fundamental score.
type KeyFactors struct {
	Bullish []string `json:"bullish"`
	Bearish []string `json:"bearish"`
}

// ProjectionBand is a projected price range with a directional bias.
type ProjectionBand struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Bias Trend   `json:"bias"`
}

// PriceProjection holds projection bands over three horizons.
type PriceProjection struct {
	ShortTerm  ProjectionBand `json:"short_term"`
	MediumTerm ProjectionBand `json:"medium_term"`
	LongTerm   ProjectionBand `json:"long_term"`
}

// FundamentalResult is the full fundamental/cycle analysis.
type FundamentalResult struct {
	Score           float64         `json:"score"` // -100 to 100
	Bias            Bias            `json:"bias"`
	Halving         HalvingData     `json:"halving"`
	OnChain         OnChainMetrics  `json:"on_chain"`
	Macro           MacroFactors    `json:"macro"`
	KeyFactors      KeyFactors      `json:"key_factors"`
	PriceProjection PriceProjection `json:"price_projection"`
}

// Action is the recommended trading action.
type Action string

const (
	ActionStrongBuy  Action = "STRONG_BUY"
	ActionBuy        Action = "BUY"
	ActionHold       Action = "HOLD"
	ActionSell       Action = "SELL"
	ActionStrongSell Action = "STRONG_SELL"
)

// ValidAction reports whether s is one of the five known actions.
func ValidAction(s string) bool {
	switch Action(s) {
	case ActionStrongBuy, ActionBuy, ActionHold, ActionSell, ActionStrongSell:
		return true
	}
	return false
}

// Insights are bullet points surfaced with the signal.
type Insights struct {
	Bullish []string `json:"bullish"`
	Bearish []string `json:"bearish"`
	Neutral []string `json:"neutral"`
}

// TechnicalSummary is the compact technical block of a signal.
type TechnicalSummary struct {
	RSI    float64      `json:"rsi"`
	MACD   float64      `json:"macd"` // histogram
	Trend  Trend        `json:"trend"`
	Signal MarketSignal `json:"signal"`
}

// SentimentSummary is the compact sentiment block of a signal.
type SentimentSummary struct {
	Score     float64        `json:"score"`
	Label     SentimentLabel `json:"label"`
	Summary   string         `json:"summary"`
	NewsCount int            `json:"news_count"`
}

// FundamentalSummary is the compact fundamental block of a signal.
type FundamentalSummary struct {
	Score         float64    `json:"score"`
	Bias          Bias       `json:"bias"`
	CyclePhase    CyclePhase `json:"cycle_phase"`
	DaysToHalving int        `json:"days_to_halving"`
}

// SignalResult is the final composite trading signal. It is created fresh
// per request and never mutated after construction.
type SignalResult struct {
	Coin            string             `json:"coin"`
	Action          Action             `json:"action"`
	Confidence      float64            `json:"confidence"` // 0-100
	Price           float64            `json:"price"`
	Reasoning       string             `json:"reasoning"`
	Insights        Insights           `json:"insights"`
	Technical       TechnicalSummary   `json:"technical"`
	Sentiment       SentimentSummary   `json:"sentiment"`
	Fundamental     FundamentalSummary `json:"fundamental"`
	PriceProjection PriceProjection    `json:"price_projection"`
	Timestamp       time.Time          `json:"timestamp"`
}

// Refinement is the untrusted output of the qualitative reasoning step.
// Every field must be validated before being promoted into a SignalResult.
type Refinement struct {
	Action     string  `json:"action"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// RefinementRequest is the context handed to the qualitative reasoning step.
type RefinementRequest struct {
	Coin           string
	Price          float64
	RSI            float64
	MACDBullish    bool
	SentimentLabel SentimentLabel
	CyclePhase     CyclePhase
	CompositeScore float64
}
