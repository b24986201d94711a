package models

import "context"

// CandleProvider fetches an ordered candle series for a trading pair.
type CandleProvider interface {
	GetCandles(ctx context.Context, symbol, interval string, limit int) ([]Candle, error)
}

// NewsProvider fetches recent headlines for a coin. A failing source
// returns an error which callers swallow; it never panics.
type NewsProvider interface {
	GetNews(ctx context.Context, coin string) ([]NewsItem, error)
}

// FearGreedProvider fetches the current Fear & Greed index.
type FearGreedProvider interface {
	GetFearGreed(ctx context.Context) (FearGreedIndex, error)
}

// OnChainProvider fetches on-chain proxy metrics.
type OnChainProvider interface {
	GetOnChainMetrics(ctx context.Context) (OnChainMetrics, error)
}

// MacroProvider fetches macro-economic proxy factors.
type MacroProvider interface {
	GetMacroFactors(ctx context.Context) (MacroFactors, error)
}

// HeadlineAnalyzer scores a batch of headlines qualitatively.
type HeadlineAnalyzer interface {
	ScoreHeadlines(ctx context.Context, coin string, news []NewsItem) (HeadlineScore, error)
}

// Refiner is the optional qualitative reasoning step. Its output is
// untrusted and must be validated before use.
type Refiner interface {
	Refine(ctx context.Context, req RefinementRequest) (Refinement, error)
}
