package app

import (
	"cryptosignal/config"
	"cryptosignal/internal/api/alternative"
	"cryptosignal/internal/api/binance"
	"cryptosignal/internal/api/blockchain"
	"cryptosignal/internal/api/coingecko"
	"cryptosignal/internal/api/cryptopanic"
	"cryptosignal/internal/api/openrouter"
	"cryptosignal/internal/api/rss"
	"cryptosignal/internal/composer"
	"cryptosignal/internal/fundamental"
	"cryptosignal/internal/indicators"
	"cryptosignal/internal/sentiment"
	"cryptosignal/models"
)

// BuildComposer wires the provider clients and engines into a composer.
// The AI steps are enabled only when an OpenRouter key is configured.
func BuildComposer(cfg *config.Config) *composer.Composer {
	candleClient := binance.NewClient(binance.ClientOptions{
		RequestTimeout: cfg.RequestTimeout,
	})

	newsSources := []models.NewsProvider{
		cryptopanic.NewClient(cfg.RequestTimeout),
		coingecko.NewClient(cfg.RequestTimeout),
		rss.NewClient(cfg.RequestTimeout),
	}

	var analyzer models.HeadlineAnalyzer
	var refiner models.Refiner
	if cfg.OpenRouterKey != "" {
		ai := openrouter.NewClient(cfg.OpenRouterKey, cfg.OpenRouterModel)
		analyzer = ai
		refiner = ai
	}

	technical := indicators.NewEngine(candleClient, cfg.Interval, cfg.CandleCount, cfg.RSIPeriod)
	sentimentAgg := sentiment.NewAggregator(newsSources, alternative.NewClient(cfg.RequestTimeout), analyzer)

	var fundOpts []fundamental.Option
	if cfg.CurrentBlock > 0 {
		fundOpts = append(fundOpts, fundamental.WithCurrentBlock(cfg.CurrentBlock))
	}
	fundEngine := fundamental.NewEngine(blockchain.NewClient(cfg.RequestTimeout), nil, fundOpts...)

	return composer.New(technical, sentimentAgg, fundEngine, refiner, cfg.RefineTimeout)
}
