package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cryptosignal/config"
	"cryptosignal/internal/app"
	"cryptosignal/internal/composer"
)

func main() {
	coinFlag := flag.String("coin", "", "coin to analyze, overrides COIN")
	watch := flag.Bool("watch", false, "recompute the signal on an interval until interrupted")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	coin := cfg.Coin
	if *coinFlag != "" {
		coin = *coinFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := app.BuildComposer(cfg)

	if err := composeAndPrint(ctx, c, coin); err != nil {
		log.Fatal().Err(err).Msg("Signal generation failed")
	}

	if !*watch {
		return
	}

	ticker := time.NewTicker(cfg.WatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Shutting down")
			return
		case <-ticker.C:
			if err := composeAndPrint(ctx, c, coin); err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Error().Err(err).Msg("Signal generation failed")
			}
		}
	}
}

func composeAndPrint(ctx context.Context, c *composer.Composer, coin string) error {
	result, err := c.Generate(ctx, coin)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding signal: %w", err)
	}

	fmt.Println(string(out))
	return nil
}
