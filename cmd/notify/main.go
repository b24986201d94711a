package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"cryptosignal/config"
	"cryptosignal/internal/app"
	"cryptosignal/models"
)

// Composes a signal and delivers it to a Telegram chat.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	if cfg.TelegramToken == "" {
		log.Fatal().Msg("TELEGRAM_BOT_TOKEN not set in environment")
	}
	if cfg.TelegramChatID == 0 {
		log.Fatal().Msg("TELEGRAM_CHAT_ID not set in environment")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := app.BuildComposer(cfg).Generate(ctx, cfg.Coin)
	if err != nil {
		log.Fatal().Err(err).Msg("Signal generation failed")
	}

	msg := tgbotapi.NewMessage(cfg.TelegramChatID, formatSignal(result))
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := bot.Send(msg); err != nil {
		log.Fatal().Err(err).Msg("Failed to send Telegram message")
	}

	log.Info().Str("coin", result.Coin).Str("action", string(result.Action)).Msg("Signal delivered")
}

func formatSignal(s models.SignalResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "*%s Signal: %s* (confidence %.0f%%)\n", s.Coin, s.Action, s.Confidence)
	fmt.Fprintf(&sb, "Price: $%.2f\n\n", s.Price)
	fmt.Fprintf(&sb, "%s\n\n", s.Reasoning)
	fmt.Fprintf(&sb, "RSI %.1f | MACD hist %.2f | Trend %s\n", s.Technical.RSI, s.Technical.MACD, s.Technical.Trend)
	fmt.Fprintf(&sb, "Sentiment: %s (%.2f, %d news)\n", s.Sentiment.Label, s.Sentiment.Score, s.Sentiment.NewsCount)
	fmt.Fprintf(&sb, "Fundamentals: %s (%.0f), %s phase, %d days to halving\n",
		s.Fundamental.Bias, s.Fundamental.Score, s.Fundamental.CyclePhase, s.Fundamental.DaysToHalving)

	if len(s.Insights.Bullish) > 0 {
		sb.WriteString("\nBullish:\n")
		for _, b := range s.Insights.Bullish {
			fmt.Fprintf(&sb, "  + %s\n", b)
		}
	}
	if len(s.Insights.Bearish) > 0 {
		sb.WriteString("\nBearish:\n")
		for _, b := range s.Insights.Bearish {
			fmt.Fprintf(&sb, "  - %s\n", b)
		}
	}

	return sb.String()
}
