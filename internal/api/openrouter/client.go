package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"cryptosignal/models"
)

const (
	baseURL      = "https://openrouter.ai/api/v1"
	defaultModel = "google/gemini-2.0-flash-001"
)

// Models sometimes wrap their JSON in markdown fences; grab the outermost
// object instead of failing on the noise around it.
var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// Client wraps the OpenRouter chat-completions API. OpenRouter speaks the
// OpenAI wire protocol, so the OpenAI SDK is pointed at its base URL.
type Client struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

// NewClient creates a new OpenRouter client.
func NewClient(apiKey, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	if model == "" {
		model = defaultModel
	}

	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: log.With().Str("component", "openrouter_client").Logger(),
	}
}

const sentimentSystemPrompt = `You are a crypto market sentiment analyst. Analyze news headlines and provide:
1. A sentiment score from -1 (very bearish) to 1 (very bullish)
2. A brief 1-sentence summary of overall market sentiment

Consider: regulatory news, adoption, price movements, institutional interest, technical developments.

Respond in JSON: {"score": number, "summary": "string"}`

// ScoreHeadlines asks the model for a qualitative sentiment score over a
// batch of headlines. The returned score is clamped to [-1, 1].
func (c *Client) ScoreHeadlines(ctx context.Context, coin string, news []models.NewsItem) (models.HeadlineScore, error) {
	var sb strings.Builder
	for _, n := range news {
		fmt.Fprintf(&sb, "- %s (%s)\n", n.Title, n.Source)
	}

	content, err := c.complete(ctx, sentimentSystemPrompt,
		fmt.Sprintf("Analyze sentiment for %s based on these recent headlines:\n\n%s", coin, sb.String()),
		0.2, 200)
	if err != nil {
		return models.HeadlineScore{}, err
	}

	var parsed models.HeadlineScore
	if err := decodeJSON(content, &parsed); err != nil {
		return models.HeadlineScore{}, fmt.Errorf("parsing sentiment response: %w", err)
	}

	if parsed.Score > 1 {
		parsed.Score = 1
	} else if parsed.Score < -1 {
		parsed.Score = -1
	}
	if parsed.Summary == "" {
		parsed.Summary = "Mixed market sentiment"
	}

	return parsed, nil
}

const refineSystemPrompt = `You are an expert crypto analyst. Return ONLY valid JSON:
{"action": "STRONG_BUY|BUY|HOLD|SELL|STRONG_SELL", "confidence": 0-100, "reasoning": "Brief analysis"}`

// Refine asks the model to second-guess the deterministic signal. The
// output is untrusted; the composer validates it before use.
func (c *Client) Refine(ctx context.Context, req models.RefinementRequest) (models.Refinement, error) {
	macd := "bearish"
	if req.MACDBullish {
		macd = "bullish"
	}

	user := fmt.Sprintf("%s Analysis: Price $%.2f, RSI %.1f, MACD %s, Sentiment %s, Halving Phase %s, Score %.0f/100",
		req.Coin, req.Price, req.RSI, macd, req.SentimentLabel, req.CyclePhase, req.CompositeScore)

	content, err := c.complete(ctx, refineSystemPrompt, user, 0.25, 300)
	if err != nil {
		return models.Refinement{}, err
	}

	var parsed models.Refinement
	if err := decodeJSON(content, &parsed); err != nil {
		return models.Refinement{}, fmt.Errorf("parsing refinement response: %w", err)
	}

	return parsed, nil
}

func (c *Client) complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("OpenRouter API error")
		return "", err
	}

	if len(resp.Choices) == 0 {
		c.logger.Warn().Msg("OpenRouter returned empty choices")
		return "", fmt.Errorf("empty choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}

func decodeJSON(content string, v any) error {
	match := jsonObject.FindString(content)
	if match == "" {
		return fmt.Errorf("no JSON object in response")
	}
	return json.Unmarshal([]byte(match), v)
}
