// Package forecast generates astrological texts via the OpenAI API.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"log/slog"

	"github.com/tonkolab/astrobot/core/logger"
	"github.com/tonkolab/astrobot/internal/birthdata"
	"github.com/tonkolab/astrobot/internal/config"
	"github.com/tonkolab/astrobot/internal/zodiac"
)

// ErrUnavailable indicates the generation backend failed or timed out.
var ErrUnavailable = errors.New("forecast: generation unavailable")

// Generator produces forecast texts for a normalized birth moment.
type Generator interface {
	Preview(ctx context.Context, data birthdata.BirthData) (string, error)
	Full(ctx context.Context, data birthdata.BirthData) (string, error)
}

type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client implements Generator over the OpenAI chat completion API.
type Client struct {
	api     completionAPI
	cfg     config.OpenAIConfig
	timeout time.Duration
}

// NewClient builds a Client from configuration.
func NewClient(cfg config.OpenAIConfig) *Client {
	return &Client{
		api:     openai.NewClient(cfg.APIKey),
		cfg:     cfg,
		timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	}
}

// Preview generates the short teaser forecast.
func (c *Client) Preview(ctx context.Context, data birthdata.BirthData) (string, error) {
	sign := zodiac.SignFor(data.Day, data.Month)
	return c.generate(ctx, "preview", sign, previewPrompt(data.String(), sign), c.cfg.PreviewMaxTokens, c.cfg.PreviewTemperature)
}

// Full generates the complete paid forecast.
func (c *Client) Full(ctx context.Context, data birthdata.BirthData) (string, error) {
	sign := zodiac.SignFor(data.Day, data.Month)
	return c.generate(ctx, "full", sign, fullPrompt(data.String(), sign), c.cfg.FullMaxTokens, c.cfg.FullTemperature)
}

func (c *Client) generate(ctx context.Context, tier string, sign zodiac.Sign, prompt string, maxTokens int, temperature float32) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		logger.Error(ctx, "service.forecast", "generate.fail",
			slog.String("status", "fail"),
			slog.String("tier", tier),
			slog.String("sign", string(sign)),
			slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	logger.Info(ctx, "service.forecast", "generate.ok",
		slog.String("status", "ok"),
		slog.String("tier", tier),
		slog.String("sign", string(sign)),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)
	return text, nil
}
