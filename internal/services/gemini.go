package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"alfredoptarigan/career-guide/internal/config"
	"alfredoptarigan/career-guide/internal/logger"
)

// EmbeddingProvider turns text into a dense vector.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// InferenceService is the optional text-generation and embedding capability
// used by the enhanced analysis tier and by role matching.
type InferenceService interface {
	EmbeddingProvider
	GenerateText(ctx context.Context, prompt string) (string, error)
}

const (
	maxEmbeddingInput  = 40000
	defaultTemperature = float32(0.2)
)

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
	maxRetries int
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewGeminiService returns ErrInferenceUnavailable when no API key is
// configured so callers can run in local-only mode.
func NewGeminiService(cfg config.GeminiConfig, log *zap.Logger) (InferenceService, error) {
	if cfg.APIKey == "" {
		return nil, ErrInferenceUnavailable
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &geminiService{
		client:     client,
		modelName:  cfg.Model,
		embedModel: cfg.EmbedModel,
		maxRetries: maxRetries,
		limiter:    limiter,
		logger:     logger.OrNop(log).Named("gemini"),
	}, nil
}

// Embed implements EmbeddingProvider.
func (g *geminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	text = clampEmbeddingInput(text)

	var values []float32
	err := g.withRetry(ctx, "embed", func() error {
		result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
		if err != nil {
			return fmt.Errorf("failed to generate embedding: %w", err)
		}
		if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
			return errors.New("empty embedding result")
		}
		values = result.Embeddings[0].Values
		return nil
	})
	return values, err
}

// clampEmbeddingInput cuts text to maxEmbeddingInput characters on a rune
// boundary.
func clampEmbeddingInput(text string) string {
	if utf8.RuneCountInString(text) <= maxEmbeddingInput {
		return text
	}
	return string([]rune(text)[:maxEmbeddingInput])
}

// GenerateText implements InferenceService.
func (g *geminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	temperature := defaultTemperature
	genConfig := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 2048,
	}

	var text string
	err := g.withRetry(ctx, "generate", func() error {
		resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), genConfig)
		if err != nil {
			return fmt.Errorf("failed to generate text: %w", err)
		}
		if resp == nil {
			return errors.New("no response generated (nil response)")
		}
		text = resp.Text()
		if text == "" {
			return errors.New("no text content in response")
		}
		return nil
	})
	return text, err
}

func (g *geminiService) withRetry(ctx context.Context, op string, call func() error) error {
	var lastErr error

	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}
		}

		if lastErr = call(); lastErr == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if attempt < g.maxRetries {
			g.logger.Warn("⚠️ Gemini call failed, retrying",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			time.Sleep(time.Duration(attempt) * 200 * time.Millisecond)
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", g.maxRetries, lastErr)
}
