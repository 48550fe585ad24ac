package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	genai "google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("model returned no content")

type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GeminiAnalyzer is a thin wrapper around the official genai client.
// It makes exactly one GenerateContent call per Analyze and leaves all
// flow control (single-flight, state transitions) to the caller.
type GeminiAnalyzer struct {
	cli    *genai.Client
	model  string
	logger *slog.Logger

	timeout time.Duration
}

func NewGeminiAnalyzer(ctx context.Context, cfg GeminiConfig, logger *slog.Logger) (*GeminiAnalyzer, error) {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiAnalyzer{
		cli:     cli,
		model:   cfg.Model,
		logger:  logger.With("component", "gemini-analyzer"),
		timeout: cfg.Timeout,
	}, nil
}

func (g *GeminiAnalyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	if len(req.Images) == 0 {
		return nil, fmt.Errorf("no images provided")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	parts := make([]*genai.Part, 0, len(req.Images)+1)
	parts = append(parts, &genai.Part{Text: Prompt(req.Language)})
	for _, img := range req.Images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: img.MIME,
				Data:     img.Data,
			},
		})
	}

	start := time.Now()
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: parts}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		g.logger.Error("generate content failed", "error", err, "model", g.model)
		return nil, fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}

	result, err := Decode([]byte(resp.Candidates[0].Content.Parts[0].Text))
	if err != nil {
		g.logger.Error("model response rejected", "error", err, "model", g.model)
		return nil, err
	}

	g.logger.Debug("analysis complete",
		"model", g.model,
		"images", len(req.Images),
		"plant", result.PlantName,
		"status", result.HealthStatus,
		"duration_ms", time.Since(start).Milliseconds())

	return result, nil
}
