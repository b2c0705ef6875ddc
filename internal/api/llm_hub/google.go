package llmHub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

var _ Generator = (*GoogleGenerator)(nil)

// contentGenerator is the part of genai.Models the grounded path needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GoogleGenerator calls Gemini with the Google Search tool enabled.
type GoogleGenerator struct {
	pool   *KeyPool[contentGenerator]
	logger *slog.Logger
}

func NewGoogleGenerator(ctx context.Context, keys []string, logger *slog.Logger) (*GoogleGenerator, error) {
	pool, err := NewKeyPool(keys, func(key string) (contentGenerator, error) {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create genai client: %w", err)
		}
		return client.Models, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s generator: %w", ProviderGoogle, err)
	}
	return &GoogleGenerator{pool: pool, logger: logger.With(slog.String("provider", string(ProviderGoogle)))}, nil
}

func (g *GoogleGenerator) Generate(ctx context.Context, req Request) (json.RawMessage, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
		TopP:        genai.Ptr(float32(req.TopP)),
		Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	resp, err := g.pool.Pick().GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("google generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("google genai returned no candidates: %w", types.ErrNoCandidates)
	}

	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 || cand.Content.Parts[0] == nil {
		return nil, &types.MalformedModelOutputError{Raw: "", Err: fmt.Errorf("first candidate has no text part (finish reason %q)", cand.FinishReason)}
	}

	raw := cand.Content.Parts[0].Text
	g.logger.DebugContext(ctx, "Model responded", slog.String("model", req.Model), slog.Int("chars", len(raw)))
	return ParseJSON(raw)
}
