package llmHub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	jsonOnlySystemPrompt = "You are a JSON-only API. Read the instructions below and respond with a SINGLE valid JSON object. " +
		"Do not include explanations, markdown, or code fences. " +
		"If you reference lists or nested data, include them as proper JSON."
	nvidiaUserInstruction = "Follow the system prompt and complete the task according"

	DefaultNvidiaBaseURL = "https://integrate.api.nvidia.com/v1"
)

var (
	_ Generator = (*ChatCompletionGenerator)(nil)
)

// messageShaper maps a rendered prompt onto chat messages.
type messageShaper func(prompt string) []openai.ChatCompletionMessageParamUnion

// openAIShape sends the prompt as the user turn behind a fixed JSON-only system turn.
func openAIShape(prompt string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(jsonOnlySystemPrompt),
		openai.UserMessage(prompt),
	}
}

// nvidiaShape sends the prompt itself as the system turn.
func nvidiaShape(prompt string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(prompt),
		openai.UserMessage(nvidiaUserInstruction),
	}
}

// ChatCompletionGenerator calls an OpenAI-compatible chat completion endpoint.
type ChatCompletionGenerator struct {
	name   Provider
	pool   *KeyPool[openai.Client]
	shape  messageShaper
	logger *slog.Logger
}

// NewOpenAIGenerator targets the OpenAI API or any compatible baseURL.
func NewOpenAIGenerator(keys []string, baseURL string, logger *slog.Logger) (*ChatCompletionGenerator, error) {
	return newChatCompletionGenerator(ProviderOpenAI, keys, baseURL, openAIShape, logger)
}

// NewNvidiaGenerator targets NVIDIA's hosted OpenAI-compatible endpoint.
func NewNvidiaGenerator(keys []string, baseURL string, logger *slog.Logger) (*ChatCompletionGenerator, error) {
	if baseURL == "" {
		baseURL = DefaultNvidiaBaseURL
	}
	return newChatCompletionGenerator(ProviderNvidia, keys, baseURL, nvidiaShape, logger)
}

func newChatCompletionGenerator(name Provider, keys []string, baseURL string, shape messageShaper, logger *slog.Logger) (*ChatCompletionGenerator, error) {
	pool, err := NewKeyPool(keys, func(key string) (openai.Client, error) {
		opts := []option.RequestOption{
			option.WithAPIKey(key),
			option.WithMaxRetries(0),
		}
		if baseURL != "" {
			opts = append(opts, option.WithBaseURL(baseURL))
		}
		return openai.NewClient(opts...), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s generator: %w", name, err)
	}
	return &ChatCompletionGenerator{
		name:   name,
		pool:   pool,
		shape:  shape,
		logger: logger.With(slog.String("provider", string(name))),
	}, nil
}

func (g *ChatCompletionGenerator) Generate(ctx context.Context, req Request) (json.RawMessage, error) {
	client := g.pool.Pick()

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(req.Model),
		Messages:    g.shape(req.Prompt),
		Temperature: openai.Float(req.Temperature),
		TopP:        openai.Float(req.TopP),
	})
	if err != nil {
		return nil, fmt.Errorf("%s chat completion: %w", g.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s chat completion returned no choices", g.name)
	}

	raw := resp.Choices[0].Message.Content
	g.logger.DebugContext(ctx, "Model responded", slog.String("model", req.Model), slog.Int("chars", len(raw)))
	return ParseJSON(raw)
}
