package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-group-trip-planner/internal/api/llm_hub"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/prompt_hub"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

const (
	DefaultGraphLabel   = "KN_generator"
	DefaultSummaryLabel = "KN_Summarise"
)

var _ Synthesizer = (*SynthesizerImpl)(nil)

// Synthesizer turns member personas into a group knowledge graph and its summary.
type Synthesizer interface {
	GenerateGraph(ctx context.Context, members []types.MemberPersona) (json.RawMessage, error)
	SummarizeGraph(ctx context.Context, graph json.RawMessage) (json.RawMessage, error)
}

type Labels struct {
	Graph   string
	Summary string
}

type SynthesizerImpl struct {
	prompts   promptHub.Resolver
	generator llmHub.Generator
	labels    Labels
	logger    *slog.Logger
}

func NewSynthesizer(prompts promptHub.Resolver, generator llmHub.Generator, labels Labels, logger *slog.Logger) *SynthesizerImpl {
	if labels.Graph == "" {
		labels.Graph = DefaultGraphLabel
	}
	if labels.Summary == "" {
		labels.Summary = DefaultSummaryLabel
	}
	return &SynthesizerImpl{prompts: prompts, generator: generator, labels: labels, logger: logger}
}

func (s *SynthesizerImpl) GenerateGraph(ctx context.Context, members []types.MemberPersona) (json.RawMessage, error) {
	ctx, span := otel.Tracer("KnowledgeSynthesizer").Start(ctx, "GenerateGraph", trace.WithAttributes(
		attribute.Int("group.members", len(members)),
	))
	defer span.End()

	if members == nil {
		members = []types.MemberPersona{}
	}
	out, err := s.run(ctx, s.labels.Graph, map[string]any{"INPUT_DATA": members})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "graph generation failed")
		return nil, fmt.Errorf("generate knowledge graph: %w", err)
	}
	span.SetStatus(codes.Ok, "graph generated")
	return out, nil
}

func (s *SynthesizerImpl) SummarizeGraph(ctx context.Context, graph json.RawMessage) (json.RawMessage, error) {
	ctx, span := otel.Tracer("KnowledgeSynthesizer").Start(ctx, "SummarizeGraph")
	defer span.End()

	// The prompt receives the graph's JSON text, not a nested structure.
	out, err := s.run(ctx, s.labels.Summary, map[string]any{"GRAPH_SUBGRAPH_JSON": string(graph)})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "graph summary failed")
		return nil, fmt.Errorf("summarize knowledge graph: %w", err)
	}
	span.SetStatus(codes.Ok, "graph summarized")
	return out, nil
}

func (s *SynthesizerImpl) run(ctx context.Context, label string, vars map[string]any) (json.RawMessage, error) {
	l := s.logger.With(slog.String("method", "run"), slog.String("label", label))

	tpl, err := s.prompts.GetPrompt(ctx, label)
	if err != nil {
		return nil, err
	}
	if tpl.Config.Model == "" {
		l.ErrorContext(ctx, "Prompt has no model configured")
		return nil, fmt.Errorf("prompt %q: %w", label, types.ErrMissingModelConfig)
	}

	prompt, err := promptHub.Render(tpl.Body, vars)
	if err != nil {
		return nil, fmt.Errorf("render %q: %w", label, err)
	}

	l.DebugContext(ctx, "Dispatching knowledge prompt", slog.String("model", tpl.Config.Model), slog.Int("prompt_chars", len(prompt)))
	return s.generator.Generate(ctx, llmHub.Request{
		Provider:    llmHub.ProviderNvidia,
		Model:       tpl.Config.Model,
		Temperature: tpl.Config.TemperatureOr(llmHub.DefaultTemperature),
		TopP:        llmHub.DefaultTopP,
		Prompt:      prompt,
	})
}
