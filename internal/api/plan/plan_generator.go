package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-group-trip-planner/internal/api/llm_hub"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/prompt_hub"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

const (
	DefaultPlannerLabel = "base_level_planner"
	DefaultPlannerModel = "gemini-2.5-pro"
	// Itinerary structure favors determinism.
	DefaultPlannerTemperature = 0.3
)

var _ Generator = (*GeneratorImpl)(nil)

// Generator drafts a multi-option plan from a group summary and activity data.
// It does not check the shape of the result; see ValidatePlan.
type Generator interface {
	GeneratePlan(ctx context.Context, summary json.RawMessage, raw types.RawActivityData) (json.RawMessage, error)
}

type GeneratorImpl struct {
	prompts   promptHub.Resolver
	generator llmHub.Generator
	label     string
	logger    *slog.Logger
}

func NewGenerator(prompts promptHub.Resolver, generator llmHub.Generator, label string, logger *slog.Logger) *GeneratorImpl {
	if label == "" {
		label = DefaultPlannerLabel
	}
	return &GeneratorImpl{prompts: prompts, generator: generator, label: label, logger: logger}
}

func (g *GeneratorImpl) GeneratePlan(ctx context.Context, summary json.RawMessage, raw types.RawActivityData) (json.RawMessage, error) {
	ctx, span := otel.Tracer("PlanGenerator").Start(ctx, "GeneratePlan", trace.WithAttributes(
		attribute.String("prompt.label", g.label),
	))
	defer span.End()

	l := g.logger.With(slog.String("method", "GeneratePlan"))

	tpl, err := g.prompts.GetPrompt(ctx, g.label)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "prompt resolution failed")
		return nil, fmt.Errorf("generate plan: %w", err)
	}

	model := tpl.Config.ModelOr(DefaultPlannerModel)
	if model == "" {
		span.SetStatus(codes.Error, "missing model")
		return nil, fmt.Errorf("prompt %q: %w", g.label, types.ErrMissingModelConfig)
	}

	prompt, err := promptHub.Render(tpl.Body, map[string]any{
		"USER_PROFILE_SUMMARY":  summary,
		"CITY_ACTIVITY_RESULTS": raw.ShortTrip,
		"SHORT_TRIP_OPTIONS":    raw.LongTrip,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		return nil, fmt.Errorf("render %q: %w", g.label, err)
	}

	l.DebugContext(ctx, "Dispatching planner prompt", slog.String("model", model))
	out, err := g.generator.Generate(ctx, llmHub.Request{
		Provider:    llmHub.ProviderGoogle,
		Model:       model,
		Temperature: tpl.Config.TemperatureOr(DefaultPlannerTemperature),
		TopP:        llmHub.DefaultTopP,
		Prompt:      prompt,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		return nil, fmt.Errorf("generate plan: %w", err)
	}
	span.SetStatus(codes.Ok, "plan generated")
	return out, nil
}

// ValidatePlan requires a JSON object with a plan_options key.
// Anything else is reported as types.ErrBadPlan with the model output attached.
func ValidatePlan(plan json.RawMessage) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(plan, &obj); err != nil || obj == nil {
		return badPlan(plan)
	}
	if _, ok := obj["plan_options"]; !ok {
		return badPlan(plan)
	}
	return nil
}

func badPlan(plan json.RawMessage) error {
	appErr := types.NewAppError(http.StatusBadGateway, types.CodeLLMBadResponse, types.ErrBadPlan)
	if json.Valid(plan) {
		appErr.Details = plan
	} else {
		appErr.Details = string(plan)
	}
	return appErr
}
