package recommendation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-group-trip-planner/internal/api/llm_hub"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/prompt_hub"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

const (
	DefaultCityLabel = "spot_finder"
	DefaultWideLabel = "Search_retrieval"
)

var _ Engine = (*EngineImpl)(nil)

// Engine runs the city-scale and wide-radius searches for a group.
type Engine interface {
	// GenerateRecommendations returns both result sets or an error; it never substitutes data.
	GenerateRecommendations(ctx context.Context, summary json.RawMessage, destination string) (*types.Recommendations, error)
}

// Options shapes the two search bundles.
type Options struct {
	CityLabel       string
	WideLabel       string
	ShortTripDays   int
	LongTripDays    int
	WideRadius      string
	BudgetPerPerson string
}

func (o Options) withDefaults() Options {
	if o.CityLabel == "" {
		o.CityLabel = DefaultCityLabel
	}
	if o.WideLabel == "" {
		o.WideLabel = DefaultWideLabel
	}
	if o.ShortTripDays <= 0 {
		o.ShortTripDays = 1
	}
	if o.LongTripDays <= 0 {
		o.LongTripDays = 3
	}
	if o.WideRadius == "" {
		o.WideRadius = "100-200 km"
	}
	if o.BudgetPerPerson == "" {
		o.BudgetPerPerson = "INR 5K - 10K"
	}
	return o
}

type EngineImpl struct {
	prompts   promptHub.Resolver
	generator llmHub.Generator
	opts      Options
	now       func() time.Time
	logger    *slog.Logger
}

func NewEngine(prompts promptHub.Resolver, generator llmHub.Generator, opts Options, logger *slog.Logger) *EngineImpl {
	return &EngineImpl{
		prompts:   prompts,
		generator: generator,
		opts:      opts.withDefaults(),
		now:       time.Now,
		logger:    logger,
	}
}

func (e *EngineImpl) GenerateRecommendations(ctx context.Context, summary json.RawMessage, destination string) (*types.Recommendations, error) {
	ctx, span := otel.Tracer("RecommendationEngine").Start(ctx, "GenerateRecommendations", trace.WithAttributes(
		attribute.String("destination", destination),
	))
	defer span.End()

	now := e.now()
	city := types.CityBundle{
		City:          destination,
		TravelProfile: travelWindow(now, e.opts.ShortTripDays),
	}
	wide := types.WideBundle{
		City:            destination,
		TravelProfile:   travelWindow(now, e.opts.LongTripDays),
		Radius:          e.opts.WideRadius,
		BudgetPerPerson: e.opts.BudgetPerPerson,
	}

	var out types.Recommendations
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := e.search(gctx, e.opts.CityLabel, summary, city)
		out.ShortTrip = res
		return err
	})
	g.Go(func() error {
		res, err := e.search(gctx, e.opts.WideLabel, summary, wide)
		out.LongTrip = res
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "recommendation search failed")
		return nil, err
	}

	out.Provenance = types.ProvenanceLive
	span.SetStatus(codes.Ok, "recommendations generated")
	return &out, nil
}

func (e *EngineImpl) search(ctx context.Context, label string, summary json.RawMessage, destination any) (json.RawMessage, error) {
	l := e.logger.With(slog.String("method", "search"), slog.String("label", label))

	tpl, err := e.prompts.GetPrompt(ctx, label)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	if tpl.Config.Model == "" {
		l.ErrorContext(ctx, "Prompt has no model configured")
		return nil, fmt.Errorf("prompt %q: %w", label, types.ErrMissingModelConfig)
	}

	prompt, err := promptHub.Render(tpl.Body, map[string]any{
		"USER_PROFILE_SUMMARY": summary,
		"DESTINATION_CONTEXT":  destination,
	})
	if err != nil {
		return nil, fmt.Errorf("render %q: %w", label, err)
	}

	res, err := e.generator.Generate(ctx, llmHub.Request{
		Provider:    llmHub.ProviderGoogle,
		Model:       tpl.Config.Model,
		Temperature: tpl.Config.TemperatureOr(llmHub.DefaultTemperature),
		TopP:        llmHub.DefaultTopP,
		Prompt:      prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	return res, nil
}

// travelWindow is [start, start+days] as RFC 3339 timestamps.
func travelWindow(start time.Time, days int) []string {
	return []string{
		start.Format(time.RFC3339),
		start.AddDate(0, 0, days).Format(time.RFC3339),
	}
}
