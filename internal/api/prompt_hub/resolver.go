package promptHub

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-group-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

var _ Resolver = (*ResolverImpl)(nil)

// Resolver looks up prompt templates by label.
type Resolver interface {
	// GetPrompt fetches the label under the resolver's tag and validates its config.
	// Every call goes to the registry.
	GetPrompt(ctx context.Context, label string) (*types.PromptTemplate, error)
}

type ResolverImpl struct {
	registry Registry
	tag      string
	metrics  *metrics.AppMetrics
	logger   *slog.Logger
}

func NewResolver(registry Registry, tag string, m *metrics.AppMetrics, logger *slog.Logger) *ResolverImpl {
	if tag == "" {
		tag = DefaultTag
	}
	return &ResolverImpl{registry: registry, tag: tag, metrics: m, logger: logger}
}

func (r *ResolverImpl) GetPrompt(ctx context.Context, label string) (*types.PromptTemplate, error) {
	ctx, span := otel.Tracer("PromptResolver").Start(ctx, "GetPrompt", trace.WithAttributes(
		attribute.String("prompt.label", label),
		attribute.String("prompt.tag", r.tag),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "GetPrompt"), slog.String("label", label))

	entry, err := r.registry.Fetch(ctx, label, r.tag)
	if err != nil {
		r.record(ctx, label, "error")
		l.ErrorContext(ctx, "Failed to fetch prompt", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "registry fetch failed")
		return nil, fmt.Errorf("resolve prompt %q: %w", label, err)
	}

	cfg, err := DecodePromptConfig(entry.Config)
	if err != nil {
		r.record(ctx, label, "invalid_config")
		l.ErrorContext(ctx, "Prompt config rejected", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid prompt config")
		return nil, fmt.Errorf("resolve prompt %q: %w", label, err)
	}

	r.record(ctx, label, "ok")
	span.SetAttributes(attribute.Int("prompt.version", entry.Version), attribute.String("prompt.model", cfg.Model))
	span.SetStatus(codes.Ok, "prompt resolved")
	return &types.PromptTemplate{
		Label:   label,
		Tag:     r.tag,
		Version: entry.Version,
		Body:    entry.Body,
		Config:  cfg,
	}, nil
}

func (r *ResolverImpl) record(ctx context.Context, label, outcome string) {
	if r.metrics == nil {
		return
	}
	r.metrics.PromptResolutionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("label", label),
		attribute.String("outcome", outcome),
	))
}
