package metrics

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "GroupTripPlanner"

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	LLMRequestsTotal        metric.Int64Counter
	LLMRequestDuration      metric.Float64Histogram
	PromptResolutionsTotal  metric.Int64Counter
	RecommendationFallbacks metric.Int64Counter
	KnowledgeRunsTotal      metric.Int64Counter
	DbQueryDurationSeconds  metric.Float64Histogram
	DbQueryErrorsTotal      metric.Int64Counter
}

// New creates every instrument on the given meter.
func New(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	if m.LLMRequestsTotal, err = meter.Int64Counter(
		"llm_requests_total",
		metric.WithDescription("Model calls by provider and outcome"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, fmt.Errorf("llm_requests_total: %w", err)
	}

	if m.LLMRequestDuration, err = meter.Float64Histogram(
		"llm_request_duration_seconds",
		metric.WithDescription("Duration of model calls in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("llm_request_duration_seconds: %w", err)
	}

	if m.PromptResolutionsTotal, err = meter.Int64Counter(
		"prompt_resolutions_total",
		metric.WithDescription("Prompt registry lookups by label and outcome"),
		metric.WithUnit("{lookup}"),
	); err != nil {
		return nil, fmt.Errorf("prompt_resolutions_total: %w", err)
	}

	if m.RecommendationFallbacks, err = meter.Int64Counter(
		"recommendation_fallbacks_total",
		metric.WithDescription("Recommendation requests answered with the static payload"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, fmt.Errorf("recommendation_fallbacks_total: %w", err)
	}

	if m.KnowledgeRunsTotal, err = meter.Int64Counter(
		"knowledge_runs_total",
		metric.WithDescription("Group knowledge pipeline runs by outcome"),
		metric.WithUnit("{run}"),
	); err != nil {
		return nil, fmt.Errorf("knowledge_runs_total: %w", err)
	}

	if m.DbQueryDurationSeconds, err = meter.Float64Histogram(
		"db_query_duration_seconds",
		metric.WithDescription("Duration of database queries in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("db_query_duration_seconds: %w", err)
	}

	if m.DbQueryErrorsTotal, err = meter.Int64Counter(
		"db_query_errors_total",
		metric.WithDescription("Total number of database query errors"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, fmt.Errorf("db_query_errors_total: %w", err)
	}

	return m, nil
}

// NewFromGlobal uses the globally registered MeterProvider.
func NewFromGlobal() (*AppMetrics, error) {
	return New(otel.GetMeterProvider().Meter(meterName))
}

// NewNoop returns instruments that record nothing. Used in tests.
func NewNoop() *AppMetrics {
	m, err := New(noop.NewMeterProvider().Meter(meterName))
	if err != nil {
		panic(err)
	}
	return m
}
