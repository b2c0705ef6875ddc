package llmHub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-group-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

const DefaultTimeout = 45 * time.Second

var _ Generator = (*Dispatcher)(nil)

// Dispatcher routes each Request to the Generator registered for its Provider.
type Dispatcher struct {
	generators map[Provider]Generator
	timeout    time.Duration
	metrics    *metrics.AppMetrics
	logger     *slog.Logger
}

func NewDispatcher(timeout time.Duration, m *metrics.AppMetrics, logger *slog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		generators: make(map[Provider]Generator),
		timeout:    timeout,
		metrics:    m,
		logger:     logger,
	}
}

// Register installs g for p, replacing any previous generator.
func (d *Dispatcher) Register(p Provider, g Generator) *Dispatcher {
	d.generators[p] = g
	return d
}

func (d *Dispatcher) Generate(ctx context.Context, req Request) (json.RawMessage, error) {
	ctx, span := otel.Tracer("ModelDispatcher").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("llm.provider", string(req.Provider)),
		attribute.String("llm.model", req.Model),
		attribute.Float64("llm.temperature", req.Temperature),
	))
	defer span.End()

	l := d.logger.With(slog.String("method", "Generate"),
		slog.String("provider", string(req.Provider)),
		slog.String("model", req.Model))

	g, ok := d.generators[req.Provider]
	if !ok {
		err := fmt.Errorf("%w: %q has no configured credentials", types.ErrUnknownProvider, req.Provider)
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider not configured")
		return nil, err
	}
	if req.Model == "" {
		span.SetStatus(codes.Error, "missing model")
		return nil, types.ErrMissingModelConfig
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	out, err := g.Generate(ctx, req)
	elapsed := time.Since(start)
	d.record(ctx, req.Provider, outcomeOf(err), elapsed)

	if err != nil {
		l.ErrorContext(ctx, "Model call failed", slog.Duration("latency", elapsed), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		return nil, err
	}

	l.InfoContext(ctx, "Model call succeeded", slog.Duration("latency", elapsed), slog.Int("bytes", len(out)))
	span.SetStatus(codes.Ok, "model call succeeded")
	return out, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, types.ErrMalformedModelOutput):
		return "malformed"
	case errors.Is(err, types.ErrNoCandidates):
		return "no_candidates"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

func (d *Dispatcher) record(ctx context.Context, p Provider, outcome string, elapsed time.Duration) {
	if d.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("provider", string(p)), attribute.String("outcome", outcome))
	d.metrics.LLMRequestsTotal.Add(ctx, 1, attrs)
	d.metrics.LLMRequestDuration.Record(ctx, elapsed.Seconds(), attrs)
}
