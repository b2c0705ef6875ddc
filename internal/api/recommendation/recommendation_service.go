package recommendation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-group-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/knowledge"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// GroupFinder is the group lookup the recommendation flow needs.
type GroupFinder interface {
	GetByID(ctx context.Context, groupID uuid.UUID) (*types.Group, error)
}

type Service interface {
	// Recommend gates on the group's knowledge summary, then runs the engine.
	// Engine failures are answered with the fallback payload, never an error.
	Recommend(ctx context.Context, groupID uuid.UUID, destination string) (*types.Recommendations, error)
}

type ServiceImpl struct {
	groups  GroupFinder
	engine  Engine
	metrics *metrics.AppMetrics
	now     func() time.Time
	logger  *slog.Logger
}

func NewService(groups GroupFinder, engine Engine, m *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{groups: groups, engine: engine, metrics: m, now: time.Now, logger: logger}
}

func (s *ServiceImpl) Recommend(ctx context.Context, groupID uuid.UUID, destination string) (*types.Recommendations, error) {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "Recommend", trace.WithAttributes(
		attribute.String("group.id", groupID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Recommend"), slog.String("groupID", groupID.String()))

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "group lookup failed")
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.NotFoundError(types.CodeGroupNotFound, "group not found")
		}
		return nil, fmt.Errorf("error fetching group: %w", err)
	}

	summary, ready := knowledge.EffectiveSummary(group.AIGroupKnSummary)
	if !ready {
		span.SetStatus(codes.Error, "knowledge not ready")
		return nil, types.KnowledgeNotReadyError()
	}

	if strings.TrimSpace(destination) == "" && group.Destination != nil {
		destination = *group.Destination
	}

	recs, err := s.engine.GenerateRecommendations(ctx, summary, destination)
	if err != nil {
		l.ErrorContext(ctx, "Live recommendations failed, serving fallback", slog.Any("error", err))
		span.RecordError(err)
		span.SetAttributes(attribute.String("recommendation.provenance", types.ProvenanceFallback))
		if s.metrics != nil {
			s.metrics.RecommendationFallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reasonOf(err))))
		}
		return Fallback(destination, s.now()), nil
	}

	l.InfoContext(ctx, "Live recommendations generated")
	span.SetAttributes(attribute.String("recommendation.provenance", types.ProvenanceLive))
	span.SetStatus(codes.Ok, "recommendations generated")
	return recs, nil
}

func reasonOf(err error) string {
	switch {
	case errors.Is(err, types.ErrNoCandidates):
		return "no_candidates"
	case errors.Is(err, types.ErrMalformedModelOutput):
		return "malformed"
	case errors.Is(err, types.ErrMissingModelConfig):
		return "missing_model"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
