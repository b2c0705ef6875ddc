package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-group-trip-planner/internal/api/knowledge"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// GroupFinder is the group lookup the plan flow needs.
type GroupFinder interface {
	GetByID(ctx context.Context, groupID uuid.UUID) (*types.Group, error)
	GetByName(ctx context.Context, name string) (*types.Group, error)
}

type Service interface {
	// CreateForGroup generates, validates and stores a plan for a processed group.
	CreateForGroup(ctx context.Context, groupID uuid.UUID, raw types.RawActivityData) (*types.TripPlan, error)
	// CreateForGroupName does the same, looking the group up by name.
	CreateForGroupName(ctx context.Context, name string, raw types.RawActivityData) (*types.TripPlan, error)
	ListForGroup(ctx context.Context, groupID uuid.UUID) ([]types.TripPlan, error)
}

type ServiceImpl struct {
	logger    *slog.Logger
	groups    GroupFinder
	repo      Repository
	generator Generator
}

func NewService(groups GroupFinder, repo Repository, generator Generator, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, groups: groups, repo: repo, generator: generator}
}

func (s *ServiceImpl) CreateForGroup(ctx context.Context, groupID uuid.UUID, raw types.RawActivityData) (*types.TripPlan, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "CreateForGroup", trace.WithAttributes(
		attribute.String("group.id", groupID.String()),
	))
	defer span.End()

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "group lookup failed")
		return nil, groupLookupError(err)
	}
	return s.create(ctx, span, group, raw)
}

func (s *ServiceImpl) CreateForGroupName(ctx context.Context, name string, raw types.RawActivityData) (*types.TripPlan, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "CreateForGroupName", trace.WithAttributes(
		attribute.String("group.name", name),
	))
	defer span.End()

	group, err := s.groups.GetByName(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "group lookup failed")
		return nil, groupLookupError(err)
	}
	return s.create(ctx, span, group, raw)
}

func (s *ServiceImpl) create(ctx context.Context, span trace.Span, group *types.Group, raw types.RawActivityData) (*types.TripPlan, error) {
	l := s.logger.With(slog.String("method", "create"), slog.String("groupID", group.ID.String()))

	summary, ready := knowledge.EffectiveSummary(group.AIGroupKnSummary)
	if !ready {
		l.WarnContext(ctx, "Plan requested before group processing completed")
		span.SetStatus(codes.Error, "knowledge not ready")
		return nil, types.KnowledgeNotReadyError()
	}

	generated, err := s.generator.GeneratePlan(ctx, summary, raw)
	if err != nil {
		l.ErrorContext(ctx, "Plan generation failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "plan generation failed")
		return nil, err
	}
	if err := ValidatePlan(generated); err != nil {
		l.ErrorContext(ctx, "Plan generator returned an unexpected shape")
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad plan")
		return nil, err
	}

	caption := types.DefaultPlanCaption
	record := &types.TripPlan{
		GroupID:        group.ID,
		PlanJSON:       generated,
		SummaryCaption: &caption,
	}
	if err := s.repo.Insert(ctx, record); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "plan insert failed")
		return nil, fmt.Errorf("error storing trip plan: %w", err)
	}

	l.InfoContext(ctx, "Trip plan stored", slog.String("planID", record.ID.String()))
	span.SetStatus(codes.Ok, "plan created")
	return record, nil
}

func (s *ServiceImpl) ListForGroup(ctx context.Context, groupID uuid.UUID) ([]types.TripPlan, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "ListForGroup", trace.WithAttributes(
		attribute.String("group.id", groupID.String()),
	))
	defer span.End()

	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		span.RecordError(err)
		return nil, groupLookupError(err)
	}
	plans, err := s.repo.ListByGroup(ctx, groupID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list plans failed")
		return nil, fmt.Errorf("error listing trip plans: %w", err)
	}
	span.SetStatus(codes.Ok, "plans listed")
	return plans, nil
}

func groupLookupError(err error) error {
	if errors.Is(err, types.ErrNotFound) {
		return types.NotFoundError(types.CodeGroupNotFound, "group not found")
	}
	return fmt.Errorf("error fetching group: %w", err)
}
