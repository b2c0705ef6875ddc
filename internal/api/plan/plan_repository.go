package plan

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-group-trip-planner/app/db"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

var _ Repository = (*PostgresPlanRepo)(nil)

type Repository interface {
	// Insert stores a plan and fills in its ID and CreatedAt.
	Insert(ctx context.Context, plan *types.TripPlan) error
	// ListByGroup returns a group's plans, newest first.
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]types.TripPlan, error)
}

type PostgresPlanRepo struct {
	logger *slog.Logger
	db     database.DB
}

func NewPostgresPlanRepo(db database.DB, logger *slog.Logger) *PostgresPlanRepo {
	return &PostgresPlanRepo{logger: logger, db: db}
}

func (r *PostgresPlanRepo) Insert(ctx context.Context, plan *types.TripPlan) error {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "Insert", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trip_plans"),
		attribute.String("group.id", plan.GroupID.String()),
	))
	defer span.End()

	err := r.db.QueryRow(ctx, `
		INSERT INTO trip_plans (group_id, plan_json, summary_caption, estimated_cost_per_person)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		plan.GroupID, plan.PlanJSON, plan.SummaryCaption, plan.EstimatedCostPerPerson,
	).Scan(&plan.ID, &plan.CreatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert trip plan", slog.String("groupID", plan.GroupID.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return fmt.Errorf("database error inserting trip plan: %w", err)
	}

	span.SetStatus(codes.Ok, "plan inserted")
	return nil
}

func (r *PostgresPlanRepo) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]types.TripPlan, error) {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "ListByGroup", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trip_plans"),
		attribute.String("group.id", groupID.String()),
	))
	defer span.End()

	rows, err := r.db.Query(ctx, `
		SELECT id, group_id, plan_json, summary_caption, estimated_cost_per_person, created_at
		FROM trip_plans
		WHERE group_id = $1
		ORDER BY created_at DESC`, groupID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing trip plans: %w", err)
	}
	defer rows.Close()

	plans := []types.TripPlan{}
	for rows.Next() {
		var p types.TripPlan
		if err := rows.Scan(&p.ID, &p.GroupID, &p.PlanJSON, &p.SummaryCaption, &p.EstimatedCostPerPerson, &p.CreatedAt); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("scan trip plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("iterate trip plans: %w", err)
	}

	span.SetStatus(codes.Ok, "plans listed")
	return plans, nil
}
