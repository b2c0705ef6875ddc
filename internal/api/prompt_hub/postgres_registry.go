package promptHub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-group-trip-planner/app/db"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

var _ Registry = (*PostgresRegistry)(nil)

// PostgresRegistry serves prompts from the prompt_templates table.
type PostgresRegistry struct {
	db     database.DB
	logger *slog.Logger
}

func NewPostgresRegistry(db database.DB, logger *slog.Logger) *PostgresRegistry {
	return &PostgresRegistry{db: db, logger: logger}
}

func (r *PostgresRegistry) Fetch(ctx context.Context, label, tag string) (*RegistryEntry, error) {
	ctx, span := otel.Tracer("PromptRegistry").Start(ctx, "Fetch", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "prompt_templates"),
		attribute.String("prompt.label", label),
	))
	defer span.End()

	var entry RegistryEntry
	err := r.db.QueryRow(ctx, `
		SELECT version, prompt, config
		FROM prompt_templates
		WHERE name = $1 AND label = $2
		ORDER BY version DESC
		LIMIT 1`, label, tag).Scan(&entry.Version, &entry.Body, &entry.Config)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "prompt not found")
			return nil, fmt.Errorf("prompt %q with label %q: %w", label, tag, types.ErrPromptNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to query prompt template", slog.String("prompt", label), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching prompt %q: %w", label, err)
	}

	span.SetStatus(codes.Ok, "prompt fetched")
	return &entry, nil
}
