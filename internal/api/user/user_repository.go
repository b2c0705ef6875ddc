package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-group-trip-planner/app/db"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

const uniqueViolation = "23505"

var _ Repository = (*PostgresUserRepo)(nil)

// Repository defines the contract for user persistence.
type Repository interface {
	// Create stores the user and fills in ID and timestamps.
	// Returns types.ErrConflict when the email is taken.
	Create(ctx context.Context, user *types.User) error
	// GetByEmail returns types.ErrNotFound if no user has the email.
	GetByEmail(ctx context.Context, email string) (*types.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
	// GetByIDs returns the users in the order of ids, skipping unknown ones.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]types.User, error)
}

type PostgresUserRepo struct {
	logger *slog.Logger
	db     database.DB
}

func NewPostgresUserRepo(db database.DB, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		db:     db,
	}
}

const userColumns = "id, email, name, persona_traits, ai_summary, created_at, updated_at"

func scanUser(row pgx.Row, u *types.User) error {
	return row.Scan(&u.ID, &u.Email, &u.Name, &u.PersonaTraits, &u.AISummary, &u.CreatedAt, &u.UpdatedAt)
}

func (r *PostgresUserRepo) Create(ctx context.Context, user *types.User) error {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	err := r.db.QueryRow(ctx, `
		INSERT INTO users (email, name, persona_traits, ai_summary)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		user.Email, user.Name, user.PersonaTraits, user.AISummary,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		span.RecordError(err)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			span.SetStatus(codes.Error, "email already exists")
			return fmt.Errorf("email %q already registered: %w", user.Email, types.ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		span.SetStatus(codes.Error, "DB INSERT failed")
		return fmt.Errorf("database error creating user: %w", err)
	}

	span.SetStatus(codes.Ok, "user created")
	return nil
}

func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetByEmail", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	var u types.User
	err := scanUser(r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email), &u)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "user not found")
			return nil, fmt.Errorf("user with email %q: %w", email, types.ErrNotFound)
		}
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching user by email: %w", err)
	}
	span.SetStatus(codes.Ok, "user found")
	return &u, nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	var u types.User
	err := scanUser(r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", userID), &u)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
		}
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	span.SetStatus(codes.Ok, "user found")
	return &u, nil
}

func (r *PostgresUserRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetByIDs", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
		attribute.Int("ids.count", len(ids)),
	))
	defer span.End()

	users := make([]types.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.email, u.name, u.persona_traits, u.ai_summary, u.created_at, u.updated_at
		FROM unnest($1::uuid[]) WITH ORDINALITY AS wanted(id, ord)
		JOIN users u ON u.id = wanted.id
		ORDER BY wanted.ord`, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u types.User
		if err := scanUser(rows, &u); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	span.SetStatus(codes.Ok, "users fetched")
	return users, nil
}
