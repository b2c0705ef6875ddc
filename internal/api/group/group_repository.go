package group

import (
	"context"
	"encoding/json"
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

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

var _ Repository = (*PostgresGroupRepo)(nil)

// Repository defines the contract for groups, their members and knowledge records.
type Repository interface {
	// Create stores the group and enrols its creator in one transaction.
	Create(ctx context.Context, group *types.Group) error
	GetByID(ctx context.Context, groupID uuid.UUID) (*types.Group, error)
	// GetByName returns the most recently created group with the name.
	GetByName(ctx context.Context, name string) (*types.Group, error)
	// AddMember enrols a user and bumps the group's members_version.
	// Returns types.ErrConflict if the user is already a member.
	AddMember(ctx context.Context, groupID, userID uuid.UUID, role string) (*types.GroupMember, error)
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]types.GroupMember, error)
	ListMemberDetails(ctx context.Context, groupID uuid.UUID) ([]types.MemberDetail, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]types.Group, error)
	InsertKnowledgeGraph(ctx context.Context, record *types.KnowledgeGraphRecord) error
	// UpdateSummary writes the summary only while members_version still equals version.
	// Returns types.ErrStaleGroup otherwise.
	UpdateSummary(ctx context.Context, groupID uuid.UUID, version int, summary json.RawMessage) error
}

type PostgresGroupRepo struct {
	logger *slog.Logger
	db     database.DB
}

func NewPostgresGroupRepo(db database.DB, logger *slog.Logger) *PostgresGroupRepo {
	return &PostgresGroupRepo{logger: logger, db: db}
}

const groupColumns = "id, name, creator_id, destination, ai_group_kn_summary, members_version, created_at"

func scanGroup(row pgx.Row, g *types.Group) error {
	return row.Scan(&g.ID, &g.Name, &g.CreatorID, &g.Destination, &g.AIGroupKnSummary, &g.MembersVersion, &g.CreatedAt)
}

func startSpan(ctx context.Context, name, table string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, semconv.DBSystemPostgreSQL, attribute.String("db.sql.table", table))
	return otel.Tracer("GroupRepo").Start(ctx, name, trace.WithAttributes(attrs...))
}

func (r *PostgresGroupRepo) Create(ctx context.Context, group *types.Group) error {
	ctx, span := startSpan(ctx, "Create", "groups", attribute.String("creator.id", group.CreatorID.String()))
	defer span.End()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "begin failed")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO groups (name, creator_id, destination, members_version)
		VALUES ($1, $2, $3, 1)
		RETURNING id, members_version, created_at`,
		group.Name, group.CreatorID, group.Destination,
	).Scan(&group.ID, &group.MembersVersion, &group.CreatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert group", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return fmt.Errorf("database error creating group: %w", err)
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO group_members (group_id, user_id, role)
		VALUES ($1, $2, $3)`,
		group.ID, group.CreatorID, types.RoleCreator,
	); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT member failed")
		return fmt.Errorf("database error enrolling creator: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		return fmt.Errorf("failed to commit group: %w", err)
	}

	span.SetStatus(codes.Ok, "group created")
	return nil
}

func (r *PostgresGroupRepo) GetByID(ctx context.Context, groupID uuid.UUID) (*types.Group, error) {
	ctx, span := startSpan(ctx, "GetByID", "groups", attribute.String("group.id", groupID.String()))
	defer span.End()

	var g types.Group
	if err := scanGroup(r.db.QueryRow(ctx, "SELECT "+groupColumns+" FROM groups WHERE id = $1", groupID), &g); err != nil {
		span.RecordError(err)
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "group not found")
			return nil, fmt.Errorf("group %s: %w", groupID, types.ErrNotFound)
		}
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching group: %w", err)
	}
	span.SetStatus(codes.Ok, "group found")
	return &g, nil
}

func (r *PostgresGroupRepo) GetByName(ctx context.Context, name string) (*types.Group, error) {
	ctx, span := startSpan(ctx, "GetByName", "groups", attribute.String("group.name", name))
	defer span.End()

	var g types.Group
	err := scanGroup(r.db.QueryRow(ctx,
		"SELECT "+groupColumns+" FROM groups WHERE name = $1 ORDER BY created_at DESC LIMIT 1", name), &g)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("group %q: %w", name, types.ErrNotFound)
		}
		return nil, fmt.Errorf("database error fetching group by name: %w", err)
	}
	span.SetStatus(codes.Ok, "group found")
	return &g, nil
}

func (r *PostgresGroupRepo) AddMember(ctx context.Context, groupID, userID uuid.UUID, role string) (*types.GroupMember, error) {
	ctx, span := startSpan(ctx, "AddMember", "group_members",
		attribute.String("group.id", groupID.String()),
		attribute.String("user.id", userID.String()),
	)
	defer span.End()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	member := &types.GroupMember{GroupID: groupID, UserID: userID, Role: role}
	err = tx.QueryRow(ctx, `
		INSERT INTO group_members (group_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING joined_at`,
		groupID, userID, role,
	).Scan(&member.JoinedAt)
	if err != nil {
		span.RecordError(err)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				span.SetStatus(codes.Error, "already a member")
				return nil, fmt.Errorf("user %s in group %s: %w", userID, groupID, types.ErrConflict)
			case foreignKeyViolation:
				span.SetStatus(codes.Error, "group or user missing")
				return nil, fmt.Errorf("group %s or user %s: %w", groupID, userID, types.ErrNotFound)
			}
		}
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error adding member: %w", err)
	}

	if _, err = tx.Exec(ctx, "UPDATE groups SET members_version = members_version + 1 WHERE id = $1", groupID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return nil, fmt.Errorf("database error bumping members version: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to commit member: %w", err)
	}

	span.SetStatus(codes.Ok, "member added")
	return member, nil
}

func (r *PostgresGroupRepo) ListMembers(ctx context.Context, groupID uuid.UUID) ([]types.GroupMember, error) {
	ctx, span := startSpan(ctx, "ListMembers", "group_members", attribute.String("group.id", groupID.String()))
	defer span.End()

	rows, err := r.db.Query(ctx, `
		SELECT group_id, user_id, role, joined_at
		FROM group_members
		WHERE group_id = $1
		ORDER BY joined_at, user_id`, groupID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing members: %w", err)
	}
	defer rows.Close()

	members := []types.GroupMember{}
	for rows.Next() {
		var m types.GroupMember
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	span.SetStatus(codes.Ok, "members listed")
	return members, nil
}

func (r *PostgresGroupRepo) ListMemberDetails(ctx context.Context, groupID uuid.UUID) ([]types.MemberDetail, error) {
	ctx, span := startSpan(ctx, "ListMemberDetails", "group_members", attribute.String("group.id", groupID.String()))
	defer span.End()

	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.email, u.name, gm.role, u.persona_traits, u.ai_summary
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at, gm.user_id`, groupID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing member details: %w", err)
	}
	defer rows.Close()

	members := []types.MemberDetail{}
	for rows.Next() {
		var m types.MemberDetail
		if err := rows.Scan(&m.ID, &m.Email, &m.Name, &m.Role, &m.PersonaTraits, &m.AISummary); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("scan member detail: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("iterate member details: %w", err)
	}
	span.SetStatus(codes.Ok, "member details listed")
	return members, nil
}

func (r *PostgresGroupRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]types.Group, error) {
	ctx, span := startSpan(ctx, "ListForUser", "groups", attribute.String("user.id", userID.String()))
	defer span.End()

	rows, err := r.db.Query(ctx, `
		SELECT g.id, g.name, g.creator_id, g.destination, g.ai_group_kn_summary, g.members_version, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		ORDER BY g.created_at`, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing user groups: %w", err)
	}
	defer rows.Close()

	groups := []types.Group{}
	for rows.Next() {
		var g types.Group
		if err := scanGroup(rows, &g); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("iterate groups: %w", err)
	}
	span.SetStatus(codes.Ok, "groups listed")
	return groups, nil
}

func (r *PostgresGroupRepo) InsertKnowledgeGraph(ctx context.Context, record *types.KnowledgeGraphRecord) error {
	ctx, span := startSpan(ctx, "InsertKnowledgeGraph", "knowledge_graphs", attribute.String("group.id", record.GroupID.String()))
	defer span.End()

	err := r.db.QueryRow(ctx, `
		INSERT INTO knowledge_graphs (group_id, graph_json)
		VALUES ($1, $2)
		RETURNING id, updated_at`,
		record.GroupID, record.GraphJSON,
	).Scan(&record.ID, &record.UpdatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert knowledge graph", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return fmt.Errorf("database error inserting knowledge graph: %w", err)
	}
	span.SetStatus(codes.Ok, "knowledge graph inserted")
	return nil
}

func (r *PostgresGroupRepo) UpdateSummary(ctx context.Context, groupID uuid.UUID, version int, summary json.RawMessage) error {
	ctx, span := startSpan(ctx, "UpdateSummary", "groups",
		attribute.String("group.id", groupID.String()),
		attribute.Int("members_version", version),
	)
	defer span.End()

	tag, err := r.db.Exec(ctx, `
		UPDATE groups SET ai_group_kn_summary = $3
		WHERE id = $1 AND members_version = $2`,
		groupID, version, summary)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating group summary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "stale members version")
		return fmt.Errorf("group %s at members version %d: %w", groupID, version, types.ErrStaleGroup)
	}
	span.SetStatus(codes.Ok, "summary updated")
	return nil
}
