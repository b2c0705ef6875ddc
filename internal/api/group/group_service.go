package group

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

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

// UserReader is the user lookup the group flows need.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*types.User, error)
	// GetByIDs returns users in the order of ids.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]types.User, error)
}

type Service interface {
	// CreateGroup stores the group with its creator and runs the knowledge pipeline.
	CreateGroup(ctx context.Context, req types.CreateGroupRequest) (*types.Group, error)
	// AddMember enrols a user by email and re-runs the knowledge pipeline.
	AddMember(ctx context.Context, groupID uuid.UUID, req types.AddMemberRequest) (*types.GroupMember, error)
	// GetTraits lists member personas in membership order.
	GetTraits(ctx context.Context, groupID uuid.UUID) (*types.GroupTraits, error)
	// ProcessGroup re-runs the knowledge pipeline on demand.
	ProcessGroup(ctx context.Context, groupID uuid.UUID) (*types.ProcessResult, error)
}

type ServiceImpl struct {
	logger      *slog.Logger
	repo        Repository
	users       UserReader
	synthesizer knowledge.Synthesizer
	metrics     *metrics.AppMetrics
}

func NewService(repo Repository, users UserReader, synthesizer knowledge.Synthesizer, m *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:      logger,
		repo:        repo,
		users:       users,
		synthesizer: synthesizer,
		metrics:     m,
	}
}

func (s *ServiceImpl) CreateGroup(ctx context.Context, req types.CreateGroupRequest) (*types.Group, error) {
	ctx, span := otel.Tracer("GroupService").Start(ctx, "CreateGroup", trace.WithAttributes(
		attribute.String("group.name", req.GroupName),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateGroup"), slog.String("name", req.GroupName))

	name := strings.TrimSpace(req.GroupName)
	email := strings.TrimSpace(req.CreatorEmail)
	if name == "" || email == "" {
		span.SetStatus(codes.Error, "invalid request")
		return nil, types.NewAppError(http.StatusBadRequest, types.CodeInvalidRequest,
			errors.New("group_name and creator_email are required"))
	}

	creator, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			l.WarnContext(ctx, "Creator not found", slog.String("email", email))
			return nil, types.NotFoundError(types.CodeCreatorNotFound, "creator not found")
		}
		return nil, fmt.Errorf("error fetching creator: %w", err)
	}

	group := &types.Group{Name: name, CreatorID: creator.ID}
	if dest := strings.TrimSpace(req.Destination); dest != "" {
		group.Destination = &dest
	}
	if err := s.repo.Create(ctx, group); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "group insert failed")
		return nil, fmt.Errorf("error creating group: %w", err)
	}
	l.InfoContext(ctx, "Group created", slog.String("groupID", group.ID.String()))

	result, err := s.ProcessGroup(ctx, group.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "knowledge pipeline failed")
		return nil, err
	}
	if !result.Stale {
		group.AIGroupKnSummary = result.Summary
	}

	span.SetStatus(codes.Ok, "group created")
	return group, nil
}

func (s *ServiceImpl) AddMember(ctx context.Context, groupID uuid.UUID, req types.AddMemberRequest) (*types.GroupMember, error) {
	ctx, span := otel.Tracer("GroupService").Start(ctx, "AddMember", trace.WithAttributes(
		attribute.String("group.id", groupID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "AddMember"), slog.String("groupID", groupID.String()))

	email := strings.TrimSpace(req.UserEmail)
	if email == "" {
		return nil, types.NewAppError(http.StatusBadRequest, types.CodeInvalidRequest, errors.New("user_email is required"))
	}

	if _, err := s.repo.GetByID(ctx, groupID); err != nil {
		span.RecordError(err)
		return nil, groupLookupError(err)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.NotFoundError(types.CodeUserNotFound, "user not found")
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	member, err := s.repo.AddMember(ctx, groupID, user.ID, types.RoleMember)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "member insert failed")
		switch {
		case errors.Is(err, types.ErrConflict):
			l.WarnContext(ctx, "User already in group", slog.String("userID", user.ID.String()))
			return nil, types.ConflictError(types.CodeUserAlreadyInGroup, "user already in group")
		case errors.Is(err, types.ErrNotFound):
			return nil, types.NotFoundError(types.CodeGroupNotFound, "group not found")
		}
		return nil, fmt.Errorf("error adding member: %w", err)
	}
	l.InfoContext(ctx, "Member added", slog.String("userID", user.ID.String()))

	if _, err := s.ProcessGroup(ctx, groupID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "knowledge pipeline failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "member added")
	return member, nil
}

func (s *ServiceImpl) GetTraits(ctx context.Context, groupID uuid.UUID) (*types.GroupTraits, error) {
	ctx, span := otel.Tracer("GroupService").Start(ctx, "GetTraits", trace.WithAttributes(
		attribute.String("group.id", groupID.String()),
	))
	defer span.End()

	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		span.RecordError(err)
		return nil, groupLookupError(err)
	}

	personas, err := s.memberPersonas(ctx, groupID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetStatus(codes.Ok, "traits listed")
	return &types.GroupTraits{GroupID: group.ID, GroupName: group.Name, GroupMembers: personas}, nil
}

// ProcessGroup runs read group, read members, read users, synthesize graph,
// write graph, summarize, write summary. The summary write is conditional on
// the members_version read first; a run that loses that race reports Stale.
func (s *ServiceImpl) ProcessGroup(ctx context.Context, groupID uuid.UUID) (*types.ProcessResult, error) {
	ctx, span := otel.Tracer("GroupService").Start(ctx, "ProcessGroup", trace.WithAttributes(
		attribute.String("group.id", groupID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "ProcessGroup"), slog.String("groupID", groupID.String()))

	result, err := s.process(ctx, l, groupID)
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "knowledge pipeline failed")
	case result.Stale:
		outcome = "stale"
		span.SetStatus(codes.Ok, "superseded by newer membership")
	default:
		span.SetStatus(codes.Ok, "knowledge pipeline completed")
	}
	if s.metrics != nil {
		s.metrics.KnowledgeRunsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
	return result, err
}

func (s *ServiceImpl) process(ctx context.Context, l *slog.Logger, groupID uuid.UUID) (*types.ProcessResult, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, groupLookupError(err)
	}
	version := group.MembersVersion

	personas, err := s.memberPersonas(ctx, groupID)
	if err != nil {
		return nil, err
	}

	graph, err := s.synthesizer.GenerateGraph(ctx, personas)
	if err != nil {
		l.ErrorContext(ctx, "Knowledge graph generation failed", slog.Any("error", err))
		return nil, err
	}

	record := &types.KnowledgeGraphRecord{GroupID: groupID, GraphJSON: graph}
	if err := s.repo.InsertKnowledgeGraph(ctx, record); err != nil {
		return nil, fmt.Errorf("error storing knowledge graph: %w", err)
	}

	summary, err := s.synthesizer.SummarizeGraph(ctx, graph)
	if err != nil {
		l.ErrorContext(ctx, "Knowledge summary failed", slog.Any("error", err))
		return nil, err
	}

	result := &types.ProcessResult{GroupID: groupID, KnowledgeGraph: graph, Summary: summary}
	if err := s.repo.UpdateSummary(ctx, groupID, version, summary); err != nil {
		if errors.Is(err, types.ErrStaleGroup) {
			l.WarnContext(ctx, "Membership changed during processing, leaving summary to the newer run",
				slog.Int("members_version", version))
			result.Stale = true
			return result, nil
		}
		return nil, fmt.Errorf("error storing knowledge summary: %w", err)
	}

	l.InfoContext(ctx, "Knowledge pipeline completed", slog.Int("members", len(personas)))
	return result, nil
}

func (s *ServiceImpl) memberPersonas(ctx context.Context, groupID uuid.UUID) ([]types.MemberPersona, error) {
	members, err := s.repo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}
	if len(members) == 0 {
		return nil, types.NotFoundError(types.CodeNoMembersFound, "no members found")
	}

	ids := make([]uuid.UUID, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error fetching member users: %w", err)
	}

	personas := make([]types.MemberPersona, 0, len(users))
	for _, u := range users {
		personas = append(personas, types.MemberPersona{PersonaTraits: nullIfEmpty(u.PersonaTraits), AISummary: u.AISummary})
	}
	return personas, nil
}

func nullIfEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}

func groupLookupError(err error) error {
	if errors.Is(err, types.ErrNotFound) {
		return types.NotFoundError(types.CodeGroupNotFound, "group not found")
	}
	return fmt.Errorf("error fetching group: %w", err)
}
