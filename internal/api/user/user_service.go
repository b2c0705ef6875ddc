package user

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
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-group-trip-planner/internal/api/llm_hub"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/prompt_hub"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

const DefaultInterestLabel = "user_intrest"

var _ Service = (*ServiceImpl)(nil)

// GroupLister is the group data a user's info page needs.
type GroupLister interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]types.Group, error)
	ListMemberDetails(ctx context.Context, groupID uuid.UUID) ([]types.MemberDetail, error)
}

// PlanLister returns a group's stored plans.
type PlanLister interface {
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]types.TripPlan, error)
}

type Service interface {
	// Create profiles the questionnaire answers with the interest prompt and stores the user.
	Create(ctx context.Context, req types.CreateUserRequest) (*types.User, error)
	// Info returns the user with every group they belong to.
	Info(ctx context.Context, email string) (*types.UserInfo, error)
}

type ServiceImpl struct {
	logger    *slog.Logger
	repo      Repository
	groups    GroupLister
	plans     PlanLister
	prompts   promptHub.Resolver
	generator llmHub.Generator
	label     string
}

func NewService(repo Repository, groups GroupLister, plans PlanLister, prompts promptHub.Resolver,
	generator llmHub.Generator, label string, logger *slog.Logger) *ServiceImpl {
	if label == "" {
		label = DefaultInterestLabel
	}
	return &ServiceImpl{
		logger:    logger,
		repo:      repo,
		groups:    groups,
		plans:     plans,
		prompts:   prompts,
		generator: generator,
		label:     label,
	}
}

func (s *ServiceImpl) Create(ctx context.Context, req types.CreateUserRequest) (*types.User, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "Create", trace.WithAttributes(
		attribute.String("user.email", req.Email),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Create"), slog.String("email", req.Email))
	l.DebugContext(ctx, "Creating user")

	email := strings.TrimSpace(req.Email)
	if email == "" {
		span.SetStatus(codes.Error, "missing email")
		return nil, types.NewAppError(http.StatusBadRequest, types.CodeInvalidRequest, errors.New("email is required"))
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		l.WarnContext(ctx, "User already exists")
		span.SetStatus(codes.Error, "user exists")
		return nil, types.ConflictError(types.CodeUserAlreadyExists, "user already exists")
	} else if !errors.Is(err, types.ErrNotFound) {
		span.RecordError(err)
		return nil, fmt.Errorf("error checking existing user: %w", err)
	}

	profile, err := s.profileInterests(ctx, req.UserAnswer)
	if err != nil {
		l.ErrorContext(ctx, "Interest profiling failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "interest profiling failed")
		return nil, err
	}

	persona, err := json.Marshal(types.PersonaTraits{Traits: profile.TopTraits, Score: profile.FactorScores})
	if err != nil {
		return nil, fmt.Errorf("encode persona traits: %w", err)
	}

	user := &types.User{Email: email, PersonaTraits: persona}
	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = &name
	}
	if summary := profile.SummaryText(); summary != "" {
		user.AISummary = &summary
	}

	if err := s.repo.Create(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "user insert failed")
		if errors.Is(err, types.ErrConflict) {
			return nil, types.ConflictError(types.CodeUserAlreadyExists, "user already exists")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	l.InfoContext(ctx, "User created", slog.String("userID", user.ID.String()))
	span.SetStatus(codes.Ok, "user created")
	return user, nil
}

func (s *ServiceImpl) profileInterests(ctx context.Context, answers map[string]any) (*types.InterestProfile, error) {
	tpl, err := s.prompts.GetPrompt(ctx, s.label)
	if err != nil {
		return nil, err
	}
	if tpl.Config.Model == "" {
		return nil, fmt.Errorf("prompt %q: %w", s.label, types.ErrMissingModelConfig)
	}

	if answers == nil {
		answers = map[string]any{}
	}
	prompt, err := promptHub.Render(tpl.Body, map[string]any{"USER_RESPONSES": answers})
	if err != nil {
		return nil, err
	}

	raw, err := s.generator.Generate(ctx, llmHub.Request{
		Provider:    llmHub.ProviderOpenAI,
		Model:       tpl.Config.Model,
		Temperature: tpl.Config.TemperatureOr(llmHub.DefaultTemperature),
		TopP:        llmHub.DefaultTopP,
		Prompt:      prompt,
	})
	if err != nil {
		return nil, err
	}

	var profile types.InterestProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, &types.MalformedModelOutputError{Raw: string(raw), Err: err}
	}
	return &profile, nil
}

func (s *ServiceImpl) Info(ctx context.Context, email string) (*types.UserInfo, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "Info", trace.WithAttributes(
		attribute.String("user.email", email),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Info"), slog.String("email", email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			l.WarnContext(ctx, "User not found")
			return nil, types.NotFoundError(types.CodeUserNotFound, "user not found")
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	groups, err := s.groups.ListForUser(ctx, user.ID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error listing user groups: %w", err)
	}

	info := &types.UserInfo{User: *user, Groups: make([]types.GroupInfo, 0, len(groups))}
	for _, g := range groups {
		members, err := s.groups.ListMemberDetails(ctx, g.ID)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("error listing members of group %s: %w", g.ID, err)
		}
		for i := range members {
			if members[i].Role == "" {
				members[i].Role = types.RoleMember
			}
		}

		plans, err := s.plans.ListByGroup(ctx, g.ID)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("error listing plans of group %s: %w", g.ID, err)
		}

		info.Groups = append(info.Groups, types.GroupInfo{
			ID:          g.ID,
			Name:        g.Name,
			Destination: g.Destination,
			CreatorID:   g.CreatorID,
			Members:     members,
			Plans:       plans,
		})
	}

	l.InfoContext(ctx, "User info assembled", slog.Int("groups", len(info.Groups)))
	span.SetStatus(codes.Ok, "user info assembled")
	return info, nil
}
