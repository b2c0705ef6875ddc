package container

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-group-trip-planner/app/db"
	"github.com/FACorreiaa/go-group-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-group-trip-planner/config"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/group"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/knowledge"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/llm_hub"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/plan"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/prompt_hub"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/recommendation"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/user"
)

const (
	PromptSourceLangfuse = "langfuse"
	PromptSourcePostgres = "postgres"
)

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Pool    *pgxpool.Pool
	Metrics *metrics.AppMetrics

	UserHandler           *user.HandlerImpl
	GroupHandler          *group.HandlerImpl
	PlanHandler           *plan.HandlerImpl
	RecommendationHandler *recommendation.HandlerImpl
}

// NewContainer opens the database pool and wires repositories, services and handlers.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	maxWait := time.Duration(cfg.Repositories.Postgres.MAXCONWAITINGTIME) * time.Second
	pool, err := database.Init(ctx, dbConfig.ConnectionURL, maxWait, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	c, err := Build(ctx, cfg, pool, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	c.Pool = pool
	return c, nil
}

// Build wires every component on top of an existing database handle.
func Build(ctx context.Context, cfg *config.Config, db database.DB, logger *slog.Logger) (*Container, error) {
	appMetrics, err := metrics.NewFromGlobal()
	if err != nil {
		logger.Error("Failed to create metric instruments", slog.Any("error", err))
		return nil, err
	}

	registry, err := newRegistry(cfg, db, logger)
	if err != nil {
		return nil, err
	}
	prompts := promptHub.NewResolver(registry, cfg.Prompts.Tag, appMetrics, logger)

	dispatcher, err := newDispatcher(ctx, cfg, appMetrics, logger)
	if err != nil {
		return nil, err
	}

	labels := cfg.Prompts.Labels

	// repositories
	userRepo := user.NewPostgresUserRepo(db, logger)
	groupRepo := group.NewPostgresGroupRepo(db, logger)
	planRepo := plan.NewPostgresPlanRepo(db, logger)

	// LLM backed components
	synthesizer := knowledge.NewSynthesizer(prompts, dispatcher, knowledge.Labels{
		Graph:   labels.KnowledgeGraph,
		Summary: labels.KnowledgeSummary,
	}, logger)
	planGenerator := plan.NewGenerator(prompts, dispatcher, labels.Planner, logger)
	engine := recommendation.NewEngine(prompts, dispatcher, recommendation.Options{
		CityLabel:       labels.SpotFinder,
		WideLabel:       labels.SearchRetrieval,
		ShortTripDays:   cfg.Recommendations.ShortTripDays,
		LongTripDays:    cfg.Recommendations.LongTripDays,
		WideRadius:      cfg.Recommendations.WideRadius,
		BudgetPerPerson: cfg.Recommendations.BudgetPerPerson,
	}, logger)

	// services
	userService := user.NewService(userRepo, groupRepo, planRepo, prompts, dispatcher, labels.UserInterest, logger)
	groupService := group.NewService(groupRepo, userRepo, synthesizer, appMetrics, logger)
	planService := plan.NewService(groupRepo, planRepo, planGenerator, logger)
	recommendationService := recommendation.NewService(groupRepo, engine, appMetrics, logger)

	return &Container{
		Config:                cfg,
		Logger:                logger,
		Metrics:               appMetrics,
		UserHandler:           user.NewHandler(userService, logger),
		GroupHandler:          group.NewHandler(groupService, logger),
		PlanHandler:           plan.NewHandler(planService, logger),
		RecommendationHandler: recommendation.NewHandler(recommendationService, logger),
	}, nil
}

func newRegistry(cfg *config.Config, db database.DB, logger *slog.Logger) (promptHub.Registry, error) {
	switch cfg.Prompts.Source {
	case PromptSourcePostgres:
		logger.Info("Resolving prompts from postgres")
		return promptHub.NewPostgresRegistry(db, logger), nil
	case PromptSourceLangfuse, "":
		lf := cfg.Prompts.Langfuse
		if lf.PublicKey == "" || lf.SecretKey == "" {
			logger.Warn("Langfuse keys are not set, prompt lookups will be rejected")
		}
		logger.Info("Resolving prompts from langfuse", slog.String("base_url", lf.BaseURL))
		return promptHub.NewLangfuseRegistry(lf.BaseURL, lf.PublicKey, lf.SecretKey, lf.Timeout, logger), nil
	default:
		return nil, fmt.Errorf("unknown prompts.source %q", cfg.Prompts.Source)
	}
}

// newDispatcher registers a generator for every provider that has keys configured.
func newDispatcher(ctx context.Context, cfg *config.Config, m *metrics.AppMetrics, logger *slog.Logger) (*llmHub.Dispatcher, error) {
	d := llmHub.NewDispatcher(cfg.LLM.Timeout, m, logger)

	if keys := cfg.LLM.OpenAI.APIKeys; len(keys) > 0 {
		g, err := llmHub.NewOpenAIGenerator(keys, cfg.LLM.OpenAI.BaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("openai generator: %w", err)
		}
		d.Register(llmHub.ProviderOpenAI, g)
	} else {
		logger.Warn("No OpenAI keys configured, user profiling is unavailable")
	}

	if keys := cfg.LLM.Nvidia.APIKeys; len(keys) > 0 {
		g, err := llmHub.NewNvidiaGenerator(keys, cfg.LLM.Nvidia.BaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("nvidia generator: %w", err)
		}
		d.Register(llmHub.ProviderNvidia, g)
	} else {
		logger.Warn("No NVIDIA keys configured, knowledge synthesis is unavailable")
	}

	if keys := cfg.LLM.Google.APIKeys; len(keys) > 0 {
		g, err := llmHub.NewGoogleGenerator(ctx, keys, logger)
		if err != nil {
			return nil, fmt.Errorf("google generator: %w", err)
		}
		d.Register(llmHub.ProviderGoogle, g)
	} else {
		logger.Warn("No Google keys configured, planning and recommendations are unavailable")
	}

	return d, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
		c.Logger.Info("Database pool closed")
	}
}
