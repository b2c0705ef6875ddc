package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	appLogger "github.com/FACorreiaa/go-group-trip-planner/app/logger"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/group"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/plan"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/recommendation"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/user"
)

// Config contains dependencies needed for the router setup
type Config struct {
	UserHandler            user.Handler
	GroupHandler           group.Handler
	PlanHandler            plan.Handler
	RecommendationHandler  recommendation.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
	AllowedOrigins         []string
	// RequestTimeout bounds each request; model calls can take tens of seconds.
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// SetupRouter builds the application router with server-wide middleware applied.
func SetupRouter(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	authenticate := cfg.AuthenticateMiddleware
	if authenticate == nil {
		authenticate = func(next http.Handler) http.Handler { return next }
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/users", cfg.UserHandler.CreateUser)
			r.Get("/users/info", cfg.UserHandler.GetUserInfo)

			r.Post("/groups", cfg.GroupHandler.CreateGroup)
			r.Route("/groups/{groupID}", func(r chi.Router) {
				r.Post("/members", cfg.GroupHandler.AddMember)
				r.Get("/traits", cfg.GroupHandler.GetTraits)
				r.Post("/process", cfg.GroupHandler.ProcessGroup)
				r.Get("/recommendations", cfg.RecommendationHandler.GetRecommendations)
				r.Post("/plan", cfg.PlanHandler.CreatePlan)
				r.Get("/plans", cfg.PlanHandler.ListPlans)
			})

			r.Post("/plans/by-group-name", cfg.PlanHandler.CreatePlanByGroupName)
		})
	})

	return otelhttp.NewHandler(r, "group-trip-planner",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

// health godoc
// @Summary      Liveness probe
// @Tags         Health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func health(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
