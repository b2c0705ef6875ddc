package promptHub

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-group-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLangfuseRegistry_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "pk" || pass != "sk" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "production", r.URL.Query().Get("label"))
		switch r.URL.Path {
		case "/api/public/v2/prompts/KN_generator":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"KN_generator","version":4,"type":"text","prompt":"Build {{ INPUT_DATA }}","config":{"model":"meta/llama-3.1-70b-instruct","tempreature":0.5}}`))
		case "/api/public/v2/prompts/chat_prompt":
			_, _ = w.Write([]byte(`{"name":"chat_prompt","version":1,"type":"chat","prompt":[{"role":"system","content":"x"}],"config":{}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Prompt not found"}`))
		}
	}))
	defer srv.Close()

	reg := NewLangfuseRegistry(srv.URL+"/", "pk", "sk", time.Second, discardLogger())
	ctx := context.Background()

	t.Run("text prompt", func(t *testing.T) {
		entry, err := reg.Fetch(ctx, "KN_generator", "production")
		require.NoError(t, err)
		assert.Equal(t, 4, entry.Version)
		assert.Equal(t, "Build {{ INPUT_DATA }}", entry.Body)
		assert.Equal(t, "meta/llama-3.1-70b-instruct", entry.Config["model"])
	})

	t.Run("not found", func(t *testing.T) {
		_, err := reg.Fetch(ctx, "nope", "production")
		assert.ErrorIs(t, err, types.ErrPromptNotFound)
	})

	t.Run("chat prompts rejected", func(t *testing.T) {
		_, err := reg.Fetch(ctx, "chat_prompt", "production")
		assert.ErrorIs(t, err, types.ErrInvalidPromptConfig)
	})

	t.Run("bad credentials surface status", func(t *testing.T) {
		bad := NewLangfuseRegistry(srv.URL, "pk", "wrong", time.Second, discardLogger())
		_, err := bad.Fetch(ctx, "KN_generator", "production")
		require.Error(t, err)
		assert.NotErrorIs(t, err, types.ErrPromptNotFound)
		assert.Contains(t, err.Error(), "401")
	})
}

func TestPostgresRegistry_Fetch(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	reg := NewPostgresRegistry(mockPool, discardLogger())
	query := regexp.QuoteMeta("SELECT version, prompt, config")
	ctx := context.Background()

	t.Run("latest version", func(t *testing.T) {
		mockPool.ExpectQuery(query).
			WithArgs("spot_finder", "production").
			WillReturnRows(pgxmock.NewRows([]string{"version", "prompt", "config"}).
				AddRow(3, "Find spots in {{ DESTINATION_CONTEXT.city }}", map[string]any{"model": "gemini-2.5-flash"}))

		entry, err := reg.Fetch(ctx, "spot_finder", "production")
		require.NoError(t, err)
		assert.Equal(t, 3, entry.Version)
		assert.Equal(t, "gemini-2.5-flash", entry.Config["model"])
	})

	t.Run("no rows", func(t *testing.T) {
		mockPool.ExpectQuery(query).
			WithArgs("missing", "production").
			WillReturnError(pgx.ErrNoRows)

		_, err := reg.Fetch(ctx, "missing", "production")
		assert.ErrorIs(t, err, types.ErrPromptNotFound)
	})

	t.Run("database error", func(t *testing.T) {
		dbErr := errors.New("connection reset")
		mockPool.ExpectQuery(query).
			WithArgs("spot_finder", "production").
			WillReturnError(dbErr)

		_, err := reg.Fetch(ctx, "spot_finder", "production")
		assert.ErrorIs(t, err, dbErr)
	})

	require.NoError(t, mockPool.ExpectationsWereMet())
}

type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) Fetch(ctx context.Context, label, tag string) (*RegistryEntry, error) {
	args := m.Called(ctx, label, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RegistryEntry), args.Error(1)
}

func TestResolverImpl_GetPrompt(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes config and refetches every call", func(t *testing.T) {
		reg := new(MockRegistry)
		r := NewResolver(reg, "", metrics.NewNoop(), discardLogger())
		reg.On("Fetch", mock.Anything, "base_level_planner", "production").
			Return(&RegistryEntry{Version: 2, Body: "plan", Config: map[string]any{"model": "gemini-2.5-pro", "temperature": 0.3}}, nil).
			Twice()

		for i := 0; i < 2; i++ {
			tpl, err := r.GetPrompt(ctx, "base_level_planner")
			require.NoError(t, err)
			assert.Equal(t, "gemini-2.5-pro", tpl.Config.Model)
			assert.Equal(t, "production", tpl.Tag)
			assert.Equal(t, 2, tpl.Version)
		}
		reg.AssertExpectations(t)
	})

	t.Run("invalid config", func(t *testing.T) {
		reg := new(MockRegistry)
		r := NewResolver(reg, "production", nil, discardLogger())
		reg.On("Fetch", mock.Anything, "spot_finder", "production").
			Return(&RegistryEntry{Body: "x", Config: map[string]any{"top_k": 3}}, nil).Once()

		_, err := r.GetPrompt(ctx, "spot_finder")
		assert.ErrorIs(t, err, types.ErrInvalidPromptConfig)
	})

	t.Run("not found propagates", func(t *testing.T) {
		reg := new(MockRegistry)
		r := NewResolver(reg, "production", nil, discardLogger())
		reg.On("Fetch", mock.Anything, "x", "production").Return(nil, types.ErrPromptNotFound).Once()

		_, err := r.GetPrompt(ctx, "x")
		assert.ErrorIs(t, err, types.ErrPromptNotFound)
	})
}
