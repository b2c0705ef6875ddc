package container

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-group-trip-planner/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuild_WiresHandlers(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	cfg := &config.Config{}
	cfg.Prompts.Source = PromptSourcePostgres
	cfg.Prompts.Tag = "production"
	cfg.LLM.OpenAI.APIKeys = []string{"sk-test"}

	c, err := Build(context.Background(), cfg, mockPool, discardLogger())
	require.NoError(t, err)

	assert.NotNil(t, c.UserHandler)
	assert.NotNil(t, c.GroupHandler)
	assert.NotNil(t, c.PlanHandler)
	assert.NotNil(t, c.RecommendationHandler)
	assert.NotNil(t, c.Metrics)
	assert.Nil(t, c.Pool)
	// building must not touch the database
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestBuild_LangfuseWithoutKeys(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	cfg := &config.Config{}
	cfg.Prompts.Langfuse.BaseURL = "http://localhost:3000"

	c, err := Build(context.Background(), cfg, mockPool, discardLogger())
	require.NoError(t, err)
	assert.NotNil(t, c.UserHandler)
}

func TestBuild_UnknownPromptSource(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	cfg := &config.Config{}
	cfg.Prompts.Source = "filesystem"

	_, err = Build(context.Background(), cfg, mockPool, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filesystem")
}

func TestClose_WithoutPool(t *testing.T) {
	c := &Container{Logger: discardLogger()}
	assert.NotPanics(t, c.Close)
}
