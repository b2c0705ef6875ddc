package recommendation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-group-trip-planner/internal/api/llm_hub"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) GetPrompt(ctx context.Context, label string) (*types.PromptTemplate, error) {
	args := m.Called(ctx, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PromptTemplate), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, req llmHub.Request) (json.RawMessage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// barrierGenerator only answers once two calls are in flight at the same time.
type barrierGenerator struct {
	wg sync.WaitGroup
}

func newBarrierGenerator() *barrierGenerator {
	g := &barrierGenerator{}
	g.wg.Add(2)
	return g
}

func (g *barrierGenerator) Generate(ctx context.Context, req llmHub.Request) (json.RawMessage, error) {
	g.wg.Done()
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return json.RawMessage(`{"ok":true}`), nil
	case <-time.After(2 * time.Second):
		return nil, errors.New("searches did not overlap")
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var fixedNow = time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

func newTestEngine(resolver *MockResolver, gen llmHub.Generator) *EngineImpl {
	e := NewEngine(resolver, gen, Options{}, discardLogger())
	e.now = func() time.Time { return fixedNow }
	return e
}

func searchTemplate(model string) *types.PromptTemplate {
	return &types.PromptTemplate{
		Body:   "Profile {{ USER_PROFILE_SUMMARY }} Context {{ DESTINATION_CONTEXT }}",
		Config: types.PromptConfig{Model: model},
	}
}

func TestEngineImpl_GenerateRecommendations(t *testing.T) {
	ctx := context.Background()
	summary := json.RawMessage(`{"vibe":"beach"}`)

	t.Run("runs both searches on the grounded provider", func(t *testing.T) {
		resolver, gen := new(MockResolver), new(MockGenerator)
		resolver.On("GetPrompt", mock.Anything, DefaultCityLabel).Return(searchTemplate("gemini-2.5-flash"), nil).Once()
		resolver.On("GetPrompt", mock.Anything, DefaultWideLabel).Return(searchTemplate("gemini-2.5-pro"), nil).Once()

		gen.On("Generate", mock.Anything, llmHub.Request{
			Provider:    llmHub.ProviderGoogle,
			Model:       "gemini-2.5-flash",
			Temperature: llmHub.DefaultTemperature,
			TopP:        llmHub.DefaultTopP,
			Prompt:      `Profile {"vibe":"beach"} Context {"city":"Goa","travel_profile":["2025-01-10T00:00:00Z","2025-01-11T00:00:00Z"]}`,
		}).Return(json.RawMessage(`{"spots":["Baga"]}`), nil).Once()
		gen.On("Generate", mock.Anything, llmHub.Request{
			Provider:    llmHub.ProviderGoogle,
			Model:       "gemini-2.5-pro",
			Temperature: llmHub.DefaultTemperature,
			TopP:        llmHub.DefaultTopP,
			Prompt:      `Profile {"vibe":"beach"} Context {"city":"Goa","travel_profile":["2025-01-10T00:00:00Z","2025-01-13T00:00:00Z"],"radius":"100-200 km","budget_per_person":"INR 5K - 10K"}`,
		}).Return(json.RawMessage(`{"trips":["Gokarna"]}`), nil).Once()

		recs, err := newTestEngine(resolver, gen).GenerateRecommendations(ctx, summary, "Goa")
		require.NoError(t, err)
		assert.JSONEq(t, `{"spots":["Baga"]}`, string(recs.ShortTrip))
		assert.JSONEq(t, `{"trips":["Gokarna"]}`, string(recs.LongTrip))
		assert.Equal(t, types.ProvenanceLive, recs.Provenance)
		resolver.AssertExpectations(t)
		gen.AssertExpectations(t)
	})

	t.Run("searches run concurrently", func(t *testing.T) {
		resolver := new(MockResolver)
		resolver.On("GetPrompt", mock.Anything, mock.Anything).Return(searchTemplate("gemini-2.5-flash"), nil)

		recs, err := newTestEngine(resolver, newBarrierGenerator()).GenerateRecommendations(ctx, summary, "Goa")
		require.NoError(t, err)
		assert.Equal(t, types.ProvenanceLive, recs.Provenance)
	})

	t.Run("missing model fails without calling the provider", func(t *testing.T) {
		resolver, gen := new(MockResolver), new(MockGenerator)
		resolver.On("GetPrompt", mock.Anything, mock.Anything).Return(searchTemplate(""), nil)

		recs, err := newTestEngine(resolver, gen).GenerateRecommendations(ctx, summary, "Goa")
		assert.Nil(t, recs)
		assert.ErrorIs(t, err, types.ErrMissingModelConfig)
		gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("one failed search fails the whole set", func(t *testing.T) {
		resolver, gen := new(MockResolver), new(MockGenerator)
		resolver.On("GetPrompt", mock.Anything, mock.Anything).Return(searchTemplate("gemini-2.5-flash"), nil)
		gen.On("Generate", mock.Anything, mock.MatchedBy(func(req llmHub.Request) bool {
			return strings.Contains(req.Prompt, "radius")
		})).Return(nil, types.ErrNoCandidates)
		gen.On("Generate", mock.Anything, mock.Anything).Return(json.RawMessage(`{"spots":[]}`), nil)

		recs, err := newTestEngine(resolver, gen).GenerateRecommendations(ctx, summary, "Goa")
		assert.Nil(t, recs)
		assert.ErrorIs(t, err, types.ErrNoCandidates)
	})
}

func TestTravelWindow(t *testing.T) {
	assert.Equal(t, []string{"2025-01-10T00:00:00Z", "2025-01-13T00:00:00Z"}, travelWindow(fixedNow, 3))
}
