package llmHub

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

type MockContentGenerator struct {
	mock.Mock
}

func (m *MockContentGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, model, contents, config)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genai.GenerateContentResponse), args.Error(1)
}

func newTestGoogleGenerator(t *testing.T, client contentGenerator) *GoogleGenerator {
	t.Helper()
	pool, err := NewKeyPool([]string{"g"}, func(string) (contentGenerator, error) { return client, nil })
	require.NoError(t, err)
	return &GoogleGenerator{pool: pool, logger: discardLogger()}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestGoogleGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	req := Request{Provider: ProviderGoogle, Model: "gemini-2.5-pro", Temperature: 0.3, TopP: 1, Prompt: "plan a trip"}

	t.Run("grounded search enabled and JSON parsed", func(t *testing.T) {
		client := new(MockContentGenerator)
		client.On("GenerateContent", mock.Anything, "gemini-2.5-pro", genai.Text("plan a trip"),
			mock.MatchedBy(func(cfg *genai.GenerateContentConfig) bool {
				return len(cfg.Tools) == 1 && cfg.Tools[0].GoogleSearch != nil &&
					cfg.Temperature != nil && *cfg.Temperature == float32(0.3) &&
					cfg.TopP != nil && *cfg.TopP == float32(1)
			})).
			Return(textResponse("```json\n{\"plan_options\": []}\n```"), nil).Once()

		out, err := newTestGoogleGenerator(t, client).Generate(ctx, req)
		require.NoError(t, err)
		assert.JSONEq(t, `{"plan_options": []}`, string(out))
		client.AssertExpectations(t)
	})

	t.Run("no candidates", func(t *testing.T) {
		client := new(MockContentGenerator)
		client.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&genai.GenerateContentResponse{}, nil).Once()

		_, err := newTestGoogleGenerator(t, client).Generate(ctx, req)
		assert.ErrorIs(t, err, types.ErrNoCandidates)
	})

	t.Run("candidate without parts is malformed", func(t *testing.T) {
		client := new(MockContentGenerator)
		client.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}}, nil).Once()

		_, err := newTestGoogleGenerator(t, client).Generate(ctx, req)
		assert.ErrorIs(t, err, types.ErrMalformedModelOutput)
	})

	t.Run("non JSON text", func(t *testing.T) {
		client := new(MockContentGenerator)
		client.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(textResponse("Bangalore is lovely in October."), nil).Once()

		_, err := newTestGoogleGenerator(t, client).Generate(ctx, req)
		assert.ErrorIs(t, err, types.ErrMalformedModelOutput)
	})

	t.Run("transport error", func(t *testing.T) {
		boom := errors.New("quota exceeded")
		client := new(MockContentGenerator)
		client.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, boom).Once()

		_, err := newTestGoogleGenerator(t, client).Generate(ctx, req)
		assert.ErrorIs(t, err, boom)
	})
}
