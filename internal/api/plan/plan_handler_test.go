package plan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateForGroup(ctx context.Context, groupID uuid.UUID, raw types.RawActivityData) (*types.TripPlan, error) {
	args := m.Called(ctx, groupID, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TripPlan), args.Error(1)
}

func (m *MockService) CreateForGroupName(ctx context.Context, name string, raw types.RawActivityData) (*types.TripPlan, error) {
	args := m.Called(ctx, name, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TripPlan), args.Error(1)
}

func (m *MockService) ListForGroup(ctx context.Context, groupID uuid.UUID) ([]types.TripPlan, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TripPlan), args.Error(1)
}

func planRouter(svc Service) http.Handler {
	h := NewHandler(svc, discard)
	r := chi.NewRouter()
	r.Post("/groups/{groupID}/plan", h.CreatePlan)
	r.Post("/plans/by-group-name", h.CreatePlanByGroupName)
	return r
}

func TestHandlerImpl_CreatePlan(t *testing.T) {
	groupID := uuid.New()

	t.Run("passes the activity buckets through", func(t *testing.T) {
		svc := new(MockService)
		svc.On("CreateForGroup", mock.Anything, groupID, types.RawActivityData{
			ShortTrip: json.RawMessage(`{"s":1}`),
			LongTrip:  json.RawMessage(`{"l":2}`),
		}).Return(&types.TripPlan{ID: uuid.New(), GroupID: groupID, PlanJSON: json.RawMessage(`{"plan_options":[]}`)}, nil).Once()

		body := `{"raw_data":{"short_trip":{"s":1},"long_trip":{"l":2},"provenance":"live"}}`
		rec := httptest.NewRecorder()
		planRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/groups/"+groupID.String()+"/plan", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("readiness gate maps to 400 KN_NOT_READY", func(t *testing.T) {
		svc := new(MockService)
		svc.On("CreateForGroup", mock.Anything, groupID, mock.Anything).Return(nil, types.KnowledgeNotReadyError()).Once()

		rec := httptest.NewRecorder()
		planRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/groups/"+groupID.String()+"/plan", strings.NewReader(`{"raw_data":{}}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, types.CodeKnowledgeNotReady, resp["code"])
	})

	t.Run("bad plan maps to 502 with details", func(t *testing.T) {
		svc := new(MockService)
		svc.On("CreateForGroup", mock.Anything, groupID, mock.Anything).
			Return(nil, ValidatePlan(json.RawMessage(`{"nope":true}`))).Once()

		rec := httptest.NewRecorder()
		planRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/groups/"+groupID.String()+"/plan", strings.NewReader(`{"raw_data":{}}`)))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, types.CodeLLMBadResponse, resp["code"])
		assert.Equal(t, map[string]any{"nope": true}, resp["details"])
	})

	t.Run("invalid group id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		planRouter(new(MockService)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/groups/not-a-uuid/plan", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlerImpl_CreatePlanByGroupName(t *testing.T) {
	t.Run("stored plan answers 201", func(t *testing.T) {
		svc := new(MockService)
		svc.On("CreateForGroupName", mock.Anything, "Weekend crew", mock.Anything).
			Return(&types.TripPlan{ID: uuid.New(), PlanJSON: json.RawMessage(`{"plan_options":[]}`)}, nil).Once()

		rec := httptest.NewRecorder()
		planRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/plans/by-group-name", strings.NewReader(`{"group_name":"Weekend crew","raw_data":{}}`)))

		assert.Equal(t, http.StatusCreated, rec.Code)
		svc.AssertExpectations(t)
	})

	svc := new(MockService)
	svc.On("CreateForGroupName", mock.Anything, "Weekend crew", mock.Anything).Return(nil, types.NotFoundError(types.CodeGroupNotFound, "group not found")).Once()

	rec := httptest.NewRecorder()
	planRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/plans/by-group-name", strings.NewReader(`{"group_name":" Weekend crew ","raw_data":{}}`)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertExpectations(t)
}
