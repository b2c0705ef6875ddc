package group

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

func (m *MockService) CreateGroup(ctx context.Context, req types.CreateGroupRequest) (*types.Group, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Group), args.Error(1)
}

func (m *MockService) AddMember(ctx context.Context, groupID uuid.UUID, req types.AddMemberRequest) (*types.GroupMember, error) {
	args := m.Called(ctx, groupID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.GroupMember), args.Error(1)
}

func (m *MockService) GetTraits(ctx context.Context, groupID uuid.UUID) (*types.GroupTraits, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.GroupTraits), args.Error(1)
}

func (m *MockService) ProcessGroup(ctx context.Context, groupID uuid.UUID) (*types.ProcessResult, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ProcessResult), args.Error(1)
}

func groupRouter(svc Service) http.Handler {
	h := NewHandler(svc, discardLogger())
	r := chi.NewRouter()
	r.Post("/groups", h.CreateGroup)
	r.Post("/groups/{groupID}/members", h.AddMember)
	r.Get("/groups/{groupID}/traits", h.GetTraits)
	r.Post("/groups/{groupID}/process", h.ProcessGroup)
	return r
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandlerImpl_CreateGroup(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(MockService)
		id := uuid.New()
		svc.On("CreateGroup", mock.Anything, types.CreateGroupRequest{GroupName: "Crew", Destination: "Goa", CreatorEmail: "asha@example.com"}).
			Return(&types.Group{ID: id, Name: "Crew"}, nil).Once()

		rr := httptest.NewRecorder()
		groupRouter(svc).ServeHTTP(rr, jsonRequest(http.MethodPost, "/groups",
			`{"group_name":"Crew","destination":"Goa","creator_email":"asha@example.com"}`))

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), id.String())
	})

	t.Run("unknown creator", func(t *testing.T) {
		svc := new(MockService)
		svc.On("CreateGroup", mock.Anything, mock.Anything).
			Return(nil, types.NotFoundError(types.CodeCreatorNotFound, "creator not found")).Once()

		rr := httptest.NewRecorder()
		groupRouter(svc).ServeHTTP(rr, jsonRequest(http.MethodPost, "/groups", `{"group_name":"Crew","creator_email":"x@example.com"}`))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), types.CodeCreatorNotFound)
	})

	t.Run("unknown field", func(t *testing.T) {
		rr := httptest.NewRecorder()
		groupRouter(new(MockService)).ServeHTTP(rr, jsonRequest(http.MethodPost, "/groups", `{"name":"Crew"}`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHandlerImpl_AddMember(t *testing.T) {
	groupID := uuid.New()

	t.Run("already a member", func(t *testing.T) {
		svc := new(MockService)
		svc.On("AddMember", mock.Anything, groupID, types.AddMemberRequest{UserEmail: "ravi@example.com"}).
			Return(nil, types.ConflictError(types.CodeUserAlreadyInGroup, "user already in group")).Once()

		rr := httptest.NewRecorder()
		groupRouter(svc).ServeHTTP(rr, jsonRequest(http.MethodPost, "/groups/"+groupID.String()+"/members", `{"user_email":"ravi@example.com"}`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), types.CodeUserAlreadyInGroup)
	})

	t.Run("added", func(t *testing.T) {
		svc := new(MockService)
		userID := uuid.New()
		svc.On("AddMember", mock.Anything, groupID, mock.Anything).
			Return(&types.GroupMember{GroupID: groupID, UserID: userID, Role: types.RoleMember}, nil).Once()

		rr := httptest.NewRecorder()
		groupRouter(svc).ServeHTTP(rr, jsonRequest(http.MethodPost, "/groups/"+groupID.String()+"/members", `{"user_email":"ravi@example.com"}`))

		require.Equal(t, http.StatusCreated, rr.Code)
		var got types.GroupMember
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, userID, got.UserID)
		assert.Equal(t, types.RoleMember, got.Role)
	})
}

func TestHandlerImpl_GetTraits(t *testing.T) {
	groupID := uuid.New()
	summary := "Loves hikes"

	svc := new(MockService)
	svc.On("GetTraits", mock.Anything, groupID).Return(&types.GroupTraits{
		GroupID:      groupID,
		GroupName:    "Crew",
		GroupMembers: []types.MemberPersona{{PersonaTraits: json.RawMessage(`{"traits":["outdoorsy"]}`), AISummary: &summary}},
	}, nil).Once()

	rr := httptest.NewRecorder()
	groupRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/groups/"+groupID.String()+"/traits", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"group_id":"`+groupID.String()+`","group_name":"Crew","group_members":[{"persona_traits":{"traits":["outdoorsy"]},"ai_summary":"Loves hikes"}]}`, rr.Body.String())
}

func TestHandlerImpl_ProcessGroup(t *testing.T) {
	t.Run("bad id", func(t *testing.T) {
		svc := new(MockService)
		rr := httptest.NewRecorder()
		groupRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/groups/not-a-uuid/process", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "ProcessGroup", mock.Anything, mock.Anything)
	})

	t.Run("malformed model output maps to 502", func(t *testing.T) {
		svc := new(MockService)
		groupID := uuid.New()
		svc.On("ProcessGroup", mock.Anything, groupID).
			Return(nil, &types.MalformedModelOutputError{Raw: "not json", Err: assert.AnError}).Once()

		rr := httptest.NewRecorder()
		groupRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/groups/"+groupID.String()+"/process", nil))

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Contains(t, rr.Body.String(), types.CodeLLMBadResponse)
		assert.Contains(t, rr.Body.String(), "not json")
	})
}
