package group

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-group-trip-planner/internal/api"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CreateGroup(w http.ResponseWriter, r *http.Request)
	AddMember(w http.ResponseWriter, r *http.Request)
	GetTraits(w http.ResponseWriter, r *http.Request)
	ProcessGroup(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	groupService Service
	logger       *slog.Logger
}

func NewHandler(groupService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{groupService: groupService, logger: logger}
}

func parseGroupID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	groupID, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid group ID format")
		return uuid.Nil, false
	}
	return groupID, true
}

// CreateGroup godoc
// @Summary      Create a group
// @Description  Creates the group, enrols the creator and builds the group knowledge summary.
// @Tags         Groups
// @Accept       json
// @Produce      json
// @Param        group body types.CreateGroupRequest true "Group name, destination and creator email"
// @Success      201 {object} types.Group
// @Failure      400 {object} api.ErrorBody
// @Failure      404 {object} api.ErrorBody "CREATOR_NOT_FOUND"
// @Router       /groups [post]
func (h *HandlerImpl) CreateGroup(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("HandlerImpl", "CreateGroup"))

	var req types.CreateGroupRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	group, err := h.groupService.CreateGroup(r.Context(), req)
	if err != nil {
		api.WriteError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, group)
}

// AddMember godoc
// @Summary      Add a member to a group
// @Description  Enrols the user with role "member" and rebuilds the group knowledge summary.
// @Tags         Groups
// @Accept       json
// @Produce      json
// @Param        groupID path string true "Group ID"
// @Param        member body types.AddMemberRequest true "Email of the user to add"
// @Success      201 {object} types.GroupMember
// @Failure      400 {object} api.ErrorBody "USER_ALREADY_IN_GROUP"
// @Failure      404 {object} api.ErrorBody "USER_NOT_FOUND or GROUP_NOT_FOUND"
// @Router       /groups/{groupID}/members [post]
func (h *HandlerImpl) AddMember(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("HandlerImpl", "AddMember"))

	groupID, ok := parseGroupID(w, r)
	if !ok {
		return
	}

	var req types.AddMemberRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	member, err := h.groupService.AddMember(r.Context(), groupID, req)
	if err != nil {
		api.WriteError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, member)
}

// GetTraits godoc
// @Summary      Get member traits of a group
// @Tags         Groups
// @Produce      json
// @Param        groupID path string true "Group ID"
// @Success      200 {object} types.GroupTraits
// @Failure      404 {object} api.ErrorBody "GROUP_NOT_FOUND or NO_MEMBERS_FOUND"
// @Router       /groups/{groupID}/traits [get]
func (h *HandlerImpl) GetTraits(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("HandlerImpl", "GetTraits"))

	groupID, ok := parseGroupID(w, r)
	if !ok {
		return
	}

	traits, err := h.groupService.GetTraits(r.Context(), groupID)
	if err != nil {
		api.WriteError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, traits)
}

// ProcessGroup godoc
// @Summary      Rebuild the group knowledge summary
// @Tags         Groups
// @Produce      json
// @Param        groupID path string true "Group ID"
// @Success      200 {object} types.ProcessResult
// @Failure      404 {object} api.ErrorBody "GROUP_NOT_FOUND"
// @Failure      502 {object} api.ErrorBody "LLM_BAD_RESPONSE"
// @Router       /groups/{groupID}/process [post]
func (h *HandlerImpl) ProcessGroup(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("HandlerImpl", "ProcessGroup"))

	groupID, ok := parseGroupID(w, r)
	if !ok {
		return
	}

	result, err := h.groupService.ProcessGroup(r.Context(), groupID)
	if err != nil {
		api.WriteError(w, r, l, err)
		return
	}
	l.InfoContext(r.Context(), "Processing completed", slog.Bool("stale", result.Stale))
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}
