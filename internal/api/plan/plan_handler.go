package plan

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-group-trip-planner/internal/api"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CreatePlan(w http.ResponseWriter, r *http.Request)
	CreatePlanByGroupName(w http.ResponseWriter, r *http.Request)
	ListPlans(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, logger: logger}
}

// CreatePlan godoc
// @Summary      Generate a trip plan
// @Description  Drafts a multi-option itinerary for a processed group from the supplied activity buckets and stores it.
// @Tags         Plans
// @Accept       json
// @Produce      json
// @Param        groupID path string true "Group ID"
// @Param        body body types.CreatePlanRequest true "Activity data (short_trip, long_trip)"
// @Success      201 {object} types.TripPlan
// @Failure      400 {object} api.ErrorBody "KN_NOT_READY or invalid body"
// @Failure      404 {object} api.ErrorBody "GROUP_NOT_FOUND"
// @Failure      502 {object} api.ErrorBody "LLM_BAD_RESPONSE"
// @Router       /groups/{groupID}/plan [post]
func (h *HandlerImpl) CreatePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "CreatePlan"))

	groupID, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid group ID format")
		return
	}

	var req types.CreatePlanRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.service.CreateForGroup(ctx, groupID, types.ActivityDataFrom(req.RawData))
	if err != nil {
		api.WriteError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, plan)
}

// CreatePlanByGroupName godoc
// @Summary      Generate a trip plan by group name
// @Tags         Plans
// @Accept       json
// @Produce      json
// @Param        body body types.PlanByGroupNameRequest true "Group name and activity data"
// @Success      201 {object} types.TripPlan
// @Failure      400 {object} api.ErrorBody
// @Failure      404 {object} api.ErrorBody
// @Failure      502 {object} api.ErrorBody
// @Router       /plans/by-group-name [post]
func (h *HandlerImpl) CreatePlanByGroupName(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "CreatePlanByGroupName"))

	var req types.PlanByGroupNameRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.GroupName)
	if name == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "group_name is required")
		return
	}

	plan, err := h.service.CreateForGroupName(ctx, name, types.ActivityDataFrom(req.RawData))
	if err != nil {
		api.WriteError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, plan)
}

// ListPlans godoc
// @Summary      List a group's plans
// @Tags         Plans
// @Produce      json
// @Param        groupID path string true "Group ID"
// @Success      200 {array} types.TripPlan
// @Failure      404 {object} api.ErrorBody
// @Router       /groups/{groupID}/plans [get]
func (h *HandlerImpl) ListPlans(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid group ID format")
		return
	}

	plans, err := h.service.ListForGroup(r.Context(), groupID)
	if err != nil {
		api.WriteError(w, r, h.logger.With(slog.String("HandlerImpl", "ListPlans")), err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, plans)
}
