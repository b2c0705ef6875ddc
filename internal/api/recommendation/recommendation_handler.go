package recommendation

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-group-trip-planner/internal/api"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetRecommendations(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, logger: logger}
}

// GetRecommendations godoc
// @Summary      Get trip recommendations for a group
// @Description  Runs the city-scale and wide-radius searches. When live search fails the static set is returned with provenance "fallback".
// @Tags         Recommendations
// @Produce      json
// @Param        groupID path string true "Group ID"
// @Param        destination query string false "Overrides the group's destination"
// @Success      200 {object} types.Recommendations
// @Failure      400 {object} api.ErrorBody "KN_NOT_READY"
// @Failure      404 {object} api.ErrorBody "GROUP_NOT_FOUND"
// @Router       /groups/{groupID}/recommendations [get]
func (h *HandlerImpl) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("HandlerImpl", "GetRecommendations"))

	groupID, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid group ID format")
		return
	}

	recs, err := h.service.Recommend(r.Context(), groupID, r.URL.Query().Get("destination"))
	if err != nil {
		api.WriteError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, recs)
}
