package user

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/FACorreiaa/go-group-trip-planner/internal/api"
	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CreateUser(w http.ResponseWriter, r *http.Request)
	GetUserInfo(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	userService Service
	logger      *slog.Logger
}

func NewHandler(userService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		userService: userService,
		logger:      logger,
	}
}

// CreateUser godoc
// @Summary      Create a user
// @Description  Profiles the questionnaire answers into persona traits and stores the user.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        user body types.CreateUserRequest true "Email, name and questionnaire answers"
// @Success      201 {object} types.User
// @Failure      400 {object} api.ErrorBody "USER_ALREADY_EXISTS"
// @Failure      502 {object} api.ErrorBody "LLM_BAD_RESPONSE"
// @Router       /users [post]
func (h *HandlerImpl) CreateUser(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("HandlerImpl", "CreateUser"))

	var req types.CreateUserRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(r.Context(), "Invalid create user body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.userService.Create(r.Context(), req)
	if err != nil {
		api.WriteError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, user)
}

// GetUserInfo godoc
// @Summary      Get a user with their groups
// @Description  Returns the user, every group they belong to, its members and stored plans.
// @Tags         Users
// @Produce      json
// @Param        email query string true "User email address"
// @Success      200 {object} types.UserInfo
// @Failure      404 {object} api.ErrorBody "USER_NOT_FOUND"
// @Router       /users/info [get]
func (h *HandlerImpl) GetUserInfo(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("HandlerImpl", "GetUserInfo"))

	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "email query parameter is required")
		return
	}

	info, err := h.userService.Info(r.Context(), email)
	if err != nil {
		api.WriteError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, info)
}
