package user

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kanworks/kanapi/internal/api"
	"github.com/kanworks/kanapi/internal/types"
)

type UserHandler struct {
	service UserService
	logger  *slog.Logger
}

func NewUserHandler(service UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

// CreateUser registers a new user account.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateUser"))

	var params types.CreateUserParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.CreateUser(ctx, params)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			api.ErrorResponse(w, r, http.StatusBadRequest, "username, email and password are required")
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "username or email already exists")
		default:
			l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Error creating user")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, user)
}
