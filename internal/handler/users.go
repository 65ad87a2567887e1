package handler

import (
	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/deppfellow/robotics-club/internal/service"
	"github.com/deppfellow/robotics-club/internal/validation"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ListUsersRequest struct{}

func (r *ListUsersRequest) Validate() error {
	return nil
}

type UserIDRequest struct {
	ID uuid.UUID `param:"id" validate:"required"`
}

func (r *UserIDRequest) Validate() error {
	return validation.Struct(r)
}

type UpdateRoleRequest struct {
	ID   uuid.UUID  `param:"id" json:"-" validate:"required"`
	Role model.Role `json:"role" validate:"required,oneof=Admin Editor Member"`
}

func (r *UpdateRoleRequest) Validate() error {
	return validation.Struct(r)
}

type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

func (h *UserHandler) List(c echo.Context, _ *ListUsersRequest) ([]model.User, error) {
	return h.users.List(c.Request().Context())
}

func (h *UserHandler) UpdateRole(c echo.Context, req *UpdateRoleRequest) (*model.User, error) {
	return h.users.UpdateRole(c.Request().Context(), actor(c), req.ID, req.Role)
}

func (h *UserHandler) Delete(c echo.Context, req *UserIDRequest) (*model.MessageResponse, error) {
	if err := h.users.Delete(c.Request().Context(), actor(c), req.ID); err != nil {
		return nil, err
	}
	return message("User deleted successfully"), nil
}
