package handler

import (
	"github.com/deppfellow/robotics-club/internal/middleware"
	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/deppfellow/robotics-club/internal/service"
	"github.com/deppfellow/robotics-club/internal/validation"
	"github.com/labstack/echo/v4"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30,alphanumunicode"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (r *RegisterRequest) Validate() error {
	return validation.Struct(r)
}

// LoginRequest takes the email field for compatibility with existing
// clients; a username works too.
type LoginRequest struct {
	Email    string `json:"email" validate:"required_without=Username,max=254"`
	Username string `json:"username" validate:"max=30"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validation.Struct(r)
}

func (r *LoginRequest) login() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

type MeRequest struct{}

func (r *MeRequest) Validate() error {
	return nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

func (r *ChangePasswordRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.CurrentPassword == r.NewPassword {
		return validation.CustomValidationErrors{{Field: "newPassword", Message: "must differ from the current password"}}
	}
	return nil
}

// UpdateProfileRequest is multipart; profilePicture is a file field.
type UpdateProfileRequest struct {
	Username *string `json:"username" form:"username" validate:"omitempty,min=3,max=30,alphanumunicode"`
	Email    *string `json:"email" form:"email" validate:"omitempty,email,max=254"`
}

func (r *UpdateProfileRequest) Validate() error {
	return validation.Struct(r)
}

type AuthHandler struct {
	Handler
	auth *service.AuthService
}

func NewAuthHandler(s *server.Server, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{
		Handler: NewHandler(s),
		auth:    auth,
	}
}

func (h *AuthHandler) Register(c echo.Context, req *RegisterRequest) (*model.AuthResponse, error) {
	return h.auth.Register(c.Request().Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
}

func (h *AuthHandler) Login(c echo.Context, req *LoginRequest) (*model.AuthResponse, error) {
	return h.auth.Login(c.Request().Context(), req.login(), req.Password)
}

func (h *AuthHandler) Me(c echo.Context, _ *MeRequest) (*model.User, error) {
	return middleware.GetUser(c), nil
}

func (h *AuthHandler) ChangePassword(c echo.Context, req *ChangePasswordRequest) (*model.MessageResponse, error) {
	if err := h.auth.ChangePassword(c.Request().Context(), middleware.GetUser(c), req.CurrentPassword, req.NewPassword); err != nil {
		return nil, err
	}
	return message("Password updated successfully"), nil
}

func (h *AuthHandler) UpdateProfile(c echo.Context, req *UpdateProfileRequest) (_ *model.User, err error) {
	patch := service.ProfilePatch{
		Username: req.Username,
		Email:    req.Email,
	}

	if fh, ferr := c.FormFile("profilePicture"); ferr == nil {
		var url string
		if url, err = h.server.Uploads.SaveProfilePicture(fh); err != nil {
			return nil, err
		}
		defer func() {
			if err != nil {
				_ = h.server.Uploads.Remove(url)
			}
		}()
		patch.ProfilePicture = &url
	}

	return h.auth.UpdateProfile(c.Request().Context(), middleware.GetUser(c), patch)
}
