package handler

import (
	"github.com/deppfellow/robotics-club/internal/lib/utils"
	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/deppfellow/robotics-club/internal/service"
	"github.com/deppfellow/robotics-club/internal/validation"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ListAnnouncementsRequest struct{}

func (r *ListAnnouncementsRequest) Validate() error {
	return nil
}

type AnnouncementIDRequest struct {
	ID uuid.UUID `param:"id" validate:"required"`
}

func (r *AnnouncementIDRequest) Validate() error {
	return validation.Struct(r)
}

type CreateAnnouncementRequest struct {
	Title      string                 `json:"title" validate:"required,max=200"`
	Message    string                 `json:"message" validate:"required,max=2000"`
	Type       model.AnnouncementType `json:"type" validate:"omitempty,oneof=info success warning urgent"`
	IsActive   *bool                  `json:"isActive"`
	Priority   int                    `json:"priority" validate:"min=0,max=100"`
	ExpiryDate *utils.Date            `json:"expiryDate"`
}

func (r *CreateAnnouncementRequest) Validate() error {
	return validation.Struct(r)
}

// UpdateAnnouncementRequest clears the expiry when clearExpiry is true or
// expiryDate is an empty string.
type UpdateAnnouncementRequest struct {
	ID          uuid.UUID               `param:"id" json:"-" validate:"required"`
	Title       *string                 `json:"title" validate:"omitempty,min=1,max=200"`
	Message     *string                 `json:"message" validate:"omitempty,min=1,max=2000"`
	Type        *model.AnnouncementType `json:"type" validate:"omitempty,oneof=info success warning urgent"`
	IsActive    *bool                   `json:"isActive"`
	Priority    *int                    `json:"priority" validate:"omitempty,min=0,max=100"`
	ExpiryDate  *utils.Date             `json:"expiryDate"`
	ClearExpiry bool                    `json:"clearExpiry"`
}

func (r *UpdateAnnouncementRequest) Validate() error {
	return validation.Struct(r)
}

type AnnouncementHandler struct {
	Handler
	announcements *service.AnnouncementService
}

func NewAnnouncementHandler(s *server.Server, announcements *service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{
		Handler:       NewHandler(s),
		announcements: announcements,
	}
}

func (h *AnnouncementHandler) ListActive(c echo.Context, _ *ListAnnouncementsRequest) ([]model.Announcement, error) {
	return h.announcements.ListActive(c.Request().Context())
}

func (h *AnnouncementHandler) ListAll(c echo.Context, _ *ListAnnouncementsRequest) ([]model.Announcement, error) {
	return h.announcements.ListAll(c.Request().Context())
}

func (h *AnnouncementHandler) Get(c echo.Context, req *AnnouncementIDRequest) (*model.Announcement, error) {
	return h.announcements.Get(c.Request().Context(), req.ID)
}

func (h *AnnouncementHandler) Create(c echo.Context, req *CreateAnnouncementRequest) (*model.Announcement, error) {
	a := &model.Announcement{
		Title:      req.Title,
		Message:    req.Message,
		Type:       req.Type,
		IsActive:   true,
		Priority:   req.Priority,
		ExpiryDate: req.ExpiryDate.Ptr(),
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}

	return h.announcements.Create(c.Request().Context(), actor(c), a)
}

func (h *AnnouncementHandler) Update(c echo.Context, req *UpdateAnnouncementRequest) (*model.Announcement, error) {
	patch := service.AnnouncementPatch{
		Title:       req.Title,
		Message:     req.Message,
		Type:        req.Type,
		IsActive:    req.IsActive,
		Priority:    req.Priority,
		ExpiryDate:  req.ExpiryDate.Ptr(),
		ClearExpiry: req.ClearExpiry || (req.ExpiryDate != nil && req.ExpiryDate.IsZero()),
	}

	return h.announcements.Update(c.Request().Context(), actor(c), req.ID, patch)
}

func (h *AnnouncementHandler) Delete(c echo.Context, req *AnnouncementIDRequest) (*model.MessageResponse, error) {
	if err := h.announcements.Delete(c.Request().Context(), actor(c), req.ID); err != nil {
		return nil, err
	}
	return message("Announcement deleted successfully"), nil
}
