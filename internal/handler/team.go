package handler

import (
	"github.com/deppfellow/robotics-club/internal/errs"
	"github.com/deppfellow/robotics-club/internal/lib/upload"
	"github.com/deppfellow/robotics-club/internal/lib/utils"
	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/deppfellow/robotics-club/internal/service"
	"github.com/deppfellow/robotics-club/internal/validation"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var teamFiles = []upload.Field{{Name: "image", MaxCount: 1}}

type ListTeamRequest struct {
	Category *model.TeamCategory `query:"category" validate:"omitempty,oneof=Core Mentor Technical Design"`
}

func (r *ListTeamRequest) Validate() error {
	return validation.Struct(r)
}

type TeamIDRequest struct {
	ID uuid.UUID `param:"id" validate:"required"`
}

func (r *TeamIDRequest) Validate() error {
	return validation.Struct(r)
}

type CreateTeamMemberRequest struct {
	Name        string                             `json:"name" form:"name" validate:"required,max=100"`
	Role        string                             `json:"role" form:"role" validate:"required,max=100"`
	Category    model.TeamCategory                 `json:"category" form:"category" validate:"required,oneof=Core Mentor Technical Design"`
	Image       string                             `json:"image" form:"image"`
	Bio         string                             `json:"bio" form:"bio" validate:"max=2000"`
	SocialLinks *utils.JSON[model.TeamSocialLinks] `json:"socialLinks" form:"socialLinks"`
	Order       int                                `json:"order" form:"order"`
}

func (r *CreateTeamMemberRequest) Validate() error {
	return validation.Struct(r)
}

type UpdateTeamMemberRequest struct {
	ID          uuid.UUID                          `param:"id" json:"-" form:"-" validate:"required"`
	Name        *string                            `json:"name" form:"name" validate:"omitempty,min=1,max=100"`
	Role        *string                            `json:"role" form:"role" validate:"omitempty,min=1,max=100"`
	Category    *model.TeamCategory                `json:"category" form:"category" validate:"omitempty,oneof=Core Mentor Technical Design"`
	Image       *string                            `json:"image" form:"image"`
	Bio         *string                            `json:"bio" form:"bio" validate:"omitempty,max=2000"`
	SocialLinks *utils.JSON[model.TeamSocialLinks] `json:"socialLinks" form:"socialLinks"`
	Order       *int                               `json:"order" form:"order"`
}

func (r *UpdateTeamMemberRequest) Validate() error {
	return validation.Struct(r)
}

type TeamHandler struct {
	Handler
	team *service.TeamService
}

func NewTeamHandler(s *server.Server, team *service.TeamService) *TeamHandler {
	return &TeamHandler{
		Handler: NewHandler(s),
		team:    team,
	}
}

func (h *TeamHandler) List(c echo.Context, req *ListTeamRequest) ([]model.TeamMember, error) {
	return h.team.List(c.Request().Context(), model.TeamFilter{Category: req.Category})
}

func (h *TeamHandler) Get(c echo.Context, req *TeamIDRequest) (*model.TeamMember, error) {
	return h.team.Get(c.Request().Context(), req.ID)
}

func (h *TeamHandler) Create(c echo.Context, req *CreateTeamMemberRequest) (_ *model.TeamMember, err error) {
	files, err := h.saveUploads(c, teamFiles...)
	if err != nil {
		return nil, err
	}
	defer h.discardOnError(files, &err)

	image := firstNonEmpty(files.URL("image"), req.Image)
	if image == "" {
		return nil, errs.NewBadRequestError("Image is required", true, nil,
			[]errs.FieldError{{Field: "image", Error: "is required"}}, nil)
	}

	member := &model.TeamMember{
		Name:     req.Name,
		Role:     req.Role,
		Category: req.Category,
		Image:    image,
		Bio:      req.Bio,
		Order:    req.Order,
	}
	if links := jsonValue(req.SocialLinks); links != nil {
		member.SocialLinks = *links
	}

	return h.team.Create(c.Request().Context(), actor(c), member, files.All()...)
}

func (h *TeamHandler) Update(c echo.Context, req *UpdateTeamMemberRequest) (_ *model.TeamMember, err error) {
	files, err := h.saveUploads(c, teamFiles...)
	if err != nil {
		return nil, err
	}
	defer h.discardOnError(files, &err)

	return h.team.Update(c.Request().Context(), actor(c), req.ID, service.TeamPatch{
		Name:        req.Name,
		Role:        req.Role,
		Category:    req.Category,
		Image:       fileOr(files.URL("image"), req.Image),
		Bio:         req.Bio,
		SocialLinks: jsonValue(req.SocialLinks),
		Order:       req.Order,
		Uploaded:    files.All(),
	})
}

func (h *TeamHandler) Delete(c echo.Context, req *TeamIDRequest) (*model.MessageResponse, error) {
	if err := h.team.Delete(c.Request().Context(), actor(c), req.ID); err != nil {
		return nil, err
	}
	return message("Team member deleted successfully"), nil
}
