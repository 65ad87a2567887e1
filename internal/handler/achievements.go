package handler

import (
	"github.com/deppfellow/robotics-club/internal/lib/upload"
	"github.com/deppfellow/robotics-club/internal/lib/utils"
	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/deppfellow/robotics-club/internal/service"
	"github.com/deppfellow/robotics-club/internal/validation"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var achievementFiles = []upload.Field{
	{Name: "images", MaxCount: model.MaxAchievementImages},
	{Name: "certificates", MaxCount: model.MaxAchievementCertificates},
}

type ListAchievementsRequest struct {
	Category *model.AchievementCategory `query:"category" validate:"omitempty,oneof=Award Competition Project Publication"`
}

func (r *ListAchievementsRequest) Validate() error {
	return validation.Struct(r)
}

type AchievementIDRequest struct {
	ID uuid.UUID `param:"id" validate:"required"`
}

func (r *AchievementIDRequest) Validate() error {
	return validation.Struct(r)
}

type CreateAchievementRequest struct {
	Title         string                             `json:"title" form:"title" validate:"required,max=200"`
	Description   string                             `json:"description" form:"description" validate:"required"`
	Date          *utils.Date                        `json:"date" form:"date" validate:"required"`
	Category      model.AchievementCategory          `json:"category" form:"category" validate:"required,oneof=Award Competition Project Publication"`
	ExternalLinks *utils.JSON[[]model.ExternalLink] `json:"externalLinks" form:"externalLinks"`
}

func (r *CreateAchievementRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	return validateLinks(jsonValue(r.ExternalLinks))
}

type UpdateAchievementRequest struct {
	ID            uuid.UUID                          `param:"id" json:"-" form:"-" validate:"required"`
	Title         *string                            `json:"title" form:"title" validate:"omitempty,min=1,max=200"`
	Description   *string                            `json:"description" form:"description" validate:"omitempty,min=1"`
	Date          *utils.Date                        `json:"date" form:"date"`
	Category      *model.AchievementCategory         `json:"category" form:"category" validate:"omitempty,oneof=Award Competition Project Publication"`
	ExternalLinks *utils.JSON[[]model.ExternalLink] `json:"externalLinks" form:"externalLinks"`
}

func (r *UpdateAchievementRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	return validateLinks(jsonValue(r.ExternalLinks))
}

func validateLinks(links *[]model.ExternalLink) error {
	if links == nil {
		return nil
	}
	for _, link := range *links {
		if err := validation.Struct(&link); err != nil {
			return err
		}
	}
	return nil
}

type AchievementHandler struct {
	Handler
	achievements *service.AchievementService
}

func NewAchievementHandler(s *server.Server, achievements *service.AchievementService) *AchievementHandler {
	return &AchievementHandler{
		Handler:      NewHandler(s),
		achievements: achievements,
	}
}

func (h *AchievementHandler) List(c echo.Context, req *ListAchievementsRequest) ([]model.Achievement, error) {
	return h.achievements.List(c.Request().Context(), model.AchievementFilter{Category: req.Category})
}

func (h *AchievementHandler) Get(c echo.Context, req *AchievementIDRequest) (*model.Achievement, error) {
	return h.achievements.Get(c.Request().Context(), req.ID)
}

func (h *AchievementHandler) Create(c echo.Context, req *CreateAchievementRequest) (_ *model.Achievement, err error) {
	files, err := h.saveUploads(c, achievementFiles...)
	if err != nil {
		return nil, err
	}
	defer h.discardOnError(files, &err)

	a := &model.Achievement{
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date.Time,
		Category:     req.Category,
		Images:       files.URLs("images"),
		Certificates: files.URLs("certificates"),
	}
	if links := jsonValue(req.ExternalLinks); links != nil {
		a.ExternalLinks = *links
	}

	return h.achievements.Create(c.Request().Context(), actor(c), a)
}

// Update appends newly uploaded images and certificates to the stored ones.
func (h *AchievementHandler) Update(c echo.Context, req *UpdateAchievementRequest) (_ *model.Achievement, err error) {
	files, err := h.saveUploads(c, achievementFiles...)
	if err != nil {
		return nil, err
	}
	defer h.discardOnError(files, &err)

	return h.achievements.Update(c.Request().Context(), actor(c), req.ID, service.AchievementPatch{
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date.Ptr(),
		Category:        req.Category,
		ExternalLinks:   jsonValue(req.ExternalLinks),
		NewImages:       files.URLs("images"),
		NewCertificates: files.URLs("certificates"),
	})
}

func (h *AchievementHandler) Delete(c echo.Context, req *AchievementIDRequest) (*model.MessageResponse, error) {
	if err := h.achievements.Delete(c.Request().Context(), actor(c), req.ID); err != nil {
		return nil, err
	}
	return message("Achievement deleted successfully"), nil
}
