package handler

import (
	"github.com/deppfellow/robotics-club/internal/lib/upload"
	"github.com/deppfellow/robotics-club/internal/lib/utils"
	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/deppfellow/robotics-club/internal/service"
	"github.com/deppfellow/robotics-club/internal/validation"
	"github.com/labstack/echo/v4"
)

var (
	homeFiles     = []upload.Field{{Name: "heroBackground", MaxCount: 1}}
	settingsFiles = []upload.Field{{Name: "logo", MaxCount: 1}}
)

type GetSingletonRequest struct{}

func (r *GetSingletonRequest) Validate() error {
	return nil
}

// UpdateHomeRequest accepts JSON or multipart; stats and model3DSettings may
// be JSON text inside a multipart form.
type UpdateHomeRequest struct {
	HeroTitle       *string                             `json:"heroTitle" form:"heroTitle" validate:"omitempty,max=200"`
	HeroSubtitle    *string                             `json:"heroSubtitle" form:"heroSubtitle" validate:"omitempty,max=500"`
	HeroBackground  *string                             `json:"heroBackground" form:"heroBackground"`
	Stats           *utils.JSON[model.HomeStats]        `json:"stats" form:"stats"`
	Model3DSettings *utils.JSON[model.Model3DSettings] `json:"model3DSettings" form:"model3DSettings"`
}

func (r *UpdateHomeRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if stats := jsonValue(r.Stats); stats != nil {
		if stats.Members < 0 || stats.Projects < 0 || stats.Awards < 0 || stats.Workshops < 0 {
			return validation.CustomValidationErrors{{Field: "stats", Message: "must not be negative"}}
		}
	}
	return nil
}

type UpdateSettingsRequest struct {
	ClubName    *string                             `json:"clubName" form:"clubName" validate:"omitempty,min=1,max=100"`
	Logo        *string                             `json:"logo" form:"logo"`
	ThemeColors *utils.JSON[model.ThemeColors]     `json:"themeColors" form:"themeColors"`
	SocialLinks *utils.JSON[model.SiteSocialLinks] `json:"socialLinks" form:"socialLinks"`
	ContactInfo *utils.JSON[model.ContactInfo]     `json:"contactInfo" form:"contactInfo"`
}

func (r *UpdateSettingsRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if colors := jsonValue(r.ThemeColors); colors != nil {
		return validation.Struct(colors)
	}
	return nil
}

type SiteHandler struct {
	Handler
	home     *service.HomeService
	settings *service.SettingsService
}

func NewSiteHandler(s *server.Server, home *service.HomeService, settings *service.SettingsService) *SiteHandler {
	return &SiteHandler{
		Handler:  NewHandler(s),
		home:     home,
		settings: settings,
	}
}

func (h *SiteHandler) GetHome(c echo.Context, _ *GetSingletonRequest) (*model.HomeContent, error) {
	return h.home.Get(c.Request().Context())
}

func (h *SiteHandler) UpdateHome(c echo.Context, req *UpdateHomeRequest) (_ *model.HomeContent, err error) {
	files, err := h.saveUploads(c, homeFiles...)
	if err != nil {
		return nil, err
	}
	defer h.discardOnError(files, &err)

	return h.home.Update(c.Request().Context(), service.HomePatch{
		HeroTitle:       req.HeroTitle,
		HeroSubtitle:    req.HeroSubtitle,
		HeroBackground:  fileOr(files.URL("heroBackground"), req.HeroBackground),
		Stats:           jsonValue(req.Stats),
		Model3DSettings: jsonValue(req.Model3DSettings),
		Uploaded:        files.All(),
	})
}

func (h *SiteHandler) GetSettings(c echo.Context, _ *GetSingletonRequest) (*model.Settings, error) {
	return h.settings.Get(c.Request().Context())
}

func (h *SiteHandler) UpdateSettings(c echo.Context, req *UpdateSettingsRequest) (_ *model.Settings, err error) {
	files, err := h.saveUploads(c, settingsFiles...)
	if err != nil {
		return nil, err
	}
	defer h.discardOnError(files, &err)

	return h.settings.Update(c.Request().Context(), service.SettingsPatch{
		ClubName:    req.ClubName,
		Logo:        fileOr(files.URL("logo"), req.Logo),
		ThemeColors: jsonValue(req.ThemeColors),
		SocialLinks: jsonValue(req.SocialLinks),
		ContactInfo: jsonValue(req.ContactInfo),
		Uploaded:    files.All(),
	})
}
