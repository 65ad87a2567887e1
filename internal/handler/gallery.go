package handler

import (
	"github.com/deppfellow/robotics-club/internal/lib/upload"
	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/deppfellow/robotics-club/internal/service"
	"github.com/deppfellow/robotics-club/internal/validation"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var (
	galleryBatchFiles  = []upload.Field{{Name: "images", MaxCount: model.MaxGalleryBatch}}
	galleryUpdateFiles = []upload.Field{{Name: "image", MaxCount: 1}}
)

type ListGalleryRequest struct {
	Category *model.GalleryCategory `query:"category" validate:"omitempty,oneof='Robotics Projects' Workshops Hackathons 'Hardware Lab' Other"`
}

func (r *ListGalleryRequest) Validate() error {
	return validation.Struct(r)
}

type GalleryIDRequest struct {
	ID uuid.UUID `param:"id" validate:"required"`
}

func (r *GalleryIDRequest) Validate() error {
	return validation.Struct(r)
}

// UploadGalleryRequest carries the shared metadata of a batch; the files
// come from the images form field.
type UploadGalleryRequest struct {
	Category model.GalleryCategory `form:"category" validate:"omitempty,oneof='Robotics Projects' Workshops Hackathons 'Hardware Lab' Other"`
	Caption  string                `form:"caption" validate:"max=500"`
}

func (r *UploadGalleryRequest) Validate() error {
	return validation.Struct(r)
}

type UpdateGalleryRequest struct {
	ID       uuid.UUID              `param:"id" json:"-" form:"-" validate:"required"`
	Category *model.GalleryCategory `json:"category" form:"category" validate:"omitempty,oneof='Robotics Projects' Workshops Hackathons 'Hardware Lab' Other"`
	Caption  *string                `json:"caption" form:"caption" validate:"omitempty,max=500"`
}

func (r *UpdateGalleryRequest) Validate() error {
	return validation.Struct(r)
}

type GalleryHandler struct {
	Handler
	gallery *service.GalleryService
}

func NewGalleryHandler(s *server.Server, gallery *service.GalleryService) *GalleryHandler {
	return &GalleryHandler{
		Handler: NewHandler(s),
		gallery: gallery,
	}
}

func (h *GalleryHandler) List(c echo.Context, req *ListGalleryRequest) ([]model.GalleryImage, error) {
	return h.gallery.List(c.Request().Context(), model.GalleryFilter{Category: req.Category})
}

func (h *GalleryHandler) Get(c echo.Context, req *GalleryIDRequest) (*model.GalleryImage, error) {
	return h.gallery.Get(c.Request().Context(), req.ID)
}

func (h *GalleryHandler) Upload(c echo.Context, req *UploadGalleryRequest) (_ []model.GalleryImage, err error) {
	files, err := h.saveUploads(c, galleryBatchFiles...)
	if err != nil {
		return nil, err
	}
	defer h.discardOnError(files, &err)

	batch := service.GalleryBatch{
		Category: req.Category,
		Caption:  req.Caption,
	}
	for _, f := range files["images"] {
		batch.Files = append(batch.Files, service.GalleryFile{URL: f.URL, IsVideo: f.IsVideo()})
	}

	return h.gallery.Create(c.Request().Context(), actor(c), batch)
}

func (h *GalleryHandler) Update(c echo.Context, req *UpdateGalleryRequest) (_ *model.GalleryImage, err error) {
	files, err := h.saveUploads(c, galleryUpdateFiles...)
	if err != nil {
		return nil, err
	}
	defer h.discardOnError(files, &err)

	patch := service.GalleryPatch{
		Category: req.Category,
		Caption:  req.Caption,
	}
	if replacement := files["image"]; len(replacement) > 0 {
		isVideo := replacement[0].IsVideo()
		patch.URL = &replacement[0].URL
		patch.IsVideo = &isVideo
	}

	return h.gallery.Update(c.Request().Context(), actor(c), req.ID, patch)
}

func (h *GalleryHandler) Delete(c echo.Context, req *GalleryIDRequest) (*model.MessageResponse, error) {
	if err := h.gallery.Delete(c.Request().Context(), actor(c), req.ID); err != nil {
		return nil, err
	}
	return message("Image deleted successfully"), nil
}
