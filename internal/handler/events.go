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

var eventFiles = []upload.Field{
	{Name: "banner", MaxCount: 1},
	{Name: "schedulePDF", MaxCount: 1},
}

type ListEventsRequest struct {
	Type     *model.EventType `query:"type" validate:"omitempty,oneof=Workshop Hackathon Competition 'Guest Lecture'"`
	Upcoming *bool            `query:"upcoming"`
}

func (r *ListEventsRequest) Validate() error {
	return validation.Struct(r)
}

type EventIDRequest struct {
	ID uuid.UUID `param:"id" validate:"required"`
}

func (r *EventIDRequest) Validate() error {
	return validation.Struct(r)
}

// CreateEventRequest accepts JSON or multipart. Uploaded banner and
// schedulePDF files take precedence over URLs sent as fields. A field URL
// under /uploads/ must be the row's current file.
type CreateEventRequest struct {
	Title            string          `json:"title" form:"title" validate:"required,max=200"`
	Description      string          `json:"description" form:"description" validate:"required"`
	Date             *utils.Date     `json:"date" form:"date" validate:"required"`
	EndDate          *utils.Date     `json:"endDate" form:"endDate"`
	Type             model.EventType `json:"type" form:"type" validate:"required,oneof=Workshop Hackathon Competition 'Guest Lecture'"`
	Banner           string          `json:"banner" form:"banner"`
	SchedulePDF      string          `json:"schedulePDF" form:"schedulePDF"`
	RegistrationLink string          `json:"registrationLink" form:"registrationLink" validate:"omitempty,url"`
	Venue            string          `json:"venue" form:"venue" validate:"max=300"`
	IsUpcoming       *bool           `json:"isUpcoming" form:"isUpcoming"`
}

func (r *CreateEventRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.EndDate.Ptr() != nil && r.EndDate.Before(r.Date.Time) {
		return validation.CustomValidationErrors{{Field: "endDate", Message: "must not be before date"}}
	}
	return nil
}

type UpdateEventRequest struct {
	ID               uuid.UUID        `param:"id" json:"-" form:"-" validate:"required"`
	Title            *string          `json:"title" form:"title" validate:"omitempty,min=1,max=200"`
	Description      *string          `json:"description" form:"description" validate:"omitempty,min=1"`
	Date             *utils.Date      `json:"date" form:"date"`
	EndDate          *utils.Date      `json:"endDate" form:"endDate"`
	Type             *model.EventType `json:"type" form:"type" validate:"omitempty,oneof=Workshop Hackathon Competition 'Guest Lecture'"`
	Banner           *string          `json:"banner" form:"banner"`
	SchedulePDF      *string          `json:"schedulePDF" form:"schedulePDF"`
	RegistrationLink *string          `json:"registrationLink" form:"registrationLink" validate:"omitempty,url"`
	Venue            *string          `json:"venue" form:"venue" validate:"omitempty,max=300"`
	IsUpcoming       *bool            `json:"isUpcoming" form:"isUpcoming"`
}

func (r *UpdateEventRequest) Validate() error {
	return validation.Struct(r)
}

type EventHandler struct {
	Handler
	events *service.EventService
}

func NewEventHandler(s *server.Server, events *service.EventService) *EventHandler {
	return &EventHandler{
		Handler: NewHandler(s),
		events:  events,
	}
}

func (h *EventHandler) List(c echo.Context, req *ListEventsRequest) ([]model.Event, error) {
	return h.events.List(c.Request().Context(), model.EventFilter{
		Type:     req.Type,
		Upcoming: req.Upcoming,
	})
}

func (h *EventHandler) Get(c echo.Context, req *EventIDRequest) (*model.Event, error) {
	return h.events.Get(c.Request().Context(), req.ID)
}

func (h *EventHandler) Create(c echo.Context, req *CreateEventRequest) (_ *model.Event, err error) {
	files, err := h.saveUploads(c, eventFiles...)
	if err != nil {
		return nil, err
	}
	defer h.discardOnError(files, &err)

	event := &model.Event{
		Title:            req.Title,
		Description:      req.Description,
		Date:             req.Date.Time,
		EndDate:          req.EndDate.Ptr(),
		Type:             req.Type,
		Banner:           firstNonEmpty(files.URL("banner"), req.Banner),
		SchedulePDF:      firstNonEmpty(files.URL("schedulePDF"), req.SchedulePDF),
		RegistrationLink: req.RegistrationLink,
		Venue:            req.Venue,
		IsUpcoming:       true,
	}
	if req.IsUpcoming != nil {
		event.IsUpcoming = *req.IsUpcoming
	}

	return h.events.Create(c.Request().Context(), actor(c), event, files.All()...)
}

func (h *EventHandler) Update(c echo.Context, req *UpdateEventRequest) (_ *model.Event, err error) {
	files, err := h.saveUploads(c, eventFiles...)
	if err != nil {
		return nil, err
	}
	defer h.discardOnError(files, &err)

	patch := service.EventPatch{
		Title:            req.Title,
		Description:      req.Description,
		Date:             req.Date.Ptr(),
		EndDate:          req.EndDate.Ptr(),
		Type:             req.Type,
		Banner:           fileOr(files.URL("banner"), req.Banner),
		SchedulePDF:      fileOr(files.URL("schedulePDF"), req.SchedulePDF),
		RegistrationLink: req.RegistrationLink,
		Venue:            req.Venue,
		IsUpcoming:       req.IsUpcoming,
		Uploaded:         files.All(),
	}

	return h.events.Update(c.Request().Context(), actor(c), req.ID, patch)
}

func (h *EventHandler) Delete(c echo.Context, req *EventIDRequest) (*model.MessageResponse, error) {
	if err := h.events.Delete(c.Request().Context(), actor(c), req.ID); err != nil {
		return nil, err
	}
	return message("Event deleted successfully"), nil
}
