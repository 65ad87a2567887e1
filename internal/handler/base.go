package handler

import (
	"reflect"
	"strings"
	"time"

	"github.com/deppfellow/robotics-club/internal/errs"
	"github.com/deppfellow/robotics-club/internal/lib/upload"
	"github.com/deppfellow/robotics-club/internal/lib/utils"
	"github.com/deppfellow/robotics-club/internal/middleware"
	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/deppfellow/robotics-club/internal/service"
	"github.com/deppfellow/robotics-club/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler holds the dependencies shared by every concrete handler.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint. Req is a pointer to a request struct
// that Handle allocates, binds and validates for every request.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// newRequest allocates the struct Req points to. Sharing one value between
// requests would leak fields from one caller into the next.
func newRequest[Req validation.Validatable]() Req {
	var zero Req
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface().(Req)
	}
	return zero
}

// handleRequest binds and validates the request, runs handler and writes the
// result as JSON with status. Timings and failures go to the request logger
// and the New Relic transaction.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (any, error),
	status int,
) error {
	start := time.Now()
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", "handler").
		Str("method", c.Request().Method).
		Str("route", route).
		Logger()

	logger.Debug().Msg("handling request")

	validationStart := time.Now()
	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}
		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		logger.Warn().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", time.Since(start).Milliseconds())
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed successfully")

	return c.JSON(status, result)
}

// Handle wraps a typed handler for registration on a route:
//
//	g.POST("/events", handler.Handle(h.Events.Create, http.StatusCreated))
func Handle[Req validation.Validatable, Res any](handler HandlerFunc[Req, Res], status int) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest[Req](), func(c echo.Context, req Req) (any, error) {
			return handler(c, req)
		}, status)
	}
}

// actor is the authenticated user as seen by the services. Routes using it
// sit behind RequireAuth.
func actor(c echo.Context) service.Actor {
	user := middleware.GetUser(c)
	if user == nil {
		return service.Actor{}
	}
	return service.ActorFrom(user)
}

// saveUploads stores the files of a multipart request. JSON requests yield
// an empty result.
func (h Handler) saveUploads(c echo.Context, fields ...upload.Field) (upload.Result, error) {
	form := c.Request().MultipartForm
	if form == nil && strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		var err error
		if form, err = c.MultipartForm(); err != nil {
			return nil, errs.NewBadRequestError("Invalid multipart form", true, nil, nil, nil)
		}
	}
	return h.server.Uploads.Save(form, fields...)
}

// discardOnError removes stored files when the write they belong to failed.
//
//	defer h.discardOnError(files, &err)
func (h Handler) discardOnError(files upload.Result, err *error) {
	if *err != nil {
		h.server.Uploads.Discard(files)
	}
}

func message(text string) *model.MessageResponse {
	return &model.MessageResponse{Message: text}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// fileOr prefers a freshly uploaded file URL over the submitted field.
func fileOr(uploaded string, field *string) *string {
	if uploaded != "" {
		return &uploaded
	}
	return field
}

// jsonValue unwraps an optional JSON form field.
func jsonValue[T any](j *utils.JSON[T]) *T {
	if j == nil {
		return nil
	}
	return &j.Value
}
