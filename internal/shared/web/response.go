package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/shared/response"
)

// FieldErrors maps form field names to a user facing message.
type FieldErrors map[string]string

// Response is what a page handler produces: a rendered view, a redirect,
// a validation failure or an error status.
type Response struct {
	Status   int
	View     string
	Data     any
	Location string
	Errors   FieldErrors
	Message  string
	Err      error
	Cookies  []*http.Cookie
}

type HandlerFunc func(ctx context.Context, req *Request) Response

func Render(view string, data any) Response {
	return Response{Status: http.StatusOK, View: view, Data: data}
}

func Redirect(location string) Response {
	return Response{Status: http.StatusFound, Location: location}
}

func NotFound(message string) Response {
	return Response{Status: http.StatusNotFound, Message: message}
}

func Invalid(view string, errs FieldErrors, data any) Response {
	return Response{Status: http.StatusBadRequest, View: view, Errors: errs, Data: data}
}

func MethodNotAllowed() Response {
	return Response{Status: http.StatusMethodNotAllowed}
}

func Failure(err error) Response {
	return Response{Status: http.StatusInternalServerError, Err: err}
}

func (r Response) WithCookie(cookie *http.Cookie) Response {
	r.Cookies = append(r.Cookies, cookie)
	return r
}

func (r Response) IsRedirect() bool {
	return r.Location != ""
}

// FieldErrorsFrom flattens ozzo validation errors into FieldErrors.
func FieldErrorsFrom(err error) (FieldErrors, bool) {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	out := make(FieldErrors, len(verrs))
	for field, ferr := range verrs {
		if ferr != nil {
			out[field] = ferr.Error()
		}
	}
	return out, true
}

// Handle adapts a page handler to gin.
func Handle(fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := NewRequest(c)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn().Int64("limit", tooLarge.Limit).Str("path", c.Request.URL.Path).Msg("Request body too large")
			response.ErrorResponse(c, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE", "Request body too large")
			return
		}
		if err != nil {
			log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("Malformed request body")
			response.BadRequest(c, "Malformed form data")
			return
		}

		Write(c, fn(c.Request.Context(), req))
	}
}

func Write(c *gin.Context, r Response) {
	for _, cookie := range r.Cookies {
		http.SetCookie(c.Writer, cookie)
	}

	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}

	switch {
	case r.IsRedirect():
		if status < http.StatusMultipleChoices || status > http.StatusPermanentRedirect {
			status = http.StatusFound
		}
		c.Redirect(status, r.Location)
	case status == http.StatusNotFound:
		message := r.Message
		if message == "" {
			message = "Not found"
		}
		response.NotFound(c, message)
	case status == http.StatusMethodNotAllowed:
		response.MethodNotAllowed(c)
	case status == http.StatusBadRequest && r.Errors != nil:
		response.ValidationError(c, r.View, r.Errors, r.Data)
	case status >= http.StatusInternalServerError:
		log.Error().Err(r.Err).Str("path", c.Request.URL.Path).Msg("Request failed")
		response.InternalServerError(c, "Internal server error")
	default:
		response.Page(c, status, r.View, r.Data)
	}
}
