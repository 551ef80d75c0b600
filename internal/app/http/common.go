package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/wot-oss/resx/internal/app/http/server"
	"github.com/wot-oss/resx/internal/commands"
	"github.com/wot-oss/resx/internal/model"
	"github.com/wot-oss/resx/internal/utils"
)

const (
	error400Title  = "Bad Request"
	error401Title  = "Unauthorized"
	error404Title  = "Not Found"
	error422Title  = "Unprocessable Entity"
	error500Title  = "Internal Server Error"
	error500Detail = "An unhandled error has occurred. Try again later. If it is a bug we already recorded it. Retrying will most likely not help"
	error502Title  = "Bad Gateway"
	error503Title  = "Service Unavailable"

	HeaderAuthorization       = "Authorization"
	HeaderContentType         = "Content-Type"
	HeaderCacheControl        = "Cache-Control"
	HeaderXContentTypeOptions = "X-Content-Type-Options"
	MimeJSON                  = "application/json"
	MimeProblemJSON           = "application/problem+json"
	NoSniff                   = "nosniff"
	NoCache                   = "no-cache, no-store, max-age=0, must-revalidate"
)

func HandleJsonResponse(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	body, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		HandleErrorResponse(w, r, err)
		return
	}

	w.Header().Set(HeaderContentType, MimeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func HandleByteResponse(w http.ResponseWriter, r *http.Request, status int, mime string, data []byte) {
	w.Header().Set(HeaderContentType, mime)
	w.Header().Set(HeaderXContentTypeOptions, NoSniff)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func HandleHealthyResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(HeaderCacheControl, NoCache)
	w.WriteHeader(http.StatusNoContent)
	_, _ = w.Write(nil)
}

// HandleErrorResponse writes err as problem details. Errors of the container are mapped to status codes: missing
// entries to 404, values which cannot be materialized to 422 and unreadable containers to 502.
func HandleErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	errTitle := error500Title
	errDetail := error500Detail
	errStatus := http.StatusInternalServerError

	var sErr *BaseHttpError
	switch {
	case errors.As(err, &sErr):
		errTitle = sErr.Title
		errDetail = sErr.Detail
		errStatus = sErr.Status
	case errors.Is(err, model.ErrEntryNotFound):
		errTitle = error404Title
		errDetail = err.Error()
		errStatus = http.StatusNotFound
	case errors.Is(err, commands.ErrInvalidArgs):
		errTitle = error400Title
		errDetail = err.Error()
		errStatus = http.StatusBadRequest
	case errors.Is(err, &model.TypeResolutionError{}), errors.Is(err, &model.ConversionError{}):
		errTitle = error422Title
		errDetail = err.Error()
		errStatus = http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrInvalidFormat):
		errTitle = error502Title
		errDetail = err.Error()
		errStatus = http.StatusBadGateway
	default:
		switch err.(type) {
		case *server.InvalidParamFormatError, *server.RequiredParamError, *server.RequiredHeaderError,
			*server.UnmarshalingParamError, *server.TooManyValuesForParamError, *server.UnescapedCookieParamError:
			errTitle = error400Title
			errDetail = err.Error()
			errStatus = http.StatusBadRequest
		default:
		}
	}
	if errStatus >= http.StatusInternalServerError {
		utils.GetLogger(r.Context(), "http.HandleErrorResponse").Error("request failed", "path", r.URL.Path, "error", err)
	}

	problem := server.ErrorResponse{
		Title:    errTitle,
		Detail:   &errDetail,
		Status:   errStatus,
		Instance: &r.RequestURI,
	}

	respBody, _ := json.MarshalIndent(problem, "", "  ")
	w.Header().Set(HeaderContentType, MimeProblemJSON)
	w.Header().Set(HeaderXContentTypeOptions, NoSniff)
	w.WriteHeader(errStatus)
	_, _ = w.Write(respBody)
}

type BaseHttpError struct {
	Status int
	Title  string
	Detail string
	Err    error
}

func (e *BaseHttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s: %s", e.Status, e.Detail, e.Err.Error())
	} else {
		return fmt.Sprintf("%d: %s", e.Status, e.Detail)
	}
}

func (e *BaseHttpError) Unwrap() error {
	return e.Err
}

func NewNotFoundError(err error, detail string, args ...any) error {
	detail = fmt.Sprintf(detail, args...)
	return &BaseHttpError{
		Status: http.StatusNotFound,
		Title:  error404Title,
		Detail: detail,
		Err:    err,
	}
}

func NewUnauthorizedError(err error, detail string, args ...any) error {
	detail = fmt.Sprintf(detail, args...)
	return &BaseHttpError{
		Status: http.StatusUnauthorized,
		Title:  error401Title,
		Detail: detail,
		Err:    err,
	}
}

func NewServiceUnavailableError(err error, detail string) error {
	return &BaseHttpError{
		Status: http.StatusServiceUnavailable,
		Title:  error503Title,
		Detail: detail,
		Err:    err,
	}
}
