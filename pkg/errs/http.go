package errs

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// ErrResponse is used as the response body for all errors.
type ErrResponse struct {
	Error ServiceError `json:"error"`
}

// ServiceError has fields for the service error kind, parameter and message.
type ServiceError struct {
	Kind    string `json:"kind,omitempty"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// HTTPErrorResponse takes a writer, a logger and an error and writes the
// corresponding status code and json body. Errors that are not *Error are
// logged and reported as internal errors without leaking their message.
func HTTPErrorResponse(w http.ResponseWriter, lgr zerolog.Logger, err error) {
	if err == nil {
		nilErrorResponse(w, lgr)
		return
	}

	var e *Error
	if errors.As(err, &e) {
		switch e.Kind {
		case Unauthenticated:
			lgr.Error().Stack().Err(err).Strs("stack", OpStack(err)).Msg("unauthenticated request")
			w.WriteHeader(http.StatusUnauthorized)
			return
		case Unauthorized:
			lgr.Error().Stack().Err(err).Strs("stack", OpStack(err)).Msg("unauthorized request")
			w.WriteHeader(http.StatusForbidden)
			return
		default:
			typicalErrorResponse(w, lgr, e)
			return
		}
	}

	unknownErrorResponse(w, lgr, err)
}

func typicalErrorResponse(w http.ResponseWriter, lgr zerolog.Logger, e *Error) {
	status := httpErrorStatusCode(KindOf(e))

	event := lgr.Error()
	if status < http.StatusInternalServerError {
		event = lgr.Warn()
	}

	event.Err(e).
		Int("http_statuscode", status).
		Str("kind", KindOf(e).String()).
		Str("parameter", string(e.Param)).
		Strs("stack", OpStack(e)).
		Msg("error response sent to client")

	message := e.Error()
	if status >= http.StatusInternalServerError {
		message = "internal server error - please contact support"
	}

	er := ErrResponse{
		Error: ServiceError{
			Kind:    KindOf(e).String(),
			Param:   string(e.Param),
			Message: message,
		},
	}

	writeJSON(w, lgr, status, er)
}

func unknownErrorResponse(w http.ResponseWriter, lgr zerolog.Logger, err error) {
	er := ErrResponse{
		Error: ServiceError{
			Kind:    Internal.String(),
			Message: "unexpected error - contact support",
		},
	}

	lgr.Error().Err(err).Msg("unknown error")

	writeJSON(w, lgr, http.StatusInternalServerError, er)
}

func nilErrorResponse(w http.ResponseWriter, lgr zerolog.Logger) {
	er := ErrResponse{
		Error: ServiceError{
			Kind:    Internal.String(),
			Message: "internal error - contact support",
		},
	}

	lgr.Error().Msg("nil error - no response body sent")

	writeJSON(w, lgr, http.StatusInternalServerError, er)
}

func writeJSON(w http.ResponseWriter, lgr zerolog.Logger, status int, er ErrResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(er)
	if err != nil {
		lgr.Error().Err(err).Msg("encoding error response")
	}
}

// KindOf returns the first non-Other kind found in the error chain.
func KindOf(err error) Kind {
	var e *Error
	for errors.As(err, &e) {
		if e.Kind != Other {
			return e.Kind
		}

		err = e.Err
	}

	return Other
}

func httpErrorStatusCode(k Kind) int {
	switch k {
	case Invalid, Validation, InvalidRequest:
		return http.StatusBadRequest
	case Exist:
		return http.StatusConflict
	case NotExist:
		return http.StatusNotFound
	case Unavailable:
		return http.StatusServiceUnavailable
	case Private, Unauthorized:
		return http.StatusForbidden
	case Unauthenticated:
		return http.StatusUnauthorized
	case Other, IO, Internal, Database:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
