// Package transport turns typed service calls into HTTP handlers.
//
// Inspired by:
// - https://www.willem.dev/articles/generic-http-handlers/ - for use of generics
// - https://github.com/go-kit/kit - for StatusCoder interface
package transport

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/navikt/synthproof/pkg/errs"
	"github.com/rs/zerolog"
)

type StatusCoder interface {
	StatusCode() int
}

type Encoder interface {
	Encode(w http.ResponseWriter) error
}

// Validator is implemented by request bodies that can check themselves
// before the target is invoked.
type Validator interface {
	Validate() error
}

// DecoderFunc is a function that decodes a request into a struct
type DecoderFunc[In any] func(r *http.Request) (In, error)

// TargetFunc handles the decoded request. The http.Request is passed along
// for query parameters and headers.
type TargetFunc[In any, Out any] func(context.Context, *http.Request, In) (Out, error)

type Transport[In any, Out any] struct {
	decoderFn DecoderFunc[In]
	targetFn  TargetFunc[In, Out]
}

func For[In any, Out any](target TargetFunc[In, Out]) *Transport[In, Out] {
	return &Transport[In, Out]{
		targetFn: target,
	}
}

// RequestFromJSON decodes the body as JSON. Unknown fields are rejected, and
// if the decoded value is a Validator it must validate.
func (h *Transport[In, Out]) RequestFromJSON() *Transport[In, Out] {
	h.decoderFn = func(r *http.Request) (In, error) {
		var in In

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		err := dec.Decode(&in)
		if err != nil {
			return in, errs.E(errs.InvalidRequest, errs.Op("transport.RequestFromJSON"), err)
		}

		if v, ok := any(in).(Validator); ok {
			if err := v.Validate(); err != nil {
				return in, errs.E(errs.Validation, errs.Op("transport.RequestFromJSON"), err)
			}
		}

		return in, nil
	}

	return h
}

func (h *Transport[In, Out]) encode(w http.ResponseWriter, out Out) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	// If the output implements the StatusCoder interface, use the status code from it
	code := http.StatusOK
	if sc, ok := any(out).(StatusCoder); ok {
		code = sc.StatusCode()
	}

	w.WriteHeader(code)
	if code == http.StatusNoContent {
		return nil
	}

	return json.NewEncoder(w).Encode(out)
}

func (h *Transport[In, Out]) Build(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in In
		var err error

		if h.decoderFn != nil {
			in, err = h.decoderFn(r)
			if err != nil {
				errs.HTTPErrorResponse(w, logger, err)
				return
			}
		}

		out, err := h.targetFn(r.Context(), r, in)
		if err != nil {
			errs.HTTPErrorResponse(w, logger, err)
			return
		}

		if v, ok := any(out).(Encoder); ok {
			err := v.Encode(w)
			if err != nil {
				errs.HTTPErrorResponse(w, logger, errs.E(errs.Internal, err))
				return
			}

			return
		}

		// By default, we always encode the response as JSON, you can use
		// the Encoder or StatusCoder interfaces to customize the response
		err = h.encode(w, out)
		if err != nil {
			errs.HTTPErrorResponse(w, logger, errs.E(errs.Internal, err))
			return
		}
	}
}

// Created wraps a response that should be sent with 201.
type Created[T any] struct {
	Body T
}

func (c *Created[T]) StatusCode() int {
	return http.StatusCreated
}

func (c *Created[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Body)
}

func NewCreated[T any](body T) *Created[T] {
	return &Created[T]{Body: body}
}

// ByteWriter provides a convenience struct for returning a byte slice as a
// response, optionally as a named attachment.
type ByteWriter struct {
	data        []byte
	contentType string
	filename    string
}

func (b *ByteWriter) Encode(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", b.contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(b.data)))

	if b.filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", b.filename))
	}

	_, err := w.Write(b.data)
	if err != nil {
		return err
	}

	return nil
}

func NewByteWriter(typ string, data []byte) *ByteWriter {
	return &ByteWriter{
		data:        data,
		contentType: typ,
	}
}

func NewAttachment(typ, filename string, data []byte) *ByteWriter {
	return &ByteWriter{
		data:        data,
		contentType: typ,
		filename:    filename,
	}
}

// JSONAttachment encodes a value as JSON under an attachment filename.
type JSONAttachment struct {
	Filename string
	Value    any
}

func (a *JSONAttachment) Encode(w http.ResponseWriter) error {
	data, err := json.Marshal(a.Value)
	if err != nil {
		return err
	}

	return NewAttachment("application/json; charset=utf-8", a.Filename, append(data, '\n')).Encode(w)
}
