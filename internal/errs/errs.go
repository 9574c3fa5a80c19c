package errs

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// httpError defines an error which contains
// an http status code from an API request
// and, optionally, a message the backend wants shown to the user.
type httpError interface {
	Code() int
	Message() string
}

// envelope is the shape every backend response shares.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HttpError struct {
	code    int
	message string
	err     error
}

// NewHttpError builds an HttpError from a response body. The body's
// message, when present, becomes both the error text and the user-facing
// message; otherwise fallback is used for the error text only.
func NewHttpError(code int, b []byte, fallback string) HttpError {
	e := HttpError{
		code: code,
		err:  errors.New(fallback),
	}

	if len(b) > 0 {
		var r envelope
		if err := json.Unmarshal(b, &r); err == nil && r.Message != "" {
			e.message = r.Message
			e.err = errors.New(r.Message)
		}
	}

	return e
}

func (e HttpError) Error() string {
	return errors.Wrap(e.err, fmt.Sprintf("HttpError[%v]", e.code)).Error()
}

func (e HttpError) Code() int {
	return e.code
}

// Message is the server supplied message, empty when there was none.
func (e HttpError) Message() string {
	return e.message
}

func ExtractHttpError(err error) (int, bool) {
	var e httpError
	if !errors.As(err, &e) {
		return 0, false
	}
	return e.Code(), true
}

// Message returns the text to show the user for err: the server's message
// when the error carries one, fallback otherwise.
func Message(err error, fallback string) string {
	var e httpError
	if errors.As(err, &e) && e.Message() != "" {
		return e.Message()
	}
	return fallback
}
