package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/career-compass/internal/advisor"
)

// ErrBadRequest indicates a request body or parameter that could not be read.
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("bad request: %s", e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		badRequest *ErrBadRequest
		validation *advisor.ValidationError
		submission *advisor.SubmissionError
		notFound   *advisor.NotFoundError
	)
	switch {
	case errors.As(err, &badRequest), errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &submission):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
}

// errorBody hides internal causes behind a generic message for 500s.
func errorBody(err error, status int) ErrorBody {
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	return ErrorBody{
		Error:     msg,
		Retryable: advisor.Retryable(err) || status == http.StatusGatewayTimeout,
	}
}
