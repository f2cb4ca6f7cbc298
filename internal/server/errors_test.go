package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/career-compass/internal/advisor"
	"github.com/jonathan/career-compass/internal/llm"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		retryable bool
	}{
		{name: "bad request", err: &ErrBadRequest{Message: "invalid JSON"}, status: http.StatusBadRequest},
		{name: "validation", err: &advisor.ValidationError{Field: "Interests", Message: "required"}, status: http.StatusBadRequest},
		{
			name:   "wrapped validation",
			err:    fmt.Errorf("failed to submit: %w", &advisor.ValidationError{Field: "Skills"}),
			status: http.StatusBadRequest,
		},
		{name: "not found", err: &advisor.NotFoundError{Kind: "career", ID: "astronaut"}, status: http.StatusNotFound},
		{
			name:      "submission",
			err:       &advisor.SubmissionError{Cause: llm.ErrRemoteCallFailed},
			status:    http.StatusBadGateway,
			retryable: true,
		},
		{name: "deadline", err: context.DeadlineExceeded, status: http.StatusGatewayTimeout, retryable: true},
		{name: "unknown", err: errors.New("disk on fire"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := HTTPStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.retryable, errorBody(tt.err, status).Retryable)
		})
	}
}

func TestErrorBody_HidesInternalErrors(t *testing.T) {
	body := errorBody(errors.New("pq: password authentication failed"), http.StatusInternalServerError)
	assert.Equal(t, "internal server error", body.Error)

	body = errorBody(&advisor.SubmissionError{}, http.StatusBadGateway)
	assert.Equal(t, advisor.SubmissionFailedMessage, body.Error)
}
