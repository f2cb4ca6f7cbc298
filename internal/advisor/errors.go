package advisor

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// SubmissionFailedMessage is shown to users when an assessment cannot be submitted.
const SubmissionFailedMessage = "Failed to submit assessment. Please try again."

// ValidationError indicates input that can never succeed as submitted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// SubmissionError indicates a failed model call or unusable reply during submission.
// It is always retryable.
type SubmissionError struct {
	Cause error
}

func (e *SubmissionError) Error() string {
	return SubmissionFailedMessage
}

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}

// NotFoundError indicates an unknown catalog id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// Retryable reports whether err is worth retrying with the same input.
func Retryable(err error) bool {
	var submissionErr *SubmissionError
	return errors.As(err, &submissionErr)
}

// validationFromStruct converts the first validator failure into a ValidationError.
func validationFromStruct(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fe.Field(), Message: fmt.Sprintf("failed %q check", fe.Tag())}
	}
	return &ValidationError{Field: "profile", Message: err.Error()}
}
