package llm

import (
	"errors"
	"fmt"
)

// ErrRemoteCallFailed is the single condition callers see for any inference failure:
// unreachable endpoint, non-2xx status, timeout or an undecodable reply envelope.
var ErrRemoteCallFailed = errors.New("remote call failed")

// RemoteCallError carries the cause of a failed inference call.
type RemoteCallError struct {
	Provider   Provider
	StatusCode int
	Cause      error
}

func (e *RemoteCallError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s remote call failed with status %d: %v", e.Provider, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s remote call failed: %v", e.Provider, e.Cause)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrRemoteCallFailed) true for every RemoteCallError.
func (e *RemoteCallError) Is(target error) bool {
	return target == ErrRemoteCallFailed
}
