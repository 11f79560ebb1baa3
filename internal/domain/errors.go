package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachableStop means a refuel was required but no fuel stop exists within the search radius.
	ErrUnreachableStop = errors.New("no fuel stop found within range")

	// ErrInvalidParameters rejects a run before it starts.
	ErrInvalidParameters = errors.New("invalid parameters")
)

// UpstreamError wraps a failure of an external collaborator
// (routing provider or fuel stop store).
type UpstreamError struct {
	Source string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Upstream tags err as an UpstreamError from source. A nil err stays nil.
func Upstream(source string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}
	return &UpstreamError{Source: source, Err: err}
}
