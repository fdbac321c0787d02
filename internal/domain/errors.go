package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned when the generative model has no credential.
	ErrNotConfigured = errors.New("recommender not configured: generative model credential missing")

	ErrNoResults = errors.New("no matching catalog entries")

	ErrUnknownMood = errors.New("unknown mood")

	// ErrModelMismatch means the index was built with a different embedding model.
	ErrModelMismatch = errors.New("embedding model does not match index")

	ErrNotReady = errors.New("recommender not set up")
)

// SetupError is a fatal initialization failure. Stage names the step that
// failed: load, index, embedding, ingest or llm.
type SetupError struct {
	Stage string
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setup failed at %s: %v", e.Stage, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

func NewSetupError(stage string, err error) *SetupError {
	return &SetupError{Stage: stage, Err: err}
}

// IsSetupError reports whether err is a fatal setup failure.
func IsSetupError(err error) bool {
	var se *SetupError
	return errors.As(err, &se)
}
