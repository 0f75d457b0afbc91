package schema

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an artifact does not exist at its source.
var ErrNotFound = errors.New("artifact not found")

// Load stages.
const (
	StageFetch  = "fetch"
	StageDecode = "decode"
)

// LoadError records which artifact failed to load and at which stage.
type LoadError struct {
	Path  string
	Stage string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
