// ABOUTME: Error taxonomy for the matching pipeline
// ABOUTME: Configuration errors are fatal; retrieval errors fail one request cleanly
package core

import (
	"errors"
	"fmt"
)

// ErrNotConfigured matches every ConfigurationError via errors.Is
var ErrNotConfigured = errors.New("matcher not configured")

// ConfigurationError reports a collaborator that was never wired up
type ConfigurationError struct {
	Component string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s not initialized", e.Component)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrNotConfigured
}

// RetrievalError reports a failed embedding, index or store call during a
// request. No partial results accompany it.
type RetrievalError struct {
	Op  string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed during %s: %v", e.Op, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

func retrievalError(op string, err error) error {
	var re *RetrievalError
	if errors.As(err, &re) {
		return err
	}
	return &RetrievalError{Op: op, Err: err}
}
