// Package common provides shared utilities and types used across the engines.
package common

import (
	"errors"
	"fmt"
)

// Common engine errors.
var (
	// Persistence errors.
	ErrNotFound = errors.New("not found")

	// Classifier errors.
	ErrModelNotReady      = errors.New("model not ready")
	ErrTrainingInProgress = errors.New("training already in progress")
	ErrNoTrainingData     = errors.New("no training data available")

	// Predictor errors.
	ErrNotInitialized = errors.New("predictor not initialized")
	ErrInvalidInput   = errors.New("invalid input")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
