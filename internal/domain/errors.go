package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrModelNotFound   = errors.New("model not found")
)

// StorageError wraps a storage-engine failure with the operation and session
// it happened on. Callers recover locally; it never crashes the loop.
type StorageError struct {
	Op        string
	SessionID SessionID
	Err       error
}

func NewStorageError(op string, sessionID SessionID, err error) *StorageError {
	return &StorageError{Op: op, SessionID: sessionID, Err: err}
}

func (e *StorageError) Error() string {
	if e.SessionID == "" {
		return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage: %s (session %s): %v", e.Op, e.SessionID, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ProviderErrorKind classifies model-endpoint failures so the orchestrator
// can pick a user-facing fallback without parsing error strings.
type ProviderErrorKind string

const (
	ProviderRateLimited    ProviderErrorKind = "rate_limited"
	ProviderUnavailable    ProviderErrorKind = "unavailable"
	ProviderTimeout        ProviderErrorKind = "timeout"
	ProviderDecommissioned ProviderErrorKind = "decommissioned"
	ProviderOther          ProviderErrorKind = "other"
)

// ProviderError is a classified failure from the hosted model endpoint.
type ProviderError struct {
	Kind    ProviderErrorKind
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider: %s: %s", e.Kind, e.Message)
}

// AsProviderError extracts a ProviderError from an error chain, returning a
// ProviderOther wrapper when the chain carries no classification.
func AsProviderError(err error) *ProviderError {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	return &ProviderError{Kind: ProviderOther, Message: err.Error()}
}
