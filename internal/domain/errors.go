package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not_found")
	ErrMembershipRequired   = errors.New("membership_required")
	ErrConfirmationRequired = errors.New("confirmation_required")
	ErrReservedFolder       = errors.New("reserved_folder")
	ErrValidation           = errors.New("validation")
)

// MembershipRequiredMessage is the fixed explanatory message shown when
// a free-tier account attempts folder management. The check happens
// before any network call; discovering the restriction must never cost
// a round-trip.
const MembershipRequiredMessage = "folder management requires a premium or business membership"

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

// BackendError carries a non-2xx backend response. The message is
// surfaced verbatim to the actor; nothing is retried automatically.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend error: status=%d", e.Status)
	}
	return fmt.Sprintf("backend error: status=%d message=%s", e.Status, e.Message)
}

// UnrecognizedShapeError reports a backend contact record that matches
// none of the known payload shapes.
type UnrecognizedShapeError struct {
	Payload string
}

func (e *UnrecognizedShapeError) Error() string {
	return "unrecognized contact record shape: " + e.Payload
}
