// Package errors provides the structured error type returned by every service.
// Each error carries a kind, the entity it concerns and the rule that was
// violated, so callers can render a specific message without parsing text.
package errors

import (
	stderrors "errors"
	"net/http"
	"strings"
)

// Kind classifies an AppError.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthorization  Kind = "authorization"
	KindNotFound       Kind = "not_found"
	KindConflict       Kind = "conflict"
	KindAuthentication Kind = "authentication"
	KindInternal       Kind = "internal"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Kind       Kind   `json:"kind"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Entity     string `json:"entity,omitempty"`
	Rule       string `json:"rule,omitempty"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches two AppErrors by code so that sentinels survive Wrap and WithMessage.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	c := *sentinel
	c.Internal = internal
	return &c
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	c := *sentinel
	c.Message = message
	return &c
}

// Validation builds a validation error for an invariant violated on write.
func Validation(entity, rule, message string) *AppError {
	return &AppError{
		Kind:       KindValidation,
		Code:       "VALIDATION_FAILED",
		Message:    message,
		Entity:     entity,
		Rule:       rule,
		StatusCode: http.StatusBadRequest,
	}
}

// Authorization builds an error for a failed capability check.
func Authorization(entity, rule string) *AppError {
	return &AppError{
		Kind:       KindAuthorization,
		Code:       "FORBIDDEN",
		Message:    "Access denied: " + rule,
		Entity:     entity,
		Rule:       rule,
		StatusCode: http.StatusForbidden,
	}
}

// Conflict builds an error for a write that collides with the current state.
func Conflict(entity, rule, message string) *AppError {
	return &AppError{
		Kind:       KindConflict,
		Code:       "CONFLICT",
		Message:    message,
		Entity:     entity,
		Rule:       rule,
		StatusCode: http.StatusConflict,
	}
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// NotFound builds the error for a missing entity, or one that is soft-deleted
// where an active row is required.
func NotFound(entity string) *AppError {
	words := strings.ReplaceAll(entity, "_", " ")
	message := strings.ToUpper(words[:1]) + words[1:] + " not found"
	return notFound(strings.ToUpper(entity)+"_NOT_FOUND", entity, message)
}

func notFound(code, entity, message string) *AppError {
	return &AppError{
		Kind:       KindNotFound,
		Code:       code,
		Message:    message,
		Entity:     entity,
		Rule:       "must_exist",
		StatusCode: http.StatusNotFound,
	}
}

// Authentication errors.
var (
	ErrUnauthorized       = &AppError{Kind: KindAuthentication, Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Kind: KindAuthentication, Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Kind: KindAuthorization, Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Kind: KindValidation, Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = notFound("NOT_FOUND", "", "Resource not found")
	ErrInternalServer = &AppError{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = NotFound("user")
	ErrDuplicateEmail = &AppError{Kind: KindConflict, Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", Entity: "user", Rule: "email_unique", StatusCode: http.StatusConflict}
)

// Trip and participant errors.
var (
	ErrTripNotFound        = NotFound("trip")
	ErrParticipantNotFound = NotFound("participant")
	ErrDuplicateName       = &AppError{Kind: KindConflict, Code: "DUPLICATE_PARTICIPANT", Message: "A participant with this name already exists", Entity: "participant", Rule: "name_unique_per_trip", StatusCode: http.StatusConflict}
	ErrAlreadyClaimed      = &AppError{Kind: KindConflict, Code: "PARTICIPANT_ALREADY_CLAIMED", Message: "Participant is already linked to another user", Entity: "participant", Rule: "participant_already_claimed", StatusCode: http.StatusConflict}
	ErrIdentityLinked      = &AppError{Kind: KindConflict, Code: "IDENTITY_ALREADY_LINKED", Message: "You are already linked to another participant in this trip", Entity: "participant", Rule: "identity_already_linked", StatusCode: http.StatusConflict}
	ErrNotTripMember       = &AppError{Kind: KindAuthorization, Code: "NOT_TRIP_MEMBER", Message: "You are not a participant of this trip", Entity: "trip", Rule: "trip_member_required", StatusCode: http.StatusForbidden}
)

// Ledger entity errors.
var (
	ErrExpenseNotFound         = NotFound("expense")
	ErrExpenseImageNotFound    = NotFound("expense_image")
	ErrTreasuryTxNotFound      = NotFound("treasury_transaction")
	ErrDuesGoalNotFound        = NotFound("dues_goal")
	ErrTreasuryAccountNotFound = notFound("TREASURY_ACCOUNT_NOT_FOUND", "trip_treasury_account", "Trip treasury account not found")
	ErrRevisionMismatch        = &AppError{Kind: KindConflict, Code: "REVISION_MISMATCH", Message: "The expense was modified by someone else", Entity: "expense", Rule: "revision_mismatch", StatusCode: http.StatusConflict}
)
