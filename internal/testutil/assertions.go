package testutil

import (
	"errors"
	"testing"

	apperrors "tripledger/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertAppErrorKind checks the kind of an *AppError and, when rule is not
// empty, the rule it names.
func AssertAppErrorKind(t *testing.T, err error, kind apperrors.Kind, rule string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Kind != kind {
		t.Errorf("expected kind %q, got %q (code %s: %s)", kind, appErr.Kind, appErr.Code, appErr.Message)
	}
	if rule != "" && appErr.Rule != rule {
		t.Errorf("expected rule %q, got %q", rule, appErr.Rule)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
