// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and code matching

package errors_test

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/arthur-debert/testbed/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "source_not_found",
			code:    errors.ErrSourceNotFound,
			message: "no such resource",
			wantStr: "[SOURCE_NOT_FOUND] no such resource",
		},
		{
			name:    "argument_required",
			code:    errors.ErrArgumentRequired,
			message: "source path is required",
			wantStr: "[ARGUMENT_REQUIRED] source path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrInvalidPath, "path %q contains %d NUL bytes", "a\x00b", 1)
	if want := `path "a\x00b" contains 1 NUL bytes`; err.Message != want {
		t.Errorf("Newf() message = %q, want %q", err.Message, want)
	}
}

func TestWrap(t *testing.T) {
	baseErr := &fs.PathError{Op: "remove", Path: "/work/a.txt", Err: fs.ErrPermission}

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrDeletionFailed, "could not delete file")

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}

		wantStr := "[DELETION_FAILED] could not delete file: remove /work/a.txt: permission denied"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("os_error_stays_reachable", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrDeletionFailed, "could not delete file")
		if !stderrors.Is(err, fs.ErrPermission) {
			t.Error("errors.Is should see through to the OS error")
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		if err := errors.Wrap(nil, errors.ErrInternal, "internal error"); err != nil {
			t.Error("Wrap(nil) should return nil")
		}
		if err := errors.Wrapf(nil, errors.ErrInternal, "internal %s", "error"); err != nil {
			t.Error("Wrapf(nil) should return nil")
		}
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrCopyFailed, "copy failed").
		WithDetail("source", "/res/a.txt").
		WithDetail("attempts", 4)

	details := errors.GetErrorDetails(err)
	if details["source"] != "/res/a.txt" {
		t.Errorf("source detail = %v", details["source"])
	}
	if details["attempts"] != 4 {
		t.Errorf("attempts detail = %v", details["attempts"])
	}
	if errors.GetErrorDetails(stderrors.New("plain")) != nil {
		t.Error("GetErrorDetails() on a plain error should be nil")
	}
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrAccessDenied, "error 1")
	err2 := errors.New(errors.ErrAccessDenied, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	if !stderrors.Is(err1, err2) {
		t.Error("errors.Is() should match on code")
	}
	if stderrors.Is(err1, err3) {
		t.Error("errors.Is() should not match different codes")
	}
}

func TestIsErrorCode(t *testing.T) {
	inner := errors.New(errors.ErrAccessDenied, "locked")
	outer := fmt.Errorf("deploying fixture: %w", inner)

	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{"matching_code", inner, errors.ErrAccessDenied, true},
		{"different_code", inner, errors.ErrInternal, false},
		{"wrapped_by_fmt", outer, errors.ErrAccessDenied, true},
		{"nested_codes", errors.Wrap(inner, errors.ErrDeletionFailed, "delete"), errors.ErrAccessDenied, true},
		{"plain_error", stderrors.New("standard error"), errors.ErrAccessDenied, false},
		{"nil_error", nil, errors.ErrAccessDenied, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := errors.GetErrorCode(errors.New(errors.ErrCopyFailed, "x")); got != errors.ErrCopyFailed {
		t.Errorf("GetErrorCode() = %v", got)
	}
	nested := errors.Wrap(errors.New(errors.ErrAccessDenied, "x"), errors.ErrDeletionFailed, "y")
	if got := errors.GetErrorCode(nested); got != errors.ErrDeletionFailed {
		t.Errorf("GetErrorCode() should return the outermost code, got %v", got)
	}
	if got := errors.GetErrorCode(stderrors.New("plain")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode() on plain error = %v, want UNKNOWN", got)
	}
}
