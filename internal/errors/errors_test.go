package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err:  &AppError{Code: ErrCodeNotFound, Message: "run not found"},
			want: "run not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeDirectoryUnreadable,
				Message: "list gifs/neural_ode_gifs",
				Cause:   errors.New("permission denied"),
			},
			want: "list gifs/neural_ode_gifs: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, ErrCodeDelivery, "send failed")

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(wrapped, cause) = false")
	}
}

func TestWrap_NilReturnsNil(t *testing.T) {
	if err := Wrap(nil, ErrCodeInternal, "x"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     bool
	}{
		{"directory unreadable", Wrap(errors.New("enoent"), ErrCodeDirectoryUnreadable, "list"), ErrDirectoryUnreadable, true},
		{"wrapped by fmt", fmt.Errorf("run: %w", Wrap(errors.New("x"), ErrCodeDeliveryUnavailable, "connect")), ErrDeliveryUnavailable, true},
		{"configuration", Configuration("GIFGEN_MAX_ATTEMPTS", "must be >= 1"), ErrConfiguration, true},
		{"code mismatch", Configuration("k", "v"), ErrDelivery, false},
		{"plain error", errors.New("x"), ErrTimeoutExhausted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.sentinel); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	wrapped := func(code ErrorCode) error {
		return fmt.Errorf("outer: %w", &AppError{Code: code, Message: "m"})
	}

	checks := []struct {
		name string
		fn   func(error) bool
		code ErrorCode
	}{
		{"IsNotFound", IsNotFound, ErrCodeNotFound},
		{"IsConflict", IsConflict, ErrCodeConflict},
		{"IsValidation", IsValidation, ErrCodeValidation},
		{"IsConfiguration", IsConfiguration, ErrCodeConfiguration},
		{"IsDirectoryUnreadable", IsDirectoryUnreadable, ErrCodeDirectoryUnreadable},
		{"IsDelivery", IsDelivery, ErrCodeDelivery},
		{"IsDeliveryUnavailable", IsDeliveryUnavailable, ErrCodeDeliveryUnavailable},
		{"IsTimeout", IsTimeout, ErrCodeTimeout},
		{"IsCanceled", IsCanceled, ErrCodeCanceled},
	}

	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			if !c.fn(wrapped(c.code)) {
				t.Errorf("%s should match code %s", c.name, c.code)
			}
			if c.fn(wrapped(ErrCodeInternal)) {
				t.Errorf("%s should not match internal", c.name)
			}
			if c.fn(nil) {
				t.Errorf("%s(nil) should be false", c.name)
			}
		})
	}
}

func TestConfigurationf(t *testing.T) {
	err := Configurationf("GIFGEN_INFOFILE", "read %s", "info.json")
	if err.Message != "read info.json" {
		t.Errorf("Message = %q", err.Message)
	}
	if GetField(err) != "GIFGEN_INFOFILE" {
		t.Errorf("GetField() = %q", GetField(err))
	}
	if GetCode(errors.New("x")) != "" {
		t.Error("GetCode on plain error should be empty")
	}
}
