package errors

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"app code", fmt.Errorf("run: %w", apperrors.Wrap(errors.New("x"), apperrors.ErrCodeDeliveryUnavailable, "connect")), "delivery_unavailable"},
		{"deadline", fmt.Errorf("render: %w", context.DeadlineExceeded), "timeout"},
		{"canceled", context.Canceled, "canceled"},
		{"path error", &fs.PathError{Op: "open", Path: "x", Err: errors.New("nope")}, "errors_errorstring"},
		{"plain", errors.New("boom"), "errors_errorstring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
