package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
)

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}

// WriteAppError maps an AppError code onto an HTTP status. Unknown errors are
// reported as internal without their message.
func WriteAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: string(apperrors.ErrCodeInternal),
			Err:     errors.New("internal error"),
		})
		return
	}

	code := http.StatusInternalServerError
	switch appErr.Code {
	case apperrors.ErrCodeNotFound:
		code = http.StatusNotFound
	case apperrors.ErrCodeValidation:
		code = http.StatusBadRequest
	case apperrors.ErrCodeConfiguration:
		code = http.StatusNotImplemented
	case apperrors.ErrCodeTimeout, apperrors.ErrCodeCanceled:
		code = http.StatusServiceUnavailable
	}
	WriteError(w, ErrorParams{Code: code, ErrCode: string(appErr.Code), Err: err})
}
