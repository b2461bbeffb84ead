package errors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapDBError_Nil(t *testing.T) {
	assert.NoError(t, MapDBError(nil))
}

func TestMapDBError_Codes(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  ErrorCode
		wantField string
	}{
		{name: "deadline", err: context.DeadlineExceeded, wantCode: ErrCodeTimeout},
		{name: "canceled", err: fmt.Errorf("query: %w", context.Canceled), wantCode: ErrCodeCanceled},
		{name: "sql no rows", err: sql.ErrNoRows, wantCode: ErrCodeNotFound},
		{name: "pgx no rows", err: pgx.ErrNoRows, wantCode: ErrCodeNotFound},
		{
			name:      "unique with column",
			err:       &pgconn.PgError{Code: pgerrcode.UniqueViolation, ColumnName: "id"},
			wantCode:  ErrCodeConflict,
			wantField: "id",
		},
		{
			name: "unique with detail",
			err: &pgconn.PgError{
				Code:   pgerrcode.UniqueViolation,
				Detail: `Key (run_id, seq)=(abc, 1) already exists.`,
			},
			wantCode:  ErrCodeConflict,
			wantField: "run_id, seq",
		},
		{
			name:      "check violation",
			err:       &pgconn.PgError{Code: pgerrcode.CheckViolation, ColumnName: "seq", ConstraintName: "generation_items_seq_check"},
			wantCode:  ErrCodeValidation,
			wantField: "seq",
		},
		{name: "not null", err: &pgconn.PgError{Code: pgerrcode.NotNullViolation}, wantCode: ErrCodeValidation},
		{name: "missing table", err: &pgconn.PgError{Code: pgerrcode.UndefinedTable}, wantCode: ErrCodeConfiguration},
		{name: "other pg error", err: &pgconn.PgError{Code: pgerrcode.DiskFull}, wantCode: ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapDBError(tt.err)
			assert.Equal(t, tt.wantCode, GetCode(got))
			assert.Equal(t, tt.wantField, GetField(got))
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestMapDBError_PassThrough(t *testing.T) {
	plain := errors.New("boom")
	assert.Same(t, plain, MapDBError(plain))
}
