package services

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestMapError_UnknownStorageErrorHidesDetail(t *testing.T) {
	cause := errors.New("failed to connect to `host=db-internal.prod user=paceline`")

	mapped := mapError(cause)

	var svcErr *ServiceError
	require.ErrorAs(t, mapped, &svcErr)
	require.Equal(t, 500, svcErr.Status)
	require.Equal(t, "PROGRAM_STORAGE", svcErr.Code)
	require.Equal(t, "storage failure", svcErr.Message)
	require.NotContains(t, svcErr.Message, "db-internal")

	// The cause stays attached for logs.
	require.ErrorIs(t, mapped, cause)
}

func TestMapError_PgCodes(t *testing.T) {
	cases := []struct {
		code       string
		wantStatus int
		wantCode   string
	}{
		{"23505", 409, "PROGRAM_ASSIGNMENT_CONFLICT"},
		{"23503", 422, "PROGRAM_REFERENCE_NOT_FOUND"},
		{"23514", 400, "PROGRAM_INVALID_WINDOW"},
		{"57014", 500, "PROGRAM_STORAGE"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			mapped := mapError(&pgconn.PgError{Code: tc.code, Message: "relation date_assignments"})

			var svcErr *ServiceError
			require.ErrorAs(t, mapped, &svcErr)
			require.Equal(t, tc.wantStatus, svcErr.Status)
			require.Equal(t, tc.wantCode, svcErr.Code)
			require.NotContains(t, svcErr.Message, "date_assignments")
		})
	}
}

func TestMapError_NoRows(t *testing.T) {
	mapped := mapError(pgx.ErrNoRows)

	var svcErr *ServiceError
	require.ErrorAs(t, mapped, &svcErr)
	require.Equal(t, 404, svcErr.Status)
	require.Equal(t, "PROGRAM_NOT_FOUND", svcErr.Code)
}
