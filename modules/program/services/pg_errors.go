package services

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/paceline-hq/paceline/modules/program/domain/assignment"
	"github.com/paceline-hq/paceline/modules/program/domain/organization"
	"github.com/paceline-hq/paceline/modules/program/domain/worknode"
)

// mapError normalizes repository failures into ServiceErrors. Domain
// sentinels are checked before raw pg errors because repositories wrap
// pgx.ErrNoRows into the matching sentinel.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}

	switch {
	case errors.Is(err, worknode.ErrNotFound):
		return newServiceError(http.StatusNotFound, "PROGRAM_NODE_NOT_FOUND", "work node not found", err)
	case errors.Is(err, organization.ErrNotFound):
		return newServiceError(http.StatusNotFound, "PROGRAM_ORG_NOT_FOUND", "organization not found", err)
	case errors.Is(err, assignment.ErrConflict):
		recordWriteConflict("stale")
		return newServiceError(http.StatusConflict, "PROGRAM_ASSIGNMENT_CONFLICT", "assignment was modified concurrently", err)
	case errors.Is(err, assignment.ErrNotFound):
		return newServiceError(http.StatusNotFound, "PROGRAM_ASSIGNMENT_NOT_FOUND", "date assignment not found", err)
	}

	return mapPgErrorToServiceError(err)
}

func mapPgErrorToServiceError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return newServiceError(http.StatusNotFound, "PROGRAM_NOT_FOUND", "not found", err)
	}

	// Pool, network and context failures land here. Their text can carry
	// connection strings, so clients only ever see the fixed message.
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return newServiceError(http.StatusInternalServerError, "PROGRAM_STORAGE", "storage failure", err)
	}

	switch pgErr.Code {
	case "23505": // unique_violation
		recordWriteConflict("unique")
		return newServiceError(http.StatusConflict, "PROGRAM_ASSIGNMENT_CONFLICT", "assignment already exists", err)
	case "23503": // foreign_key_violation
		recordWriteConflict("foreign_key")
		return newServiceError(http.StatusUnprocessableEntity, "PROGRAM_REFERENCE_NOT_FOUND", "referenced entity not found", err)
	case "23514": // check_violation
		return newServiceError(http.StatusBadRequest, "PROGRAM_INVALID_WINDOW", "stored window constraint violated", err)
	default:
		return newServiceError(http.StatusInternalServerError, "PROGRAM_STORAGE", "storage failure", err)
	}
}
