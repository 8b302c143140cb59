package assignment

import (
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/paceline-hq/paceline/modules/program/domain/daterange"
)

var (
	ErrNotFound = gerrors.New("date assignment not found")
	// ErrConflict is returned by conditional writes when the stored row's
	// last_modified no longer matches the caller's expectation.
	ErrConflict = gerrors.New("date assignment modified concurrently")
)

// DateAssignment is the date window in force for one (node, organization)
// pair. At most one row exists per pair.
type DateAssignment struct {
	TenantID       uuid.UUID
	ID             uuid.UUID
	NodeID         uuid.UUID
	OrganizationID uuid.UUID
	Window         daterange.DateRange
	LastModified   time.Time
	CreatedAt      time.Time
}
