package assignment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows List results. A nil field means "any".
type Filter struct {
	OrganizationID *uuid.UUID
	NodeIDs        []uuid.UUID
}

type Repository interface {
	Get(ctx context.Context, nodeID, organizationID uuid.UUID) (*DateAssignment, error)
	// Upsert inserts or replaces the assignment for (NodeID, OrganizationID).
	// expected carries the last_modified the caller read before editing; nil
	// means the caller expects no existing row. A mismatch on either side
	// fails with ErrConflict and leaves the stored row untouched.
	Upsert(ctx context.Context, a *DateAssignment, expected *time.Time) (*DateAssignment, error)
	List(ctx context.Context, f *Filter) ([]*DateAssignment, error)
	// ExistsInProject reports whether the organization holds any assignment
	// on the project node itself or one of its descendants.
	ExistsInProject(ctx context.Context, projectID, organizationID uuid.UUID) (bool, error)
}
