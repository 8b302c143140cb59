package organization

import (
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = gerrors.New("organization not found")

// Status flags whether the organization still participates in the program.
// Inactive organizations keep their rows for historical reporting.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Organization is a participant company within a tenant's program.
type Organization struct {
	TenantID  uuid.UUID
	ID        uuid.UUID
	Name      string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o *Organization) IsActive() bool {
	return o.Status == StatusActive
}
