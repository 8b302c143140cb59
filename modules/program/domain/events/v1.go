package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TopicAssignmentChangedV1 = "program.assignment.changed.v1"
	EventVersionV1           = 1

	ChangeCreated = "created"
	ChangeUpdated = "updated"
)

// WindowV1 is the assignment window as it appears on the wire.
type WindowV1 struct {
	Start      *time.Time `json:"start,omitempty"`
	End        *time.Time `json:"end,omitempty"`
	IsFlexible bool       `json:"is_flexible"`
}

// AssignmentChangedV1 is published after a date assignment is written.
// Consumers drive notifications and dashboard cache invalidation off it;
// delivery is out of scope here.
type AssignmentChangedV1 struct {
	EventID         uuid.UUID `json:"event_id"`
	EventVersion    int       `json:"event_version"`
	RequestID       string    `json:"request_id"`
	TenantID        uuid.UUID `json:"tenant_id"`
	TransactionTime time.Time `json:"transaction_time"`
	ChangeType      string    `json:"change_type"`
	NodeID          uuid.UUID `json:"node_id"`
	NodeLevel       string    `json:"node_level"`
	OrganizationID  uuid.UUID `json:"organization_id"`
	Window          WindowV1  `json:"window"`
	LastModified    time.Time `json:"last_modified"`
	PreviousWindow  *WindowV1 `json:"previous_window,omitempty"`
}
