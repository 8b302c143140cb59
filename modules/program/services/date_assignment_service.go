package services

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/paceline-hq/paceline/modules/program/domain/assignment"
	"github.com/paceline-hq/paceline/modules/program/domain/daterange"
	"github.com/paceline-hq/paceline/modules/program/domain/events"
	"github.com/paceline-hq/paceline/modules/program/domain/organization"
	"github.com/paceline-hq/paceline/modules/program/domain/worknode"
	"github.com/paceline-hq/paceline/pkg/composables"
	"github.com/paceline-hq/paceline/pkg/eventbus"
)

// nowFn is the clock used for reporting windows; tests pin it.
var nowFn = time.Now

// AssignmentView is a stored assignment as it appears on the reporting
// boundary. DaysRemaining is signed: negative once the end date has passed.
type AssignmentView struct {
	NodeID         uuid.UUID  `json:"nodeId"`
	NodeLevel      string     `json:"nodeLevel"`
	OrganizationID uuid.UUID  `json:"organizationId"`
	Start          *time.Time `json:"start"`
	End            *time.Time `json:"end"`
	IsFlexible     bool       `json:"isFlexible"`
	LastModified   time.Time  `json:"lastModified"`
	DaysRemaining  *int       `json:"daysRemaining,omitempty"`
}

// DatesView is the read result of GetDates.
type DatesView struct {
	SelfAssignment     *AssignmentView `json:"selfAssignment"`
	ParentAssignment   *AssignmentView `json:"parentAssignment"`
	IsOrgParticipating bool            `json:"isOrgParticipating"`
}

type ProposeDatesInput struct {
	Level                worknode.Level
	NodeID               uuid.UUID
	OrganizationID       uuid.UUID
	Window               daterange.DateRange
	ExpectedLastModified *time.Time
}

// ProposeDatesResult carries the validation outcome; Assignment is set only
// when the proposal was accepted and written.
type ProposeDatesResult struct {
	ValidationResult
	Assignment *AssignmentView `json:"assignment,omitempty"`
}

type DateAssignmentService struct {
	resolver    *HierarchyResolver
	assignments assignment.Repository
	publisher   eventbus.EventBus
}

func NewDateAssignmentService(
	resolver *HierarchyResolver,
	assignments assignment.Repository,
	publisher eventbus.EventBus,
) *DateAssignmentService {
	return &DateAssignmentService{
		resolver:    resolver,
		assignments: assignments,
		publisher:   publisher,
	}
}

// GetDates returns the node's assignment and its immediate parent's
// assignment for the given organization, plus whether the organization
// participates in the node's project at all.
func (s *DateAssignmentService) GetDates(ctx context.Context, nodeID, organizationID uuid.UUID) (*DatesView, error) {
	if err := authorizeRead(ctx, organizationID); err != nil {
		return nil, err
	}

	view, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*DatesView, error) {
		res, err := s.resolver.Resolve(txCtx, nodeID, organizationID)
		if err != nil {
			return nil, err
		}
		projectID, err := s.resolver.RootProject(txCtx, res.Node)
		if err != nil {
			return nil, err
		}
		participating, err := s.assignments.ExistsInProject(txCtx, projectID, organizationID)
		if err != nil {
			return nil, err
		}

		now := nowFn().UTC()
		out := &DatesView{IsOrgParticipating: participating}
		if res.SelfAssignment != nil {
			out.SelfAssignment = assignmentView(res.SelfAssignment, res.Node.Level, now)
		}
		if res.ParentAssignment != nil {
			out.ParentAssignment = assignmentView(res.ParentAssignment, res.ParentNode.Level, now)
		}
		return out, nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return view, nil
}

// ProposeDates validates a proposed window against the node's parent window
// and, only when valid, writes the assignment. The write is conditional on
// ExpectedLastModified so a concurrently edited row is never silently
// overwritten. An invalid proposal performs no write and is reported as
// data, not as an error.
func (s *DateAssignmentService) ProposeDates(ctx context.Context, in ProposeDatesInput) (*ProposeDatesResult, error) {
	if err := authorizeStaff(ctx); err != nil {
		return nil, err
	}
	if in.Level != "" && !in.Level.Valid() {
		return nil, newServiceError(http.StatusBadRequest, "PROGRAM_INVALID_LEVEL", "unknown work node level", nil)
	}

	result, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*ProposeDatesResult, error) {
		res, err := s.resolver.Resolve(txCtx, in.NodeID, in.OrganizationID)
		if err != nil {
			return nil, err
		}
		if in.Level != "" && res.Node.Level != in.Level {
			return nil, newServiceError(http.StatusBadRequest, "PROGRAM_LEVEL_MISMATCH", "node level does not match the request", nil)
		}
		if !res.Organization.IsActive() {
			return nil, newServiceError(http.StatusUnprocessableEntity, "PROGRAM_ORG_INACTIVE", "organization no longer participates in the program", nil)
		}

		var validation ValidationResult
		if res.Node.HasParent() {
			var parent *daterange.DateRange
			if res.ParentAssignment != nil {
				w := res.ParentAssignment.Window
				parent = &w
			}
			validation = ValidateWindow(in.Window, parent)
			if !validation.IsValid {
				if parent == nil {
					recordValidationFailure("missing_parent")
				} else {
					recordValidationFailure("nesting")
				}
				return &ProposeDatesResult{ValidationResult: validation}, nil
			}
		} else {
			validation = ValidationResult{IsValid: true, Message: "project dates recorded"}
		}

		tenantID, err := composables.UseTenantID(txCtx)
		if err != nil {
			return nil, err
		}
		stored, err := s.assignments.Upsert(txCtx, &assignment.DateAssignment{
			TenantID:       tenantID,
			ID:             uuid.New(),
			NodeID:         res.Node.ID,
			OrganizationID: in.OrganizationID,
			Window:         in.Window,
		}, in.ExpectedLastModified)
		if err != nil {
			return nil, err
		}

		event := assignmentChangedEvent(txCtx, res.Node, res.Organization, res.SelfAssignment, stored)
		s.publisher.Publish(event)
		composables.UseLogger(txCtx).WithFields(logrus.Fields{
			"node_id":         res.Node.ID,
			"node_level":      res.Node.Level,
			"organization_id": in.OrganizationID,
			"change":          event.ChangeType,
		}).Info("date assignment written")

		return &ProposeDatesResult{
			ValidationResult: validation,
			Assignment:       assignmentView(stored, res.Node.Level, nowFn().UTC()),
		}, nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func assignmentView(a *assignment.DateAssignment, level worknode.Level, now time.Time) *AssignmentView {
	view := &AssignmentView{
		NodeID:         a.NodeID,
		NodeLevel:      string(level),
		OrganizationID: a.OrganizationID,
		Start:          a.Window.Start(),
		End:            a.Window.End(),
		IsFlexible:     a.Window.IsFlexible(),
		LastModified:   a.LastModified,
	}
	if end := a.Window.End(); end != nil {
		remaining := -daterange.DaysOverdue(*end, now)
		view.DaysRemaining = &remaining
	}
	return view
}

func assignmentChangedEvent(
	ctx context.Context,
	node *worknode.WorkNode,
	org *organization.Organization,
	previous *assignment.DateAssignment,
	stored *assignment.DateAssignment,
) events.AssignmentChangedV1 {
	requestID, _ := composables.UseRequestID(ctx)

	changeType := events.ChangeCreated
	var previousWindow *events.WindowV1
	if previous != nil {
		changeType = events.ChangeUpdated
		previousWindow = &events.WindowV1{
			Start:      previous.Window.Start(),
			End:        previous.Window.End(),
			IsFlexible: previous.Window.IsFlexible(),
		}
	}

	return events.AssignmentChangedV1{
		EventID:         uuid.New(),
		EventVersion:    events.EventVersionV1,
		RequestID:       requestID,
		TenantID:        stored.TenantID,
		TransactionTime: nowFn().UTC(),
		ChangeType:      changeType,
		NodeID:          node.ID,
		NodeLevel:       string(node.Level),
		OrganizationID:  org.ID,
		Window: events.WindowV1{
			Start:      stored.Window.Start(),
			End:        stored.Window.End(),
			IsFlexible: stored.Window.IsFlexible(),
		},
		LastModified:   stored.LastModified,
		PreviousWindow: previousWindow,
	}
}
