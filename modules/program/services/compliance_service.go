package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/paceline-hq/paceline/modules/program/domain/assignment"
	"github.com/paceline-hq/paceline/modules/program/domain/compliance"
	"github.com/paceline-hq/paceline/modules/program/domain/organization"
	"github.com/paceline-hq/paceline/modules/program/domain/worknode"
	"github.com/paceline-hq/paceline/pkg/composables"
)

// NodeCompliance is one node's derived compliance state for an organization.
type NodeCompliance struct {
	NodeID    uuid.UUID `json:"nodeId"`
	NodeName  string    `json:"nodeName"`
	NodeLevel string    `json:"nodeLevel"`
	compliance.Record
}

// OrganizationComplianceView is the per-organization dashboard payload: one
// record per assigned node plus the aggregate over those records.
type OrganizationComplianceView struct {
	OrganizationID uuid.UUID          `json:"organizationId"`
	Records        []NodeCompliance   `json:"records"`
	Summary        compliance.Summary `json:"summary"`
}

// OrganizationView is one row of the organization directory.
// IsParticipating is only present when the listing was scoped to a project.
type OrganizationView struct {
	OrganizationID  uuid.UUID           `json:"organizationId"`
	Name            string              `json:"name"`
	Status          organization.Status `json:"status"`
	IsParticipating *bool               `json:"isParticipating,omitempty"`
}

// ComplianceService derives compliance state on read. Nothing here is
// stored; every call reclassifies against the current clock.
type ComplianceService struct {
	nodes       worknode.Repository
	assignments assignment.Repository
	resolver    *HierarchyResolver
}

func NewComplianceService(
	nodes worknode.Repository,
	assignments assignment.Repository,
	resolver *HierarchyResolver,
) *ComplianceService {
	return &ComplianceService{nodes: nodes, assignments: assignments, resolver: resolver}
}

// OrganizationCompliance classifies every assignment held by the
// organization and aggregates the result.
func (s *ComplianceService) OrganizationCompliance(ctx context.Context, organizationID uuid.UUID) (*OrganizationComplianceView, error) {
	if err := authorizeRead(ctx, organizationID); err != nil {
		return nil, err
	}

	view, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*OrganizationComplianceView, error) {
		if _, err := s.resolver.orgs.GetByID(txCtx, organizationID); err != nil {
			return nil, err
		}
		assignments, err := s.assignments.List(txCtx, &assignment.Filter{OrganizationID: &organizationID})
		if err != nil {
			return nil, err
		}
		records, err := s.classifyAll(txCtx, assignments)
		if err != nil {
			return nil, err
		}
		return &OrganizationComplianceView{
			OrganizationID: organizationID,
			Records:        records,
			Summary:        compliance.Aggregate(flatRecords(records)),
		}, nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return view, nil
}

// ProgramSummary aggregates compliance over every assignment in the
// tenant's program. Staff only.
func (s *ComplianceService) ProgramSummary(ctx context.Context) (*compliance.Summary, error) {
	if err := authorizeStaff(ctx); err != nil {
		return nil, err
	}

	summary, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*compliance.Summary, error) {
		assignments, err := s.assignments.List(txCtx, nil)
		if err != nil {
			return nil, err
		}
		records, err := s.classifyAll(txCtx, assignments)
		if err != nil {
			return nil, err
		}
		out := compliance.Aggregate(flatRecords(records))
		return &out, nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return summary, nil
}

// Organizations lists the tenant's organizations, optionally annotated with
// whether each one holds any assignment in the given project's subtree.
// Staff only.
func (s *ComplianceService) Organizations(ctx context.Context, projectID *uuid.UUID) ([]OrganizationView, error) {
	if err := authorizeStaff(ctx); err != nil {
		return nil, err
	}

	views, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]OrganizationView, error) {
		orgs, err := s.resolver.orgs.List(txCtx)
		if err != nil {
			return nil, err
		}
		out := make([]OrganizationView, 0, len(orgs))
		for _, org := range orgs {
			view := OrganizationView{OrganizationID: org.ID, Name: org.Name, Status: org.Status}
			if projectID != nil {
				participating, err := s.assignments.ExistsInProject(txCtx, *projectID, org.ID)
				if err != nil {
					return nil, err
				}
				view.IsParticipating = &participating
			}
			out = append(out, view)
		}
		return out, nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return views, nil
}

func (s *ComplianceService) classifyAll(ctx context.Context, assignments []*assignment.DateAssignment) ([]NodeCompliance, error) {
	if len(assignments) == 0 {
		return []NodeCompliance{}, nil
	}

	ids := make([]uuid.UUID, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.NodeID)
	}
	nodes, err := s.nodes.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*worknode.WorkNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	now := nowFn().UTC()
	records := make([]NodeCompliance, 0, len(assignments))
	for _, a := range assignments {
		node, ok := byID[a.NodeID]
		if !ok {
			return nil, worknode.ErrNotFound
		}
		records = append(records, NodeCompliance{
			NodeID:    node.ID,
			NodeName:  node.Name,
			NodeLevel: string(node.Level),
			Record:    compliance.Classify(a.Window, node.Completed, now),
		})
	}
	return records, nil
}

func flatRecords(records []NodeCompliance) []compliance.Record {
	out := make([]compliance.Record, 0, len(records))
	for _, r := range records {
		out = append(out, r.Record)
	}
	return out
}
