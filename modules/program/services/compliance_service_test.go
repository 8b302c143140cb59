package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/paceline-hq/paceline/modules/program/domain/compliance"
	"github.com/paceline-hq/paceline/modules/program/domain/organization"
)

func (f *fixture) complianceService() *ComplianceService {
	resolver := NewHierarchyResolver(f.nodes, f.orgs, f.assignments)
	return NewComplianceService(f.nodes, f.assignments, resolver)
}

func TestOrganizationCompliance_ClassifiesAndAggregates(t *testing.T) {
	f := newFixture(t)
	// now is 2024-01-15: overdue by 10, overdue by 40, and one in the future.
	f.assign(t, f.projectID, "2023-11-01", "2024-01-05")
	f.assign(t, f.subID, "2023-11-01", "2023-12-06")
	f.assign(t, f.taskID, "2024-01-01", "2024-06-30")

	view, err := f.complianceService().OrganizationCompliance(staffCtx(), f.orgID)
	require.NoError(t, err)
	require.Equal(t, f.orgID, view.OrganizationID)
	require.Len(t, view.Records, 3)

	byNode := map[uuid.UUID]NodeCompliance{}
	for _, r := range view.Records {
		byNode[r.NodeID] = r
	}
	require.Equal(t, compliance.StatusOverdue, byNode[f.projectID].Status)
	require.Equal(t, 10, byNode[f.projectID].DelayDays)
	require.Equal(t, compliance.BandDelayed, byNode[f.projectID].Band)
	require.Equal(t, 40, byNode[f.subID].DelayDays)
	require.Equal(t, compliance.BandCritical, byNode[f.subID].Band)
	require.Equal(t, compliance.StatusOnTime, byNode[f.taskID].Status)

	require.Equal(t, 3, view.Summary.Total)
	require.Equal(t, 1, view.Summary.CompliantCount)
	require.Equal(t, 1, view.Summary.DelayedCount)
	require.Equal(t, 1, view.Summary.CriticalCount)
	require.Equal(t, 25, view.Summary.AverageDelay)
	require.Equal(t, 33, view.Summary.ComplianceRate)
}

func TestOrganizationCompliance_CompletedNodeWins(t *testing.T) {
	f := newFixture(t)
	f.nodes.nodes[f.projectID].Completed = true
	f.assign(t, f.projectID, "2023-11-01", "2024-01-05")

	view, err := f.complianceService().OrganizationCompliance(staffCtx(), f.orgID)
	require.NoError(t, err)
	require.Len(t, view.Records, 1)
	require.Equal(t, compliance.StatusCompleted, view.Records[0].Status)
	require.Equal(t, 100, view.Summary.ComplianceRate)
}

func TestOrganizationCompliance_NoAssignments(t *testing.T) {
	f := newFixture(t)

	view, err := f.complianceService().OrganizationCompliance(staffCtx(), f.orgID)
	require.NoError(t, err)
	require.Empty(t, view.Records)
	require.Equal(t, compliance.Summary{}, view.Summary)
}

func TestOrganizationCompliance_UnknownOrganization(t *testing.T) {
	f := newFixture(t)

	_, err := f.complianceService().OrganizationCompliance(staffCtx(), uuid.New())
	requireServiceError(t, err, 404, "PROGRAM_ORG_NOT_FOUND")
}

func TestOrganizationCompliance_MemberOwnOrgAllowed(t *testing.T) {
	f := newFixture(t)
	f.assign(t, f.projectID, "2024-01-01", "2024-06-30")

	view, err := f.complianceService().OrganizationCompliance(memberCtx(f.orgID), f.orgID)
	require.NoError(t, err)
	require.Len(t, view.Records, 1)
}

func TestOrganizationCompliance_MemberOtherOrgDenied(t *testing.T) {
	f := newFixture(t)

	_, err := f.complianceService().OrganizationCompliance(memberCtx(uuid.New()), f.orgID)
	requireServiceError(t, err, 403, "PROGRAM_ACCESS_DENIED")
}

func TestProgramSummary_StaffOnly(t *testing.T) {
	f := newFixture(t)

	_, err := f.complianceService().ProgramSummary(memberCtx(f.orgID))
	requireServiceError(t, err, 403, "PROGRAM_ACCESS_DENIED")
}

func TestProgramSummary_AggregatesAllOrganizations(t *testing.T) {
	f := newFixture(t)
	f.assign(t, f.projectID, "2023-11-01", "2024-01-05")
	f.assign(t, f.subID, "2024-01-01", "2024-06-30")

	summary, err := f.complianceService().ProgramSummary(staffCtx())
	require.NoError(t, err)
	require.Equal(t, 2, summary.Total)
	require.Equal(t, 1, summary.CompliantCount)
	require.Equal(t, 1, summary.DelayedCount)
	require.Equal(t, 10, summary.AverageDelay)
	require.Equal(t, 50, summary.ComplianceRate)
}

func TestProgramSummary_Empty(t *testing.T) {
	f := newFixture(t)

	summary, err := f.complianceService().ProgramSummary(staffCtx())
	require.NoError(t, err)
	require.Equal(t, compliance.Summary{}, *summary)
}

func TestOrganizations_ListsWithParticipation(t *testing.T) {
	f := newFixture(t)
	idle := uuid.New()
	f.orgs.orgs[idle] = &organization.Organization{TenantID: testTenantID, ID: idle, Name: "Borealis Civil", Status: organization.StatusInactive}
	f.assign(t, f.subID, "2024-02-01", "2024-03-01")

	views, err := f.complianceService().Organizations(staffCtx(), &f.projectID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byID := make(map[uuid.UUID]OrganizationView, len(views))
	for _, v := range views {
		byID[v.OrganizationID] = v
	}
	require.NotNil(t, byID[f.orgID].IsParticipating)
	require.True(t, *byID[f.orgID].IsParticipating)
	require.NotNil(t, byID[idle].IsParticipating)
	require.False(t, *byID[idle].IsParticipating)
	require.Equal(t, "Borealis Civil", byID[idle].Name)
	require.Equal(t, organization.StatusActive, byID[f.orgID].Status)
	require.Equal(t, organization.StatusInactive, byID[idle].Status)
}

func TestOrganizations_UnscopedOmitsParticipation(t *testing.T) {
	f := newFixture(t)

	views, err := f.complianceService().Organizations(staffCtx(), nil)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Nil(t, views[0].IsParticipating)
}

func TestOrganizations_MemberDenied(t *testing.T) {
	f := newFixture(t)

	_, err := f.complianceService().Organizations(memberCtx(f.orgID), nil)
	requireServiceError(t, err, 403, "PROGRAM_ACCESS_DENIED")
}
