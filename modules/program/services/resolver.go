package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/paceline-hq/paceline/modules/program/domain/assignment"
	"github.com/paceline-hq/paceline/modules/program/domain/organization"
	"github.com/paceline-hq/paceline/modules/program/domain/worknode"
)

// Resolution is the read result for one (node, organization) pair: the node,
// its own assignment and the immediate parent's assignment for the same
// organization. Transitive levels are never resolved here; each level is
// checked against its direct parent only.
type Resolution struct {
	Node             *worknode.WorkNode
	Organization     *organization.Organization
	ParentNode       *worknode.WorkNode
	SelfAssignment   *assignment.DateAssignment
	ParentAssignment *assignment.DateAssignment
}

// HierarchyResolver locates date assignments across the work hierarchy.
type HierarchyResolver struct {
	nodes       worknode.Repository
	orgs        organization.Repository
	assignments assignment.Repository
}

func NewHierarchyResolver(
	nodes worknode.Repository,
	orgs organization.Repository,
	assignments assignment.Repository,
) *HierarchyResolver {
	return &HierarchyResolver{nodes: nodes, orgs: orgs, assignments: assignments}
}

// Resolve reads the node, organization and the two relevant assignments.
// Both ids must refer to existing entities; a missing assignment is not an
// error, the corresponding field stays nil.
func (r *HierarchyResolver) Resolve(ctx context.Context, nodeID, organizationID uuid.UUID) (*Resolution, error) {
	node, err := r.nodes.GetByID(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	org, err := r.orgs.GetByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	res := &Resolution{Node: node, Organization: org}

	res.SelfAssignment, err = r.assignment(ctx, nodeID, organizationID)
	if err != nil {
		return nil, err
	}

	if node.ParentID == nil {
		return res, nil
	}
	res.ParentNode, err = r.nodes.GetByID(ctx, *node.ParentID)
	if err != nil {
		return nil, err
	}
	res.ParentAssignment, err = r.assignment(ctx, *node.ParentID, organizationID)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// RootProject walks the parent chain up to the project node. The hierarchy
// is at most three levels deep, so this is at most two hops.
func (r *HierarchyResolver) RootProject(ctx context.Context, node *worknode.WorkNode) (uuid.UUID, error) {
	current := node
	for current.ParentID != nil {
		parent, err := r.nodes.GetByID(ctx, *current.ParentID)
		if err != nil {
			return uuid.Nil, err
		}
		current = parent
	}
	return current.ID, nil
}

func (r *HierarchyResolver) assignment(ctx context.Context, nodeID, organizationID uuid.UUID) (*assignment.DateAssignment, error) {
	a, err := r.assignments.Get(ctx, nodeID, organizationID)
	if err != nil {
		if errors.Is(err, assignment.ErrNotFound) || errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}
