package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/paceline-hq/paceline/modules/program/domain/assignment"
	"github.com/paceline-hq/paceline/modules/program/domain/organization"
	"github.com/paceline-hq/paceline/modules/program/domain/worknode"
	"github.com/paceline-hq/paceline/pkg/composables"
)

var testTenantID = uuid.MustParse("6f1b0a52-7a1e-4a5a-9c70-0f6f4f9dca01")

// stubTx satisfies pgx.Tx for context injection; no method is ever called
// because RLS is disabled under test configuration.
type stubTx struct{ pgx.Tx }

func testCtx(identity composables.Identity) context.Context {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ctx := composables.WithTx(context.Background(), stubTx{})
	ctx = composables.WithTenantID(ctx, testTenantID)
	ctx = composables.WithLogger(ctx, logrus.NewEntry(logger))
	return composables.WithIdentity(ctx, identity)
}

func staffCtx() context.Context {
	return testCtx(composables.Identity{Role: composables.RoleAdministrator})
}

func memberCtx(orgID uuid.UUID) context.Context {
	return testCtx(composables.Identity{OrganizationID: orgID, Role: composables.RoleMember})
}

type mockNodeRepo struct {
	nodes map[uuid.UUID]*worknode.WorkNode
	calls int
}

func (m *mockNodeRepo) GetByID(_ context.Context, id uuid.UUID) (*worknode.WorkNode, error) {
	m.calls++
	if n, ok := m.nodes[id]; ok {
		return n, nil
	}
	return nil, worknode.ErrNotFound
}

func (m *mockNodeRepo) ListByIDs(_ context.Context, ids []uuid.UUID) ([]*worknode.WorkNode, error) {
	m.calls++
	out := make([]*worknode.WorkNode, 0, len(ids))
	for _, id := range ids {
		if n, ok := m.nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

type mockOrgRepo struct {
	orgs map[uuid.UUID]*organization.Organization
}

func (m *mockOrgRepo) GetByID(_ context.Context, id uuid.UUID) (*organization.Organization, error) {
	if o, ok := m.orgs[id]; ok {
		return o, nil
	}
	return nil, organization.ErrNotFound
}

func (m *mockOrgRepo) List(_ context.Context) ([]*organization.Organization, error) {
	out := make([]*organization.Organization, 0, len(m.orgs))
	for _, o := range m.orgs {
		out = append(out, o)
	}
	return out, nil
}

type assignmentKey struct {
	nodeID uuid.UUID
	orgID  uuid.UUID
}

type mockAssignmentRepo struct {
	rows    map[assignmentKey]*assignment.DateAssignment
	clock   time.Time
	upserts int
}

func newMockAssignmentRepo(clock time.Time) *mockAssignmentRepo {
	return &mockAssignmentRepo{
		rows:  map[assignmentKey]*assignment.DateAssignment{},
		clock: clock,
	}
}

func (m *mockAssignmentRepo) put(a *assignment.DateAssignment) {
	m.rows[assignmentKey{a.NodeID, a.OrganizationID}] = a
}

func (m *mockAssignmentRepo) Get(_ context.Context, nodeID, orgID uuid.UUID) (*assignment.DateAssignment, error) {
	if a, ok := m.rows[assignmentKey{nodeID, orgID}]; ok {
		return a, nil
	}
	return nil, assignment.ErrNotFound
}

func (m *mockAssignmentRepo) Upsert(_ context.Context, a *assignment.DateAssignment, expected *time.Time) (*assignment.DateAssignment, error) {
	key := assignmentKey{a.NodeID, a.OrganizationID}
	existing := m.rows[key]
	switch {
	case expected == nil && existing != nil:
		return nil, assignment.ErrConflict
	case expected != nil && existing == nil:
		return nil, assignment.ErrConflict
	case expected != nil && !existing.LastModified.Equal(*expected):
		return nil, assignment.ErrConflict
	}

	stored := *a
	if existing != nil {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = m.clock
	}
	stored.LastModified = m.clock
	m.rows[key] = &stored
	m.upserts++
	return &stored, nil
}

func (m *mockAssignmentRepo) List(_ context.Context, f *assignment.Filter) ([]*assignment.DateAssignment, error) {
	out := make([]*assignment.DateAssignment, 0, len(m.rows))
	for _, a := range m.rows {
		if f != nil && f.OrganizationID != nil && a.OrganizationID != *f.OrganizationID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAssignmentRepo) ExistsInProject(_ context.Context, _ uuid.UUID, orgID uuid.UUID) (bool, error) {
	for key := range m.rows {
		if key.orgID == orgID {
			return true, nil
		}
	}
	return false, nil
}

type stubPublisher struct {
	published []interface{}
}

func (s *stubPublisher) Publish(args ...interface{})     { s.published = append(s.published, args...) }
func (s *stubPublisher) Subscribe(handler interface{})   {}
func (s *stubPublisher) Unsubscribe(handler interface{}) {}
func (s *stubPublisher) Clear()                          {}
func (s *stubPublisher) SubscribersCount() int           { return 0 }
