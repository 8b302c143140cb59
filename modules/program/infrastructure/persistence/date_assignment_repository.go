package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/paceline-hq/paceline/modules/program/domain/assignment"
	"github.com/paceline-hq/paceline/modules/program/domain/daterange"
	"github.com/paceline-hq/paceline/pkg/composables"
)

type DateAssignmentRepository struct{}

func NewDateAssignmentRepository() assignment.Repository {
	return &DateAssignmentRepository{}
}

const assignmentColumns = `tenant_id, id, node_id, organization_id, start_date, end_date, is_flexible, last_modified, created_at`

func (r *DateAssignmentRepository) Get(ctx context.Context, nodeID, organizationID uuid.UUID) (*assignment.DateAssignment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
SELECT `+assignmentColumns+`
FROM date_assignments
WHERE tenant_id = $1 AND node_id = $2 AND organization_id = $3
`, pgUUID(tenantID), pgUUID(nodeID), pgUUID(organizationID))

	a, err := scanAssignment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, assignment.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// Upsert writes the assignment conditionally. A nil expected inserts and
// treats an already-present row as a conflict; a non-nil expected updates
// only the row whose last_modified still matches. Either way a lost race
// surfaces as ErrConflict, never as a silent overwrite.
func (r *DateAssignmentRepository) Upsert(ctx context.Context, a *assignment.DateAssignment, expected *time.Time) (*assignment.DateAssignment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	if expected == nil {
		row := tx.QueryRow(ctx, `
INSERT INTO date_assignments (tenant_id, id, node_id, organization_id, start_date, end_date, is_flexible, last_modified, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
RETURNING `+assignmentColumns+`
`, pgUUID(tenantID), pgUUID(a.ID), pgUUID(a.NodeID), pgUUID(a.OrganizationID),
			pgDatePtr(a.Window.Start()), pgDatePtr(a.Window.End()), a.Window.IsFlexible())

		stored, err := scanAssignment(row)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return nil, assignment.ErrConflict
			}
			return nil, err
		}
		return stored, nil
	}

	row := tx.QueryRow(ctx, `
UPDATE date_assignments
SET start_date = $4, end_date = $5, is_flexible = $6, last_modified = now()
WHERE tenant_id = $1 AND node_id = $2 AND organization_id = $3 AND last_modified = $7
RETURNING `+assignmentColumns+`
`, pgUUID(tenantID), pgUUID(a.NodeID), pgUUID(a.OrganizationID),
		pgDatePtr(a.Window.Start()), pgDatePtr(a.Window.End()), a.Window.IsFlexible(), *expected)

	stored, err := scanAssignment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, assignment.ErrConflict
		}
		return nil, err
	}
	return stored, nil
}

func (r *DateAssignmentRepository) List(ctx context.Context, f *assignment.Filter) ([]*assignment.DateAssignment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	query := `
SELECT ` + assignmentColumns + `
FROM date_assignments
WHERE tenant_id = $1`
	args := []any{pgUUID(tenantID)}
	if f != nil && f.OrganizationID != nil {
		args = append(args, pgUUID(*f.OrganizationID))
		query += fmt.Sprintf(" AND organization_id = $%d", len(args))
	}
	if f != nil && len(f.NodeIDs) > 0 {
		args = append(args, pgUUIDArray(f.NodeIDs))
		query += fmt.Sprintf(" AND node_id = ANY($%d)", len(args))
	}
	query += "\nORDER BY created_at ASC"

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*assignment.DateAssignment, 0, 32)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *DateAssignmentRepository) ExistsInProject(ctx context.Context, projectID, organizationID uuid.UUID) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return false, err
	}

	var exists bool
	err = tx.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1
	FROM date_assignments a
	JOIN work_nodes n
		ON n.tenant_id = a.tenant_id
		AND n.id = a.node_id
	WHERE a.tenant_id = $1
		AND a.organization_id = $2
		AND (
			n.id = $3
			OR n.parent_id = $3
			OR n.parent_id IN (
				SELECT id FROM work_nodes WHERE tenant_id = $1 AND parent_id = $3
			)
		)
)
`, pgUUID(tenantID), pgUUID(organizationID), pgUUID(projectID)).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func scanAssignment(row pgx.Row) (*assignment.DateAssignment, error) {
	var (
		a            assignment.DateAssignment
		tenantID     pgtype.UUID
		id           pgtype.UUID
		nodeID       pgtype.UUID
		orgID        pgtype.UUID
		startDate    pgtype.Date
		endDate      pgtype.Date
		isFlexible   bool
		lastModified pgtype.Timestamptz
		createdAt    pgtype.Timestamptz
	)
	if err := row.Scan(&tenantID, &id, &nodeID, &orgID, &startDate, &endDate, &isFlexible, &lastModified, &createdAt); err != nil {
		return nil, err
	}

	window, err := daterange.New(asDatePtr(startDate), asDatePtr(endDate), isFlexible)
	if err != nil {
		return nil, err
	}
	a.TenantID = asUUID(tenantID)
	a.ID = asUUID(id)
	a.NodeID = asUUID(nodeID)
	a.OrganizationID = asUUID(orgID)
	a.Window = window
	a.LastModified = asTime(lastModified)
	a.CreatedAt = asTime(createdAt)
	return &a, nil
}
