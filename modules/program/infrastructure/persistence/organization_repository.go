package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/paceline-hq/paceline/modules/program/domain/organization"
	"github.com/paceline-hq/paceline/pkg/composables"
)

type OrganizationRepository struct{}

func NewOrganizationRepository() organization.Repository {
	return &OrganizationRepository{}
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
SELECT tenant_id, id, name, status, created_at, updated_at
FROM organizations
WHERE tenant_id = $1 AND id = $2
`, pgUUID(tenantID), pgUUID(id))

	org, err := scanOrganization(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, organization.ErrNotFound
		}
		return nil, err
	}
	return org, nil
}

func (r *OrganizationRepository) List(ctx context.Context) ([]*organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT tenant_id, id, name, status, created_at, updated_at
FROM organizations
WHERE tenant_id = $1
ORDER BY name ASC
`, pgUUID(tenantID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*organization.Organization, 0, 16)
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, org)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func scanOrganization(row pgx.Row) (*organization.Organization, error) {
	var (
		org       organization.Organization
		tenantID  pgtype.UUID
		id        pgtype.UUID
		status    string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&tenantID, &id, &org.Name, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	org.Status = organization.Status(status)
	org.TenantID = asUUID(tenantID)
	org.ID = asUUID(id)
	org.CreatedAt = asTime(createdAt)
	org.UpdatedAt = asTime(updatedAt)
	return &org, nil
}
